package models

import "time"

// Religion is a reference row for user demographics.
type Religion struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EducationLevel is a fixed-vocabulary reference row.
type EducationLevel struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EducationLevelNames maps the allowed codes to display names.
var EducationLevelNames = map[string]string{
	"SD":   "Sekolah Dasar",
	"SMP":  "Sekolah Menengah Pertama",
	"SMA":  "Sekolah Menengah Atas",
	"D2":   "Diploma 2",
	"D3":   "Diploma 3",
	"D4":   "Diploma 4",
	"S1":   "Strata 1",
	"S2":   "Strata 2",
	"S3":   "Strata 3",
	"PROF": "Profesor",
}

// ValidEducationCode reports whether the code is part of the vocabulary.
func ValidEducationCode(code string) bool {
	_, ok := EducationLevelNames[code]
	return ok
}
