package models

import "time"

// Student represents a mahasiswa record. Each student owns exactly one user
// account; DefaultTitle is the fallback thesis title used until a proposal
// is approved.
type Student struct {
	ID              string     `db:"id" json:"id"`
	NIM             string     `db:"nim" json:"nim"`
	FullName        string     `db:"full_name" json:"nama_mahasiswa"`
	Gender          string     `db:"gender" json:"jk"`
	BirthRegionCode *string    `db:"birth_region_code" json:"tempat_lahir,omitempty"`
	BirthDate       *time.Time `db:"birth_date" json:"tgl_lahir,omitempty"`
	Address         string     `db:"address" json:"alamat"`
	EntryYear       int        `db:"entry_year" json:"tahun_masuk"`
	ProgramID       *string    `db:"program_id" json:"prodi_id,omitempty"`
	ConcentrationID *string    `db:"concentration_id" json:"konsentrasi_id,omitempty"`
	DefaultTitle    string     `db:"default_title" json:"judul_skripsi"`
	UserID          string     `db:"user_id" json:"user_id"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`

	// Joined read-only fields.
	ProgramName       *string `db:"program_name" json:"prodi,omitempty"`
	ConcentrationName *string `db:"concentration_name" json:"konsentrasi,omitempty"`
}

// StudentFilter captures list filtering for students.
type StudentFilter struct {
	Search    string
	ProgramID string
	EntryYear int
	Gender    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
