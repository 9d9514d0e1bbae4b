package models

import "time"

// Lecturer represents a dosen record keyed by NIDN.
type Lecturer struct {
	ID                 string     `db:"id" json:"id"`
	NIDN               string     `db:"nidn" json:"nidn"`
	Code               string     `db:"code" json:"kode_dosen"`
	FullName           string     `db:"full_name" json:"nama_dosen"`
	FrontTitle         *string    `db:"front_title" json:"gelar_depan,omitempty"`
	BackTitle          *string    `db:"back_title" json:"gelar_belakang,omitempty"`
	Gender             string     `db:"gender" json:"jk"`
	BirthRegionCode    *string    `db:"birth_region_code" json:"tempat_lahir,omitempty"`
	BirthDate          *time.Time `db:"birth_date" json:"tgl_lahir,omitempty"`
	ProgramID          *string    `db:"program_id" json:"prodi_id,omitempty"`
	ConcentrationID    *string    `db:"concentration_id" json:"konsentrasi_id,omitempty"`
	ActiveStatus       string     `db:"active_status" json:"status_aktif"`
	FunctionalPosition *string    `db:"functional_position" json:"jabatan_fungsional,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`

	ProgramName *string `db:"program_name" json:"prodi,omitempty"`
}

// LecturerFilter captures list filtering for lecturers.
type LecturerFilter struct {
	Search    string
	ProgramID string
	Gender    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
