package models

import "time"

// Supervision is the durable binding of one advisor (dosen) to one student
// (bimbingan). The (lecturer, student) pair is unique; the originating
// proposal reference may be cleared without dissolving the relationship.
type Supervision struct {
	ID         string    `db:"id" json:"id"`
	LecturerID string    `db:"lecturer_id" json:"dosen_id"`
	StudentID  string    `db:"student_id" json:"mahasiswa_id"`
	ProposalID *string   `db:"proposal_id" json:"proposal_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`

	// Joined read-only fields.
	LecturerCode *string `db:"lecturer_code" json:"kode_dosen,omitempty"`
	LecturerName *string `db:"lecturer_name" json:"nama_dosen,omitempty"`
	StudentNIM   *string `db:"student_nim" json:"nim,omitempty"`
	StudentName  *string `db:"student_name" json:"nama_mahasiswa,omitempty"`
}

// SupervisionFilter narrows supervision listings.
type SupervisionFilter struct {
	Search     string
	LecturerID string
	StudentID  string
	Page       int
	PageSize   int
}
