package models

import "time"

// ProposalStatus enumerates the workflow states. Pending is the only state
// with outgoing transitions; Approved and Rejected are terminal.
type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusApproved ProposalStatus = "approved"
	ProposalStatusRejected ProposalStatus = "rejected"
)

// Terminal reports whether the status admits no further transitions.
func (s ProposalStatus) Terminal() bool {
	return s == ProposalStatusApproved || s == ProposalStatusRejected
}

// Proposal is a student's submitted thesis title awaiting review. Seq is a
// monotonic creation counter used to break ordering ties between proposals
// created in the same instant.
type Proposal struct {
	ID         string         `db:"id" json:"id"`
	Seq        int64          `db:"seq" json:"-"`
	StudentID  string         `db:"student_id" json:"mahasiswa_id"`
	Title      string         `db:"title" json:"judul"`
	Note       string         `db:"note" json:"catatan"`
	FilePath   *string        `db:"file_path" json:"-"`
	Status     ProposalStatus `db:"status" json:"status"`
	AdvisorID  *string        `db:"advisor_id" json:"dosen_pembimbing_id,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`

	// Joined read-only fields.
	StudentNIM  *string `db:"student_nim" json:"nim,omitempty"`
	StudentName *string `db:"student_name" json:"nama_mahasiswa,omitempty"`
	AdvisorName *string `db:"advisor_name" json:"dosen_pembimbing,omitempty"`
}

// ProposalFilter narrows proposal listings.
type ProposalFilter struct {
	StudentID string
	Status    ProposalStatus
	Page      int
	PageSize  int
}
