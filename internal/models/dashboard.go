package models

import "time"

// DashboardStats aggregates entity counts for the landing dashboard.
type DashboardStats struct {
	Students          int `db:"students" json:"mahasiswa"`
	Lecturers         int `db:"lecturers" json:"dosen"`
	Programs          int `db:"programs" json:"prodi"`
	Supervisions      int `db:"supervisions" json:"bimbingan"`
	PendingProposals  int `db:"pending_proposals" json:"proposal_pending"`
	ApprovedProposals int `db:"approved_proposals" json:"proposal_approved"`
	RejectedProposals int `db:"rejected_proposals" json:"proposal_rejected"`
}

// SystemMetrics is a lightweight runtime snapshot exposed alongside the
// dashboard counts.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"avg_request_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// ProgramStudentCount reports how many students each program carries.
type ProgramStudentCount struct {
	ProgramID   string `db:"program_id" json:"program_id"`
	ProgramName string `db:"program_name" json:"program_name"`
	Students    int    `db:"students" json:"mahasiswa"`
}
