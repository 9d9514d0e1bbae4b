package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
)

// StatsRepository aggregates counts for the dashboard.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new instance of StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Overview returns entity counts in a single round trip.
func (r *StatsRepository) Overview(ctx context.Context) (*models.DashboardStats, error) {
	const query = `SELECT
		(SELECT COUNT(*) FROM students) AS students,
		(SELECT COUNT(*) FROM lecturers) AS lecturers,
		(SELECT COUNT(*) FROM programs) AS programs,
		(SELECT COUNT(*) FROM supervisions) AS supervisions,
		(SELECT COUNT(*) FROM proposals WHERE status = 'pending') AS pending_proposals,
		(SELECT COUNT(*) FROM proposals WHERE status = 'approved') AS approved_proposals,
		(SELECT COUNT(*) FROM proposals WHERE status = 'rejected') AS rejected_proposals`

	var stats models.DashboardStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("dashboard overview: %w", err)
	}
	return &stats, nil
}

// StudentsPerProgram returns student counts grouped by study program.
func (r *StatsRepository) StudentsPerProgram(ctx context.Context) ([]models.ProgramStudentCount, error) {
	const query = `SELECT pr.id AS program_id, pr.name AS program_name, COUNT(m.id) AS students
	FROM programs pr
	LEFT JOIN students m ON m.program_id = pr.id
	GROUP BY pr.id, pr.name
	ORDER BY pr.name ASC`

	var counts []models.ProgramStudentCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("students per program: %w", err)
	}
	return counts, nil
}
