package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

// SupervisionRepository maintains the (lecturer, student) binding set.
type SupervisionRepository struct {
	db *sqlx.DB
}

// NewSupervisionRepository constructs the repository.
func NewSupervisionRepository(db *sqlx.DB) *SupervisionRepository {
	return &SupervisionRepository{db: db}
}

const supervisionSelect = `SELECT b.id, b.lecturer_id, b.student_id, b.proposal_id, b.created_at,
	d.code AS lecturer_code, d.full_name AS lecturer_name,
	m.nim AS student_nim, m.full_name AS student_name
	FROM supervisions b
	JOIN lecturers d ON d.id = b.lecturer_id
	JOIN students m ON m.id = b.student_id`

// Create inserts an administrative supervision binding. A duplicate
// (lecturer, student) pair is a hard error here, unlike the approval-driven
// upsert which treats it as a no-op.
func (r *SupervisionRepository) Create(ctx context.Context, supervision *models.Supervision) error {
	if supervision.ID == "" {
		supervision.ID = uuid.NewString()
	}
	if supervision.CreatedAt.IsZero() {
		supervision.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO supervisions (id, lecturer_id, student_id, proposal_id, created_at)
	VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query,
		supervision.ID, supervision.LecturerID, supervision.StudentID, supervision.ProposalID, supervision.CreatedAt); err != nil {
		if isUniqueViolation(err, "supervisions_lecturer_student_key") {
			return appErrors.ErrDuplicateAssignment
		}
		return fmt.Errorf("create supervision: %w", err)
	}
	return nil
}

// GetByID fetches a supervision binding.
func (r *SupervisionRepository) GetByID(ctx context.Context, id string) (*models.Supervision, error) {
	query := supervisionSelect + ` WHERE b.id = $1 LIMIT 1`
	var supervision models.Supervision
	if err := r.db.GetContext(ctx, &supervision, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find supervision: %w", err)
	}
	return &supervision, nil
}

// List returns supervision bindings with joined names.
func (r *SupervisionRepository) List(ctx context.Context, filter models.SupervisionFilter) ([]models.Supervision, int, error) {
	conditions := " WHERE 1=1"
	var args []interface{}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions += fmt.Sprintf(" AND (LOWER(d.full_name) LIKE $%d OR LOWER(m.full_name) LIKE $%d OR LOWER(m.nim) LIKE $%d)", len(args), len(args), len(args))
	}
	if filter.LecturerID != "" {
		args = append(args, filter.LecturerID)
		conditions += fmt.Sprintf(" AND b.lecturer_id = $%d", len(args))
	}
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		conditions += fmt.Sprintf(" AND b.student_id = $%d", len(args))
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	listQuery := fmt.Sprintf("%s%s ORDER BY b.created_at DESC LIMIT %d OFFSET %d",
		supervisionSelect, conditions, pageSize, (page-1)*pageSize)

	var supervisions []models.Supervision
	if err := r.db.SelectContext(ctx, &supervisions, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list supervisions: %w", err)
	}

	countQuery := `SELECT COUNT(*) FROM supervisions b
	JOIN lecturers d ON d.id = b.lecturer_id
	JOIN students m ON m.id = b.student_id` + conditions
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count supervisions: %w", err)
	}
	return supervisions, total, nil
}

// Delete removes a supervision binding.
func (r *SupervisionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM supervisions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete supervision: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete supervision: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
