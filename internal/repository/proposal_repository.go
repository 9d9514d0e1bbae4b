package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

// ProposalRepository persists the thesis proposal workflow. Submissions and
// transitions run inside transactions so the single-pending-per-student and
// unique-supervision invariants hold under concurrent requests.
type ProposalRepository struct {
	db *sqlx.DB
}

// NewProposalRepository constructs the repository.
func NewProposalRepository(db *sqlx.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

const proposalColumns = `p.id, p.seq, p.student_id, p.title, p.note, p.file_path, p.status, p.advisor_id, p.created_at, p.updated_at`

const proposalSelect = `SELECT ` + proposalColumns + `,
	m.nim AS student_nim, m.full_name AS student_name, d.full_name AS advisor_name
	FROM proposals p
	JOIN students m ON m.id = p.student_id
	LEFT JOIN lecturers d ON d.id = p.advisor_id`

// Submit inserts a pending proposal for the student. The student row is
// locked for the duration of the check-and-insert so two concurrent
// submissions serialise; a partial unique index on (student_id) WHERE
// status = 'pending' backs the same invariant at schema level.
func (r *ProposalRepository) Submit(ctx context.Context, proposal *models.Proposal) (err error) {
	if proposal.ID == "" {
		proposal.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	proposal.Status = models.ProposalStatusPending
	proposal.CreatedAt = now
	proposal.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin proposal submit: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var studentID string
	if err = tx.GetContext(ctx, &studentID, `SELECT id FROM students WHERE id = $1 FOR UPDATE`, proposal.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return fmt.Errorf("lock student: %w", err)
	}

	var pending int
	if err = tx.GetContext(ctx, &pending, `SELECT COUNT(*) FROM proposals WHERE student_id = $1 AND status = $2`, proposal.StudentID, models.ProposalStatusPending); err != nil {
		return fmt.Errorf("count pending proposals: %w", err)
	}
	if pending > 0 {
		err = appErrors.ErrConflictingProposal
		return err
	}

	const insertQuery = `INSERT INTO proposals (id, student_id, title, note, file_path, status, advisor_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING seq`
	if err = tx.GetContext(ctx, &proposal.Seq, insertQuery,
		proposal.ID, proposal.StudentID, proposal.Title, proposal.Note, proposal.FilePath,
		proposal.Status, proposal.AdvisorID, proposal.CreatedAt, proposal.UpdatedAt); err != nil {
		if isUniqueViolation(err, "proposals_one_pending_per_student") {
			return appErrors.ErrConflictingProposal
		}
		return fmt.Errorf("insert proposal: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit proposal submit: %w", err)
	}
	return nil
}

// GetByID fetches a proposal with joined student and advisor names.
func (r *ProposalRepository) GetByID(ctx context.Context, id string) (*models.Proposal, error) {
	query := proposalSelect + ` WHERE p.id = $1 LIMIT 1`
	var proposal models.Proposal
	if err := r.db.GetContext(ctx, &proposal, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find proposal: %w", err)
	}
	return &proposal, nil
}

// List returns proposals matching the filter, newest first.
func (r *ProposalRepository) List(ctx context.Context, filter models.ProposalFilter) ([]models.Proposal, int, error) {
	conditions := " WHERE 1=1"
	var args []interface{}
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		conditions += fmt.Sprintf(" AND p.student_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions += fmt.Sprintf(" AND p.status = $%d", len(args))
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	listQuery := fmt.Sprintf("%s%s ORDER BY p.created_at DESC, p.seq DESC LIMIT %d OFFSET %d",
		proposalSelect, conditions, pageSize, (page-1)*pageSize)

	var proposals []models.Proposal
	if err := r.db.SelectContext(ctx, &proposals, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list proposals: %w", err)
	}

	countQuery := "SELECT COUNT(*) FROM proposals p" + conditions
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count proposals: %w", err)
	}
	return proposals, total, nil
}

// Approve flips a pending proposal to approved and, when an advisor is
// designated, upserts the supervision binding in the same transaction. A
// pre-existing (lecturer, student) pair from an earlier approval is left
// alone rather than treated as an error, so re-approving with the same
// advisor stays idempotent. The status flip and the binding commit or roll
// back together.
func (r *ProposalRepository) Approve(ctx context.Context, id string, note string, advisorID *string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin proposal approve: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current struct {
		StudentID string                `db:"student_id"`
		Status    models.ProposalStatus `db:"status"`
	}
	if err = tx.GetContext(ctx, &current, `SELECT student_id, status FROM proposals WHERE id = $1 FOR UPDATE`, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "proposal not found")
		}
		return fmt.Errorf("lock proposal: %w", err)
	}
	if current.Status != models.ProposalStatusPending {
		err = appErrors.ErrInvalidTransition
		return err
	}

	now := time.Now().UTC()
	const updateQuery = `UPDATE proposals SET status = $2, note = $3, advisor_id = $4, updated_at = $5 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updateQuery, id, models.ProposalStatusApproved, note, advisorID, now); err != nil {
		return fmt.Errorf("approve proposal: %w", err)
	}

	if advisorID != nil {
		const upsertQuery = `INSERT INTO supervisions (id, lecturer_id, student_id, proposal_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (lecturer_id, student_id) DO NOTHING`
		if _, err = tx.ExecContext(ctx, upsertQuery, uuid.NewString(), *advisorID, current.StudentID, id, now); err != nil {
			return fmt.Errorf("upsert supervision: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit proposal approve: %w", err)
	}
	return nil
}

// Reject flips a pending proposal to rejected with the stated reason.
func (r *ProposalRepository) Reject(ctx context.Context, id string, note string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin proposal reject: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var status models.ProposalStatus
	if err = tx.GetContext(ctx, &status, `SELECT status FROM proposals WHERE id = $1 FOR UPDATE`, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "proposal not found")
		}
		return fmt.Errorf("lock proposal: %w", err)
	}
	if status != models.ProposalStatusPending {
		err = appErrors.ErrInvalidTransition
		return err
	}

	const updateQuery = `UPDATE proposals SET status = $2, note = $3, updated_at = $4 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updateQuery, id, models.ProposalStatusRejected, note, time.Now().UTC()); err != nil {
		return fmt.Errorf("reject proposal: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit proposal reject: %w", err)
	}
	return nil
}

// SetFilePath attaches a stored file reference to a proposal.
func (r *ProposalRepository) SetFilePath(ctx context.Context, id, path string) error {
	const query = `UPDATE proposals SET file_path = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, path, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set proposal file: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set proposal file: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a proposal. Supervisions referencing it keep the binding
// with a cleared proposal reference via ON DELETE SET NULL.
func (r *ProposalRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete proposal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete proposal: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// LatestApprovedTitle returns the title of the student's most recently
// approved proposal. Ordering is by creation time with the monotonic seq
// column breaking ties.
func (r *ProposalRepository) LatestApprovedTitle(ctx context.Context, studentID string) (string, error) {
	const query = `SELECT title FROM proposals
	WHERE student_id = $1 AND status = $2
	ORDER BY created_at DESC, seq DESC LIMIT 1`
	var title string
	if err := r.db.GetContext(ctx, &title, query, studentID, models.ProposalStatusApproved); err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}
		return "", fmt.Errorf("latest approved title: %w", err)
	}
	return title, nil
}
