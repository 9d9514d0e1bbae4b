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

// ReferenceRepository provides database access for small reference tables,
// currently religions and education levels.
type ReferenceRepository struct {
	db *sqlx.DB
}

// NewReferenceRepository creates a new instance of ReferenceRepository.
func NewReferenceRepository(db *sqlx.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// ListReligions returns all religions ordered by name.
func (r *ReferenceRepository) ListReligions(ctx context.Context) ([]models.Religion, error) {
	var religions []models.Religion
	err := r.db.SelectContext(ctx, &religions, `SELECT id, name, created_at FROM religions ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list religions: %w", err)
	}
	return religions, nil
}

// FindReligion returns a religion by identifier.
func (r *ReferenceRepository) FindReligion(ctx context.Context, id string) (*models.Religion, error) {
	var religion models.Religion
	err := r.db.GetContext(ctx, &religion, `SELECT id, name, created_at FROM religions WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find religion: %w", err)
	}
	return &religion, nil
}

// CreateReligion inserts a religion.
func (r *ReferenceRepository) CreateReligion(ctx context.Context, religion *models.Religion) error {
	if religion.ID == "" {
		religion.ID = uuid.NewString()
	}
	if religion.CreatedAt.IsZero() {
		religion.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO religions (id, name, created_at) VALUES (:id, :name, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, religion); err != nil {
		if isUniqueViolation(err, "religions_name_key") {
			return appErrors.Clone(appErrors.ErrDuplicateName, "religion name already in use")
		}
		return fmt.Errorf("create religion: %w", err)
	}
	return nil
}

// UpdateReligion updates a religion name.
func (r *ReferenceRepository) UpdateReligion(ctx context.Context, religion *models.Religion) error {
	res, err := r.db.NamedExecContext(ctx, `UPDATE religions SET name = :name WHERE id = :id`, religion)
	if err != nil {
		if isUniqueViolation(err, "religions_name_key") {
			return appErrors.Clone(appErrors.ErrDuplicateName, "religion name already in use")
		}
		return fmt.Errorf("update religion: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update religion: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteReligion removes a religion.
func (r *ReferenceRepository) DeleteReligion(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM religions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete religion: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete religion: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListEducationLevels returns all education levels ordered by code.
func (r *ReferenceRepository) ListEducationLevels(ctx context.Context) ([]models.EducationLevel, error) {
	var levels []models.EducationLevel
	err := r.db.SelectContext(ctx, &levels, `SELECT id, code, created_at FROM education_levels ORDER BY code ASC`)
	if err != nil {
		return nil, fmt.Errorf("list education levels: %w", err)
	}
	return levels, nil
}

// FindEducationLevel returns an education level by code.
func (r *ReferenceRepository) FindEducationLevel(ctx context.Context, code string) (*models.EducationLevel, error) {
	var level models.EducationLevel
	err := r.db.GetContext(ctx, &level, `SELECT id, code, created_at FROM education_levels WHERE code = $1`, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find education level: %w", err)
	}
	return &level, nil
}

// CreateEducationLevel inserts an education level.
func (r *ReferenceRepository) CreateEducationLevel(ctx context.Context, level *models.EducationLevel) error {
	if level.ID == "" {
		level.ID = uuid.NewString()
	}
	if level.CreatedAt.IsZero() {
		level.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO education_levels (id, code, created_at) VALUES (:id, :code, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, level); err != nil {
		if isUniqueViolation(err, "education_levels_code_key") {
			return appErrors.Clone(appErrors.ErrDuplicateName, "education code already registered")
		}
		return fmt.Errorf("create education level: %w", err)
	}
	return nil
}

// UpdateEducationLevel replaces the code of an existing education level.
func (r *ReferenceRepository) UpdateEducationLevel(ctx context.Context, level *models.EducationLevel) error {
	res, err := r.db.NamedExecContext(ctx, `UPDATE education_levels SET code = :code WHERE id = :id`, level)
	if err != nil {
		if isUniqueViolation(err, "education_levels_code_key") {
			return appErrors.Clone(appErrors.ErrDuplicateName, "education code already registered")
		}
		return fmt.Errorf("update education level: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update education level: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteEducationLevel removes an education level.
func (r *ReferenceRepository) DeleteEducationLevel(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM education_levels WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("delete education level: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete education level: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
