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

// DivisionRepository provides database access for organizational divisions.
type DivisionRepository struct {
	db *sqlx.DB
}

// NewDivisionRepository creates a new instance of DivisionRepository.
func NewDivisionRepository(db *sqlx.DB) *DivisionRepository {
	return &DivisionRepository{db: db}
}

// FindByID returns a division by identifier.
func (r *DivisionRepository) FindByID(ctx context.Context, id string) (*models.Division, error) {
	var division models.Division
	err := r.db.GetContext(ctx, &division, `SELECT id, name, description, created_at, updated_at FROM divisions WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find division: %w", err)
	}
	return &division, nil
}

// FindByName returns a division by its unique name.
func (r *DivisionRepository) FindByName(ctx context.Context, name string) (*models.Division, error) {
	var division models.Division
	err := r.db.GetContext(ctx, &division, `SELECT id, name, description, created_at, updated_at FROM divisions WHERE name = $1`, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find division by name: %w", err)
	}
	return &division, nil
}

// List returns all divisions ordered by name.
func (r *DivisionRepository) List(ctx context.Context) ([]models.Division, error) {
	var divisions []models.Division
	err := r.db.SelectContext(ctx, &divisions, `SELECT id, name, description, created_at, updated_at FROM divisions ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}
	return divisions, nil
}

// Create inserts a division.
func (r *DivisionRepository) Create(ctx context.Context, division *models.Division) error {
	if division.ID == "" {
		division.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if division.CreatedAt.IsZero() {
		division.CreatedAt = now
	}
	division.UpdatedAt = now
	const query = `INSERT INTO divisions (id, name, description, created_at, updated_at) VALUES (:id, :name, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, division); err != nil {
		if isUniqueViolation(err, "divisions_name_key") {
			return appErrors.Clone(appErrors.ErrDuplicateName, "division name already in use")
		}
		return fmt.Errorf("create division: %w", err)
	}
	return nil
}

// Update updates a division.
func (r *DivisionRepository) Update(ctx context.Context, division *models.Division) error {
	division.UpdatedAt = time.Now().UTC()
	const query = `UPDATE divisions SET name = :name, description = :description, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, division)
	if err != nil {
		if isUniqueViolation(err, "divisions_name_key") {
			return appErrors.Clone(appErrors.ErrDuplicateName, "division name already in use")
		}
		return fmt.Errorf("update division: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update division: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a division. Users keep their account with division_id
// cleared by the schema.
func (r *DivisionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM divisions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete division: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete division: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
