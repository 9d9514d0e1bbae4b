package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

// RegionRepository provides database access for the wilayah reference tree.
type RegionRepository struct {
	db *sqlx.DB
}

// NewRegionRepository creates a new instance of RegionRepository.
func NewRegionRepository(db *sqlx.DB) *RegionRepository {
	return &RegionRepository{db: db}
}

// FindByCode returns a region by its BPS code.
func (r *RegionRepository) FindByCode(ctx context.Context, code string) (*models.Region, error) {
	var region models.Region
	err := r.db.GetContext(ctx, &region, `SELECT code, name, parent_code, level FROM regions WHERE code = $1`, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find region: %w", err)
	}
	return &region, nil
}

// List returns regions filtered by parent, level, or name search. The
// dataset is static reference data so no pagination is applied.
func (r *RegionRepository) List(ctx context.Context, filter models.RegionFilter) ([]models.Region, error) {
	conditions := " WHERE 1=1"
	var args []interface{}

	if filter.ParentCode != "" {
		args = append(args, filter.ParentCode)
		conditions += fmt.Sprintf(" AND parent_code = $%d", len(args))
	}
	if filter.Level > 0 {
		args = append(args, filter.Level)
		conditions += fmt.Sprintf(" AND level = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions += fmt.Sprintf(" AND LOWER(name) LIKE $%d", len(args))
	}

	query := `SELECT code, name, parent_code, level FROM regions` + conditions + ` ORDER BY code ASC`

	var regions []models.Region
	if err := r.db.SelectContext(ctx, &regions, query, args...); err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return regions, nil
}

// Create inserts a region.
func (r *RegionRepository) Create(ctx context.Context, region *models.Region) error {
	const query = `INSERT INTO regions (code, name, parent_code, level) VALUES (:code, :name, :parent_code, :level)`
	if _, err := r.db.NamedExecContext(ctx, query, region); err != nil {
		if isUniqueViolation(err, "regions_pkey") {
			return appErrors.Clone(appErrors.ErrDuplicateName, "region code already registered")
		}
		return fmt.Errorf("create region: %w", err)
	}
	return nil
}

// Update updates a region by code.
func (r *RegionRepository) Update(ctx context.Context, region *models.Region) error {
	const query = `UPDATE regions SET name = :name, parent_code = :parent_code, level = :level WHERE code = :code`
	res, err := r.db.NamedExecContext(ctx, query, region)
	if err != nil {
		return fmt.Errorf("update region: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update region: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a region.
func (r *RegionRepository) Delete(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM regions WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("delete region: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete region: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
