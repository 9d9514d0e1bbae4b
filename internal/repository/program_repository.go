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

// ProgramRepository provides database access for study programs and their
// concentrations.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository creates a new instance of ProgramRepository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

const programColumns = `id, code, name, created_at, updated_at`

// FindByID returns a program by identifier.
func (r *ProgramRepository) FindByID(ctx context.Context, id string) (*models.Program, error) {
	var program models.Program
	err := r.db.GetContext(ctx, &program, `SELECT `+programColumns+` FROM programs WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find program: %w", err)
	}
	return &program, nil
}

// FindByCode returns a program by its unique code.
func (r *ProgramRepository) FindByCode(ctx context.Context, code string) (*models.Program, error) {
	var program models.Program
	err := r.db.GetContext(ctx, &program, `SELECT `+programColumns+` FROM programs WHERE code = $1`, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find program by code: %w", err)
	}
	return &program, nil
}

// List returns all programs ordered by name.
func (r *ProgramRepository) List(ctx context.Context) ([]models.Program, error) {
	var programs []models.Program
	err := r.db.SelectContext(ctx, &programs, `SELECT `+programColumns+` FROM programs ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// Create inserts a program.
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	if program.ID == "" {
		program.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if program.CreatedAt.IsZero() {
		program.CreatedAt = now
	}
	program.UpdatedAt = now
	const query = `INSERT INTO programs (id, code, name, created_at, updated_at) VALUES (:id, :code, :name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, program); err != nil {
		if isUniqueViolation(err, "programs_code_key") {
			return appErrors.Clone(appErrors.ErrDuplicateName, "program code already in use")
		}
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}

// Upsert inserts a program or refreshes an existing row by code. Used by
// the bulk import path. Returns whether the row was created.
func (r *ProgramRepository) Upsert(ctx context.Context, program *models.Program) (bool, error) {
	if program.ID == "" {
		program.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if program.CreatedAt.IsZero() {
		program.CreatedAt = now
	}
	program.UpdatedAt = now
	const query = `INSERT INTO programs (id, code, name, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at
	RETURNING id, (xmax = 0)`
	row := r.db.QueryRowxContext(ctx, query, program.ID, program.Code, program.Name, program.CreatedAt, program.UpdatedAt)
	var created bool
	if err := row.Scan(&program.ID, &created); err != nil {
		return false, fmt.Errorf("upsert program: %w", err)
	}
	return created, nil
}

// Update updates a program.
func (r *ProgramRepository) Update(ctx context.Context, program *models.Program) error {
	program.UpdatedAt = time.Now().UTC()
	const query = `UPDATE programs SET code = :code, name = :name, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, program)
	if err != nil {
		if isUniqueViolation(err, "programs_code_key") {
			return appErrors.Clone(appErrors.ErrDuplicateName, "program code already in use")
		}
		return fmt.Errorf("update program: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update program: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a program and its concentrations.
func (r *ProgramRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM programs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const concentrationSelect = `SELECT k.id, k.code, k.name, k.program_id, k.created_at, k.updated_at, pr.name AS program_name
	FROM concentrations k
	LEFT JOIN programs pr ON pr.id = k.program_id`

// FindConcentration returns a concentration by identifier.
func (r *ProgramRepository) FindConcentration(ctx context.Context, id string) (*models.Concentration, error) {
	var concentration models.Concentration
	if err := r.db.GetContext(ctx, &concentration, concentrationSelect+` WHERE k.id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find concentration: %w", err)
	}
	return &concentration, nil
}

// ListConcentrations returns concentrations, optionally scoped to a program.
func (r *ProgramRepository) ListConcentrations(ctx context.Context, programID string) ([]models.Concentration, error) {
	query := concentrationSelect
	var args []interface{}
	if programID != "" {
		query += ` WHERE k.program_id = $1`
		args = append(args, programID)
	}
	query += ` ORDER BY k.name ASC`

	var concentrations []models.Concentration
	if err := r.db.SelectContext(ctx, &concentrations, query, args...); err != nil {
		return nil, fmt.Errorf("list concentrations: %w", err)
	}
	return concentrations, nil
}

// CreateConcentration inserts a concentration under a program.
func (r *ProgramRepository) CreateConcentration(ctx context.Context, concentration *models.Concentration) error {
	if concentration.ID == "" {
		concentration.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if concentration.CreatedAt.IsZero() {
		concentration.CreatedAt = now
	}
	concentration.UpdatedAt = now
	const query = `INSERT INTO concentrations (id, code, name, program_id, created_at, updated_at)
	VALUES (:id, :code, :name, :program_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, concentration); err != nil {
		if isUniqueViolation(err, "concentrations_code_key") {
			return appErrors.Clone(appErrors.ErrDuplicateName, "concentration code already in use")
		}
		return fmt.Errorf("create concentration: %w", err)
	}
	return nil
}

// UpdateConcentration updates a concentration.
func (r *ProgramRepository) UpdateConcentration(ctx context.Context, concentration *models.Concentration) error {
	concentration.UpdatedAt = time.Now().UTC()
	const query = `UPDATE concentrations SET code = :code, name = :name, program_id = :program_id, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, concentration)
	if err != nil {
		if isUniqueViolation(err, "concentrations_code_key") {
			return appErrors.Clone(appErrors.ErrDuplicateName, "concentration code already in use")
		}
		return fmt.Errorf("update concentration: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update concentration: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteConcentration removes a concentration.
func (r *ProgramRepository) DeleteConcentration(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM concentrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete concentration: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete concentration: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
