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

// LecturerRepository provides database access for dosen records.
type LecturerRepository struct {
	db *sqlx.DB
}

// NewLecturerRepository creates a new instance of LecturerRepository.
func NewLecturerRepository(db *sqlx.DB) *LecturerRepository {
	return &LecturerRepository{db: db}
}

const lecturerColumns = `d.id, d.nidn, d.code, d.full_name, d.front_title, d.back_title, d.gender,
	d.birth_region_code, d.birth_date, d.program_id, d.concentration_id, d.active_status,
	d.functional_position, d.created_at, d.updated_at`

const lecturerSelect = `SELECT ` + lecturerColumns + `, pr.name AS program_name
	FROM lecturers d
	LEFT JOIN programs pr ON pr.id = d.program_id`

// FindByID returns a lecturer by identifier.
func (r *LecturerRepository) FindByID(ctx context.Context, id string) (*models.Lecturer, error) {
	query := lecturerSelect + ` WHERE d.id = $1 LIMIT 1`
	var lecturer models.Lecturer
	if err := r.db.GetContext(ctx, &lecturer, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find lecturer: %w", err)
	}
	return &lecturer, nil
}

// FindByNIDN returns a lecturer by national lecturer number.
func (r *LecturerRepository) FindByNIDN(ctx context.Context, nidn string) (*models.Lecturer, error) {
	query := lecturerSelect + ` WHERE d.nidn = $1 LIMIT 1`
	var lecturer models.Lecturer
	if err := r.db.GetContext(ctx, &lecturer, query, nidn); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find lecturer by nidn: %w", err)
	}
	return &lecturer, nil
}

// List returns lecturers based on filters with total count.
func (r *LecturerRepository) List(ctx context.Context, filter models.LecturerFilter) ([]models.Lecturer, int, error) {
	conditions := " WHERE 1=1"
	var args []interface{}

	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions += fmt.Sprintf(" AND (LOWER(d.nidn) LIKE $%d OR LOWER(d.full_name) LIKE $%d OR LOWER(d.code) LIKE $%d)", len(args), len(args), len(args))
	}
	if filter.ProgramID != "" {
		args = append(args, filter.ProgramID)
		conditions += fmt.Sprintf(" AND d.program_id = $%d", len(args))
	}
	if filter.Gender != "" {
		args = append(args, filter.Gender)
		conditions += fmt.Sprintf(" AND d.gender = $%d", len(args))
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"nidn":       "d.nidn",
		"full_name":  "d.full_name",
		"code":       "d.code",
		"created_at": "d.created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "d.full_name"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	listQuery := fmt.Sprintf("%s%s ORDER BY %s %s LIMIT %d OFFSET %d",
		lecturerSelect, conditions, column, sortOrder, pageSize, (page-1)*pageSize)

	var lecturers []models.Lecturer
	if err := r.db.SelectContext(ctx, &lecturers, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list lecturers: %w", err)
	}

	countQuery := `SELECT COUNT(*) FROM lecturers d` + conditions
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count lecturers: %w", err)
	}
	return lecturers, total, nil
}

// Create inserts a lecturer.
func (r *LecturerRepository) Create(ctx context.Context, lecturer *models.Lecturer) error {
	if lecturer.ID == "" {
		lecturer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	lecturer.CreatedAt, lecturer.UpdatedAt = now, now

	const query = `INSERT INTO lecturers (id, nidn, code, full_name, front_title, back_title, gender, birth_region_code, birth_date, program_id, concentration_id, active_status, functional_position, created_at, updated_at)
	VALUES (:id, :nidn, :code, :full_name, :front_title, :back_title, :gender, :birth_region_code, :birth_date, :program_id, :concentration_id, :active_status, :functional_position, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lecturer); err != nil {
		if isUniqueViolation(err, "lecturers_nidn_key") {
			return appErrors.Clone(appErrors.ErrDuplicateName, "nidn already registered")
		}
		return fmt.Errorf("create lecturer: %w", err)
	}
	return nil
}

// Update updates a lecturer.
func (r *LecturerRepository) Update(ctx context.Context, lecturer *models.Lecturer) error {
	lecturer.UpdatedAt = time.Now().UTC()
	const query = `UPDATE lecturers SET code = :code, full_name = :full_name, front_title = :front_title,
	back_title = :back_title, gender = :gender, birth_region_code = :birth_region_code, birth_date = :birth_date,
	program_id = :program_id, concentration_id = :concentration_id, active_status = :active_status,
	functional_position = :functional_position, updated_at = :updated_at
	WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, lecturer)
	if err != nil {
		return fmt.Errorf("update lecturer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lecturer: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Upsert inserts a lecturer or refreshes an existing row by NIDN. Used by
// the bulk import path. Returns true when the row was newly created.
func (r *LecturerRepository) Upsert(ctx context.Context, lecturer *models.Lecturer) (bool, error) {
	if lecturer.ID == "" {
		lecturer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	lecturer.CreatedAt, lecturer.UpdatedAt = now, now

	const query = `INSERT INTO lecturers (id, nidn, code, full_name, front_title, back_title, gender, birth_region_code, birth_date, program_id, concentration_id, active_status, functional_position, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	ON CONFLICT (nidn) DO UPDATE SET
		code = EXCLUDED.code,
		full_name = EXCLUDED.full_name,
		front_title = EXCLUDED.front_title,
		back_title = EXCLUDED.back_title,
		gender = EXCLUDED.gender,
		birth_region_code = EXCLUDED.birth_region_code,
		birth_date = EXCLUDED.birth_date,
		program_id = EXCLUDED.program_id,
		concentration_id = EXCLUDED.concentration_id,
		active_status = EXCLUDED.active_status,
		functional_position = EXCLUDED.functional_position,
		updated_at = EXCLUDED.updated_at
	RETURNING id, (xmax = 0)`
	row := r.db.QueryRowxContext(ctx, query,
		lecturer.ID, lecturer.NIDN, lecturer.Code, lecturer.FullName, lecturer.FrontTitle, lecturer.BackTitle,
		lecturer.Gender, lecturer.BirthRegionCode, lecturer.BirthDate, lecturer.ProgramID, lecturer.ConcentrationID,
		lecturer.ActiveStatus, lecturer.FunctionalPosition, lecturer.CreatedAt, lecturer.UpdatedAt)
	var created bool
	if err := row.Scan(&lecturer.ID, &created); err != nil {
		return false, fmt.Errorf("upsert lecturer: %w", err)
	}
	return created, nil
}

// Delete removes a lecturer. Supervisions cascade; proposals referencing
// the lecturer as advisor keep the row with advisor_id cleared.
func (r *LecturerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lecturers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lecturer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete lecturer: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
