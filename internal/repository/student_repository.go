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

// StudentRepository provides database access for mahasiswa records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new instance of StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `m.id, m.nim, m.full_name, m.gender, m.birth_region_code, m.birth_date, m.address,
	m.entry_year, m.program_id, m.concentration_id, m.default_title,
	COALESCE(m.user_id::text, '') AS user_id, m.created_at, m.updated_at`

const studentSelect = `SELECT ` + studentColumns + `,
	pr.name AS program_name, k.name AS concentration_name
	FROM students m
	LEFT JOIN programs pr ON pr.id = m.program_id
	LEFT JOIN concentrations k ON k.id = m.concentration_id`

// FindByID returns a student by identifier.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := studentSelect + ` WHERE m.id = $1 LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by id: %w", err)
	}
	return &student, nil
}

// FindByNIM returns a student by registration number.
func (r *StudentRepository) FindByNIM(ctx context.Context, nim string) (*models.Student, error) {
	query := studentSelect + ` WHERE m.nim = $1 LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, nim); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by nim: %w", err)
	}
	return &student, nil
}

// FindByUserID returns the student owned by a user account, if any.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	query := studentSelect + ` WHERE m.user_id = $1 LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by user: %w", err)
	}
	return &student, nil
}

// List returns students based on filters with total count.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	conditions := " WHERE 1=1"
	var args []interface{}

	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions += fmt.Sprintf(" AND (LOWER(m.nim) LIKE $%d OR LOWER(m.full_name) LIKE $%d)", len(args), len(args))
	}
	if filter.ProgramID != "" {
		args = append(args, filter.ProgramID)
		conditions += fmt.Sprintf(" AND m.program_id = $%d", len(args))
	}
	if filter.EntryYear > 0 {
		args = append(args, filter.EntryYear)
		conditions += fmt.Sprintf(" AND m.entry_year = $%d", len(args))
	}
	if filter.Gender != "" {
		args = append(args, filter.Gender)
		conditions += fmt.Sprintf(" AND m.gender = $%d", len(args))
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"nim":        "m.nim",
		"full_name":  "m.full_name",
		"entry_year": "m.entry_year",
		"created_at": "m.created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "m.nim"
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
		studentSelect, conditions, column, sortOrder, pageSize, (page-1)*pageSize)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := `SELECT COUNT(*) FROM students m` + conditions
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// Create inserts a student row for an existing user.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now

	const query = `INSERT INTO students (id, nim, full_name, gender, birth_region_code, birth_date, address, entry_year, program_id, concentration_id, default_title, user_id, created_at, updated_at)
	VALUES (:id, :nim, :full_name, :gender, :birth_region_code, :birth_date, :address, :entry_year, :program_id, :concentration_id, :default_title, NULLIF(:user_id, '')::uuid, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		if isUniqueViolation(err, "students_nim_key") {
			return appErrors.Clone(appErrors.ErrDuplicateName, "nim already registered")
		}
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// CreateWithUser registers a student and its owning user account in one
// transaction. Either both rows exist afterwards or neither does.
func (r *StudentRepository) CreateWithUser(ctx context.Context, user *models.User, student *models.Student) (err error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	student.CreatedAt, student.UpdatedAt = now, now
	student.UserID = user.ID

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin student registration: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const userQuery = `INSERT INTO users (id, username, password_hash, full_name, role_id, division_id, is_superuser, active, created_at, updated_at)
	VALUES (:id, :username, :password_hash, :full_name, :role_id, :division_id, :is_superuser, :active, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, userQuery, user); err != nil {
		if isUniqueViolation(err, "users_username_key") {
			return appErrors.Clone(appErrors.ErrDuplicateName, "account with this nim already exists")
		}
		return fmt.Errorf("create registration user: %w", err)
	}

	const studentQuery = `INSERT INTO students (id, nim, full_name, gender, birth_region_code, birth_date, address, entry_year, program_id, concentration_id, default_title, user_id, created_at, updated_at)
	VALUES (:id, :nim, :full_name, :gender, :birth_region_code, :birth_date, :address, :entry_year, :program_id, :concentration_id, :default_title, :user_id, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, studentQuery, student); err != nil {
		if isUniqueViolation(err, "students_nim_key") {
			return appErrors.Clone(appErrors.ErrDuplicateName, "nim already registered")
		}
		return fmt.Errorf("create registration student: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit student registration: %w", err)
	}
	return nil
}

// Update updates mutable fields of a student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET full_name = :full_name, gender = :gender, birth_region_code = :birth_region_code,
	birth_date = :birth_date, address = :address, entry_year = :entry_year, program_id = :program_id,
	concentration_id = :concentration_id, default_title = :default_title, updated_at = :updated_at
	WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student. Supervisions cascade; proposals cascade with
// the student.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
