package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

type studentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByNIM(ctx context.Context, nim string) (*models.Student, error)
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	Create(ctx context.Context, student *models.Student) error
	CreateWithUser(ctx context.Context, user *models.User, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type studentTitleRepository interface {
	LatestApprovedTitle(ctx context.Context, studentID string) (string, error)
}

type studentRoleRepository interface {
	FindByName(ctx context.Context, name string) (*models.Role, error)
}

// StudentPayload carries the mutable fields of a student record.
type StudentPayload struct {
	NIM             string     `json:"nim" validate:"required"`
	FullName        string     `json:"nama_mahasiswa" validate:"required"`
	Gender          string     `json:"jk" validate:"required,oneof=L P"`
	BirthRegionCode *string    `json:"tempat_lahir"`
	BirthDate       *time.Time `json:"tgl_lahir"`
	Address         string     `json:"alamat"`
	EntryYear       int        `json:"tahun_masuk" validate:"required,min=1990"`
	ProgramID       *string    `json:"prodi_id"`
	ConcentrationID *string    `json:"konsentrasi_id"`
	DefaultTitle    string     `json:"judul_skripsi"`
}

// RegisterStudentRequest is the self registration payload. The NIM doubles
// as the login username.
type RegisterStudentRequest struct {
	StudentPayload
	Password string `json:"password" validate:"required,min=8"`
}

// CreateStudentRequest is the administrative create payload. UserID
// optionally links the record to an existing login account; left empty the
// student has no credentials until self registration.
type CreateStudentRequest struct {
	StudentPayload
	UserID string `json:"user_id"`
}

// StudentService coordinates mahasiswa records.
type StudentService struct {
	repo          studentRepository
	proposalRepo  studentTitleRepository
	roleRepo      studentRoleRepository
	studentRole   string
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewStudentService constructs StudentService. studentRole names the role
// granted to self registered accounts.
func NewStudentService(repo studentRepository, proposalRepo studentTitleRepository, roleRepo studentRoleRepository, studentRole string, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		repo:         repo,
		proposalRepo: proposalRepo,
		roleRepo:     roleRepo,
		studentRole:  studentRole,
		validator:    validate,
		logger:       logger,
	}
}

// List returns students with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create adds a student record for an already existing user account.
func (s *StudentService) Create(ctx context.Context, userID string, req StudentPayload) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student := s.fromPayload(req)
	student.UserID = userID
	if err := s.repo.Create(ctx, student); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Register performs self registration: a student account plus its student
// record in one transaction. The NIM becomes the username and the
// configured student role is attached when it exists.
func (s *StudentService) Register(ctx context.Context, req RegisterStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	var roleID *string
	if s.roleRepo != nil {
		role, err := s.roleRepo.FindByName(ctx, s.studentRole)
		if err == nil {
			roleID = &role.ID
		} else if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("student role not found, registering without role", zap.String("role", s.studentRole))
		} else {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student role")
		}
	}

	user := &models.User{
		Username:     req.NIM,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		RoleID:       roleID,
		Active:       true,
	}
	student := s.fromPayload(req.StudentPayload)

	if err := s.repo.CreateWithUser(ctx, user, student); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register student")
	}

	s.logger.Info("student registered",
		zap.String("student_id", student.ID),
		zap.String("nim", student.NIM))
	return student, nil
}

// Update modifies a student record. The NIM is immutable after creation.
func (s *StudentService) Update(ctx context.Context, id string, req StudentPayload) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	student.FullName = req.FullName
	student.Gender = req.Gender
	student.BirthRegionCode = req.BirthRegionCode
	student.BirthDate = req.BirthDate
	student.Address = req.Address
	student.EntryYear = req.EntryYear
	student.ProgramID = req.ProgramID
	student.ConcentrationID = req.ConcentrationID
	student.DefaultTitle = req.DefaultTitle

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Delete removes a student record.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}

// EffectiveTitle resolves the student's current thesis title: the most
// recently approved proposal wins, otherwise the default title from the
// student record.
func (s *StudentService) EffectiveTitle(ctx context.Context, id string) (string, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	title, err := s.proposalRepo.LatestApprovedTitle(ctx, student.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return student.DefaultTitle, nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve thesis title")
	}
	return title, nil
}

func (s *StudentService) fromPayload(req StudentPayload) *models.Student {
	return &models.Student{
		NIM:             req.NIM,
		FullName:        req.FullName,
		Gender:          req.Gender,
		BirthRegionCode: req.BirthRegionCode,
		BirthDate:       req.BirthDate,
		Address:         req.Address,
		EntryYear:       req.EntryYear,
		ProgramID:       req.ProgramID,
		ConcentrationID: req.ConcentrationID,
		DefaultTitle:    req.DefaultTitle,
	}
}
