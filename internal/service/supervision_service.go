package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

type supervisionRepository interface {
	Create(ctx context.Context, supervision *models.Supervision) error
	GetByID(ctx context.Context, id string) (*models.Supervision, error)
	List(ctx context.Context, filter models.SupervisionFilter) ([]models.Supervision, int, error)
	Delete(ctx context.Context, id string) error
}

type supervisionStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// AssignSupervisionRequest binds an advisor to a student manually, outside
// the proposal approval path.
type AssignSupervisionRequest struct {
	LecturerID string `json:"dosen_id" validate:"required"`
	StudentID  string `json:"mahasiswa_id" validate:"required"`
}

// SupervisionService coordinates advisor-student bindings.
type SupervisionService struct {
	repo         supervisionRepository
	lecturerRepo proposalLecturerRepository
	studentRepo  supervisionStudentRepository
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewSupervisionService constructs SupervisionService.
func NewSupervisionService(repo supervisionRepository, lecturerRepo proposalLecturerRepository, studentRepo supervisionStudentRepository, validate *validator.Validate, logger *zap.Logger) *SupervisionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupervisionService{
		repo:         repo,
		lecturerRepo: lecturerRepo,
		studentRepo:  studentRepo,
		validator:    validate,
		logger:       logger,
	}
}

// List returns supervisions with pagination metadata.
func (s *SupervisionService) List(ctx context.Context, filter models.SupervisionFilter) ([]models.Supervision, *models.Pagination, error) {
	supervisions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list supervisions")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return supervisions, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one supervision.
func (s *SupervisionService) Get(ctx context.Context, id string) (*models.Supervision, error) {
	supervision, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "supervision not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load supervision")
	}
	return supervision, nil
}

// Assign creates an advisor-student binding. Unlike approval side effects
// a duplicate pair here is a hard error the caller must see.
func (s *SupervisionService) Assign(ctx context.Context, req AssignSupervisionRequest) (*models.Supervision, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid supervision payload")
	}

	if s.lecturerRepo != nil {
		if _, err := s.lecturerRepo.FindByID(ctx, req.LecturerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "lecturer does not exist")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate lecturer")
		}
	}
	if s.studentRepo != nil {
		if _, err := s.studentRepo.FindByID(ctx, req.StudentID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "student does not exist")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate student")
		}
	}

	supervision := &models.Supervision{
		LecturerID: req.LecturerID,
		StudentID:  req.StudentID,
	}
	if err := s.repo.Create(ctx, supervision); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create supervision")
	}

	s.logger.Info("supervision assigned",
		zap.String("supervision_id", supervision.ID),
		zap.String("lecturer_id", supervision.LecturerID),
		zap.String("student_id", supervision.StudentID))
	return s.Get(ctx, supervision.ID)
}

// Unassign removes a binding.
func (s *SupervisionService) Unassign(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete supervision")
	}
	return nil
}
