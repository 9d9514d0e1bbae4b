package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

type lecturerRepository interface {
	FindByID(ctx context.Context, id string) (*models.Lecturer, error)
	FindByNIDN(ctx context.Context, nidn string) (*models.Lecturer, error)
	List(ctx context.Context, filter models.LecturerFilter) ([]models.Lecturer, int, error)
	Create(ctx context.Context, lecturer *models.Lecturer) error
	Update(ctx context.Context, lecturer *models.Lecturer) error
	Upsert(ctx context.Context, lecturer *models.Lecturer) (bool, error)
	Delete(ctx context.Context, id string) error
}

// LecturerPayload carries the mutable fields of a lecturer record.
type LecturerPayload struct {
	NIDN               string     `json:"nidn" validate:"required"`
	Code               string     `json:"kode_dosen" validate:"required"`
	FullName           string     `json:"nama_dosen" validate:"required"`
	FrontTitle         *string    `json:"gelar_depan"`
	BackTitle          *string    `json:"gelar_belakang"`
	Gender             string     `json:"jk" validate:"required,oneof=L P"`
	BirthRegionCode    *string    `json:"tempat_lahir"`
	BirthDate          *time.Time `json:"tgl_lahir"`
	ProgramID          *string    `json:"prodi_id"`
	ConcentrationID    *string    `json:"konsentrasi_id"`
	ActiveStatus       string     `json:"status_aktif" validate:"required"`
	FunctionalPosition *string    `json:"jabatan_fungsional"`
}

// LecturerService coordinates dosen records.
type LecturerService struct {
	repo      lecturerRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLecturerService constructs LecturerService.
func NewLecturerService(repo lecturerRepository, validate *validator.Validate, logger *zap.Logger) *LecturerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LecturerService{repo: repo, validator: validate, logger: logger}
}

// List returns lecturers with pagination metadata.
func (s *LecturerService) List(ctx context.Context, filter models.LecturerFilter) ([]models.Lecturer, *models.Pagination, error) {
	lecturers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lecturers")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return lecturers, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one lecturer by id.
func (s *LecturerService) Get(ctx context.Context, id string) (*models.Lecturer, error) {
	lecturer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecturer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecturer")
	}
	return lecturer, nil
}

// Create adds a lecturer.
func (s *LecturerService) Create(ctx context.Context, req LecturerPayload) (*models.Lecturer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lecturer payload")
	}

	lecturer := s.fromPayload(req)
	if err := s.repo.Create(ctx, lecturer); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lecturer")
	}
	return lecturer, nil
}

// Update modifies a lecturer. The NIDN is immutable after creation.
func (s *LecturerService) Update(ctx context.Context, id string, req LecturerPayload) (*models.Lecturer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lecturer payload")
	}

	lecturer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	lecturer.Code = req.Code
	lecturer.FullName = req.FullName
	lecturer.FrontTitle = req.FrontTitle
	lecturer.BackTitle = req.BackTitle
	lecturer.Gender = req.Gender
	lecturer.BirthRegionCode = req.BirthRegionCode
	lecturer.BirthDate = req.BirthDate
	lecturer.ProgramID = req.ProgramID
	lecturer.ConcentrationID = req.ConcentrationID
	lecturer.ActiveStatus = req.ActiveStatus
	lecturer.FunctionalPosition = req.FunctionalPosition

	if err := s.repo.Update(ctx, lecturer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lecturer")
	}
	return lecturer, nil
}

// Delete removes a lecturer.
func (s *LecturerService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lecturer")
	}
	return nil
}

func (s *LecturerService) fromPayload(req LecturerPayload) *models.Lecturer {
	return &models.Lecturer{
		NIDN:               req.NIDN,
		Code:               req.Code,
		FullName:           req.FullName,
		FrontTitle:         req.FrontTitle,
		BackTitle:          req.BackTitle,
		Gender:             req.Gender,
		BirthRegionCode:    req.BirthRegionCode,
		BirthDate:          req.BirthDate,
		ProgramID:          req.ProgramID,
		ConcentrationID:    req.ConcentrationID,
		ActiveStatus:       req.ActiveStatus,
		FunctionalPosition: req.FunctionalPosition,
	}
}
