package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

type referenceRepository interface {
	ListReligions(ctx context.Context) ([]models.Religion, error)
	FindReligion(ctx context.Context, id string) (*models.Religion, error)
	CreateReligion(ctx context.Context, religion *models.Religion) error
	UpdateReligion(ctx context.Context, religion *models.Religion) error
	DeleteReligion(ctx context.Context, id string) error
	ListEducationLevels(ctx context.Context) ([]models.EducationLevel, error)
	FindEducationLevel(ctx context.Context, code string) (*models.EducationLevel, error)
	CreateEducationLevel(ctx context.Context, level *models.EducationLevel) error
	UpdateEducationLevel(ctx context.Context, level *models.EducationLevel) error
	DeleteEducationLevel(ctx context.Context, code string) error
}

// ReligionPayload carries religion fields for writes.
type ReligionPayload struct {
	Name string `json:"name" validate:"required"`
}

// EducationLevelPayload carries the education code, which must belong to
// the fixed vocabulary.
type EducationLevelPayload struct {
	Code string `json:"code" validate:"required"`
}

// ReferenceService serves small reference tables.
type ReferenceService struct {
	repo      referenceRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReferenceService constructs ReferenceService.
func NewReferenceService(repo referenceRepository, validate *validator.Validate, logger *zap.Logger) *ReferenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceService{repo: repo, validator: validate, logger: logger}
}

// ListReligions returns all religions.
func (s *ReferenceService) ListReligions(ctx context.Context) ([]models.Religion, error) {
	religions, err := s.repo.ListReligions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list religions")
	}
	return religions, nil
}

// CreateReligion adds a religion.
func (s *ReferenceService) CreateReligion(ctx context.Context, req ReligionPayload) (*models.Religion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid religion payload")
	}

	religion := &models.Religion{Name: req.Name}
	if err := s.repo.CreateReligion(ctx, religion); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create religion")
	}
	return religion, nil
}

// UpdateReligion renames a religion.
func (s *ReferenceService) UpdateReligion(ctx context.Context, id string, req ReligionPayload) (*models.Religion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid religion payload")
	}

	religion, err := s.repo.FindReligion(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "religion not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load religion")
	}

	religion.Name = req.Name
	if err := s.repo.UpdateReligion(ctx, religion); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update religion")
	}
	return religion, nil
}

// DeleteReligion removes a religion.
func (s *ReferenceService) DeleteReligion(ctx context.Context, id string) error {
	if err := s.repo.DeleteReligion(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "religion not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete religion")
	}
	return nil
}

// ListEducationLevels returns all education levels with display names.
func (s *ReferenceService) ListEducationLevels(ctx context.Context) ([]models.EducationLevel, error) {
	levels, err := s.repo.ListEducationLevels(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list education levels")
	}
	return levels, nil
}

// CreateEducationLevel registers a code from the fixed vocabulary.
func (s *ReferenceService) CreateEducationLevel(ctx context.Context, req EducationLevelPayload) (*models.EducationLevel, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid education level payload")
	}
	if !models.ValidEducationCode(req.Code) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown education code %q", req.Code))
	}

	level := &models.EducationLevel{Code: req.Code}
	if err := s.repo.CreateEducationLevel(ctx, level); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create education level")
	}
	return level, nil
}

// GetEducationLevel returns one education level by code.
func (s *ReferenceService) GetEducationLevel(ctx context.Context, code string) (*models.EducationLevel, error) {
	level, err := s.repo.FindEducationLevel(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "education level not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load education level")
	}
	return level, nil
}

// UpdateEducationLevel re-codes an education level. The new code must belong
// to the fixed vocabulary.
func (s *ReferenceService) UpdateEducationLevel(ctx context.Context, code string, req EducationLevelPayload) (*models.EducationLevel, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid education level payload")
	}
	if !models.ValidEducationCode(req.Code) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown education code %q", req.Code))
	}

	level, err := s.GetEducationLevel(ctx, code)
	if err != nil {
		return nil, err
	}

	level.Code = req.Code
	if err := s.repo.UpdateEducationLevel(ctx, level); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update education level")
	}
	return level, nil
}

// DeleteEducationLevel removes an education level.
func (s *ReferenceService) DeleteEducationLevel(ctx context.Context, code string) error {
	if err := s.repo.DeleteEducationLevel(ctx, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "education level not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete education level")
	}
	return nil
}
