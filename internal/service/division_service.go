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

type divisionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Division, error)
	List(ctx context.Context) ([]models.Division, error)
	Create(ctx context.Context, division *models.Division) error
	Update(ctx context.Context, division *models.Division) error
	Delete(ctx context.Context, id string) error
}

// DivisionPayload carries division fields for writes.
type DivisionPayload struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// DivisionService coordinates organizational divisions.
type DivisionService struct {
	repo      divisionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDivisionService constructs DivisionService.
func NewDivisionService(repo divisionRepository, validate *validator.Validate, logger *zap.Logger) *DivisionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DivisionService{repo: repo, validator: validate, logger: logger}
}

// List returns all divisions.
func (s *DivisionService) List(ctx context.Context) ([]models.Division, error) {
	divisions, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list divisions")
	}
	return divisions, nil
}

// Get returns one division.
func (s *DivisionService) Get(ctx context.Context, id string) (*models.Division, error) {
	division, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "division not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load division")
	}
	return division, nil
}

// Create adds a division.
func (s *DivisionService) Create(ctx context.Context, req DivisionPayload) (*models.Division, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid division payload")
	}

	division := &models.Division{Name: req.Name, Description: req.Description}
	if err := s.repo.Create(ctx, division); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create division")
	}
	return division, nil
}

// Update modifies a division.
func (s *DivisionService) Update(ctx context.Context, id string, req DivisionPayload) (*models.Division, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid division payload")
	}

	division, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	division.Name = req.Name
	division.Description = req.Description

	if err := s.repo.Update(ctx, division); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update division")
	}
	return division, nil
}

// Delete removes a division. Users keep their accounts without a division.
func (s *DivisionService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete division")
	}
	return nil
}
