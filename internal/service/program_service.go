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

type programRepository interface {
	FindByID(ctx context.Context, id string) (*models.Program, error)
	FindByCode(ctx context.Context, code string) (*models.Program, error)
	List(ctx context.Context) ([]models.Program, error)
	Create(ctx context.Context, program *models.Program) error
	Update(ctx context.Context, program *models.Program) error
	Delete(ctx context.Context, id string) error
	FindConcentration(ctx context.Context, id string) (*models.Concentration, error)
	ListConcentrations(ctx context.Context, programID string) ([]models.Concentration, error)
	CreateConcentration(ctx context.Context, concentration *models.Concentration) error
	UpdateConcentration(ctx context.Context, concentration *models.Concentration) error
	DeleteConcentration(ctx context.Context, id string) error
}

// ProgramPayload carries program fields for writes.
type ProgramPayload struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// ConcentrationPayload carries concentration fields for writes.
type ConcentrationPayload struct {
	Code      string  `json:"code" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	ProgramID *string `json:"prodi_id"`
}

// ProgramService coordinates study programs and concentrations.
type ProgramService struct {
	repo      programRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgramService constructs ProgramService.
func NewProgramService(repo programRepository, validate *validator.Validate, logger *zap.Logger) *ProgramService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, validator: validate, logger: logger}
}

// List returns all programs.
func (s *ProgramService) List(ctx context.Context) ([]models.Program, error) {
	programs, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
	}
	return programs, nil
}

// Get returns one program.
func (s *ProgramService) Get(ctx context.Context, id string) (*models.Program, error) {
	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	return program, nil
}

// Create adds a program.
func (s *ProgramService) Create(ctx context.Context, req ProgramPayload) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}

	program := &models.Program{Code: req.Code, Name: req.Name}
	if err := s.repo.Create(ctx, program); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create program")
	}
	return program, nil
}

// Update modifies a program.
func (s *ProgramService) Update(ctx context.Context, id string, req ProgramPayload) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}

	program, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	program.Code = req.Code
	program.Name = req.Name

	if err := s.repo.Update(ctx, program); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update program")
	}
	return program, nil
}

// Delete removes a program and its concentrations.
func (s *ProgramService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete program")
	}
	return nil
}

// ListConcentrations returns concentrations, optionally scoped to a program.
func (s *ProgramService) ListConcentrations(ctx context.Context, programID string) ([]models.Concentration, error) {
	concentrations, err := s.repo.ListConcentrations(ctx, programID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list concentrations")
	}
	return concentrations, nil
}

// GetConcentration returns one concentration.
func (s *ProgramService) GetConcentration(ctx context.Context, id string) (*models.Concentration, error) {
	concentration, err := s.repo.FindConcentration(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "concentration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load concentration")
	}
	return concentration, nil
}

// CreateConcentration adds a concentration.
func (s *ProgramService) CreateConcentration(ctx context.Context, req ConcentrationPayload) (*models.Concentration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid concentration payload")
	}
	if req.ProgramID != nil {
		if _, err := s.Get(ctx, *req.ProgramID); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "program does not exist")
		}
	}

	concentration := &models.Concentration{Code: req.Code, Name: req.Name, ProgramID: req.ProgramID}
	if err := s.repo.CreateConcentration(ctx, concentration); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create concentration")
	}
	return concentration, nil
}

// UpdateConcentration modifies a concentration.
func (s *ProgramService) UpdateConcentration(ctx context.Context, id string, req ConcentrationPayload) (*models.Concentration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid concentration payload")
	}

	concentration, err := s.GetConcentration(ctx, id)
	if err != nil {
		return nil, err
	}

	concentration.Code = req.Code
	concentration.Name = req.Name
	concentration.ProgramID = req.ProgramID

	if err := s.repo.UpdateConcentration(ctx, concentration); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update concentration")
	}
	return concentration, nil
}

// DeleteConcentration removes a concentration.
func (s *ProgramService) DeleteConcentration(ctx context.Context, id string) error {
	if _, err := s.GetConcentration(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteConcentration(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete concentration")
	}
	return nil
}
