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

type roleRepository interface {
	FindByID(ctx context.Context, id string) (*models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
	Create(ctx context.Context, role *models.Role) error
	Update(ctx context.Context, role *models.Role, codes []models.PermissionCode) error
	Delete(ctx context.Context, id string) error
}

// CreateRoleRequest captures role creation payload.
type CreateRoleRequest struct {
	Name        string                  `json:"name" validate:"required"`
	Description string                  `json:"description"`
	Permissions []models.PermissionCode `json:"permissions"`
}

// UpdateRoleRequest modifies a role. A non-nil Permissions slice replaces
// the entire permission set; nil leaves the set untouched.
type UpdateRoleRequest struct {
	Name        string                  `json:"name" validate:"required"`
	Description string                  `json:"description"`
	Permissions []models.PermissionCode `json:"permissions"`
}

// RoleService coordinates role management.
type RoleService struct {
	repo      roleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoleService constructs RoleService.
func NewRoleService(repo roleRepository, validate *validator.Validate, logger *zap.Logger) *RoleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{repo: repo, validator: validate, logger: logger}
}

// List returns all roles with their permission sets.
func (s *RoleService) List(ctx context.Context) ([]models.Role, error) {
	roles, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roles")
	}
	return roles, nil
}

// Get returns one role by id.
func (s *RoleService) Get(ctx context.Context, id string) (*models.Role, error) {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "role not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load role")
	}
	return role, nil
}

// Create adds a new role, optionally granting an initial permission set.
func (s *RoleService) Create(ctx context.Context, req CreateRoleRequest) (*models.Role, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role payload")
	}
	if err := validateCodes(req.Permissions); err != nil {
		return nil, err
	}

	role := &models.Role{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	}
	if err := s.repo.Create(ctx, role); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create role")
	}
	s.logger.Info("role created", zap.String("role_id", role.ID), zap.String("name", role.Name))
	return role, nil
}

// Update modifies a role. When req.Permissions is non-nil the stored set is
// replaced wholesale, so codes omitted from the request are revoked.
func (s *RoleService) Update(ctx context.Context, id string, req UpdateRoleRequest) (*models.Role, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role payload")
	}
	if err := validateCodes(req.Permissions); err != nil {
		return nil, err
	}

	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "role not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load role")
	}

	role.Name = req.Name
	role.Description = req.Description

	if err := s.repo.Update(ctx, role, req.Permissions); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update role")
	}

	return s.Get(ctx, id)
}

// Delete removes a role. Users holding the role fall back to no role and
// therefore no permissions.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "role not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load role")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete role")
	}
	s.logger.Info("role deleted", zap.String("role_id", id))
	return nil
}

func validateCodes(codes []models.PermissionCode) error {
	for _, code := range codes {
		if !models.KnownPermission(code) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown permission code %q", code))
		}
	}
	return nil
}
