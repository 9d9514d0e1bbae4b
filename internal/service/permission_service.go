package service

import (
	"context"
	"database/sql"
	"sort"

	"go.uber.org/zap"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

type permissionRepository interface {
	RegisterPermission(ctx context.Context, code models.PermissionCode, description string) (bool, error)
	ListPermissions(ctx context.Context) ([]models.Permission, error)
	FindByName(ctx context.Context, name string) (*models.Role, error)
	AddPermissions(ctx context.Context, roleID string, codes []models.PermissionCode) error
}

// BootstrapReport summarises a catalog seeding run.
type BootstrapReport struct {
	Created      []models.PermissionCode `json:"created"`
	Existing     []models.PermissionCode `json:"existing"`
	AssignedRole string                  `json:"assigned_role,omitempty"`
	RoleMissing  bool                    `json:"role_missing"`
}

// PermissionService seeds and lists the capability catalog.
type PermissionService struct {
	repo      permissionRepository
	adminRole string
	logger    *zap.Logger
}

// NewPermissionService constructs PermissionService. adminRole names the
// role that receives the full catalog during bootstrap.
func NewPermissionService(repo permissionRepository, adminRole string, logger *zap.Logger) *PermissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PermissionService{repo: repo, adminRole: adminRole, logger: logger}
}

// Bootstrap registers every catalog code and grants the full set to the
// administrative role. Re-running is safe: existing codes are left alone
// and grants are additive. A missing administrative role does not fail
// the run, the registration half still counts.
func (s *PermissionService) Bootstrap(ctx context.Context) (*BootstrapReport, error) {
	codes := make([]models.PermissionCode, 0, len(models.PermissionCatalog))
	for code := range models.PermissionCatalog {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	report := &BootstrapReport{}
	for _, code := range codes {
		created, err := s.repo.RegisterPermission(ctx, code, models.PermissionCatalog[code])
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register permission")
		}
		if created {
			report.Created = append(report.Created, code)
			s.logger.Info("permission registered", zap.String("code", string(code)))
		} else {
			report.Existing = append(report.Existing, code)
		}
	}

	role, err := s.repo.FindByName(ctx, s.adminRole)
	if err != nil {
		if err == sql.ErrNoRows {
			report.RoleMissing = true
			s.logger.Warn("administrative role not found, permissions registered but not assigned",
				zap.String("role", s.adminRole))
			return report, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load administrative role")
	}

	if err := s.repo.AddPermissions(ctx, role.ID, codes); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign permissions to role")
	}
	report.AssignedRole = role.Name
	s.logger.Info("catalog assigned to role", zap.String("role", role.Name), zap.Int("codes", len(codes)))
	return report, nil
}

// List returns all persisted permissions.
func (s *PermissionService) List(ctx context.Context) ([]models.Permission, error) {
	permissions, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list permissions")
	}
	return permissions, nil
}
