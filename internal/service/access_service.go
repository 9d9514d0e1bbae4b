package service

import (
	"go.uber.org/zap"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

// AccessService evaluates whether a principal may perform a guarded
// operation. Evaluation is pure: the principal snapshot carries everything
// needed, so two checks against the same snapshot always agree.
type AccessService struct {
	logger *zap.Logger
}

// NewAccessService constructs AccessService.
func NewAccessService(logger *zap.Logger) *AccessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessService{logger: logger}
}

// Authorize runs the capability check for one required permission code.
// The rules apply in order and the first match wins:
//
//  1. a nil principal is unauthenticated and is rejected outright,
//  2. superusers pass without consulting any role,
//  3. a principal without a role holds no permissions,
//  4. codes outside the catalog never grant access,
//  5. otherwise the role's permission set decides.
func (s *AccessService) Authorize(principal *models.Principal, required models.PermissionCode) error {
	if principal == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}

	if principal.IsSuperuser {
		return nil
	}

	if principal.Role == nil {
		s.logger.Debug("access denied: principal has no role",
			zap.String("user_id", principal.UserID),
			zap.String("required", string(required)))
		return appErrors.Clone(appErrors.ErrForbidden, "you do not have permission to perform this action")
	}

	if !models.KnownPermission(required) {
		s.logger.Warn("access denied: unknown permission code requested",
			zap.String("user_id", principal.UserID),
			zap.String("required", string(required)))
		return appErrors.Clone(appErrors.ErrForbidden, "you do not have permission to perform this action")
	}

	if !principal.Role.HasPermission(required) {
		return appErrors.Clone(appErrors.ErrForbidden, "you do not have permission to perform this action")
	}

	return nil
}

// AuthorizeAny grants access when the principal holds at least one of the
// provided codes. An empty list only passes for superusers.
func (s *AccessService) AuthorizeAny(principal *models.Principal, required ...models.PermissionCode) error {
	if principal == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	if principal.IsSuperuser {
		return nil
	}
	for _, code := range required {
		if s.Authorize(principal, code) == nil {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrForbidden, "you do not have permission to perform this action")
}
