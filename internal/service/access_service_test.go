package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

func TestAccessServiceAuthorize(t *testing.T) {
	svc := NewAccessService(zap.NewNop())

	roleWithPerm := &models.Role{
		ID:          "r1",
		Name:        "Staff Akademik",
		Permissions: []models.PermissionCode{models.PermManageProposals},
	}
	roleWithout := &models.Role{ID: "r2", Name: "Tamu"}

	cases := []struct {
		name      string
		principal *models.Principal
		required  models.PermissionCode
		wantCode  string
	}{
		{
			name:     "nil principal",
			required: models.PermManageProposals,
			wantCode: appErrors.ErrUnauthorized.Code,
		},
		{
			name:      "superuser bypasses role checks",
			principal: &models.Principal{UserID: "u1", IsSuperuser: true},
			required:  models.PermManageUsers,
		},
		{
			name:      "no role is denied",
			principal: &models.Principal{UserID: "u2"},
			required:  models.PermManageProposals,
			wantCode:  appErrors.ErrForbidden.Code,
		},
		{
			name:      "unknown code fails closed even for a permissive role",
			principal: &models.Principal{UserID: "u3", Role: roleWithPerm},
			required:  models.PermissionCode("can_fly"),
			wantCode:  appErrors.ErrForbidden.Code,
		},
		{
			name:      "role without the permission is denied",
			principal: &models.Principal{UserID: "u4", Role: roleWithout},
			required:  models.PermManageProposals,
			wantCode:  appErrors.ErrForbidden.Code,
		},
		{
			name:      "role with the permission is allowed",
			principal: &models.Principal{UserID: "u5", Role: roleWithPerm},
			required:  models.PermManageProposals,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Authorize(tc.principal, tc.required)
			if tc.wantCode == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.wantCode, appErrors.FromError(err).Code)
		})
	}
}

func TestAccessServiceAuthorizeAny(t *testing.T) {
	svc := NewAccessService(zap.NewNop())
	principal := &models.Principal{
		UserID: "u1",
		Role: &models.Role{
			ID:          "r1",
			Permissions: []models.PermissionCode{models.PermCrudStudents},
		},
	}

	require.NoError(t, svc.AuthorizeAny(principal, models.PermManageUsers, models.PermCrudStudents))

	err := svc.AuthorizeAny(principal, models.PermManageUsers, models.PermManageRoles)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
