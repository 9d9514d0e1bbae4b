package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
)

func TestPermissionServiceBootstrap(t *testing.T) {
	repo := &mockRoleRepo{findByName: map[string]*models.Role{
		"Super Admin": {ID: "r-admin", Name: "Super Admin"},
	}}
	svc := NewPermissionService(repo, "Super Admin", nil)

	report, err := svc.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Created, len(models.PermissionCatalog))
	assert.Empty(t, report.Existing)
	assert.Equal(t, "Super Admin", report.AssignedRole)
	assert.False(t, report.RoleMissing)
	assert.Len(t, repo.granted["r-admin"], len(models.PermissionCatalog))
}

func TestPermissionServiceBootstrapIdempotent(t *testing.T) {
	repo := &mockRoleRepo{findByName: map[string]*models.Role{
		"Super Admin": {ID: "r-admin", Name: "Super Admin"},
	}}
	svc := NewPermissionService(repo, "Super Admin", nil)

	_, err := svc.Bootstrap(context.Background())
	require.NoError(t, err)

	report, err := svc.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Created)
	assert.Len(t, report.Existing, len(models.PermissionCatalog))
}

func TestPermissionServiceBootstrapMissingAdminRole(t *testing.T) {
	repo := &mockRoleRepo{}
	svc := NewPermissionService(repo, "Super Admin", nil)

	report, err := svc.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.True(t, report.RoleMissing)
	assert.Empty(t, report.AssignedRole)
	assert.Len(t, report.Created, len(models.PermissionCatalog))
	assert.Empty(t, repo.granted)
}
