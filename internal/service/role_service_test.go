package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

type mockRoleRepo struct {
	roles        map[string]*models.Role
	created      *models.Role
	createErr    error
	updatedCodes []models.PermissionCode
	deleted      []string

	registered  map[models.PermissionCode]bool
	findByName  map[string]*models.Role
	granted     map[string][]models.PermissionCode
	registerErr error
}

func (m *mockRoleRepo) FindByID(ctx context.Context, id string) (*models.Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return r, nil
}

func (m *mockRoleRepo) List(ctx context.Context) ([]models.Role, error) {
	out := make([]models.Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockRoleRepo) Create(ctx context.Context, role *models.Role) error {
	if m.createErr != nil {
		return m.createErr
	}
	role.ID = "r1"
	if m.roles == nil {
		m.roles = make(map[string]*models.Role)
	}
	m.roles[role.ID] = role
	m.created = role
	return nil
}

func (m *mockRoleRepo) Update(ctx context.Context, role *models.Role, codes []models.PermissionCode) error {
	m.updatedCodes = codes
	if codes != nil {
		role.Permissions = codes
	}
	m.roles[role.ID] = role
	return nil
}

func (m *mockRoleRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.roles, id)
	return nil
}

func (m *mockRoleRepo) RegisterPermission(ctx context.Context, code models.PermissionCode, description string) (bool, error) {
	if m.registerErr != nil {
		return false, m.registerErr
	}
	if m.registered == nil {
		m.registered = make(map[models.PermissionCode]bool)
	}
	if m.registered[code] {
		return false, nil
	}
	m.registered[code] = true
	return true, nil
}

func (m *mockRoleRepo) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	return nil, nil
}

func (m *mockRoleRepo) FindByName(ctx context.Context, name string) (*models.Role, error) {
	r, ok := m.findByName[name]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return r, nil
}

func (m *mockRoleRepo) AddPermissions(ctx context.Context, roleID string, codes []models.PermissionCode) error {
	if m.granted == nil {
		m.granted = make(map[string][]models.PermissionCode)
	}
	m.granted[roleID] = append(m.granted[roleID], codes...)
	return nil
}

func TestRoleServiceCreate(t *testing.T) {
	repo := &mockRoleRepo{}
	svc := NewRoleService(repo, nil, nil)

	role, err := svc.Create(context.Background(), CreateRoleRequest{
		Name:        "Kaprodi",
		Permissions: []models.PermissionCode{models.PermManageProposals, models.PermCrudStudents},
	})
	require.NoError(t, err)
	assert.Equal(t, "Kaprodi", role.Name)
	assert.Len(t, role.Permissions, 2)
}

func TestRoleServiceCreateUnknownCode(t *testing.T) {
	repo := &mockRoleRepo{}
	svc := NewRoleService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateRoleRequest{
		Name:        "Kaprodi",
		Permissions: []models.PermissionCode{"can_fly"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestRoleServiceCreateDuplicateName(t *testing.T) {
	repo := &mockRoleRepo{createErr: appErrors.Clone(appErrors.ErrDuplicateName, "")}
	svc := NewRoleService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateRoleRequest{Name: "Kaprodi"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateName.Code, appErrors.FromError(err).Code)
}

func TestRoleServiceUpdateReplacesPermissions(t *testing.T) {
	repo := &mockRoleRepo{roles: map[string]*models.Role{
		"r1": {ID: "r1", Name: "Kaprodi", Permissions: []models.PermissionCode{models.PermManageProposals, models.PermCrudStudents}},
	}}
	svc := NewRoleService(repo, nil, nil)

	role, err := svc.Update(context.Background(), "r1", UpdateRoleRequest{
		Name:        "Kaprodi",
		Permissions: []models.PermissionCode{models.PermCrudStudents},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.PermissionCode{models.PermCrudStudents}, repo.updatedCodes)
	assert.False(t, role.HasPermission(models.PermManageProposals))
	assert.True(t, role.HasPermission(models.PermCrudStudents))
}

func TestRoleServiceUpdateNilPermissionsKeepsSet(t *testing.T) {
	repo := &mockRoleRepo{roles: map[string]*models.Role{
		"r1": {ID: "r1", Name: "Kaprodi", Permissions: []models.PermissionCode{models.PermManageProposals}},
	}}
	svc := NewRoleService(repo, nil, nil)

	role, err := svc.Update(context.Background(), "r1", UpdateRoleRequest{Name: "Ketua Prodi"})
	require.NoError(t, err)
	assert.Nil(t, repo.updatedCodes)
	assert.Equal(t, "Ketua Prodi", role.Name)
	assert.True(t, role.HasPermission(models.PermManageProposals))
}

func TestRoleServiceDeleteUnknown(t *testing.T) {
	svc := NewRoleService(&mockRoleRepo{}, nil, nil)

	err := svc.Delete(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
