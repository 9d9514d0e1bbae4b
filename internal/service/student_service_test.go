package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

type mockStudentRepo struct {
	students    map[string]*models.Student
	createdUser *models.User
	created     *models.Student
	createErr   error
	updated     *models.Student
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (m *mockStudentRepo) FindByNIM(ctx context.Context, nim string) (*models.Student, error) {
	for _, s := range m.students {
		if s.NIM == nim {
			return s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	for _, s := range m.students {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	out := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	student.ID = "m1"
	m.created = student
	return nil
}

func (m *mockStudentRepo) CreateWithUser(ctx context.Context, user *models.User, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "u1"
	student.ID = "m1"
	student.UserID = user.ID
	m.createdUser = user
	m.created = student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.updated = student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	delete(m.students, id)
	return nil
}

type mockTitleRepo struct {
	title string
	err   error
}

func (m *mockTitleRepo) LatestApprovedTitle(ctx context.Context, studentID string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.title, nil
}

type mockRoleFinder struct {
	roles map[string]*models.Role
}

func (m *mockRoleFinder) FindByName(ctx context.Context, name string) (*models.Role, error) {
	r, ok := m.roles[name]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return r, nil
}

func validStudentPayload() StudentPayload {
	return StudentPayload{
		NIM:       "20230001",
		FullName:  "Budi Santoso",
		Gender:    "L",
		EntryYear: 2023,
	}
}

func TestStudentServiceCreate(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, &mockTitleRepo{}, nil, "Mahasiswa", nil, nil)

	student, err := svc.Create(context.Background(), "u7", validStudentPayload())
	require.NoError(t, err)
	assert.Equal(t, "m1", student.ID)
	assert.Equal(t, "20230001", student.NIM)
	assert.Equal(t, "u7", student.UserID)

	require.NotNil(t, repo.created)
	assert.Nil(t, repo.createdUser)
}

func TestStudentServiceCreateWithoutAccount(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, &mockTitleRepo{}, nil, "Mahasiswa", nil, nil)

	student, err := svc.Create(context.Background(), "", validStudentPayload())
	require.NoError(t, err)
	assert.Empty(t, student.UserID)
	require.NotNil(t, repo.created)
}

func TestStudentServiceCreateInvalidPayload(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, &mockTitleRepo{}, nil, "Mahasiswa", nil, nil)

	payload := validStudentPayload()
	payload.Gender = "X"

	_, err := svc.Create(context.Background(), "", payload)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestStudentServiceCreateDuplicateNIM(t *testing.T) {
	repo := &mockStudentRepo{createErr: appErrors.Clone(appErrors.ErrDuplicateName, "nim already registered")}
	svc := NewStudentService(repo, &mockTitleRepo{}, nil, "Mahasiswa", nil, nil)

	_, err := svc.Create(context.Background(), "", validStudentPayload())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateName.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceRegister(t *testing.T) {
	repo := &mockStudentRepo{}
	roles := &mockRoleFinder{roles: map[string]*models.Role{
		"Mahasiswa": {ID: "r-mhs", Name: "Mahasiswa"},
	}}
	svc := NewStudentService(repo, &mockTitleRepo{}, roles, "Mahasiswa", nil, nil)

	student, err := svc.Register(context.Background(), RegisterStudentRequest{
		StudentPayload: validStudentPayload(),
		Password:       "rahasia-kampus",
	})
	require.NoError(t, err)
	assert.Equal(t, "20230001", student.NIM)

	require.NotNil(t, repo.createdUser)
	assert.Equal(t, "20230001", repo.createdUser.Username)
	require.NotNil(t, repo.createdUser.RoleID)
	assert.Equal(t, "r-mhs", *repo.createdUser.RoleID)
	assert.True(t, repo.createdUser.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.createdUser.PasswordHash), []byte("rahasia-kampus")))
}

func TestStudentServiceRegisterWithoutStudentRole(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, &mockTitleRepo{}, &mockRoleFinder{}, "Mahasiswa", nil, nil)

	_, err := svc.Register(context.Background(), RegisterStudentRequest{
		StudentPayload: validStudentPayload(),
		Password:       "rahasia-kampus",
	})
	require.NoError(t, err)
	require.NotNil(t, repo.createdUser)
	assert.Nil(t, repo.createdUser.RoleID)
}

func TestStudentServiceRegisterShortPassword(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, &mockTitleRepo{}, nil, "Mahasiswa", nil, nil)

	_, err := svc.Register(context.Background(), RegisterStudentRequest{
		StudentPayload: validStudentPayload(),
		Password:       "pendek",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceRegisterDuplicateNIM(t *testing.T) {
	repo := &mockStudentRepo{createErr: appErrors.Clone(appErrors.ErrDuplicateName, "nim already registered")}
	svc := NewStudentService(repo, &mockTitleRepo{}, nil, "Mahasiswa", nil, nil)

	_, err := svc.Register(context.Background(), RegisterStudentRequest{
		StudentPayload: validStudentPayload(),
		Password:       "rahasia-kampus",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateName.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceEffectiveTitle(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{
		"m1": {ID: "m1", NIM: "20230001", DefaultTitle: "Judul Bawaan"},
	}}

	t.Run("approved proposal wins", func(t *testing.T) {
		svc := NewStudentService(repo, &mockTitleRepo{title: "Judul Disetujui"}, nil, "Mahasiswa", nil, nil)
		title, err := svc.EffectiveTitle(context.Background(), "m1")
		require.NoError(t, err)
		assert.Equal(t, "Judul Disetujui", title)
	})

	t.Run("falls back to default title", func(t *testing.T) {
		svc := NewStudentService(repo, &mockTitleRepo{err: sql.ErrNoRows}, nil, "Mahasiswa", nil, nil)
		title, err := svc.EffectiveTitle(context.Background(), "m1")
		require.NoError(t, err)
		assert.Equal(t, "Judul Bawaan", title)
	})

	t.Run("unknown student", func(t *testing.T) {
		svc := NewStudentService(repo, &mockTitleRepo{}, nil, "Mahasiswa", nil, nil)
		_, err := svc.EffectiveTitle(context.Background(), "ghost")
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	})
}

func TestStudentServiceUpdateKeepsNIM(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{
		"m1": {ID: "m1", NIM: "20230001", FullName: "Budi Santoso", Gender: "L", EntryYear: 2023},
	}}
	svc := NewStudentService(repo, &mockTitleRepo{}, nil, "Mahasiswa", nil, nil)

	payload := validStudentPayload()
	payload.NIM = "99999999"
	payload.FullName = "Budi S. Santoso"

	student, err := svc.Update(context.Background(), "m1", payload)
	require.NoError(t, err)
	assert.Equal(t, "20230001", student.NIM)
	assert.Equal(t, "Budi S. Santoso", student.FullName)
	require.NotNil(t, repo.updated)
}
