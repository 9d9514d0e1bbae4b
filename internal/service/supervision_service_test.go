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

type mockSupervisionRepo struct {
	supervisions map[string]*models.Supervision
	createErr    error
	deleted      []string
}

func (m *mockSupervisionRepo) Create(ctx context.Context, supervision *models.Supervision) error {
	if m.createErr != nil {
		return m.createErr
	}
	supervision.ID = "sv1"
	if m.supervisions == nil {
		m.supervisions = make(map[string]*models.Supervision)
	}
	m.supervisions[supervision.ID] = supervision
	return nil
}

func (m *mockSupervisionRepo) GetByID(ctx context.Context, id string) (*models.Supervision, error) {
	sv, ok := m.supervisions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return sv, nil
}

func (m *mockSupervisionRepo) List(ctx context.Context, filter models.SupervisionFilter) ([]models.Supervision, int, error) {
	out := make([]models.Supervision, 0, len(m.supervisions))
	for _, sv := range m.supervisions {
		out = append(out, *sv)
	}
	return out, len(out), nil
}

func (m *mockSupervisionRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.supervisions, id)
	return nil
}

func TestSupervisionServiceAssign(t *testing.T) {
	repo := &mockSupervisionRepo{}
	lecturers := &mockLecturerFinder{lecturers: map[string]*models.Lecturer{
		"d1": {ID: "d1", FullName: "Siti Rahma"},
	}}
	students := &mockStudentRepo{students: map[string]*models.Student{
		"m1": {ID: "m1", NIM: "20230001"},
	}}
	svc := NewSupervisionService(repo, lecturers, students, nil, nil)

	sv, err := svc.Assign(context.Background(), AssignSupervisionRequest{LecturerID: "d1", StudentID: "m1"})
	require.NoError(t, err)
	assert.Equal(t, "d1", sv.LecturerID)
	assert.Equal(t, "m1", sv.StudentID)
}

func TestSupervisionServiceAssignUnknownLecturer(t *testing.T) {
	svc := NewSupervisionService(&mockSupervisionRepo{}, &mockLecturerFinder{}, nil, nil, nil)

	_, err := svc.Assign(context.Background(), AssignSupervisionRequest{LecturerID: "ghost", StudentID: "m1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSupervisionServiceAssignUnknownStudent(t *testing.T) {
	lecturers := &mockLecturerFinder{lecturers: map[string]*models.Lecturer{
		"d1": {ID: "d1"},
	}}
	svc := NewSupervisionService(&mockSupervisionRepo{}, lecturers, &mockStudentRepo{}, nil, nil)

	_, err := svc.Assign(context.Background(), AssignSupervisionRequest{LecturerID: "d1", StudentID: "ghost"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSupervisionServiceAssignDuplicatePair(t *testing.T) {
	repo := &mockSupervisionRepo{createErr: appErrors.Clone(appErrors.ErrDuplicateAssignment, "")}
	lecturers := &mockLecturerFinder{lecturers: map[string]*models.Lecturer{
		"d1": {ID: "d1"},
	}}
	students := &mockStudentRepo{students: map[string]*models.Student{
		"m1": {ID: "m1"},
	}}
	svc := NewSupervisionService(repo, lecturers, students, nil, nil)

	_, err := svc.Assign(context.Background(), AssignSupervisionRequest{LecturerID: "d1", StudentID: "m1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateAssignment.Code, appErrors.FromError(err).Code)
}

func TestSupervisionServiceUnassign(t *testing.T) {
	repo := &mockSupervisionRepo{supervisions: map[string]*models.Supervision{
		"sv1": {ID: "sv1", LecturerID: "d1", StudentID: "m1"},
	}}
	svc := NewSupervisionService(repo, nil, nil, nil, nil)

	require.NoError(t, svc.Unassign(context.Background(), "sv1"))
	assert.Equal(t, []string{"sv1"}, repo.deleted)

	err := svc.Unassign(context.Background(), "sv1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
