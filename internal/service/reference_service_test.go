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

type mockReferenceRepo struct {
	religions map[string]*models.Religion
	levels    map[string]*models.EducationLevel
	updated   *models.EducationLevel
	updateErr error
}

func (m *mockReferenceRepo) ListReligions(ctx context.Context) ([]models.Religion, error) {
	out := make([]models.Religion, 0, len(m.religions))
	for _, r := range m.religions {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockReferenceRepo) FindReligion(ctx context.Context, id string) (*models.Religion, error) {
	r, ok := m.religions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return r, nil
}

func (m *mockReferenceRepo) CreateReligion(ctx context.Context, religion *models.Religion) error {
	religion.ID = "rel-1"
	return nil
}

func (m *mockReferenceRepo) UpdateReligion(ctx context.Context, religion *models.Religion) error {
	m.religions[religion.ID] = religion
	return nil
}

func (m *mockReferenceRepo) DeleteReligion(ctx context.Context, id string) error {
	if _, ok := m.religions[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.religions, id)
	return nil
}

func (m *mockReferenceRepo) ListEducationLevels(ctx context.Context) ([]models.EducationLevel, error) {
	out := make([]models.EducationLevel, 0, len(m.levels))
	for _, l := range m.levels {
		out = append(out, *l)
	}
	return out, nil
}

func (m *mockReferenceRepo) FindEducationLevel(ctx context.Context, code string) (*models.EducationLevel, error) {
	for _, l := range m.levels {
		if l.Code == code {
			copied := *l
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockReferenceRepo) CreateEducationLevel(ctx context.Context, level *models.EducationLevel) error {
	level.ID = "edu-1"
	return nil
}

func (m *mockReferenceRepo) UpdateEducationLevel(ctx context.Context, level *models.EducationLevel) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.levels[level.ID]; !ok {
		return sql.ErrNoRows
	}
	m.levels[level.ID] = level
	m.updated = level
	return nil
}

func (m *mockReferenceRepo) DeleteEducationLevel(ctx context.Context, code string) error {
	for id, l := range m.levels {
		if l.Code == code {
			delete(m.levels, id)
			return nil
		}
	}
	return sql.ErrNoRows
}

func TestReferenceServiceUpdateEducationLevel(t *testing.T) {
	repo := &mockReferenceRepo{levels: map[string]*models.EducationLevel{
		"edu-1": {ID: "edu-1", Code: "D3"},
	}}
	svc := NewReferenceService(repo, nil, nil)

	level, err := svc.UpdateEducationLevel(context.Background(), "D3", EducationLevelPayload{Code: "D4"})
	require.NoError(t, err)
	assert.Equal(t, "edu-1", level.ID)
	assert.Equal(t, "D4", level.Code)

	require.NotNil(t, repo.updated)
	assert.Equal(t, "D4", repo.updated.Code)
}

func TestReferenceServiceUpdateEducationLevelUnknownCode(t *testing.T) {
	repo := &mockReferenceRepo{levels: map[string]*models.EducationLevel{
		"edu-1": {ID: "edu-1", Code: "D3"},
	}}
	svc := NewReferenceService(repo, nil, nil)

	_, err := svc.UpdateEducationLevel(context.Background(), "D3", EducationLevelPayload{Code: "SMK"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.updated)
}

func TestReferenceServiceUpdateEducationLevelNotFound(t *testing.T) {
	svc := NewReferenceService(&mockReferenceRepo{}, nil, nil)

	_, err := svc.UpdateEducationLevel(context.Background(), "S3", EducationLevelPayload{Code: "S2"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReferenceServiceGetEducationLevel(t *testing.T) {
	repo := &mockReferenceRepo{levels: map[string]*models.EducationLevel{
		"edu-1": {ID: "edu-1", Code: "S1"},
	}}
	svc := NewReferenceService(repo, nil, nil)

	level, err := svc.GetEducationLevel(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, "edu-1", level.ID)

	_, err = svc.GetEducationLevel(context.Background(), "S9")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
