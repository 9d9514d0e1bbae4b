package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

type mockSupervisionLister struct {
	supervisions []models.Supervision
	filter       models.SupervisionFilter
}

func (m *mockSupervisionLister) List(ctx context.Context, filter models.SupervisionFilter) ([]models.Supervision, int, error) {
	m.filter = filter
	return m.supervisions, len(m.supervisions), nil
}

func strPtr(s string) *string { return &s }

func TestExportServiceSupervisionRosterCSV(t *testing.T) {
	repo := &mockSupervisionLister{supervisions: []models.Supervision{
		{
			ID:           "sv1",
			LecturerCode: strPtr("DSN01"),
			LecturerName: strPtr("Siti Rahma"),
			StudentNIM:   strPtr("20230001"),
			StudentName:  strPtr("Budi Santoso"),
			CreatedAt:    time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		},
	}}
	svc := NewExportService(repo, nil, nil)

	file, err := svc.SupervisionRoster(context.Background(), models.SupervisionFilter{}, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Contains(t, file.Filename, "daftar-bimbingan")

	assert.True(t, bytes.Contains(file.Content, []byte("Kode Dosen")))
	assert.True(t, bytes.Contains(file.Content, []byte("DSN01")))
	assert.True(t, bytes.Contains(file.Content, []byte("Budi Santoso")))
	assert.True(t, bytes.Contains(file.Content, []byte("2026-03-14")))

	// Exports always read the full set.
	assert.Equal(t, exportPageSize, repo.filter.PageSize)
}

func TestExportServiceStudentListCSV(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{
		"m1": {
			ID:          "m1",
			NIM:         "20230001",
			FullName:    "Budi Santoso",
			Gender:      "L",
			EntryYear:   2023,
			ProgramName: strPtr("Teknik Informatika"),
		},
	}}
	svc := NewExportService(nil, repo, nil)

	file, err := svc.StudentList(context.Background(), models.StudentFilter{}, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, bytes.Contains(file.Content, []byte("Tahun Masuk")))
	assert.True(t, bytes.Contains(file.Content, []byte("20230001")))
	assert.True(t, bytes.Contains(file.Content, []byte("Teknik Informatika")))
}

func TestExportServiceStudentListPDF(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{
		"m1": {ID: "m1", NIM: "20230001", FullName: "Budi Santoso", Gender: "L", EntryYear: 2023},
	}}
	svc := NewExportService(nil, repo, nil)

	file, err := svc.StudentList(context.Background(), models.StudentFilter{}, ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("%PDF")))
}

func TestExportServiceUnknownFormat(t *testing.T) {
	svc := NewExportService(&mockSupervisionLister{}, nil, nil)

	_, err := svc.SupervisionRoster(context.Background(), models.SupervisionFilter{}, ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
