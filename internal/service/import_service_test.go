package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

type mockLecturerUpserter struct {
	known map[string]bool
	calls int
}

func (m *mockLecturerUpserter) Upsert(ctx context.Context, lecturer *models.Lecturer) (bool, error) {
	m.calls++
	if m.known[lecturer.NIDN] {
		return false, nil
	}
	if m.known == nil {
		m.known = make(map[string]bool)
	}
	m.known[lecturer.NIDN] = true
	return true, nil
}

type mockProgramImporter struct {
	byCode map[string]*models.Program
}

func (m *mockProgramImporter) FindByCode(ctx context.Context, code string) (*models.Program, error) {
	p, ok := m.byCode[code]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
	}
	return p, nil
}

func (m *mockProgramImporter) Upsert(ctx context.Context, program *models.Program) (bool, error) {
	if _, ok := m.byCode[program.Code]; ok {
		return false, nil
	}
	if m.byCode == nil {
		m.byCode = make(map[string]*models.Program)
	}
	program.ID = "prog-" + program.Code
	m.byCode[program.Code] = program
	return true, nil
}

func TestImportServiceLecturers(t *testing.T) {
	lecturers := &mockLecturerUpserter{known: map[string]bool{"0402118802": true}}
	svc := NewImportService(nil, lecturers, nil, 0, nil, nil)

	input := strings.Join([]string{
		"nidn,kode_dosen,nama_dosen,gelar_depan,gelar_belakang,jk,status_aktif,jabatan_fungsional",
		"0402118801,DSN01,Siti Rahma,Dr.,M.Kom,P,aktif,Lektor",
		"0402118802,DSN02,Andi Wijaya,,S.Kom,L,aktif,",
		"0402118803,DSN03,,,,,aktif,",
	}, "\n")

	summary, err := svc.ImportLecturers(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 4, summary.Errors[0].Row)
	assert.False(t, summary.ErrorsTruncated)
}

func TestImportServiceHeaderMismatch(t *testing.T) {
	svc := NewImportService(nil, &mockLecturerUpserter{}, nil, 0, nil, nil)

	input := "nidn,nama_dosen\n0402118801,Siti Rahma\n"
	_, err := svc.ImportLecturers(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestImportServiceEmptyFile(t *testing.T) {
	svc := NewImportService(nil, &mockLecturerUpserter{}, nil, 0, nil, nil)

	_, err := svc.ImportLecturers(context.Background(), strings.NewReader(""))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestImportServiceErrorTruncation(t *testing.T) {
	svc := NewImportService(nil, &mockLecturerUpserter{}, nil, 2, nil, nil)

	rows := []string{"nidn,kode_dosen,nama_dosen,gelar_depan,gelar_belakang,jk,status_aktif,jabatan_fungsional"}
	for i := 0; i < 5; i++ {
		rows = append(rows, ",,,,,,,")
	}

	summary, err := svc.ImportLecturers(context.Background(), strings.NewReader(strings.Join(rows, "\n")))
	require.NoError(t, err)
	assert.Len(t, summary.Errors, 2)
	assert.True(t, summary.ErrorsTruncated)
}

func TestImportServiceStudents(t *testing.T) {
	students := &mockStudentRepo{students: map[string]*models.Student{
		"m1": {ID: "m1", NIM: "20220001", FullName: "Nama Lama", Gender: "L", EntryYear: 2022},
	}}
	programs := &mockProgramImporter{byCode: map[string]*models.Program{
		"TI": {ID: "prog-TI", Code: "TI", Name: "Teknik Informatika"},
	}}
	svc := NewImportService(students, nil, programs, 0, nil, nil)

	input := strings.Join([]string{
		"nim,nama_mahasiswa,jk,alamat,tahun_masuk,prodi_code,judul_skripsi",
		"20230001,Budi Santoso,L,Jl. Melati 1,2023,TI,Sistem Arsip Digital",
		"20220001,Nama Baru,L,Jl. Melati 2,2022,,",
		"20230002,Rina Putri,P,Jl. Melati 3,2023,XX,",
		"20230003,Dewi Lestari,P,Jl. Melati 4,kosong,TI,",
	}, "\n")

	summary, err := svc.ImportStudents(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	require.Len(t, summary.Errors, 2)

	require.NotNil(t, students.created)
	assert.Equal(t, "20230001", students.created.NIM)
	require.NotNil(t, students.created.ProgramID)
	assert.Equal(t, "prog-TI", *students.created.ProgramID)
	assert.Empty(t, students.created.UserID)

	require.NotNil(t, students.updated)
	assert.Equal(t, "Nama Baru", students.updated.FullName)
}

func TestImportServicePrograms(t *testing.T) {
	programs := &mockProgramImporter{byCode: map[string]*models.Program{
		"TI": {ID: "prog-TI", Code: "TI", Name: "Teknik Informatika"},
	}}
	svc := NewImportService(nil, nil, programs, 0, nil, nil)

	input := "code,name\nSI,Sistem Informasi\nTI,Teknik Informatika\n"
	summary, err := svc.ImportPrograms(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	assert.Empty(t, summary.Errors)
}
