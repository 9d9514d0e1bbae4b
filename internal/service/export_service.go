package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
	"github.com/arsipkampus/arsip-akademik-api/pkg/export"
)

type exportSupervisionRepository interface {
	List(ctx context.Context, filter models.SupervisionFilter) ([]models.Supervision, int, error)
}

type exportStudentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
}

// ExportFormat selects the rendered document type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered document ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders supervision rosters and student lists as CSV or PDF
// downloads. Exports read the full result set, ignoring pagination.
type ExportService struct {
	supervisionRepo exportSupervisionRepository
	studentRepo     exportStudentRepository
	csv             *export.CSVExporter
	pdf             *export.PDFExporter
	logger          *zap.Logger
}

// NewExportService constructs ExportService.
func NewExportService(supervisionRepo exportSupervisionRepository, studentRepo exportStudentRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		supervisionRepo: supervisionRepo,
		studentRepo:     studentRepo,
		csv:             export.NewCSVExporter(),
		pdf:             export.NewPDFExporter(),
		logger:          logger,
	}
}

// exportPageSize is the repository page size used while draining the full
// result set for an export.
const exportPageSize = 100

// SupervisionRoster renders the advisor/student pairings.
func (s *ExportService) SupervisionRoster(ctx context.Context, filter models.SupervisionFilter, format ExportFormat) (*ExportFile, error) {
	var supervisions []models.Supervision
	filter.PageSize = exportPageSize
	for page := 1; ; page++ {
		filter.Page = page
		batch, total, err := s.supervisionRepo.List(ctx, filter)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load supervisions for export")
		}
		supervisions = append(supervisions, batch...)
		if len(batch) < exportPageSize || len(supervisions) >= total {
			break
		}
	}

	data := export.Dataset{
		Headers: []string{"Kode Dosen", "Nama Dosen", "NIM", "Nama Mahasiswa", "Sejak"},
	}
	for _, sv := range supervisions {
		data.Rows = append(data.Rows, map[string]string{
			"Kode Dosen":     deref(sv.LecturerCode),
			"Nama Dosen":     deref(sv.LecturerName),
			"NIM":            deref(sv.StudentNIM),
			"Nama Mahasiswa": deref(sv.StudentName),
			"Sejak":          sv.CreatedAt.Format("2006-01-02"),
		})
	}
	return s.render(data, "daftar-bimbingan", "Daftar Dosen Pembimbing", format)
}

// StudentList renders the student roster.
func (s *ExportService) StudentList(ctx context.Context, filter models.StudentFilter, format ExportFormat) (*ExportFile, error) {
	var students []models.Student
	filter.PageSize = exportPageSize
	for page := 1; ; page++ {
		filter.Page = page
		batch, total, err := s.studentRepo.List(ctx, filter)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students for export")
		}
		students = append(students, batch...)
		if len(batch) < exportPageSize || len(students) >= total {
			break
		}
	}

	data := export.Dataset{
		Headers: []string{"NIM", "Nama", "JK", "Tahun Masuk", "Prodi", "Judul Skripsi"},
	}
	for _, st := range students {
		data.Rows = append(data.Rows, map[string]string{
			"NIM":           st.NIM,
			"Nama":          st.FullName,
			"JK":            st.Gender,
			"Tahun Masuk":   fmt.Sprintf("%d", st.EntryYear),
			"Prodi":         deref(st.ProgramName),
			"Judul Skripsi": st.DefaultTitle,
		})
	}
	return s.render(data, "daftar-mahasiswa", "Daftar Mahasiswa", format)
}

func (s *ExportService) render(data export.Dataset, slug, title string, format ExportFormat) (*ExportFile, error) {
	stamp := time.Now().Format("20060102")
	switch format {
	case ExportFormatCSV:
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s-%s.csv", slug, stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case ExportFormatPDF:
		content, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s-%s.pdf", slug, stamp),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
