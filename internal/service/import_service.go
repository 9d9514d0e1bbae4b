package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

type importStudentRepository interface {
	FindByNIM(ctx context.Context, nim string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
}

type importLecturerRepository interface {
	Upsert(ctx context.Context, lecturer *models.Lecturer) (bool, error)
}

type importProgramRepository interface {
	FindByCode(ctx context.Context, code string) (*models.Program, error)
	Upsert(ctx context.Context, program *models.Program) (bool, error)
}

// RowError reports one rejected CSV row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportSummary reports the outcome of a bulk import run. ErrorsTruncated
// is set when more rows failed than the summary carries.
type ImportSummary struct {
	Created         int        `json:"created"`
	Updated         int        `json:"updated"`
	Errors          []RowError `json:"errors,omitempty"`
	ErrorsTruncated bool       `json:"errors_truncated"`
}

// ImportService ingests CSV files for lecturers and programs. Each row is
// mapped to the same validated payloads the single-record endpoints use,
// so import rows obey the same rules as manual entry. Rows are independent:
// a bad row is reported and skipped, never aborting the batch.
type ImportService struct {
	studentRepo  importStudentRepository
	lecturerRepo importLecturerRepository
	programRepo  importProgramRepository
	maxRowErrors int
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewImportService constructs ImportService.
func NewImportService(studentRepo importStudentRepository, lecturerRepo importLecturerRepository, programRepo importProgramRepository, maxRowErrors int, validate *validator.Validate, logger *zap.Logger) *ImportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRowErrors <= 0 {
		maxRowErrors = 20
	}
	return &ImportService{
		studentRepo:  studentRepo,
		lecturerRepo: lecturerRepo,
		programRepo:  programRepo,
		maxRowErrors: maxRowErrors,
		validator:    validate,
		logger:       logger,
	}
}

// lecturer CSV: nidn,kode_dosen,nama_dosen,gelar_depan,gelar_belakang,jk,status_aktif,jabatan_fungsional
var lecturerHeader = []string{"nidn", "kode_dosen", "nama_dosen", "gelar_depan", "gelar_belakang", "jk", "status_aktif", "jabatan_fungsional"}

// ImportLecturers ingests a lecturer CSV. Rows are matched on NIDN: a new
// NIDN creates, a known one refreshes the record.
func (s *ImportService) ImportLecturers(ctx context.Context, r io.Reader) (*ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	if err := s.expectHeader(reader, lecturerHeader); err != nil {
		return nil, err
	}

	summary := &ImportSummary{}
	errorCount := 0
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.addError(summary, &errorCount, row, "malformed csv row")
			continue
		}

		payload := LecturerPayload{
			NIDN:               strings.TrimSpace(record[0]),
			Code:               strings.TrimSpace(record[1]),
			FullName:           strings.TrimSpace(record[2]),
			FrontTitle:         optional(record[3]),
			BackTitle:          optional(record[4]),
			Gender:             strings.TrimSpace(record[5]),
			ActiveStatus:       strings.TrimSpace(record[6]),
			FunctionalPosition: optional(record[7]),
		}
		if err := s.validator.Struct(payload); err != nil {
			s.addError(summary, &errorCount, row, validationMessage(err))
			continue
		}

		lecturer := &models.Lecturer{
			NIDN:               payload.NIDN,
			Code:               payload.Code,
			FullName:           payload.FullName,
			FrontTitle:         payload.FrontTitle,
			BackTitle:          payload.BackTitle,
			Gender:             payload.Gender,
			ActiveStatus:       payload.ActiveStatus,
			FunctionalPosition: payload.FunctionalPosition,
		}
		created, err := s.lecturerRepo.Upsert(ctx, lecturer)
		if err != nil {
			s.addError(summary, &errorCount, row, "failed to persist lecturer")
			s.logger.Warn("lecturer import row failed", zap.Int("row", row), zap.Error(err))
			continue
		}
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}

	s.logger.Info("lecturer import finished",
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("errors", errorCount))
	return summary, nil
}

// program CSV: code,name
var programHeader = []string{"code", "name"}

// ImportPrograms ingests a program CSV keyed on code.
func (s *ImportService) ImportPrograms(ctx context.Context, r io.Reader) (*ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	if err := s.expectHeader(reader, programHeader); err != nil {
		return nil, err
	}

	summary := &ImportSummary{}
	errorCount := 0
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.addError(summary, &errorCount, row, "malformed csv row")
			continue
		}

		payload := ProgramPayload{
			Code: strings.TrimSpace(record[0]),
			Name: strings.TrimSpace(record[1]),
		}
		if err := s.validator.Struct(payload); err != nil {
			s.addError(summary, &errorCount, row, validationMessage(err))
			continue
		}

		program := &models.Program{Code: payload.Code, Name: payload.Name}
		created, err := s.programRepo.Upsert(ctx, program)
		if err != nil {
			s.addError(summary, &errorCount, row, "failed to persist program")
			continue
		}
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}
	return summary, nil
}

// student CSV: nim,nama_mahasiswa,jk,alamat,tahun_masuk,prodi_code,judul_skripsi
var studentHeader = []string{"nim", "nama_mahasiswa", "jk", "alamat", "tahun_masuk", "prodi_code", "judul_skripsi"}

// ImportStudents ingests a student CSV. New NIMs create student records
// (without login accounts); existing NIMs are refreshed.
func (s *ImportService) ImportStudents(ctx context.Context, r io.Reader) (*ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	if err := s.expectHeader(reader, studentHeader); err != nil {
		return nil, err
	}

	summary := &ImportSummary{}
	errorCount := 0
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.addError(summary, &errorCount, row, "malformed csv row")
			continue
		}

		entryYear, err := strconv.Atoi(strings.TrimSpace(record[4]))
		if err != nil {
			s.addError(summary, &errorCount, row, "tahun_masuk must be a number")
			continue
		}

		payload := StudentPayload{
			NIM:          strings.TrimSpace(record[0]),
			FullName:     strings.TrimSpace(record[1]),
			Gender:       strings.TrimSpace(record[2]),
			Address:      strings.TrimSpace(record[3]),
			EntryYear:    entryYear,
			DefaultTitle: strings.TrimSpace(record[6]),
		}
		if err := s.validator.Struct(payload); err != nil {
			s.addError(summary, &errorCount, row, validationMessage(err))
			continue
		}

		if code := strings.TrimSpace(record[5]); code != "" {
			program, err := s.programRepo.FindByCode(ctx, code)
			if err != nil {
				s.addError(summary, &errorCount, row, fmt.Sprintf("unknown prodi code %q", code))
				continue
			}
			payload.ProgramID = &program.ID
		}

		existing, err := s.studentRepo.FindByNIM(ctx, payload.NIM)
		if err == nil {
			existing.FullName = payload.FullName
			existing.Gender = payload.Gender
			existing.Address = payload.Address
			existing.EntryYear = payload.EntryYear
			existing.ProgramID = payload.ProgramID
			existing.DefaultTitle = payload.DefaultTitle
			if err := s.studentRepo.Update(ctx, existing); err != nil {
				s.addError(summary, &errorCount, row, "failed to update student")
				continue
			}
			summary.Updated++
			continue
		}

		student := &models.Student{
			NIM:          payload.NIM,
			FullName:     payload.FullName,
			Gender:       payload.Gender,
			Address:      payload.Address,
			EntryYear:    payload.EntryYear,
			ProgramID:    payload.ProgramID,
			DefaultTitle: payload.DefaultTitle,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.studentRepo.Create(ctx, student); err != nil {
			s.addError(summary, &errorCount, row, "failed to create student")
			continue
		}
		summary.Created++
	}
	return summary, nil
}

func (s *ImportService) expectHeader(reader *csv.Reader, want []string) error {
	header, err := reader.Read()
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "csv file is empty")
	}
	if len(header) != len(want) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("expected %d columns, got %d", len(want), len(header)))
	}
	for i, col := range want {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("expected column %q at position %d", col, i+1))
		}
	}
	return nil
}

func (s *ImportService) addError(summary *ImportSummary, count *int, row int, message string) {
	*count++
	if *count > s.maxRowErrors {
		summary.ErrorsTruncated = true
		return
	}
	summary.Errors = append(summary.Errors, RowError{Row: row, Message: message})
}

func optional(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Sprintf("invalid value for %s", strings.ToLower(verrs[0].Field()))
	}
	return "invalid row"
}
