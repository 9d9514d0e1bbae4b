package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	"github.com/arsipkampus/arsip-akademik-api/internal/service"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
	"github.com/arsipkampus/arsip-akademik-api/pkg/response"
)

// TransferHandler exposes bulk CSV import and roster export endpoints.
type TransferHandler struct {
	imports *service.ImportService
	exports *service.ExportService
}

// NewTransferHandler constructs a transfer handler.
func NewTransferHandler(imports *service.ImportService, exports *service.ExportService) *TransferHandler {
	return &TransferHandler{imports: imports, exports: exports}
}

// ImportLecturers godoc
// @Summary Bulk import lecturers from CSV
// @Description Rows are upserted by NIDN; bad rows are reported and skipped
// @Tags Transfer
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Router /import/lecturers [post]
func (h *TransferHandler) ImportLecturers(c *gin.Context) {
	file, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	summary, err := h.imports.ImportLecturers(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// ImportStudents godoc
// @Summary Bulk import students from CSV
// @Tags Transfer
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Router /import/students [post]
func (h *TransferHandler) ImportStudents(c *gin.Context) {
	file, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	summary, err := h.imports.ImportStudents(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// ImportPrograms godoc
// @Summary Bulk import study programs from CSV
// @Tags Transfer
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Router /import/programs [post]
func (h *TransferHandler) ImportPrograms(c *gin.Context) {
	file, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	summary, err := h.imports.ImportPrograms(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// ExportSupervisions godoc
// @Summary Export the supervision roster
// @Tags Transfer
// @Produce application/octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Param dosen_id query string false "Filter by lecturer"
// @Success 200 {file} binary
// @Router /export/supervisions [get]
func (h *TransferHandler) ExportSupervisions(c *gin.Context) {
	var filter models.SupervisionFilter
	filter.LecturerID = c.Query("dosen_id")
	filter.StudentID = c.Query("mahasiswa_id")

	file, err := h.exports.SupervisionRoster(c.Request.Context(), filter, exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.send(c, file)
}

// ExportStudents godoc
// @Summary Export the student roster
// @Tags Transfer
// @Produce application/octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Param prodi_id query string false "Filter by program"
// @Param tahun_masuk query int false "Filter by entry year"
// @Success 200 {file} binary
// @Router /export/students [get]
func (h *TransferHandler) ExportStudents(c *gin.Context) {
	filter := studentFilterFromQuery(c)
	file, err := h.exports.StudentList(c.Request.Context(), filter, exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.send(c, file)
}

func (h *TransferHandler) openUpload(c *gin.Context) (multipart.File, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return nil, false
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return nil, false
	}
	return file, true
}

func (h *TransferHandler) send(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func exportFormat(c *gin.Context) service.ExportFormat {
	return service.ExportFormat(c.DefaultQuery("format", "csv"))
}
