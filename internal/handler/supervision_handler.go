package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	"github.com/arsipkampus/arsip-akademik-api/internal/service"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
	"github.com/arsipkampus/arsip-akademik-api/pkg/response"
)

// SupervisionHandler exposes advisor assignment endpoints.
type SupervisionHandler struct {
	service *service.SupervisionService
}

// NewSupervisionHandler constructs a supervision handler.
func NewSupervisionHandler(svc *service.SupervisionService) *SupervisionHandler {
	return &SupervisionHandler{service: svc}
}

// List godoc
// @Summary List supervision pairings
// @Tags Supervisions
// @Produce json
// @Param search query string false "Search keyword"
// @Param dosen_id query string false "Filter by lecturer"
// @Param mahasiswa_id query string false "Filter by student"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /supervisions [get]
func (h *SupervisionHandler) List(c *gin.Context) {
	var filter models.SupervisionFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.LecturerID = c.Query("dosen_id")
	filter.StudentID = c.Query("mahasiswa_id")
	filter.Page = intQuery(c, "page", 1)
	filter.PageSize = intQuery(c, "limit", 20)

	supervisions, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, supervisions, pagination)
}

// Get godoc
// @Summary Get supervision detail
// @Tags Supervisions
// @Produce json
// @Param id path string true "Supervision ID"
// @Success 200 {object} response.Envelope
// @Router /supervisions/{id} [get]
func (h *SupervisionHandler) Get(c *gin.Context) {
	supervision, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, supervision, nil)
}

// Assign godoc
// @Summary Assign an advisor to a student
// @Description Duplicate pairings are rejected; use proposal approval for the idempotent path
// @Tags Supervisions
// @Accept json
// @Produce json
// @Param payload body service.AssignSupervisionRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /supervisions [post]
func (h *SupervisionHandler) Assign(c *gin.Context) {
	var req service.AssignSupervisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	supervision, err := h.service.Assign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, supervision)
}

// Unassign godoc
// @Summary Remove a supervision pairing
// @Tags Supervisions
// @Produce json
// @Param id path string true "Supervision ID"
// @Success 204 {object} response.Envelope
// @Router /supervisions/{id} [delete]
func (h *SupervisionHandler) Unassign(c *gin.Context) {
	if err := h.service.Unassign(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
