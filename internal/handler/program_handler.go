package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arsipkampus/arsip-akademik-api/internal/service"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
	"github.com/arsipkampus/arsip-akademik-api/pkg/response"
)

// ProgramHandler exposes study program and concentration endpoints.
type ProgramHandler struct {
	service *service.ProgramService
}

// NewProgramHandler constructs a program handler.
func NewProgramHandler(svc *service.ProgramService) *ProgramHandler {
	return &ProgramHandler{service: svc}
}

// List godoc
// @Summary List study programs
// @Tags Programs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *ProgramHandler) List(c *gin.Context) {
	programs, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programs, nil)
}

// Get godoc
// @Summary Get program detail
// @Tags Programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} response.Envelope
// @Router /programs/{id} [get]
func (h *ProgramHandler) Get(c *gin.Context) {
	program, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, program, nil)
}

// Create godoc
// @Summary Create program
// @Tags Programs
// @Accept json
// @Produce json
// @Param payload body service.ProgramPayload true "Program payload"
// @Success 201 {object} response.Envelope
// @Router /programs [post]
func (h *ProgramHandler) Create(c *gin.Context) {
	var req service.ProgramPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	program, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, program)
}

// Update godoc
// @Summary Update program
// @Tags Programs
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Param payload body service.ProgramPayload true "Program payload"
// @Success 200 {object} response.Envelope
// @Router /programs/{id} [put]
func (h *ProgramHandler) Update(c *gin.Context) {
	var req service.ProgramPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	program, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, program, nil)
}

// Delete godoc
// @Summary Delete program
// @Tags Programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 204 {object} response.Envelope
// @Router /programs/{id} [delete]
func (h *ProgramHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListConcentrations godoc
// @Summary List concentrations, optionally for one program
// @Tags Programs
// @Produce json
// @Param prodi_id query string false "Filter by program"
// @Success 200 {object} response.Envelope
// @Router /concentrations [get]
func (h *ProgramHandler) ListConcentrations(c *gin.Context) {
	concentrations, err := h.service.ListConcentrations(c.Request.Context(), c.Query("prodi_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, concentrations, nil)
}

// GetConcentration godoc
// @Summary Get concentration detail
// @Tags Programs
// @Produce json
// @Param id path string true "Concentration ID"
// @Success 200 {object} response.Envelope
// @Router /concentrations/{id} [get]
func (h *ProgramHandler) GetConcentration(c *gin.Context) {
	concentration, err := h.service.GetConcentration(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, concentration, nil)
}

// CreateConcentration godoc
// @Summary Create concentration
// @Tags Programs
// @Accept json
// @Produce json
// @Param payload body service.ConcentrationPayload true "Concentration payload"
// @Success 201 {object} response.Envelope
// @Router /concentrations [post]
func (h *ProgramHandler) CreateConcentration(c *gin.Context) {
	var req service.ConcentrationPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	concentration, err := h.service.CreateConcentration(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, concentration)
}

// UpdateConcentration godoc
// @Summary Update concentration
// @Tags Programs
// @Accept json
// @Produce json
// @Param id path string true "Concentration ID"
// @Param payload body service.ConcentrationPayload true "Concentration payload"
// @Success 200 {object} response.Envelope
// @Router /concentrations/{id} [put]
func (h *ProgramHandler) UpdateConcentration(c *gin.Context) {
	var req service.ConcentrationPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	concentration, err := h.service.UpdateConcentration(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, concentration, nil)
}

// DeleteConcentration godoc
// @Summary Delete concentration
// @Tags Programs
// @Produce json
// @Param id path string true "Concentration ID"
// @Success 204 {object} response.Envelope
// @Router /concentrations/{id} [delete]
func (h *ProgramHandler) DeleteConcentration(c *gin.Context) {
	if err := h.service.DeleteConcentration(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
