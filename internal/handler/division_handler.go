package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arsipkampus/arsip-akademik-api/internal/service"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
	"github.com/arsipkampus/arsip-akademik-api/pkg/response"
)

// DivisionHandler exposes bidang (staff division) endpoints.
type DivisionHandler struct {
	service *service.DivisionService
}

// NewDivisionHandler constructs a division handler.
func NewDivisionHandler(svc *service.DivisionService) *DivisionHandler {
	return &DivisionHandler{service: svc}
}

// List godoc
// @Summary List divisions
// @Tags Divisions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /divisions [get]
func (h *DivisionHandler) List(c *gin.Context) {
	divisions, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, divisions, nil)
}

// Get godoc
// @Summary Get division detail
// @Tags Divisions
// @Produce json
// @Param id path string true "Division ID"
// @Success 200 {object} response.Envelope
// @Router /divisions/{id} [get]
func (h *DivisionHandler) Get(c *gin.Context) {
	division, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, division, nil)
}

// Create godoc
// @Summary Create division
// @Tags Divisions
// @Accept json
// @Produce json
// @Param payload body service.DivisionPayload true "Division payload"
// @Success 201 {object} response.Envelope
// @Router /divisions [post]
func (h *DivisionHandler) Create(c *gin.Context) {
	var req service.DivisionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	division, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, division)
}

// Update godoc
// @Summary Update division
// @Tags Divisions
// @Accept json
// @Produce json
// @Param id path string true "Division ID"
// @Param payload body service.DivisionPayload true "Division payload"
// @Success 200 {object} response.Envelope
// @Router /divisions/{id} [put]
func (h *DivisionHandler) Update(c *gin.Context) {
	var req service.DivisionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	division, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, division, nil)
}

// Delete godoc
// @Summary Delete division
// @Tags Divisions
// @Produce json
// @Param id path string true "Division ID"
// @Success 204 {object} response.Envelope
// @Router /divisions/{id} [delete]
func (h *DivisionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
