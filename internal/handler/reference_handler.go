package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arsipkampus/arsip-akademik-api/internal/service"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
	"github.com/arsipkampus/arsip-akademik-api/pkg/response"
)

// ReferenceHandler exposes the small reference vocabularies.
type ReferenceHandler struct {
	service *service.ReferenceService
}

// NewReferenceHandler constructs a reference handler.
func NewReferenceHandler(svc *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{service: svc}
}

// ListReligions godoc
// @Summary List religions
// @Tags References
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /religions [get]
func (h *ReferenceHandler) ListReligions(c *gin.Context) {
	religions, err := h.service.ListReligions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, religions, nil)
}

// CreateReligion godoc
// @Summary Create religion
// @Tags References
// @Accept json
// @Produce json
// @Param payload body service.ReligionPayload true "Religion payload"
// @Success 201 {object} response.Envelope
// @Router /religions [post]
func (h *ReferenceHandler) CreateReligion(c *gin.Context) {
	var req service.ReligionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	religion, err := h.service.CreateReligion(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, religion)
}

// UpdateReligion godoc
// @Summary Update religion
// @Tags References
// @Accept json
// @Produce json
// @Param id path string true "Religion ID"
// @Param payload body service.ReligionPayload true "Religion payload"
// @Success 200 {object} response.Envelope
// @Router /religions/{id} [put]
func (h *ReferenceHandler) UpdateReligion(c *gin.Context) {
	var req service.ReligionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	religion, err := h.service.UpdateReligion(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, religion, nil)
}

// DeleteReligion godoc
// @Summary Delete religion
// @Tags References
// @Produce json
// @Param id path string true "Religion ID"
// @Success 204 {object} response.Envelope
// @Router /religions/{id} [delete]
func (h *ReferenceHandler) DeleteReligion(c *gin.Context) {
	if err := h.service.DeleteReligion(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListEducationLevels godoc
// @Summary List education levels
// @Tags References
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /education-levels [get]
func (h *ReferenceHandler) ListEducationLevels(c *gin.Context) {
	levels, err := h.service.ListEducationLevels(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, levels, nil)
}

// CreateEducationLevel godoc
// @Summary Create education level
// @Tags References
// @Accept json
// @Produce json
// @Param payload body service.EducationLevelPayload true "Education level payload"
// @Success 201 {object} response.Envelope
// @Router /education-levels [post]
func (h *ReferenceHandler) CreateEducationLevel(c *gin.Context) {
	var req service.EducationLevelPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	level, err := h.service.CreateEducationLevel(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, level)
}

// GetEducationLevel godoc
// @Summary Get education level detail
// @Tags References
// @Produce json
// @Param code path string true "Education level code"
// @Success 200 {object} response.Envelope
// @Router /education-levels/{code} [get]
func (h *ReferenceHandler) GetEducationLevel(c *gin.Context) {
	level, err := h.service.GetEducationLevel(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, level, nil)
}

// UpdateEducationLevel godoc
// @Summary Update education level
// @Tags References
// @Accept json
// @Produce json
// @Param code path string true "Education level code"
// @Param payload body service.EducationLevelPayload true "Education level payload"
// @Success 200 {object} response.Envelope
// @Router /education-levels/{code} [put]
func (h *ReferenceHandler) UpdateEducationLevel(c *gin.Context) {
	var req service.EducationLevelPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	level, err := h.service.UpdateEducationLevel(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, level, nil)
}

// DeleteEducationLevel godoc
// @Summary Delete education level
// @Tags References
// @Produce json
// @Param code path string true "Education level code"
// @Success 204 {object} response.Envelope
// @Router /education-levels/{code} [delete]
func (h *ReferenceHandler) DeleteEducationLevel(c *gin.Context) {
	if err := h.service.DeleteEducationLevel(c.Request.Context(), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
