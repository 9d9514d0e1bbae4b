package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	"github.com/arsipkampus/arsip-akademik-api/internal/service"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
	"github.com/arsipkampus/arsip-akademik-api/pkg/response"
)

// RegionHandler exposes the wilayah hierarchy endpoints.
type RegionHandler struct {
	service *service.RegionService
}

// NewRegionHandler constructs a region handler.
func NewRegionHandler(svc *service.RegionService) *RegionHandler {
	return &RegionHandler{service: svc}
}

// List godoc
// @Summary List regions
// @Tags Regions
// @Produce json
// @Param parent query string false "Filter by parent code"
// @Param level query int false "Filter by level (1 province to 4 village)"
// @Param search query string false "Search keyword (bypasses cache)"
// @Success 200 {object} response.Envelope
// @Router /regions [get]
func (h *RegionHandler) List(c *gin.Context) {
	var filter models.RegionFilter
	filter.ParentCode = c.Query("parent")
	filter.Search = strings.TrimSpace(c.Query("search"))
	if level, err := strconv.Atoi(c.Query("level")); err == nil {
		filter.Level = level
	}

	regions, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, regions, nil)
}

// Get godoc
// @Summary Get region detail
// @Tags Regions
// @Produce json
// @Param code path string true "Region code"
// @Success 200 {object} response.Envelope
// @Router /regions/{code} [get]
func (h *RegionHandler) Get(c *gin.Context) {
	region, err := h.service.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, region, nil)
}

// Create godoc
// @Summary Create region
// @Tags Regions
// @Accept json
// @Produce json
// @Param payload body service.RegionPayload true "Region payload"
// @Success 201 {object} response.Envelope
// @Router /regions [post]
func (h *RegionHandler) Create(c *gin.Context) {
	var req service.RegionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	region, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, region)
}

// Update godoc
// @Summary Update region
// @Tags Regions
// @Accept json
// @Produce json
// @Param code path string true "Region code"
// @Param payload body service.RegionPayload true "Region payload"
// @Success 200 {object} response.Envelope
// @Router /regions/{code} [put]
func (h *RegionHandler) Update(c *gin.Context) {
	var req service.RegionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	region, err := h.service.Update(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, region, nil)
}

// Delete godoc
// @Summary Delete region
// @Tags Regions
// @Produce json
// @Param code path string true "Region code"
// @Success 204 {object} response.Envelope
// @Router /regions/{code} [delete]
func (h *RegionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
