package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	"github.com/arsipkampus/arsip-akademik-api/internal/service"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
	"github.com/arsipkampus/arsip-akademik-api/pkg/response"
)

// ProposalHandler exposes thesis proposal endpoints. Ownership checks live in
// the service: students see their own proposals, reviewers see everything.
type ProposalHandler struct {
	service *service.ProposalService
}

// NewProposalHandler constructs a proposal handler.
func NewProposalHandler(svc *service.ProposalService) *ProposalHandler {
	return &ProposalHandler{service: svc}
}

// Submit godoc
// @Summary Submit a thesis proposal
// @Description A student may hold at most one pending proposal at a time
// @Tags Proposals
// @Accept json
// @Produce json
// @Param payload body service.SubmitProposalRequest true "Proposal payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /proposals [post]
func (h *ProposalHandler) Submit(c *gin.Context) {
	var req service.SubmitProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	proposal, err := h.service.Submit(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, proposal)
}

// List godoc
// @Summary List proposals
// @Tags Proposals
// @Produce json
// @Param status query string false "Filter by status (pending, approved, rejected)"
// @Param mahasiswa_id query string false "Filter by student"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /proposals [get]
func (h *ProposalHandler) List(c *gin.Context) {
	filter := proposalFilterFromQuery(c)
	proposals, pagination, err := h.service.List(c.Request.Context(), principalFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proposals, pagination)
}

// Get godoc
// @Summary Get proposal detail
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Envelope
// @Router /proposals/{id} [get]
func (h *ProposalHandler) Get(c *gin.Context) {
	proposal, err := h.service.Get(c.Request.Context(), principalFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proposal, nil)
}

// Approve godoc
// @Summary Approve a pending proposal
// @Description Approval assigns the advisor and creates the supervision pairing
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param payload body service.ReviewProposalRequest true "Review payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /proposals/{id}/approve [post]
func (h *ProposalHandler) Approve(c *gin.Context) {
	var req service.ReviewProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	proposal, err := h.service.Approve(c.Request.Context(), principalFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proposal, nil)
}

// Reject godoc
// @Summary Reject a pending proposal
// @Description Rejection requires a non-blank review note
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param payload body service.ReviewProposalRequest true "Review payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /proposals/{id}/reject [post]
func (h *ProposalHandler) Reject(c *gin.Context) {
	var req service.ReviewProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	proposal, err := h.service.Reject(c.Request.Context(), principalFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proposal, nil)
}

// Delete godoc
// @Summary Delete proposal
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 204 {object} response.Envelope
// @Router /proposals/{id} [delete]
func (h *ProposalHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), principalFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Upload godoc
// @Summary Attach the proposal document
// @Tags Proposals
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Proposal ID"
// @Param file formData file true "Proposal document"
// @Success 200 {object} response.Envelope
// @Router /proposals/{id}/file [post]
func (h *ProposalHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close()

	proposal, err := h.service.AttachFile(c.Request.Context(), principalFromContext(c), c.Param("id"), fileHeader.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proposal, nil)
}

// AttachmentURL godoc
// @Summary Issue a short lived download link for the proposal document
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Envelope
// @Router /proposals/{id}/file [get]
func (h *ProposalHandler) AttachmentURL(c *gin.Context) {
	token, err := h.service.AttachmentURL(c.Request.Context(), principalFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"url": "/api/v1/files?token=" + token}, nil)
}

// Download godoc
// @Summary Download a proposal document by signed token
// @Description The token carries its own authorization; no session is needed
// @Tags Proposals
// @Produce application/octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /files [get]
func (h *ProposalHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	file, err := h.service.OpenAttachment(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", file, nil)
}

func proposalFilterFromQuery(c *gin.Context) models.ProposalFilter {
	var filter models.ProposalFilter
	filter.Status = models.ProposalStatus(c.Query("status"))
	filter.StudentID = c.Query("mahasiswa_id")
	filter.Page = intQuery(c, "page", 1)
	filter.PageSize = intQuery(c, "limit", 20)
	return filter
}
