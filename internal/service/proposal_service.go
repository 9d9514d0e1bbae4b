package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

const minTitleLength = 5

type proposalRepository interface {
	Submit(ctx context.Context, proposal *models.Proposal) error
	GetByID(ctx context.Context, id string) (*models.Proposal, error)
	List(ctx context.Context, filter models.ProposalFilter) ([]models.Proposal, int, error)
	Approve(ctx context.Context, id string, note string, advisorID *string) error
	Reject(ctx context.Context, id string, note string) error
	SetFilePath(ctx context.Context, id, path string) error
	Delete(ctx context.Context, id string) error
}

type proposalLecturerRepository interface {
	FindByID(ctx context.Context, id string) (*models.Lecturer, error)
}

type proposalAuditRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type attachmentStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

type attachmentSigner interface {
	Generate(recordID, relPath string) (string, time.Time, error)
	Parse(token string) (recordID, relPath string, expiresAt time.Time, err error)
}

// SubmitProposalRequest captures a student's submission.
type SubmitProposalRequest struct {
	Title string `json:"judul" validate:"required"`
	Note  string `json:"catatan"`
}

// ReviewProposalRequest carries the reviewer's decision payload. The note
// is optional on approval and mandatory on rejection.
type ReviewProposalRequest struct {
	Note      string  `json:"catatan"`
	AdvisorID *string `json:"dosen_pembimbing_id"`
}

// ProposalService coordinates the thesis proposal workflow.
type ProposalService struct {
	repo         proposalRepository
	lecturerRepo proposalLecturerRepository
	auditRepo    proposalAuditRepository
	access       *AccessService
	storage      attachmentStorage
	signer       attachmentSigner
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewProposalService constructs ProposalService.
func NewProposalService(repo proposalRepository, lecturerRepo proposalLecturerRepository, auditRepo proposalAuditRepository, access *AccessService, storage attachmentStorage, signer attachmentSigner, validate *validator.Validate, logger *zap.Logger) *ProposalService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if access == nil {
		access = NewAccessService(logger)
	}
	return &ProposalService{
		repo:         repo,
		lecturerRepo: lecturerRepo,
		auditRepo:    auditRepo,
		access:       access,
		storage:      storage,
		signer:       signer,
		validator:    validate,
		logger:       logger,
	}
}

// Submit files a new pending proposal for the principal's own student
// record. The repository guarantees at most one pending proposal per
// student even under concurrent submissions.
func (s *ProposalService) Submit(ctx context.Context, principal *models.Principal, req SubmitProposalRequest) (*models.Proposal, error) {
	if principal == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	if principal.StudentID == nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only students may submit proposals")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid proposal payload")
	}

	title := strings.TrimSpace(req.Title)
	if len([]rune(title)) < minTitleLength {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("title must be at least %d characters", minTitleLength))
	}

	proposal := &models.Proposal{
		StudentID: *principal.StudentID,
		Title:     title,
		Note:      strings.TrimSpace(req.Note),
		Status:    models.ProposalStatusPending,
	}
	if err := s.repo.Submit(ctx, proposal); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit proposal")
	}

	s.audit(ctx, principal, models.AuditActionCreate, proposal.ID, nil)
	s.logger.Info("proposal submitted",
		zap.String("proposal_id", proposal.ID),
		zap.String("student_id", proposal.StudentID))
	return proposal, nil
}

// Get returns one proposal. Students may only read their own; reviewers
// need the proposal management permission.
func (s *ProposalService) Get(ctx context.Context, principal *models.Principal, id string) (*models.Proposal, error) {
	proposal, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.ownedBy(principal, proposal) {
		if err := s.access.Authorize(principal, models.PermManageProposals); err != nil {
			return nil, err
		}
	}
	return proposal, nil
}

// List returns proposals. Principals without the management permission are
// restricted to their own submissions regardless of the requested filter.
func (s *ProposalService) List(ctx context.Context, principal *models.Principal, filter models.ProposalFilter) ([]models.Proposal, *models.Pagination, error) {
	if err := s.access.Authorize(principal, models.PermManageProposals); err != nil {
		if principal == nil || principal.StudentID == nil {
			return nil, nil, err
		}
		filter.StudentID = *principal.StudentID
	}

	proposals, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list proposals")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return proposals, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Approve transitions a pending proposal to approved. When an advisor is
// named the supervision binding is created in the same transaction; an
// existing binding for the pair is left untouched.
func (s *ProposalService) Approve(ctx context.Context, principal *models.Principal, id string, req ReviewProposalRequest) (*models.Proposal, error) {
	if err := s.access.Authorize(principal, models.PermManageProposals); err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}

	if req.AdvisorID != nil && s.lecturerRepo != nil {
		if _, err := s.lecturerRepo.FindByID(ctx, *req.AdvisorID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "advisor does not exist")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate advisor")
		}
	}

	if err := s.repo.Approve(ctx, id, strings.TrimSpace(req.Note), req.AdvisorID); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve proposal")
	}

	s.audit(ctx, principal, models.AuditActionApprove, id, req.AdvisorID)
	s.logger.Info("proposal approved", zap.String("proposal_id", id))
	return s.load(ctx, id)
}

// Reject transitions a pending proposal to rejected. A blank note is
// refused: the student must be told why.
func (s *ProposalService) Reject(ctx context.Context, principal *models.Principal, id string, req ReviewProposalRequest) (*models.Proposal, error) {
	if err := s.access.Authorize(principal, models.PermManageProposals); err != nil {
		return nil, err
	}

	note := strings.TrimSpace(req.Note)
	if note == "" {
		return nil, appErrors.Clone(appErrors.ErrMissingReason, "")
	}

	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.Reject(ctx, id, note); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject proposal")
	}

	s.audit(ctx, principal, models.AuditActionReject, id, nil)
	s.logger.Info("proposal rejected", zap.String("proposal_id", id))
	return s.load(ctx, id)
}

// Delete removes a proposal. Management permission is required; an
// approved proposal's supervision binding survives the deletion.
func (s *ProposalService) Delete(ctx context.Context, principal *models.Principal, id string) error {
	if err := s.access.Authorize(principal, models.PermManageProposals); err != nil {
		return err
	}
	proposal, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete proposal")
	}

	if proposal.FilePath != nil && s.storage != nil {
		if err := s.storage.Delete(*proposal.FilePath); err != nil {
			s.logger.Warn("failed to remove proposal attachment", zap.Error(err))
		}
	}

	s.audit(ctx, principal, models.AuditActionDelete, id, nil)
	return nil
}

// AttachFile stores the uploaded document and records its path on the
// proposal. The owning student or a manager may attach.
func (s *ProposalService) AttachFile(ctx context.Context, principal *models.Principal, id, filename string, r io.Reader) (*models.Proposal, error) {
	if s.storage == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "attachment storage is not configured")
	}
	proposal, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.ownedBy(principal, proposal) {
		if err := s.access.Authorize(principal, models.PermManageProposals); err != nil {
			return nil, err
		}
	}

	ext := filepath.Ext(filename)
	stored := fmt.Sprintf("proposals/%s/%s%s", proposal.ID, uuid.NewString(), ext)
	saved, err := s.storage.SaveStream(stored, r)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store attachment")
	}

	if proposal.FilePath != nil {
		if err := s.storage.Delete(*proposal.FilePath); err != nil {
			s.logger.Warn("failed to remove replaced attachment", zap.Error(err))
		}
	}

	if err := s.repo.SetFilePath(ctx, proposal.ID, saved); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attachment")
	}
	return s.load(ctx, id)
}

// AttachmentURL issues a short lived signed token for downloading the
// proposal document.
func (s *ProposalService) AttachmentURL(ctx context.Context, principal *models.Principal, id string) (string, error) {
	if s.signer == nil {
		return "", appErrors.Clone(appErrors.ErrInternal, "attachment signing is not configured")
	}
	proposal, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if !s.ownedBy(principal, proposal) {
		if err := s.access.Authorize(principal, models.PermManageProposals); err != nil {
			return "", err
		}
	}
	if proposal.FilePath == nil {
		return "", appErrors.Clone(appErrors.ErrNotFound, "proposal has no attachment")
	}

	token, _, err := s.signer.Generate(proposal.ID, *proposal.FilePath)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign attachment url")
	}
	return token, nil
}

// OpenAttachment validates a signed token and opens the stored document.
func (s *ProposalService) OpenAttachment(ctx context.Context, token string) (io.ReadCloser, error) {
	if s.signer == nil || s.storage == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "attachment storage is not configured")
	}
	_, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid attachment token")
	}
	rc, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "attachment not found")
	}
	return rc, nil
}

func (s *ProposalService) load(ctx context.Context, id string) (*models.Proposal, error) {
	proposal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load proposal")
	}
	return proposal, nil
}

func (s *ProposalService) ownedBy(principal *models.Principal, proposal *models.Proposal) bool {
	return principal != nil && principal.StudentID != nil && *principal.StudentID == proposal.StudentID
}

func (s *ProposalService) audit(ctx context.Context, principal *models.Principal, action, proposalID string, advisorID *string) {
	if s.auditRepo == nil {
		return
	}
	log := &models.AuditLog{
		UserID:     &principal.UserID,
		Action:     action,
		Resource:   "proposal",
		ResourceID: &proposalID,
		CreatedAt:  time.Now().UTC(),
	}
	if advisorID != nil {
		log.NewValues = []byte(fmt.Sprintf(`{"advisor_id":%q}`, *advisorID))
	}
	if err := s.auditRepo.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record proposal audit log", zap.Error(err))
	}
}
