package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

type mockProposalRepo struct {
	proposals   map[string]*models.Proposal
	submitErr   error
	approveErr  error
	rejectErr   error
	listFilter  models.ProposalFilter
	listResult  []models.Proposal
	approved    bool
	rejected    bool
	lastAdvisor *string
}

func (m *mockProposalRepo) Submit(ctx context.Context, proposal *models.Proposal) error {
	if m.submitErr != nil {
		return m.submitErr
	}
	proposal.ID = "p1"
	if m.proposals == nil {
		m.proposals = make(map[string]*models.Proposal)
	}
	m.proposals[proposal.ID] = proposal
	return nil
}

func (m *mockProposalRepo) GetByID(ctx context.Context, id string) (*models.Proposal, error) {
	p, ok := m.proposals[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (m *mockProposalRepo) List(ctx context.Context, filter models.ProposalFilter) ([]models.Proposal, int, error) {
	m.listFilter = filter
	return m.listResult, len(m.listResult), nil
}

func (m *mockProposalRepo) Approve(ctx context.Context, id string, note string, advisorID *string) error {
	if m.approveErr != nil {
		return m.approveErr
	}
	m.approved = true
	m.lastAdvisor = advisorID
	if p, ok := m.proposals[id]; ok {
		p.Status = models.ProposalStatusApproved
		p.Note = note
		p.AdvisorID = advisorID
	}
	return nil
}

func (m *mockProposalRepo) Reject(ctx context.Context, id string, note string) error {
	if m.rejectErr != nil {
		return m.rejectErr
	}
	m.rejected = true
	if p, ok := m.proposals[id]; ok {
		p.Status = models.ProposalStatusRejected
		p.Note = note
	}
	return nil
}

func (m *mockProposalRepo) SetFilePath(ctx context.Context, id, path string) error {
	if p, ok := m.proposals[id]; ok {
		p.FilePath = &path
	}
	return nil
}

func (m *mockProposalRepo) Delete(ctx context.Context, id string) error {
	delete(m.proposals, id)
	return nil
}

type mockLecturerFinder struct {
	lecturers map[string]*models.Lecturer
}

func (m *mockLecturerFinder) FindByID(ctx context.Context, id string) (*models.Lecturer, error) {
	l, ok := m.lecturers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return l, nil
}

type mockAuditRepo struct {
	logs []*models.AuditLog
}

func (m *mockAuditRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func studentPrincipal(studentID string) *models.Principal {
	return &models.Principal{UserID: "u-" + studentID, StudentID: &studentID}
}

func reviewerPrincipal() *models.Principal {
	return &models.Principal{
		UserID: "staff",
		Role: &models.Role{
			ID:          "r1",
			Permissions: []models.PermissionCode{models.PermManageProposals},
		},
	}
}

func newProposalService(repo *mockProposalRepo, lecturers *mockLecturerFinder, audit *mockAuditRepo) *ProposalService {
	return NewProposalService(repo, lecturers, audit, nil, nil, nil, nil, nil)
}

func TestProposalServiceSubmit(t *testing.T) {
	repo := &mockProposalRepo{}
	audit := &mockAuditRepo{}
	svc := newProposalService(repo, nil, audit)

	proposal, err := svc.Submit(context.Background(), studentPrincipal("s1"), SubmitProposalRequest{
		Title: "  Sistem Informasi Arsip  ",
		Note:  "draft awal",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sistem Informasi Arsip", proposal.Title)
	assert.Equal(t, models.ProposalStatusPending, proposal.Status)
	assert.Equal(t, "s1", proposal.StudentID)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionCreate, audit.logs[0].Action)
}

func TestProposalServiceSubmitShortTitle(t *testing.T) {
	svc := newProposalService(&mockProposalRepo{}, nil, nil)

	_, err := svc.Submit(context.Background(), studentPrincipal("s1"), SubmitProposalRequest{Title: "  ab  "})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestProposalServiceSubmitRequiresStudent(t *testing.T) {
	svc := newProposalService(&mockProposalRepo{}, nil, nil)

	_, err := svc.Submit(context.Background(), &models.Principal{UserID: "staff"}, SubmitProposalRequest{Title: "Judul Skripsi"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestProposalServiceSubmitConflictPassesThrough(t *testing.T) {
	repo := &mockProposalRepo{submitErr: appErrors.Clone(appErrors.ErrConflictingProposal, "")}
	svc := newProposalService(repo, nil, nil)

	_, err := svc.Submit(context.Background(), studentPrincipal("s1"), SubmitProposalRequest{Title: "Judul Skripsi"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflictingProposal.Code, appErrors.FromError(err).Code)
}

func TestProposalServiceApproveAssignsAdvisor(t *testing.T) {
	advisorID := "d1"
	repo := &mockProposalRepo{proposals: map[string]*models.Proposal{
		"p1": {ID: "p1", StudentID: "s1", Status: models.ProposalStatusPending},
	}}
	lecturers := &mockLecturerFinder{lecturers: map[string]*models.Lecturer{
		"d1": {ID: "d1", FullName: "Dr. Siti"},
	}}
	audit := &mockAuditRepo{}
	svc := newProposalService(repo, lecturers, audit)

	proposal, err := svc.Approve(context.Background(), reviewerPrincipal(), "p1", ReviewProposalRequest{AdvisorID: &advisorID})
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusApproved, proposal.Status)
	require.NotNil(t, repo.lastAdvisor)
	assert.Equal(t, "d1", *repo.lastAdvisor)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionApprove, audit.logs[0].Action)
}

func TestProposalServiceApproveUnknownAdvisor(t *testing.T) {
	advisorID := "ghost"
	repo := &mockProposalRepo{proposals: map[string]*models.Proposal{
		"p1": {ID: "p1", StudentID: "s1", Status: models.ProposalStatusPending},
	}}
	svc := newProposalService(repo, &mockLecturerFinder{}, nil)

	_, err := svc.Approve(context.Background(), reviewerPrincipal(), "p1", ReviewProposalRequest{AdvisorID: &advisorID})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.False(t, repo.approved)
}

func TestProposalServiceApproveRequiresPermission(t *testing.T) {
	repo := &mockProposalRepo{proposals: map[string]*models.Proposal{
		"p1": {ID: "p1", StudentID: "s1", Status: models.ProposalStatusPending},
	}}
	svc := newProposalService(repo, nil, nil)

	_, err := svc.Approve(context.Background(), studentPrincipal("s1"), "p1", ReviewProposalRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestProposalServiceRejectNeedsNote(t *testing.T) {
	repo := &mockProposalRepo{proposals: map[string]*models.Proposal{
		"p1": {ID: "p1", StudentID: "s1", Status: models.ProposalStatusPending},
	}}
	svc := newProposalService(repo, nil, nil)

	_, err := svc.Reject(context.Background(), reviewerPrincipal(), "p1", ReviewProposalRequest{Note: "   "})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMissingReason.Code, appErrors.FromError(err).Code)
	assert.False(t, repo.rejected)
}

func TestProposalServiceRejectRecordsNote(t *testing.T) {
	repo := &mockProposalRepo{proposals: map[string]*models.Proposal{
		"p1": {ID: "p1", StudentID: "s1", Status: models.ProposalStatusPending},
	}}
	audit := &mockAuditRepo{}
	svc := newProposalService(repo, nil, audit)

	proposal, err := svc.Reject(context.Background(), reviewerPrincipal(), "p1", ReviewProposalRequest{Note: " judul terlalu umum "})
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusRejected, proposal.Status)
	assert.Equal(t, "judul terlalu umum", proposal.Note)
}

func TestProposalServiceInvalidTransitionPassesThrough(t *testing.T) {
	repo := &mockProposalRepo{
		proposals: map[string]*models.Proposal{
			"p1": {ID: "p1", StudentID: "s1", Status: models.ProposalStatusApproved},
		},
		approveErr: appErrors.Clone(appErrors.ErrInvalidTransition, ""),
	}
	svc := newProposalService(repo, nil, nil)

	_, err := svc.Approve(context.Background(), reviewerPrincipal(), "p1", ReviewProposalRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestProposalServiceGetOwnership(t *testing.T) {
	repo := &mockProposalRepo{proposals: map[string]*models.Proposal{
		"p1": {ID: "p1", StudentID: "s1", Status: models.ProposalStatusPending},
	}}
	svc := newProposalService(repo, nil, nil)

	// Owner reads without any permission.
	_, err := svc.Get(context.Background(), studentPrincipal("s1"), "p1")
	require.NoError(t, err)

	// Another student is denied.
	_, err = svc.Get(context.Background(), studentPrincipal("s2"), "p1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	// A reviewer reads anything.
	_, err = svc.Get(context.Background(), reviewerPrincipal(), "p1")
	require.NoError(t, err)
}

func TestProposalServiceListScopesToOwnStudent(t *testing.T) {
	repo := &mockProposalRepo{}
	svc := newProposalService(repo, nil, nil)

	_, _, err := svc.List(context.Background(), studentPrincipal("s7"), models.ProposalFilter{StudentID: "someone-else"})
	require.NoError(t, err)
	assert.Equal(t, "s7", repo.listFilter.StudentID)

	_, _, err = svc.List(context.Background(), reviewerPrincipal(), models.ProposalFilter{StudentID: "s9"})
	require.NoError(t, err)
	assert.Equal(t, "s9", repo.listFilter.StudentID)
}
