package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

func newProposalRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestProposalRepositorySubmit(t *testing.T) {
	db, mock, cleanup := newProposalRepoMock(t)
	defer cleanup()

	repo := NewProposalRepository(db)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE id = $1 FOR UPDATE")).
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("student-1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM proposals WHERE student_id = $1 AND status = $2")).
		WithArgs("student-1", models.ProposalStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO proposals")).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(int64(7)))
	mock.ExpectCommit()

	proposal := &models.Proposal{StudentID: "student-1", Title: "Sistem Arsip Digital"}
	require.NoError(t, repo.Submit(context.Background(), proposal))
	require.NotEmpty(t, proposal.ID)
	require.Equal(t, int64(7), proposal.Seq)
	require.Equal(t, models.ProposalStatusPending, proposal.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalRepositorySubmitSecondPending(t *testing.T) {
	db, mock, cleanup := newProposalRepoMock(t)
	defer cleanup()

	repo := NewProposalRepository(db)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE id = $1 FOR UPDATE")).
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("student-1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM proposals WHERE student_id = $1 AND status = $2")).
		WithArgs("student-1", models.ProposalStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.Submit(context.Background(), &models.Proposal{StudentID: "student-1", Title: "Judul Kedua"})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflictingProposal.Code, appErrors.FromError(err).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalRepositorySubmitRaceOnPartialIndex(t *testing.T) {
	db, mock, cleanup := newProposalRepoMock(t)
	defer cleanup()

	repo := NewProposalRepository(db)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE id = $1 FOR UPDATE")).
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("student-1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM proposals WHERE student_id = $1 AND status = $2")).
		WithArgs("student-1", models.ProposalStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO proposals")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "proposals_one_pending_per_student"})
	mock.ExpectRollback()

	err := repo.Submit(context.Background(), &models.Proposal{StudentID: "student-1", Title: "Judul Balapan"})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflictingProposal.Code, appErrors.FromError(err).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalRepositoryApproveWithAdvisor(t *testing.T) {
	db, mock, cleanup := newProposalRepoMock(t)
	defer cleanup()

	repo := NewProposalRepository(db)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id, status FROM proposals WHERE id = $1 FOR UPDATE")).
		WithArgs("prop-1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "status"}).AddRow("student-1", "pending"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE proposals SET status = $2")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO supervisions")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	advisorID := "lect-1"
	require.NoError(t, repo.Approve(context.Background(), "prop-1", "ok", &advisorID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalRepositoryApproveTerminal(t *testing.T) {
	db, mock, cleanup := newProposalRepoMock(t)
	defer cleanup()

	repo := NewProposalRepository(db)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id, status FROM proposals WHERE id = $1 FOR UPDATE")).
		WithArgs("prop-1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "status"}).AddRow("student-1", "rejected"))
	mock.ExpectRollback()

	err := repo.Approve(context.Background(), "prop-1", "", nil)
	require.Error(t, err)
	require.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalRepositoryRejectWithoutAdvisorBinding(t *testing.T) {
	db, mock, cleanup := newProposalRepoMock(t)
	defer cleanup()

	repo := NewProposalRepository(db)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM proposals WHERE id = $1 FOR UPDATE")).
		WithArgs("prop-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE proposals SET status = $2")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Reject(context.Background(), "prop-1", "judul terlalu umum"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalRepositoryLatestApprovedTitle(t *testing.T) {
	db, mock, cleanup := newProposalRepoMock(t)
	defer cleanup()

	repo := NewProposalRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT title FROM proposals")).
		WithArgs("student-1", models.ProposalStatusApproved).
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Sistem Arsip Digital"))

	title, err := repo.LatestApprovedTitle(context.Background(), "student-1")
	require.NoError(t, err)
	require.Equal(t, "Sistem Arsip Digital", title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newProposalRepoMock(t)
	defer cleanup()

	repo := NewProposalRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "seq", "student_id", "title", "note", "file_path", "status", "advisor_id", "created_at", "updated_at", "student_nim", "student_name", "advisor_name"}).
		AddRow("prop-1", int64(1), "student-1", "Sistem Arsip Digital", "", nil, "approved", "lect-1", now, now, "20230001", "Budi Santoso", "Siti Rahma")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT p.id, p.seq, p.student_id")).
		WithArgs("prop-1").
		WillReturnRows(rows)

	proposal, err := repo.GetByID(context.Background(), "prop-1")
	require.NoError(t, err)
	require.Equal(t, "prop-1", proposal.ID)
	require.NotNil(t, proposal.AdvisorName)
	require.Equal(t, "Siti Rahma", *proposal.AdvisorName)
	require.NoError(t, mock.ExpectationsWereMet())
}
