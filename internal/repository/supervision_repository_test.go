package repository

import (
	"context"
	"database/sql"
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

func newSupervisionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSupervisionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newSupervisionRepoMock(t)
	defer cleanup()

	repo := NewSupervisionRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO supervisions")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	supervision := &models.Supervision{LecturerID: "lect-1", StudentID: "student-1"}
	require.NoError(t, repo.Create(context.Background(), supervision))
	require.NotEmpty(t, supervision.ID)
	require.False(t, supervision.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSupervisionRepositoryCreateDuplicatePair(t *testing.T) {
	db, mock, cleanup := newSupervisionRepoMock(t)
	defer cleanup()

	repo := NewSupervisionRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO supervisions")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "supervisions_lecturer_student_key"})

	err := repo.Create(context.Background(), &models.Supervision{LecturerID: "lect-1", StudentID: "student-1"})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrDuplicateAssignment.Code, appErrors.FromError(err).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSupervisionRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newSupervisionRepoMock(t)
	defer cleanup()

	repo := NewSupervisionRepository(db)
	rows := sqlmock.NewRows([]string{"id", "lecturer_id", "student_id", "proposal_id", "created_at", "lecturer_code", "lecturer_name", "student_nim", "student_name"}).
		AddRow("sv-1", "lect-1", "student-1", nil, time.Now(), "DSN01", "Siti Rahma", "20230001", "Budi Santoso")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT b.id, b.lecturer_id")).
		WithArgs("lect-1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM supervisions b")).
		WithArgs("lect-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.SupervisionFilter{LecturerID: "lect-1"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].LecturerName)
	require.Equal(t, "Siti Rahma", *list[0].LecturerName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSupervisionRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newSupervisionRepoMock(t)
	defer cleanup()

	repo := NewSupervisionRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM supervisions WHERE id = $1")).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
