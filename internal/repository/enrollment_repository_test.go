package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/kwat0g/enrollment/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEnrollmentRepositoryFindActiveByTermNone(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery("SELECT .* FROM enrollments").
		WithArgs(int64(7), "2025-2026", "1st", models.EnrollmentStatusPending, models.EnrollmentStatusApproved).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	enrollment, err := repo.FindActiveByTerm(context.Background(), 7, "2025-2026", "1st")
	require.NoError(t, err)
	require.Nil(t, enrollment)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateDefaultsPending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery("INSERT INTO enrollments").
		WithArgs(int64(7), int64(3), "2025-2026", "1st", models.EnrollmentStatusPending,
			sqlmock.AnyArg(), models.EnrollmentTypeRegular).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	enrollment := &models.Enrollment{StudentID: 7, SectionID: 3, SchoolYear: "2025-2026", Semester: "1st"}
	require.NoError(t, repo.Create(context.Background(), enrollment))
	require.Equal(t, int64(42), enrollment.ID)
	require.Equal(t, models.EnrollmentStatusPending, enrollment.Status)
	require.Equal(t, models.EnrollmentTypeRegular, enrollment.EnrollmentType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateIrregularRollsBackOnItemFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO enrollments").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectQuery("INSERT INTO irregular_enrollments").
		WithArgs(int64(10), int64(1), int64(5), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO irregular_enrollments").
		WithArgs(int64(10), int64(2), int64(6), int64(2)).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	enrollment := &models.Enrollment{StudentID: 7, SectionID: 2, SchoolYear: "2025-2026", Semester: "1st"}
	items := []models.IrregularEnrollment{
		{SubjectID: 1, ScheduleID: 5, SectionID: 2},
		{SubjectID: 2, ScheduleID: 6, SectionID: 2},
	}
	err := repo.CreateIrregular(context.Background(), enrollment, items)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryApproveStampsReference(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE enrollments SET status = $2, reference_number = $3 WHERE id = $1")).
		WithArgs(int64(42), models.EnrollmentStatusApproved, "ENR-20260828-42").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Approve(context.Background(), 42, "ENR-20260828-42")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListPending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "student_id", "section_id", "school_year", "semester", "status",
		"date_applied", "reference_number", "enrollment_type",
		"student_code", "first_name", "last_name", "section_name",
	}).AddRow(int64(1), int64(7), int64(3), "2025-2026", "1st", models.EnrollmentStatusPending,
		time.Now(), nil, models.EnrollmentTypeRegular, "2025-00001", "Juan", "Dela Cruz", "BSIT-1A")

	mock.ExpectQuery("SELECT .* FROM enrollments e").
		WithArgs(models.EnrollmentStatusPending, models.EnrollmentTypeIrregular).
		WillReturnRows(rows)

	pending, err := repo.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "BSIT-1A", pending[0].SectionName)
	require.NoError(t, mock.ExpectationsWereMet())
}
