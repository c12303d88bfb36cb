package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/kwat0g/enrollment/internal/models"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
)

func freshmanRow(status models.FreshmanStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "student_id", "course_id", "first_name", "middle_name", "last_name", "suffix",
		"birthdate", "sex", "civil_status", "nationality", "place_of_birth", "religion", "email", "mobile",
		"region", "province", "city", "barangay", "address_line", "zip",
		"father_name", "father_contact", "mother_name", "mother_contact", "guardian_name", "guardian_contact",
		"year_level", "admission_type", "consent", "status", "created_at",
	}).AddRow(int64(5), nil, int64(2), "Juan", "", "Dela Cruz", "",
		"2007-01-15", "Male", "Single", "Filipino", "Manila", "", "juan@example.com", "09171234567",
		"NCR", "Metro Manila", "Quezon City", "Commonwealth", "123 St", "1121",
		"", "", "", "", "", "",
		"1st Year", "Freshman", true, status, time.Now())
}

func TestFreshmanRepositoryAcceptMintsNextCode(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFreshmanRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM freshman_enrollments WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(5)).
		WillReturnRows(freshmanRow(models.FreshmanStatusPending))
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("2025-%").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(41))
	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE freshman_enrollments SET status").
		WithArgs(int64(5), models.FreshmanStatusAccepted, "2025-00042").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	code, err := repo.Accept(context.Background(), 5, "2025")
	require.NoError(t, err)
	require.Equal(t, "2025-00042", code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFreshmanRepositoryAcceptAlreadyProcessed(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFreshmanRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM freshman_enrollments WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(5)).
		WillReturnRows(freshmanRow(models.FreshmanStatusAccepted))
	mock.ExpectRollback()

	_, err := repo.Accept(context.Background(), 5, "2025")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
