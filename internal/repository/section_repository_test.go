package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/kwat0g/enrollment/internal/models"
)

func TestSectionRepositoryEnrollmentActivity(t *testing.T) {
	cases := []struct {
		name string
		rows *sqlmock.Rows
		want models.EnrollmentActivity
	}{
		{
			name: "approved wins",
			rows: sqlmock.NewRows([]string{"status"}).AddRow(models.EnrollmentStatusApproved),
			want: models.ActivityApproved,
		},
		{
			name: "pending only",
			rows: sqlmock.NewRows([]string{"status"}).AddRow(models.EnrollmentStatusPending),
			want: models.ActivityPending,
		},
		{
			name: "no rows",
			rows: sqlmock.NewRows([]string{"status"}),
			want: models.ActivityNone,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, cleanup := newRepoMock(t)
			defer cleanup()
			repo := NewSectionRepository(db)

			mock.ExpectQuery("SELECT status FROM enrollments").
				WithArgs(int64(3), models.EnrollmentStatusApproved, models.EnrollmentStatusPending).
				WillReturnRows(tc.rows)

			activity, err := repo.EnrollmentActivity(context.Background(), 3)
			require.NoError(t, err)
			require.Equal(t, tc.want, activity)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSectionRepositoryDeleteRemovesSchedulesFirst(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM schedules WHERE section_id = \\$1").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("DELETE FROM sections WHERE id = \\$1").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 3))
	require.NoError(t, mock.ExpectationsWereMet())
}
