package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/kwat0g/enrollment/internal/models"
)

func TestScheduleRepositoryFindTemplateBySubjectMiss(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("SELECT .* FROM schedules").
		WithArgs(models.TemplateSectionID, int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	template, err := repo.FindTemplateBySubject(context.Background(), 9)
	require.NoError(t, err)
	require.Nil(t, template)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryApplyAssignmentSingleTransaction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM schedules WHERE section_id = \\$1 AND subject_id IN").
		WithArgs(int64(3), int64(11), int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("INSERT INTO schedules").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(77)))
	mock.ExpectCommit()

	inserts := []models.Schedule{{SectionID: 3, SubjectID: 20, Day: "Monday", StartTime: "09:00", EndTime: "10:00", Type: "Lec"}}
	err := repo.ApplyAssignment(context.Background(), 3, []int64{11, 12}, inserts)
	require.NoError(t, err)
	require.Equal(t, int64(77), inserts[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryApplyAssignmentRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM schedules WHERE section_id = \\$1 AND subject_id IN").
		WithArgs(int64(3), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO schedules").
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	inserts := []models.Schedule{{SectionID: 3, SubjectID: 20}}
	err := repo.ApplyAssignment(context.Background(), 3, []int64{11}, inserts)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListRoomBookingsExcludesSectionAndTemplates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "section_id", "subject_id", "room_id", "day", "start_time", "end_time", "type", "instructor", "section_name",
	}).AddRow(int64(5), int64(2), int64(9), int64(4), "Monday", "09:00", "10:00", "Lec", "", "BSIT-1A")

	mock.ExpectQuery("SELECT .* FROM schedules s").
		WithArgs(int64(4), "Monday", models.TemplateSectionID, int64(3)).
		WillReturnRows(rows)

	bookings, err := repo.ListRoomBookings(context.Background(), 4, "Monday", 3)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	require.Equal(t, "BSIT-1A", bookings[0].SectionName)
	require.NoError(t, mock.ExpectationsWereMet())
}
