package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwat0g/enrollment/internal/models"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
)

type scheduleRepoMock struct {
	listBySection    func(ctx context.Context, sectionID int64) ([]models.ScheduleDetail, error)
	listAll          func(ctx context.Context) ([]models.ScheduleDetail, error)
	listByRoom       func(ctx context.Context, roomID int64, day string) ([]models.ScheduleDetail, error)
	listRoomBookings func(ctx context.Context, roomID int64, day string, excludeSectionID int64) ([]models.RoomBooking, error)
	listSubjectIDs   func(ctx context.Context, sectionID int64) ([]int64, error)
	findTemplate     func(ctx context.Context, subjectID int64) (*models.Schedule, error)
	findFallback     func(ctx context.Context, courseID int64, yearLevel string, subjectType models.SubjectType) (*models.Schedule, error)
	upsertTemplate   func(ctx context.Context, template *models.Schedule) error
	applyAssignment  func(ctx context.Context, sectionID int64, removeSubjectIDs []int64, inserts []models.Schedule) error
	replaceSection   func(ctx context.Context, sectionID int64, inserts []models.Schedule) error
	bulkCreate       func(ctx context.Context, schedules []models.Schedule) error
	deleteMismatched func(ctx context.Context) (int64, error)
}

func (m *scheduleRepoMock) ListBySection(ctx context.Context, sectionID int64) ([]models.ScheduleDetail, error) {
	if m.listBySection == nil {
		return nil, nil
	}
	return m.listBySection(ctx, sectionID)
}

func (m *scheduleRepoMock) ListAll(ctx context.Context) ([]models.ScheduleDetail, error) {
	if m.listAll == nil {
		return nil, nil
	}
	return m.listAll(ctx)
}

func (m *scheduleRepoMock) ListByRoom(ctx context.Context, roomID int64, day string) ([]models.ScheduleDetail, error) {
	if m.listByRoom == nil {
		return nil, nil
	}
	return m.listByRoom(ctx, roomID, day)
}

func (m *scheduleRepoMock) ListRoomBookings(ctx context.Context, roomID int64, day string, excludeSectionID int64) ([]models.RoomBooking, error) {
	if m.listRoomBookings == nil {
		return nil, nil
	}
	return m.listRoomBookings(ctx, roomID, day, excludeSectionID)
}

func (m *scheduleRepoMock) ListSubjectIDsBySection(ctx context.Context, sectionID int64) ([]int64, error) {
	if m.listSubjectIDs == nil {
		return nil, nil
	}
	return m.listSubjectIDs(ctx, sectionID)
}

func (m *scheduleRepoMock) FindTemplateBySubject(ctx context.Context, subjectID int64) (*models.Schedule, error) {
	if m.findTemplate == nil {
		return nil, nil
	}
	return m.findTemplate(ctx, subjectID)
}

func (m *scheduleRepoMock) FindFallbackTemplate(ctx context.Context, courseID int64, yearLevel string, subjectType models.SubjectType) (*models.Schedule, error) {
	if m.findFallback == nil {
		return nil, nil
	}
	return m.findFallback(ctx, courseID, yearLevel, subjectType)
}

func (m *scheduleRepoMock) UpsertTemplate(ctx context.Context, template *models.Schedule) error {
	if m.upsertTemplate == nil {
		return nil
	}
	return m.upsertTemplate(ctx, template)
}

func (m *scheduleRepoMock) ApplyAssignment(ctx context.Context, sectionID int64, removeSubjectIDs []int64, inserts []models.Schedule) error {
	if m.applyAssignment == nil {
		return nil
	}
	return m.applyAssignment(ctx, sectionID, removeSubjectIDs, inserts)
}

func (m *scheduleRepoMock) ReplaceSectionSchedules(ctx context.Context, sectionID int64, inserts []models.Schedule) error {
	if m.replaceSection == nil {
		return nil
	}
	return m.replaceSection(ctx, sectionID, inserts)
}

func (m *scheduleRepoMock) BulkCreate(ctx context.Context, schedules []models.Schedule) error {
	if m.bulkCreate == nil {
		return nil
	}
	return m.bulkCreate(ctx, schedules)
}

func (m *scheduleRepoMock) DeleteMismatched(ctx context.Context) (int64, error) {
	if m.deleteMismatched == nil {
		return 0, nil
	}
	return m.deleteMismatched(ctx)
}

type sectionRepoStub struct {
	section  *models.Section
	activity models.EnrollmentActivity
	pending  int
	approved int
}

func (s *sectionRepoStub) FindByID(ctx context.Context, id int64) (*models.Section, error) {
	if s.section == nil || s.section.ID != id {
		return nil, errors.New("not found")
	}
	return s.section, nil
}

func (s *sectionRepoStub) EnrollmentActivity(ctx context.Context, sectionID int64) (models.EnrollmentActivity, error) {
	if s.activity == "" {
		return models.ActivityNone, nil
	}
	return s.activity, nil
}

func (s *sectionRepoStub) CountEnrollments(ctx context.Context, sectionID int64, status models.EnrollmentStatus) (int, error) {
	if status == models.EnrollmentStatusApproved {
		return s.approved, nil
	}
	return s.pending, nil
}

type subjectRepoStub struct {
	subjects map[int64]models.Subject
}

func (s *subjectRepoStub) FindByID(ctx context.Context, id int64) (*models.Subject, error) {
	subject, ok := s.subjects[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &subject, nil
}

func (s *subjectRepoStub) ListByIDs(ctx context.Context, ids []int64) ([]models.Subject, error) {
	var found []models.Subject
	for _, id := range ids {
		if subject, ok := s.subjects[id]; ok {
			found = append(found, subject)
		}
	}
	return found, nil
}

type roomRepoStub struct {
	rooms   map[int64]models.Room
	created []models.Room
}

func (s *roomRepoStub) FindByID(ctx context.Context, id int64) (*models.Room, error) {
	room, ok := s.rooms[id]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

func (s *roomRepoStub) FindByName(ctx context.Context, name string) (*models.Room, error) {
	for _, room := range s.rooms {
		if room.Name == name {
			r := room
			return &r, nil
		}
	}
	return nil, nil
}

func (s *roomRepoStub) Create(ctx context.Context, room *models.Room) error {
	room.ID = int64(len(s.rooms) + len(s.created) + 1)
	s.created = append(s.created, *room)
	return nil
}

func newScheduleService(schedules *scheduleRepoMock, sections *sectionRepoStub, subjects *subjectRepoStub, rooms *roomRepoStub) *ScheduleService {
	if sections == nil {
		sections = &sectionRepoStub{}
	}
	if subjects == nil {
		subjects = &subjectRepoStub{}
	}
	if rooms == nil {
		rooms = &roomRepoStub{}
	}
	return NewScheduleService(schedules, sections, subjects, rooms, nil, nil, nil, ScheduleConfig{})
}

func int64Ptr(v int64) *int64 { return &v }

func TestCheckRoomConflict(t *testing.T) {
	booking := models.RoomBooking{
		Schedule:    models.Schedule{StartTime: "09:00", EndTime: "10:00"},
		SectionName: "BSIT-1A",
	}
	repo := &scheduleRepoMock{
		listRoomBookings: func(ctx context.Context, roomID int64, day string, excludeSectionID int64) ([]models.RoomBooking, error) {
			return []models.RoomBooking{booking}, nil
		},
	}
	rooms := &roomRepoStub{rooms: map[int64]models.Room{1: {ID: 1, Name: "Room 204"}}}
	svc := newScheduleService(repo, nil, nil, rooms)

	tests := []struct {
		name     string
		start    string
		end      string
		conflict bool
	}{
		{"overlapping slot", "09:50", "10:30", true},
		{"inside the buffer after the booking", "10:10", "11:00", true},
		{"inside the buffer before the booking", "08:00", "08:50", true},
		{"clear of the buffer", "10:20", "11:20", false},
		{"earlier and clear", "07:00", "08:40", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflict, err := svc.CheckRoomConflict(context.Background(), int64Ptr(1), "Monday", tt.start, tt.end, 5)
			require.NoError(t, err)
			if tt.conflict {
				require.NotNil(t, conflict)
				assert.Contains(t, conflict.Message, "Room 204")
				assert.Contains(t, conflict.Message, "BSIT-1A")
			} else {
				assert.Nil(t, conflict)
			}
		})
	}
}

func TestCheckRoomConflictRejectsBadInput(t *testing.T) {
	svc := newScheduleService(&scheduleRepoMock{}, nil, nil, nil)

	conflict, err := svc.CheckRoomConflict(context.Background(), int64Ptr(1), "Monday", "9am", "10:00", 0)
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "invalid time format", conflict.Message)

	conflict, err = svc.CheckRoomConflict(context.Background(), int64Ptr(1), "Monday", "11:00", "10:00", 0)
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "start time must be before end time", conflict.Message)
}

func TestCheckRoomConflictSkipsUnroomedSlots(t *testing.T) {
	svc := newScheduleService(&scheduleRepoMock{
		listRoomBookings: func(ctx context.Context, roomID int64, day string, excludeSectionID int64) ([]models.RoomBooking, error) {
			t.Fatal("bookings should not be loaded without a room")
			return nil, nil
		},
	}, nil, nil, nil)

	conflict, err := svc.CheckRoomConflict(context.Background(), nil, "Monday", "09:00", "10:00", 0)
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestAssignSubjectsAddModeNeverRemoves(t *testing.T) {
	var gotRemove []int64
	var gotInserts []models.Schedule
	repo := &scheduleRepoMock{
		listSubjectIDs: func(ctx context.Context, sectionID int64) ([]int64, error) {
			return []int64{1, 2}, nil
		},
		applyAssignment: func(ctx context.Context, sectionID int64, removeSubjectIDs []int64, inserts []models.Schedule) error {
			gotRemove = removeSubjectIDs
			gotInserts = inserts
			return nil
		},
	}
	sections := &sectionRepoStub{section: &models.Section{ID: 5, CourseID: 1, YearLevel: "1st Year", Status: models.SectionStatusClosed}}
	subjects := &subjectRepoStub{subjects: map[int64]models.Subject{
		2: {ID: 2, Code: "IT101", CourseID: 1, YearLevel: "1st Year", Type: models.SubjectTypeLecture},
		3: {ID: 3, Code: "IT102", CourseID: 1, YearLevel: "1st Year", Type: models.SubjectTypeLecture},
	}}
	svc := newScheduleService(repo, sections, subjects, nil)

	result, err := svc.AssignSubjects(context.Background(), 5, models.AssignSubjectsRequest{
		SubjectIDs: []int64{2, 3},
		Mode:       models.AssignmentModeAdd,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 0, result.Removed)
	assert.Equal(t, 1, result.Unchanged)
	assert.Empty(t, gotRemove)
	require.Len(t, gotInserts, 1)
	assert.Equal(t, int64(3), gotInserts[0].SubjectID)
}

func TestAssignSubjectsReplaceModeEqualises(t *testing.T) {
	var gotRemove []int64
	repo := &scheduleRepoMock{
		listSubjectIDs: func(ctx context.Context, sectionID int64) ([]int64, error) {
			return []int64{1, 2}, nil
		},
		applyAssignment: func(ctx context.Context, sectionID int64, removeSubjectIDs []int64, inserts []models.Schedule) error {
			gotRemove = removeSubjectIDs
			return nil
		},
	}
	sections := &sectionRepoStub{section: &models.Section{ID: 5, CourseID: 1, YearLevel: "1st Year", Status: models.SectionStatusClosed}}
	subjects := &subjectRepoStub{subjects: map[int64]models.Subject{
		2: {ID: 2, CourseID: 1, YearLevel: "1st Year", Type: models.SubjectTypeLecture},
	}}
	svc := newScheduleService(repo, sections, subjects, nil)

	result, err := svc.AssignSubjects(context.Background(), 5, models.AssignSubjectsRequest{
		SubjectIDs: []int64{2},
		Mode:       models.AssignmentModeReplace,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, 1, result.Unchanged)
	assert.Equal(t, []int64{1}, gotRemove)
}

func TestAssignSubjectsValidateOnlySkipsWrites(t *testing.T) {
	repo := &scheduleRepoMock{
		listSubjectIDs: func(ctx context.Context, sectionID int64) ([]int64, error) {
			return nil, nil
		},
		applyAssignment: func(ctx context.Context, sectionID int64, removeSubjectIDs []int64, inserts []models.Schedule) error {
			t.Fatal("validate-only must not persist")
			return nil
		},
	}
	sections := &sectionRepoStub{section: &models.Section{ID: 5, CourseID: 1, YearLevel: "1st Year", Status: models.SectionStatusClosed}}
	subjects := &subjectRepoStub{subjects: map[int64]models.Subject{
		2: {ID: 2, CourseID: 1, YearLevel: "1st Year", Type: models.SubjectTypeLecture},
	}}
	svc := newScheduleService(repo, sections, subjects, nil)

	result, err := svc.AssignSubjects(context.Background(), 5, models.AssignSubjectsRequest{
		SubjectIDs:   []int64{2},
		ValidateOnly: true,
	})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 1, result.Added)
}

func TestAssignSubjectsGuardsSectionLifecycle(t *testing.T) {
	subjects := &subjectRepoStub{subjects: map[int64]models.Subject{
		2: {ID: 2, CourseID: 1, YearLevel: "1st Year", Type: models.SubjectTypeLecture},
	}}

	t.Run("open section is locked", func(t *testing.T) {
		sections := &sectionRepoStub{section: &models.Section{ID: 5, CourseID: 1, YearLevel: "1st Year", Status: models.SectionStatusOpen}}
		svc := newScheduleService(&scheduleRepoMock{}, sections, subjects, nil)

		_, err := svc.AssignSubjects(context.Background(), 5, models.AssignSubjectsRequest{SubjectIDs: []int64{2}})
		var appErr *appErrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, appErrors.ErrSectionLocked.Code, appErr.Code)
	})

	t.Run("pending enrollments lock the section", func(t *testing.T) {
		sections := &sectionRepoStub{
			section:  &models.Section{ID: 5, CourseID: 1, YearLevel: "1st Year", Status: models.SectionStatusClosed},
			activity: models.ActivityPending,
			pending:  3,
		}
		svc := newScheduleService(&scheduleRepoMock{}, sections, subjects, nil)

		_, err := svc.AssignSubjects(context.Background(), 5, models.AssignSubjectsRequest{SubjectIDs: []int64{2}})
		var appErr *appErrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, appErrors.ErrSectionLocked.Code, appErr.Code)
		assert.Contains(t, appErr.Message, "3 pending enrollment(s)")
	})
}

func TestAssignSubjectsRejectsMismatchedSubjects(t *testing.T) {
	sections := &sectionRepoStub{section: &models.Section{ID: 5, CourseID: 1, YearLevel: "1st Year", Status: models.SectionStatusClosed}}
	subjects := &subjectRepoStub{subjects: map[int64]models.Subject{
		9: {ID: 9, CourseID: 2, YearLevel: "1st Year", Type: models.SubjectTypeLecture},
	}}
	svc := newScheduleService(&scheduleRepoMock{}, sections, subjects, nil)

	_, err := svc.AssignSubjects(context.Background(), 5, models.AssignSubjectsRequest{SubjectIDs: []int64{9}})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "do not match section course/year level")
	assert.Contains(t, appErr.Message, "9")
}

func TestAssignSubjectsTemplateConflictAborts(t *testing.T) {
	repo := &scheduleRepoMock{
		listSubjectIDs: func(ctx context.Context, sectionID int64) ([]int64, error) {
			return nil, nil
		},
		findTemplate: func(ctx context.Context, subjectID int64) (*models.Schedule, error) {
			return &models.Schedule{
				SubjectID: subjectID,
				RoomID:    int64Ptr(1),
				Day:       "Monday",
				StartTime: "09:00",
				EndTime:   "10:00",
				Type:      "Lec",
			}, nil
		},
		listRoomBookings: func(ctx context.Context, roomID int64, day string, excludeSectionID int64) ([]models.RoomBooking, error) {
			return []models.RoomBooking{{
				Schedule:    models.Schedule{StartTime: "09:30", EndTime: "10:30"},
				SectionName: "BSIT-1B",
			}}, nil
		},
		applyAssignment: func(ctx context.Context, sectionID int64, removeSubjectIDs []int64, inserts []models.Schedule) error {
			t.Fatal("conflicting assignment must not persist")
			return nil
		},
	}
	sections := &sectionRepoStub{section: &models.Section{ID: 5, CourseID: 1, YearLevel: "1st Year", Status: models.SectionStatusClosed}}
	subjects := &subjectRepoStub{subjects: map[int64]models.Subject{
		2: {ID: 2, CourseID: 1, YearLevel: "1st Year", Type: models.SubjectTypeLecture},
	}}
	rooms := &roomRepoStub{rooms: map[int64]models.Room{1: {ID: 1, Name: "Room 204"}}}
	svc := newScheduleService(repo, sections, subjects, rooms)

	_, err := svc.AssignSubjects(context.Background(), 5, models.AssignSubjectsRequest{SubjectIDs: []int64{2}})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrScheduleConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "BSIT-1B")
}

func TestAssignSubjectsRejectsOverlapWithinOneCall(t *testing.T) {
	// Both subjects resolve to the same template slot; the room is free
	// in the DB, so only the in-call check can catch the collision.
	repo := &scheduleRepoMock{
		listSubjectIDs: func(ctx context.Context, sectionID int64) ([]int64, error) {
			return nil, nil
		},
		findTemplate: func(ctx context.Context, subjectID int64) (*models.Schedule, error) {
			return &models.Schedule{
				SubjectID: subjectID,
				RoomID:    int64Ptr(1),
				Day:       "Monday",
				StartTime: "09:00",
				EndTime:   "10:00",
				Type:      "Lec",
			}, nil
		},
		listRoomBookings: func(ctx context.Context, roomID int64, day string, excludeSectionID int64) ([]models.RoomBooking, error) {
			return nil, nil
		},
		applyAssignment: func(ctx context.Context, sectionID int64, removeSubjectIDs []int64, inserts []models.Schedule) error {
			t.Fatal("overlapping assignment must not persist")
			return nil
		},
	}
	sections := &sectionRepoStub{section: &models.Section{ID: 5, CourseID: 1, YearLevel: "1st Year", Status: models.SectionStatusClosed}}
	subjects := &subjectRepoStub{subjects: map[int64]models.Subject{
		2: {ID: 2, Code: "GE-MATH", CourseID: 1, YearLevel: "1st Year", Type: models.SubjectTypeLecture},
		3: {ID: 3, Code: "GE-SCI", CourseID: 1, YearLevel: "1st Year", Type: models.SubjectTypeLecture},
	}}
	rooms := &roomRepoStub{rooms: map[int64]models.Room{1: {ID: 1, Name: "Room 204"}}}
	svc := newScheduleService(repo, sections, subjects, rooms)

	_, err := svc.AssignSubjects(context.Background(), 5, models.AssignSubjectsRequest{SubjectIDs: []int64{2, 3}})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrScheduleConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "GE-MATH")
	assert.Contains(t, appErr.Message, "GE-SCI")
}

func TestBulkAssignCreatesRoomsByName(t *testing.T) {
	var created []models.Schedule
	repo := &scheduleRepoMock{
		bulkCreate: func(ctx context.Context, schedules []models.Schedule) error {
			created = schedules
			return nil
		},
	}
	sections := &sectionRepoStub{section: &models.Section{ID: 5, CourseID: 1, YearLevel: "1st Year", Status: models.SectionStatusClosed}}
	subjects := &subjectRepoStub{subjects: map[int64]models.Subject{
		2: {ID: 2, CourseID: 1, YearLevel: "1st Year", Type: models.SubjectTypeLecture},
	}}
	rooms := &roomRepoStub{rooms: map[int64]models.Room{}}
	svc := newScheduleService(repo, sections, subjects, rooms)

	err := svc.BulkAssign(context.Background(), 5, models.BulkAssignRequest{
		Schedules: []models.ScheduleInput{{
			SubjectID: 2,
			Day:       "Monday",
			StartTime: "09:00",
			EndTime:   "10:00",
			Room:      "Room 310",
		}},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.NotNil(t, created[0].RoomID)
	require.Len(t, rooms.created, 1)
	assert.Equal(t, "Room 310", rooms.created[0].Name)
}

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		in    string
		want  int
		valid bool
	}{
		{"09:00", 540, true},
		{"13:30:00", 810, true},
		{" 07:05 ", 425, true},
		{"24:00", 0, false},
		{"09:60", 0, false},
		{"morning", 0, false},
		{"9", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseMinutes(tt.in)
		assert.Equal(t, tt.valid, ok, tt.in)
		if tt.valid {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}
