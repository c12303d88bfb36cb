package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwat0g/enrollment/internal/models"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
)

type enrollmentRepoMock struct {
	findByID         func(ctx context.Context, id int64) (*models.Enrollment, error)
	findActiveByTerm func(ctx context.Context, studentID int64, schoolYear, semester string) (*models.Enrollment, error)
	findLatest       func(ctx context.Context, studentID int64) (*models.Enrollment, error)
	listPending      func(ctx context.Context) ([]models.EnrollmentDetail, error)
	listByStatus     func(ctx context.Context, status models.EnrollmentStatus) ([]models.EnrollmentDetail, error)
	create           func(ctx context.Context, enrollment *models.Enrollment) error
	createIrregular  func(ctx context.Context, enrollment *models.Enrollment, items []models.IrregularEnrollment) error
	replaceItems     func(ctx context.Context, enrollmentID int64, items []models.IrregularEnrollment) error
	listItems        func(ctx context.Context, enrollmentID int64) ([]models.IrregularSubjectDetail, error)
	approve          func(ctx context.Context, id int64, reference string) error
	updateStatus     func(ctx context.Context, id int64, status models.EnrollmentStatus) error
}

func (m *enrollmentRepoMock) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	if m.findByID == nil {
		return nil, sql.ErrNoRows
	}
	return m.findByID(ctx, id)
}

func (m *enrollmentRepoMock) FindActiveByTerm(ctx context.Context, studentID int64, schoolYear, semester string) (*models.Enrollment, error) {
	if m.findActiveByTerm == nil {
		return nil, nil
	}
	return m.findActiveByTerm(ctx, studentID, schoolYear, semester)
}

func (m *enrollmentRepoMock) FindLatestByStudent(ctx context.Context, studentID int64) (*models.Enrollment, error) {
	if m.findLatest == nil {
		return nil, nil
	}
	return m.findLatest(ctx, studentID)
}

func (m *enrollmentRepoMock) ListPending(ctx context.Context) ([]models.EnrollmentDetail, error) {
	if m.listPending == nil {
		return nil, nil
	}
	return m.listPending(ctx)
}

func (m *enrollmentRepoMock) ListByStatus(ctx context.Context, status models.EnrollmentStatus) ([]models.EnrollmentDetail, error) {
	if m.listByStatus == nil {
		return nil, nil
	}
	return m.listByStatus(ctx, status)
}

func (m *enrollmentRepoMock) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if m.create == nil {
		return nil
	}
	return m.create(ctx, enrollment)
}

func (m *enrollmentRepoMock) CreateIrregular(ctx context.Context, enrollment *models.Enrollment, items []models.IrregularEnrollment) error {
	if m.createIrregular == nil {
		return nil
	}
	return m.createIrregular(ctx, enrollment, items)
}

func (m *enrollmentRepoMock) ReplaceIrregularItems(ctx context.Context, enrollmentID int64, items []models.IrregularEnrollment) error {
	if m.replaceItems == nil {
		return nil
	}
	return m.replaceItems(ctx, enrollmentID, items)
}

func (m *enrollmentRepoMock) ListIrregularItems(ctx context.Context, enrollmentID int64) ([]models.IrregularSubjectDetail, error) {
	if m.listItems == nil {
		return nil, nil
	}
	return m.listItems(ctx, enrollmentID)
}

func (m *enrollmentRepoMock) Approve(ctx context.Context, id int64, reference string) error {
	if m.approve == nil {
		return nil
	}
	return m.approve(ctx, id, reference)
}

func (m *enrollmentRepoMock) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error {
	if m.updateStatus == nil {
		return nil
	}
	return m.updateStatus(ctx, id, status)
}

type studentCodeRepoStub struct {
	students map[string]models.Student
}

func (s *studentCodeRepoStub) FindByStudentCode(ctx context.Context, code string) (*models.Student, error) {
	student, ok := s.students[code]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &student, nil
}

type sectionLookupStub struct {
	sections map[int64]models.Section
}

func (s *sectionLookupStub) FindByID(ctx context.Context, id int64) (*models.Section, error) {
	section, ok := s.sections[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &section, nil
}

type scheduleLookupStub struct {
	schedules map[int64]models.Schedule
	bySection map[int64][]models.ScheduleDetail
}

func (s *scheduleLookupStub) ListBySection(ctx context.Context, sectionID int64) ([]models.ScheduleDetail, error) {
	return s.bySection[sectionID], nil
}

func (s *scheduleLookupStub) FindByID(ctx context.Context, id int64) (*models.Schedule, error) {
	schedule, ok := s.schedules[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &schedule, nil
}

type notifierMock struct {
	messages []models.Notification
}

func (n *notifierMock) Create(ctx context.Context, notification *models.Notification) error {
	n.messages = append(n.messages, *notification)
	return nil
}

func newEnrollmentService(enrollments *enrollmentRepoMock, students *studentCodeRepoStub, sections *sectionLookupStub, schedules *scheduleLookupStub, notifier *notifierMock) *EnrollmentService {
	if students == nil {
		students = &studentCodeRepoStub{students: map[string]models.Student{
			"2025-00042": {ID: 7, StudentID: "2025-00042", LastName: "Reyes", CourseID: 1, YearLevel: "1st Year"},
		}}
	}
	if sections == nil {
		sections = &sectionLookupStub{sections: map[int64]models.Section{}}
	}
	if schedules == nil {
		schedules = &scheduleLookupStub{}
	}
	svc := NewEnrollmentService(enrollments, students, sections, schedules, notifier, nil, nil, EnrollmentConfig{})
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestSubmitCreatesPendingEnrollment(t *testing.T) {
	var created *models.Enrollment
	repo := &enrollmentRepoMock{
		create: func(ctx context.Context, enrollment *models.Enrollment) error {
			enrollment.ID = 11
			created = enrollment
			return nil
		},
	}
	sections := &sectionLookupStub{sections: map[int64]models.Section{
		3: {ID: 3, Status: models.SectionStatusOpen},
	}}
	svc := newEnrollmentService(repo, nil, sections, nil, nil)

	enrollment, err := svc.Submit(context.Background(), "2025-00042", models.SubmitEnrollmentRequest{
		SectionID:  3,
		SchoolYear: "2025-2026",
		Semester:   "1st Semester",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, int64(7), enrollment.StudentID)
	assert.Equal(t, int64(3), enrollment.SectionID)
	assert.Equal(t, "2025-2026", enrollment.SchoolYear)
}

func TestSubmitRejectsSecondEnrollmentForTerm(t *testing.T) {
	repo := &enrollmentRepoMock{
		findActiveByTerm: func(ctx context.Context, studentID int64, schoolYear, semester string) (*models.Enrollment, error) {
			return &models.Enrollment{ID: 9, Status: models.EnrollmentStatusPending}, nil
		},
		create: func(ctx context.Context, enrollment *models.Enrollment) error {
			t.Fatal("duplicate term submission must not persist")
			return nil
		},
	}
	sections := &sectionLookupStub{sections: map[int64]models.Section{
		3: {ID: 3, Status: models.SectionStatusOpen},
	}}
	svc := newEnrollmentService(repo, nil, sections, nil, nil)

	_, err := svc.Submit(context.Background(), "2025-00042", models.SubmitEnrollmentRequest{
		SectionID:  3,
		SchoolYear: "2025-2026",
		Semester:   "1st Semester",
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "already enrolled for this term", appErr.Message)
}

func TestSubmitRejectsClosedSection(t *testing.T) {
	sections := &sectionLookupStub{sections: map[int64]models.Section{
		3: {ID: 3, Status: models.SectionStatusClosed},
	}}
	svc := newEnrollmentService(&enrollmentRepoMock{}, nil, sections, nil, nil)

	_, err := svc.Submit(context.Background(), "2025-00042", models.SubmitEnrollmentRequest{
		SectionID:  3,
		SchoolYear: "2025-2026",
		Semester:   "1st Semester",
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "section is not open for enrollment", appErr.Message)
}

func TestApproveStampsReferenceFromApprovalDate(t *testing.T) {
	var gotReference string
	repo := &enrollmentRepoMock{
		findByID: func(ctx context.Context, id int64) (*models.Enrollment, error) {
			return &models.Enrollment{ID: id, StudentID: 7, Status: models.EnrollmentStatusPending}, nil
		},
		approve: func(ctx context.Context, id int64, reference string) error {
			gotReference = reference
			return nil
		},
	}
	notifier := &notifierMock{}
	svc := newEnrollmentService(repo, nil, nil, nil, notifier)

	enrollment, err := svc.Approve(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "ENR-20250601-42", gotReference)
	require.NotNil(t, enrollment.ReferenceNumber)
	assert.Equal(t, gotReference, *enrollment.ReferenceNumber)
	assert.Equal(t, models.EnrollmentStatusApproved, enrollment.Status)

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, int64(7), notifier.messages[0].StudentID)
	assert.Contains(t, notifier.messages[0].Message, gotReference)
}

func TestApproveMissingEnrollment(t *testing.T) {
	svc := newEnrollmentService(&enrollmentRepoMock{}, nil, nil, nil, nil)

	_, err := svc.Approve(context.Background(), 99)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestRejectNotifiesStudent(t *testing.T) {
	repo := &enrollmentRepoMock{
		findByID: func(ctx context.Context, id int64) (*models.Enrollment, error) {
			return &models.Enrollment{ID: id, StudentID: 7, Status: models.EnrollmentStatusPending}, nil
		},
	}
	notifier := &notifierMock{}
	svc := newEnrollmentService(repo, nil, nil, nil, notifier)

	enrollment, err := svc.Reject(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusRejected, enrollment.Status)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0].Message, "rejected")
}

func TestSubmitIrregularValidatesScheduleOwnership(t *testing.T) {
	schedules := &scheduleLookupStub{schedules: map[int64]models.Schedule{
		20: {ID: 20, SectionID: 4, SubjectID: 8},
	}}
	svc := newEnrollmentService(&enrollmentRepoMock{}, nil, nil, schedules, nil)

	_, err := svc.SubmitIrregular(context.Background(), "2025-00042", models.SubmitIrregularRequest{
		SchoolYear: "2025-2026",
		Semester:   "1st Semester",
		SubjectSchedules: []models.IrregularSubjectInput{
			{SubjectID: 8, ScheduleID: 20, SectionID: 99},
		},
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "does not belong to subject")
}

func TestSubmitIrregularRevisesPendingEnrollment(t *testing.T) {
	var replacedID int64
	var replacedItems []models.IrregularEnrollment
	enrollmentID := int64(33)
	repo := &enrollmentRepoMock{
		findByID: func(ctx context.Context, id int64) (*models.Enrollment, error) {
			return &models.Enrollment{
				ID:             id,
				StudentID:      7,
				Status:         models.EnrollmentStatusPending,
				EnrollmentType: models.EnrollmentTypeIrregular,
			}, nil
		},
		replaceItems: func(ctx context.Context, id int64, items []models.IrregularEnrollment) error {
			replacedID = id
			replacedItems = items
			return nil
		},
		createIrregular: func(ctx context.Context, enrollment *models.Enrollment, items []models.IrregularEnrollment) error {
			t.Fatal("revision must replace, not create")
			return nil
		},
	}
	schedules := &scheduleLookupStub{schedules: map[int64]models.Schedule{
		20: {ID: 20, SectionID: 4, SubjectID: 8},
	}}
	svc := newEnrollmentService(repo, nil, nil, schedules, nil)

	_, err := svc.SubmitIrregular(context.Background(), "2025-00042", models.SubmitIrregularRequest{
		SchoolYear:   "2025-2026",
		Semester:     "1st Semester",
		EnrollmentID: &enrollmentID,
		SubjectSchedules: []models.IrregularSubjectInput{
			{SubjectID: 8, ScheduleID: 20, SectionID: 4},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, enrollmentID, replacedID)
	require.Len(t, replacedItems, 1)
	assert.Equal(t, int64(20), replacedItems[0].ScheduleID)
}

func TestSubmitIrregularRefusesForeignEnrollment(t *testing.T) {
	enrollmentID := int64(33)
	repo := &enrollmentRepoMock{
		findByID: func(ctx context.Context, id int64) (*models.Enrollment, error) {
			return &models.Enrollment{
				ID:             id,
				StudentID:      999,
				Status:         models.EnrollmentStatusPending,
				EnrollmentType: models.EnrollmentTypeIrregular,
			}, nil
		},
	}
	schedules := &scheduleLookupStub{schedules: map[int64]models.Schedule{
		20: {ID: 20, SectionID: 4, SubjectID: 8},
	}}
	svc := newEnrollmentService(repo, nil, nil, schedules, nil)

	_, err := svc.SubmitIrregular(context.Background(), "2025-00042", models.SubmitIrregularRequest{
		SchoolYear:   "2025-2026",
		Semester:     "1st Semester",
		EnrollmentID: &enrollmentID,
		SubjectSchedules: []models.IrregularSubjectInput{
			{SubjectID: 8, ScheduleID: 20, SectionID: 4},
		},
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)
}

func TestCurrentResolvesIrregularThroughChoices(t *testing.T) {
	repo := &enrollmentRepoMock{
		findLatest: func(ctx context.Context, studentID int64) (*models.Enrollment, error) {
			return &models.Enrollment{
				ID:             33,
				StudentID:      studentID,
				SectionID:      4,
				Status:         models.EnrollmentStatusApproved,
				EnrollmentType: models.EnrollmentTypeIrregular,
			}, nil
		},
		listItems: func(ctx context.Context, enrollmentID int64) ([]models.IrregularSubjectDetail, error) {
			return []models.IrregularSubjectDetail{{
				IrregularEnrollment: models.IrregularEnrollment{SubjectID: 8, ScheduleID: 20, SectionID: 4},
				Day:                 "Monday",
				StartTime:           "09:00",
				EndTime:             "10:00",
				SubjectCode:         "IT101",
				SubjectName:         "Programming 1",
				Units:               3,
				SectionName:         "BSIT-1A",
			}}, nil
		},
	}
	svc := newEnrollmentService(repo, nil, nil, nil, nil)

	current, err := svc.Current(context.Background(), "2025-00042")
	require.NoError(t, err)
	require.NotNil(t, current.Section)
	assert.Equal(t, "Irregular (mixed sections)", current.Section.Name)
	require.Len(t, current.Schedule, 1)
	assert.Equal(t, "IT101", current.Schedule[0].SubjectCode)
	require.NotNil(t, current.Schedule[0].SectionName)
	assert.Equal(t, "BSIT-1A", *current.Schedule[0].SectionName)
}

func TestCurrentWithoutEnrollment(t *testing.T) {
	svc := newEnrollmentService(&enrollmentRepoMock{}, nil, nil, nil, nil)

	current, err := svc.Current(context.Background(), "2025-00042")
	require.NoError(t, err)
	assert.Nil(t, current.Enrollment)
	assert.Nil(t, current.Section)
}

func TestExportCSVDefaultsToPending(t *testing.T) {
	var gotStatus models.EnrollmentStatus
	reference := "ENR-20250601-11"
	repo := &enrollmentRepoMock{
		listByStatus: func(ctx context.Context, status models.EnrollmentStatus) ([]models.EnrollmentDetail, error) {
			gotStatus = status
			return []models.EnrollmentDetail{{
				Enrollment: models.Enrollment{
					ID:              11,
					SchoolYear:      "2025-2026",
					Semester:        "1st Semester",
					Status:          models.EnrollmentStatusPending,
					DateApplied:     time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
					ReferenceNumber: &reference,
				},
				StudentCode: "2025-00042",
				FirstName:   "Juan",
				LastName:    "Reyes",
				SectionName: "BSIT-1A",
			}}, nil
		},
	}
	svc := newEnrollmentService(repo, nil, nil, nil, nil)

	payload, err := svc.ExportCSV(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusPending, gotStatus)
	assert.Contains(t, string(payload), "2025-00042")
	assert.Contains(t, string(payload), reference)
}
