package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwat0g/enrollment/internal/models"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
)

type sectionCrudMock struct {
	section       *models.Section
	activity      models.EnrollmentActivity
	pending       int
	approved      int
	statusUpdates []models.SectionStatus
	updated       *models.Section
	deleted       []int64
}

func (m *sectionCrudMock) List(ctx context.Context, courseID int64, yearLevel string) ([]models.SectionDetail, error) {
	return nil, nil
}

func (m *sectionCrudMock) ListOpenByCourseAndYear(ctx context.Context, courseID int64, yearLevel string) ([]models.Section, error) {
	return nil, nil
}

func (m *sectionCrudMock) FindByID(ctx context.Context, id int64) (*models.Section, error) {
	if m.section == nil || m.section.ID != id {
		return nil, nil
	}
	copied := *m.section
	return &copied, nil
}

func (m *sectionCrudMock) EnrollmentActivity(ctx context.Context, sectionID int64) (models.EnrollmentActivity, error) {
	if m.activity == "" {
		return models.ActivityNone, nil
	}
	return m.activity, nil
}

func (m *sectionCrudMock) CountEnrollments(ctx context.Context, sectionID int64, status models.EnrollmentStatus) (int, error) {
	if status == models.EnrollmentStatusApproved {
		return m.approved, nil
	}
	return m.pending, nil
}

func (m *sectionCrudMock) Create(ctx context.Context, section *models.Section) error {
	section.ID = 1
	m.section = section
	return nil
}

func (m *sectionCrudMock) Update(ctx context.Context, section *models.Section) error {
	m.updated = section
	return nil
}

func (m *sectionCrudMock) UpdateStatus(ctx context.Context, id int64, status models.SectionStatus) error {
	m.statusUpdates = append(m.statusUpdates, status)
	return nil
}

func (m *sectionCrudMock) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type sectionScheduleStub struct {
	count int
}

func (s *sectionScheduleStub) ListBySection(ctx context.Context, sectionID int64) ([]models.ScheduleDetail, error) {
	return nil, nil
}

func (s *sectionScheduleStub) CountBySection(ctx context.Context, sectionID int64) (int, error) {
	return s.count, nil
}

type sectionEnrollmentStub struct{}

func (s *sectionEnrollmentStub) ListBySection(ctx context.Context, sectionID int64) ([]models.EnrollmentDetail, error) {
	return nil, nil
}

func newSectionService(sections *sectionCrudMock, schedules *sectionScheduleStub) *SectionService {
	if schedules == nil {
		schedules = &sectionScheduleStub{}
	}
	return NewSectionService(sections, schedules, &sectionEnrollmentStub{}, nil, nil, nil)
}

func TestCreateSectionDefaultsToClosed(t *testing.T) {
	sections := &sectionCrudMock{}
	svc := newSectionService(sections, nil)

	section, err := svc.Create(context.Background(), models.SectionRequest{
		Name:      "BSIT-1A",
		YearLevel: "1st Year",
		CourseID:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SectionStatusClosed, section.Status)
}

func TestSetStatusOpenRequiresSchedules(t *testing.T) {
	sections := &sectionCrudMock{section: &models.Section{ID: 1, Status: models.SectionStatusClosed}}
	svc := newSectionService(sections, &sectionScheduleStub{count: 0})

	_, err := svc.SetStatus(context.Background(), 1, models.SectionStatusRequest{Status: models.SectionStatusOpen})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "section has no schedule and cannot be opened", appErr.Message)
	assert.Empty(t, sections.statusUpdates)
}

func TestSetStatusOpensScheduledSection(t *testing.T) {
	sections := &sectionCrudMock{section: &models.Section{ID: 1, Status: models.SectionStatusClosed}}
	svc := newSectionService(sections, &sectionScheduleStub{count: 4})

	section, err := svc.SetStatus(context.Background(), 1, models.SectionStatusRequest{Status: models.SectionStatusOpen})
	require.NoError(t, err)
	assert.Equal(t, models.SectionStatusOpen, section.Status)
	assert.Equal(t, []models.SectionStatus{models.SectionStatusOpen}, sections.statusUpdates)
}

func TestSetStatusCloseBlockedByPendingEnrollments(t *testing.T) {
	sections := &sectionCrudMock{
		section: &models.Section{ID: 1, Status: models.SectionStatusOpen},
		pending: 2,
	}
	svc := newSectionService(sections, nil)

	_, err := svc.SetStatus(context.Background(), 1, models.SectionStatusRequest{Status: models.SectionStatusClosed})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "2 pending enrollment(s)")
}

func TestSetStatusNoopWhenUnchanged(t *testing.T) {
	sections := &sectionCrudMock{section: &models.Section{ID: 1, Status: models.SectionStatusOpen}}
	svc := newSectionService(sections, nil)

	section, err := svc.SetStatus(context.Background(), 1, models.SectionStatusRequest{Status: models.SectionStatusOpen})
	require.NoError(t, err)
	assert.Equal(t, models.SectionStatusOpen, section.Status)
	assert.Empty(t, sections.statusUpdates)
}

func TestUpdateBlockedWhileOpen(t *testing.T) {
	sections := &sectionCrudMock{section: &models.Section{ID: 1, Status: models.SectionStatusOpen}}
	svc := newSectionService(sections, nil)

	_, err := svc.Update(context.Background(), 1, models.SectionRequest{
		Name:      "BSIT-1B",
		YearLevel: "1st Year",
		CourseID:  1,
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrSectionLocked.Code, appErr.Code)
	assert.Nil(t, sections.updated)
}

func TestDeleteBlockedByApprovedEnrollments(t *testing.T) {
	sections := &sectionCrudMock{
		section:  &models.Section{ID: 1, Status: models.SectionStatusClosed},
		activity: models.ActivityApproved,
		approved: 5,
	}
	svc := newSectionService(sections, nil)

	err := svc.Delete(context.Background(), 1)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "5 approved enrollment(s)")
	assert.Empty(t, sections.deleted)
}

func TestDeleteRemovesIdleSection(t *testing.T) {
	sections := &sectionCrudMock{section: &models.Section{ID: 1, Status: models.SectionStatusClosed}}
	svc := newSectionService(sections, nil)

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Equal(t, []int64{1}, sections.deleted)
}
