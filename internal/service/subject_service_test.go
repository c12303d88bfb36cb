package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwat0g/enrollment/internal/models"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
)

type subjectCrudMock struct {
	byID        map[int64]models.Subject
	codes       map[string]bool
	prefixCount int
	pairs       [][2]models.Subject
	created     []models.Subject
	deleted     []int64
}

func (m *subjectCrudMock) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	return nil, nil
}

func (m *subjectCrudMock) FindByID(ctx context.Context, id int64) (*models.Subject, error) {
	subject, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &subject, nil
}

func (m *subjectCrudMock) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return m.codes[code], nil
}

func (m *subjectCrudMock) CountByCoursePrefix(ctx context.Context, prefix string) (int, error) {
	return m.prefixCount, nil
}

func (m *subjectCrudMock) Create(ctx context.Context, subject *models.Subject) error {
	subject.ID = int64(len(m.created) + 1)
	m.created = append(m.created, *subject)
	return nil
}

func (m *subjectCrudMock) CreatePair(ctx context.Context, lecture, laboratory *models.Subject) error {
	lecture.ID = int64(len(m.pairs)*2 + 1)
	laboratory.ID = lecture.ID + 1
	m.pairs = append(m.pairs, [2]models.Subject{*lecture, *laboratory})
	return nil
}

func (m *subjectCrudMock) Update(ctx context.Context, subject *models.Subject) error {
	m.byID[subject.ID] = *subject
	return nil
}

func (m *subjectCrudMock) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type courseLookupStub struct {
	courses map[int64]models.Course
}

func (s *courseLookupStub) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	course, ok := s.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &course, nil
}

type subjectScheduleStub struct {
	count int
}

func (s *subjectScheduleStub) CountBySubject(ctx context.Context, subjectID int64) (int, error) {
	return s.count, nil
}

func newSubjectService(subjects *subjectCrudMock, schedules *subjectScheduleStub) *SubjectService {
	if schedules == nil {
		schedules = &subjectScheduleStub{}
	}
	courses := &courseLookupStub{courses: map[int64]models.Course{
		1: {ID: 1, Code: "BSIT", Name: "BS Information Technology"},
	}}
	return NewSubjectService(subjects, courses, schedules, nil, nil)
}

func TestCreateMajorMintsLecLabPair(t *testing.T) {
	subjects := &subjectCrudMock{}
	svc := newSubjectService(subjects, nil)

	created, err := svc.Create(context.Background(), models.CreateSubjectRequest{
		Name:      "Programming 1",
		Category:  models.SubjectCategoryMajor,
		CourseID:  1,
		YearLevel: "1st Year",
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	lecture, laboratory := created[0], created[1]
	assert.Equal(t, "IT101", lecture.Code)
	assert.Equal(t, "IT101", laboratory.Code)
	assert.Equal(t, models.SubjectTypeLecture, lecture.Type)
	assert.Equal(t, models.SubjectTypeLaboratory, laboratory.Type)
	assert.Equal(t, 1, lecture.Units)
	assert.Equal(t, 2, laboratory.Units)
	require.Len(t, subjects.pairs, 1)
}

func TestCreateMajorAdvancesSequence(t *testing.T) {
	// Two existing major subjects occupy four rows under IT101 and IT102.
	subjects := &subjectCrudMock{prefixCount: 4}
	svc := newSubjectService(subjects, nil)

	created, err := svc.Create(context.Background(), models.CreateSubjectRequest{
		Name:      "Data Structures",
		Category:  models.SubjectCategoryMajor,
		CourseID:  1,
		YearLevel: "1st Year",
	})
	require.NoError(t, err)
	assert.Equal(t, "IT103", created[0].Code)
}

func TestCreateMajorUsesYearDigit(t *testing.T) {
	subjects := &subjectCrudMock{}
	svc := newSubjectService(subjects, nil)

	created, err := svc.Create(context.Background(), models.CreateSubjectRequest{
		Name:      "Capstone 1",
		Category:  models.SubjectCategoryMajor,
		CourseID:  1,
		YearLevel: "3rd Year",
	})
	require.NoError(t, err)
	assert.Equal(t, "IT301", created[0].Code)
}

func TestCreateMinorRejectsReservedCodePattern(t *testing.T) {
	svc := newSubjectService(&subjectCrudMock{}, nil)

	_, err := svc.Create(context.Background(), models.CreateSubjectRequest{
		Name:      "Some Elective",
		Category:  models.SubjectCategoryMinor,
		CourseID:  1,
		YearLevel: "1st Year",
		Code:      "IT105",
		Units:     3,
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "reserved major subject pattern")
}

func TestCreateMinorRejectsDuplicateCode(t *testing.T) {
	subjects := &subjectCrudMock{codes: map[string]bool{"GE-MATH": true}}
	svc := newSubjectService(subjects, nil)

	_, err := svc.Create(context.Background(), models.CreateSubjectRequest{
		Name:      "Mathematics in the Modern World",
		Category:  models.SubjectCategoryMinor,
		CourseID:  1,
		YearLevel: "1st Year",
		Code:      "ge-math",
		Units:     3,
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestCreateMinorUppercasesCode(t *testing.T) {
	subjects := &subjectCrudMock{}
	svc := newSubjectService(subjects, nil)

	created, err := svc.Create(context.Background(), models.CreateSubjectRequest{
		Name:      "Purposive Communication",
		Category:  models.SubjectCategoryMinor,
		CourseID:  1,
		YearLevel: "1st Year",
		Code:      "ge-eng",
		Units:     3,
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "GE-ENG", created[0].Code)
	assert.Equal(t, models.SubjectTypeLecture, created[0].Type)
}

func TestDeleteBlockedWhileScheduled(t *testing.T) {
	subjects := &subjectCrudMock{byID: map[int64]models.Subject{7: {ID: 7, Code: "IT101"}}}
	svc := newSubjectService(subjects, &subjectScheduleStub{count: 3})

	err := svc.Delete(context.Background(), 7)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "3 section slot(s)")
	assert.Empty(t, subjects.deleted)
}

func TestDeleteUnscheduledSubject(t *testing.T) {
	subjects := &subjectCrudMock{byID: map[int64]models.Subject{7: {ID: 7, Code: "IT101"}}}
	svc := newSubjectService(subjects, nil)

	require.NoError(t, svc.Delete(context.Background(), 7))
	assert.Equal(t, []int64{7}, subjects.deleted)
}
