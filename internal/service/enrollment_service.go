package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kwat0g/enrollment/internal/models"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
	"github.com/kwat0g/enrollment/pkg/export"
)

type enrollmentRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Enrollment, error)
	FindActiveByTerm(ctx context.Context, studentID int64, schoolYear, semester string) (*models.Enrollment, error)
	FindLatestByStudent(ctx context.Context, studentID int64) (*models.Enrollment, error)
	ListPending(ctx context.Context) ([]models.EnrollmentDetail, error)
	ListByStatus(ctx context.Context, status models.EnrollmentStatus) ([]models.EnrollmentDetail, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	CreateIrregular(ctx context.Context, enrollment *models.Enrollment, items []models.IrregularEnrollment) error
	ReplaceIrregularItems(ctx context.Context, enrollmentID int64, items []models.IrregularEnrollment) error
	ListIrregularItems(ctx context.Context, enrollmentID int64) ([]models.IrregularSubjectDetail, error)
	Approve(ctx context.Context, id int64, reference string) error
	UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error
}

type enrollmentStudentRepository interface {
	FindByStudentCode(ctx context.Context, code string) (*models.Student, error)
}

type enrollmentSectionRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Section, error)
}

type enrollmentScheduleRepository interface {
	ListBySection(ctx context.Context, sectionID int64) ([]models.ScheduleDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Schedule, error)
}

type enrollmentNotifier interface {
	Create(ctx context.Context, n *models.Notification) error
}

// EnrollmentConfig tunes reference numbers.
type EnrollmentConfig struct {
	ReferencePrefix string
}

// EnrollmentService drives the enrollment workflow from student
// submission to admin decision.
type EnrollmentService struct {
	enrollments enrollmentRepository
	students    enrollmentStudentRepository
	sections    enrollmentSectionRepository
	schedules   enrollmentScheduleRepository
	notifier    enrollmentNotifier
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	validator   *validator.Validate
	logger      *zap.Logger
	config      EnrollmentConfig
	now         func() time.Time
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(enrollments enrollmentRepository, students enrollmentStudentRepository, sections enrollmentSectionRepository, schedules enrollmentScheduleRepository, notifier enrollmentNotifier, validate *validator.Validate, logger *zap.Logger, config EnrollmentConfig) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.ReferencePrefix == "" {
		config.ReferencePrefix = "ENR"
	}
	return &EnrollmentService{
		enrollments: enrollments,
		students:    students,
		sections:    sections,
		schedules:   schedules,
		notifier:    notifier,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		validator:   validate,
		logger:      logger,
		config:      config,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Submit registers a student into a block section for the term.
func (s *EnrollmentService) Submit(ctx context.Context, studentCode string, req models.SubmitEnrollmentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	student, err := s.resolveStudent(ctx, studentCode)
	if err != nil {
		return nil, err
	}

	section, err := s.sections.FindByID(ctx, req.SectionID)
	if err != nil || section == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
	}
	if section.Status != models.SectionStatusOpen {
		return nil, appErrors.Clone(appErrors.ErrValidation, "section is not open for enrollment")
	}

	if err := s.ensureNotEnrolled(ctx, student.ID, req.SchoolYear, req.Semester); err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{
		StudentID:   student.ID,
		SectionID:   req.SectionID,
		SchoolYear:  req.SchoolYear,
		Semester:    req.Semester,
		DateApplied: s.now(),
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, appErrors.FromError(err)
	}

	s.logger.Info("enrollment submitted",
		zap.String("student_id", studentCode),
		zap.Int64("section_id", req.SectionID))
	return enrollment, nil
}

// SubmitIrregular registers per-subject choices across sections. With
// EnrollmentID set it replaces the choices of the student's existing
// pending irregular enrollment.
func (s *EnrollmentService) SubmitIrregular(ctx context.Context, studentCode string, req models.SubmitIrregularRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid irregular enrollment payload")
	}

	student, err := s.resolveStudent(ctx, studentCode)
	if err != nil {
		return nil, err
	}

	items := make([]models.IrregularEnrollment, 0, len(req.SubjectSchedules))
	for _, triple := range req.SubjectSchedules {
		schedule, err := s.schedules.FindByID(ctx, triple.ScheduleID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("schedule %d not found", triple.ScheduleID))
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
		}
		if schedule.SubjectID != triple.SubjectID || schedule.SectionID != triple.SectionID {
			return nil, appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("schedule %d does not belong to subject %d in section %d", triple.ScheduleID, triple.SubjectID, triple.SectionID))
		}
		items = append(items, models.IrregularEnrollment{
			SubjectID:  triple.SubjectID,
			ScheduleID: triple.ScheduleID,
			SectionID:  triple.SectionID,
		})
	}

	if req.EnrollmentID != nil {
		enrollment, err := s.enrollments.FindByID(ctx, *req.EnrollmentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
		}
		if enrollment.StudentID != student.ID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "enrollment belongs to another student")
		}
		if enrollment.Status != models.EnrollmentStatusPending || enrollment.EnrollmentType != models.EnrollmentTypeIrregular {
			return nil, appErrors.Clone(appErrors.ErrValidation, "only pending irregular enrollments can be revised")
		}
		if err := s.enrollments.ReplaceIrregularItems(ctx, enrollment.ID, items); err != nil {
			return nil, appErrors.FromError(err)
		}
		return enrollment, nil
	}

	if err := s.ensureNotEnrolled(ctx, student.ID, req.SchoolYear, req.Semester); err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{
		StudentID:   student.ID,
		SectionID:   items[0].SectionID,
		SchoolYear:  req.SchoolYear,
		Semester:    req.Semester,
		DateApplied: s.now(),
	}
	if err := s.enrollments.CreateIrregular(ctx, enrollment, items); err != nil {
		return nil, appErrors.FromError(err)
	}

	s.logger.Info("irregular enrollment submitted",
		zap.String("student_id", studentCode),
		zap.Int("subjects", len(items)))
	return enrollment, nil
}

// Approve marks an enrollment approved and stamps its reference number.
// The reference is regenerated from the approval date every time, so
// re-approving on a later day changes it.
func (s *EnrollmentService) Approve(ctx context.Context, id int64) (*models.Enrollment, error) {
	enrollment, err := s.mustEnrollment(ctx, id)
	if err != nil {
		return nil, err
	}

	reference := fmt.Sprintf("%s-%s-%d", s.config.ReferencePrefix, s.now().Format("20060102"), enrollment.ID)
	if err := s.enrollments.Approve(ctx, enrollment.ID, reference); err != nil {
		return nil, appErrors.FromError(err)
	}
	enrollment.Status = models.EnrollmentStatusApproved
	enrollment.ReferenceNumber = &reference

	s.notify(ctx, enrollment.StudentID, fmt.Sprintf("Your enrollment has been approved. Reference number: %s", reference), "enrollment")
	s.logger.Info("enrollment approved", zap.Int64("enrollment_id", id), zap.String("reference", reference))
	return enrollment, nil
}

// Reject marks an enrollment rejected.
func (s *EnrollmentService) Reject(ctx context.Context, id int64) (*models.Enrollment, error) {
	enrollment, err := s.mustEnrollment(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.enrollments.UpdateStatus(ctx, enrollment.ID, models.EnrollmentStatusRejected); err != nil {
		return nil, appErrors.FromError(err)
	}
	enrollment.Status = models.EnrollmentStatusRejected

	s.notify(ctx, enrollment.StudentID, "Your enrollment has been rejected. Please visit the registrar for details.", "enrollment")
	s.logger.Info("enrollment rejected", zap.Int64("enrollment_id", id))
	return enrollment, nil
}

// ListPending returns the admin review queue.
func (s *EnrollmentService) ListPending(ctx context.Context) ([]models.EnrollmentDetail, error) {
	pending, err := s.enrollments.ListPending(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pending enrollments")
	}
	return pending, nil
}

// IrregularDetails returns an irregular enrollment's subject choices.
func (s *EnrollmentService) IrregularDetails(ctx context.Context, id int64) ([]models.IrregularSubjectDetail, error) {
	enrollment, err := s.mustEnrollment(ctx, id)
	if err != nil {
		return nil, err
	}
	if enrollment.EnrollmentType != models.EnrollmentTypeIrregular {
		return nil, appErrors.Clone(appErrors.ErrValidation, "enrollment is not irregular")
	}
	items, err := s.enrollments.ListIrregularItems(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load irregular subjects")
	}
	return items, nil
}

// Current returns the student's registration view: the latest pending
// or approved enrollment with its section and schedule. Irregular
// enrollments resolve through their subject choices under a virtual
// mixed-sections entry.
func (s *EnrollmentService) Current(ctx context.Context, studentCode string) (*models.CurrentEnrollment, error) {
	student, err := s.resolveStudent(ctx, studentCode)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.enrollments.FindLatestByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if enrollment == nil {
		return &models.CurrentEnrollment{}, nil
	}

	if enrollment.EnrollmentType == models.EnrollmentTypeIrregular {
		items, err := s.enrollments.ListIrregularItems(ctx, enrollment.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load irregular subjects")
		}
		virtual := &models.Section{
			ID:        enrollment.SectionID,
			Name:      "Irregular (mixed sections)",
			YearLevel: student.YearLevel,
			CourseID:  student.CourseID,
		}
		return &models.CurrentEnrollment{
			Enrollment: enrollment,
			Section:    virtual,
			Schedule:   irregularToSchedule(items),
		}, nil
	}

	section, err := s.sections.FindByID(ctx, enrollment.SectionID)
	if err != nil || section == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "enrolled section no longer exists")
	}
	schedule, err := s.schedules.ListBySection(ctx, section.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section schedule")
	}
	return &models.CurrentEnrollment{Enrollment: enrollment, Section: section, Schedule: schedule}, nil
}

// ExportCSV renders the enrollments in a status as CSV bytes.
func (s *EnrollmentService) ExportCSV(ctx context.Context, status models.EnrollmentStatus) ([]byte, error) {
	if status == "" {
		status = models.EnrollmentStatusPending
	}
	enrollments, err := s.enrollments.ListByStatus(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}

	dataset := export.Dataset{
		Headers: []string{"Reference", "Student ID", "Last Name", "First Name", "Section", "School Year", "Semester", "Status", "Date Applied"},
	}
	for _, e := range enrollments {
		reference := ""
		if e.ReferenceNumber != nil {
			reference = *e.ReferenceNumber
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Reference":    reference,
			"Student ID":   e.StudentCode,
			"Last Name":    e.LastName,
			"First Name":   e.FirstName,
			"Section":      e.SectionName,
			"School Year":  e.SchoolYear,
			"Semester":     e.Semester,
			"Status":       string(e.Status),
			"Date Applied": e.DateApplied.Format("2006-01-02"),
		})
	}

	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return payload, nil
}

// RegistrationFormPDF renders the student's certificate of registration.
func (s *EnrollmentService) RegistrationFormPDF(ctx context.Context, studentCode string) ([]byte, error) {
	current, err := s.Current(ctx, studentCode)
	if err != nil {
		return nil, err
	}
	if current.Enrollment == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no active enrollment")
	}

	student, err := s.resolveStudent(ctx, studentCode)
	if err != nil {
		return nil, err
	}

	reference := ""
	if current.Enrollment.ReferenceNumber != nil {
		reference = *current.Enrollment.ReferenceNumber
	}
	sectionName := ""
	if current.Section != nil {
		sectionName = current.Section.Name
	}
	fields := [][2]string{
		{"Reference Number", reference},
		{"Student ID", student.StudentID},
		{"Name", fmt.Sprintf("%s, %s %s", student.LastName, student.FirstName, student.MiddleName)},
		{"Section", sectionName},
		{"School Year", current.Enrollment.SchoolYear},
		{"Semester", current.Enrollment.Semester},
		{"Status", string(current.Enrollment.Status)},
	}

	dataset := export.Dataset{Headers: []string{"Subject", "Description", "Units", "Day", "Time", "Room", "Instructor"}}
	for _, row := range current.Schedule {
		roomName := ""
		if row.RoomName != nil {
			roomName = *row.RoomName
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Subject":     row.SubjectCode,
			"Description": row.SubjectName,
			"Units":       fmt.Sprintf("%d", row.SubjectUnits),
			"Day":         row.Day,
			"Time":        fmt.Sprintf("%s - %s", row.StartTime, row.EndTime),
			"Room":        roomName,
			"Instructor":  row.Instructor,
		})
	}

	payload, err := s.pdf.RenderForm("Certificate of Registration", fields, dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render registration form")
	}
	return payload, nil
}

func (s *EnrollmentService) ensureNotEnrolled(ctx context.Context, studentID int64, schoolYear, semester string) error {
	existing, err := s.enrollments.FindActiveByTerm(ctx, studentID, schoolYear, semester)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing enrollment")
	}
	if existing != nil {
		return appErrors.Clone(appErrors.ErrValidation, "already enrolled for this term")
	}
	return nil
}

func (s *EnrollmentService) mustEnrollment(ctx context.Context, id int64) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return enrollment, nil
}

func (s *EnrollmentService) resolveStudent(ctx context.Context, studentCode string) (*models.Student, error) {
	student, err := s.students.FindByStudentCode(ctx, studentCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// notify inserts a notification without failing the caller.
func (s *EnrollmentService) notify(ctx context.Context, studentID int64, message, kind string) {
	if s.notifier == nil {
		return
	}
	n := &models.Notification{StudentID: studentID, Message: message, Type: kind}
	if err := s.notifier.Create(ctx, n); err != nil {
		s.logger.Warn("failed to create notification", zap.Int64("student_id", studentID), zap.Error(err))
	}
}

func irregularToSchedule(items []models.IrregularSubjectDetail) []models.ScheduleDetail {
	schedule := make([]models.ScheduleDetail, 0, len(items))
	for _, item := range items {
		sectionName := item.SectionName
		detail := models.ScheduleDetail{
			Schedule: models.Schedule{
				ID:         item.ScheduleID,
				SectionID:  item.SectionID,
				SubjectID:  item.SubjectID,
				Day:        item.Day,
				StartTime:  item.StartTime,
				EndTime:    item.EndTime,
				Type:       string(item.Type),
				Instructor: item.Instructor,
			},
			SubjectCode:  item.SubjectCode,
			SubjectName:  item.SubjectName,
			SubjectUnits: item.Units,
			SectionName:  &sectionName,
			RoomName:     item.RoomName,
		}
		schedule = append(schedule, detail)
	}
	return schedule
}
