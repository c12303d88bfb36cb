package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kwat0g/enrollment/internal/models"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error)
	FindByID(ctx context.Context, id int64) (*models.Subject, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	CountByCoursePrefix(ctx context.Context, prefix string) (int, error)
	Create(ctx context.Context, subject *models.Subject) error
	CreatePair(ctx context.Context, lecture, laboratory *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id int64) error
}

type subjectCourseRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

type subjectScheduleRepository interface {
	CountBySubject(ctx context.Context, subjectID int64) (int, error)
}

// Generated major codes look like IT101: two letters from the course
// code, the year digit, then a two-digit sequence.
var majorCodePattern = regexp.MustCompile(`^[A-Z]{2}\d{3}$`)

// SubjectService manages the subject catalogue and the major/minor
// creation flow.
type SubjectService struct {
	subjects  subjectRepository
	courses   subjectCourseRepository
	schedules subjectScheduleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs a SubjectService instance.
func NewSubjectService(subjects subjectRepository, courses subjectCourseRepository, schedules subjectScheduleRepository, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubjectService{subjects: subjects, courses: courses, schedules: schedules, validator: validate, logger: logger}
}

// List returns subjects, optionally narrowed by course and year level.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	subjects, err := s.subjects.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	return subjects, nil
}

// Get returns one subject.
func (s *SubjectService) Get(ctx context.Context, id int64) (*models.Subject, error) {
	subject, err := s.subjects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

// Create runs the major/minor flow. Major subjects mint a code and
// insert a Lec(1 unit)/Lab(2 units) pair in one transaction; minors use
// the admin-supplied code and a single row.
func (s *SubjectService) Create(ctx context.Context, req models.CreateSubjectRequest) ([]models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil || course == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	switch req.Category {
	case models.SubjectCategoryMajor:
		return s.createMajor(ctx, req, course)
	case models.SubjectCategoryMinor:
		return s.createMinor(ctx, req)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown subject category %q", req.Category))
	}
}

func (s *SubjectService) createMajor(ctx context.Context, req models.CreateSubjectRequest, course *models.Course) ([]models.Subject, error) {
	code, err := s.nextMajorCode(ctx, course.Code, req.YearLevel)
	if err != nil {
		return nil, err
	}

	lecture := &models.Subject{
		Code:      code,
		Name:      req.Name,
		Units:     1,
		Type:      models.SubjectTypeLecture,
		CourseID:  req.CourseID,
		YearLevel: req.YearLevel,
	}
	laboratory := &models.Subject{
		Code:      code,
		Name:      req.Name,
		Units:     2,
		Type:      models.SubjectTypeLaboratory,
		CourseID:  req.CourseID,
		YearLevel: req.YearLevel,
	}
	if err := s.subjects.CreatePair(ctx, lecture, laboratory); err != nil {
		return nil, appErrors.FromError(err)
	}

	s.logger.Info("major subject created", zap.String("code", code), zap.String("name", req.Name))
	return []models.Subject{*lecture, *laboratory}, nil
}

func (s *SubjectService) createMinor(ctx context.Context, req models.CreateSubjectRequest) ([]models.Subject, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "minor subjects require a code")
	}
	if majorCodePattern.MatchString(code) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "code matches the reserved major subject pattern")
	}
	if req.Units <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "minor subjects require units")
	}
	taken, err := s.subjects.ExistsByCode(ctx, code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject code")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("subject code %s already exists", code))
	}

	subjectType := req.Type
	if subjectType == "" {
		subjectType = models.SubjectTypeLecture
	}
	subject := &models.Subject{
		Code:      code,
		Name:      req.Name,
		Units:     req.Units,
		Type:      subjectType,
		CourseID:  req.CourseID,
		YearLevel: req.YearLevel,
	}
	if err := s.subjects.Create(ctx, subject); err != nil {
		return nil, appErrors.FromError(err)
	}

	s.logger.Info("minor subject created", zap.String("code", code), zap.String("name", req.Name))
	return []models.Subject{*subject}, nil
}

// Update modifies a subject.
func (s *SubjectService) Update(ctx context.Context, id int64, req models.UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	subject.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	subject.Name = req.Name
	subject.Units = req.Units
	subject.Type = req.Type
	subject.CourseID = req.CourseID
	subject.YearLevel = req.YearLevel
	if err := s.subjects.Update(ctx, subject); err != nil {
		return nil, appErrors.FromError(err)
	}
	return subject, nil
}

// Delete removes a subject unless it is still scheduled somewhere.
func (s *SubjectService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	scheduled, err := s.schedules.CountBySubject(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count subject schedules")
	}
	if scheduled > 0 {
		return appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("subject is scheduled in %d section slot(s)", scheduled))
	}
	if err := s.subjects.Delete(ctx, id); err != nil {
		return appErrors.FromError(err)
	}
	s.logger.Info("subject deleted", zap.Int64("subject_id", id))
	return nil
}

// nextMajorCode mints codes like IT101: the last two letters of the
// course code, the year digit, then a two-digit sequence.
func (s *SubjectService) nextMajorCode(ctx context.Context, courseCode, yearLevel string) (string, error) {
	letters := strings.ToUpper(strings.TrimSpace(courseCode))
	if len(letters) > 2 {
		letters = letters[len(letters)-2:]
	}
	yearDigit := "1"
	for _, r := range yearLevel {
		if r >= '1' && r <= '9' {
			yearDigit = string(r)
			break
		}
	}
	prefix := letters + yearDigit

	count, err := s.subjects.CountByCoursePrefix(ctx, prefix)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count existing codes")
	}
	// A major subject occupies two rows (Lec + Lab) under one code.
	seq := count/2 + 1
	if seq > 99 {
		return "", appErrors.Clone(appErrors.ErrValidation, "no remaining subject codes for this course and year level")
	}
	return fmt.Sprintf("%s%02d", prefix, seq), nil
}
