package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kwat0g/enrollment/internal/models"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
)

type sectionRepository interface {
	List(ctx context.Context, courseID int64, yearLevel string) ([]models.SectionDetail, error)
	ListOpenByCourseAndYear(ctx context.Context, courseID int64, yearLevel string) ([]models.Section, error)
	FindByID(ctx context.Context, id int64) (*models.Section, error)
	EnrollmentActivity(ctx context.Context, sectionID int64) (models.EnrollmentActivity, error)
	CountEnrollments(ctx context.Context, sectionID int64, status models.EnrollmentStatus) (int, error)
	Create(ctx context.Context, section *models.Section) error
	Update(ctx context.Context, section *models.Section) error
	UpdateStatus(ctx context.Context, id int64, status models.SectionStatus) error
	Delete(ctx context.Context, id int64) error
}

type sectionScheduleRepository interface {
	ListBySection(ctx context.Context, sectionID int64) ([]models.ScheduleDetail, error)
	CountBySection(ctx context.Context, sectionID int64) (int, error)
}

type sectionEnrollmentRepository interface {
	ListBySection(ctx context.Context, sectionID int64) ([]models.EnrollmentDetail, error)
}

// SectionService manages sections and guards their lifecycle against
// active enrollments.
type SectionService struct {
	sections    sectionRepository
	schedules   sectionScheduleRepository
	enrollments sectionEnrollmentRepository
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSectionService constructs a SectionService instance.
func NewSectionService(sections sectionRepository, schedules sectionScheduleRepository, enrollments sectionEnrollmentRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SectionService{
		sections:    sections,
		schedules:   schedules,
		enrollments: enrollments,
		cache:       cache,
		validator:   validate,
		logger:      logger,
	}
}

const sectionCachePattern = "sections:*"

// List returns sections with course names, served from cache for the
// unfiltered admin listing.
func (s *SectionService) List(ctx context.Context, courseID int64, yearLevel string) ([]models.SectionDetail, error) {
	cacheable := courseID == 0 && yearLevel == ""
	const key = "sections:all"
	if cacheable {
		var cached []models.SectionDetail
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return cached, nil
		}
	}

	sections, err := s.sections.List(ctx, courseID, yearLevel)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sections")
	}
	if cacheable {
		_ = s.cache.Set(ctx, key, sections, 0)
	}
	return sections, nil
}

// ListOpenForStudent returns the open sections matching the student's
// course and year level, each with its schedule rows.
func (s *SectionService) ListOpenForStudent(ctx context.Context, courseID int64, yearLevel string) ([]models.SectionWithSchedules, error) {
	sections, err := s.sections.ListOpenByCourseAndYear(ctx, courseID, yearLevel)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load open sections")
	}

	result := make([]models.SectionWithSchedules, 0, len(sections))
	for _, section := range sections {
		schedules, err := s.schedules.ListBySection(ctx, section.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section schedules")
		}
		result = append(result, models.SectionWithSchedules{Section: section, Schedules: schedules})
	}
	return result, nil
}

// Get returns one section.
func (s *SectionService) Get(ctx context.Context, id int64) (*models.Section, error) {
	return s.mustSection(ctx, id)
}

// EnrollmentActivity classifies a section by its strongest enrollment.
func (s *SectionService) EnrollmentActivity(ctx context.Context, sectionID int64) (models.EnrollmentActivity, error) {
	if _, err := s.mustSection(ctx, sectionID); err != nil {
		return models.ActivityNone, err
	}
	activity, err := s.sections.EnrollmentActivity(ctx, sectionID)
	if err != nil {
		return models.ActivityNone, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check section enrollments")
	}
	return activity, nil
}

// Create adds a section, closed by default.
func (s *SectionService) Create(ctx context.Context, req models.SectionRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}

	section := &models.Section{
		Name:         req.Name,
		YearLevel:    req.YearLevel,
		CourseID:     req.CourseID,
		ScheduleType: req.ScheduleType,
		Status:       models.SectionStatusClosed,
	}
	if err := s.sections.Create(ctx, section); err != nil {
		return nil, appErrors.FromError(err)
	}
	s.invalidateCache(ctx)
	s.logger.Info("section created", zap.Int64("section_id", section.ID), zap.String("name", section.Name))
	return section, nil
}

// Update modifies a section. Blocked while the section is open or has
// pending or approved enrollments.
func (s *SectionService) Update(ctx context.Context, id int64, req models.SectionRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}
	section, err := s.mustSection(ctx, id)
	if err != nil {
		return nil, err
	}
	if section.Status == models.SectionStatusOpen {
		return nil, appErrors.Clone(appErrors.ErrSectionLocked, "close the section before editing it")
	}
	if err := s.requireNoActivity(ctx, id); err != nil {
		return nil, err
	}

	section.Name = req.Name
	section.YearLevel = req.YearLevel
	section.CourseID = req.CourseID
	section.ScheduleType = req.ScheduleType
	if err := s.sections.Update(ctx, section); err != nil {
		return nil, appErrors.FromError(err)
	}
	s.invalidateCache(ctx)
	return section, nil
}

// Delete removes a section and its schedules. Blocked while the section
// has pending or approved enrollments.
func (s *SectionService) Delete(ctx context.Context, id int64) error {
	if _, err := s.mustSection(ctx, id); err != nil {
		return err
	}
	if err := s.requireNoActivity(ctx, id); err != nil {
		return err
	}
	if err := s.sections.Delete(ctx, id); err != nil {
		return appErrors.FromError(err)
	}
	s.invalidateCache(ctx)
	s.logger.Info("section deleted", zap.Int64("section_id", id))
	return nil
}

// SetStatus opens or closes a section. Opening requires at least one
// schedule row; closing is blocked while enrollments are pending.
func (s *SectionService) SetStatus(ctx context.Context, id int64, req models.SectionStatusRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	section, err := s.mustSection(ctx, id)
	if err != nil {
		return nil, err
	}
	if section.Status == req.Status {
		return section, nil
	}

	switch req.Status {
	case models.SectionStatusOpen:
		count, err := s.schedules.CountBySection(ctx, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count section schedules")
		}
		if count == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "section has no schedule and cannot be opened")
		}
	case models.SectionStatusClosed:
		pending, err := s.sections.CountEnrollments(ctx, id, models.EnrollmentStatusPending)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending enrollments")
		}
		if pending > 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("section has %d pending enrollment(s) awaiting review", pending))
		}
	}

	if err := s.sections.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, appErrors.FromError(err)
	}
	section.Status = req.Status
	s.invalidateCache(ctx)
	s.logger.Info("section status changed", zap.Int64("section_id", id), zap.String("status", string(req.Status)))
	return section, nil
}

// Enrollments lists a section's enrollments for the admin view.
func (s *SectionService) Enrollments(ctx context.Context, sectionID int64) ([]models.EnrollmentDetail, error) {
	if _, err := s.mustSection(ctx, sectionID); err != nil {
		return nil, err
	}
	enrollments, err := s.enrollments.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section enrollments")
	}
	return enrollments, nil
}

func (s *SectionService) mustSection(ctx context.Context, id int64) (*models.Section, error) {
	section, err := s.sections.FindByID(ctx, id)
	if err != nil || section == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
	}
	return section, nil
}

func (s *SectionService) requireNoActivity(ctx context.Context, sectionID int64) error {
	activity, err := s.sections.EnrollmentActivity(ctx, sectionID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check section enrollments")
	}
	switch activity {
	case models.ActivityApproved:
		count, _ := s.sections.CountEnrollments(ctx, sectionID, models.EnrollmentStatusApproved)
		return appErrors.Clone(appErrors.ErrSectionLocked, fmt.Sprintf("section has %d approved enrollment(s)", count))
	case models.ActivityPending:
		count, _ := s.sections.CountEnrollments(ctx, sectionID, models.EnrollmentStatusPending)
		return appErrors.Clone(appErrors.ErrSectionLocked, fmt.Sprintf("section has %d pending enrollment(s)", count))
	}
	return nil
}

func (s *SectionService) invalidateCache(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, sectionCachePattern)
}
