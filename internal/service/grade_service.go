package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kwat0g/enrollment/internal/models"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
)

type gradeRepository interface {
	ListByStudent(ctx context.Context, studentID int64, schoolYear, semester string) ([]models.GradeDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Grade, error)
	Upsert(ctx context.Context, g *models.Grade) error
	Update(ctx context.Context, id int64, mark float64) error
	Delete(ctx context.Context, id int64) error
	Statistics(ctx context.Context) ([]models.GradeStatistic, error)
}

// GradeService records and reports final marks.
type GradeService struct {
	grades    gradeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService constructs a GradeService instance.
func NewGradeService(grades gradeRepository, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GradeService{grades: grades, validator: validate, logger: logger}
}

// ListByStudent returns a student's grades with an optional term filter.
func (s *GradeService) ListByStudent(ctx context.Context, studentID int64, schoolYear, semester string) ([]models.GradeDetail, error) {
	grades, err := s.grades.ListByStudent(ctx, studentID, schoolYear, semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
	}
	return grades, nil
}

// Record inserts or replaces a student's mark for the subject and term.
func (s *GradeService) Record(ctx context.Context, req models.GradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	grade := &models.Grade{
		StudentID:  req.StudentID,
		SubjectID:  req.SubjectID,
		SchoolYear: req.SchoolYear,
		Semester:   req.Semester,
		Grade:      req.Grade,
	}
	if err := s.grades.Upsert(ctx, grade); err != nil {
		return nil, appErrors.FromError(err)
	}
	return grade, nil
}

// UpdateMark replaces the mark on an existing grade row.
func (s *GradeService) UpdateMark(ctx context.Context, id int64, mark float64) (*models.Grade, error) {
	if mark < 1 || mark > 5 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "grade must be between 1.0 and 5.0")
	}
	grade, err := s.grades.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade")
	}
	if err := s.grades.Update(ctx, id, mark); err != nil {
		return nil, appErrors.FromError(err)
	}
	grade.Grade = mark
	return grade, nil
}

// Delete removes a grade row.
func (s *GradeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.grades.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade")
	}
	if err := s.grades.Delete(ctx, id); err != nil {
		return appErrors.FromError(err)
	}
	return nil
}

// Statistics returns the per-subject grade averages.
func (s *GradeService) Statistics(ctx context.Context) ([]models.GradeStatistic, error) {
	stats, err := s.grades.Statistics(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade statistics")
	}
	return stats, nil
}
