package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kwat0g/enrollment/internal/models"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context) ([]models.StudentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	FindByStudentCode(ctx context.Context, code string) (*models.Student, error)
	NextStudentCode(ctx context.Context, year string) (string, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

// StudentConfig pins the admission year used for code previews.
type StudentConfig struct {
	AdmissionYear string
}

// StudentService manages student records for the back office.
type StudentService struct {
	students  studentRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    StudentConfig
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(students studentRepository, validate *validator.Validate, logger *zap.Logger, config StudentConfig) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{students: students, validator: validate, logger: logger, config: config}
}

// List returns all students with course info.
func (s *StudentService) List(ctx context.Context) ([]models.StudentDetail, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	return students, nil
}

// Get returns one student by numeric key.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// ResolveID maps a printed student code to the numeric key. It never
// creates rows; minting happens only in the admission accept flow.
func (s *StudentService) ResolveID(ctx context.Context, code string) (int64, error) {
	student, err := s.students.FindByStudentCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student.ID, nil
}

// NextID previews the next student code for the admission year.
func (s *StudentService) NextID(ctx context.Context) (string, error) {
	code, err := s.students.NextStudentCode(ctx, s.config.AdmissionYear)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to preview student code")
	}
	return code, nil
}

// Create adds a student record. A blank student code is filled with the
// next code for the admission year.
func (s *StudentService) Create(ctx context.Context, req models.StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	code := strings.TrimSpace(req.StudentID)
	if code == "" {
		next, err := s.students.NextStudentCode(ctx, s.config.AdmissionYear)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate student code")
		}
		code = next
	}

	student := &models.Student{
		StudentID:     code,
		FirstName:     req.FirstName,
		MiddleName:    req.MiddleName,
		LastName:      req.LastName,
		Suffix:        req.Suffix,
		Gender:        req.Gender,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		CourseID:      req.CourseID,
		YearLevel:     req.YearLevel,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.FromError(err)
	}
	s.logger.Info("student created", zap.String("student_id", code))
	return student, nil
}

// Update modifies a student record. The student code is immutable.
func (s *StudentService) Update(ctx context.Context, id int64, req models.StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	student.FirstName = req.FirstName
	student.MiddleName = req.MiddleName
	student.LastName = req.LastName
	student.Suffix = req.Suffix
	student.Gender = req.Gender
	student.Address = req.Address
	student.ContactNumber = req.ContactNumber
	student.Email = req.Email
	student.CourseID = req.CourseID
	student.YearLevel = req.YearLevel
	if err := s.students.Update(ctx, student); err != nil {
		return nil, appErrors.FromError(err)
	}
	return student, nil
}

// Delete removes a student record.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.students.Delete(ctx, id); err != nil {
		return appErrors.FromError(err)
	}
	s.logger.Info("student deleted", zap.Int64("student_id", id))
	return nil
}
