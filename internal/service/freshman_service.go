package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kwat0g/enrollment/internal/models"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
)

type freshmanRepository interface {
	List(ctx context.Context, status models.FreshmanStatus) ([]models.FreshmanApplication, error)
	FindByID(ctx context.Context, id int64) (*models.FreshmanApplication, error)
	Create(ctx context.Context, a *models.FreshmanApplication) error
	Accept(ctx context.Context, id int64, year string) (string, error)
	UpdateStatus(ctx context.Context, id int64, status models.FreshmanStatus) error
}

// PH mobile numbers: 09 followed by nine digits.
var mobilePattern = regexp.MustCompile(`^09\d{9}$`)

// FreshmanConfig pins the admission year for minted student codes.
type FreshmanConfig struct {
	AdmissionYear string
}

// FreshmanService handles admission applications from public intake to
// admin decision.
type FreshmanService struct {
	applications freshmanRepository
	validator    *validator.Validate
	logger       *zap.Logger
	config       FreshmanConfig
}

// NewFreshmanService constructs a FreshmanService instance.
func NewFreshmanService(applications freshmanRepository, validate *validator.Validate, logger *zap.Logger, config FreshmanConfig) *FreshmanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FreshmanService{applications: applications, validator: validate, logger: logger, config: config}
}

// Submit records a public admission application.
func (s *FreshmanService) Submit(ctx context.Context, req models.FreshmanApplicationRequest) (*models.FreshmanApplication, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}
	if !mobilePattern.MatchString(req.Mobile) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mobile number must be 11 digits starting with 09")
	}
	if !req.Consent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "consent is required")
	}

	application := &models.FreshmanApplication{
		CourseID:        req.CourseID,
		FirstName:       req.FirstName,
		MiddleName:      req.MiddleName,
		LastName:        req.LastName,
		Suffix:          req.Suffix,
		Birthdate:       req.Birthdate,
		Sex:             req.Sex,
		CivilStatus:     req.CivilStatus,
		Nationality:     req.Nationality,
		PlaceOfBirth:    req.PlaceOfBirth,
		Religion:        req.Religion,
		Email:           req.Email,
		Mobile:          req.Mobile,
		Region:          req.Region,
		Province:        req.Province,
		City:            req.City,
		Barangay:        req.Barangay,
		AddressLine:     req.AddressLine,
		Zip:             req.Zip,
		FatherName:      req.FatherName,
		FatherContact:   req.FatherContact,
		MotherName:      req.MotherName,
		MotherContact:   req.MotherContact,
		GuardianName:    req.GuardianName,
		GuardianContact: req.GuardianContact,
		YearLevel:       req.YearLevel,
		AdmissionType:   req.AdmissionType,
		Consent:         req.Consent,
	}
	if err := s.applications.Create(ctx, application); err != nil {
		return nil, appErrors.FromError(err)
	}

	s.logger.Info("admission application received",
		zap.Int64("application_id", application.ID),
		zap.String("last_name", application.LastName))
	return application, nil
}

// List returns applications, optionally filtered by status.
func (s *FreshmanService) List(ctx context.Context, status models.FreshmanStatus) ([]models.FreshmanApplication, error) {
	applications, err := s.applications.List(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load applications")
	}
	return applications, nil
}

// Get returns one application.
func (s *FreshmanService) Get(ctx context.Context, id int64) (*models.FreshmanApplication, error) {
	application, err := s.applications.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	return application, nil
}

// Accept approves an application, minting the student code and the
// mirror student row inside the repository transaction.
func (s *FreshmanService) Accept(ctx context.Context, id int64) (string, error) {
	code, err := s.applications.Accept(ctx, id, s.config.AdmissionYear)
	if err != nil {
		return "", appErrors.FromError(err)
	}
	s.logger.Info("application accepted", zap.Int64("application_id", id), zap.String("student_id", code))
	return code, nil
}

// Reject marks a pending application rejected.
func (s *FreshmanService) Reject(ctx context.Context, id int64) error {
	application, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if application.Status != models.FreshmanStatusPending {
		return appErrors.Clone(appErrors.ErrConflict, "application has already been processed")
	}
	if err := s.applications.UpdateStatus(ctx, id, models.FreshmanStatusRejected); err != nil {
		return appErrors.FromError(err)
	}
	s.logger.Info("application rejected", zap.Int64("application_id", id))
	return nil
}
