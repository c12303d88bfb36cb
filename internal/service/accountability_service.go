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

type accountabilityRepository interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.Accountability, error)
	FindByID(ctx context.Context, id int64) (*models.Accountability, error)
	Create(ctx context.Context, a *models.Accountability) error
	Update(ctx context.Context, a *models.Accountability) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

// AccountabilityStatusCleared closes an accountability.
const AccountabilityStatusCleared = "cleared"

// AccountabilityService tracks student obligations.
type AccountabilityService struct {
	accountabilities accountabilityRepository
	validator        *validator.Validate
	logger           *zap.Logger
}

// NewAccountabilityService constructs an AccountabilityService instance.
func NewAccountabilityService(accountabilities accountabilityRepository, validate *validator.Validate, logger *zap.Logger) *AccountabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AccountabilityService{accountabilities: accountabilities, validator: validate, logger: logger}
}

// ListByStudent returns a student's accountabilities.
func (s *AccountabilityService) ListByStudent(ctx context.Context, studentID int64) ([]models.Accountability, error) {
	accountabilities, err := s.accountabilities.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load accountabilities")
	}
	return accountabilities, nil
}

// Create records a new accountability.
func (s *AccountabilityService) Create(ctx context.Context, req models.AccountabilityRequest) (*models.Accountability, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid accountability payload")
	}
	status := req.Status
	if status == "" {
		status = "unsettled"
	}
	a := &models.Accountability{
		StudentID:   req.StudentID,
		Type:        req.Type,
		Description: req.Description,
		Status:      status,
		Amount:      req.Amount,
	}
	if err := s.accountabilities.Create(ctx, a); err != nil {
		return nil, appErrors.FromError(err)
	}
	return a, nil
}

// Update modifies an accountability.
func (s *AccountabilityService) Update(ctx context.Context, id int64, req models.AccountabilityRequest) (*models.Accountability, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid accountability payload")
	}
	a, err := s.mustAccountability(ctx, id)
	if err != nil {
		return nil, err
	}

	a.Type = req.Type
	a.Description = req.Description
	if req.Status != "" {
		a.Status = req.Status
	}
	a.Amount = req.Amount
	if err := s.accountabilities.Update(ctx, a); err != nil {
		return nil, appErrors.FromError(err)
	}
	return a, nil
}

// Clear marks an accountability settled.
func (s *AccountabilityService) Clear(ctx context.Context, id int64) error {
	if _, err := s.mustAccountability(ctx, id); err != nil {
		return err
	}
	if err := s.accountabilities.UpdateStatus(ctx, id, AccountabilityStatusCleared); err != nil {
		return appErrors.FromError(err)
	}
	s.logger.Info("accountability cleared", zap.Int64("accountability_id", id))
	return nil
}

// Delete removes an accountability.
func (s *AccountabilityService) Delete(ctx context.Context, id int64) error {
	if _, err := s.mustAccountability(ctx, id); err != nil {
		return err
	}
	if err := s.accountabilities.Delete(ctx, id); err != nil {
		return appErrors.FromError(err)
	}
	return nil
}

func (s *AccountabilityService) mustAccountability(ctx context.Context, id int64) (*models.Accountability, error) {
	a, err := s.accountabilities.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "accountability not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load accountability")
	}
	return a, nil
}
