package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/kwat0g/enrollment/internal/models"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
)

type notificationRepository interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.Notification, error)
	Create(ctx context.Context, n *models.Notification) error
	MarkRead(ctx context.Context, id, studentID int64) error
	MarkAllRead(ctx context.Context, studentID int64) error
}

// NotificationService manages the student notification inbox.
type NotificationService struct {
	notifications notificationRepository
	logger        *zap.Logger
}

// NewNotificationService constructs a NotificationService instance.
func NewNotificationService(notifications notificationRepository, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{notifications: notifications, logger: logger}
}

// List returns the student's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, studentID int64) ([]models.Notification, error) {
	notifications, err := s.notifications.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notifications")
	}
	return notifications, nil
}

// Create inserts a notification for a student.
func (s *NotificationService) Create(ctx context.Context, studentID int64, message, kind string) (*models.Notification, error) {
	if message == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "message is required")
	}
	n := &models.Notification{StudentID: studentID, Message: message, Type: kind}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, appErrors.FromError(err)
	}
	return n, nil
}

// MarkRead flags one of the student's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, id, studentID int64) error {
	if err := s.notifications.MarkRead(ctx, id, studentID); err != nil {
		return appErrors.FromError(err)
	}
	return nil
}

// MarkAllRead flags every notification of a student as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, studentID int64) error {
	if err := s.notifications.MarkAllRead(ctx, studentID); err != nil {
		return appErrors.FromError(err)
	}
	return nil
}
