package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kwat0g/enrollment/internal/models"
)

// NotificationRepository handles persistence of student notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs the repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// ListByStudent returns a student's notifications, newest first.
func (r *NotificationRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Notification, error) {
	const query = `SELECT id, student_id, message, type, is_read, created_at
        FROM notifications WHERE student_id = $1 ORDER BY created_at DESC`
	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, studentID); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// Create persists a notification.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notifications (student_id, message, type, is_read, created_at)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.GetContext(ctx, &n.ID, query,
		n.StudentID, n.Message, n.Type, n.IsRead, n.CreatedAt); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// MarkRead flags one of the student's notifications as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, studentID int64) error {
	const query = `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND student_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, studentID); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead flags every notification of a student as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, studentID int64) error {
	const query = `UPDATE notifications SET is_read = TRUE WHERE student_id = $1`
	if _, err := r.db.ExecContext(ctx, query, studentID); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}
