package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kwat0g/enrollment/internal/models"
)

// AccountabilityRepository handles persistence of student accountabilities.
type AccountabilityRepository struct {
	db *sqlx.DB
}

// NewAccountabilityRepository constructs the repository.
func NewAccountabilityRepository(db *sqlx.DB) *AccountabilityRepository {
	return &AccountabilityRepository{db: db}
}

// ListByStudent returns a student's accountabilities, newest first.
func (r *AccountabilityRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Accountability, error) {
	const query = `SELECT id, student_id, type, description, status, amount, created_at
        FROM accountabilities WHERE student_id = $1 ORDER BY created_at DESC`
	var accountabilities []models.Accountability
	if err := r.db.SelectContext(ctx, &accountabilities, query, studentID); err != nil {
		return nil, fmt.Errorf("list accountabilities: %w", err)
	}
	return accountabilities, nil
}

// FindByID returns an accountability by id.
func (r *AccountabilityRepository) FindByID(ctx context.Context, id int64) (*models.Accountability, error) {
	const query = `SELECT id, student_id, type, description, status, amount, created_at
        FROM accountabilities WHERE id = $1`
	var accountability models.Accountability
	if err := r.db.GetContext(ctx, &accountability, query, id); err != nil {
		return nil, err
	}
	return &accountability, nil
}

// Create persists a new accountability.
func (r *AccountabilityRepository) Create(ctx context.Context, a *models.Accountability) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO accountabilities (student_id, type, description, status, amount, created_at)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.GetContext(ctx, &a.ID, query,
		a.StudentID, a.Type, a.Description, a.Status, a.Amount, a.CreatedAt); err != nil {
		return fmt.Errorf("create accountability: %w", err)
	}
	return nil
}

// Update modifies an accountability record.
func (r *AccountabilityRepository) Update(ctx context.Context, a *models.Accountability) error {
	const query = `UPDATE accountabilities SET type = $2, description = $3, status = $4, amount = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, a.ID, a.Type, a.Description, a.Status, a.Amount); err != nil {
		return fmt.Errorf("update accountability: %w", err)
	}
	return nil
}

// UpdateStatus moves an accountability to the given status.
func (r *AccountabilityRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	const query = `UPDATE accountabilities SET status = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("update accountability status: %w", err)
	}
	return nil
}

// Delete removes an accountability by id.
func (r *AccountabilityRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM accountabilities WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete accountability: %w", err)
	}
	return nil
}
