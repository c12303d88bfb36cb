package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/kwat0g/enrollment/internal/models"
)

// SectionRepository handles persistence of sections.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs the repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// List returns sections with course info, optionally filtered by
// course and year level.
func (r *SectionRepository) List(ctx context.Context, courseID int64, yearLevel string) ([]models.SectionDetail, error) {
	base := `SELECT sec.id, sec.name, sec.year_level, sec.course_id, sec.schedule_type, sec.status,
        c.name AS course_name, c.code AS course_code
        FROM sections sec
        LEFT JOIN courses c ON c.id = sec.course_id`
	var conditions []string
	var args []interface{}

	if courseID > 0 {
		conditions = append(conditions, fmt.Sprintf("sec.course_id = $%d", len(args)+1))
		args = append(args, courseID)
	}
	if yearLevel != "" {
		conditions = append(conditions, fmt.Sprintf("sec.year_level = $%d", len(args)+1))
		args = append(args, yearLevel)
	}

	query := base
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY sec.name ASC"

	var sections []models.SectionDetail
	if err := r.db.SelectContext(ctx, &sections, query, args...); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// ListOpenByCourseAndYear returns open sections a student can enroll in.
func (r *SectionRepository) ListOpenByCourseAndYear(ctx context.Context, courseID int64, yearLevel string) ([]models.Section, error) {
	const query = `SELECT id, name, year_level, course_id, schedule_type, status
        FROM sections WHERE course_id = $1 AND year_level = $2 AND status = $3 ORDER BY name ASC`
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query, courseID, yearLevel, models.SectionStatusOpen); err != nil {
		return nil, fmt.Errorf("list open sections: %w", err)
	}
	return sections, nil
}

// FindByID returns a section by its ID.
func (r *SectionRepository) FindByID(ctx context.Context, id int64) (*models.Section, error) {
	const query = `SELECT id, name, year_level, course_id, schedule_type, status FROM sections WHERE id = $1`
	var section models.Section
	if err := r.db.GetContext(ctx, &section, query, id); err != nil {
		return nil, err
	}
	return &section, nil
}

// EnrollmentActivity classifies a section by its strongest enrollment:
// approved beats pending beats none. Rejected rows never count.
func (r *SectionRepository) EnrollmentActivity(ctx context.Context, sectionID int64) (models.EnrollmentActivity, error) {
	const query = `SELECT status FROM enrollments WHERE section_id = $1 AND status IN ($2, $3)
        ORDER BY CASE status WHEN $2 THEN 0 ELSE 1 END LIMIT 1`
	var status models.EnrollmentStatus
	err := r.db.GetContext(ctx, &status, query, sectionID,
		models.EnrollmentStatusApproved, models.EnrollmentStatusPending)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.ActivityNone, nil
		}
		return models.ActivityNone, fmt.Errorf("check section activity: %w", err)
	}
	if status == models.EnrollmentStatusApproved {
		return models.ActivityApproved, nil
	}
	return models.ActivityPending, nil
}

// CountEnrollments counts a section's enrollments in a given status.
func (r *SectionRepository) CountEnrollments(ctx context.Context, sectionID int64, status models.EnrollmentStatus) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE section_id = $1 AND status = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, sectionID, status); err != nil {
		return 0, fmt.Errorf("count section enrollments: %w", err)
	}
	return count, nil
}

// Create persists a new section.
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	const query = `INSERT INTO sections (name, year_level, course_id, schedule_type, status)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.GetContext(ctx, &section.ID, query,
		section.Name, section.YearLevel, section.CourseID, section.ScheduleType, section.Status); err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

// Update modifies a section record.
func (r *SectionRepository) Update(ctx context.Context, section *models.Section) error {
	const query = `UPDATE sections SET name = $2, year_level = $3, course_id = $4, schedule_type = $5, status = $6 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		section.ID, section.Name, section.YearLevel, section.CourseID, section.ScheduleType, section.Status); err != nil {
		return fmt.Errorf("update section: %w", err)
	}
	return nil
}

// UpdateStatus flips a section between open and closed.
func (r *SectionRepository) UpdateStatus(ctx context.Context, id int64, status models.SectionStatus) error {
	const query = `UPDATE sections SET status = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("update section status: %w", err)
	}
	return nil
}

// Delete removes a section and its schedules in one transaction.
func (r *SectionRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete section: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM schedules WHERE section_id = $1`, id); err != nil {
		return fmt.Errorf("delete section schedules: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM sections WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete section: %w", err)
	}
	return nil
}
