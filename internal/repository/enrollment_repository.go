package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kwat0g/enrollment/internal/models"
)

// EnrollmentRepository handles persistence of enrollments and their
// irregular subject choices.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentColumns = `id, student_id, section_id, school_year, semester, status, date_applied, reference_number, enrollment_type`

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments WHERE id = $1`, enrollmentColumns)
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindActiveByTerm returns the student's pending or approved enrollment
// for the term, if any. Rejected rows never block a resubmission.
func (r *EnrollmentRepository) FindActiveByTerm(ctx context.Context, studentID int64, schoolYear, semester string) (*models.Enrollment, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments
        WHERE student_id = $1 AND school_year = $2 AND semester = $3 AND status IN ($4, $5)
        ORDER BY id DESC LIMIT 1`, enrollmentColumns)
	var enrollment models.Enrollment
	err := r.db.GetContext(ctx, &enrollment, query, studentID, schoolYear, semester,
		models.EnrollmentStatusPending, models.EnrollmentStatusApproved)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find active enrollment: %w", err)
	}
	return &enrollment, nil
}

// FindLatestByStudent returns the student's most recent pending or
// approved enrollment across terms, used by the registration view.
func (r *EnrollmentRepository) FindLatestByStudent(ctx context.Context, studentID int64) (*models.Enrollment, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments
        WHERE student_id = $1 AND status IN ($2, $3) ORDER BY id DESC LIMIT 1`, enrollmentColumns)
	var enrollment models.Enrollment
	err := r.db.GetContext(ctx, &enrollment, query, studentID,
		models.EnrollmentStatusPending, models.EnrollmentStatusApproved)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find latest enrollment: %w", err)
	}
	return &enrollment, nil
}

// ListPending returns the admin review queue with student and section
// names. Irregular enrollments aggregate every chosen section name.
func (r *EnrollmentRepository) ListPending(ctx context.Context) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.student_id, e.section_id, e.school_year, e.semester, e.status,
        e.date_applied, e.reference_number, e.enrollment_type,
        s.student_id AS student_code, s.first_name, s.last_name,
        CASE WHEN e.enrollment_type = $2 THEN
            COALESCE((SELECT STRING_AGG(DISTINCT isec.name, ', ')
                FROM irregular_enrollments ie
                JOIN sections isec ON isec.id = ie.section_id
                WHERE ie.enrollment_id = e.id), sec.name)
        ELSE sec.name END AS section_name
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        LEFT JOIN sections sec ON sec.id = e.section_id
        WHERE e.status = $1
        ORDER BY e.date_applied ASC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query,
		models.EnrollmentStatusPending, models.EnrollmentTypeIrregular); err != nil {
		return nil, fmt.Errorf("list pending enrollments: %w", err)
	}
	return enrollments, nil
}

// ListByStatus returns enrollments in a status with names, for exports.
func (r *EnrollmentRepository) ListByStatus(ctx context.Context, status models.EnrollmentStatus) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.student_id, e.section_id, e.school_year, e.semester, e.status,
        e.date_applied, e.reference_number, e.enrollment_type,
        s.student_id AS student_code, s.first_name, s.last_name,
        COALESCE(sec.name, '') AS section_name
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        LEFT JOIN sections sec ON sec.id = e.section_id
        WHERE e.status = $1
        ORDER BY e.date_applied ASC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, status); err != nil {
		return nil, fmt.Errorf("list enrollments by status: %w", err)
	}
	return enrollments, nil
}

// ListBySection returns all enrollments for a section with student names.
func (r *EnrollmentRepository) ListBySection(ctx context.Context, sectionID int64) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.student_id, e.section_id, e.school_year, e.semester, e.status,
        e.date_applied, e.reference_number, e.enrollment_type,
        s.student_id AS student_code, s.first_name, s.last_name,
        COALESCE(sec.name, '') AS section_name
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        LEFT JOIN sections sec ON sec.id = e.section_id
        WHERE e.section_id = $1
        ORDER BY s.last_name ASC, s.first_name ASC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, sectionID); err != nil {
		return nil, fmt.Errorf("list section enrollments: %w", err)
	}
	return enrollments, nil
}

// Create persists a regular enrollment with status pending.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.DateApplied.IsZero() {
		enrollment.DateApplied = time.Now().UTC()
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusPending
	}
	if enrollment.EnrollmentType == "" {
		enrollment.EnrollmentType = models.EnrollmentTypeRegular
	}
	const query = `INSERT INTO enrollments (student_id, section_id, school_year, semester, status, date_applied, enrollment_type)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.GetContext(ctx, &enrollment.ID, query,
		enrollment.StudentID, enrollment.SectionID, enrollment.SchoolYear, enrollment.Semester,
		enrollment.Status, enrollment.DateApplied, enrollment.EnrollmentType); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// CreateIrregular inserts an irregular enrollment and all its subject
// triples in one transaction.
func (r *EnrollmentRepository) CreateIrregular(ctx context.Context, enrollment *models.Enrollment, items []models.IrregularEnrollment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create irregular enrollment: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if enrollment.DateApplied.IsZero() {
		enrollment.DateApplied = time.Now().UTC()
	}
	enrollment.Status = models.EnrollmentStatusPending
	enrollment.EnrollmentType = models.EnrollmentTypeIrregular

	const insertEnrollment = `INSERT INTO enrollments (student_id, section_id, school_year, semester, status, date_applied, enrollment_type)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err = tx.GetContext(ctx, &enrollment.ID, insertEnrollment,
		enrollment.StudentID, enrollment.SectionID, enrollment.SchoolYear, enrollment.Semester,
		enrollment.Status, enrollment.DateApplied, enrollment.EnrollmentType); err != nil {
		return fmt.Errorf("create irregular enrollment: %w", err)
	}

	if err = insertIrregularItems(ctx, tx, enrollment.ID, items); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create irregular enrollment: %w", err)
	}
	return nil
}

// ReplaceIrregularItems swaps the subject triples of an existing
// irregular enrollment atomically.
func (r *EnrollmentRepository) ReplaceIrregularItems(ctx context.Context, enrollmentID int64, items []models.IrregularEnrollment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace irregular items: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM irregular_enrollments WHERE enrollment_id = $1`, enrollmentID); err != nil {
		return fmt.Errorf("clear irregular items: %w", err)
	}
	if err = insertIrregularItems(ctx, tx, enrollmentID, items); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace irregular items: %w", err)
	}
	return nil
}

func insertIrregularItems(ctx context.Context, tx *sqlx.Tx, enrollmentID int64, items []models.IrregularEnrollment) error {
	const query = `INSERT INTO irregular_enrollments (enrollment_id, subject_id, schedule_id, section_id)
        VALUES ($1, $2, $3, $4) RETURNING id`
	for i := range items {
		items[i].EnrollmentID = enrollmentID
		if err := tx.GetContext(ctx, &items[i].ID, query,
			enrollmentID, items[i].SubjectID, items[i].ScheduleID, items[i].SectionID); err != nil {
			return fmt.Errorf("insert irregular item: %w", err)
		}
	}
	return nil
}

// ListIrregularItems returns an irregular enrollment's subject choices
// joined with schedule, subject, section and room info.
func (r *EnrollmentRepository) ListIrregularItems(ctx context.Context, enrollmentID int64) ([]models.IrregularSubjectDetail, error) {
	const query = `SELECT ie.id, ie.enrollment_id, ie.subject_id, ie.schedule_id, ie.section_id,
        s.day, s.start_time, s.end_time, s.instructor,
        sub.code AS subject_code, sub.name AS subject_name, sub.units, sub.type,
        sec.name AS section_name, r.name AS room_name
        FROM irregular_enrollments ie
        JOIN schedules s ON s.id = ie.schedule_id
        JOIN subjects sub ON sub.id = ie.subject_id
        JOIN sections sec ON sec.id = ie.section_id
        LEFT JOIN rooms r ON r.id = s.room_id
        WHERE ie.enrollment_id = $1
        ORDER BY s.day ASC, s.start_time ASC`
	var items []models.IrregularSubjectDetail
	if err := r.db.SelectContext(ctx, &items, query, enrollmentID); err != nil {
		return nil, fmt.Errorf("list irregular items: %w", err)
	}
	return items, nil
}

// Approve marks an enrollment approved and stamps its reference number.
func (r *EnrollmentRepository) Approve(ctx context.Context, id int64, reference string) error {
	const query = `UPDATE enrollments SET status = $2, reference_number = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.EnrollmentStatusApproved, reference); err != nil {
		return fmt.Errorf("approve enrollment: %w", err)
	}
	return nil
}

// UpdateStatus moves an enrollment to the given status.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error {
	const query = `UPDATE enrollments SET status = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}
	return nil
}
