package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kwat0g/enrollment/internal/models"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
)

// FreshmanRepository handles persistence of admission applications.
type FreshmanRepository struct {
	db *sqlx.DB
}

// NewFreshmanRepository constructs the repository.
func NewFreshmanRepository(db *sqlx.DB) *FreshmanRepository {
	return &FreshmanRepository{db: db}
}

const freshmanColumns = `id, student_id, course_id, first_name, middle_name, last_name, suffix,
        birthdate, sex, civil_status, nationality, place_of_birth, religion, email, mobile,
        region, province, city, barangay, address_line, zip,
        father_name, father_contact, mother_name, mother_contact, guardian_name, guardian_contact,
        year_level, admission_type, consent, status, created_at`

// List returns admission applications, optionally filtered by status.
func (r *FreshmanRepository) List(ctx context.Context, status models.FreshmanStatus) ([]models.FreshmanApplication, error) {
	query := fmt.Sprintf(`SELECT %s FROM freshman_enrollments`, freshmanColumns)
	var args []interface{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY created_at ASC"

	var applications []models.FreshmanApplication
	if err := r.db.SelectContext(ctx, &applications, query, args...); err != nil {
		return nil, fmt.Errorf("list freshman applications: %w", err)
	}
	return applications, nil
}

// FindByID returns an admission application by id.
func (r *FreshmanRepository) FindByID(ctx context.Context, id int64) (*models.FreshmanApplication, error) {
	query := fmt.Sprintf(`SELECT %s FROM freshman_enrollments WHERE id = $1`, freshmanColumns)
	var application models.FreshmanApplication
	if err := r.db.GetContext(ctx, &application, query, id); err != nil {
		return nil, err
	}
	return &application, nil
}

// Create persists a new admission application with status pending.
func (r *FreshmanRepository) Create(ctx context.Context, a *models.FreshmanApplication) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.Status = models.FreshmanStatusPending
	const query = `INSERT INTO freshman_enrollments (course_id, first_name, middle_name, last_name, suffix,
        birthdate, sex, civil_status, nationality, place_of_birth, religion, email, mobile,
        region, province, city, barangay, address_line, zip,
        father_name, father_contact, mother_name, mother_contact, guardian_name, guardian_contact,
        year_level, admission_type, consent, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
        $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30) RETURNING id`
	if err := r.db.GetContext(ctx, &a.ID, query,
		a.CourseID, a.FirstName, a.MiddleName, a.LastName, a.Suffix,
		a.Birthdate, a.Sex, a.CivilStatus, a.Nationality, a.PlaceOfBirth, a.Religion, a.Email, a.Mobile,
		a.Region, a.Province, a.City, a.Barangay, a.AddressLine, a.Zip,
		a.FatherName, a.FatherContact, a.MotherName, a.MotherContact, a.GuardianName, a.GuardianContact,
		a.YearLevel, a.AdmissionType, a.Consent, a.Status, a.CreatedAt); err != nil {
		return fmt.Errorf("create freshman application: %w", err)
	}
	return nil
}

// Accept locks the application row, mints the next student code for the
// admission year, inserts the mirror students row and marks the
// application accepted, all in one transaction. The FOR UPDATE lock
// closes the double-accept race on one application; the advisory lock
// serializes code minting across concurrent accepts of different
// applications.
func (r *FreshmanRepository) Accept(ctx context.Context, id int64, year string) (string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin freshman accept: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	lockQuery := fmt.Sprintf(`SELECT %s FROM freshman_enrollments WHERE id = $1 FOR UPDATE`, freshmanColumns)
	var application models.FreshmanApplication
	if err = tx.GetContext(ctx, &application, lockQuery, id); err != nil {
		if err == sql.ErrNoRows {
			err = appErrors.ErrNotFound
		}
		return "", err
	}
	if application.Status != models.FreshmanStatusPending {
		err = appErrors.Clone(appErrors.ErrConflict, "application has already been processed")
		return "", err
	}

	const mintLock = `SELECT pg_advisory_xact_lock(hashtext('students.student_id'))`
	if _, err = tx.ExecContext(ctx, mintLock); err != nil {
		return "", fmt.Errorf("acquire student code lock: %w", err)
	}

	var max int
	const nextQuery = `SELECT COALESCE(MAX(CAST(SPLIT_PART(student_id, '-', 2) AS INTEGER)), 0)
        FROM students WHERE student_id LIKE $1`
	if err = tx.GetContext(ctx, &max, nextQuery, year+"-%"); err != nil {
		return "", fmt.Errorf("next student code: %w", err)
	}
	code := fmt.Sprintf("%s-%05d", year, max+1)

	var courseID int64
	if application.CourseID != nil {
		courseID = *application.CourseID
	}
	address := joinAddress(application)
	const insertStudent = `INSERT INTO students (student_id, first_name, middle_name, last_name, suffix,
        gender, address, contact_number, email, course_id, year_level)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err = tx.ExecContext(ctx, insertStudent,
		code, application.FirstName, application.MiddleName, application.LastName, application.Suffix,
		application.Sex, address, application.Mobile, application.Email,
		courseID, application.YearLevel); err != nil {
		return "", fmt.Errorf("create student from application: %w", err)
	}

	const markAccepted = `UPDATE freshman_enrollments SET status = $2, student_id = $3 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, markAccepted, id, models.FreshmanStatusAccepted, code); err != nil {
		return "", fmt.Errorf("mark application accepted: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit freshman accept: %w", err)
	}
	return code, nil
}

// UpdateStatus moves an application to the given status.
func (r *FreshmanRepository) UpdateStatus(ctx context.Context, id int64, status models.FreshmanStatus) error {
	const query = `UPDATE freshman_enrollments SET status = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	return nil
}

func joinAddress(a models.FreshmanApplication) string {
	parts := []string{a.AddressLine, a.Barangay, a.City, a.Province}
	address := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if address != "" {
			address += ", "
		}
		address += p
	}
	return address
}
