package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kwat0g/enrollment/internal/models"
)

// StudentRepository handles persistence of student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, student_id, first_name, middle_name, last_name, suffix, gender, address, contact_number, email, course_id, year_level`

// List returns students with course info ordered by name.
func (r *StudentRepository) List(ctx context.Context) ([]models.StudentDetail, error) {
	const query = `SELECT s.id, s.student_id, s.first_name, s.middle_name, s.last_name, s.suffix,
        s.gender, s.address, s.contact_number, s.email, s.course_id, s.year_level,
        COALESCE(c.name, '') AS course_name, COALESCE(c.code, '') AS course_code
        FROM students s
        LEFT JOIN courses c ON c.id = s.course_id
        ORDER BY s.last_name ASC, s.first_name ASC`
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID returns a student by numeric key.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByStudentCode returns a student by the printed school code.
func (r *StudentRepository) FindByStudentCode(ctx context.Context, code string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE student_id = $1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, code); err != nil {
		return nil, err
	}
	return &student, nil
}

// NextStudentCode previews the next code for the admission year, in the
// YEAR-NNNNN format. Minting still happens inside freshman accept.
func (r *StudentRepository) NextStudentCode(ctx context.Context, year string) (string, error) {
	const query = `SELECT COALESCE(MAX(CAST(SPLIT_PART(student_id, '-', 2) AS INTEGER)), 0)
        FROM students WHERE student_id LIKE $1`
	var max int
	if err := r.db.GetContext(ctx, &max, query, year+"-%"); err != nil {
		if err == sql.ErrNoRows {
			max = 0
		} else {
			return "", fmt.Errorf("next student code: %w", err)
		}
	}
	return fmt.Sprintf("%s-%05d", year, max+1), nil
}

// Create persists a new student.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO students (student_id, first_name, middle_name, last_name, suffix, gender, address, contact_number, email, course_id, year_level)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	if err := r.db.GetContext(ctx, &student.ID, query,
		student.StudentID, student.FirstName, student.MiddleName, student.LastName, student.Suffix,
		student.Gender, student.Address, student.ContactNumber, student.Email,
		student.CourseID, student.YearLevel); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies a student record.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students SET first_name = $2, middle_name = $3, last_name = $4, suffix = $5,
        gender = $6, address = $7, contact_number = $8, email = $9, course_id = $10, year_level = $11
        WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		student.ID, student.FirstName, student.MiddleName, student.LastName, student.Suffix,
		student.Gender, student.Address, student.ContactNumber, student.Email,
		student.CourseID, student.YearLevel); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student by id.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
