package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kwat0g/enrollment/internal/models"
)

// GradeRepository handles persistence of grades.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs the repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// ListByStudent returns a student's grades with subject names,
// optionally filtered by term.
func (r *GradeRepository) ListByStudent(ctx context.Context, studentID int64, schoolYear, semester string) ([]models.GradeDetail, error) {
	base := `SELECT g.id, g.student_id, g.subject_id, g.school_year, g.semester, g.grade, g.created_at,
        s.student_id AS student_code, s.first_name, s.last_name,
        sub.code AS subject_code, sub.name AS subject_name
        FROM grades g
        JOIN students s ON s.id = g.student_id
        JOIN subjects sub ON sub.id = g.subject_id`
	conditions := []string{"g.student_id = $1"}
	args := []interface{}{studentID}

	if schoolYear != "" {
		conditions = append(conditions, fmt.Sprintf("g.school_year = $%d", len(args)+1))
		args = append(args, schoolYear)
	}
	if semester != "" {
		conditions = append(conditions, fmt.Sprintf("g.semester = $%d", len(args)+1))
		args = append(args, semester)
	}

	query := base + " WHERE " + strings.Join(conditions, " AND ") + " ORDER BY sub.code ASC"
	var grades []models.GradeDetail
	if err := r.db.SelectContext(ctx, &grades, query, args...); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

// FindByID returns a grade by id.
func (r *GradeRepository) FindByID(ctx context.Context, id int64) (*models.Grade, error) {
	const query = `SELECT id, student_id, subject_id, school_year, semester, grade, created_at FROM grades WHERE id = $1`
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, query, id); err != nil {
		return nil, err
	}
	return &grade, nil
}

// Upsert inserts a grade or replaces the mark when the student already
// has one for the subject and term.
func (r *GradeRepository) Upsert(ctx context.Context, g *models.Grade) error {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO grades (student_id, subject_id, school_year, semester, grade, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (student_id, subject_id, school_year, semester)
        DO UPDATE SET grade = EXCLUDED.grade
        RETURNING id`
	if err := r.db.GetContext(ctx, &g.ID, query,
		g.StudentID, g.SubjectID, g.SchoolYear, g.Semester, g.Grade, g.CreatedAt); err != nil {
		return fmt.Errorf("upsert grade: %w", err)
	}
	return nil
}

// Update modifies the mark on an existing grade row.
func (r *GradeRepository) Update(ctx context.Context, id int64, mark float64) error {
	const query = `UPDATE grades SET grade = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, mark); err != nil {
		return fmt.Errorf("update grade: %w", err)
	}
	return nil
}

// Delete removes a grade by id.
func (r *GradeRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM grades WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete grade: %w", err)
	}
	return nil
}

// Statistics returns the average grade per subject.
func (r *GradeRepository) Statistics(ctx context.Context) ([]models.GradeStatistic, error) {
	const query = `SELECT subject_id, AVG(grade) AS avg_grade FROM grades GROUP BY subject_id ORDER BY subject_id ASC`
	var stats []models.GradeStatistic
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("grade statistics: %w", err)
	}
	return stats, nil
}
