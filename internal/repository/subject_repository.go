package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/kwat0g/enrollment/internal/models"
)

// SubjectRepository handles persistence of subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs the repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns subjects filtered by course and year level.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	base := `SELECT id, code, name, units, type, course_id, year_level FROM subjects`
	var conditions []string
	var args []interface{}

	if filter.CourseID > 0 {
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.YearLevel != "" {
		conditions = append(conditions, fmt.Sprintf("year_level = $%d", len(args)+1))
		args = append(args, filter.YearLevel)
	}

	query := base
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY code ASC"

	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindByID returns a subject by its ID.
func (r *SubjectRepository) FindByID(ctx context.Context, id int64) (*models.Subject, error) {
	const query = `SELECT id, code, name, units, type, course_id, year_level FROM subjects WHERE id = $1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// ListByIDs returns the subjects matching the given ids.
func (r *SubjectRepository) ListByIDs(ctx context.Context, ids []int64) ([]models.Subject, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT id, code, name, units, type, course_id, year_level FROM subjects WHERE id IN (%s)`,
		strings.Join(placeholders, ","))
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, fmt.Errorf("list subjects by ids: %w", err)
	}
	return subjects, nil
}

// ExistsByCode checks whether a subject code is already taken.
func (r *SubjectRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	const query = `SELECT 1 FROM subjects WHERE code = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, code); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check subject code: %w", err)
	}
	return true, nil
}

// CountByCoursePrefix returns how many subjects already share a
// generated code prefix, used to pick the next sequence number.
func (r *SubjectRepository) CountByCoursePrefix(ctx context.Context, prefix string) (int, error) {
	const query = `SELECT COUNT(*) FROM subjects WHERE code LIKE $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, prefix+"%"); err != nil {
		return 0, fmt.Errorf("count subjects by prefix: %w", err)
	}
	return count, nil
}

// Create persists a new subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	const query = `INSERT INTO subjects (code, name, units, type, course_id, year_level)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.GetContext(ctx, &subject.ID, query,
		subject.Code, subject.Name, subject.Units, subject.Type, subject.CourseID, subject.YearLevel); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// CreatePair inserts a lecture/laboratory subject pair in one
// transaction so a major subject never ends up with only half its rows.
func (r *SubjectRepository) CreatePair(ctx context.Context, lecture, laboratory *models.Subject) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create subject pair: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO subjects (code, name, units, type, course_id, year_level)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err = tx.GetContext(ctx, &lecture.ID, query,
		lecture.Code, lecture.Name, lecture.Units, lecture.Type, lecture.CourseID, lecture.YearLevel); err != nil {
		return fmt.Errorf("create lecture subject: %w", err)
	}
	if err = tx.GetContext(ctx, &laboratory.ID, query,
		laboratory.Code, laboratory.Name, laboratory.Units, laboratory.Type, laboratory.CourseID, laboratory.YearLevel); err != nil {
		return fmt.Errorf("create laboratory subject: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create subject pair: %w", err)
	}
	return nil
}

// Update modifies a subject record.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	const query = `UPDATE subjects SET code = $2, name = $3, units = $4, type = $5, course_id = $6, year_level = $7 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		subject.ID, subject.Code, subject.Name, subject.Units, subject.Type, subject.CourseID, subject.YearLevel); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return nil
}

// Delete removes a subject by id.
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}
