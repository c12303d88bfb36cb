package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/kwat0g/enrollment/internal/models"
)

// ScheduleRepository provides persistence for schedule rows, including
// the section_id = 0 template rows.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleDetailColumns = `s.id, s.section_id, s.subject_id, s.room_id, s.day, s.start_time, s.end_time, s.type, s.instructor,
        sub.code AS subject_code, sub.name AS subject_name, sub.units AS subject_units,
        sec.name AS section_name, r.name AS room_name`

const scheduleDetailJoins = `FROM schedules s
        JOIN subjects sub ON sub.id = s.subject_id
        LEFT JOIN sections sec ON sec.id = s.section_id
        LEFT JOIN rooms r ON r.id = s.room_id`

// ListBySection returns a section's schedule ordered by day and time.
func (r *ScheduleRepository) ListBySection(ctx context.Context, sectionID int64) ([]models.ScheduleDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE s.section_id = $1 ORDER BY s.day ASC, s.start_time ASC`,
		scheduleDetailColumns, scheduleDetailJoins)
	var schedules []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &schedules, query, sectionID); err != nil {
		return nil, fmt.Errorf("list schedules by section: %w", err)
	}
	return schedules, nil
}

// ListAll returns every non-template schedule row with context, used by
// the admin full-schedule views.
func (r *ScheduleRepository) ListAll(ctx context.Context) ([]models.ScheduleDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE s.section_id <> $1 ORDER BY sec.name ASC, s.day ASC, s.start_time ASC`,
		scheduleDetailColumns, scheduleDetailJoins)
	var schedules []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &schedules, query, models.TemplateSectionID); err != nil {
		return nil, fmt.Errorf("list all schedules: %w", err)
	}
	return schedules, nil
}

// ListByRoom returns a room's bookings, optionally filtered by day.
func (r *ScheduleRepository) ListByRoom(ctx context.Context, roomID int64, day string) ([]models.ScheduleDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE s.room_id = $1 AND s.section_id <> $2`,
		scheduleDetailColumns, scheduleDetailJoins)
	args := []interface{}{roomID, models.TemplateSectionID}
	if day != "" {
		query += fmt.Sprintf(" AND s.day = $%d", len(args)+1)
		args = append(args, day)
	}
	query += " ORDER BY s.day ASC, s.start_time ASC"

	var schedules []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, fmt.Errorf("list schedules by room: %w", err)
	}
	return schedules, nil
}

// ListRoomBookings returns existing bookings for a room and day,
// excluding template rows and the section being edited. Conflict
// checks run against this set.
func (r *ScheduleRepository) ListRoomBookings(ctx context.Context, roomID int64, day string, excludeSectionID int64) ([]models.RoomBooking, error) {
	const query = `SELECT s.id, s.section_id, s.subject_id, s.room_id, s.day, s.start_time, s.end_time, s.type, s.instructor,
        COALESCE(sec.name, '') AS section_name
        FROM schedules s
        LEFT JOIN sections sec ON sec.id = s.section_id
        WHERE s.room_id = $1 AND s.day = $2 AND s.section_id <> $3 AND s.section_id <> $4
        AND s.start_time <> '' AND s.end_time <> ''`
	var bookings []models.RoomBooking
	if err := r.db.SelectContext(ctx, &bookings, query, roomID, day, models.TemplateSectionID, excludeSectionID); err != nil {
		return nil, fmt.Errorf("list room bookings: %w", err)
	}
	return bookings, nil
}

// FindByID loads a schedule by id.
func (r *ScheduleRepository) FindByID(ctx context.Context, id int64) (*models.Schedule, error) {
	const query = `SELECT id, section_id, subject_id, room_id, day, start_time, end_time, type, instructor FROM schedules WHERE id = $1`
	var sched models.Schedule
	if err := r.db.GetContext(ctx, &sched, query, id); err != nil {
		return nil, err
	}
	return &sched, nil
}

// ListSubjectIDsBySection returns the distinct subjects currently
// assigned to a section.
func (r *ScheduleRepository) ListSubjectIDsBySection(ctx context.Context, sectionID int64) ([]int64, error) {
	const query = `SELECT DISTINCT subject_id FROM schedules WHERE section_id = $1`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, sectionID); err != nil {
		return nil, fmt.Errorf("list section subject ids: %w", err)
	}
	return ids, nil
}

// CountBySection returns how many schedule rows a section has.
func (r *ScheduleRepository) CountBySection(ctx context.Context, sectionID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM schedules WHERE section_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, sectionID); err != nil {
		return 0, fmt.Errorf("count section schedules: %w", err)
	}
	return count, nil
}

// CountBySubject returns how many non-template rows reference a subject.
func (r *ScheduleRepository) CountBySubject(ctx context.Context, subjectID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM schedules WHERE subject_id = $1 AND section_id <> $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, subjectID, models.TemplateSectionID); err != nil {
		return 0, fmt.Errorf("count subject schedules: %w", err)
	}
	return count, nil
}

// CountByRoom returns how many rows book a room.
func (r *ScheduleRepository) CountByRoom(ctx context.Context, roomID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM schedules WHERE room_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, roomID); err != nil {
		return 0, fmt.Errorf("count room schedules: %w", err)
	}
	return count, nil
}

// FindTemplateBySubject returns the template row for a subject, if any.
func (r *ScheduleRepository) FindTemplateBySubject(ctx context.Context, subjectID int64) (*models.Schedule, error) {
	const query = `SELECT id, section_id, subject_id, room_id, day, start_time, end_time, type, instructor
        FROM schedules WHERE section_id = $1 AND subject_id = $2 ORDER BY id DESC LIMIT 1`
	var sched models.Schedule
	err := r.db.GetContext(ctx, &sched, query, models.TemplateSectionID, subjectID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find subject template: %w", err)
	}
	return &sched, nil
}

// FindFallbackTemplate returns the newest template row among subjects
// sharing the given course, year level and type. Used when a subject
// has no template of its own.
func (r *ScheduleRepository) FindFallbackTemplate(ctx context.Context, courseID int64, yearLevel string, subjectType models.SubjectType) (*models.Schedule, error) {
	const query = `SELECT s.id, s.section_id, s.subject_id, s.room_id, s.day, s.start_time, s.end_time, s.type, s.instructor
        FROM schedules s
        JOIN subjects sub ON sub.id = s.subject_id
        WHERE s.section_id = $1 AND sub.course_id = $2 AND sub.year_level = $3 AND sub.type = $4
        ORDER BY s.id DESC LIMIT 1`
	var sched models.Schedule
	err := r.db.GetContext(ctx, &sched, query, models.TemplateSectionID, courseID, yearLevel, subjectType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find fallback template: %w", err)
	}
	return &sched, nil
}

// UpsertTemplate replaces the template row for a subject.
func (r *ScheduleRepository) UpsertTemplate(ctx context.Context, template *models.Schedule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert template: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM schedules WHERE section_id = $1 AND subject_id = $2`,
		models.TemplateSectionID, template.SubjectID); err != nil {
		return fmt.Errorf("delete subject template: %w", err)
	}
	const query = `INSERT INTO schedules (section_id, subject_id, room_id, day, start_time, end_time, type, instructor)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err = tx.GetContext(ctx, &template.ID, query,
		models.TemplateSectionID, template.SubjectID, template.RoomID,
		template.Day, template.StartTime, template.EndTime, template.Type, template.Instructor); err != nil {
		return fmt.Errorf("insert subject template: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert template: %w", err)
	}
	return nil
}

// Create stores a single schedule row.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	const query = `INSERT INTO schedules (section_id, subject_id, room_id, day, start_time, end_time, type, instructor)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.GetContext(ctx, &schedule.ID, query,
		schedule.SectionID, schedule.SubjectID, schedule.RoomID,
		schedule.Day, schedule.StartTime, schedule.EndTime, schedule.Type, schedule.Instructor); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// Update modifies a schedule row.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	const query = `UPDATE schedules SET room_id = $2, day = $3, start_time = $4, end_time = $5, type = $6, instructor = $7 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		schedule.ID, schedule.RoomID, schedule.Day, schedule.StartTime, schedule.EndTime, schedule.Type, schedule.Instructor); err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return nil
}

// Delete removes a schedule row by id.
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}

// ApplyAssignment removes the schedule rows of dropped subjects and
// inserts the new rows in one transaction. Nothing partial persists.
func (r *ScheduleRepository) ApplyAssignment(ctx context.Context, sectionID int64, removeSubjectIDs []int64, inserts []models.Schedule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin apply assignment: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if len(removeSubjectIDs) > 0 {
		placeholders := make([]string, len(removeSubjectIDs))
		args := make([]interface{}, 0, len(removeSubjectIDs)+1)
		args = append(args, sectionID)
		for i, id := range removeSubjectIDs {
			placeholders[i] = fmt.Sprintf("$%d", i+2)
			args = append(args, id)
		}
		query := fmt.Sprintf("DELETE FROM schedules WHERE section_id = $1 AND subject_id IN (%s)", strings.Join(placeholders, ","))
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("remove assigned subjects: %w", err)
		}
	}

	if err = r.insertSchedules(ctx, tx, inserts); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit apply assignment: %w", err)
	}
	return nil
}

// ReplaceSectionSchedules deletes a section's rows and inserts the
// replacement set atomically. Used by the assign-with-schedules flow.
func (r *ScheduleRepository) ReplaceSectionSchedules(ctx context.Context, sectionID int64, inserts []models.Schedule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace section schedules: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM schedules WHERE section_id = $1`, sectionID); err != nil {
		return fmt.Errorf("clear section schedules: %w", err)
	}
	if err = r.insertSchedules(ctx, tx, inserts); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace section schedules: %w", err)
	}
	return nil
}

// BulkCreate inserts many schedule rows within one transaction.
func (r *ScheduleRepository) BulkCreate(ctx context.Context, schedules []models.Schedule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk create schedules: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.insertSchedules(ctx, tx, schedules); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk create schedules: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) insertSchedules(ctx context.Context, tx *sqlx.Tx, schedules []models.Schedule) error {
	const query = `INSERT INTO schedules (section_id, subject_id, room_id, day, start_time, end_time, type, instructor)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	for i := range schedules {
		if err := tx.GetContext(ctx, &schedules[i].ID, query,
			schedules[i].SectionID, schedules[i].SubjectID, schedules[i].RoomID,
			schedules[i].Day, schedules[i].StartTime, schedules[i].EndTime,
			schedules[i].Type, schedules[i].Instructor); err != nil {
			return fmt.Errorf("insert schedule: %w", err)
		}
	}
	return nil
}

// DeleteMismatched removes non-template rows whose subject no longer
// matches the section's course or year level.
func (r *ScheduleRepository) DeleteMismatched(ctx context.Context) (int64, error) {
	const query = `DELETE FROM schedules s
        USING subjects sub, sections sec
        WHERE s.subject_id = sub.id AND s.section_id = sec.id
        AND s.section_id <> $1
        AND (sub.course_id <> sec.course_id OR sub.year_level <> sec.year_level)`
	res, err := r.db.ExecContext(ctx, query, models.TemplateSectionID)
	if err != nil {
		return 0, fmt.Errorf("delete mismatched schedules: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mismatched schedules rows affected: %w", err)
	}
	return affected, nil
}
