package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kwat0g/enrollment/internal/models"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
)

type scheduleRepository interface {
	ListBySection(ctx context.Context, sectionID int64) ([]models.ScheduleDetail, error)
	ListAll(ctx context.Context) ([]models.ScheduleDetail, error)
	ListByRoom(ctx context.Context, roomID int64, day string) ([]models.ScheduleDetail, error)
	ListRoomBookings(ctx context.Context, roomID int64, day string, excludeSectionID int64) ([]models.RoomBooking, error)
	ListSubjectIDsBySection(ctx context.Context, sectionID int64) ([]int64, error)
	FindTemplateBySubject(ctx context.Context, subjectID int64) (*models.Schedule, error)
	FindFallbackTemplate(ctx context.Context, courseID int64, yearLevel string, subjectType models.SubjectType) (*models.Schedule, error)
	UpsertTemplate(ctx context.Context, template *models.Schedule) error
	ApplyAssignment(ctx context.Context, sectionID int64, removeSubjectIDs []int64, inserts []models.Schedule) error
	ReplaceSectionSchedules(ctx context.Context, sectionID int64, inserts []models.Schedule) error
	BulkCreate(ctx context.Context, schedules []models.Schedule) error
	DeleteMismatched(ctx context.Context) (int64, error)
}

type scheduleSectionRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Section, error)
	EnrollmentActivity(ctx context.Context, sectionID int64) (models.EnrollmentActivity, error)
	CountEnrollments(ctx context.Context, sectionID int64, status models.EnrollmentStatus) (int, error)
}

type scheduleSubjectRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Subject, error)
	ListByIDs(ctx context.Context, ids []int64) ([]models.Subject, error)
}

type scheduleRoomRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Room, error)
	FindByName(ctx context.Context, name string) (*models.Room, error)
	Create(ctx context.Context, room *models.Room) error
}

// ScheduleConfig tunes the conflict checker.
type ScheduleConfig struct {
	ConflictBufferMinutes int
}

// ScheduleService owns schedule rows, subject templates, the room
// conflict checker and the subject assignment workflow.
type ScheduleService struct {
	schedules scheduleRepository
	sections  scheduleSectionRepository
	subjects  scheduleSubjectRepository
	rooms     scheduleRoomRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	config    ScheduleConfig
}

// NewScheduleService constructs a ScheduleService instance.
func NewScheduleService(schedules scheduleRepository, sections scheduleSectionRepository, subjects scheduleSubjectRepository, rooms scheduleRoomRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger, config ScheduleConfig) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.ConflictBufferMinutes <= 0 {
		config.ConflictBufferMinutes = 15
	}
	return &ScheduleService{
		schedules: schedules,
		sections:  sections,
		subjects:  subjects,
		rooms:     rooms,
		cache:     cache,
		validator: validate,
		logger:    logger,
		config:    config,
	}
}

const scheduleCachePattern = "schedules:*"

// CheckRoomConflict reports whether a candidate slot collides with an
// existing booking for the same room and day. A nil result means the
// slot is free. Read only, safe to call speculatively.
//
// Two bookings collide when s1 < e2+buffer && s2 < e1+buffer. The
// buffer pads only the ends of the compared ranges; the asymmetry is
// kept as-is for behavioural parity with the deployed system.
func (s *ScheduleService) CheckRoomConflict(ctx context.Context, roomID *int64, day, start, end string, excludeSectionID int64) (*models.RoomConflict, error) {
	if roomID == nil || day == "" || start == "" || end == "" {
		return nil, nil
	}

	s1, ok1 := parseMinutes(start)
	e1, ok2 := parseMinutes(end)
	if !ok1 || !ok2 {
		return &models.RoomConflict{Day: day, Message: "invalid time format"}, nil
	}
	if s1 >= e1 {
		return &models.RoomConflict{Day: day, Message: "start time must be before end time"}, nil
	}

	bookings, err := s.schedules.ListRoomBookings(ctx, *roomID, day, excludeSectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room bookings")
	}

	buffer := s.config.ConflictBufferMinutes
	for _, booking := range bookings {
		s2, okS := parseMinutes(booking.StartTime)
		e2, okE := parseMinutes(booking.EndTime)
		if !okS || !okE {
			continue
		}
		if s1 < e2+buffer && s2 < e1+buffer {
			roomName := ""
			if room, roomErr := s.rooms.FindByID(ctx, *roomID); roomErr == nil && room != nil {
				roomName = room.Name
			}
			return &models.RoomConflict{
				RoomName:    roomName,
				Day:         day,
				SectionName: booking.SectionName,
				StartTime:   booking.StartTime,
				EndTime:     booking.EndTime,
				Message: fmt.Sprintf("room %s is already booked on %s by %s from %s to %s",
					roomName, day, booking.SectionName, booking.StartTime, booking.EndTime),
			}, nil
		}
	}
	return nil, nil
}

// AssignSubjects reconciles a section's subject set against the request.
// Add mode only adds; replace mode makes the assignment equal the
// request. All removals and insertions persist in one transaction.
func (s *ScheduleService) AssignSubjects(ctx context.Context, sectionID int64, req models.AssignSubjectsRequest) (*models.AssignmentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	mode := req.Mode
	if mode == "" {
		mode = models.AssignmentModeAdd
	}
	if mode != models.AssignmentModeAdd && mode != models.AssignmentModeReplace {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown assignment mode %q", mode))
	}

	section, err := s.guardedSection(ctx, sectionID)
	if err != nil {
		return nil, err
	}

	if dupes := duplicateIDs(req.SubjectIDs); len(dupes) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "duplicate subject ids in request: "+joinIDs(dupes))
	}

	subjects, err := s.subjects.ListByIDs(ctx, req.SubjectIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	byID := make(map[int64]models.Subject, len(subjects))
	for _, subject := range subjects {
		byID[subject.ID] = subject
	}
	var missing, mismatched []int64
	for _, id := range req.SubjectIDs {
		subject, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		if subject.CourseID != section.CourseID || subject.YearLevel != section.YearLevel {
			mismatched = append(mismatched, id)
		}
	}
	if len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subjects not found: "+joinIDs(missing))
	}
	if len(mismatched) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subjects do not match section course/year level: "+joinIDs(mismatched))
	}

	current, err := s.schedules.ListSubjectIDsBySection(ctx, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load current assignment")
	}
	currentSet := make(map[int64]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}
	requestedSet := make(map[int64]bool, len(req.SubjectIDs))
	for _, id := range req.SubjectIDs {
		requestedSet[id] = true
	}

	var toAdd, toRemove []int64
	unchanged := 0
	for _, id := range req.SubjectIDs {
		if currentSet[id] {
			unchanged++
		} else {
			toAdd = append(toAdd, id)
		}
	}
	if mode == models.AssignmentModeReplace {
		for _, id := range current {
			if !requestedSet[id] {
				toRemove = append(toRemove, id)
			}
		}
		sort.Slice(toRemove, func(i, j int) bool { return toRemove[i] < toRemove[j] })
	}

	result := &models.AssignmentResult{
		Valid:     true,
		Added:     len(toAdd),
		Removed:   len(toRemove),
		Unchanged: unchanged,
	}
	if req.ValidateOnly {
		return result, nil
	}

	var inserts []models.Schedule
	for _, id := range toAdd {
		subject := byID[id]
		template, err := s.resolveTemplate(ctx, subject)
		if err != nil {
			return nil, err
		}
		row := models.Schedule{
			SectionID: sectionID,
			SubjectID: subject.ID,
			Type:      string(subject.Type),
		}
		hasTemplate := template != nil
		if hasTemplate {
			row.RoomID = template.RoomID
			row.Day = template.Day
			row.StartTime = template.StartTime
			row.EndTime = template.EndTime
			row.Type = template.Type
			row.Instructor = template.Instructor

			conflict, err := s.CheckRoomConflict(ctx, row.RoomID, row.Day, row.StartTime, row.EndTime, sectionID)
			if err != nil {
				return nil, err
			}
			if conflict != nil {
				return nil, appErrors.Clone(appErrors.ErrScheduleConflict, conflict.Message)
			}
			// The room check above only sees committed rows; subjects
			// added earlier in this call are not in the DB yet.
			if prior := queuedSlotConflict(inserts, row, s.config.ConflictBufferMinutes); prior != nil {
				return nil, appErrors.Clone(appErrors.ErrScheduleConflict,
					fmt.Sprintf("subjects %s and %s resolve to overlapping bookings for the same room on %s from %s to %s",
						byID[prior.SubjectID].Code, subject.Code, row.Day, prior.StartTime, prior.EndTime))
			}
		}
		if instructor, ok := req.Instructors[subject.ID]; ok && instructor != "" {
			row.Instructor = instructor
		}
		inserts = append(inserts, row)
		result.Subjects = append(result.Subjects, models.AssignedSubject{
			SubjectID:   subject.ID,
			Code:        subject.Code,
			Name:        subject.Name,
			HasTemplate: hasTemplate,
		})
	}

	if err := s.schedules.ApplyAssignment(ctx, sectionID, toRemove, inserts); err != nil {
		return nil, appErrors.FromError(err)
	}
	s.invalidateCache(ctx)

	s.logger.Info("subjects assigned",
		zap.Int64("section_id", sectionID),
		zap.String("mode", string(mode)),
		zap.Int("added", result.Added),
		zap.Int("removed", result.Removed))
	return result, nil
}

// RemoveSubject drops a single subject's schedule rows from a section.
func (s *ScheduleService) RemoveSubject(ctx context.Context, sectionID, subjectID int64) error {
	if _, err := s.guardedSection(ctx, sectionID); err != nil {
		return err
	}

	current, err := s.schedules.ListSubjectIDsBySection(ctx, sectionID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load current assignment")
	}
	assigned := false
	for _, id := range current {
		if id == subjectID {
			assigned = true
			break
		}
	}
	if !assigned {
		return appErrors.Clone(appErrors.ErrNotFound, "subject is not assigned to this section")
	}

	if err := s.schedules.ApplyAssignment(ctx, sectionID, []int64{subjectID}, nil); err != nil {
		return appErrors.FromError(err)
	}
	s.invalidateCache(ctx)
	return nil
}

// BulkAssign creates many schedule rows for a section, resolving or
// creating rooms by name and conflict-checking every slot first.
func (s *ScheduleService) BulkAssign(ctx context.Context, sectionID int64, req models.BulkAssignRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk schedule payload")
	}
	section, err := s.guardedSection(ctx, sectionID)
	if err != nil {
		return err
	}

	rows, err := s.buildRows(ctx, section, req.Schedules)
	if err != nil {
		return err
	}
	if err := s.schedules.BulkCreate(ctx, rows); err != nil {
		return appErrors.FromError(err)
	}
	s.invalidateCache(ctx)
	return nil
}

// AssignWithSchedules replaces a section's subjects and schedule rows
// in one atomic call.
func (s *ScheduleService) AssignWithSchedules(ctx context.Context, sectionID int64, req models.AssignWithSchedulesRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	section, err := s.guardedSection(ctx, sectionID)
	if err != nil {
		return err
	}

	allowed := make(map[int64]bool, len(req.SubjectIDs))
	for _, id := range req.SubjectIDs {
		allowed[id] = true
	}
	for _, input := range req.Schedules {
		if !allowed[input.SubjectID] {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("schedule references subject %d outside the assignment", input.SubjectID))
		}
	}

	rows, err := s.buildRows(ctx, section, req.Schedules)
	if err != nil {
		return err
	}
	if err := s.schedules.ReplaceSectionSchedules(ctx, sectionID, rows); err != nil {
		return appErrors.FromError(err)
	}
	s.invalidateCache(ctx)
	return nil
}

// SubjectTemplate returns a subject's template row, nil when absent.
func (s *ScheduleService) SubjectTemplate(ctx context.Context, subjectID int64) (*models.Schedule, error) {
	if _, err := s.mustSubject(ctx, subjectID); err != nil {
		return nil, err
	}
	template, err := s.schedules.FindTemplateBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject template")
	}
	return template, nil
}

// UpsertSubjectTemplate replaces a subject's template row after a
// conflict check against live bookings.
func (s *ScheduleService) UpsertSubjectTemplate(ctx context.Context, subjectID int64, req models.TemplateRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload")
	}
	subject, err := s.mustSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	roomID, err := s.resolveRoom(ctx, req.Room)
	if err != nil {
		return nil, err
	}
	conflict, err := s.CheckRoomConflict(ctx, roomID, req.Day, req.StartTime, req.EndTime, models.TemplateSectionID)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, appErrors.Clone(appErrors.ErrScheduleConflict, conflict.Message)
	}

	template := &models.Schedule{
		SectionID:  models.TemplateSectionID,
		SubjectID:  subjectID,
		RoomID:     roomID,
		Day:        req.Day,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Type:       req.Type,
		Instructor: req.Instructor,
	}
	if template.Type == "" {
		template.Type = string(subject.Type)
	}
	if err := s.schedules.UpsertTemplate(ctx, template); err != nil {
		return nil, appErrors.FromError(err)
	}
	return template, nil
}

// SectionSchedules returns a section's schedule rows.
func (s *ScheduleService) SectionSchedules(ctx context.Context, sectionID int64) ([]models.ScheduleDetail, error) {
	if _, err := s.mustSection(ctx, sectionID); err != nil {
		return nil, err
	}
	schedules, err := s.schedules.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section schedules")
	}
	return schedules, nil
}

// AllSchedules returns every live schedule row, served from cache when
// warm.
func (s *ScheduleService) AllSchedules(ctx context.Context) ([]models.ScheduleDetail, error) {
	const key = "schedules:all"
	var cached []models.ScheduleDetail
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	schedules, err := s.schedules.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedules")
	}
	_ = s.cache.Set(ctx, key, schedules, 0)
	return schedules, nil
}

// RoomSchedules returns a room's bookings with an optional day filter.
func (s *ScheduleService) RoomSchedules(ctx context.Context, roomID int64, day string) ([]models.ScheduleDetail, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil || room == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
	}
	schedules, err := s.schedules.ListByRoom(ctx, roomID, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room schedules")
	}
	return schedules, nil
}

// Cleanup removes live schedule rows whose subject no longer matches
// the owning section's course or year level.
func (s *ScheduleService) Cleanup(ctx context.Context) (int64, error) {
	removed, err := s.schedules.DeleteMismatched(ctx)
	if err != nil {
		return 0, appErrors.FromError(err)
	}
	if removed > 0 {
		s.invalidateCache(ctx)
		s.logger.Info("removed mismatched schedules", zap.Int64("count", removed))
	}
	return removed, nil
}

func (s *ScheduleService) guardedSection(ctx context.Context, sectionID int64) (*models.Section, error) {
	section, err := s.mustSection(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if section.Status == models.SectionStatusOpen {
		return nil, appErrors.Clone(appErrors.ErrSectionLocked, "close the section before changing its schedule")
	}
	activity, err := s.sections.EnrollmentActivity(ctx, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check section enrollments")
	}
	switch activity {
	case models.ActivityApproved:
		count, _ := s.sections.CountEnrollments(ctx, sectionID, models.EnrollmentStatusApproved)
		return nil, appErrors.Clone(appErrors.ErrSectionLocked,
			fmt.Sprintf("section has %d approved enrollment(s)", count))
	case models.ActivityPending:
		count, _ := s.sections.CountEnrollments(ctx, sectionID, models.EnrollmentStatusPending)
		return nil, appErrors.Clone(appErrors.ErrSectionLocked,
			fmt.Sprintf("section has %d pending enrollment(s)", count))
	}
	return section, nil
}

func (s *ScheduleService) mustSection(ctx context.Context, sectionID int64) (*models.Section, error) {
	section, err := s.sections.FindByID(ctx, sectionID)
	if err != nil || section == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
	}
	return section, nil
}

func (s *ScheduleService) mustSubject(ctx context.Context, subjectID int64) (*models.Subject, error) {
	subject, err := s.subjects.FindByID(ctx, subjectID)
	if err != nil || subject == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	return subject, nil
}

// resolveTemplate finds the schedule template for an added subject:
// the subject's own template first, then the newest template among
// subjects sharing the same course, year level and type.
func (s *ScheduleService) resolveTemplate(ctx context.Context, subject models.Subject) (*models.Schedule, error) {
	template, err := s.schedules.FindTemplateBySubject(ctx, subject.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject template")
	}
	if template != nil {
		return template, nil
	}
	fallback, err := s.schedules.FindFallbackTemplate(ctx, subject.CourseID, subject.YearLevel, subject.Type)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fallback template")
	}
	return fallback, nil
}

func (s *ScheduleService) buildRows(ctx context.Context, section *models.Section, inputs []models.ScheduleInput) ([]models.Schedule, error) {
	rows := make([]models.Schedule, 0, len(inputs))
	for _, input := range inputs {
		subject, err := s.subjects.FindByID(ctx, input.SubjectID)
		if err != nil || subject == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("subject %d not found", input.SubjectID))
		}
		if subject.CourseID != section.CourseID || subject.YearLevel != section.YearLevel {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("subject %d does not match section course/year level", input.SubjectID))
		}

		roomID, err := s.resolveRoom(ctx, input.Room)
		if err != nil {
			return nil, err
		}
		conflict, err := s.CheckRoomConflict(ctx, roomID, input.Day, input.StartTime, input.EndTime, section.ID)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return nil, appErrors.Clone(appErrors.ErrScheduleConflict, conflict.Message)
		}

		rowType := input.Type
		if rowType == "" {
			rowType = string(subject.Type)
		}
		rows = append(rows, models.Schedule{
			SectionID:  section.ID,
			SubjectID:  input.SubjectID,
			RoomID:     roomID,
			Day:        input.Day,
			StartTime:  input.StartTime,
			EndTime:    input.EndTime,
			Type:       rowType,
			Instructor: input.Instructor,
		})
	}
	return rows, nil
}

// resolveRoom maps a room name to its id, creating the room when new.
func (s *ScheduleService) resolveRoom(ctx context.Context, name string) (*int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	room, err := s.rooms.FindByName(ctx, name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up room")
	}
	if room == nil {
		room = &models.Room{Name: name}
		if err := s.rooms.Create(ctx, room); err != nil {
			return nil, appErrors.FromError(err)
		}
	}
	return &room.ID, nil
}

func (s *ScheduleService) invalidateCache(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, scheduleCachePattern)
}

// parseMinutes converts "HH:MM" (seconds tolerated) into minutes since
// midnight.
func parseMinutes(value string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// queuedSlotConflict checks a candidate slot against rows queued
// earlier in the same assignment call, using the same buffered overlap
// rule as the room checker. Returns the colliding row, or nil.
func queuedSlotConflict(queued []models.Schedule, row models.Schedule, buffer int) *models.Schedule {
	if row.RoomID == nil {
		return nil
	}
	s1, ok1 := parseMinutes(row.StartTime)
	e1, ok2 := parseMinutes(row.EndTime)
	if !ok1 || !ok2 {
		return nil
	}
	for i := range queued {
		prior := queued[i]
		if prior.RoomID == nil || *prior.RoomID != *row.RoomID || prior.Day != row.Day {
			continue
		}
		s2, okS := parseMinutes(prior.StartTime)
		e2, okE := parseMinutes(prior.EndTime)
		if !okS || !okE {
			continue
		}
		if s1 < e2+buffer && s2 < e1+buffer {
			return &prior
		}
	}
	return nil
}

func duplicateIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	var dupes []int64
	for _, id := range ids {
		if seen[id] {
			dupes = append(dupes, id)
			continue
		}
		seen[id] = true
	}
	return dupes
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
