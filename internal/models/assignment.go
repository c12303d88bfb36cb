package models

// AssignSubjectsRequest reconciles a section's subject set.
type AssignSubjectsRequest struct {
	SubjectIDs   []int64          `json:"subject_ids" validate:"required,min=1"`
	Mode         AssignmentMode   `json:"mode"`
	Instructors  map[int64]string `json:"instructors"`
	ValidateOnly bool             `json:"validate_only"`
}

// AssignedSubject reports what happened to one added subject.
type AssignedSubject struct {
	SubjectID   int64  `json:"subject_id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	HasTemplate bool   `json:"has_template"`
}

// AssignmentResult summarises an assignment call.
type AssignmentResult struct {
	Valid     bool              `json:"valid"`
	Added     int               `json:"added"`
	Removed   int               `json:"removed"`
	Unchanged int               `json:"unchanged"`
	Subjects  []AssignedSubject `json:"subjects,omitempty"`
}

// ScheduleInput is one schedule row as submitted by the admin UI.
// Room is a name resolved (or created) server side.
type ScheduleInput struct {
	SubjectID  int64  `json:"subject_id" validate:"required"`
	Day        string `json:"day" validate:"required"`
	StartTime  string `json:"start_time" validate:"required"`
	EndTime    string `json:"end_time" validate:"required"`
	Type       string `json:"type"`
	Instructor string `json:"instructor"`
	Room       string `json:"room"`
}

// BulkAssignRequest creates many schedule rows for a section at once.
type BulkAssignRequest struct {
	Schedules []ScheduleInput `json:"schedules" validate:"required,min=1,dive"`
}

// AssignWithSchedulesRequest replaces a section's subjects and
// schedules in one atomic call.
type AssignWithSchedulesRequest struct {
	SubjectIDs []int64         `json:"subject_ids" validate:"required,min=1"`
	Schedules  []ScheduleInput `json:"schedules" validate:"required,min=1,dive"`
}

// TemplateRequest maintains a subject-level template row.
type TemplateRequest struct {
	Day        string `json:"day" validate:"required"`
	StartTime  string `json:"start_time" validate:"required"`
	EndTime    string `json:"end_time" validate:"required"`
	Type       string `json:"type"`
	Instructor string `json:"instructor"`
	Room       string `json:"room"`
}
