package models

// TemplateSectionID is the reserved section_id sentinel marking a
// schedule row as a subject-level template rather than a live booking.
const TemplateSectionID int64 = 0

// AssignmentMode controls how requested subjects reconcile with a
// section's current assignments.
type AssignmentMode string

const (
	// AssignmentModeAdd only adds missing subjects, never removes.
	AssignmentModeAdd AssignmentMode = "add"
	// AssignmentModeReplace makes the section's subject set equal the request.
	AssignmentModeReplace AssignmentMode = "replace"
)

// Schedule books a subject into a room and time slot for a section.
// RoomID is nil while a slot has no room assigned yet.
type Schedule struct {
	ID         int64  `db:"id" json:"id"`
	SectionID  int64  `db:"section_id" json:"section_id"`
	SubjectID  int64  `db:"subject_id" json:"subject_id"`
	RoomID     *int64 `db:"room_id" json:"room_id,omitempty"`
	Day        string `db:"day" json:"day"`
	StartTime  string `db:"start_time" json:"start_time"`
	EndTime    string `db:"end_time" json:"end_time"`
	Type       string `db:"type" json:"type"`
	Instructor string `db:"instructor" json:"instructor"`
}

// IsTemplate reports whether the row is a subject template.
func (s Schedule) IsTemplate() bool {
	return s.SectionID == TemplateSectionID
}

// ScheduleDetail enriches Schedule with subject, section and room names.
type ScheduleDetail struct {
	Schedule
	SubjectCode  string  `db:"subject_code" json:"subject_code"`
	SubjectName  string  `db:"subject_name" json:"subject_name"`
	SubjectUnits int     `db:"subject_units" json:"subject_units"`
	SectionName  *string `db:"section_name" json:"section_name,omitempty"`
	RoomName     *string `db:"room_name" json:"room_name,omitempty"`
}

// RoomBooking is an existing schedule row considered during conflict
// checks, carrying the section name for the conflict message.
type RoomBooking struct {
	Schedule
	SectionName string `db:"section_name" json:"section_name"`
}

// RoomConflict describes a rejected room/time combination.
type RoomConflict struct {
	RoomName    string `json:"room_name"`
	Day         string `json:"day"`
	SectionName string `json:"section_name,omitempty"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
	Message     string `json:"message"`
}
