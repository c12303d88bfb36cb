package models

// SectionStatus is the enrollment availability of a section.
type SectionStatus string

const (
	SectionStatusOpen   SectionStatus = "open"
	SectionStatusClosed SectionStatus = "closed"
)

// EnrollmentActivity summarises enrollment rows attached to a section.
// Approved activity outranks pending.
type EnrollmentActivity string

const (
	ActivityApproved EnrollmentActivity = "approved"
	ActivityPending  EnrollmentActivity = "pending"
	ActivityNone     EnrollmentActivity = "none"
)

// Section groups students of one course and year level under a shared
// block schedule.
type Section struct {
	ID           int64         `db:"id" json:"id"`
	Name         string        `db:"name" json:"name"`
	YearLevel    string        `db:"year_level" json:"year_level"`
	CourseID     int64         `db:"course_id" json:"course_id"`
	ScheduleType string        `db:"schedule_type" json:"schedule_type"`
	Status       SectionStatus `db:"status" json:"status"`
}

// SectionDetail enriches Section with course info for listings.
type SectionDetail struct {
	Section
	CourseName string `db:"course_name" json:"course_name"`
	CourseCode string `db:"course_code" json:"course_code"`
}

// SectionWithSchedules bundles a section with its schedule rows for the
// student-facing section browser.
type SectionWithSchedules struct {
	Section
	Schedules []ScheduleDetail `json:"schedules"`
}

// SectionRequest creates or updates a section.
type SectionRequest struct {
	Name         string `json:"name" validate:"required"`
	YearLevel    string `json:"year_level" validate:"required"`
	CourseID     int64  `json:"course_id" validate:"required"`
	ScheduleType string `json:"schedule_type"`
}

// SectionStatusRequest toggles a section open or closed.
type SectionStatusRequest struct {
	Status SectionStatus `json:"status" validate:"required,oneof=open closed"`
}
