package models

import "time"

// EnrollmentStatus is the lifecycle of an enrollment request.
// Rows are never hard-deleted; rejected and approved are terminal.
type EnrollmentStatus string

const (
	EnrollmentStatusPending  EnrollmentStatus = "pending"
	EnrollmentStatusApproved EnrollmentStatus = "approved"
	EnrollmentStatusRejected EnrollmentStatus = "rejected"
)

// EnrollmentType distinguishes block-section enrollment from per-subject
// cross-section (irregular) enrollment.
type EnrollmentType string

const (
	EnrollmentTypeRegular   EnrollmentType = "regular"
	EnrollmentTypeIrregular EnrollmentType = "irregular"
)

// Enrollment is a student's registration request for one term. For
// irregular enrollments SectionID is only the nominal primary section;
// the real subject choices live in irregular_enrollments.
type Enrollment struct {
	ID              int64            `db:"id" json:"id"`
	StudentID       int64            `db:"student_id" json:"student_id"`
	SectionID       int64            `db:"section_id" json:"section_id"`
	SchoolYear      string           `db:"school_year" json:"school_year"`
	Semester        string           `db:"semester" json:"semester"`
	Status          EnrollmentStatus `db:"status" json:"status"`
	DateApplied     time.Time        `db:"date_applied" json:"date_applied"`
	ReferenceNumber *string          `db:"reference_number" json:"reference_number,omitempty"`
	EnrollmentType  EnrollmentType   `db:"enrollment_type" json:"enrollment_type"`
}

// EnrollmentDetail enriches Enrollment with student and section names
// for the admin review queue. Irregular enrollments aggregate every
// chosen section into SectionName.
type EnrollmentDetail struct {
	Enrollment
	StudentCode string `db:"student_code" json:"student_code"`
	FirstName   string `db:"first_name" json:"first_name"`
	LastName    string `db:"last_name" json:"last_name"`
	SectionName string `db:"section_name" json:"section_name"`
}

// IrregularEnrollment is one chosen subject of an irregular enrollment.
type IrregularEnrollment struct {
	ID           int64 `db:"id" json:"id"`
	EnrollmentID int64 `db:"enrollment_id" json:"enrollment_id"`
	SubjectID    int64 `db:"subject_id" json:"subject_id"`
	ScheduleID   int64 `db:"schedule_id" json:"schedule_id"`
	SectionID    int64 `db:"section_id" json:"section_id"`
}

// IrregularSubjectDetail is a chosen subject joined with its schedule,
// subject, section and room info.
type IrregularSubjectDetail struct {
	IrregularEnrollment
	Day         string      `db:"day" json:"day"`
	StartTime   string      `db:"start_time" json:"start_time"`
	EndTime     string      `db:"end_time" json:"end_time"`
	Instructor  string      `db:"instructor" json:"instructor"`
	SubjectCode string      `db:"subject_code" json:"subject_code"`
	SubjectName string      `db:"subject_name" json:"subject_name"`
	Units       int         `db:"units" json:"units"`
	Type        SubjectType `db:"type" json:"type"`
	SectionName string      `db:"section_name" json:"section_name"`
	RoomName    *string     `db:"room_name" json:"room_name,omitempty"`
}

// CurrentEnrollment is the student's registration view: the enrollment
// plus the section and schedule it resolves to. Section is a virtual
// mixed-sections entry for irregular enrollments.
type CurrentEnrollment struct {
	Enrollment *Enrollment      `json:"enrollment"`
	Section    *Section         `json:"section"`
	Schedule   []ScheduleDetail `json:"schedule"`
}
