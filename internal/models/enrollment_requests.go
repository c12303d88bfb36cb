package models

// SubmitEnrollmentRequest is a student's block-section registration.
type SubmitEnrollmentRequest struct {
	SectionID  int64  `json:"section_id" validate:"required"`
	SchoolYear string `json:"school_year" validate:"required"`
	Semester   string `json:"semester" validate:"required"`
}

// IrregularSubjectInput is one chosen subject of an irregular request.
type IrregularSubjectInput struct {
	SubjectID  int64 `json:"subject_id" validate:"required"`
	ScheduleID int64 `json:"schedule_id" validate:"required"`
	SectionID  int64 `json:"section_id" validate:"required"`
}

// SubmitIrregularRequest registers per-subject choices across sections.
// With EnrollmentID set it replaces the choices of an existing pending
// irregular enrollment instead of creating a new one.
type SubmitIrregularRequest struct {
	SubjectSchedules []IrregularSubjectInput `json:"subject_schedules" validate:"required,min=1,dive"`
	SchoolYear       string                  `json:"school_year" validate:"required"`
	Semester         string                  `json:"semester" validate:"required"`
	EnrollmentID     *int64                  `json:"enrollment_id,omitempty"`
}
