package models

// SubjectType distinguishes lecture and laboratory components.
type SubjectType string

const (
	SubjectTypeLecture    SubjectType = "Lec"
	SubjectTypeLaboratory SubjectType = "Lab"
)

// SubjectCategory selects the creation flow for new subjects. Major
// subjects get an auto-generated code and a Lec/Lab pair; minor subjects
// carry an admin-supplied code and a single Lec row.
type SubjectCategory string

const (
	SubjectCategoryMajor SubjectCategory = "major"
	SubjectCategoryMinor SubjectCategory = "minor"
)

// Subject is a course offering taught to a specific year level. Lec/Lab
// pairs of a major subject share one code.
type Subject struct {
	ID        int64       `db:"id" json:"id"`
	Code      string      `db:"code" json:"code"`
	Name      string      `db:"name" json:"name"`
	Units     int         `db:"units" json:"units"`
	Type      SubjectType `db:"type" json:"type"`
	CourseID  int64       `db:"course_id" json:"course_id"`
	YearLevel string      `db:"year_level" json:"year_level"`
}

// SubjectFilter narrows subject listings.
type SubjectFilter struct {
	CourseID  int64
	YearLevel string
}

// CreateSubjectRequest drives the major/minor creation flow. Major
// subjects ignore Code, Units and Type; minors require them.
type CreateSubjectRequest struct {
	Name      string          `json:"name" validate:"required"`
	Category  SubjectCategory `json:"category" validate:"required,oneof=major minor"`
	CourseID  int64           `json:"course_id" validate:"required"`
	YearLevel string          `json:"year_level" validate:"required"`
	Code      string          `json:"code"`
	Units     int             `json:"units"`
	Type      SubjectType     `json:"type"`
}

// UpdateSubjectRequest modifies an existing subject.
type UpdateSubjectRequest struct {
	Code      string      `json:"code" validate:"required"`
	Name      string      `json:"name" validate:"required"`
	Units     int         `json:"units" validate:"required,min=1"`
	Type      SubjectType `json:"type" validate:"required,oneof=Lec Lab"`
	CourseID  int64       `json:"course_id" validate:"required"`
	YearLevel string      `json:"year_level" validate:"required"`
}
