package models

// Course is a degree program offered by the school.
type Course struct {
	ID   int64  `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

// CourseRequest creates or updates a course. Codes are alphanumeric.
type CourseRequest struct {
	Code string `json:"code" validate:"required,alphanum"`
	Name string `json:"name" validate:"required"`
}
