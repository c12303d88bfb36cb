package models

import "time"

// Grade is a student's final mark for a subject in one term.
type Grade struct {
	ID         int64     `db:"id" json:"id"`
	StudentID  int64     `db:"student_id" json:"student_id"`
	SubjectID  int64     `db:"subject_id" json:"subject_id"`
	SchoolYear string    `db:"school_year" json:"school_year"`
	Semester   string    `db:"semester" json:"semester"`
	Grade      float64   `db:"grade" json:"grade"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// GradeRequest records or replaces a student's mark for a subject.
type GradeRequest struct {
	StudentID  int64   `json:"student_id" validate:"required"`
	SubjectID  int64   `json:"subject_id" validate:"required"`
	SchoolYear string  `json:"school_year" validate:"required"`
	Semester   string  `json:"semester" validate:"required"`
	Grade      float64 `json:"grade" validate:"gte=1,lte=5"`
}

// GradeDetail enriches Grade with student and subject names.
type GradeDetail struct {
	Grade
	StudentCode string `db:"student_code" json:"student_code"`
	FirstName   string `db:"first_name" json:"first_name"`
	LastName    string `db:"last_name" json:"last_name"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
	SubjectName string `db:"subject_name" json:"subject_name"`
}

// GradeStatistic is the per-subject average used by the admin dashboard.
type GradeStatistic struct {
	SubjectID    int64   `db:"subject_id" json:"subject_id"`
	AverageGrade float64 `db:"avg_grade" json:"avg_grade"`
}
