package models

// Student is the canonical student record. StudentID is the printed
// school code ("2025-00042"); ID is the numeric key every enrollment
// table references.
type Student struct {
	ID            int64  `db:"id" json:"id"`
	StudentID     string `db:"student_id" json:"student_id"`
	FirstName     string `db:"first_name" json:"first_name"`
	MiddleName    string `db:"middle_name" json:"middle_name"`
	LastName      string `db:"last_name" json:"last_name"`
	Suffix        string `db:"suffix" json:"suffix"`
	Gender        string `db:"gender" json:"gender"`
	Address       string `db:"address" json:"address"`
	ContactNumber string `db:"contact_number" json:"contact_number"`
	Email         string `db:"email" json:"email"`
	CourseID      int64  `db:"course_id" json:"course_id"`
	YearLevel     string `db:"year_level" json:"year_level"`
}

// StudentRequest creates or updates a student record.
type StudentRequest struct {
	StudentID     string `json:"student_id"`
	FirstName     string `json:"first_name" validate:"required"`
	MiddleName    string `json:"middle_name"`
	LastName      string `json:"last_name" validate:"required"`
	Suffix        string `json:"suffix"`
	Gender        string `json:"gender"`
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email" validate:"omitempty,email"`
	CourseID      int64  `json:"course_id" validate:"required"`
	YearLevel     string `json:"year_level" validate:"required"`
}

// StudentDetail enriches Student with course info.
type StudentDetail struct {
	Student
	CourseName string `db:"course_name" json:"course_name"`
	CourseCode string `db:"course_code" json:"course_code"`
}
