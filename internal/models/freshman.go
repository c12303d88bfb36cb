package models

import "time"

// FreshmanStatus tracks an admission application through review.
type FreshmanStatus string

const (
	FreshmanStatusPending  FreshmanStatus = "pending"
	FreshmanStatusAccepted FreshmanStatus = "accepted"
	FreshmanStatusRejected FreshmanStatus = "rejected"
)

// FreshmanApplicationRequest is the public admission form payload.
type FreshmanApplicationRequest struct {
	CourseID        *int64 `json:"course_id"`
	FirstName       string `json:"first_name" validate:"required"`
	MiddleName      string `json:"middle_name"`
	LastName        string `json:"last_name" validate:"required"`
	Suffix          string `json:"suffix"`
	Birthdate       string `json:"birthdate" validate:"required"`
	Sex             string `json:"sex" validate:"required"`
	CivilStatus     string `json:"civil_status"`
	Nationality     string `json:"nationality"`
	PlaceOfBirth    string `json:"place_of_birth"`
	Religion        string `json:"religion"`
	Email           string `json:"email" validate:"required,email"`
	Mobile          string `json:"mobile" validate:"required"`
	Region          string `json:"region"`
	Province        string `json:"province"`
	City            string `json:"city"`
	Barangay        string `json:"barangay"`
	AddressLine     string `json:"address_line"`
	Zip             string `json:"zip"`
	FatherName      string `json:"father_name"`
	FatherContact   string `json:"father_contact"`
	MotherName      string `json:"mother_name"`
	MotherContact   string `json:"mother_contact"`
	GuardianName    string `json:"guardian_name"`
	GuardianContact string `json:"guardian_contact"`
	YearLevel       string `json:"year_level" validate:"required"`
	AdmissionType   string `json:"admission_type"`
	Consent         bool   `json:"consent"`
}

// FreshmanApplication is a public admission submission. Accepting one
// mints the student code and the mirror students row.
type FreshmanApplication struct {
	ID              int64          `db:"id" json:"id"`
	StudentID       *string        `db:"student_id" json:"student_id,omitempty"`
	CourseID        *int64         `db:"course_id" json:"course_id,omitempty"`
	FirstName       string         `db:"first_name" json:"first_name"`
	MiddleName      string         `db:"middle_name" json:"middle_name"`
	LastName        string         `db:"last_name" json:"last_name"`
	Suffix          string         `db:"suffix" json:"suffix"`
	Birthdate       string         `db:"birthdate" json:"birthdate"`
	Sex             string         `db:"sex" json:"sex"`
	CivilStatus     string         `db:"civil_status" json:"civil_status"`
	Nationality     string         `db:"nationality" json:"nationality"`
	PlaceOfBirth    string         `db:"place_of_birth" json:"place_of_birth"`
	Religion        string         `db:"religion" json:"religion"`
	Email           string         `db:"email" json:"email"`
	Mobile          string         `db:"mobile" json:"mobile"`
	Region          string         `db:"region" json:"region"`
	Province        string         `db:"province" json:"province"`
	City            string         `db:"city" json:"city"`
	Barangay        string         `db:"barangay" json:"barangay"`
	AddressLine     string         `db:"address_line" json:"address_line"`
	Zip             string         `db:"zip" json:"zip"`
	FatherName      string         `db:"father_name" json:"father_name"`
	FatherContact   string         `db:"father_contact" json:"father_contact"`
	MotherName      string         `db:"mother_name" json:"mother_name"`
	MotherContact   string         `db:"mother_contact" json:"mother_contact"`
	GuardianName    string         `db:"guardian_name" json:"guardian_name"`
	GuardianContact string         `db:"guardian_contact" json:"guardian_contact"`
	YearLevel       string         `db:"year_level" json:"year_level"`
	AdmissionType   string         `db:"admission_type" json:"admission_type"`
	Consent         bool           `db:"consent" json:"consent"`
	Status          FreshmanStatus `db:"status" json:"status"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}
