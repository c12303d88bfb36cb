package models

import "time"

// Accountability is an outstanding obligation (fee, document, property)
// blocking a student's clearance.
type Accountability struct {
	ID          int64     `db:"id" json:"id"`
	StudentID   int64     `db:"student_id" json:"student_id"`
	Type        string    `db:"type" json:"type"`
	Description string    `db:"description" json:"description"`
	Status      string    `db:"status" json:"status"`
	Amount      float64   `db:"amount" json:"amount"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// AccountabilityRequest creates or updates an accountability.
type AccountabilityRequest struct {
	StudentID   int64   `json:"student_id" validate:"required"`
	Type        string  `json:"type" validate:"required"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Amount      float64 `json:"amount" validate:"gte=0"`
}
