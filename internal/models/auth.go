package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role distinguishes the two authenticated principals.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// StudentLoginRequest authenticates a student by student code and last name.
type StudentLoginRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// AdminLoginRequest holds admin credentials.
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest exchanges a still-valid token for a fresh one.
type RefreshTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// LoginResponse returns the issued token and profile payload.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expires_in"`
	IssuedAt  time.Time   `json:"issued_at"`
	User      interface{} `json:"user"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID    int64  `json:"user_id"`
	StudentID string `json:"student_id,omitempty"`
	Username  string `json:"username,omitempty"`
	Role      Role   `json:"role"`
	YearLevel string `json:"year_level,omitempty"`
	CourseID  int64  `json:"course_id,omitempty"`
	jwt.RegisteredClaims
}
