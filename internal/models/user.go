package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "STUDENT_ROLE"
	RoleTeacher UserRole = "TEACHER_ROLE"
)

// IsValid reports whether the role belongs to the closed set. Authorization
// checks match exhaustively against these two values.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleStudent, RoleTeacher:
		return true
	}
	return false
}

type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Name     string   `json:"name" gorm:"not null;size:55"`
	Surname  string   `json:"surname" gorm:"not null;size:25"`
	// Uniqueness applies to live rows only; a soft-deleted account releases
	// its username and email for re-registration
	Username string `json:"username" gorm:"uniqueIndex:idx_users_username,where:deleted_at IS NULL;not null;size:15"`
	Email    string `json:"email" gorm:"uniqueIndex:idx_users_email,where:deleted_at IS NULL;not null;size:255"`
	Password string   `json:"-" gorm:"not null;size:100"`
	Role     UserRole `json:"role" gorm:"not null;size:32;index"`

	// Version is bumped by every enrollment-side mutation of this user. It is
	// the compare-and-set guard that serializes concurrent enrolls for the
	// same student, store-level, so it works across processes.
	Version int `json:"-" gorm:"not null;default:1"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Enrollments []Enrollment `json:"-" gorm:"foreignKey:StudentID"`
}

func (User) TableName() string {
	return "users"
}
