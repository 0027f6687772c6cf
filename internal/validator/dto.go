package validator

import "github.com/aoliva-2020376/GestorAcademico-2020376/internal/models"

// RegisterRequest represents the request structure for user registration
type RegisterRequest struct {
	Name     string          `json:"name" validate:"required,person_name,max=55"`
	Surname  string          `json:"surname" validate:"required,person_name,max=25"`
	Username string          `json:"username" validate:"required,username"`
	Email    string          `json:"email" validate:"required,email,max=255"`
	Password string          `json:"password" validate:"required,min=8,max=100"`
	Role     models.UserRole `json:"role" validate:"omitempty,user_role"`
}

// LoginRequest accepts either email or username as the identifier
type LoginRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Username string `json:"username" validate:"omitempty,username"`
	Password string `json:"password" validate:"required"`
}

// UserUpdateRequest represents a profile patch; password and role are
// changed through their own endpoints
type UserUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,person_name,max=55"`
	Surname  *string `json:"surname" validate:"omitempty,person_name,max=25"`
	Username *string `json:"username" validate:"omitempty,username"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
}

// PasswordChangeRequest represents the password rotation request
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=100"`
}

// CourseCreateRequest represents the request structure for creating courses
type CourseCreateRequest struct {
	Name        string  `json:"name" validate:"required,course_name"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// CourseUpdateRequest represents the request structure for updating courses
type CourseUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,course_name"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// ListQuery holds shared pagination query parameters
type ListQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
	Skip  int `form:"skip" validate:"omitempty,min=0"`
}
