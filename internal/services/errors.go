package services

import (
	"errors"

	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/validator"
)

// Sentinel errors returned by services. Handlers map these onto HTTP
// status codes via errors.Is.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrCourseNotFound = errors.New("course not found")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("operation not permitted")

	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")

	ErrInvalidRole      = errors.New("user role does not permit this operation")
	ErrAlreadyEnrolled  = errors.New("student already enrolled in course")
	ErrCapacityExceeded = errors.New("student course limit reached")

	ErrConcurrentUpdate = errors.New("concurrent update detected")

	ErrValidation = errors.New("validation failed")
)

// ValidationFailedError carries the per-field details of a failed request
type ValidationFailedError struct {
	Errors validator.ValidationErrors
}

func (e *ValidationFailedError) Error() string {
	return e.Errors.Error()
}

// Is lets errors.Is(err, ErrValidation) match without losing the details
func (e *ValidationFailedError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(errs validator.ValidationErrors) error {
	return &ValidationFailedError{Errors: errs}
}
