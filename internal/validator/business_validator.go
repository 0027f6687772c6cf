package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/models"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9._]{1,15}$`)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateRegister validates registration business rules
func (bv *BusinessValidator) ValidateRegister(req *RegisterRequest) ValidationErrors {
	var errors ValidationErrors

	// Basic struct validation
	errors = append(errors, bv.Validate(req)...)

	if req.Role != "" && !req.Role.IsValid() {
		errors = append(errors, ValidationError{
			Field:   "role",
			Message: "must be STUDENT_ROLE or TEACHER_ROLE",
			Value:   req.Role,
			Rule:    "user_role",
		})
	}

	return errors
}

// ValidateLogin validates login business rules
func (bv *BusinessValidator) ValidateLogin(req *LoginRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	// One of the two identifiers must be present
	if req.Email == "" && req.Username == "" {
		errors = append(errors, ValidationError{
			Field:   "email",
			Message: "email or username is required",
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateCourseCreate validates course creation business rules
func (bv *BusinessValidator) ValidateCourseCreate(req *CourseCreateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateCourseUpdate validates course update business rules
func (bv *BusinessValidator) ValidateCourseUpdate(req *CourseUpdateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.Name == nil && req.Description == nil {
		errors = append(errors, ValidationError{
			Field:   "request",
			Message: "at least one field must be provided",
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateUserUpdate validates user profile patch business rules
func (bv *BusinessValidator) ValidateUserUpdate(req *UserUpdateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.Name == nil && req.Surname == nil && req.Username == nil && req.Email == nil {
		errors = append(errors, ValidationError{
			Field:   "request",
			Message: "at least one field must be provided",
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Username: lowercase, digits, dots, underscores, max 15 characters.
	// Mixed case is rejected here, the service normalizes before storage.
	bv.validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(strings.ToLower(fl.Field().String())) // length + charset
	})

	// Role must belong to the closed enum when present
	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).IsValid()
	})

	// Names must contain at least one non-space character
	bv.validate.RegisterValidation("person_name", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	// Course name validation (1-200 characters after trimming)
	bv.validate.RegisterValidation("course_name", func(fl validator.FieldLevel) bool {
		name := strings.TrimSpace(fl.Field().String())
		return len(name) >= 1 && len(name) <= 200
	})
}
