package services

import (
	"context"
	"time"

	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/models"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/validator"
)

// ===== RESPONSE DTOs =====

// UserResponse is the public projection of a user. The password hash never
// crosses this boundary.
type UserResponse struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Surname   string          `json:"surname"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Surname:   user.Surname,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// CourseResponse is the public projection of a course including its
// resolved student list
type CourseResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	TeacherID   uint            `json:"teacher_id"`
	Teacher     *UserResponse   `json:"teacher,omitempty"`
	Students    []*UserResponse `json:"students"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewCourseResponse(course *models.Course, students []*models.User) *CourseResponse {
	resp := &CourseResponse{
		ID:          course.ID,
		Name:        course.Name,
		Description: course.Description,
		TeacherID:   course.TeacherID,
		Students:    make([]*UserResponse, 0, len(students)),
		CreatedAt:   course.CreatedAt,
		UpdatedAt:   course.UpdatedAt,
	}
	if course.Teacher != nil {
		resp.Teacher = NewUserResponse(course.Teacher)
	}
	for _, s := range students {
		resp.Students = append(resp.Students, NewUserResponse(s))
	}
	return resp
}

// LoginResult bundles the issued token with the authenticated user
type LoginResult struct {
	User  *UserResponse `json:"user"`
	Token string        `json:"token"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *validator.RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, req *validator.LoginRequest) (*LoginResult, error)
	ChangePassword(ctx context.Context, userID uint, req *validator.PasswordChangeRequest) error
}

type UserService interface {
	List(ctx context.Context, limit, skip int) ([]*UserResponse, int64, error)
	GetByID(ctx context.Context, id uint) (*UserResponse, error)
	Update(ctx context.Context, id, requesterID uint, req *validator.UserUpdateRequest) (*UserResponse, error)
	Delete(ctx context.Context, id, requesterID uint) error
}

type CourseService interface {
	Create(ctx context.Context, teacherID uint, req *validator.CourseCreateRequest) (*CourseResponse, error)
	GetByID(ctx context.Context, id uint) (*CourseResponse, error)
	List(ctx context.Context, limit, skip int) ([]*CourseResponse, int64, error)
	Update(ctx context.Context, courseID, requesterID uint, req *validator.CourseUpdateRequest) (*CourseResponse, error)
	Delete(ctx context.Context, courseID, requesterID uint) error
}

type EnrollmentService interface {
	Enroll(ctx context.Context, courseID, studentID, requesterID uint) (*CourseResponse, error)
	Unenroll(ctx context.Context, courseID, studentID, requesterID uint) (*CourseResponse, error)
	CoursesByStudent(ctx context.Context, studentID uint) ([]*CourseResponse, error)
}

type ReportService interface {
	// CourseRoster renders the enrolled-student roster as an xlsx workbook.
	// Only the owning teacher may export it.
	CourseRoster(ctx context.Context, courseID, requesterID uint) ([]byte, string, error)
}

// ServiceManager wires all services and manages their lifecycle
type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Course() CourseService
	Enrollment() EnrollmentService
	Report() ReportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
