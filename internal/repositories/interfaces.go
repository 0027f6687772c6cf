package repositories

import (
	"context"

	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role      *models.UserRole `json:"role"`
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
	SortBy    string           `json:"sort_by"`    // "created_at", "username", "name"
	SortOrder string           `json:"sort_order"` // "asc", "desc"
}

type CourseFilters struct {
	TeacherID *uint  `json:"teacher_id"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

// ===== REPOSITORY INTERFACES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)

	// GetWithCredentials bypasses the cache so the password hash and the
	// version column are populated. The cached projection drops both.
	GetWithCredentials(ctx context.Context, id uint) (*models.User, error)
	GetByEmailOrUsername(ctx context.Context, identifier string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	// Update persists mutable profile fields only; password and role are
	// out of its reach.
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	Delete(ctx context.Context, id uint) error

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// BumpVersion is the compare-and-set write: it succeeds only if the
	// stored version still equals expected, otherwise ErrStaleVersion.
	BumpVersion(ctx context.Context, id uint, expected int) error
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error
}

type EnrollmentRepository interface {
	Add(ctx context.Context, courseID, studentID uint) error
	Remove(ctx context.Context, courseID, studentID uint) error
	Exists(ctx context.Context, courseID, studentID uint) (bool, error)
	CountByStudent(ctx context.Context, studentID uint) (int64, error)
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
	ListStudents(ctx context.Context, courseID uint) ([]*models.User, error)
	ListCourses(ctx context.Context, studentID uint) ([]*models.Course, error)
	RemoveByCourse(ctx context.Context, courseID uint) error
	RemoveByStudent(ctx context.Context, studentID uint) error
}

type AuditRepository interface {
	Record(ctx context.Context, entry *models.AuditEntry) error
	ListByActor(ctx context.Context, actorID uint, limit int) ([]*models.AuditEntry, error)
}
