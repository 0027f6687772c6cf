package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/events"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/models"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/repositories"
)

// MaxCoursesPerStudent is the hard enrollment cap per student
const MaxCoursesPerStudent = 3

type enrollmentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	publisher events.EventPublisher
}

func NewEnrollmentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, publisher events.EventPublisher) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		publisher: publisher,
	}
}

// Enroll adds a student to a course. Students enroll themselves only.
//
// All checks and both writes happen in one transaction. Two guards make the
// capacity and uniqueness invariants hold under concurrency:
//   - the unique (course_id, student_id) index rejects a racing duplicate
//   - the compare-and-set on the student's version column forces two racing
//     enrolls for the same student to serialize; the loser re-runs into the
//     capacity check result the winner produced
func (s *enrollmentService) Enroll(ctx context.Context, courseID, studentID, requesterID uint) (*CourseResponse, error) {
	s.logger.Info("Enrolling student", "course_id", courseID, "student_id", studentID, "requester_id", requesterID)

	if requesterID != studentID {
		return nil, ErrForbidden
	}

	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		// Re-check the course from the database: the lookup above may have
		// been served from cache while a concurrent delete committed, and an
		// enrollment row must never outlive its course.
		if _, err := tx.Course().GetByID(ctx, courseID); err != nil {
			if repositories.IsNotFound(err) {
				return ErrCourseNotFound
			}
			return fmt.Errorf("failed to get course: %w", err)
		}

		// Read inside the transaction so the version is current
		student, err := tx.User().GetWithCredentials(ctx, studentID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return ErrInvalidRole
			}
			return fmt.Errorf("failed to get student: %w", err)
		}
		if student.Role != models.RoleStudent {
			return ErrInvalidRole
		}

		enrolled, err := tx.Enrollment().Exists(ctx, courseID, studentID)
		if err != nil {
			return fmt.Errorf("failed to check enrollment: %w", err)
		}
		if enrolled {
			return ErrAlreadyEnrolled
		}

		count, err := tx.Enrollment().CountByStudent(ctx, studentID)
		if err != nil {
			return fmt.Errorf("failed to count enrollments: %w", err)
		}
		if count >= MaxCoursesPerStudent {
			return ErrCapacityExceeded
		}

		// Serialize against concurrent enrolls of the same student. A
		// loser aborts here and the whole transaction rolls back.
		if err := tx.User().BumpVersion(ctx, studentID, student.Version); err != nil {
			if repositories.IsStaleVersion(err) {
				return ErrConcurrentUpdate
			}
			return fmt.Errorf("failed to bump user version: %w", err)
		}

		if err := tx.Enrollment().Add(ctx, courseID, studentID); err != nil {
			if repositories.IsDuplicateKey(err) {
				return ErrAlreadyEnrolled
			}
			return fmt.Errorf("failed to add enrollment: %w", err)
		}

		return s.recordAudit(ctx, tx, "enrollment.created", requesterID, map[string]uint{
			"course_id":  courseID,
			"student_id": studentID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.EventEnrollmentCreated, events.EnrollmentEvent{
		CourseID:  courseID,
		StudentID: studentID,
	})

	return s.courseWithStudents(ctx, course)
}

// Unenroll removes a student from a course. Removal of an absent pair is
// not an error; the store delete is idempotent.
func (s *enrollmentService) Unenroll(ctx context.Context, courseID, studentID, requesterID uint) (*CourseResponse, error) {
	s.logger.Info("Unenrolling student", "course_id", courseID, "student_id", studentID, "requester_id", requesterID)

	if requesterID != studentID {
		return nil, ErrForbidden
	}

	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	var removed bool
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		enrolled, err := tx.Enrollment().Exists(ctx, courseID, studentID)
		if err != nil {
			return fmt.Errorf("failed to check enrollment: %w", err)
		}
		if !enrolled {
			return nil
		}
		removed = true

		student, err := tx.User().GetWithCredentials(ctx, studentID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to get student: %w", err)
		}

		if err := tx.User().BumpVersion(ctx, studentID, student.Version); err != nil {
			if repositories.IsStaleVersion(err) {
				return ErrConcurrentUpdate
			}
			return fmt.Errorf("failed to bump user version: %w", err)
		}

		if err := tx.Enrollment().Remove(ctx, courseID, studentID); err != nil {
			return fmt.Errorf("failed to remove enrollment: %w", err)
		}

		return s.recordAudit(ctx, tx, "enrollment.removed", requesterID, map[string]uint{
			"course_id":  courseID,
			"student_id": studentID,
		})
	})
	if err != nil {
		return nil, err
	}

	if removed {
		s.publishEvent(ctx, events.EventEnrollmentRemoved, events.EnrollmentEvent{
			CourseID:  courseID,
			StudentID: studentID,
		})
	}

	return s.courseWithStudents(ctx, course)
}

// CoursesByStudent lists the courses a student is enrolled in
func (s *enrollmentService) CoursesByStudent(ctx context.Context, studentID uint) ([]*CourseResponse, error) {
	if _, err := s.repo.User().GetByID(ctx, studentID); err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	courses, err := s.repo.Enrollment().ListCourses(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	responses := make([]*CourseResponse, 0, len(courses))
	for _, course := range courses {
		resp, err := s.courseWithStudents(ctx, course)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

func (s *enrollmentService) courseWithStudents(ctx context.Context, course *models.Course) (*CourseResponse, error) {
	students, err := s.repo.Enrollment().ListStudents(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list course students: %w", err)
	}
	return NewCourseResponse(course, students), nil
}

func (s *enrollmentService) recordAudit(ctx context.Context, tx repositories.Repository, action string, actorID uint, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal audit payload: %w", err)
	}

	entry := &models.AuditEntry{
		Action:  action,
		ActorID: actorID,
		Payload: datatypes.JSON(data),
	}
	if err := tx.Audit().Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// publishEvent emits a domain event after commit. Failures are logged and
// never fail the operation that triggered them.
func (s *enrollmentService) publishEvent(ctx context.Context, eventType string, data interface{}) {
	if err := s.publisher.Publish(ctx, eventType, data); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event",
			"event_type", eventType,
			"error", err)
	}
}
