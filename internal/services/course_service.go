package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/events"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/models"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/repositories"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewCourseService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) CourseService {
	return &courseService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

// Create registers a new course owned by the requesting teacher
func (s *courseService) Create(ctx context.Context, teacherID uint, req *validator.CourseCreateRequest) (*CourseResponse, error) {
	if errs := s.validator.ValidateCourseCreate(req); errs.HasErrors() {
		return nil, newValidationError(errs)
	}

	teacher, err := s.repo.User().GetByID(ctx, teacherID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	if teacher.Role != models.RoleTeacher {
		return nil, ErrInvalidRole
	}

	course := &models.Course{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		TeacherID:   teacherID,
	}

	if err := s.repo.Course().Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info("Course created", "course_id", course.ID, "teacher_id", teacherID)

	return NewCourseResponse(course, nil), nil
}

func (s *courseService) GetByID(ctx context.Context, id uint) (*CourseResponse, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	students, err := s.repo.Enrollment().ListStudents(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list course students: %w", err)
	}

	return NewCourseResponse(course, students), nil
}

func (s *courseService) List(ctx context.Context, limit, skip int) ([]*CourseResponse, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}

	courses, total, err := s.repo.Course().List(ctx, repositories.CourseFilters{
		Limit:  limit,
		Offset: skip,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}

	responses := make([]*CourseResponse, 0, len(courses))
	for _, course := range courses {
		students, err := s.repo.Enrollment().ListStudents(ctx, course.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list course students: %w", err)
		}
		responses = append(responses, NewCourseResponse(course, students))
	}

	return responses, total, nil
}

// Update modifies name and description. Only the owning teacher may update;
// ownership never transfers.
func (s *courseService) Update(ctx context.Context, courseID, requesterID uint, req *validator.CourseUpdateRequest) (*CourseResponse, error) {
	if errs := s.validator.ValidateCourseUpdate(req); errs.HasErrors() {
		return nil, newValidationError(errs)
	}

	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if course.TeacherID != requesterID {
		return nil, ErrForbidden
	}

	if req.Name != nil {
		course.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		course.Description = req.Description
	}

	if err := s.repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.logger.Info("Course updated", "course_id", courseID, "teacher_id", requesterID)

	students, err := s.repo.Enrollment().ListStudents(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list course students: %w", err)
	}

	return NewCourseResponse(course, students), nil
}

// Delete removes a course and all of its enrollments in one transaction,
// so no student is left referencing a dead course.
func (s *courseService) Delete(ctx context.Context, courseID, requesterID uint) error {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to get course: %w", err)
	}

	if course.TeacherID != requesterID {
		return ErrForbidden
	}

	var removedEnrollments int64
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		count, err := tx.Enrollment().CountByCourse(ctx, courseID)
		if err != nil {
			return fmt.Errorf("failed to count enrollments: %w", err)
		}
		removedEnrollments = count

		if err := tx.Enrollment().RemoveByCourse(ctx, courseID); err != nil {
			return fmt.Errorf("failed to remove enrollments: %w", err)
		}

		if err := tx.Course().Delete(ctx, courseID); err != nil {
			return fmt.Errorf("failed to delete course: %w", err)
		}

		payload, err := json.Marshal(map[string]interface{}{
			"course_id":           courseID,
			"removed_enrollments": removedEnrollments,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal audit payload: %w", err)
		}

		return tx.Audit().Record(ctx, &models.AuditEntry{
			Action:  "course.deleted",
			ActorID: requesterID,
			Payload: datatypes.JSON(payload),
		})
	})
	if err != nil {
		return err
	}

	s.logger.Info("Course deleted",
		"course_id", courseID,
		"teacher_id", requesterID,
		"removed_enrollments", removedEnrollments)

	if err := s.publisher.Publish(ctx, events.EventCourseDeleted, events.CourseDeletedEvent{
		CourseID:           courseID,
		TeacherID:          requesterID,
		RemovedEnrollments: int(removedEnrollments),
	}); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event",
			"event_type", events.EventCourseDeleted,
			"error", err)
	}

	return nil
}
