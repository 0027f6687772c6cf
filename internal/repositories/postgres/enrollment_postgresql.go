package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/cache"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/models"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/repositories"
)

// EnrollmentPostgreSQL implements repositories.EnrollmentRepository over the
// single join table both relation sides are derived from.
type EnrollmentPostgreSQL struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewEnrollmentPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db, cache: cacheManager}
}

// Add inserts the pair row. The unique (course_id, student_id) index turns a
// concurrent duplicate into ErrDuplicateKey rather than a second row.
func (r *EnrollmentPostgreSQL) Add(ctx context.Context, courseID, studentID uint) error {
	enrollment := models.Enrollment{
		CourseID:  courseID,
		StudentID: studentID,
	}
	if err := r.db.WithContext(ctx).Create(&enrollment).Error; err != nil {
		return translateError(err)
	}

	cache.InvalidateCourseCache(ctx, r.cache, courseID)
	cache.InvalidateUserCache(ctx, r.cache, studentID)
	return nil
}

// Remove deletes the pair row if present. Removing an absent pair is not an
// error.
func (r *EnrollmentPostgreSQL) Remove(ctx context.Context, courseID, studentID uint) error {
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Delete(&models.Enrollment{}).Error
	if err != nil {
		return translateError(err)
	}

	cache.InvalidateCourseCache(ctx, r.cache, courseID)
	cache.InvalidateUserCache(ctx, r.cache, studentID)
	return nil
}

func (r *EnrollmentPostgreSQL) Exists(ctx context.Context, courseID, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

func (r *EnrollmentPostgreSQL) CountByStudent(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (r *EnrollmentPostgreSQL) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (r *EnrollmentPostgreSQL) ListStudents(ctx context.Context, courseID uint) ([]*models.User, error) {
	var students []*models.User
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN enrollments ON enrollments.student_id = users.id").
		Where("enrollments.course_id = ?", courseID).
		Order("users.id").
		Find(&students).Error
	if err != nil {
		return nil, translateError(err)
	}
	return students, nil
}

func (r *EnrollmentPostgreSQL) ListCourses(ctx context.Context, studentID uint) ([]*models.Course, error) {
	var courses []*models.Course
	err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.student_id = ?", studentID).
		Order("courses.id").
		Preload("Teacher").
		Find(&courses).Error
	if err != nil {
		return nil, translateError(err)
	}
	return courses, nil
}

// RemoveByCourse deletes every enrollment of a course. Used by course delete
// inside the cascade transaction.
func (r *EnrollmentPostgreSQL) RemoveByCourse(ctx context.Context, courseID uint) error {
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&models.Enrollment{}).Error
	if err != nil {
		return translateError(err)
	}

	cache.InvalidateCourseCache(ctx, r.cache, courseID)
	return nil
}

// RemoveByStudent deletes every enrollment of a student. Used by user delete.
func (r *EnrollmentPostgreSQL) RemoveByStudent(ctx context.Context, studentID uint) error {
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&models.Enrollment{}).Error
	if err != nil {
		return translateError(err)
	}

	cache.InvalidateUserCache(ctx, r.cache, studentID)
	return nil
}
