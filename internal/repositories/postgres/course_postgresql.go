package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/cache"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/models"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/repositories"
)

// CoursePostgreSQL implements repositories.CourseRepository
type CoursePostgreSQL struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db, cache: cacheManager}
}

func (r *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return translateError(err)
	}

	cache.SafeInvalidatePattern(ctx, r.cache.Course, "list:*")
	return nil
}

func (r *CoursePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := r.cache.Course.CacheOrExecute(ctx, fmt.Sprintf("id:%d", id), &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var c models.Course
		err := r.db.WithContext(ctx).
			Preload("Teacher").
			First(&c, id).Error
		if err != nil {
			return nil, translateError(err)
		}
		return &c, nil
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})

	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var courses []*models.Course
	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	if err := query.Preload("Teacher").Find(&courses).Error; err != nil {
		return nil, 0, translateError(err)
	}

	return courses, total, nil
}

func (r *CoursePostgreSQL) Update(ctx context.Context, course *models.Course) error {
	result := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", course.ID).
		Updates(map[string]interface{}{
			"name":        course.Name,
			"description": course.Description,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}

	cache.InvalidateCourseCache(ctx, r.cache, course.ID)
	return nil
}

func (r *CoursePostgreSQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Course{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}

	cache.InvalidateCourseCache(ctx, r.cache, id)
	return nil
}
