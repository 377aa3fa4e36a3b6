package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shoubhik18/lms-admin-service/internal/cache"
	"github.com/shoubhik18/lms-admin-service/internal/models"
	"github.com/shoubhik18/lms-admin-service/internal/repositories"
)

type CoursePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (c *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if err := c.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Course, "list:*")

	return nil
}

func (c *CoursePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := c.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CoursePostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.Course, error) {
	cacheKey := fmt.Sprintf("details:%d", id)
	var course models.Course

	err := c.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbCourse models.Course
		err := c.db.WithContext(ctx).
			Preload("Trainer").
			Preload("Trainer.TrainerProfile").
			Preload("EnrolledStudents").
			Preload("EnrolledStudents.User").
			Preload("Chapters").
			Preload("Chapters.Sessions").
			First(&dbCourse, id).Error
		if err != nil {
			return nil, err
		}
		return &dbCourse, nil
	})
	if err != nil {
		return nil, err
	}

	return &course, nil
}

func (c *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var courses []*models.Course
	var total int64

	query := applyCourseFilters(c.db.WithContext(ctx).Model(&models.Course{}), filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	query = query.
		Preload("Trainer").
		Preload("Trainer.TrainerProfile").
		Preload("EnrolledStudents").
		Preload("EnrolledStudents.User")

	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}

	return courses, total, nil
}

func (c *CoursePostgreSQL) Update(ctx context.Context, course *models.Course) error {
	result := c.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", course.ID).Updates(map[string]interface{}{
		"course_name":       course.CourseName,
		"trainer_id":        course.TrainerID,
		"total_price":       course.TotalPrice,
		"discount_price":    course.DiscountPrice,
		"course_cover":      course.CourseCover,
		"availability_type": course.AvailabilityType,
		"available_from":    course.AvailableFrom,
		"available_to":      course.AvailableTo,
		"content_item":      course.ContentItem,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	cache.InvalidateCourseCache(ctx, c.cacheManager, course.ID)
	return nil
}

func (c *CoursePostgreSQL) Delete(ctx context.Context, id uint) (bool, error) {
	result := c.db.WithContext(ctx).Delete(&models.Course{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete course: %w", result.Error)
	}

	cache.InvalidateCourseCache(ctx, c.cacheManager, id)
	return result.RowsAffected > 0, nil
}

// Exists is a consistency check and always hits the database.
func (c *CoursePostgreSQL) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check course existence: %w", err)
	}
	return count > 0, nil
}

func (c *CoursePostgreSQL) CountBatches(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&models.Batch{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count batches for course: %w", err)
	}
	return count, nil
}

func (c *CoursePostgreSQL) GetEnrolledStudentIDs(ctx context.Context, courseID uint) ([]uint, error) {
	var ids []uint
	err := c.db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("course_id = ?", courseID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get enrolled student ids: %w", err)
	}
	return ids, nil
}
