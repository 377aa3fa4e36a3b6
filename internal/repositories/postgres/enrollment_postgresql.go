package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shoubhik18/lms-admin-service/internal/cache"
	"github.com/shoubhik18/lms-admin-service/internal/models"
	"github.com/shoubhik18/lms-admin-service/internal/repositories"
)

type EnrollmentPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewEnrollmentPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

// ReplaceForBatch implements replace-set semantics: wipe the batch's bridge
// rows, then bulk-insert the new membership. Both statements run on the
// caller's connection, so inside WithTransaction they are atomic.
func (e *EnrollmentPostgreSQL) ReplaceForBatch(ctx context.Context, batchID uint, studentIDs []uint) error {
	if err := e.db.WithContext(ctx).Where("batch_id = ?", batchID).Delete(&models.BatchStudent{}).Error; err != nil {
		return fmt.Errorf("failed to clear batch enrollment: %w", err)
	}

	if len(studentIDs) > 0 {
		rows := make([]models.BatchStudent, 0, len(studentIDs))
		for _, studentID := range studentIDs {
			rows = append(rows, models.BatchStudent{
				BatchID:   batchID,
				StudentID: studentID,
			})
		}

		if err := e.db.WithContext(ctx).Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert batch enrollment: %w", err)
		}
	}

	cache.InvalidateBatchCache(ctx, e.cacheManager, batchID)
	cache.InvalidateEnrollmentCache(ctx, e.cacheManager)
	return nil
}

func (e *EnrollmentPostgreSQL) ReplaceForStudent(ctx context.Context, studentID uint, batchIDs []uint) error {
	if err := e.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&models.BatchStudent{}).Error; err != nil {
		return fmt.Errorf("failed to clear student enrollment: %w", err)
	}

	if len(batchIDs) > 0 {
		rows := make([]models.BatchStudent, 0, len(batchIDs))
		for _, batchID := range batchIDs {
			rows = append(rows, models.BatchStudent{
				BatchID:   batchID,
				StudentID: studentID,
			})
		}

		if err := e.db.WithContext(ctx).Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert student enrollment: %w", err)
		}
	}

	cache.InvalidateEnrollmentCache(ctx, e.cacheManager)
	return nil
}

func (e *EnrollmentPostgreSQL) GetStudentIDs(ctx context.Context, batchID uint) ([]uint, error) {
	var ids []uint
	err := e.db.WithContext(ctx).
		Model(&models.BatchStudent{}).
		Where("batch_id = ?", batchID).
		Order("student_id ASC").
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get enrolled student ids: %w", err)
	}
	return ids, nil
}

func (e *EnrollmentPostgreSQL) GetBatchesByStudent(ctx context.Context, studentID uint) ([]*models.Batch, error) {
	var batches []*models.Batch
	err := e.db.WithContext(ctx).
		Joins("JOIN batch_students ON batch_students.batch_id = batches.id").
		Where("batch_students.student_id = ?", studentID).
		Preload("Trainer").
		Preload("Course").
		Find(&batches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get batches for student: %w", err)
	}
	return batches, nil
}

func (e *EnrollmentPostgreSQL) DeleteByStudent(ctx context.Context, studentID uint) error {
	err := e.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&models.BatchStudent{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete enrollment for student: %w", err)
	}

	cache.InvalidateEnrollmentCache(ctx, e.cacheManager)
	return nil
}

func (e *EnrollmentPostgreSQL) DeleteByBatch(ctx context.Context, batchID uint) error {
	err := e.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Delete(&models.BatchStudent{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete enrollment for batch: %w", err)
	}

	cache.InvalidateBatchCache(ctx, e.cacheManager, batchID)
	cache.InvalidateEnrollmentCache(ctx, e.cacheManager)
	return nil
}
