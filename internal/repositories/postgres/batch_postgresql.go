package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shoubhik18/lms-admin-service/internal/cache"
	"github.com/shoubhik18/lms-admin-service/internal/models"
	"github.com/shoubhik18/lms-admin-service/internal/repositories"
)

type BatchPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewBatchPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.BatchRepository {
	return &BatchPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (b *BatchPostgreSQL) Create(ctx context.Context, batch *models.Batch) error {
	if err := b.db.WithContext(ctx).Create(batch).Error; err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, b.cacheManager.Batch, "list:*")

	return nil
}

func (b *BatchPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Batch, error) {
	var batch models.Batch
	if err := b.db.WithContext(ctx).First(&batch, id).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

func (b *BatchPostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.Batch, error) {
	cacheKey := fmt.Sprintf("details:%d", id)
	var batch models.Batch

	err := b.cacheManager.Batch.CacheOrExecute(ctx, cacheKey, &batch, cache.BatchCacheConfig.TTL, func() (interface{}, error) {
		var dbBatch models.Batch
		err := b.db.WithContext(ctx).
			Preload("Trainer").
			Preload("Trainer.TrainerProfile").
			Preload("Course").
			Preload("EnrolledStudents").
			First(&dbBatch, id).Error
		if err != nil {
			return nil, err
		}
		return &dbBatch, nil
	})
	if err != nil {
		return nil, err
	}

	return &batch, nil
}

func (b *BatchPostgreSQL) List(ctx context.Context, filters repositories.BatchFilters) ([]*models.Batch, int64, error) {
	var batches []*models.Batch
	var total int64

	query := applyBatchFilters(b.db.WithContext(ctx).Model(&models.Batch{}), filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count batches: %w", err)
	}

	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	query = query.
		Preload("Trainer").
		Preload("Trainer.TrainerProfile").
		Preload("Course").
		Preload("EnrolledStudents")

	if err := query.Find(&batches).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list batches: %w", err)
	}

	return batches, total, nil
}

func (b *BatchPostgreSQL) Update(ctx context.Context, batch *models.Batch) error {
	result := b.db.WithContext(ctx).Model(&models.Batch{}).Where("id = ?", batch.ID).Updates(map[string]interface{}{
		"trainer_id":       batch.TrainerID,
		"course_id":        batch.CourseID,
		"profile_image":    batch.ProfileImage,
		"study_material":   batch.StudyMaterial,
		"batch_start_date": batch.BatchStartDate,
		"batch_end_date":   batch.BatchEndDate,
		"batch_timings":    batch.BatchTimings,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update batch: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	cache.InvalidateBatchCache(ctx, b.cacheManager, batch.ID)
	return nil
}

func (b *BatchPostgreSQL) Delete(ctx context.Context, id uint) (bool, error) {
	result := b.db.WithContext(ctx).Delete(&models.Batch{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete batch: %w", result.Error)
	}

	cache.InvalidateBatchCache(ctx, b.cacheManager, id)
	return result.RowsAffected > 0, nil
}

// Exists is a consistency check and always hits the database.
func (b *BatchPostgreSQL) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := b.db.WithContext(ctx).
		Model(&models.Batch{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check batch existence: %w", err)
	}
	return count > 0, nil
}
