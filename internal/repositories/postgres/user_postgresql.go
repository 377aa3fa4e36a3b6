package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shoubhik18/lms-admin-service/internal/cache"
	"github.com/shoubhik18/lms-admin-service/internal/models"
	"github.com/shoubhik18/lms-admin-service/internal/repositories"
)

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.UserRepository {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (u *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := u.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, u.cacheManager.User, "list:*")

	return nil
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDWithAssociations retrieves a user with the profile and batch/course
// associations relevant to its category. Cached: this is the hot read path
// behind every user response.
func (u *UserPostgreSQL) GetByIDWithAssociations(ctx context.Context, id uint) (*models.User, error) {
	cacheKey := fmt.Sprintf("details:%d", id)
	var user models.User

	err := u.cacheManager.User.CacheOrExecute(ctx, cacheKey, &user, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		var dbUser models.User
		if err := u.db.WithContext(ctx).First(&dbUser, id).Error; err != nil {
			return nil, err
		}

		query := u.db.WithContext(ctx)
		switch dbUser.Category {
		case models.CategoryAdmin:
			query = query.Preload("AdminProfile")
		case models.CategoryTrainer:
			query = query.Preload("TrainerProfile").
				Preload("Courses").
				Preload("TrainerBatches")
		case models.CategoryStudent:
			query = query.Preload("StudentProfile").
				Preload("StudentProfile.Course").
				Preload("Batches")
		}

		if err := query.First(&dbUser, id).Error; err != nil {
			return nil, err
		}
		return &dbUser, nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	query := applyUserFilters(u.db.WithContext(ctx).Model(&models.User{}), filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	query = query.
		Preload("AdminProfile").
		Preload("TrainerProfile").
		Preload("StudentProfile")

	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

func (u *UserPostgreSQL) Search(ctx context.Context, query string, filters repositories.UserFilters) ([]*models.User, int64, error) {
	filters.Query = query
	return u.List(ctx, filters)
}

func (u *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	result := u.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"name":     user.Name,
		"email":    user.Email,
		"password": user.Password,
		"mobile":   user.Mobile,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	cache.InvalidateUserCache(ctx, u.cacheManager, user.ID)
	return nil
}

func (u *UserPostgreSQL) Delete(ctx context.Context, id uint) (bool, error) {
	result := u.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete user: %w", result.Error)
	}

	cache.InvalidateUserCache(ctx, u.cacheManager, id)
	return result.RowsAffected > 0, nil
}

func (u *UserPostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

// HasCategory is a consistency check: it always hits the database, never
// the cache, because it guards cross-entity writes.
func (u *UserPostgreSQL) HasCategory(ctx context.Context, id uint, category models.UserCategory) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND category = ?", id, category).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check user category: %w", err)
	}
	return count > 0, nil
}

func (u *UserPostgreSQL) FilterByCategory(ctx context.Context, ids []uint, category models.UserCategory) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var matched []uint
	err := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id IN ? AND category = ?", ids, category).
		Pluck("id", &matched).Error
	if err != nil {
		return nil, fmt.Errorf("failed to filter users by category: %w", err)
	}
	return matched, nil
}
