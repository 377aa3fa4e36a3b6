package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shoubhik18/lms-admin-service/internal/models"
	"github.com/shoubhik18/lms-admin-service/internal/repositories"
)

type ProfilePostgreSQL struct {
	db *gorm.DB
}

func NewProfilePostgreSQL(db *gorm.DB) repositories.ProfileRepository {
	return &ProfilePostgreSQL{db: db}
}

func (p *ProfilePostgreSQL) CreateAdmin(ctx context.Context, profile *models.AdminProfile) error {
	if err := p.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create admin profile: %w", err)
	}
	return nil
}

func (p *ProfilePostgreSQL) CreateTrainer(ctx context.Context, profile *models.TrainerProfile) error {
	if err := p.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create trainer profile: %w", err)
	}
	return nil
}

func (p *ProfilePostgreSQL) CreateStudent(ctx context.Context, profile *models.StudentProfile) error {
	if err := p.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create student profile: %w", err)
	}
	return nil
}

func (p *ProfilePostgreSQL) GetAdminByUser(ctx context.Context, userID uint) (*models.AdminProfile, error) {
	var profile models.AdminProfile
	if err := p.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *ProfilePostgreSQL) GetTrainerByUser(ctx context.Context, userID uint) (*models.TrainerProfile, error) {
	var profile models.TrainerProfile
	if err := p.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *ProfilePostgreSQL) GetStudentByUser(ctx context.Context, userID uint) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := p.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *ProfilePostgreSQL) UpdateAdmin(ctx context.Context, profile *models.AdminProfile) error {
	err := p.db.WithContext(ctx).
		Model(&models.AdminProfile{}).
		Where("user_id = ?", profile.UserID).
		Update("role", profile.Role).Error
	if err != nil {
		return fmt.Errorf("failed to update admin profile: %w", err)
	}
	return nil
}

func (p *ProfilePostgreSQL) UpdateTrainer(ctx context.Context, profile *models.TrainerProfile) error {
	err := p.db.WithContext(ctx).
		Model(&models.TrainerProfile{}).
		Where("user_id = ?", profile.UserID).
		Update("role", profile.Role).Error
	if err != nil {
		return fmt.Errorf("failed to update trainer profile: %w", err)
	}
	return nil
}

func (p *ProfilePostgreSQL) UpdateStudent(ctx context.Context, profile *models.StudentProfile) error {
	err := p.db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("user_id = ?", profile.UserID).
		Updates(map[string]interface{}{
			"course_id":     profile.CourseID,
			"learning_mode": profile.LearningMode,
			"fee_detail":    profile.FeeDetail,
			"payment_mode":  profile.PaymentMode,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update student profile: %w", err)
	}
	return nil
}

func (p *ProfilePostgreSQL) DeleteByUser(ctx context.Context, userID uint, category models.UserCategory) error {
	var err error
	switch category {
	case models.CategoryAdmin:
		err = p.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AdminProfile{}).Error
	case models.CategoryTrainer:
		err = p.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.TrainerProfile{}).Error
	case models.CategoryStudent:
		err = p.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.StudentProfile{}).Error
	default:
		return fmt.Errorf("unknown user category %q", category)
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s profile: %w", category, err)
	}
	return nil
}

func (p *ProfilePostgreSQL) CountStudentsByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count student profiles for course: %w", err)
	}
	return count, nil
}
