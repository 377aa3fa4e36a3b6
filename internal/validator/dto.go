package validator

import (
	"time"

	"github.com/shoubhik18/lms-admin-service/internal/models"
)

// UserCreateRequest represents the request structure for creating users.
// The profile fields past Category are category-specific; which ones are
// required is enforced by the business validator, not struct tags.
type UserCreateRequest struct {
	Name     string              `json:"name" validate:"required,min=1,max=100"`
	Email    string              `json:"email" validate:"required,email,max=255"`
	Password *string             `json:"password" validate:"omitempty,min=6,max=72"`
	Mobile   string              `json:"mobile" validate:"required,min=7,max=20"`
	Category models.UserCategory `json:"category" validate:"required,user_category"`

	Role         *string              `json:"role"`
	CourseID     *uint                `json:"course_id"`
	LearningMode *models.LearningMode `json:"learning_mode" validate:"omitempty,learning_mode"`
	FeeDetail    *string              `json:"fee_detail" validate:"omitempty,max=255"`
	PaymentMode  *string              `json:"payment_mode" validate:"omitempty,max=100"`
}

// ProfileData builds the category-specific profile variant from the flat
// request fields. Only valid after ValidateUserCreate has passed.
func (r *UserCreateRequest) ProfileData() models.ProfileData {
	switch r.Category {
	case models.CategoryAdmin:
		return models.AdminProfileData{Role: models.AdminRole(*r.Role)}
	case models.CategoryTrainer:
		return models.TrainerProfileData{Role: models.TrainerRole(*r.Role)}
	case models.CategoryStudent:
		data := models.StudentProfileData{
			CourseID:     *r.CourseID,
			LearningMode: *r.LearningMode,
		}
		if r.FeeDetail != nil {
			data.FeeDetail = *r.FeeDetail
		}
		if r.PaymentMode != nil {
			data.PaymentMode = *r.PaymentMode
		}
		return data
	}
	return nil
}

// UserUpdateRequest represents the request structure for updating users.
// Category is accepted only so a mismatch can be rejected explicitly.
type UserUpdateRequest struct {
	Name     *string              `json:"name" validate:"omitempty,min=1,max=100"`
	Email    *string              `json:"email" validate:"omitempty,email,max=255"`
	Password *string              `json:"password" validate:"omitempty,min=6,max=72"`
	Mobile   *string              `json:"mobile" validate:"omitempty,min=7,max=20"`
	Category *models.UserCategory `json:"category" validate:"omitempty,user_category"`

	Role         *string              `json:"role"`
	CourseID     *uint                `json:"course_id"`
	LearningMode *models.LearningMode `json:"learning_mode" validate:"omitempty,learning_mode"`
	FeeDetail    *string              `json:"fee_detail" validate:"omitempty,max=255"`
	PaymentMode  *string              `json:"payment_mode" validate:"omitempty,max=100"`
}

// IsEmpty reports whether the request carries no field changes. Category
// does not count; it is accepted only so a mismatch can be rejected.
func (r *UserUpdateRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Password == nil && r.Mobile == nil &&
		r.Role == nil && r.CourseID == nil && r.LearningMode == nil &&
		r.FeeDetail == nil && r.PaymentMode == nil
}

// CourseCreateRequest represents the request structure for creating courses.
type CourseCreateRequest struct {
	CourseName       string                  `json:"course_name" validate:"required,min=1,max=255"`
	TrainerID        uint                    `json:"trainer_id" validate:"required"`
	TotalPrice       float64                 `json:"total_price" validate:"gte=0"`
	DiscountPrice    *float64                `json:"discount_price" validate:"omitempty,gte=0"`
	CourseCover      *string                 `json:"course_cover"`
	AvailabilityType models.AvailabilityType `json:"availability_type" validate:"required,availability_type"`
	AvailableFrom    *time.Time              `json:"available_from"`
	AvailableTo      *time.Time              `json:"available_to"`
	ContentItem      *models.ContentItem     `json:"content_item"`
}

// CourseUpdateRequest represents the request structure for updating courses.
type CourseUpdateRequest struct {
	CourseName       *string                  `json:"course_name" validate:"omitempty,min=1,max=255"`
	TrainerID        *uint                    `json:"trainer_id"`
	TotalPrice       *float64                 `json:"total_price" validate:"omitempty,gte=0"`
	DiscountPrice    *float64                 `json:"discount_price" validate:"omitempty,gte=0"`
	CourseCover      *string                  `json:"course_cover"`
	AvailabilityType *models.AvailabilityType `json:"availability_type" validate:"omitempty,availability_type"`
	AvailableFrom    *time.Time               `json:"available_from"`
	AvailableTo      *time.Time               `json:"available_to"`
	ContentItem      *models.ContentItem      `json:"content_item"`
}

// BatchCreateRequest represents the request structure for creating batches.
// StudentIDs, when present, becomes the batch's initial enrollment.
type BatchCreateRequest struct {
	TrainerID      uint       `json:"trainer_id" validate:"required"`
	CourseID       uint       `json:"course_id" validate:"required"`
	ProfileImage   *string    `json:"profile_image"`
	StudyMaterial  *string    `json:"study_material"`
	BatchTimings   *string    `json:"batch_timings" validate:"omitempty,max=255"`
	BatchStartDate time.Time `json:"batch_start_date" validate:"required"`
	BatchEndDate   time.Time `json:"batch_end_date" validate:"required"`
	StudentIDs     []uint    `json:"student_ids"`
}

// BatchUpdateRequest represents the request structure for updating batches.
// A nil StudentIDs leaves enrollment untouched; a non-nil slice, empty
// included, replaces the whole enrollment set.
type BatchUpdateRequest struct {
	TrainerID      *uint      `json:"trainer_id"`
	CourseID       *uint      `json:"course_id"`
	ProfileImage   *string    `json:"profile_image"`
	StudyMaterial  *string    `json:"study_material"`
	BatchTimings   *string    `json:"batch_timings" validate:"omitempty,max=255"`
	BatchStartDate *time.Time `json:"batch_start_date"`
	BatchEndDate   *time.Time `json:"batch_end_date"`
	StudentIDs     *[]uint    `json:"student_ids"`
}

// SessionRequest represents a session nested under a chapter. ID is set
// only on update, to address an existing session.
type SessionRequest struct {
	ID          *uint  `json:"id"`
	SessionName string `json:"session_name" validate:"required,min=1,max=255"`
	SessionLink string `json:"session_link" validate:"required,max=500"`
}

// ChapterCreateRequest represents the request structure for creating a
// chapter together with its sessions.
type ChapterCreateRequest struct {
	ChapterName string           `json:"chapter_name" validate:"required,min=1,max=255"`
	CourseID    uint             `json:"course_id" validate:"required"`
	Sessions    []SessionRequest `json:"sessions" validate:"omitempty,dive"`
}

// ChapterUpdateRequest represents the request structure for updating a
// chapter. Sessions without an ID are created, the rest updated.
type ChapterUpdateRequest struct {
	ChapterName *string          `json:"chapter_name" validate:"omitempty,min=1,max=255"`
	Sessions    []SessionRequest `json:"sessions" validate:"omitempty,dive"`
}

// EnrollmentRequest represents the replace-set enrollment request for a
// batch. An empty list clears the batch.
type EnrollmentRequest struct {
	StudentIDs []uint `json:"student_ids"`
}
