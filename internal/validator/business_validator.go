package validator

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shoubhik18/lms-admin-service/internal/models"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	// Report fields by their json names so struct-tag failures line up
	// with the hand-written business rule errors.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateUserCreate validates user creation business rules
func (bv *BusinessValidator) ValidateUserCreate(req *UserCreateRequest) ValidationErrors {
	var errors ValidationErrors

	// Basic struct validation
	errors = append(errors, bv.Validate(req)...)

	// Category-specific profile requirements
	errors = append(errors, bv.validateProfileFields(req)...)

	return errors
}

// ValidateUserUpdate validates user update business rules against the
// stored user. A category different from the stored one is rejected;
// profiles are provisioned once and never migrated.
func (bv *BusinessValidator) ValidateUserUpdate(req *UserUpdateRequest, existing *models.User) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.Category != nil && *req.Category != existing.Category {
		errors = append(errors, ValidationError{
			Field:   "category",
			Message: "cannot be changed after creation",
			Value:   *req.Category,
			Rule:    "category_immutable",
		})
	}

	if req.Role != nil {
		switch existing.Category {
		case models.CategoryAdmin:
			if !validAdminRole(*req.Role) {
				errors = append(errors, ValidationError{
					Field:   "role",
					Message: "must be SuperAdmin or SubAdmin",
					Value:   *req.Role,
					Rule:    "admin_role",
				})
			}
		case models.CategoryTrainer:
			if !validTrainerRole(*req.Role) {
				errors = append(errors, ValidationError{
					Field:   "role",
					Message: "must be SrTrainer or JrTrainer",
					Value:   *req.Role,
					Rule:    "trainer_role",
				})
			}
		default:
			errors = append(errors, ValidationError{
				Field:   "role",
				Message: "not applicable for this category",
				Value:   *req.Role,
				Rule:    "business_logic",
			})
		}
	}

	if existing.Category != models.CategoryStudent {
		if req.CourseID != nil || req.LearningMode != nil || req.FeeDetail != nil || req.PaymentMode != nil {
			errors = append(errors, ValidationError{
				Field:   "profile",
				Message: "student profile fields not applicable for this category",
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// ValidateCourseCreate validates course creation business rules
func (bv *BusinessValidator) ValidateCourseCreate(req *CourseCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, bv.validateAvailability(req.AvailabilityType, req.AvailableFrom, req.AvailableTo)...)
	errors = append(errors, bv.validatePricing(req.TotalPrice, req.DiscountPrice)...)

	if req.ContentItem != nil {
		errors = append(errors, bv.Validate(req.ContentItem)...)
	}

	return errors
}

// ValidateCourseUpdate validates course update business rules against the
// stored course, merging request values over existing ones so partial
// updates cannot sneak past the availability rule.
func (bv *BusinessValidator) ValidateCourseUpdate(req *CourseUpdateRequest, existing *models.Course) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	availability := existing.AvailabilityType
	if req.AvailabilityType != nil {
		availability = *req.AvailabilityType
	}
	from := existing.AvailableFrom
	if req.AvailableFrom != nil {
		from = req.AvailableFrom
	}
	to := existing.AvailableTo
	if req.AvailableTo != nil {
		to = req.AvailableTo
	}
	errors = append(errors, bv.validateAvailability(availability, from, to)...)

	total := existing.TotalPrice
	if req.TotalPrice != nil {
		total = *req.TotalPrice
	}
	discount := existing.DiscountPrice
	if req.DiscountPrice != nil {
		discount = req.DiscountPrice
	}
	errors = append(errors, bv.validatePricing(total, discount)...)

	if req.ContentItem != nil {
		errors = append(errors, bv.Validate(req.ContentItem)...)
	}

	return errors
}

// ValidateBatchCreate validates batch creation business rules
func (bv *BusinessValidator) ValidateBatchCreate(req *BatchCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if !req.BatchEndDate.After(req.BatchStartDate) {
		errors = append(errors, ValidationError{
			Field:   "batch_end_date",
			Message: "must be after batch_start_date",
			Value:   req.BatchEndDate,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateBatchUpdate validates batch update business rules against the
// stored batch.
func (bv *BusinessValidator) ValidateBatchUpdate(req *BatchUpdateRequest, existing *models.Batch) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	start := existing.BatchStartDate
	if req.BatchStartDate != nil {
		start = *req.BatchStartDate
	}
	end := existing.BatchEndDate
	if req.BatchEndDate != nil {
		end = *req.BatchEndDate
	}
	if !end.After(start) {
		errors = append(errors, ValidationError{
			Field:   "batch_end_date",
			Message: "must be after batch_start_date",
			Value:   end,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateChapterCreate validates chapter creation business rules
func (bv *BusinessValidator) ValidateChapterCreate(req *ChapterCreateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateChapterUpdate validates chapter update business rules
func (bv *BusinessValidator) ValidateChapterUpdate(req *ChapterUpdateRequest) ValidationErrors {
	return bv.Validate(req)
}

// validateProfileFields enforces the category-specific required fields on
// user creation.
func (bv *BusinessValidator) validateProfileFields(req *UserCreateRequest) ValidationErrors {
	var errors ValidationErrors

	switch req.Category {
	case models.CategoryAdmin:
		if req.Role == nil || strings.TrimSpace(*req.Role) == "" {
			errors = append(errors, ValidationError{
				Field:   "role",
				Message: "is required for Admin users",
				Rule:    "required",
			})
		} else if !validAdminRole(*req.Role) {
			errors = append(errors, ValidationError{
				Field:   "role",
				Message: "must be SuperAdmin or SubAdmin",
				Value:   *req.Role,
				Rule:    "admin_role",
			})
		}

	case models.CategoryTrainer:
		if req.Role == nil || strings.TrimSpace(*req.Role) == "" {
			errors = append(errors, ValidationError{
				Field:   "role",
				Message: "is required for Trainer users",
				Rule:    "required",
			})
		} else if !validTrainerRole(*req.Role) {
			errors = append(errors, ValidationError{
				Field:   "role",
				Message: "must be SrTrainer or JrTrainer",
				Value:   *req.Role,
				Rule:    "trainer_role",
			})
		}

	case models.CategoryStudent:
		if req.CourseID == nil || *req.CourseID == 0 {
			errors = append(errors, ValidationError{
				Field:   "course_id",
				Message: "is required for Student users",
				Rule:    "required",
			})
		}
		if req.LearningMode == nil {
			errors = append(errors, ValidationError{
				Field:   "learning_mode",
				Message: "is required for Student users",
				Rule:    "required",
			})
		}
		if req.FeeDetail == nil || strings.TrimSpace(*req.FeeDetail) == "" {
			errors = append(errors, ValidationError{
				Field:   "fee_detail",
				Message: "is required for Student users",
				Rule:    "required",
			})
		}
		if req.PaymentMode == nil || strings.TrimSpace(*req.PaymentMode) == "" {
			errors = append(errors, ValidationError{
				Field:   "payment_mode",
				Message: "is required for Student users",
				Rule:    "required",
			})
		}
	}

	return errors
}

// validateAvailability enforces that timebound courses carry both window
// dates in the right order, and always-available courses carry none.
func (bv *BusinessValidator) validateAvailability(availability models.AvailabilityType, from, to *time.Time) ValidationErrors {
	var errors ValidationErrors

	switch availability {
	case models.AvailabilityTimebound:
		if from == nil {
			errors = append(errors, ValidationError{
				Field:   "available_from",
				Message: "is required for timebound courses",
				Rule:    "required",
			})
		}
		if to == nil {
			errors = append(errors, ValidationError{
				Field:   "available_to",
				Message: "is required for timebound courses",
				Rule:    "required",
			})
		}
		if from != nil && to != nil && !to.After(*from) {
			errors = append(errors, ValidationError{
				Field:   "available_to",
				Message: "must be after available_from",
				Value:   to,
				Rule:    "business_logic",
			})
		}
	case models.AvailabilityAlways:
		if from != nil || to != nil {
			errors = append(errors, ValidationError{
				Field:   "availability_type",
				Message: "always-available courses cannot carry availability dates",
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

func (bv *BusinessValidator) validatePricing(total float64, discount *float64) ValidationErrors {
	var errors ValidationErrors

	if discount != nil && *discount > total {
		errors = append(errors, ValidationError{
			Field:   "discount_price",
			Message: "cannot exceed total_price",
			Value:   *discount,
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	bv.validate.RegisterValidation("user_category", func(fl validator.FieldLevel) bool {
		return models.UserCategory(fl.Field().String()).Valid()
	})

	bv.validate.RegisterValidation("admin_role", func(fl validator.FieldLevel) bool {
		return validAdminRole(fl.Field().String())
	})

	bv.validate.RegisterValidation("trainer_role", func(fl validator.FieldLevel) bool {
		return validTrainerRole(fl.Field().String())
	})

	bv.validate.RegisterValidation("learning_mode", func(fl validator.FieldLevel) bool {
		switch models.LearningMode(fl.Field().String()) {
		case models.LearningOnline, models.LearningOffline, models.LearningHybrid:
			return true
		}
		return false
	})

	bv.validate.RegisterValidation("availability_type", func(fl validator.FieldLevel) bool {
		switch models.AvailabilityType(fl.Field().String()) {
		case models.AvailabilityAlways, models.AvailabilityTimebound:
			return true
		}
		return false
	})

	bv.validate.RegisterValidation("content_type", func(fl validator.FieldLevel) bool {
		switch models.ContentType(fl.Field().String()) {
		case models.ContentPDF, models.ContentImage, models.ContentVideo:
			return true
		}
		return false
	})
}

func validAdminRole(role string) bool {
	switch models.AdminRole(role) {
	case models.AdminSuper, models.AdminSub:
		return true
	}
	return false
}

func validTrainerRole(role string) bool {
	switch models.TrainerRole(role) {
	case models.TrainerSenior, models.TrainerJunior:
		return true
	}
	return false
}
