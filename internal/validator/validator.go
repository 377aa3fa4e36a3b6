package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator bundles plain struct validation with the business rule
// validator so services only carry one collaborator.
type Validator struct {
	business *BusinessValidator
}

func New() *Validator {
	return &Validator{
		business: NewBusinessValidator(),
	}
}

// Validate runs tag-based struct validation only. Custom domain tags are
// registered on the business validator, so delegate to it.
func (v *Validator) Validate(s interface{}) error {
	if errors := v.business.Validate(s); len(errors) > 0 {
		return errors
	}
	return nil
}

func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

// ValidationError represents a single field-level validation failure.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// ToValidationErrors converts go-playground validation errors into the
// service-facing representation.
func ToValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var errors ValidationErrors
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			errors = append(errors, ValidationError{
				Field:   fe.Field(),
				Message: errorMessage(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
		return errors
	}

	return ValidationErrors{{Field: "request", Message: err.Error(), Rule: "invalid"}}
}

// errorMessage returns user-friendly error messages.
func errorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", err.Param())
	case "user_category":
		return "must be Admin, Trainer, or Student"
	case "admin_role":
		return "must be SuperAdmin or SubAdmin"
	case "trainer_role":
		return "must be SrTrainer or JrTrainer"
	case "learning_mode":
		return "must be Online, Offline, or Hybrid"
	case "availability_type":
		return "must be always or timebound"
	case "content_type":
		return "must be pdf, image, or video"
	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
