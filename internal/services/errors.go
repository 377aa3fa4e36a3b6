package services

import (
	"errors"
	"fmt"

	"github.com/shoubhik18/lms-admin-service/internal/validator"
)

// Sentinel errors for missing records.
var (
	ErrNotFound        = errors.New("record not found")
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrTrainerNotFound = fmt.Errorf("trainer %w", ErrNotFound)
	ErrCourseNotFound  = fmt.Errorf("course %w", ErrNotFound)
	ErrBatchNotFound   = fmt.Errorf("batch %w", ErrNotFound)
	ErrChapterNotFound = fmt.Errorf("chapter %w", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)
)

// ConflictError reports a uniqueness or referential conflict that blocks
// the requested write.
type ConflictError struct {
	Resource string
	Field    string
	Value    interface{}
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict on %s: %s", e.Resource, e.Field, e.Reason)
}

func NewConflictError(resource, field string, value interface{}, reason string) *ConflictError {
	return &ConflictError{Resource: resource, Field: field, Value: value, Reason: reason}
}

// TransactionError wraps a failure inside a multi-statement write after
// the whole unit has been rolled back.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %s failed: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

func NewTransactionError(op string, err error) *TransactionError {
	return &TransactionError{Op: op, Err: err}
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var conflictErr *ConflictError
	return errors.As(err, &conflictErr)
}

// IsValidation reports whether err carries field-level validation errors.
func IsValidation(err error) bool {
	var validationErrs validator.ValidationErrors
	return errors.As(err, &validationErrs)
}

// IsTransaction reports whether err is a TransactionError.
func IsTransaction(err error) bool {
	var txErr *TransactionError
	return errors.As(err, &txErr)
}
