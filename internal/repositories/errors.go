package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// IsNotFoundError reports whether err means "no such row" regardless of
// which repository produced it.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err was caused by a unique constraint
// violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
