package services

import (
	"context"
	"fmt"

	"github.com/shoubhik18/lms-admin-service/internal/models"
	"github.com/shoubhik18/lms-admin-service/internal/repositories"
	"github.com/shoubhik18/lms-admin-service/internal/validator"
)

// Cross-entity referential checks shared by the services. Every check
// reads through the repository it is handed, so checks made inside
// WithTransaction run on the transaction's own connection and see its
// uncommitted writes.

func ensureTrainerExists(ctx context.Context, repo repositories.Repository, trainerID uint) error {
	ok, err := repo.User().HasCategory(ctx, trainerID, models.CategoryTrainer)
	if err != nil {
		return fmt.Errorf("failed to verify trainer %d: %w", trainerID, err)
	}
	if !ok {
		return ErrTrainerNotFound
	}
	return nil
}

func ensureCourseExists(ctx context.Context, repo repositories.Repository, courseID uint) error {
	ok, err := repo.Course().Exists(ctx, courseID)
	if err != nil {
		return fmt.Errorf("failed to verify course %d: %w", courseID, err)
	}
	if !ok {
		return ErrCourseNotFound
	}
	return nil
}

func ensureBatchExists(ctx context.Context, repo repositories.Repository, batchID uint) error {
	ok, err := repo.Batch().Exists(ctx, batchID)
	if err != nil {
		return fmt.Errorf("failed to verify batch %d: %w", batchID, err)
	}
	if !ok {
		return ErrBatchNotFound
	}
	return nil
}

// ensureStudentsExist rejects the whole id set when any id does not
// belong to a Student user. The rejected ids are reported field-level so
// the caller can surface them.
func ensureStudentsExist(ctx context.Context, repo repositories.Repository, studentIDs []uint) error {
	if len(studentIDs) == 0 {
		return nil
	}

	valid, err := repo.User().FilterByCategory(ctx, studentIDs, models.CategoryStudent)
	if err != nil {
		return fmt.Errorf("failed to verify students: %w", err)
	}

	validSet := make(map[uint]struct{}, len(valid))
	for _, id := range valid {
		validSet[id] = struct{}{}
	}

	var invalid []uint
	for _, id := range studentIDs {
		if _, ok := validSet[id]; !ok {
			invalid = append(invalid, id)
		}
	}

	if len(invalid) > 0 {
		return validator.ValidationErrors{{
			Field:   "student_ids",
			Message: "must reference existing Student users",
			Value:   invalid,
			Rule:    "business_logic",
		}}
	}

	return nil
}

// dedupeIDs drops duplicate ids while preserving first-seen order.
func dedupeIDs(ids []uint) []uint {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
