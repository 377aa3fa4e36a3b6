package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateUserCache invalidates all user-related caches. Enrollment and
// profile rows render inside user responses, so both id keys and list
// patterns go.
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID uint) {
	SafeDelete(ctx, cm.User,
		fmt.Sprintf("id:%d", userID),
		fmt.Sprintf("details:%d", userID))
	SafeInvalidatePattern(ctx, cm.User, "list:*")
	SafeInvalidatePattern(ctx, cm.Exists, fmt.Sprintf("user:%d*", userID))
}

// InvalidateCourseCache invalidates all course-related caches
func InvalidateCourseCache(ctx context.Context, cm *CacheManager, courseID uint) {
	SafeDelete(ctx, cm.Course,
		fmt.Sprintf("id:%d", courseID),
		fmt.Sprintf("details:%d", courseID))
	SafeInvalidatePattern(ctx, cm.Course, "list:*")
	SafeInvalidatePattern(ctx, cm.Exists, fmt.Sprintf("course:%d*", courseID))
}

// InvalidateBatchCache invalidates all batch-related caches, including the
// membership snapshots that embed enrolled students.
func InvalidateBatchCache(ctx context.Context, cm *CacheManager, batchID uint) {
	SafeDelete(ctx, cm.Batch,
		fmt.Sprintf("id:%d", batchID),
		fmt.Sprintf("details:%d", batchID))
	SafeInvalidatePattern(ctx, cm.Batch, "list:*")
	SafeInvalidatePattern(ctx, cm.Exists, fmt.Sprintf("batch:%d*", batchID))
}

// InvalidateEnrollmentCache drops every cached view that embeds batch
// membership: batch snapshots, batch lists, and user detail responses.
// Membership changes cannot name the previously affected batches, so the
// patterns are broad.
func InvalidateEnrollmentCache(ctx context.Context, cm *CacheManager) {
	SafeInvalidatePattern(ctx, cm.Batch, "details:*")
	SafeInvalidatePattern(ctx, cm.Batch, "list:*")
	SafeInvalidatePattern(ctx, cm.User, "details:*")
}
