package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shoubhik18/lms-admin-service/internal/events"
	"github.com/shoubhik18/lms-admin-service/internal/models"
	"github.com/shoubhik18/lms-admin-service/internal/repositories"
)

type enrollmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	publisher events.EventPublisher
}

func NewEnrollmentService(repo repositories.Repository, logger *slog.Logger, publisher events.EventPublisher) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
	}
}

// SetEnrollment replaces the batch's student set wholesale. Requests are
// not merged with the current membership; the given list, duplicates
// removed, becomes the entire set. Concurrent calls race and the later
// commit wins, which is acceptable for an admin tool.
func (s *enrollmentService) SetEnrollment(ctx context.Context, batchID uint, studentIDs []uint) error {
	s.logger.Info("Setting batch enrollment", "batch_id", batchID, "student_count", len(studentIDs))

	studentIDs = dedupeIDs(studentIDs)

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		return replaceBatchEnrollment(ctx, txRepo, batchID, studentIDs)
	})
	if err != nil {
		return wrapTxError("set enrollment", err)
	}

	s.logger.Info("Batch enrollment replaced", "batch_id", batchID, "student_count", len(studentIDs))

	if s.publisher != nil {
		event := events.NewEvent(events.EventEnrollmentReplaced, events.EnrollmentReplacedEvent{
			BatchID:    batchID,
			StudentIDs: studentIDs,
		})
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish event", "type", event.Type, "error", err)
		}
	}

	return nil
}

func (s *enrollmentService) GetEnrollment(ctx context.Context, batchID uint) ([]uint, error) {
	if err := ensureBatchExists(ctx, s.repo, batchID); err != nil {
		return nil, err
	}
	return s.repo.Enrollment().GetStudentIDs(ctx, batchID)
}

func (s *enrollmentService) GetStudentBatches(ctx context.Context, studentID uint) ([]*models.Batch, error) {
	ok, err := s.repo.User().HasCategory(ctx, studentID, models.CategoryStudent)
	if err != nil {
		return nil, fmt.Errorf("failed to verify student %d: %w", studentID, err)
	}
	if !ok {
		return nil, ErrUserNotFound
	}
	return s.repo.Enrollment().GetBatchesByStudent(ctx, studentID)
}

// replaceBatchEnrollment is the shared transactional core: it verifies
// the batch and every student on the transaction's connection, then
// swaps the bridge rows. Batch creation reuses it so the initial student
// list lands in the same transaction as the batch row.
func replaceBatchEnrollment(ctx context.Context, repo repositories.Repository, batchID uint, studentIDs []uint) error {
	if err := ensureBatchExists(ctx, repo, batchID); err != nil {
		return err
	}
	if err := ensureStudentsExist(ctx, repo, studentIDs); err != nil {
		return err
	}
	return repo.Enrollment().ReplaceForBatch(ctx, batchID, studentIDs)
}
