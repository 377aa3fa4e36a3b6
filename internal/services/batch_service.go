package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shoubhik18/lms-admin-service/internal/models"
	"github.com/shoubhik18/lms-admin-service/internal/repositories"
	"github.com/shoubhik18/lms-admin-service/internal/validator"
)

type batchService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewBatchService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) BatchService {
	return &batchService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// Create writes the batch row and, when the request carries an initial
// student list, the enrollment rows in the same transaction. An invalid
// trainer, course, or student id rolls back everything.
func (s *batchService) Create(ctx context.Context, req *CreateBatchRequest) (*BatchResponse, error) {
	s.logger.Info("Creating batch", "trainer_id", req.TrainerID, "course_id", req.CourseID)

	if errors := s.validator.GetBusinessValidator().ValidateBatchCreate(req); len(errors) > 0 {
		return nil, errors
	}

	var batch *models.Batch
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := ensureTrainerExists(ctx, txRepo, req.TrainerID); err != nil {
			return err
		}
		if err := ensureCourseExists(ctx, txRepo, req.CourseID); err != nil {
			return err
		}

		batch = &models.Batch{
			TrainerID:      req.TrainerID,
			CourseID:       req.CourseID,
			ProfileImage:   req.ProfileImage,
			StudyMaterial:  req.StudyMaterial,
			BatchTimings:   req.BatchTimings,
			BatchStartDate: req.BatchStartDate,
			BatchEndDate:   req.BatchEndDate,
		}
		if err := txRepo.Batch().Create(ctx, batch); err != nil {
			return fmt.Errorf("failed to create batch: %w", err)
		}

		if len(req.StudentIDs) > 0 {
			return replaceBatchEnrollment(ctx, txRepo, batch.ID, dedupeIDs(req.StudentIDs))
		}
		return nil
	})
	if err != nil {
		return nil, wrapTxError("create batch", err)
	}

	s.logger.Info("Batch created", "batch_id", batch.ID)
	return s.GetByIDWithDetails(ctx, batch.ID)
}

func (s *batchService) GetByID(ctx context.Context, id uint) (*BatchResponse, error) {
	batch, err := s.repo.Batch().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	return buildBatchResponse(batch), nil
}

func (s *batchService) GetByIDWithDetails(ctx context.Context, id uint) (*BatchResponse, error) {
	batch, err := s.repo.Batch().GetByIDWithDetails(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to get batch with details: %w", err)
	}
	return buildBatchResponse(batch), nil
}

// Update applies batch field changes and, when the request carries a
// student list, replaces the enrollment set in the same transaction. A
// nil list leaves the membership alone.
func (s *batchService) Update(ctx context.Context, id uint, req *UpdateBatchRequest) (*BatchResponse, error) {
	s.logger.Info("Updating batch", "batch_id", id)

	existing, err := s.repo.Batch().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}

	if errors := s.validator.GetBusinessValidator().ValidateBatchUpdate(req, existing); len(errors) > 0 {
		return nil, errors
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if req.TrainerID != nil && *req.TrainerID != existing.TrainerID {
			if err := ensureTrainerExists(ctx, txRepo, *req.TrainerID); err != nil {
				return err
			}
		}
		if req.CourseID != nil && *req.CourseID != existing.CourseID {
			if err := ensureCourseExists(ctx, txRepo, *req.CourseID); err != nil {
				return err
			}
		}

		updated := *existing
		if req.TrainerID != nil {
			updated.TrainerID = *req.TrainerID
		}
		if req.CourseID != nil {
			updated.CourseID = *req.CourseID
		}
		if req.ProfileImage != nil {
			updated.ProfileImage = req.ProfileImage
		}
		if req.StudyMaterial != nil {
			updated.StudyMaterial = req.StudyMaterial
		}
		if req.BatchTimings != nil {
			updated.BatchTimings = req.BatchTimings
		}
		if req.BatchStartDate != nil {
			updated.BatchStartDate = *req.BatchStartDate
		}
		if req.BatchEndDate != nil {
			updated.BatchEndDate = *req.BatchEndDate
		}

		if err := txRepo.Batch().Update(ctx, &updated); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrBatchNotFound
			}
			return fmt.Errorf("failed to update batch: %w", err)
		}

		if req.StudentIDs != nil {
			return replaceBatchEnrollment(ctx, txRepo, id, dedupeIDs(*req.StudentIDs))
		}
		return nil
	})
	if err != nil {
		return nil, wrapTxError("update batch", err)
	}

	s.logger.Info("Batch updated", "batch_id", id)
	return s.GetByIDWithDetails(ctx, id)
}

// Delete removes the batch together with its enrollment rows.
func (s *batchService) Delete(ctx context.Context, id uint) error {
	s.logger.Info("Deleting batch", "batch_id", id)

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Enrollment().DeleteByBatch(ctx, id); err != nil {
			return err
		}

		deleted, err := txRepo.Batch().Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to delete batch: %w", err)
		}
		if !deleted {
			return ErrBatchNotFound
		}
		return nil
	})
	if err != nil {
		return wrapTxError("delete batch", err)
	}

	s.logger.Info("Batch deleted", "batch_id", id)
	return nil
}

func (s *batchService) List(ctx context.Context, filters repositories.BatchFilters) (*BatchListResponse, error) {
	batches, total, err := s.repo.Batch().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}

	responses := make([]*BatchResponse, 0, len(batches))
	for _, batch := range batches {
		responses = append(responses, buildBatchResponse(batch))
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &BatchListResponse{
		Batches: responses,
		Total:   total,
		Page:    page,
		Size:    len(responses),
	}, nil
}

func buildBatchResponse(batch *models.Batch) *BatchResponse {
	return &BatchResponse{
		Batch:        batch,
		StudentCount: len(batch.EnrolledStudents),
	}
}
