package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/shoubhik18/lms-admin-service/internal/models"
	"github.com/shoubhik18/lms-admin-service/internal/repositories"
	"github.com/shoubhik18/lms-admin-service/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCourseService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) CourseService {
	return &courseService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest) (*CourseResponse, error) {
	s.logger.Info("Creating course", "course_name", req.CourseName, "trainer_id", req.TrainerID)

	if errors := s.validator.GetBusinessValidator().ValidateCourseCreate(req); len(errors) > 0 {
		return nil, errors
	}

	course := &models.Course{
		CourseName:       req.CourseName,
		TrainerID:        req.TrainerID,
		TotalPrice:       req.TotalPrice,
		DiscountPrice:    req.DiscountPrice,
		CourseCover:      req.CourseCover,
		AvailabilityType: req.AvailabilityType,
		AvailableFrom:    req.AvailableFrom,
		AvailableTo:      req.AvailableTo,
	}

	if req.ContentItem != nil {
		content, err := marshalContentItem(req.ContentItem)
		if err != nil {
			return nil, err
		}
		course.ContentItem = content
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := ensureTrainerExists(ctx, txRepo, req.TrainerID); err != nil {
			return err
		}

		if err := txRepo.Course().Create(ctx, course); err != nil {
			return fmt.Errorf("failed to create course: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, wrapTxError("create course", err)
	}

	s.logger.Info("Course created", "course_id", course.ID)
	return s.GetByIDWithDetails(ctx, course.ID)
}

func (s *courseService) GetByID(ctx context.Context, id uint) (*CourseResponse, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return s.buildCourseResponse(ctx, course), nil
}

func (s *courseService) GetByIDWithDetails(ctx context.Context, id uint) (*CourseResponse, error) {
	course, err := s.repo.Course().GetByIDWithDetails(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course with details: %w", err)
	}
	return s.buildCourseResponse(ctx, course), nil
}

func (s *courseService) Update(ctx context.Context, id uint, req *UpdateCourseRequest) (*CourseResponse, error) {
	s.logger.Info("Updating course", "course_id", id)

	existing, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if errors := s.validator.GetBusinessValidator().ValidateCourseUpdate(req, existing); len(errors) > 0 {
		return nil, errors
	}

	updated := *existing
	if req.CourseName != nil {
		updated.CourseName = *req.CourseName
	}
	if req.TrainerID != nil {
		updated.TrainerID = *req.TrainerID
	}
	if req.TotalPrice != nil {
		updated.TotalPrice = *req.TotalPrice
	}
	if req.DiscountPrice != nil {
		updated.DiscountPrice = req.DiscountPrice
	}
	if req.CourseCover != nil {
		updated.CourseCover = req.CourseCover
	}
	if req.AvailabilityType != nil {
		updated.AvailabilityType = *req.AvailabilityType
		if *req.AvailabilityType == models.AvailabilityAlways {
			updated.AvailableFrom = nil
			updated.AvailableTo = nil
		}
	}
	if req.AvailableFrom != nil {
		updated.AvailableFrom = req.AvailableFrom
	}
	if req.AvailableTo != nil {
		updated.AvailableTo = req.AvailableTo
	}
	if req.ContentItem != nil {
		content, err := marshalContentItem(req.ContentItem)
		if err != nil {
			return nil, err
		}
		updated.ContentItem = content
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if req.TrainerID != nil && *req.TrainerID != existing.TrainerID {
			if err := ensureTrainerExists(ctx, txRepo, *req.TrainerID); err != nil {
				return err
			}
		}

		if err := txRepo.Course().Update(ctx, &updated); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrCourseNotFound
			}
			return fmt.Errorf("failed to update course: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, wrapTxError("update course", err)
	}

	s.logger.Info("Course updated", "course_id", id)
	return s.GetByIDWithDetails(ctx, id)
}

// Delete refuses to remove a course that batches or student profiles
// still reference.
func (s *courseService) Delete(ctx context.Context, id uint) error {
	s.logger.Info("Deleting course", "course_id", id)

	// The reference counts and the delete run on one transaction so a
	// concurrent batch or profile insert cannot slip between them.
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := ensureCourseExists(ctx, txRepo, id); err != nil {
			return err
		}

		batchCount, err := txRepo.Course().CountBatches(ctx, id)
		if err != nil {
			return err
		}
		if batchCount > 0 {
			return NewConflictError("course", "id", id, "course has batches")
		}

		studentCount, err := txRepo.Profile().CountStudentsByCourse(ctx, id)
		if err != nil {
			return err
		}
		if studentCount > 0 {
			return NewConflictError("course", "id", id, "course has enrolled students")
		}

		deleted, err := txRepo.Course().Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to delete course: %w", err)
		}
		if !deleted {
			return ErrCourseNotFound
		}
		return nil
	})
	if err != nil {
		return wrapTxError("delete course", err)
	}

	s.logger.Info("Course deleted", "course_id", id)
	return nil
}

func (s *courseService) GetEnrolledStudents(ctx context.Context, courseID uint) ([]uint, error) {
	if err := ensureCourseExists(ctx, s.repo, courseID); err != nil {
		return nil, err
	}

	ids, err := s.repo.Course().GetEnrolledStudentIDs(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrolled students: %w", err)
	}
	return ids, nil
}

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error) {
	courses, total, err := s.repo.Course().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	responses := make([]*CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, &CourseResponse{Course: course})
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &CourseListResponse{
		Courses: responses,
		Total:   total,
		Page:    page,
		Size:    len(responses),
	}, nil
}

func (s *courseService) buildCourseResponse(ctx context.Context, course *models.Course) *CourseResponse {
	canDelete := false
	batchCount, err := s.repo.Course().CountBatches(ctx, course.ID)
	if err == nil && batchCount == 0 {
		studentCount, err := s.repo.Profile().CountStudentsByCourse(ctx, course.ID)
		canDelete = err == nil && studentCount == 0
	}

	return &CourseResponse{
		Course:    course,
		CanDelete: canDelete,
	}
}

func marshalContentItem(item *models.ContentItem) (datatypes.JSON, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("failed to encode content item: %w", err)
	}
	return datatypes.JSON(raw), nil
}
