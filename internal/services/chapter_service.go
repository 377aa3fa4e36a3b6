package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shoubhik18/lms-admin-service/internal/models"
	"github.com/shoubhik18/lms-admin-service/internal/repositories"
	"github.com/shoubhik18/lms-admin-service/internal/validator"
)

type chapterService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewChapterService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ChapterService {
	return &chapterService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// Create writes the chapter and its sessions in one transaction.
// NoOfSessions is derived from the session list, never taken from input.
func (s *chapterService) Create(ctx context.Context, req *CreateChapterRequest) (*ChapterResponse, error) {
	s.logger.Info("Creating chapter", "chapter_name", req.ChapterName, "course_id", req.CourseID)

	if errors := s.validator.GetBusinessValidator().ValidateChapterCreate(req); len(errors) > 0 {
		return nil, errors
	}

	var chapter *models.Chapter
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := ensureCourseExists(ctx, txRepo, req.CourseID); err != nil {
			return err
		}

		chapter = &models.Chapter{
			ChapterName:  req.ChapterName,
			CourseID:     req.CourseID,
			NoOfSessions: len(req.Sessions),
		}
		if err := txRepo.Chapter().Create(ctx, chapter); err != nil {
			return err
		}

		if len(req.Sessions) == 0 {
			return nil
		}
		sessions := make([]*models.Session, 0, len(req.Sessions))
		for _, sessionReq := range req.Sessions {
			sessions = append(sessions, &models.Session{
				SessionName: sessionReq.SessionName,
				SessionLink: sessionReq.SessionLink,
				ChapterID:   chapter.ID,
			})
		}
		return txRepo.Session().CreateBatch(ctx, sessions)
	})
	if err != nil {
		return nil, wrapTxError("create chapter", err)
	}

	s.logger.Info("Chapter created", "chapter_id", chapter.ID, "sessions", chapter.NoOfSessions)
	return s.GetByID(ctx, chapter.ID)
}

func (s *chapterService) GetByID(ctx context.Context, id uint) (*ChapterResponse, error) {
	chapter, err := s.repo.Chapter().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return &ChapterResponse{Chapter: chapter}, nil
}

func (s *chapterService) ListByCourse(ctx context.Context, courseID uint) ([]*ChapterResponse, error) {
	if err := ensureCourseExists(ctx, s.repo, courseID); err != nil {
		return nil, err
	}

	chapters, _, err := s.repo.Chapter().List(ctx, repositories.ChapterFilters{CourseID: &courseID})
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}

	responses := make([]*ChapterResponse, 0, len(chapters))
	for _, chapter := range chapters {
		responses = append(responses, &ChapterResponse{Chapter: chapter})
	}
	return responses, nil
}

// Update renames the chapter and reconciles its session list: requests
// carrying a session id update that session, the rest append new ones.
func (s *chapterService) Update(ctx context.Context, id uint, req *UpdateChapterRequest) (*ChapterResponse, error) {
	s.logger.Info("Updating chapter", "chapter_id", id)

	if errors := s.validator.GetBusinessValidator().ValidateChapterUpdate(req); len(errors) > 0 {
		return nil, errors
	}

	chapter, err := s.repo.Chapter().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		for _, sessionReq := range req.Sessions {
			if sessionReq.ID != nil {
				session, err := txRepo.Session().GetByID(ctx, *sessionReq.ID)
				if err != nil {
					if repositories.IsNotFoundError(err) {
						return ErrSessionNotFound
					}
					return err
				}
				if session.ChapterID != id {
					return ErrSessionNotFound
				}
				session.SessionName = sessionReq.SessionName
				session.SessionLink = sessionReq.SessionLink
				if err := txRepo.Session().Update(ctx, session); err != nil {
					return err
				}
				continue
			}

			if err := txRepo.Session().Create(ctx, &models.Session{
				SessionName: sessionReq.SessionName,
				SessionLink: sessionReq.SessionLink,
				ChapterID:   id,
			}); err != nil {
				return err
			}
		}

		sessions, err := txRepo.Session().ListByChapter(ctx, id)
		if err != nil {
			return err
		}

		updated := *chapter
		if req.ChapterName != nil {
			updated.ChapterName = *req.ChapterName
		}
		updated.NoOfSessions = len(sessions)

		if err := txRepo.Chapter().Update(ctx, &updated); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrChapterNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, wrapTxError("update chapter", err)
	}

	s.logger.Info("Chapter updated", "chapter_id", id)
	return s.GetByID(ctx, id)
}

// Delete removes the chapter together with its sessions.
func (s *chapterService) Delete(ctx context.Context, id uint) error {
	s.logger.Info("Deleting chapter", "chapter_id", id)

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Session().DeleteByChapter(ctx, id); err != nil {
			return err
		}

		deleted, err := txRepo.Chapter().Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrChapterNotFound
		}
		return nil
	})
	if err != nil {
		return wrapTxError("delete chapter", err)
	}

	s.logger.Info("Chapter deleted", "chapter_id", id)
	return nil
}

func (s *chapterService) DeleteSession(ctx context.Context, chapterID, sessionID uint) error {
	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session.ChapterID != chapterID {
		return ErrSessionNotFound
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		deleted, err := txRepo.Session().Delete(ctx, sessionID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrSessionNotFound
		}

		sessions, err := txRepo.Session().ListByChapter(ctx, chapterID)
		if err != nil {
			return err
		}

		chapter, err := txRepo.Chapter().GetByID(ctx, chapterID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrChapterNotFound
			}
			return err
		}
		chapter.NoOfSessions = len(sessions)
		return txRepo.Chapter().Update(ctx, chapter)
	})
	if err != nil {
		return wrapTxError("delete session", err)
	}

	return nil
}
