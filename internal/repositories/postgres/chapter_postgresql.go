package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shoubhik18/lms-admin-service/internal/models"
	"github.com/shoubhik18/lms-admin-service/internal/repositories"
)

type ChapterPostgreSQL struct {
	db *gorm.DB
}

func NewChapterPostgreSQL(db *gorm.DB) repositories.ChapterRepository {
	return &ChapterPostgreSQL{db: db}
}

func (c *ChapterPostgreSQL) Create(ctx context.Context, chapter *models.Chapter) error {
	if err := c.db.WithContext(ctx).Create(chapter).Error; err != nil {
		return fmt.Errorf("failed to create chapter: %w", err)
	}
	return nil
}

func (c *ChapterPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Chapter, error) {
	var chapter models.Chapter
	err := c.db.WithContext(ctx).
		Preload("Sessions").
		First(&chapter, id).Error
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (c *ChapterPostgreSQL) List(ctx context.Context, filters repositories.ChapterFilters) ([]*models.Chapter, int64, error) {
	var chapters []*models.Chapter
	var total int64

	query := c.db.WithContext(ctx).Model(&models.Chapter{})
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count chapters: %w", err)
	}

	query = applyPaginationAndSort(query, "", "", filters.Limit, filters.Offset)
	if err := query.Preload("Sessions").Find(&chapters).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list chapters: %w", err)
	}

	return chapters, total, nil
}

func (c *ChapterPostgreSQL) Update(ctx context.Context, chapter *models.Chapter) error {
	result := c.db.WithContext(ctx).Model(&models.Chapter{}).Where("id = ?", chapter.ID).Updates(map[string]interface{}{
		"chapter_name":   chapter.ChapterName,
		"no_of_sessions": chapter.NoOfSessions,
		"course_id":      chapter.CourseID,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update chapter: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (c *ChapterPostgreSQL) Delete(ctx context.Context, id uint) (bool, error) {
	result := c.db.WithContext(ctx).Delete(&models.Chapter{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete chapter: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{db: db}
}

func (s *SessionPostgreSQL) Create(ctx context.Context, session *models.Session) error {
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *SessionPostgreSQL) CreateBatch(ctx context.Context, sessions []*models.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&sessions).Error; err != nil {
		return fmt.Errorf("failed to create sessions: %w", err)
	}
	return nil
}

func (s *SessionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Session, error) {
	var session models.Session
	if err := s.db.WithContext(ctx).First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) ListByChapter(ctx context.Context, chapterID uint) ([]*models.Session, error) {
	var sessions []*models.Session
	err := s.db.WithContext(ctx).
		Where("chapter_id = ?", chapterID).
		Order("id ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (s *SessionPostgreSQL) Update(ctx context.Context, session *models.Session) error {
	result := s.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", session.ID).Updates(map[string]interface{}{
		"session_name": session.SessionName,
		"session_link": session.SessionLink,
		"chapter_id":   session.ChapterID,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *SessionPostgreSQL) Delete(ctx context.Context, id uint) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&models.Session{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete session: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *SessionPostgreSQL) DeleteByChapter(ctx context.Context, chapterID uint) error {
	err := s.db.WithContext(ctx).
		Where("chapter_id = ?", chapterID).
		Delete(&models.Session{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete sessions for chapter: %w", err)
	}
	return nil
}
