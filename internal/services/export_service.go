package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/shoubhik18/lms-admin-service/internal/models"
	"github.com/shoubhik18/lms-admin-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportUsers renders the filtered user list as an xlsx workbook. The
// filter's pagination is ignored; exports always cover the full match.
func (s *exportService) ExportUsers(ctx context.Context, filters repositories.UserFilters) ([]byte, error) {
	s.logger.Info("Exporting users", "category", filters.Category)

	filters.Limit = 0
	filters.Offset = 0

	users, _, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Users"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"ID", "Name", "Email", "Mobile", "Category", "Role", "Course ID", "Learning Mode", "Created At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, user := range users {
		values := []interface{}{
			user.ID,
			user.Name,
			user.Email,
			user.Mobile,
			string(user.Category),
			userRole(user),
			userCourseID(user),
			userLearningMode(user),
			user.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write user export: %w", err)
	}

	s.logger.Info("Users exported", "count", len(users))
	return buf.Bytes(), nil
}

// ExportBatchRoster renders the batch's enrolled students as an xlsx
// workbook, one row per student.
func (s *exportService) ExportBatchRoster(ctx context.Context, batchID uint) ([]byte, error) {
	s.logger.Info("Exporting batch roster", "batch_id", batchID)

	batch, err := s.repo.Batch().GetByIDWithDetails(ctx, batchID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to get batch for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Roster"
	f.SetSheetName(f.GetSheetName(0), sheet)

	f.SetCellValue(sheet, "A1", "Batch ID")
	f.SetCellValue(sheet, "B1", batch.ID)
	f.SetCellValue(sheet, "A2", "Start Date")
	f.SetCellValue(sheet, "B2", batch.BatchStartDate.Format("2006-01-02"))
	f.SetCellValue(sheet, "A3", "End Date")
	f.SetCellValue(sheet, "B3", batch.BatchEndDate.Format("2006-01-02"))
	if batch.Course != nil {
		f.SetCellValue(sheet, "A4", "Course")
		f.SetCellValue(sheet, "B4", batch.Course.CourseName)
	}
	if batch.Trainer != nil {
		f.SetCellValue(sheet, "A5", "Trainer")
		f.SetCellValue(sheet, "B5", batch.Trainer.Name)
	}

	const headerRow = 7
	headers := []string{"ID", "Name", "Email", "Mobile"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		f.SetCellValue(sheet, cell, header)
	}

	for row, student := range batch.EnrolledStudents {
		values := []interface{}{student.ID, student.Name, student.Email, student.Mobile}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, headerRow+row+1)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write roster export: %w", err)
	}

	s.logger.Info("Batch roster exported", "batch_id", batchID, "students", len(batch.EnrolledStudents))
	return buf.Bytes(), nil
}

func userRole(user *models.User) string {
	switch {
	case user.AdminProfile != nil:
		return string(user.AdminProfile.Role)
	case user.TrainerProfile != nil:
		return string(user.TrainerProfile.Role)
	}
	return ""
}

func userCourseID(user *models.User) interface{} {
	if user.StudentProfile != nil {
		return user.StudentProfile.CourseID
	}
	return ""
}

func userLearningMode(user *models.User) string {
	if user.StudentProfile != nil {
		return string(user.StudentProfile.LearningMode)
	}
	return ""
}
