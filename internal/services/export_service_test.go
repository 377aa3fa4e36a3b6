package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/shoubhik18/lms-admin-service/internal/models"
	"github.com/shoubhik18/lms-admin-service/internal/repositories"
)

func newTestExportService(repo *mockRepository) ExportService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewExportService(repo, logger)
}

func TestExportService_ExportUsers(t *testing.T) {
	repo := newMockRepository()
	service := newTestExportService(repo)
	ctx := context.Background()

	trainerID := seedTrainer(repo, "trainer@example.com")
	courseID := seedCourse(repo, trainerID)
	seedStudent(repo, "s1@example.com", courseID)
	seedStudent(repo, "s2@example.com", courseID)

	category := models.CategoryStudent
	// Pagination must not truncate exports.
	raw, err := service.ExportUsers(ctx, repositories.UserFilters{Category: &category, Limit: 1})
	if err != nil {
		t.Fatalf("ExportUsers failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Export is not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Users")
	if err != nil {
		t.Fatalf("Missing Users sheet: %v", err)
	}
	// Header plus both students despite Limit 1.
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0][1] != "Name" || rows[0][2] != "Email" {
		t.Errorf("Unexpected header row %v", rows[0])
	}
	if rows[1][2] != "s1@example.com" {
		t.Errorf("Expected first student row, got %v", rows[1])
	}
}

func TestExportService_ExportBatchRoster(t *testing.T) {
	repo := newMockRepository()
	service := newTestExportService(repo)
	ctx := context.Background()

	trainerID := seedTrainer(repo, "trainer@example.com")
	courseID := seedCourse(repo, trainerID)
	batchID := seedBatch(repo, trainerID, courseID)
	s1 := seedStudent(repo, "s1@example.com", courseID)
	if err := repo.Enrollment().ReplaceForBatch(ctx, batchID, []uint{s1}); err != nil {
		t.Fatalf("Seed enrollment failed: %v", err)
	}

	raw, err := service.ExportBatchRoster(ctx, batchID)
	if err != nil {
		t.Fatalf("ExportBatchRoster failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Export is not a readable workbook: %v", err)
	}
	defer f.Close()

	course, err := f.GetCellValue("Roster", "B4")
	if err != nil || course != "Go Fundamentals" {
		t.Errorf("Expected course name in metadata, got %q (%v)", course, err)
	}
	email, err := f.GetCellValue("Roster", "C8")
	if err != nil || email != "s1@example.com" {
		t.Errorf("Expected student email in roster, got %q (%v)", email, err)
	}

	t.Run("missing batch", func(t *testing.T) {
		if _, err := service.ExportBatchRoster(ctx, 999); !errors.Is(err, ErrBatchNotFound) {
			t.Fatalf("Expected ErrBatchNotFound, got %v", err)
		}
	})
}
