package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/shoubhik18/lms-admin-service/internal/events"
	"github.com/shoubhik18/lms-admin-service/internal/validator"
)

func newTestEnrollmentService(repo *mockRepository) (EnrollmentService, *events.MockEventPublisher) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NewMockEventPublisher(logger)
	return NewEnrollmentService(repo, logger, publisher), publisher
}

func TestEnrollmentService_SetEnrollment(t *testing.T) {
	repo := newMockRepository()
	service, publisher := newTestEnrollmentService(repo)
	ctx := context.Background()

	trainerID := seedTrainer(repo, "trainer@example.com")
	courseID := seedCourse(repo, trainerID)
	batchID := seedBatch(repo, trainerID, courseID)
	s1 := seedStudent(repo, "s1@example.com", courseID)
	s2 := seedStudent(repo, "s2@example.com", courseID)
	s3 := seedStudent(repo, "s3@example.com", courseID)

	t.Run("initial set with duplicates", func(t *testing.T) {
		if err := service.SetEnrollment(ctx, batchID, []uint{s1, s2, s1}); err != nil {
			t.Fatalf("SetEnrollment failed: %v", err)
		}
		ids, err := service.GetEnrollment(ctx, batchID)
		if err != nil {
			t.Fatalf("GetEnrollment failed: %v", err)
		}
		if !reflect.DeepEqual(ids, []uint{s1, s2}) {
			t.Errorf("Expected [%d %d], got %v", s1, s2, ids)
		}
	})

	t.Run("replace drops absent students", func(t *testing.T) {
		if err := service.SetEnrollment(ctx, batchID, []uint{s2, s3}); err != nil {
			t.Fatalf("SetEnrollment failed: %v", err)
		}
		ids, _ := service.GetEnrollment(ctx, batchID)
		if !reflect.DeepEqual(ids, []uint{s2, s3}) {
			t.Errorf("Expected [%d %d], got %v", s2, s3, ids)
		}
	})

	t.Run("empty list clears the batch", func(t *testing.T) {
		if err := service.SetEnrollment(ctx, batchID, nil); err != nil {
			t.Fatalf("SetEnrollment failed: %v", err)
		}
		ids, _ := service.GetEnrollment(ctx, batchID)
		if len(ids) != 0 {
			t.Errorf("Expected empty set, got %v", ids)
		}
	})

	t.Run("publishes replacement event", func(t *testing.T) {
		publisher.ClearEvents()
		if err := service.SetEnrollment(ctx, batchID, []uint{s1}); err != nil {
			t.Fatalf("SetEnrollment failed: %v", err)
		}
		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventEnrollmentReplaced {
			t.Fatalf("Expected a single %s event, got %v", events.EventEnrollmentReplaced, published)
		}
	})
}

func TestEnrollmentService_SetEnrollment_Rejections(t *testing.T) {
	repo := newMockRepository()
	service, publisher := newTestEnrollmentService(repo)
	ctx := context.Background()

	trainerID := seedTrainer(repo, "trainer@example.com")
	courseID := seedCourse(repo, trainerID)
	batchID := seedBatch(repo, trainerID, courseID)
	s1 := seedStudent(repo, "s1@example.com", courseID)

	if err := service.SetEnrollment(ctx, batchID, []uint{s1}); err != nil {
		t.Fatalf("Seed enrollment failed: %v", err)
	}
	publisher.ClearEvents()

	t.Run("unknown batch", func(t *testing.T) {
		if err := service.SetEnrollment(ctx, 999, []uint{s1}); !errors.Is(err, ErrBatchNotFound) {
			t.Fatalf("Expected ErrBatchNotFound, got %v", err)
		}
	})

	t.Run("non-student id rejects the whole set", func(t *testing.T) {
		err := service.SetEnrollment(ctx, batchID, []uint{s1, trainerID})
		if !IsValidation(err) {
			t.Fatalf("Expected validation error, got %v", err)
		}

		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("Expected ValidationErrors, got %T", err)
		}
		if verrs[0].Field != "student_ids" {
			t.Errorf("Expected student_ids field error, got %s", verrs[0].Field)
		}

		// The previous membership survives the rejected request.
		ids, _ := service.GetEnrollment(ctx, batchID)
		if !reflect.DeepEqual(ids, []uint{s1}) {
			t.Errorf("Expected membership unchanged, got %v", ids)
		}
		if len(publisher.GetPublishedEvents()) != 0 {
			t.Error("No event should be published for a rejected replacement")
		}
	})
}

func TestEnrollmentService_GetStudentBatches(t *testing.T) {
	repo := newMockRepository()
	service, _ := newTestEnrollmentService(repo)
	ctx := context.Background()

	trainerID := seedTrainer(repo, "trainer@example.com")
	courseID := seedCourse(repo, trainerID)
	batchID := seedBatch(repo, trainerID, courseID)
	studentID := seedStudent(repo, "student@example.com", courseID)

	if err := service.SetEnrollment(ctx, batchID, []uint{studentID}); err != nil {
		t.Fatalf("SetEnrollment failed: %v", err)
	}

	batches, err := service.GetStudentBatches(ctx, studentID)
	if err != nil {
		t.Fatalf("GetStudentBatches failed: %v", err)
	}
	if len(batches) != 1 || batches[0].ID != batchID {
		t.Errorf("Expected batch %d, got %v", batchID, batches)
	}

	if _, err := service.GetStudentBatches(ctx, trainerID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("Expected ErrUserNotFound for non-student, got %v", err)
	}
}
