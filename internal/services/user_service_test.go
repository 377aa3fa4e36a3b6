package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shoubhik18/lms-admin-service/internal/events"
	"github.com/shoubhik18/lms-admin-service/internal/models"
	"github.com/shoubhik18/lms-admin-service/internal/repositories"
	"github.com/shoubhik18/lms-admin-service/internal/validator"
)

func newTestUserService(repo *mockRepository) (UserService, *events.MockEventPublisher) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NewMockEventPublisher(logger)
	return NewUserService(repo, logger, validator.New(), staticHasher{}, publisher), publisher
}

func strPtr(s string) *string { return &s }

func TestUserService_Create_Admin(t *testing.T) {
	repo := newMockRepository()
	service, publisher := newTestUserService(repo)
	ctx := context.Background()

	resp, err := service.Create(ctx, &CreateUserRequest{
		Name:     "Asha Verma",
		Email:    "asha@example.com",
		Mobile:   "9876543210",
		Category: models.CategoryAdmin,
		Role:     strPtr("SuperAdmin"),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if resp.AdminProfile == nil {
		t.Fatal("Expected admin profile to be provisioned")
	}
	if resp.AdminProfile.Role != models.AdminSuper {
		t.Errorf("Expected role SuperAdmin, got %s", resp.AdminProfile.Role)
	}

	// No password supplied, so the category default gets hashed.
	stored := repo.users[resp.ID]
	if stored.Password != "hashed:"+defaultAdminPassword {
		t.Errorf("Expected default admin password to be hashed, got %q", stored.Password)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(published))
	}
	if published[0].Type != events.EventUserCreated {
		t.Errorf("Expected event type %q, got %q", events.EventUserCreated, published[0].Type)
	}
	data, ok := published[0].Data.(events.UserCreatedEvent)
	if !ok {
		t.Fatalf("Unexpected event payload %T", published[0].Data)
	}
	if !data.DefaultPassword {
		t.Error("Expected DefaultPassword flag on the event")
	}
}

func TestUserService_Create_StudentRequiresCourse(t *testing.T) {
	repo := newMockRepository()
	service, publisher := newTestUserService(repo)
	ctx := context.Background()

	trainerID := seedTrainer(repo, "trainer@example.com")
	courseID := seedCourse(repo, trainerID)

	t.Run("valid course", func(t *testing.T) {
		mode := models.LearningOnline
		resp, err := service.Create(ctx, &CreateUserRequest{
			Name:         "Ravi Kumar",
			Email:        "ravi@example.com",
			Mobile:       "9123456780",
			Category:     models.CategoryStudent,
			CourseID:     &courseID,
			LearningMode: &mode,
			FeeDetail:    strPtr("Full fee"),
			PaymentMode:  strPtr("UPI"),
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if resp.StudentProfile == nil {
			t.Fatal("Expected student profile to be provisioned")
		}
		if resp.StudentProfile.CourseID != courseID {
			t.Errorf("Expected course %d, got %d", courseID, resp.StudentProfile.CourseID)
		}
		if repo.users[resp.ID].Password != "hashed:"+defaultStudentPassword {
			t.Error("Expected default student password")
		}
	})

	t.Run("missing course rolls everything back", func(t *testing.T) {
		publisher.ClearEvents()
		usersBefore := len(repo.users)
		profilesBefore := len(repo.studentProfiles)

		missing := uint(999)
		mode := models.LearningOffline
		_, err := service.Create(ctx, &CreateUserRequest{
			Name:         "Nisha Rao",
			Email:        "nisha@example.com",
			Mobile:       "9123456781",
			Category:     models.CategoryStudent,
			CourseID:     &missing,
			LearningMode: &mode,
			FeeDetail:    strPtr("Full fee"),
			PaymentMode:  strPtr("UPI"),
		})
		if !errors.Is(err, ErrCourseNotFound) {
			t.Fatalf("Expected ErrCourseNotFound, got %v", err)
		}

		if len(repo.users) != usersBefore {
			t.Error("User row leaked past the rollback")
		}
		if len(repo.studentProfiles) != profilesBefore {
			t.Error("Profile row leaked past the rollback")
		}
		if len(publisher.GetPublishedEvents()) != 0 {
			t.Error("No event should be published for a failed create")
		}
	})
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	repo := newMockRepository()
	service, _ := newTestUserService(repo)
	ctx := context.Background()

	req := &CreateUserRequest{
		Name:     "First",
		Email:    "taken@example.com",
		Mobile:   "9000000001",
		Category: models.CategoryAdmin,
		Role:     strPtr("SubAdmin"),
	}
	if _, err := service.Create(ctx, req); err != nil {
		t.Fatalf("First create failed: %v", err)
	}

	second := *req
	second.Name = "Second"
	_, err := service.Create(ctx, &second)
	if !IsConflict(err) {
		t.Fatalf("Expected ConflictError, got %v", err)
	}

	var conflict *ConflictError
	if errors.As(err, &conflict) && conflict.Field != "email" {
		t.Errorf("Expected conflict on email, got %s", conflict.Field)
	}
}

func TestUserService_Create_ValidationFailures(t *testing.T) {
	repo := newMockRepository()
	service, _ := newTestUserService(repo)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *CreateUserRequest
	}{
		{
			name: "admin without role",
			req: &CreateUserRequest{
				Name:     "No Role",
				Email:    "norole@example.com",
				Mobile:   "9000000002",
				Category: models.CategoryAdmin,
			},
		},
		{
			name: "trainer with invalid role",
			req: &CreateUserRequest{
				Name:     "Bad Role",
				Email:    "badrole@example.com",
				Mobile:   "9000000003",
				Category: models.CategoryTrainer,
				Role:     strPtr("Principal"),
			},
		},
		{
			name: "student without learning mode",
			req: &CreateUserRequest{
				Name:     "No Mode",
				Email:    "nomode@example.com",
				Mobile:   "9000000004",
				Category: models.CategoryStudent,
				CourseID: func() *uint { id := uint(1); return &id }(),
			},
		},
		{
			name: "unknown category",
			req: &CreateUserRequest{
				Name:     "Ghost",
				Email:    "ghost@example.com",
				Mobile:   "9000000005",
				Category: models.UserCategory("Guest"),
			},
		},
		{
			name: "student without fee detail or payment mode",
			req: &CreateUserRequest{
				Name:         "No Fee",
				Email:        "nofee@example.com",
				Mobile:       "9000000006",
				Category:     models.CategoryStudent,
				CourseID:     func() *uint { id := uint(1); return &id }(),
				LearningMode: func() *models.LearningMode { m := models.LearningOnline; return &m }(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, tt.req)
			if !IsValidation(err) {
				t.Fatalf("Expected validation error, got %v", err)
			}
		})
	}

	if len(repo.users) != 0 {
		t.Errorf("Expected no users persisted, got %d", len(repo.users))
	}
}

func TestUserService_Update_CategoryImmutable(t *testing.T) {
	repo := newMockRepository()
	service, _ := newTestUserService(repo)
	ctx := context.Background()

	trainerID := seedTrainer(repo, "trainer@example.com")
	courseID := seedCourse(repo, trainerID)
	studentID := seedStudent(repo, "student@example.com", courseID)

	newCategory := models.CategoryAdmin
	_, err := service.Update(ctx, studentID, &UpdateUserRequest{Category: &newCategory})
	if !IsValidation(err) {
		t.Fatalf("Expected validation error, got %v", err)
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		if len(verrs) == 0 || verrs[0].Field != "category" {
			t.Errorf("Expected category field error, got %+v", verrs)
		}
	}
}

func TestUserService_Update_StudentProfileFields(t *testing.T) {
	repo := newMockRepository()
	service, _ := newTestUserService(repo)
	ctx := context.Background()

	trainerID := seedTrainer(repo, "trainer@example.com")
	courseID := seedCourse(repo, trainerID)
	otherCourseID := seedCourse(repo, trainerID)
	studentID := seedStudent(repo, "student@example.com", courseID)

	mode := models.LearningHybrid
	resp, err := service.Update(ctx, studentID, &UpdateUserRequest{
		Name:         strPtr("Renamed Student"),
		CourseID:     &otherCourseID,
		LearningMode: &mode,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if resp.Name != "Renamed Student" {
		t.Errorf("Expected renamed user, got %s", resp.Name)
	}
	if resp.StudentProfile == nil || resp.StudentProfile.CourseID != otherCourseID {
		t.Error("Expected student profile to follow the course change")
	}
	if resp.StudentProfile.LearningMode != models.LearningHybrid {
		t.Errorf("Expected hybrid mode, got %s", resp.StudentProfile.LearningMode)
	}

	t.Run("unknown course rejects the whole update", func(t *testing.T) {
		missing := uint(404)
		_, err := service.Update(ctx, studentID, &UpdateUserRequest{
			Name:     strPtr("Should Not Stick"),
			CourseID: &missing,
		})
		if !errors.Is(err, ErrCourseNotFound) {
			t.Fatalf("Expected ErrCourseNotFound, got %v", err)
		}
		if repo.users[studentID].Name != "Renamed Student" {
			t.Error("Base row change leaked past the rollback")
		}
	})
}

func TestUserService_Update_NoOpSkipsTransaction(t *testing.T) {
	repo := newMockRepository()
	service, _ := newTestUserService(repo)
	ctx := context.Background()

	trainerID := seedTrainer(repo, "trainer@example.com")
	txBefore := repo.txCalls

	resp, err := service.Update(ctx, trainerID, &UpdateUserRequest{})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if resp.Email != "trainer@example.com" {
		t.Errorf("Expected the stored user back, got %s", resp.Email)
	}
	if repo.txCalls != txBefore {
		t.Errorf("Empty update must not open a transaction, tx count went %d to %d", txBefore, repo.txCalls)
	}

	// A same-category payload carries no change either.
	same := models.CategoryTrainer
	if _, err := service.Update(ctx, trainerID, &UpdateUserRequest{Category: &same}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if repo.txCalls != txBefore {
		t.Errorf("Category-only update must not open a transaction, tx count %d", repo.txCalls)
	}
}

func TestUserService_Delete(t *testing.T) {
	repo := newMockRepository()
	service, publisher := newTestUserService(repo)
	ctx := context.Background()

	trainerID := seedTrainer(repo, "trainer@example.com")
	courseID := seedCourse(repo, trainerID)
	batchID := seedBatch(repo, trainerID, courseID)
	studentID := seedStudent(repo, "student@example.com", courseID)
	if err := repo.Enrollment().ReplaceForBatch(ctx, batchID, []uint{studentID}); err != nil {
		t.Fatalf("Seed enrollment failed: %v", err)
	}

	t.Run("referenced trainer is kept", func(t *testing.T) {
		err := service.Delete(ctx, trainerID)
		if !IsConflict(err) {
			t.Fatalf("Expected ConflictError, got %v", err)
		}
		if _, ok := repo.users[trainerID]; !ok {
			t.Error("Trainer row must survive a rejected delete")
		}
	})

	t.Run("student delete clears profile and enrollment", func(t *testing.T) {
		publisher.ClearEvents()
		if err := service.Delete(ctx, studentID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, ok := repo.users[studentID]; ok {
			t.Error("User row should be gone")
		}
		if _, ok := repo.studentProfiles[studentID]; ok {
			t.Error("Student profile should be gone")
		}
		ids, _ := repo.Enrollment().GetStudentIDs(ctx, batchID)
		if len(ids) != 0 {
			t.Errorf("Enrollment rows should be gone, got %v", ids)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventUserDeleted {
			t.Errorf("Expected a single %s event, got %v", events.EventUserDeleted, published)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		if err := service.Delete(ctx, 9999); !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("Expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserService_AssignBatches(t *testing.T) {
	repo := newMockRepository()
	service, _ := newTestUserService(repo)
	ctx := context.Background()

	trainerID := seedTrainer(repo, "trainer@example.com")
	courseID := seedCourse(repo, trainerID)
	batchA := seedBatch(repo, trainerID, courseID)
	batchB := seedBatch(repo, trainerID, courseID)
	studentID := seedStudent(repo, "student@example.com", courseID)

	// Duplicates collapse to one membership row.
	if err := service.AssignBatches(ctx, studentID, []uint{batchA, batchA, batchB}); err != nil {
		t.Fatalf("AssignBatches failed: %v", err)
	}
	batches, err := service.GetStudentBatches(ctx, studentID)
	if err != nil {
		t.Fatalf("GetStudentBatches failed: %v", err)
	}
	if len(batches) != 2 {
		t.Fatalf("Expected 2 batches, got %d", len(batches))
	}

	// Replace-set semantics: the new list wins entirely.
	if err := service.AssignBatches(ctx, studentID, []uint{batchB}); err != nil {
		t.Fatalf("AssignBatches failed: %v", err)
	}
	batches, _ = service.GetStudentBatches(ctx, studentID)
	if len(batches) != 1 || batches[0].ID != batchB {
		t.Errorf("Expected membership in batch %d only, got %v", batchB, batches)
	}

	t.Run("unknown batch keeps the old set", func(t *testing.T) {
		err := service.AssignBatches(ctx, studentID, []uint{batchA, 777})
		if !errors.Is(err, ErrBatchNotFound) {
			t.Fatalf("Expected ErrBatchNotFound, got %v", err)
		}
		batches, _ := service.GetStudentBatches(ctx, studentID)
		if len(batches) != 1 || batches[0].ID != batchB {
			t.Error("Failed assignment must not change the membership")
		}
	})

	t.Run("non-student target", func(t *testing.T) {
		if err := service.AssignBatches(ctx, trainerID, []uint{batchA}); !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("Expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserService_ListPagination(t *testing.T) {
	repo := newMockRepository()
	service, _ := newTestUserService(repo)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedTrainer(repo, string(rune('a'+i))+"@example.com")
	}

	resp, err := service.List(ctx, repositories.UserFilters{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if resp.Total != 5 {
		t.Errorf("Expected total 5, got %d", resp.Total)
	}
	if resp.Size != 2 {
		t.Errorf("Expected page size 2, got %d", resp.Size)
	}
	if resp.Page != 2 {
		t.Errorf("Expected page 2, got %d", resp.Page)
	}
}
