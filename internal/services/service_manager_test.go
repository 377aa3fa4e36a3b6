package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shoubhik18/lms-admin-service/internal/events"
	"github.com/shoubhik18/lms-admin-service/internal/validator"
)

func TestServiceManager_Lifecycle(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NewMockEventPublisher(logger)
	manager := NewDefaultServiceManager(nil, newMockRepository(), logger, validator.New(), staticHasher{}, publisher)
	ctx := context.Background()

	t.Run("getter panics before initialize", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Expected panic from uninitialized getter")
			}
		}()
		manager.User()
	})

	t.Run("health check before initialize", func(t *testing.T) {
		if err := manager.HealthCheck(ctx); err == nil {
			t.Error("Expected health check to fail before initialize")
		}
	})

	if err := manager.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	// Second call is a no-op.
	if err := manager.Initialize(ctx); err != nil {
		t.Fatalf("Repeated Initialize failed: %v", err)
	}

	if manager.User() == nil || manager.Course() == nil || manager.Batch() == nil ||
		manager.Enrollment() == nil || manager.Chapter() == nil || manager.Export() == nil {
		t.Fatal("Expected every service to be constructed")
	}

	if err := manager.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}

	if err := manager.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if err := manager.HealthCheck(ctx); err == nil {
		t.Error("Expected health check to fail after shutdown")
	}
}
