// Package schema holds the explicit model registry. Every entity and join
// table is registered here once, at process initialization; nothing is
// registered lazily elsewhere.
package schema

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/shoubhik18/lms-admin-service/internal/models"
)

// Registry is the ordered set of persisted entities. Order matters for
// migration: referenced tables come before their dependents.
type Registry struct {
	models []interface{}
}

// NewRegistry builds the full schema registry for the service.
func NewRegistry() *Registry {
	return &Registry{
		models: []interface{}{
			&models.User{},
			&models.AdminProfile{},
			&models.TrainerProfile{},
			&models.Course{},
			&models.StudentProfile{},
			&models.Batch{},
			&models.BatchStudent{},
			&models.Chapter{},
			&models.Session{},
		},
	}
}

// Models returns the registered entities in migration order.
func (r *Registry) Models() []interface{} {
	out := make([]interface{}, len(r.models))
	copy(out, r.models)
	return out
}

// Migrate applies the schema to the given database connection.
func (r *Registry) Migrate(db *gorm.DB) error {
	// The bridge table is managed explicitly, not through gorm's implicit
	// many2many join table, so SetupJoinTable must run before AutoMigrate.
	if err := db.SetupJoinTable(&models.User{}, "Batches", &models.BatchStudent{}); err != nil {
		return fmt.Errorf("failed to set up batch_students join table: %w", err)
	}
	if err := db.SetupJoinTable(&models.Batch{}, "EnrolledStudents", &models.BatchStudent{}); err != nil {
		return fmt.Errorf("failed to set up batch_students join table: %w", err)
	}

	if err := db.AutoMigrate(r.models...); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}
	return nil
}
