package repositories

import "context"

// Repository aggregates every table-level repository behind one interface.
// Writes that belong to a multi-step provisioning flow must run through
// WithTransaction; the callback receives a Repository bound to the open
// transaction, and any returned error rolls the whole unit back.
type Repository interface {
	// User domain
	User() UserRepository
	Profile() ProfileRepository

	// Course domain
	Course() CourseRepository
	Chapter() ChapterRepository
	Session() SessionRepository

	// Batch domain
	Batch() BatchRepository
	Enrollment() EnrollmentRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
