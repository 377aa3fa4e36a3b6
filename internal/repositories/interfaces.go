package repositories

import (
	"context"

	"github.com/shoubhik18/lms-admin-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Category  *models.UserCategory `json:"category"`
	Query     string               `json:"query"` // matches name or email
	Limit     int                  `json:"limit"`
	Offset    int                  `json:"offset"`
	SortBy    string               `json:"sort_by"`    // "created_at", "name", "email"
	SortOrder string               `json:"sort_order"` // "asc", "desc"
}

type CourseFilters struct {
	TrainerID *uint  `json:"trainer_id"`
	Query     string `json:"query"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

type BatchFilters struct {
	TrainerID *uint  `json:"trainer_id"`
	CourseID  *uint  `json:"course_id"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

type ChapterFilters struct {
	CourseID *uint `json:"course_id"`
	Limit    int   `json:"limit"`
	Offset   int   `json:"offset"`
}

// ===== USER DOMAIN =====

// UserRepository owns the users table. Profile rows live in
// ProfileRepository; the provisioning service keeps the pair consistent
// inside one transaction.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetByIDWithAssociations preloads the profile matching the user's
	// category plus batch/course associations relevant to it.
	GetByIDWithAssociations(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	Search(ctx context.Context, query string, filters UserFilters) ([]*models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) (bool, error)

	// Validation and checks
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	HasCategory(ctx context.Context, id uint, category models.UserCategory) (bool, error)
	// FilterByCategory returns the subset of ids that belong to users of
	// the given category.
	FilterByCategory(ctx context.Context, ids []uint, category models.UserCategory) ([]uint, error)
}

// ProfileRepository owns the three category profile tables.
type ProfileRepository interface {
	CreateAdmin(ctx context.Context, profile *models.AdminProfile) error
	CreateTrainer(ctx context.Context, profile *models.TrainerProfile) error
	CreateStudent(ctx context.Context, profile *models.StudentProfile) error

	GetAdminByUser(ctx context.Context, userID uint) (*models.AdminProfile, error)
	GetTrainerByUser(ctx context.Context, userID uint) (*models.TrainerProfile, error)
	GetStudentByUser(ctx context.Context, userID uint) (*models.StudentProfile, error)

	UpdateAdmin(ctx context.Context, profile *models.AdminProfile) error
	UpdateTrainer(ctx context.Context, profile *models.TrainerProfile) error
	UpdateStudent(ctx context.Context, profile *models.StudentProfile) error

	// DeleteByUser removes the profile row matching the category, if any.
	DeleteByUser(ctx context.Context, userID uint, category models.UserCategory) error

	// CountStudentsByCourse reports how many student profiles reference a
	// course; used by the course deletion policy.
	CountStudentsByCourse(ctx context.Context, courseID uint) (int64, error)
}

// ===== COURSE DOMAIN =====

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	// GetByIDWithDetails preloads the trainer (with profile) and the
	// student profiles enrolled in the course.
	GetByIDWithDetails(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) (bool, error)

	Exists(ctx context.Context, id uint) (bool, error)
	CountBatches(ctx context.Context, courseID uint) (int64, error)
	GetEnrolledStudentIDs(ctx context.Context, courseID uint) ([]uint, error)
}

type ChapterRepository interface {
	Create(ctx context.Context, chapter *models.Chapter) error
	GetByID(ctx context.Context, id uint) (*models.Chapter, error)
	List(ctx context.Context, filters ChapterFilters) ([]*models.Chapter, int64, error)
	Update(ctx context.Context, chapter *models.Chapter) error
	Delete(ctx context.Context, id uint) (bool, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	CreateBatch(ctx context.Context, sessions []*models.Session) error
	GetByID(ctx context.Context, id uint) (*models.Session, error)
	ListByChapter(ctx context.Context, chapterID uint) ([]*models.Session, error)
	Update(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id uint) (bool, error)
	DeleteByChapter(ctx context.Context, chapterID uint) error
}

// ===== BATCH DOMAIN =====

type BatchRepository interface {
	Create(ctx context.Context, batch *models.Batch) error
	GetByID(ctx context.Context, id uint) (*models.Batch, error)
	// GetByIDWithDetails preloads trainer, course and enrolled students.
	GetByIDWithDetails(ctx context.Context, id uint) (*models.Batch, error)
	List(ctx context.Context, filters BatchFilters) ([]*models.Batch, int64, error)
	Update(ctx context.Context, batch *models.Batch) error
	Delete(ctx context.Context, id uint) (bool, error)

	Exists(ctx context.Context, id uint) (bool, error)
}

// EnrollmentRepository owns the batch_students bridge table.
type EnrollmentRepository interface {
	// ReplaceForBatch deletes every bridge row for the batch and inserts
	// one row per student id. Callers are responsible for running this
	// inside a transaction together with the batch write that caused it.
	ReplaceForBatch(ctx context.Context, batchID uint, studentIDs []uint) error
	// ReplaceForStudent is the mirror operation, replacing every batch a
	// student belongs to.
	ReplaceForStudent(ctx context.Context, studentID uint, batchIDs []uint) error

	GetStudentIDs(ctx context.Context, batchID uint) ([]uint, error)
	GetBatchesByStudent(ctx context.Context, studentID uint) ([]*models.Batch, error)
	DeleteByStudent(ctx context.Context, studentID uint) error
	DeleteByBatch(ctx context.Context, batchID uint) error
}
