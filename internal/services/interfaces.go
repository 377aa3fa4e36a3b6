package services

import (
	"context"

	"github.com/shoubhik18/lms-admin-service/internal/models"
	"github.com/shoubhik18/lms-admin-service/internal/repositories"
	"github.com/shoubhik18/lms-admin-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateUserRequest = validator.UserCreateRequest
type UpdateUserRequest = validator.UserUpdateRequest
type CreateCourseRequest = validator.CourseCreateRequest
type UpdateCourseRequest = validator.CourseUpdateRequest
type CreateBatchRequest = validator.BatchCreateRequest
type UpdateBatchRequest = validator.BatchUpdateRequest
type CreateChapterRequest = validator.ChapterCreateRequest
type UpdateChapterRequest = validator.ChapterUpdateRequest
type SessionRequest = validator.SessionRequest

type UserResponse struct {
	*models.User
}

type UserListResponse struct {
	Users []*UserResponse `json:"users"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Size  int             `json:"size"`
}

type CourseResponse struct {
	*models.Course
	CanDelete bool `json:"can_delete"`
}

type CourseListResponse struct {
	Courses []*CourseResponse `json:"courses"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	Size    int               `json:"size"`
}

type BatchResponse struct {
	*models.Batch
	StudentCount int `json:"student_count"`
}

type BatchListResponse struct {
	Batches []*BatchResponse `json:"batches"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Size    int              `json:"size"`
}

type ChapterResponse struct {
	*models.Chapter
}

type AssignBatchesRequest struct {
	BatchIDs []uint `json:"batch_ids" validate:"required"`
}

// ===== SERVICE INTERFACES =====

type UserService interface {
	// Core CRUD operations
	Create(ctx context.Context, req *CreateUserRequest) (*UserResponse, error)
	GetByID(ctx context.Context, id uint) (*UserResponse, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*UserResponse, error)
	Update(ctx context.Context, id uint, req *UpdateUserRequest) (*UserResponse, error)
	Delete(ctx context.Context, id uint) error

	// List and search operations
	List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error)
	Search(ctx context.Context, query string, filters repositories.UserFilters) (*UserListResponse, error)

	// Student batch membership
	AssignBatches(ctx context.Context, studentID uint, batchIDs []uint) error
	GetStudentBatches(ctx context.Context, studentID uint) ([]*models.Batch, error)
}

type CourseService interface {
	Create(ctx context.Context, req *CreateCourseRequest) (*CourseResponse, error)
	GetByID(ctx context.Context, id uint) (*CourseResponse, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*CourseResponse, error)
	Update(ctx context.Context, id uint, req *UpdateCourseRequest) (*CourseResponse, error)
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error)

	// GetEnrolledStudents returns the user ids of students whose profile
	// references the course.
	GetEnrolledStudents(ctx context.Context, courseID uint) ([]uint, error)
}

type BatchService interface {
	Create(ctx context.Context, req *CreateBatchRequest) (*BatchResponse, error)
	GetByID(ctx context.Context, id uint) (*BatchResponse, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*BatchResponse, error)
	Update(ctx context.Context, id uint, req *UpdateBatchRequest) (*BatchResponse, error)
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters repositories.BatchFilters) (*BatchListResponse, error)
}

type EnrollmentService interface {
	// SetEnrollment replaces the batch's whole student set. An empty list
	// clears the batch.
	SetEnrollment(ctx context.Context, batchID uint, studentIDs []uint) error
	GetEnrollment(ctx context.Context, batchID uint) ([]uint, error)
	GetStudentBatches(ctx context.Context, studentID uint) ([]*models.Batch, error)
}

type ChapterService interface {
	Create(ctx context.Context, req *CreateChapterRequest) (*ChapterResponse, error)
	GetByID(ctx context.Context, id uint) (*ChapterResponse, error)
	ListByCourse(ctx context.Context, courseID uint) ([]*ChapterResponse, error)
	Update(ctx context.Context, id uint, req *UpdateChapterRequest) (*ChapterResponse, error)
	Delete(ctx context.Context, id uint) error

	DeleteSession(ctx context.Context, chapterID, sessionID uint) error
}

type ExportService interface {
	// ExportUsers renders the filtered user list as an xlsx workbook.
	ExportUsers(ctx context.Context, filters repositories.UserFilters) ([]byte, error)
	// ExportBatchRoster renders the batch's enrolled students as an xlsx
	// workbook.
	ExportBatchRoster(ctx context.Context, batchID uint) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	User() UserService
	Course() CourseService
	Batch() BatchService
	Enrollment() EnrollmentService
	Chapter() ChapterService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
