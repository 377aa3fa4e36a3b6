package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shoubhik18/lms-admin-service/internal/events"
	"github.com/shoubhik18/lms-admin-service/internal/models"
	"github.com/shoubhik18/lms-admin-service/internal/repositories"
	"github.com/shoubhik18/lms-admin-service/internal/utils"
	"github.com/shoubhik18/lms-admin-service/internal/validator"
)

// Default credentials assigned when a create request carries no password.
// The mail consumer tells the user to change them on first login.
const (
	defaultAdminPassword   = "admin@123"
	defaultTrainerPassword = "login@123"
	defaultStudentPassword = "welcome@123"
)

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	hasher    utils.Hasher
	publisher events.EventPublisher
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, hasher utils.Hasher, publisher events.EventPublisher) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		hasher:    hasher,
		publisher: publisher,
	}
}

// ===== CORE CRUD OPERATIONS =====

// Create provisions the user row together with its category profile in
// one transaction. Either both rows land or neither does.
func (s *userService) Create(ctx context.Context, req *CreateUserRequest) (*UserResponse, error) {
	s.logger.Info("Creating user", "email", req.Email, "category", req.Category)

	if errors := s.validator.GetBusinessValidator().ValidateUserCreate(req); len(errors) > 0 {
		return nil, errors
	}

	// Cheap pre-check; the unique index is the real guard.
	taken, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, NewConflictError("user", "email", req.Email, "email already registered")
	}

	usedDefault := req.Password == nil
	password := defaultPasswordFor(req.Category)
	if req.Password != nil {
		password = *req.Password
	}
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	profileData := req.ProfileData()

	var user *models.User
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if student, ok := profileData.(models.StudentProfileData); ok {
			if err := ensureCourseExists(ctx, txRepo, student.CourseID); err != nil {
				return err
			}
		}

		user = &models.User{
			Name:     req.Name,
			Email:    req.Email,
			Password: hashed,
			Mobile:   req.Mobile,
			Category: req.Category,
		}
		if err := txRepo.User().Create(ctx, user); err != nil {
			if repositories.IsDuplicateError(err) {
				return NewConflictError("user", "email", req.Email, "email already registered")
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		return s.createProfile(ctx, txRepo, user.ID, profileData)
	})
	if err != nil {
		return nil, wrapTxError("create user", err)
	}

	s.logger.Info("User created", "user_id", user.ID, "category", user.Category)

	s.publishEvent(ctx, events.NewEvent(events.EventUserCreated, events.UserCreatedEvent{
		UserID:          user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Category:        user.Category,
		DefaultPassword: usedDefault,
	}))

	return s.GetByIDWithDetails(ctx, user.ID)
}

func (s *userService) GetByID(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &UserResponse{User: user}, nil
}

func (s *userService) GetByIDWithDetails(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.repo.User().GetByIDWithAssociations(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user with details: %w", err)
	}
	return &UserResponse{User: user}, nil
}

// Update applies base field changes and, for role or student fields, the
// matching profile change. The category itself never changes; the
// business validator rejects attempts to switch it.
func (s *userService) Update(ctx context.Context, id uint, req *UpdateUserRequest) (*UserResponse, error) {
	s.logger.Info("Updating user", "user_id", id)

	existing, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if errors := s.validator.GetBusinessValidator().ValidateUserUpdate(req, existing); len(errors) > 0 {
		return nil, errors
	}

	// Nothing to write, skip the transaction entirely.
	if req.IsEmpty() {
		return s.GetByIDWithDetails(ctx, id)
	}

	if req.Email != nil && *req.Email != existing.Email {
		taken, err := s.repo.User().ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, NewConflictError("user", "email", *req.Email, "email already registered")
		}
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		updated := *existing
		if req.Name != nil {
			updated.Name = *req.Name
		}
		if req.Email != nil {
			updated.Email = *req.Email
		}
		if req.Mobile != nil {
			updated.Mobile = *req.Mobile
		}
		if req.Password != nil {
			hashed, err := s.hasher.Hash(*req.Password)
			if err != nil {
				return err
			}
			updated.Password = hashed
		}

		if err := txRepo.User().Update(ctx, &updated); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			if repositories.IsDuplicateError(err) {
				return NewConflictError("user", "email", updated.Email, "email already registered")
			}
			return fmt.Errorf("failed to update user: %w", err)
		}

		return s.updateProfile(ctx, txRepo, existing, req)
	})
	if err != nil {
		return nil, wrapTxError("update user", err)
	}

	s.logger.Info("User updated", "user_id", id)
	return s.GetByIDWithDetails(ctx, id)
}

// Delete removes the profile row, any enrollment rows, and the user row
// in one transaction. Trainers still referenced by courses or batches
// are kept and the delete rejected.
func (s *userService) Delete(ctx context.Context, id uint) error {
	s.logger.Info("Deleting user", "user_id", id)

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.Category == models.CategoryTrainer {
		if err := s.ensureTrainerUnreferenced(ctx, id); err != nil {
			return err
		}
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if user.Category == models.CategoryStudent {
			if err := txRepo.Enrollment().DeleteByStudent(ctx, id); err != nil {
				return err
			}
		}

		if err := txRepo.Profile().DeleteByUser(ctx, id, user.Category); err != nil {
			return err
		}

		deleted, err := txRepo.User().Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		if !deleted {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return wrapTxError("delete user", err)
	}

	s.logger.Info("User deleted", "user_id", id)

	s.publishEvent(ctx, events.NewEvent(events.EventUserDeleted, events.UserDeletedEvent{
		UserID:   user.ID,
		Email:    user.Email,
		Category: user.Category,
	}))

	return nil
}

// ===== LIST AND SEARCH =====

func (s *userService) List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error) {
	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return buildUserListResponse(users, total, filters), nil
}

func (s *userService) Search(ctx context.Context, query string, filters repositories.UserFilters) (*UserListResponse, error) {
	users, total, err := s.repo.User().Search(ctx, query, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return buildUserListResponse(users, total, filters), nil
}

// ===== STUDENT BATCH MEMBERSHIP =====

// AssignBatches replaces the full set of batches a student belongs to.
func (s *userService) AssignBatches(ctx context.Context, studentID uint, batchIDs []uint) error {
	s.logger.Info("Assigning batches", "student_id", studentID, "batch_count", len(batchIDs))

	ok, err := s.repo.User().HasCategory(ctx, studentID, models.CategoryStudent)
	if err != nil {
		return fmt.Errorf("failed to verify student %d: %w", studentID, err)
	}
	if !ok {
		return ErrUserNotFound
	}

	batchIDs = dedupeIDs(batchIDs)

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		for _, batchID := range batchIDs {
			if err := ensureBatchExists(ctx, txRepo, batchID); err != nil {
				return err
			}
		}
		return txRepo.Enrollment().ReplaceForStudent(ctx, studentID, batchIDs)
	})
	if err != nil {
		return wrapTxError("assign batches", err)
	}

	return nil
}

func (s *userService) GetStudentBatches(ctx context.Context, studentID uint) ([]*models.Batch, error) {
	ok, err := s.repo.User().HasCategory(ctx, studentID, models.CategoryStudent)
	if err != nil {
		return nil, fmt.Errorf("failed to verify student %d: %w", studentID, err)
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	return s.repo.Enrollment().GetBatchesByStudent(ctx, studentID)
}

// ===== HELPERS =====

func (s *userService) createProfile(ctx context.Context, repo repositories.Repository, userID uint, data models.ProfileData) error {
	switch profile := data.(type) {
	case models.AdminProfileData:
		return repo.Profile().CreateAdmin(ctx, &models.AdminProfile{
			UserID: userID,
			Role:   profile.Role,
		})
	case models.TrainerProfileData:
		return repo.Profile().CreateTrainer(ctx, &models.TrainerProfile{
			UserID: userID,
			Role:   profile.Role,
		})
	case models.StudentProfileData:
		return repo.Profile().CreateStudent(ctx, &models.StudentProfile{
			UserID:       userID,
			CourseID:     profile.CourseID,
			LearningMode: profile.LearningMode,
			FeeDetail:    profile.FeeDetail,
			PaymentMode:  profile.PaymentMode,
		})
	default:
		return fmt.Errorf("unsupported profile data %T", data)
	}
}

func (s *userService) updateProfile(ctx context.Context, repo repositories.Repository, user *models.User, req *UpdateUserRequest) error {
	switch user.Category {
	case models.CategoryAdmin:
		if req.Role == nil {
			return nil
		}
		profile, err := repo.Profile().GetAdminByUser(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to get admin profile: %w", err)
		}
		profile.Role = models.AdminRole(*req.Role)
		return repo.Profile().UpdateAdmin(ctx, profile)

	case models.CategoryTrainer:
		if req.Role == nil {
			return nil
		}
		profile, err := repo.Profile().GetTrainerByUser(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to get trainer profile: %w", err)
		}
		profile.Role = models.TrainerRole(*req.Role)
		return repo.Profile().UpdateTrainer(ctx, profile)

	case models.CategoryStudent:
		if req.CourseID == nil && req.LearningMode == nil && req.FeeDetail == nil && req.PaymentMode == nil {
			return nil
		}
		profile, err := repo.Profile().GetStudentByUser(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to get student profile: %w", err)
		}
		if req.CourseID != nil {
			if err := ensureCourseExists(ctx, repo, *req.CourseID); err != nil {
				return err
			}
			profile.CourseID = *req.CourseID
		}
		if req.LearningMode != nil {
			profile.LearningMode = *req.LearningMode
		}
		if req.FeeDetail != nil {
			profile.FeeDetail = *req.FeeDetail
		}
		if req.PaymentMode != nil {
			profile.PaymentMode = *req.PaymentMode
		}
		return repo.Profile().UpdateStudent(ctx, profile)
	}

	return nil
}

func (s *userService) ensureTrainerUnreferenced(ctx context.Context, trainerID uint) error {
	_, courseCount, err := s.repo.Course().List(ctx, repositories.CourseFilters{TrainerID: &trainerID, Limit: 1})
	if err != nil {
		return fmt.Errorf("failed to check trainer courses: %w", err)
	}
	if courseCount > 0 {
		return NewConflictError("user", "trainer_id", trainerID, "trainer is assigned to courses")
	}

	_, batchCount, err := s.repo.Batch().List(ctx, repositories.BatchFilters{TrainerID: &trainerID, Limit: 1})
	if err != nil {
		return fmt.Errorf("failed to check trainer batches: %w", err)
	}
	if batchCount > 0 {
		return NewConflictError("user", "trainer_id", trainerID, "trainer is assigned to batches")
	}

	return nil
}

// publishEvent is best-effort; the write already committed, so a broker
// failure only gets logged.
func (s *userService) publishEvent(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "type", event.Type, "error", err)
	}
}

func defaultPasswordFor(category models.UserCategory) string {
	switch category {
	case models.CategoryAdmin:
		return defaultAdminPassword
	case models.CategoryTrainer:
		return defaultTrainerPassword
	default:
		return defaultStudentPassword
	}
}

func buildUserListResponse(users []*models.User, total int64, filters repositories.UserFilters) *UserListResponse {
	responses := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, &UserResponse{User: user})
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &UserListResponse{
		Users: responses,
		Total: total,
		Page:  page,
		Size:  len(responses),
	}
}

// wrapTxError turns unexpected failures inside a transactional write
// into a TransactionError while letting domain errors pass through.
func wrapTxError(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) || IsConflict(err) || IsValidation(err) {
		return err
	}
	return NewTransactionError(op, err)
}
