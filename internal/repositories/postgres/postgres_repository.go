package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/shoubhik18/lms-admin-service/internal/cache"
	"github.com/shoubhik18/lms-admin-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	// Repository instances
	user       repositories.UserRepository
	profile    repositories.ProfileRepository
	course     repositories.CourseRepository
	chapter    repositories.ChapterRepository
	session    repositories.SessionRepository
	batch      repositories.BatchRepository
	enrollment repositories.EnrollmentRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a new repository manager with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	repo.user = NewUserPostgreSQL(config.DB, cacheManager)
	repo.profile = NewProfilePostgreSQL(config.DB)
	repo.course = NewCoursePostgreSQL(config.DB, cacheManager)
	repo.chapter = NewChapterPostgreSQL(config.DB)
	repo.session = NewSessionPostgreSQL(config.DB)
	repo.batch = NewBatchPostgreSQL(config.DB, cacheManager)
	repo.enrollment = NewEnrollmentPostgreSQL(config.DB, cacheManager)

	return repo
}

func (r *PostgreSQLRepository) User() repositories.UserRepository {
	return r.user
}

func (r *PostgreSQLRepository) Profile() repositories.ProfileRepository {
	return r.profile
}

func (r *PostgreSQLRepository) Course() repositories.CourseRepository {
	return r.course
}

func (r *PostgreSQLRepository) Chapter() repositories.ChapterRepository {
	return r.chapter
}

func (r *PostgreSQLRepository) Session() repositories.SessionRepository {
	return r.session
}

func (r *PostgreSQLRepository) Batch() repositories.BatchRepository {
	return r.batch
}

func (r *PostgreSQLRepository) Enrollment() repositories.EnrollmentRepository {
	return r.enrollment
}

// WithTransaction executes a function within a database transaction. The
// callback receives a Repository bound to the transaction; returning an
// error (or panicking) rolls back every statement issued through it.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
		}

		// Transaction-bound repositories skip the read cache, statements
		// inside the transaction must see their own uncommitted writes.
		// Their invalidations still run against redis so committed
		// mutations stop serving stale snapshots.
		txCache := r.cacheManager.InvalidationOnly()
		txRepo.user = NewUserPostgreSQL(tx, txCache)
		txRepo.profile = NewProfilePostgreSQL(tx)
		txRepo.course = NewCoursePostgreSQL(tx, txCache)
		txRepo.chapter = NewChapterPostgreSQL(tx)
		txRepo.session = NewSessionPostgreSQL(tx)
		txRepo.batch = NewBatchPostgreSQL(tx, txCache)
		txRepo.enrollment = NewEnrollmentPostgreSQL(tx, txCache)

		return fn(txRepo)
	})
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize initializes all repositories and connections
func (rm *RepositoryManager) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if rm.config.RedisClient != nil {
		if _, err := rm.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("Redis connection failed: %w", err)
		}
	}

	rm.repo = NewPostgreSQLRepository(rm.config)

	return nil
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of all repository connections
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repository connections
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}

	return rm.repo.Close()
}
