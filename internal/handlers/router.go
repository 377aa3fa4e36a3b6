package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shoubhik18/lms-admin-service/internal/services"
	"github.com/shoubhik18/lms-admin-service/internal/utils"
)

type HandlerManager struct {
	userHandler    *UserHandler
	courseHandler  *CourseHandler
	batchHandler   *BatchHandler
	chapterHandler *ChapterHandler
	serviceManager services.ServiceManager
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		userHandler:    NewUserHandler(serviceManager.User(), serviceManager.Export(), logger),
		courseHandler:  NewCourseHandler(serviceManager.Course(), serviceManager.Chapter(), logger),
		batchHandler:   NewBatchHandler(serviceManager.Batch(), serviceManager.Enrollment(), serviceManager.Export(), logger),
		chapterHandler: NewChapterHandler(serviceManager.Chapter(), logger),
		serviceManager: serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	v1 := router.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("", hm.userHandler.CreateUser)
			users.GET("", hm.userHandler.ListUsers)
			users.GET("/search", hm.userHandler.SearchUsers)
			users.GET("/export", hm.userHandler.ExportUsers)
			users.GET("/:id", hm.userHandler.GetUser)
			users.GET("/:id/details", hm.userHandler.GetUserWithDetails)
			users.PUT("/:id", hm.userHandler.UpdateUser)
			users.DELETE("/:id", hm.userHandler.DeleteUser)

			// Student batch membership
			users.PUT("/:id/batches", hm.userHandler.AssignBatches)
			users.GET("/:id/batches", hm.userHandler.GetStudentBatches)
		}

		courses := v1.Group("/courses")
		{
			courses.POST("", hm.courseHandler.CreateCourse)
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)
			courses.GET("/:id/details", hm.courseHandler.GetCourseWithDetails)
			courses.GET("/:id/students", hm.courseHandler.GetCourseStudents)
			courses.GET("/:id/chapters", hm.courseHandler.ListCourseChapters)
			courses.PUT("/:id", hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", hm.courseHandler.DeleteCourse)
		}

		batches := v1.Group("/batches")
		{
			batches.POST("", hm.batchHandler.CreateBatch)
			batches.GET("", hm.batchHandler.ListBatches)
			batches.GET("/:id", hm.batchHandler.GetBatch)
			batches.GET("/:id/details", hm.batchHandler.GetBatchWithDetails)
			batches.PUT("/:id", hm.batchHandler.UpdateBatch)
			batches.DELETE("/:id", hm.batchHandler.DeleteBatch)

			// Enrollment is replaced as a whole set
			batches.PUT("/:id/students", hm.batchHandler.SetEnrollment)
			batches.GET("/:id/students", hm.batchHandler.GetEnrollment)
			batches.GET("/:id/roster", hm.batchHandler.ExportRoster)
		}

		chapters := v1.Group("/chapters")
		{
			chapters.POST("", hm.chapterHandler.CreateChapter)
			chapters.GET("/:id", hm.chapterHandler.GetChapter)
			chapters.PUT("/:id", hm.chapterHandler.UpdateChapter)
			chapters.DELETE("/:id", hm.chapterHandler.DeleteChapter)
			chapters.DELETE("/:id/sessions/:session_id", hm.chapterHandler.DeleteSession)
		}
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "lms-admin-service",
	})
}
