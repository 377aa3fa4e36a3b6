package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shoubhik18/lms-admin-service/internal/repositories"
	"github.com/shoubhik18/lms-admin-service/internal/services"
	"github.com/shoubhik18/lms-admin-service/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	courseService  services.CourseService
	chapterService services.ChapterService
}

func NewCourseHandler(courseService services.CourseService, chapterService services.ChapterService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:    NewBaseHandler(logger),
		courseService:  courseService,
		chapterService: chapterService,
	}
}

// CreateCourse creates a new course
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Param course body services.CreateCourseRequest true "Course data"
// @Success 201 {object} services.CourseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// ListCourses lists courses with optional trainer filter
func (h *CourseHandler) ListCourses(c *gin.Context) {
	h.LogRequest(c, "Listing courses")

	courses, err := h.courseService.List(c.Request.Context(), h.parseCourseFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetCourse retrieves a course by ID
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	course, err := h.courseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// GetCourseWithDetails retrieves a course with trainer, students, and chapters
func (h *CourseHandler) GetCourseWithDetails(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	course, err := h.courseService.GetByIDWithDetails(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// UpdateCourse updates an existing course
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse deletes a course with no batches or enrolled students
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting course", "course_id", id)

	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetCourseStudents lists the user ids of students enrolled in the course
func (h *CourseHandler) GetCourseStudents(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	studentIDs, err := h.courseService.GetEnrolledStudents(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"course_id": id, "student_ids": studentIDs})
}

// ListCourseChapters lists the course's chapters with their sessions
func (h *CourseHandler) ListCourseChapters(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	chapters, err := h.chapterService.ListByCourse(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chapters": chapters})
}

func (h *CourseHandler) parseCourseFilters(c *gin.Context) repositories.CourseFilters {
	filters := repositories.CourseFilters{
		Query:     c.Query("q"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if trainerID, err := strconv.ParseUint(c.Query("trainer_id"), 10, 32); err == nil && trainerID > 0 {
		id := uint(trainerID)
		filters.TrainerID = &id
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	filters.Limit = size
	filters.Offset = (page - 1) * size

	return filters
}
