package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shoubhik18/lms-admin-service/internal/models"
	"github.com/shoubhik18/lms-admin-service/internal/repositories"
	"github.com/shoubhik18/lms-admin-service/internal/services"
	"github.com/shoubhik18/lms-admin-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	userService   services.UserService
	exportService services.ExportService
}

func NewUserHandler(userService services.UserService, exportService services.ExportService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler:   NewBaseHandler(logger),
		userService:   userService,
		exportService: exportService,
	}
}

// CreateUser creates a user together with its category profile
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param user body services.CreateUserRequest true "User data"
// @Success 201 {object} services.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, err := h.userService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// ListUsers lists users with optional category filter
// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Param category query string false "Filter by category (Admin, Trainer, Student)"
// @Success 200 {object} services.UserListResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	users, err := h.userService.List(c.Request.Context(), h.parseUserFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// SearchUsers searches users by name or email
// @Summary Search users
// @Tags users
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} services.UserListResponse
// @Router /users/search [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing search query",
		})
		return
	}

	users, err := h.userService.Search(c.Request.Context(), query, h.parseUserFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser retrieves a user by ID
func (h *UserHandler) GetUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUserWithDetails retrieves a user with its profile and associations
func (h *UserHandler) GetUserWithDetails(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, err := h.userService.GetByIDWithDetails(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser updates a user and its profile fields
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser deletes a user, its profile, and its enrollment
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting user", "user_id", id)

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AssignBatches replaces the set of batches a student belongs to
func (h *UserHandler) AssignBatches(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.AssignBatchesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.userService.AssignBatches(c.Request.Context(), id, req.BatchIDs); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetStudentBatches lists the batches a student belongs to
func (h *UserHandler) GetStudentBatches(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	batches, err := h.userService.GetStudentBatches(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"batches": batches})
}

// ExportUsers streams the filtered user list as an xlsx download
func (h *UserHandler) ExportUsers(c *gin.Context) {
	h.LogRequest(c, "Exporting users")

	data, err := h.exportService.ExportUsers(c.Request.Context(), h.parseUserFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="users.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *UserHandler) parseUserFilters(c *gin.Context) repositories.UserFilters {
	filters := repositories.UserFilters{
		Query:     c.Query("q"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if category := c.Query("category"); category != "" {
		cat := models.UserCategory(category)
		filters.Category = &cat
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
