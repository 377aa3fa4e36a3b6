package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shoubhik18/lms-admin-service/internal/repositories"
	"github.com/shoubhik18/lms-admin-service/internal/services"
	"github.com/shoubhik18/lms-admin-service/internal/utils"
	"github.com/shoubhik18/lms-admin-service/internal/validator"
)

type BatchHandler struct {
	BaseHandler
	batchService      services.BatchService
	enrollmentService services.EnrollmentService
	exportService     services.ExportService
}

func NewBatchHandler(batchService services.BatchService, enrollmentService services.EnrollmentService, exportService services.ExportService, logger utils.Logger) *BatchHandler {
	return &BatchHandler{
		BaseHandler:       NewBaseHandler(logger),
		batchService:      batchService,
		enrollmentService: enrollmentService,
		exportService:     exportService,
	}
}

// CreateBatch creates a batch, optionally with an initial student list
// @Summary Create batch
// @Tags batches
// @Accept json
// @Produce json
// @Param batch body services.CreateBatchRequest true "Batch data"
// @Success 201 {object} services.BatchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /batches [post]
func (h *BatchHandler) CreateBatch(c *gin.Context) {
	var req services.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	batch, err := h.batchService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, batch)
}

// ListBatches lists batches with optional trainer/course filters
func (h *BatchHandler) ListBatches(c *gin.Context) {
	h.LogRequest(c, "Listing batches")

	batches, err := h.batchService.List(c.Request.Context(), h.parseBatchFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, batches)
}

// GetBatch retrieves a batch by ID
func (h *BatchHandler) GetBatch(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	batch, err := h.batchService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, batch)
}

// GetBatchWithDetails retrieves a batch with trainer, course, and students
func (h *BatchHandler) GetBatchWithDetails(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	batch, err := h.batchService.GetByIDWithDetails(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, batch)
}

// UpdateBatch updates a batch and, when student_ids is present, its enrollment
func (h *BatchHandler) UpdateBatch(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	batch, err := h.batchService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, batch)
}

// DeleteBatch deletes a batch and its enrollment rows
func (h *BatchHandler) DeleteBatch(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting batch", "batch_id", id)

	if err := h.batchService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetEnrollment replaces the batch's whole student set
// @Summary Replace batch enrollment
// @Tags batches
// @Accept json
// @Produce json
// @Param id path uint true "Batch ID"
// @Param enrollment body validator.EnrollmentRequest true "Student ids"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /batches/{id}/students [put]
func (h *BatchHandler) SetEnrollment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.EnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.enrollmentService.SetEnrollment(c.Request.Context(), id, req.StudentIDs); err != nil {
		h.handleServiceError(c, err)
		return
	}

	studentIDs, err := h.enrollmentService.GetEnrollment(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"batch_id": id, "student_ids": studentIDs})
}

// GetEnrollment lists the student ids enrolled in the batch
func (h *BatchHandler) GetEnrollment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	studentIDs, err := h.enrollmentService.GetEnrollment(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"batch_id": id, "student_ids": studentIDs})
}

// ExportRoster streams the batch roster as an xlsx download
func (h *BatchHandler) ExportRoster(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Exporting batch roster", "batch_id", id)

	data, err := h.exportService.ExportBatchRoster(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf(`attachment; filename="batch-%d-roster.xlsx"`, id)
	c.Header("Content-Disposition", filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *BatchHandler) parseBatchFilters(c *gin.Context) repositories.BatchFilters {
	filters := repositories.BatchFilters{
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if trainerID, err := strconv.ParseUint(c.Query("trainer_id"), 10, 32); err == nil && trainerID > 0 {
		id := uint(trainerID)
		filters.TrainerID = &id
	}
	if courseID, err := strconv.ParseUint(c.Query("course_id"), 10, 32); err == nil && courseID > 0 {
		id := uint(courseID)
		filters.CourseID = &id
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
