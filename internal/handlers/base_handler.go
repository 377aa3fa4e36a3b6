package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shoubhik18/lms-admin-service/internal/services"
	"github.com/shoubhik18/lms-admin-service/internal/utils"
	"github.com/shoubhik18/lms-admin-service/internal/validator"
)

// BaseHandler carries the pieces every handler shares.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data interface{} `json:"data"`
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...interface{}) {
	args = append(args, "path", c.Request.URL.Path, "request_id", c.GetString("request_id"))
	h.logger.Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...interface{}) {
	args = append(args, "error", err, "path", c.Request.URL.Path, "request_id", c.GetString("request_id"))
	h.logger.Error(msg, args...)
}

// parseIDParam parses a positive integer path parameter. It writes the
// 400 response itself and returns 0 when parsing fails.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
			Details: raw,
		})
		return 0
	}
	return uint(id)
}

// handleServiceError maps service errors onto HTTP status codes.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs,
		})
		return
	}

	var conflictErr *services.ConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: conflictErr.Error(),
		})
		return
	}

	if services.IsNotFound(err) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	var txErr *services.TransactionError
	if errors.As(err, &txErr) {
		h.LogError(c, err, "Transaction failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Operation failed and was rolled back",
		})
		return
	}

	h.LogError(c, err, "Unhandled service error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: "Internal server error",
	})
}
