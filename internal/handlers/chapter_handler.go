package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shoubhik18/lms-admin-service/internal/services"
	"github.com/shoubhik18/lms-admin-service/internal/utils"
)

type ChapterHandler struct {
	BaseHandler
	chapterService services.ChapterService
}

func NewChapterHandler(chapterService services.ChapterService, logger utils.Logger) *ChapterHandler {
	return &ChapterHandler{
		BaseHandler:    NewBaseHandler(logger),
		chapterService: chapterService,
	}
}

// CreateChapter creates a chapter together with its sessions
func (h *ChapterHandler) CreateChapter(c *gin.Context) {
	var req services.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	chapter, err := h.chapterService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, chapter)
}

// GetChapter retrieves a chapter with its sessions
func (h *ChapterHandler) GetChapter(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	chapter, err := h.chapterService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapter)
}

// UpdateChapter renames a chapter and reconciles its sessions
func (h *ChapterHandler) UpdateChapter(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	chapter, err := h.chapterService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapter)
}

// DeleteChapter deletes a chapter and its sessions
func (h *ChapterHandler) DeleteChapter(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting chapter", "chapter_id", id)

	if err := h.chapterService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteSession removes one session from a chapter
func (h *ChapterHandler) DeleteSession(c *gin.Context) {
	chapterID := h.parseIDParam(c, "id")
	if chapterID == 0 {
		return
	}
	sessionID := h.parseIDParam(c, "session_id")
	if sessionID == 0 {
		return
	}

	if err := h.chapterService.DeleteSession(c.Request.Context(), chapterID, sessionID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
