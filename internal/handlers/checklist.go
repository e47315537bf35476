package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/obraflow/obraflow-api/internal/dto"
	apierrors "github.com/obraflow/obraflow-api/internal/errors"
	"github.com/obraflow/obraflow-api/internal/middleware"
	"github.com/obraflow/obraflow-api/internal/models"
	"github.com/obraflow/obraflow-api/internal/services"
)

// ChecklistHandler coordinates checklist HTTP handlers: wholesale replacement,
// per-item evidence submission, item review and AI suggestions.
type ChecklistHandler struct {
	checklistService *services.ChecklistService
	aiService        *services.AIService
}

// NewChecklistHandler creates a new ChecklistHandler.
func NewChecklistHandler(checklistService *services.ChecklistService, aiService *services.AIService) *ChecklistHandler {
	return &ChecklistHandler{
		checklistService: checklistService,
		aiService:        aiService,
	}
}

// UpdateChecklist replaces the task's entire checklist.
func (h *ChecklistHandler) UpdateChecklist(c *gin.Context) {
	taskID, userID, ok := taskRequestContext(c)
	if !ok {
		return
	}

	type UpdateChecklistRequest struct {
		Items []models.ChecklistItem `json:"items"`
	}

	var req UpdateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.checklistService.ReplaceChecklist(taskID, userID, req.Items)
	if err != nil {
		respondChecklistError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// SubmitItem submits evidence for one checklist item or sub-item. Sub-items
// are addressed with the sub_index body field.
func (h *ChecklistHandler) SubmitItem(c *gin.Context) {
	taskID, userID, ok := taskRequestContext(c)
	if !ok {
		return
	}

	itemIndex, err := strconv.Atoi(c.Param("index"))
	if err != nil || itemIndex < 0 {
		apierrors.BadRequest(c, "Invalid checklist item index")
		return
	}

	type SubmitItemRequest struct {
		SubIndex    *int                `json:"sub_index"`
		Description string              `json:"description"`
		Attachments []models.Attachment `json:"attachments"`
		ImageURL    string              `json:"image_url"`
	}

	var req SubmitItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	subItemIndex := models.SubItemNone
	if req.SubIndex != nil {
		if *req.SubIndex < 0 {
			apierrors.BadRequest(c, "Invalid sub_index")
			return
		}
		subItemIndex = *req.SubIndex
	}

	delivery, err := h.checklistService.SubmitItem(taskID, itemIndex, subItemIndex, userID, services.SubmitItemInput{
		Description: req.Description,
		Attachments: req.Attachments,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondChecklistError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToChecklistDeliveryDTO(*delivery))
}

// ReviewItem approves or rejects a pending checklist item submission.
func (h *ChecklistHandler) ReviewItem(c *gin.Context) {
	taskID, userID, ok := taskRequestContext(c)
	if !ok {
		return
	}

	itemIndex, err := strconv.Atoi(c.Param("index"))
	if err != nil || itemIndex < 0 {
		apierrors.BadRequest(c, "Invalid checklist item index")
		return
	}

	type ReviewItemRequest struct {
		SubIndex *int   `json:"sub_index"`
		Decision string `json:"decision" binding:"required"`
		Comment  string `json:"comment"`
	}

	var req ReviewItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	subItemIndex := models.SubItemNone
	if req.SubIndex != nil {
		if *req.SubIndex < 0 {
			apierrors.BadRequest(c, "Invalid sub_index")
			return
		}
		subItemIndex = *req.SubIndex
	}

	delivery, err := h.checklistService.ReviewItem(taskID, itemIndex, subItemIndex, userID,
		models.ChecklistDeliveryStatus(req.Decision), req.Comment)
	if err != nil {
		respondChecklistError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToChecklistDeliveryDTO(*delivery))
}

// ListSubmissions lists the task's checklist item submissions.
func (h *ChecklistHandler) ListSubmissions(c *gin.Context) {
	taskID, _, ok := taskRequestContext(c)
	if !ok {
		return
	}

	submissions, err := h.checklistService.ListTaskSubmissions(taskID)
	if err != nil {
		respondChecklistError(c, err)
		return
	}

	items := make([]dto.ChecklistDeliveryDTO, len(submissions))
	for i, submission := range submissions {
		items[i] = dto.ToChecklistDeliveryDTO(submission)
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": items,
	})
}

// SuggestChecklist proposes checklist items from a description using AI.
// Nothing is persisted; the client decides what to keep.
func (h *ChecklistHandler) SuggestChecklist(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type SuggestRequest struct {
		Description string `json:"description"`
	}

	// Body is optional; an absent description falls back to the task's.
	var req SuggestRequest
	_ = c.ShouldBindJSON(&req)

	description := req.Description
	if description == "" {
		description = task.Description
	}
	if description == "" {
		apierrors.BadRequest(c, "No description available to analyze")
		return
	}

	if h.aiService == nil {
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
		return
	}

	items, err := h.aiService.SuggestChecklistItems(context.Background(), description)
	if err != nil {
		apierrors.InternalError(c, fmt.Sprintf("Failed to suggest checklist items: %v", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
	})
}

// taskRequestContext extracts the task ID from the URL and the authenticated
// user from the session context.
func taskRequestContext(c *gin.Context) (taskID, userID uint64, ok bool) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, 0, false
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, 0, false
	}

	return taskID, userID, true
}

func respondChecklistError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrChecklistForbidden),
		errors.Is(err, services.ErrChecklistReviewForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrChecklistItemNotFound),
		errors.Is(err, services.ErrChecklistDeliveryNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrChecklistAlreadyReviewed):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidReviewDecision):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
