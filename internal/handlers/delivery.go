package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/obraflow/obraflow-api/internal/dto"
	apierrors "github.com/obraflow/obraflow-api/internal/errors"
	"github.com/obraflow/obraflow-api/internal/services"
)

// DeliveryHandler coordinates whole-task delivery HTTP handlers.
type DeliveryHandler struct {
	deliveryService *services.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(deliveryService *services.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: deliveryService,
	}
}

// SubmitDelivery submits a task for review.
func (h *DeliveryHandler) SubmitDelivery(c *gin.Context) {
	taskID, userID, ok := taskRequestContext(c)
	if !ok {
		return
	}

	type SubmitDeliveryRequest struct {
		Description string `json:"description" binding:"required"`
		ImageURL    string `json:"image_url"`
	}

	var req SubmitDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	delivery, err := h.deliveryService.Submit(taskID, userID, req.Description, req.ImageURL)
	if err != nil {
		respondDeliveryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDeliveryDTO(*delivery))
}

// UpdateDelivery edits a delivery while it is still under review.
func (h *DeliveryHandler) UpdateDelivery(c *gin.Context) {
	taskID, userID, ok := taskRequestContext(c)
	if !ok {
		return
	}

	deliveryID, err := strconv.ParseUint(c.Param("deliveryId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid delivery ID")
		return
	}

	type UpdateDeliveryRequest struct {
		Description string `json:"description" binding:"required"`
		ImageURL    string `json:"image_url"`
	}

	var req UpdateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	delivery, err := h.deliveryService.Update(taskID, deliveryID, userID, req.Description, req.ImageURL)
	if err != nil {
		respondDeliveryError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDeliveryDTO(*delivery))
}

// ApproveDelivery accepts the task's pending delivery.
func (h *DeliveryHandler) ApproveDelivery(c *gin.Context) {
	taskID, userID, ok := taskRequestContext(c)
	if !ok {
		return
	}

	type ReviewRequest struct {
		Comment string `json:"comment"`
	}

	var req ReviewRequest
	_ = c.ShouldBindJSON(&req)

	delivery, err := h.deliveryService.Approve(taskID, userID, req.Comment)
	if err != nil {
		respondDeliveryError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDeliveryDTO(*delivery))
}

// RejectDelivery refuses the task's pending delivery.
func (h *DeliveryHandler) RejectDelivery(c *gin.Context) {
	taskID, userID, ok := taskRequestContext(c)
	if !ok {
		return
	}

	type ReviewRequest struct {
		Reason string `json:"reason"`
	}

	var req ReviewRequest
	_ = c.ShouldBindJSON(&req)

	delivery, err := h.deliveryService.Reject(taskID, userID, req.Reason)
	if err != nil {
		respondDeliveryError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDeliveryDTO(*delivery))
}

// ListDeliveries lists the task's delivery history.
func (h *DeliveryHandler) ListDeliveries(c *gin.Context) {
	taskID, _, ok := taskRequestContext(c)
	if !ok {
		return
	}

	deliveries, err := h.deliveryService.ListByTask(taskID)
	if err != nil {
		respondDeliveryError(c, err)
		return
	}

	items := make([]dto.DeliveryDTO, len(deliveries))
	for i, delivery := range deliveries {
		items[i] = dto.ToDeliveryDTO(delivery)
	}

	c.JSON(http.StatusOK, gin.H{
		"deliveries": items,
	})
}

func respondDeliveryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDeliveryForbidden),
		errors.Is(err, services.ErrDeliveryReviewForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrDeliveryNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDescriptionTooShort):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotDeliverable),
		errors.Is(err, services.ErrDeliveryNotEditable),
		errors.Is(err, services.ErrNoPendingDelivery),
		errors.Is(err, services.ErrMultiplePendingDeliveries):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
