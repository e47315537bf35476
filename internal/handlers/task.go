package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/obraflow/obraflow-api/internal/dto"
	apierrors "github.com/obraflow/obraflow-api/internal/errors"
	"github.com/obraflow/obraflow-api/internal/middleware"
	"github.com/obraflow/obraflow-api/internal/models"
	"github.com/obraflow/obraflow-api/internal/services"
	"github.com/obraflow/obraflow-api/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// InsumoRequest is one requested stock quantity in task payloads.
type InsumoRequest struct {
	StockItemID uint64  `json:"stock_item_id" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"required"`
}

// CreateTask creates a new task inside a project.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Name          string                 `json:"name" binding:"required"`
		Description   string                 `json:"description"`
		ProjectID     uint64                 `json:"project_id" binding:"required"`
		ExecutorID    uint64                 `json:"executor_id" binding:"required"`
		ResponsavelID *uint64                `json:"responsavel_id"`
		TeamMemberIDs []uint64               `json:"team_member_ids"`
		Checklist     []models.ChecklistItem `json:"checklist"`
		Insumos       []InsumoRequest        `json:"insumos"`
		DataInicio    *time.Time             `json:"data_inicio"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTaskInput{
		Name:          req.Name,
		Description:   req.Description,
		ProjectID:     req.ProjectID,
		ExecutorID:    req.ExecutorID,
		ResponsavelID: req.ResponsavelID,
		TeamMemberIDs: req.TeamMemberIDs,
		Checklist:     req.Checklist,
		DataInicio:    req.DataInicio,
	}
	for _, insumo := range req.Insumos {
		input.Insumos = append(input.Insumos, services.InsumoInput{
			StockItemID: insumo.StockItemID,
			Quantity:    insumo.Quantity,
		})
	}

	task, err := h.taskService.CreateTask(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a task with its relations. Access was already checked by
// RequireTaskAccess; the service reloads the task with full preloads.
func (h *TaskHandler) GetTask(c *gin.Context) {
	loaded, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	task, err := h.taskService.GetTask(loaded.ID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask applies a privileged partial update to a task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type UpdateTaskRequest struct {
		Name          *string            `json:"name"`
		Description   *string            `json:"description"`
		ExecutorID    *uint64            `json:"executor_id"`
		ResponsavelID *uint64            `json:"responsavel_id"`
		TeamMemberIDs []uint64           `json:"team_member_ids"`
		Status        *models.TaskStatus `json:"status"`
		Iniciada      *bool              `json:"iniciada"`
		DataInicio    *time.Time         `json:"data_inicio"`
		DataFim       *time.Time         `json:"data_fim"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(taskID, services.UpdateTaskInput{
		Name:          req.Name,
		Description:   req.Description,
		ExecutorID:    req.ExecutorID,
		ResponsavelID: req.ResponsavelID,
		TeamMemberIDs: req.TeamMemberIDs,
		Status:        req.Status,
		Iniciada:      req.Iniciada,
		DataInicio:    req.DataInicio,
		DataFim:       req.DataFim,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ChangeStatus is the administrative status override endpoint.
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type ChangeStatusRequest struct {
		Status   models.TaskStatus `json:"status" binding:"required"`
		Iniciada *bool             `json:"iniciada"`
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.ChangeTaskStatus(taskID, req.Status, req.Iniciada)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task and releases its stock reservations.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.taskService.DeleteTask(taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// ListMyTasks returns the active tasks the authenticated user is involved in.
func (h *TaskHandler) ListMyTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListMyTasksInput{
		UserID:   userID,
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if projectIDStr := c.Query("project_id"); projectIDStr != "" {
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project_id")
			return
		}
		input.ProjectID = &projectID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.TaskStatus(statusStr)
		input.Status = &status
	}

	tasks, total, err := h.taskService.ListMyTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrStockItemNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskNameRequired),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidQuantity):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInsufficientStock):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
