package dto

import (
	"time"

	"github.com/obraflow/obraflow-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID            uint64                 `json:"id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description,omitempty"`
	ProjectID     uint64                 `json:"project_id"`
	ExecutorID    uint64                 `json:"executor_id"`
	ResponsavelID *uint64                `json:"responsavel_id,omitempty"`
	Status        models.TaskStatus      `json:"status"`
	Iniciada      bool                   `json:"iniciada"`
	InsumosValue  float64                `json:"insumos_value"`
	DataInicio    *time.Time             `json:"data_inicio,omitempty"`
	DataFim       *time.Time             `json:"data_fim,omitempty"`
	Checklist     []models.ChecklistItem `json:"checklist"`
	Executor      *UserDTO               `json:"executor,omitempty"`
	Responsavel   *UserDTO               `json:"responsavel,omitempty"`
	TeamMembers   []UserDTO              `json:"team_members,omitempty"`
	Insumos       []TaskInsumoDTO        `json:"insumos,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// TaskInsumoDTO represents an allocated insumo in API responses
type TaskInsumoDTO struct {
	StockItemID uint64  `json:"stock_item_id"`
	Name        string  `json:"name,omitempty"`
	Quantity    float64 `json:"quantity"`
	TotalCost   float64 `json:"total_cost"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	checklist := []models.ChecklistItem(task.Checklist)
	if checklist == nil {
		checklist = []models.ChecklistItem{}
	}

	dto := TaskDTO{
		ID:            task.ID,
		Name:          task.Name,
		Description:   task.Description,
		ProjectID:     task.ProjectID,
		ExecutorID:    task.ExecutorID,
		ResponsavelID: task.ResponsavelID,
		Status:        task.Status,
		Iniciada:      task.Iniciada,
		InsumosValue:  task.InsumosValue,
		DataInicio:    task.DataInicio,
		DataFim:       task.DataFim,
		Checklist:     checklist,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}

	if task.Executor.ID != 0 {
		executor := ToUserDTO(task.Executor)
		dto.Executor = &executor
	}
	if task.Responsavel != nil && task.Responsavel.ID != 0 {
		responsavel := ToUserDTO(*task.Responsavel)
		dto.Responsavel = &responsavel
	}

	for _, m := range task.TeamMembers {
		if m.User.ID != 0 {
			dto.TeamMembers = append(dto.TeamMembers, ToUserDTO(m.User))
		}
	}

	for _, insumo := range task.Insumos {
		dto.Insumos = append(dto.Insumos, TaskInsumoDTO{
			StockItemID: insumo.StockItemID,
			Name:        insumo.StockItem.Name,
			Quantity:    insumo.Quantity,
			TotalCost:   insumo.TotalCost,
		})
	}

	return dto
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
