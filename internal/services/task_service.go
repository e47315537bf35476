package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/obraflow/obraflow-api/internal/models"
	"github.com/obraflow/obraflow-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskNameRequired  = errors.New("task name is required")
	ErrInvalidTaskStatus = errors.New("invalid task status")
)

// TaskService owns the task lifecycle: creation, privileged edits, the
// administrative status override and the "my tasks" listing. Workflow-driven
// transitions live in ChecklistService and DeliveryService.
type TaskService struct {
	taskRepo            repository.TaskRepository
	projectRepo         repository.ProjectRepository
	projectService      *ProjectService
	stockService        *StockService
	notificationService *NotificationService
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	projectService *ProjectService,
	stockService *StockService,
	notificationService *NotificationService,
) *TaskService {
	return &TaskService{
		taskRepo:            taskRepo,
		projectRepo:         projectRepo,
		projectService:      projectService,
		stockService:        stockService,
		notificationService: notificationService,
	}
}

// InsumoInput is one stock item quantity requested for a task.
type InsumoInput struct {
	StockItemID uint64
	Quantity    float64
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name          string
	Description   string
	ProjectID     uint64
	ExecutorID    uint64
	ResponsavelID *uint64
	TeamMemberIDs []uint64
	Checklist     []models.ChecklistItem
	Insumos       []InsumoInput
	DataInicio    *time.Time
}

// UpdateTaskInput represents input for updating a task. Nil fields are left
// untouched. Status is the privileged escape hatch that bypasses the guarded
// workflow.
type UpdateTaskInput struct {
	Name          *string
	Description   *string
	ExecutorID    *uint64
	ResponsavelID *uint64
	TeamMemberIDs []uint64
	Status        *models.TaskStatus
	Iniciada      *bool
	DataInicio    *time.Time
	DataFim       *time.Time
}

// ListMyTasksInput represents filters for the "my tasks" listing
type ListMyTasksInput struct {
	UserID    uint64
	ProjectID *uint64
	Status    *models.TaskStatus
	Page      int
	PageSize  int
}

// CreateTask creates a task, allocates its insumos from the stock ledger and
// recomputes the owning project.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Name == "" {
		return nil, ErrTaskNameRequired
	}

	if _, err := s.projectRepo.FindByID(input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to verify project: %w", err)
	}

	checklist := models.Checklist(input.Checklist)
	checklist.EnsureUIDs()

	task := &models.Task{
		Name:          input.Name,
		Description:   input.Description,
		ProjectID:     input.ProjectID,
		ExecutorID:    input.ExecutorID,
		ResponsavelID: input.ResponsavelID,
		Status:        models.TaskStatusPendente,
		Checklist:     checklist,
		DataInicio:    input.DataInicio,
	}

	for _, userID := range uniqueUint64(input.TeamMemberIDs) {
		task.TeamMembers = append(task.TeamMembers, models.TaskTeamMember{UserID: userID})
	}

	var insumosValue float64
	for _, insumo := range input.Insumos {
		item, err := s.stockService.GetItem(insumo.StockItemID)
		if err != nil {
			return nil, err
		}
		task.Insumos = append(task.Insumos, models.TaskInsumo{
			StockItemID: insumo.StockItemID,
			Quantity:    insumo.Quantity,
			TotalCost:   item.UnitCost * insumo.Quantity,
		})
		insumosValue += item.UnitCost * insumo.Quantity
	}
	task.InsumosValue = insumosValue

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	// Reserve the quantities now that the task id exists. A failed
	// allocation rolls the task back so stock and tasks stay consistent.
	for _, insumo := range input.Insumos {
		if err := s.stockService.Allocate(insumo.StockItemID, task.ID, insumo.Quantity); err != nil {
			if delErr := s.taskRepo.Delete(task.ID); delErr != nil {
				log.Printf("task %d: rollback after failed allocation also failed: %v", task.ID, delErr)
			}
			_ = s.stockService.ReleaseTask(task.ID)
			return nil, err
		}
	}

	s.recomputeProject(task.ProjectID)

	return s.taskRepo.FindByID(task.ID, "Executor", "Responsavel", "TeamMembers", "TeamMembers.User", "Insumos")
}

// GetTask returns a task with related data.
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID,
		"Executor", "Responsavel", "TeamMembers", "TeamMembers.User",
		"Deliveries", "Insumos", "Insumos.StockItem")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// UpdateTask applies a privileged partial update.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrTaskNameRequired
		}
		task.Name = *input.Name
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.ExecutorID != nil {
		task.ExecutorID = *input.ExecutorID
	}
	if input.ResponsavelID != nil {
		task.ResponsavelID = input.ResponsavelID
	}
	if input.Status != nil {
		if !models.ValidTaskStatus(*input.Status) {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *input.Status
	}
	if input.Iniciada != nil {
		task.Iniciada = *input.Iniciada
	}
	if input.DataInicio != nil {
		task.DataInicio = input.DataInicio
	}
	if input.DataFim != nil {
		task.DataFim = input.DataFim
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if input.TeamMemberIDs != nil {
		if err := s.taskRepo.SetTeamMembers(task.ID, uniqueUint64(input.TeamMemberIDs)); err != nil {
			return nil, fmt.Errorf("failed to update team members: %w", err)
		}
	}

	s.recomputeProject(task.ProjectID)

	return s.taskRepo.FindByID(task.ID, "Executor", "Responsavel", "TeamMembers", "TeamMembers.User", "Insumos")
}

// ChangeTaskStatus is the administrative status override. It bypasses the
// delivery/checklist workflow entirely.
func (s *TaskService) ChangeTaskStatus(taskID uint64, status models.TaskStatus, iniciada *bool) (*models.Task, error) {
	if !models.ValidTaskStatus(status) {
		return nil, ErrInvalidTaskStatus
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.Status = status
	if iniciada != nil {
		task.Iniciada = *iniciada
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to change task status: %w", err)
	}

	s.recomputeProject(task.ProjectID)

	return task, nil
}

// DeleteTask deletes a task, its deliveries and its stock reservations.
func (s *TaskService) DeleteTask(taskID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.stockService.ReleaseTask(taskID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.recomputeProject(task.ProjectID)

	return nil
}

// ListMyTasks lists the active tasks where the user is the executor or a
// responsible of the owning project.
func (s *TaskService) ListMyTasks(input ListMyTasksInput) ([]models.Task, int64, error) {
	statuses := []models.TaskStatus{
		models.TaskStatusPendente,
		models.TaskStatusEmAndamento,
		models.TaskStatusEmAnalise,
		models.TaskStatusReprovada,
	}
	if input.Status != nil {
		if !models.ValidTaskStatus(*input.Status) {
			return nil, 0, ErrInvalidTaskStatus
		}
		statuses = []models.TaskStatus{*input.Status}
	}

	filter := repository.TaskFilter{
		ProjectID:      input.ProjectID,
		Statuses:       statuses,
		InvolvedUserID: &input.UserID,
		Page:           input.Page,
		PageSize:       input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// recomputeProject rederives project status after a committed task mutation.
// Failures are logged, never surfaced: the next mutation triggers another
// recompute from committed state.
func (s *TaskService) recomputeProject(projectID uint64) {
	if err := s.projectService.Recompute(projectID); err != nil {
		log.Printf("project %d: status recompute failed: %v", projectID, err)
	}
}
