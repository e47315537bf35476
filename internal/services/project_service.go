package services

import (
	"errors"
	"fmt"

	"github.com/obraflow/obraflow-api/internal/models"
	"github.com/obraflow/obraflow-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectNameRequired = errors.New("project name is required")
)

// ProjectService owns project CRUD and the derived-status aggregation that
// runs after every task mutation.
type ProjectService struct {
	projectRepo         repository.ProjectRepository
	taskRepo            repository.TaskRepository
	notificationService *NotificationService
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, notificationService *NotificationService) *ProjectService {
	return &ProjectService{
		projectRepo:         projectRepo,
		taskRepo:            taskRepo,
		notificationService: notificationService,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name           string
	Description    string
	TotalValue     float64
	SupervisorID   uint64
	ResponsibleIDs []uint64
}

// CreateProject creates a new project with its responsibles.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if input.Name == "" {
		return nil, ErrProjectNameRequired
	}

	project := &models.Project{
		Name:         input.Name,
		Description:  input.Description,
		TotalValue:   input.TotalValue,
		Status:       models.ProjectStatusEmAndamento,
		SupervisorID: input.SupervisorID,
	}
	for _, userID := range uniqueUint64(input.ResponsibleIDs) {
		project.Responsibles = append(project.Responsibles, models.ProjectResponsible{UserID: userID})
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID, "Supervisor", "Responsibles", "Responsibles.User")
}

// GetProject returns a project with related data.
func (s *ProjectService) GetProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID, "Supervisor", "Responsibles", "Responsibles.User", "Tasks")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// ListProjects lists projects with pagination.
func (s *ProjectService) ListProjects(page, pageSize int) ([]models.Project, int64, error) {
	projects, total, err := s.projectRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// Finalize explicitly marks a project FINALIZADO. This is the only direct
// status write; everything else goes through Recompute.
func (s *ProjectService) Finalize(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if project.Status != models.ProjectStatusFinalizado {
		project.Status = models.ProjectStatusFinalizado
		if err := s.projectRepo.Update(project); err != nil {
			return nil, fmt.Errorf("failed to finalize project: %w", err)
		}
		s.notifyFinalized(project)
	}

	return project, nil
}

// Recompute rederives the project's insumos value and status from its current
// task set. It is idempotent and writes only when a value actually changed.
//
// With zero tasks the insumos value is reset to 0 and the status left
// untouched; that asymmetry is long-standing documented behavior.
func (s *ProjectService) Recompute(projectID uint64) error {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	tasks, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return fmt.Errorf("failed to load project tasks: %w", err)
	}

	if len(tasks) == 0 {
		if project.InsumosValue != 0 {
			if err := s.projectRepo.UpdateDerived(projectID, 0, project.Status); err != nil {
				return fmt.Errorf("failed to write derived project values: %w", err)
			}
		}
		return nil
	}

	var insumosValue float64
	allComplete := true
	for i := range tasks {
		insumosValue += tasks[i].InsumosValue
		if !tasks[i].AggregateComplete() {
			allComplete = false
		}
	}

	status := models.ProjectStatusEmAndamento
	if allComplete {
		status = models.ProjectStatusFinalizado
	}

	if project.InsumosValue == insumosValue && project.Status == status {
		return nil
	}

	if err := s.projectRepo.UpdateDerived(projectID, insumosValue, status); err != nil {
		return fmt.Errorf("failed to write derived project values: %w", err)
	}

	if status == models.ProjectStatusFinalizado && project.Status != models.ProjectStatusFinalizado {
		s.notifyFinalized(project)
	}

	return nil
}

func (s *ProjectService) notifyFinalized(project *models.Project) {
	title := "Projeto finalizado"
	message := fmt.Sprintf("O projeto %q foi finalizado.", project.Name)

	s.notificationService.Notify(project.SupervisorID, title, message, models.NotificationKindProject)

	responsibles, err := s.projectRepo.ListResponsibles(project.ID)
	if err != nil {
		// Best-effort: the status write already committed.
		return
	}
	for _, r := range responsibles {
		if r.UserID == project.SupervisorID {
			continue
		}
		s.notificationService.Notify(r.UserID, title, message, models.NotificationKindProject)
	}
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
