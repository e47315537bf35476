package dto

import (
	"time"

	"github.com/obraflow/obraflow-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID           uint64               `json:"id"`
	Name         string               `json:"name"`
	Description  string               `json:"description,omitempty"`
	TotalValue   float64              `json:"total_value"`
	InsumosValue float64              `json:"insumos_value"`
	Status       models.ProjectStatus `json:"status"`
	SupervisorID uint64               `json:"supervisor_id"`
	Supervisor   *UserDTO             `json:"supervisor,omitempty"`
	Responsibles []UserDTO            `json:"responsibles,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:           project.ID,
		Name:         project.Name,
		Description:  project.Description,
		TotalValue:   project.TotalValue,
		InsumosValue: project.InsumosValue,
		Status:       project.Status,
		SupervisorID: project.SupervisorID,
		CreatedAt:    project.CreatedAt,
		UpdatedAt:    project.UpdatedAt,
	}

	if project.Supervisor.ID != 0 {
		supervisor := ToUserDTO(project.Supervisor)
		dto.Supervisor = &supervisor
	}

	for _, r := range project.Responsibles {
		if r.User.ID != 0 {
			dto.Responsibles = append(dto.Responsibles, ToUserDTO(r.User))
		}
	}

	return dto
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO `json:"projects"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalCount int64        `json:"total_count"`
}

// ToProjectListResponse converts a slice of projects to ProjectListResponse
func ToProjectListResponse(projects []models.Project, page, pageSize int, totalCount int64) ProjectListResponse {
	items := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectDTO(project)
	}

	return ProjectListResponse{
		Projects:   items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
