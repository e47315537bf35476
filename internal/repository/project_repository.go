package repository

import (
	"github.com/obraflow/obraflow-api/internal/database"
	"github.com/obraflow/obraflow-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a project; nested Responsibles are created with it.
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// List retrieves projects with pagination
func (r *GormProjectRepository) List(page, pageSize int) ([]models.Project, int64, error) {
	var projects []models.Project

	query := r.db.Model(&models.Project{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("projects.created_at DESC").
		Scopes(database.Paginate(page, pageSize))

	if err := listQuery.Preload("Supervisor").Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Omit(clause.Associations).Save(project).Error
}

// UpdateDerived writes the recomputed insumos value and status in one statement.
func (r *GormProjectRepository) UpdateDerived(projectID uint64, insumosValue float64, status models.ProjectStatus) error {
	return r.db.Model(&models.Project{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{
			"insumos_value": insumosValue,
			"status":        status,
		}).Error
}

// ListResponsibles lists the project's responsibles with users preloaded
func (r *GormProjectRepository) ListResponsibles(projectID uint64) ([]models.ProjectResponsible, error) {
	var responsibles []models.ProjectResponsible
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Find(&responsibles).Error; err != nil {
		return nil, err
	}
	return responsibles, nil
}
