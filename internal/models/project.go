package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusEmAndamento ProjectStatus = "EM_ANDAMENTO"
	ProjectStatusFinalizado  ProjectStatus = "FINALIZADO"
)

// Project is the top-level unit of work. Its status and insumos_value are
// derived from the project's tasks and recomputed after every task mutation;
// they are never set directly except by the explicit finalize action.
type Project struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	TotalValue   float64        `gorm:"not null;default:0" json:"total_value"`
	InsumosValue float64        `gorm:"not null;default:0" json:"insumos_value"`
	Status       ProjectStatus  `gorm:"type:varchar(20);not null;default:'EM_ANDAMENTO'" json:"status"`
	SupervisorID uint64         `gorm:"not null" json:"supervisor_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Supervisor   User                 `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`
	Responsibles []ProjectResponsible `gorm:"foreignKey:ProjectID" json:"responsibles,omitempty"`
	Tasks        []Task               `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}

type ProjectResponsible struct {
	ProjectID uint64         `gorm:"primarykey" json:"project_id"`
	UserID    uint64         `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
