package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPendente    TaskStatus = "PENDENTE"
	TaskStatusEmAndamento TaskStatus = "EM_ANDAMENTO"
	TaskStatusEmAnalise   TaskStatus = "EM_ANALISE"
	TaskStatusAprovada    TaskStatus = "APROVADA"
	TaskStatusReprovada   TaskStatus = "REPROVADA"
)

// ValidTaskStatus reports whether the given status is one of the known task statuses.
func ValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusPendente, TaskStatusEmAndamento, TaskStatusEmAnalise,
		TaskStatusAprovada, TaskStatusReprovada:
		return true
	}
	return false
}

// Task ("etapa") is a unit of work within a project. It carries its own
// checklist (JSON column) and a history of deliveries.
type Task struct {
	ID            uint64         `gorm:"primarykey" json:"id"`
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	ProjectID     uint64         `gorm:"not null" json:"project_id"`
	ExecutorID    uint64         `gorm:"not null" json:"executor_id"`
	ResponsavelID *uint64        `json:"responsavel_id"`
	Status        TaskStatus     `gorm:"type:varchar(20);not null;default:'PENDENTE'" json:"status"`
	Iniciada      bool           `gorm:"not null;default:false" json:"iniciada"`
	InsumosValue  float64        `gorm:"not null;default:0" json:"insumos_value"`
	DataInicio    *time.Time     `json:"data_inicio"`
	DataFim       *time.Time     `json:"data_fim"`
	Checklist     Checklist      `gorm:"type:json" json:"checklist"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project     Project          `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Executor    User             `gorm:"foreignKey:ExecutorID" json:"executor,omitempty"`
	Responsavel *User            `gorm:"foreignKey:ResponsavelID" json:"responsavel,omitempty"`
	TeamMembers []TaskTeamMember `gorm:"foreignKey:TaskID" json:"team_members,omitempty"`
	Deliveries  []Delivery       `gorm:"foreignKey:TaskID" json:"deliveries,omitempty"`
	Insumos     []TaskInsumo     `gorm:"foreignKey:TaskID" json:"insumos,omitempty"`
}

// AggregateComplete reports whether the task counts as complete for project
// status purposes: it reached EM_ANALISE/APROVADA, or its checklist is
// non-empty and every item is concluido.
func (t *Task) AggregateComplete() bool {
	if t.Status == TaskStatusEmAnalise || t.Status == TaskStatusAprovada {
		return true
	}
	return t.Checklist.AllConcluido()
}

// HasTeamMember reports whether the given user is on the task's team.
// TeamMembers must be preloaded.
func (t *Task) HasTeamMember(userID uint64) bool {
	for _, m := range t.TeamMembers {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

type TaskTeamMember struct {
	TaskID    uint64         `gorm:"primarykey" json:"task_id"`
	UserID    uint64         `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TaskInsumo is a quantity of a stock item consumed by a task. TotalCost is
// fixed at allocation time from the stock item's unit cost.
type TaskInsumo struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	TaskID      uint64         `gorm:"not null;index" json:"task_id"`
	StockItemID uint64         `gorm:"not null" json:"stock_item_id"`
	Quantity    float64        `gorm:"not null" json:"quantity"`
	TotalCost   float64        `gorm:"not null" json:"total_cost"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	StockItem StockItem `gorm:"foreignKey:StockItemID" json:"stock_item,omitempty"`
}
