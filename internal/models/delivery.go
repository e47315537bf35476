package models

import (
	"time"

	"gorm.io/gorm"
)

type DeliveryStatus string

const (
	DeliveryStatusEmAnalise DeliveryStatus = "EM_ANALISE"
	DeliveryStatusAprovada  DeliveryStatus = "APROVADA"
	DeliveryStatusRecusada  DeliveryStatus = "RECUSADA"
)

// Delivery ("entrega") is task-level evidence submitted for review. At most
// one delivery per task may be EM_ANALISE at a time; this is enforced by only
// allowing submission while the task itself is in a deliverable status.
type Delivery struct {
	ID            uint64         `gorm:"primarykey" json:"id"`
	TaskID        uint64         `gorm:"not null;index" json:"task_id"`
	Status        DeliveryStatus `gorm:"type:varchar(20);not null;default:'EM_ANALISE'" json:"status"`
	Description   string         `gorm:"type:text;not null" json:"description"`
	ImageURL      string         `gorm:"type:varchar(512)" json:"image_url"`
	SubmitterID   uint64         `gorm:"not null" json:"submitter_id"`
	ReviewerID    *uint64        `json:"reviewer_id"`
	ReviewComment string         `gorm:"type:text" json:"review_comment"`
	SubmittedAt   time.Time      `json:"submitted_at"`
	ReviewedAt    *time.Time     `json:"reviewed_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task      Task  `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Submitter User  `gorm:"foreignKey:SubmitterID" json:"submitter,omitempty"`
	Reviewer  *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}
