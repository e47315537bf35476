package models

import (
	"time"
)

// Notification kinds
const (
	NotificationKindDelivery  = "ENTREGA"
	NotificationKindChecklist = "CHECKLIST"
	NotificationKindProject   = "PROJETO"
)

// Notification is a best-effort message to a user. Creation failures are
// logged by callers, never propagated.
type Notification struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Kind      string    `gorm:"type:varchar(30);not null" json:"kind"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
