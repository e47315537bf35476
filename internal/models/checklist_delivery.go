package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type ChecklistDeliveryStatus string

const (
	ChecklistDeliveryStatusEmAnalise ChecklistDeliveryStatus = "EM_ANALISE"
	ChecklistDeliveryStatusAprovado  ChecklistDeliveryStatus = "APROVADO"
	ChecklistDeliveryStatusReprovado ChecklistDeliveryStatus = "REPROVADO"
)

// SubItemNone marks a checklist delivery that targets a top-level item
// rather than a sub-item.
const SubItemNone = -1

// Attachment is a reference to submitted evidence (image or document).
type Attachment struct {
	URL  string `json:"url"`
	Kind string `json:"kind,omitempty"`
	Name string `json:"name,omitempty"`
}

// AttachmentList is a JSON-serialized list of evidence attachments.
type AttachmentList []Attachment

func (a AttachmentList) Value() (driver.Value, error) {
	list := []Attachment(a)
	if list == nil {
		list = []Attachment{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal attachments: %w", err)
	}
	return data, nil
}

func (a *AttachmentList) Scan(value interface{}) error {
	if value == nil {
		*a = AttachmentList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported attachments column type %T", value)
	}

	if len(data) == 0 {
		*a = AttachmentList{}
		return nil
	}
	return json.Unmarshal(data, (*[]Attachment)(a))
}

func (AttachmentList) GormDataType() string {
	return "json"
}

// ChecklistItemDelivery is the approval record for one checklist item or
// sub-item, keyed by (task, item index, sub-item index). At most one record
// exists per key; resubmitting overwrites the record and resets it to
// EM_ANALISE, clearing the previous review.
type ChecklistItemDelivery struct {
	ID            uint64                  `gorm:"primarykey" json:"id"`
	TaskID        uint64                  `gorm:"not null;uniqueIndex:idx_checklist_delivery_key" json:"task_id"`
	ItemIndex     int                     `gorm:"not null;uniqueIndex:idx_checklist_delivery_key" json:"item_index"`
	SubItemIndex  int                     `gorm:"not null;default:-1;uniqueIndex:idx_checklist_delivery_key" json:"sub_item_index"`
	Status        ChecklistDeliveryStatus `gorm:"type:varchar(20);not null;default:'EM_ANALISE'" json:"status"`
	Description   string                  `gorm:"type:text" json:"description"`
	Attachments   AttachmentList          `gorm:"type:json" json:"attachments"`
	ImageURL      string                  `gorm:"type:varchar(512)" json:"image_url"`
	SubmitterID   uint64                  `gorm:"not null" json:"submitter_id"`
	ReviewerID    *uint64                 `json:"reviewer_id"`
	ReviewComment string                  `gorm:"type:text" json:"review_comment"`
	SubmittedAt   time.Time               `json:"submitted_at"`
	ReviewedAt    *time.Time              `json:"reviewed_at"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`

	// Relations
	Task      Task  `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Submitter User  `gorm:"foreignKey:SubmitterID" json:"submitter,omitempty"`
	Reviewer  *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}
