package dto

import (
	"time"

	"github.com/obraflow/obraflow-api/internal/models"
)

// DeliveryDTO represents a task-level delivery in API responses
type DeliveryDTO struct {
	ID            uint64                `json:"id"`
	TaskID        uint64                `json:"task_id"`
	Status        models.DeliveryStatus `json:"status"`
	Description   string                `json:"description"`
	ImageURL      string                `json:"image_url,omitempty"`
	SubmitterID   uint64                `json:"submitter_id"`
	ReviewerID    *uint64               `json:"reviewer_id,omitempty"`
	ReviewComment string                `json:"review_comment,omitempty"`
	SubmittedAt   time.Time             `json:"submitted_at"`
	ReviewedAt    *time.Time            `json:"reviewed_at,omitempty"`
	Submitter     *UserDTO              `json:"submitter,omitempty"`
	Reviewer      *UserDTO              `json:"reviewer,omitempty"`
}

// ToDeliveryDTO converts a Delivery model to DeliveryDTO
func ToDeliveryDTO(delivery models.Delivery) DeliveryDTO {
	dto := DeliveryDTO{
		ID:            delivery.ID,
		TaskID:        delivery.TaskID,
		Status:        delivery.Status,
		Description:   delivery.Description,
		ImageURL:      delivery.ImageURL,
		SubmitterID:   delivery.SubmitterID,
		ReviewerID:    delivery.ReviewerID,
		ReviewComment: delivery.ReviewComment,
		SubmittedAt:   delivery.SubmittedAt,
		ReviewedAt:    delivery.ReviewedAt,
	}

	if delivery.Submitter.ID != 0 {
		submitter := ToUserDTO(delivery.Submitter)
		dto.Submitter = &submitter
	}
	if delivery.Reviewer != nil && delivery.Reviewer.ID != 0 {
		reviewer := ToUserDTO(*delivery.Reviewer)
		dto.Reviewer = &reviewer
	}

	return dto
}

// ChecklistDeliveryDTO represents a checklist item submission in API responses
type ChecklistDeliveryDTO struct {
	ID            uint64                         `json:"id"`
	TaskID        uint64                         `json:"task_id"`
	ItemIndex     int                            `json:"item_index"`
	SubItemIndex  *int                           `json:"sub_item_index,omitempty"`
	Status        models.ChecklistDeliveryStatus `json:"status"`
	Description   string                         `json:"description,omitempty"`
	Attachments   []models.Attachment            `json:"attachments"`
	ImageURL      string                         `json:"image_url,omitempty"`
	SubmitterID   uint64                         `json:"submitter_id"`
	ReviewerID    *uint64                        `json:"reviewer_id,omitempty"`
	ReviewComment string                         `json:"review_comment,omitempty"`
	SubmittedAt   time.Time                      `json:"submitted_at"`
	ReviewedAt    *time.Time                     `json:"reviewed_at,omitempty"`
}

// ToChecklistDeliveryDTO converts a ChecklistItemDelivery model to its DTO
func ToChecklistDeliveryDTO(delivery models.ChecklistItemDelivery) ChecklistDeliveryDTO {
	attachments := []models.Attachment(delivery.Attachments)
	if attachments == nil {
		attachments = []models.Attachment{}
	}

	dto := ChecklistDeliveryDTO{
		ID:            delivery.ID,
		TaskID:        delivery.TaskID,
		ItemIndex:     delivery.ItemIndex,
		Status:        delivery.Status,
		Description:   delivery.Description,
		Attachments:   attachments,
		ImageURL:      delivery.ImageURL,
		SubmitterID:   delivery.SubmitterID,
		ReviewerID:    delivery.ReviewerID,
		ReviewComment: delivery.ReviewComment,
		SubmittedAt:   delivery.SubmittedAt,
		ReviewedAt:    delivery.ReviewedAt,
	}

	if delivery.SubItemIndex != models.SubItemNone {
		subIndex := delivery.SubItemIndex
		dto.SubItemIndex = &subIndex
	}

	return dto
}
