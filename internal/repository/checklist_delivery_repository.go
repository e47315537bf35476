package repository

import (
	"github.com/obraflow/obraflow-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormChecklistDeliveryRepository is a GORM implementation of ChecklistDeliveryRepository
type GormChecklistDeliveryRepository struct {
	db *gorm.DB
}

// NewChecklistDeliveryRepository creates a new ChecklistDeliveryRepository
func NewChecklistDeliveryRepository(db *gorm.DB) ChecklistDeliveryRepository {
	return &GormChecklistDeliveryRepository{db: db}
}

// Upsert creates or overwrites the record at the delivery's key. The unique
// index on (task_id, item_index, sub_item_index) guarantees a single row per
// key; on conflict the whole submission is rewritten and the prior review
// fields are cleared.
func (r *GormChecklistDeliveryRepository) Upsert(delivery *models.ChecklistItemDelivery) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "task_id"},
				{Name: "item_index"},
				{Name: "sub_item_index"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":         delivery.Status,
				"description":    delivery.Description,
				"attachments":    delivery.Attachments,
				"image_url":      delivery.ImageURL,
				"submitter_id":   delivery.SubmitterID,
				"submitted_at":   delivery.SubmittedAt,
				"reviewer_id":    gorm.Expr("NULL"),
				"review_comment": "",
				"reviewed_at":    gorm.Expr("NULL"),
			}),
		}).
		Create(delivery).Error
}

// FindByKey finds the record at (taskID, itemIndex, subItemIndex)
func (r *GormChecklistDeliveryRepository) FindByKey(taskID uint64, itemIndex, subItemIndex int) (*models.ChecklistItemDelivery, error) {
	var delivery models.ChecklistItemDelivery
	if err := r.db.
		Where("task_id = ? AND item_index = ? AND sub_item_index = ?", taskID, itemIndex, subItemIndex).
		First(&delivery).Error; err != nil {
		return nil, err
	}
	return &delivery, nil
}

// ListByTask lists all checklist delivery records of a task
func (r *GormChecklistDeliveryRepository) ListByTask(taskID uint64) ([]models.ChecklistItemDelivery, error) {
	var deliveries []models.ChecklistItemDelivery
	if err := r.db.Preload("Submitter").Preload("Reviewer").
		Where("task_id = ?", taskID).
		Order("item_index ASC, sub_item_index ASC").
		Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// SaveWithTask saves a record and its task in one transaction. Used by the
// review path so the approval and the checklist flag commit together.
func (r *GormChecklistDeliveryRepository) SaveWithTask(delivery *models.ChecklistItemDelivery, task *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(delivery).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(task).Error
	})
}

// Update updates a record
func (r *GormChecklistDeliveryRepository) Update(delivery *models.ChecklistItemDelivery) error {
	return r.db.Omit(clause.Associations).Save(delivery).Error
}
