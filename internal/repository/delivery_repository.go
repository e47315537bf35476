package repository

import (
	"github.com/obraflow/obraflow-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDeliveryRepository is a GORM implementation of DeliveryRepository
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository creates a new DeliveryRepository
func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// CreateWithTask creates a delivery and saves the task in one transaction, so
// the delivery row and the task status flip commit together.
func (r *GormDeliveryRepository) CreateWithTask(delivery *models.Delivery, task *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(delivery).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(task).Error
	})
}

// FindByID finds a delivery by ID
func (r *GormDeliveryRepository) FindByID(id uint64) (*models.Delivery, error) {
	var delivery models.Delivery
	if err := r.db.First(&delivery, id).Error; err != nil {
		return nil, err
	}
	return &delivery, nil
}

// ListByTask lists all deliveries of a task, newest first
func (r *GormDeliveryRepository) ListByTask(taskID uint64) ([]models.Delivery, error) {
	var deliveries []models.Delivery
	if err := r.db.Preload("Submitter").Preload("Reviewer").
		Where("task_id = ?", taskID).
		Order("submitted_at DESC").
		Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// ListPendingByTask lists the task's deliveries currently EM_ANALISE
func (r *GormDeliveryRepository) ListPendingByTask(taskID uint64) ([]models.Delivery, error) {
	var deliveries []models.Delivery
	if err := r.db.
		Where("task_id = ? AND status = ?", taskID, models.DeliveryStatusEmAnalise).
		Order("submitted_at DESC").
		Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// Update updates a delivery
func (r *GormDeliveryRepository) Update(delivery *models.Delivery) error {
	return r.db.Omit(clause.Associations).Save(delivery).Error
}

// SaveWithTask saves a delivery and its task in one transaction. Used by
// approve/reject so the review and the task status change commit together.
func (r *GormDeliveryRepository) SaveWithTask(delivery *models.Delivery, task *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(delivery).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(task).Error
	})
}
