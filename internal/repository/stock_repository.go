package repository

import (
	"github.com/obraflow/obraflow-api/internal/models"
	"gorm.io/gorm"
)

// GormStockRepository is a GORM implementation of StockRepository
type GormStockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a new StockRepository
func NewStockRepository(db *gorm.DB) StockRepository {
	return &GormStockRepository{db: db}
}

// CreateItem creates a stock item
func (r *GormStockRepository) CreateItem(item *models.StockItem) error {
	return r.db.Create(item).Error
}

// FindItemByID finds a stock item by ID
func (r *GormStockRepository) FindItemByID(id uint64) (*models.StockItem, error) {
	var item models.StockItem
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems lists all stock items
func (r *GormStockRepository) ListItems() ([]models.StockItem, error) {
	var items []models.StockItem
	if err := r.db.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AllocatedQuantity sums the live allocations of a stock item
func (r *GormStockRepository) AllocatedQuantity(stockItemID uint64) (float64, error) {
	var allocated float64
	err := r.db.Model(&models.StockAllocation{}).
		Where("stock_item_id = ?", stockItemID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&allocated).Error
	return allocated, err
}

// CreateAllocation reserves a quantity for a task
func (r *GormStockRepository) CreateAllocation(allocation *models.StockAllocation) error {
	return r.db.Create(allocation).Error
}

// DeleteAllocation releases the reservation of one item for a task
func (r *GormStockRepository) DeleteAllocation(stockItemID, taskID uint64) error {
	return r.db.Where("stock_item_id = ? AND task_id = ?", stockItemID, taskID).
		Delete(&models.StockAllocation{}).Error
}

// DeleteAllocationsByTask releases every reservation held by a task
func (r *GormStockRepository) DeleteAllocationsByTask(taskID uint64) error {
	return r.db.Where("task_id = ?", taskID).
		Delete(&models.StockAllocation{}).Error
}
