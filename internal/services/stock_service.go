package services

import (
	"errors"
	"fmt"

	"github.com/obraflow/obraflow-api/internal/models"
	"github.com/obraflow/obraflow-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrStockItemNotFound    = errors.New("stock item not found")
	ErrStockItemNameMissing = errors.New("stock item name is required")
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrInsufficientStock    = errors.New("insufficient stock available")
)

// StockService is the allocation ledger the task engine draws insumo
// quantities from. Tasks only ever call Allocate, Release and
// AvailableQuantity; item CRUD lives elsewhere.
type StockService struct {
	stockRepo repository.StockRepository
}

// NewStockService creates a new StockService
func NewStockService(stockRepo repository.StockRepository) *StockService {
	return &StockService{
		stockRepo: stockRepo,
	}
}

// CreateItem registers a new stock item.
func (s *StockService) CreateItem(item *models.StockItem) error {
	if item.Name == "" {
		return ErrStockItemNameMissing
	}
	if item.Quantity < 0 {
		return ErrInvalidQuantity
	}
	if err := s.stockRepo.CreateItem(item); err != nil {
		return fmt.Errorf("failed to create stock item: %w", err)
	}
	return nil
}

// AvailableQuantity returns the quantity on hand minus live allocations.
func (s *StockService) AvailableQuantity(stockItemID uint64) (float64, error) {
	item, err := s.stockRepo.FindItemByID(stockItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrStockItemNotFound
		}
		return 0, fmt.Errorf("failed to find stock item: %w", err)
	}

	allocated, err := s.stockRepo.AllocatedQuantity(stockItemID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum allocations: %w", err)
	}

	return item.Quantity - allocated, nil
}

// Allocate reserves a quantity of a stock item for a task.
func (s *StockService) Allocate(stockItemID, taskID uint64, quantity float64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	available, err := s.AvailableQuantity(stockItemID)
	if err != nil {
		return err
	}
	if available < quantity {
		return ErrInsufficientStock
	}

	allocation := &models.StockAllocation{
		StockItemID: stockItemID,
		TaskID:      taskID,
		Quantity:    quantity,
	}
	if err := s.stockRepo.CreateAllocation(allocation); err != nil {
		return fmt.Errorf("failed to create allocation: %w", err)
	}

	return nil
}

// Release drops the reservation of one stock item for a task.
func (s *StockService) Release(stockItemID, taskID uint64) error {
	if err := s.stockRepo.DeleteAllocation(stockItemID, taskID); err != nil {
		return fmt.Errorf("failed to release allocation: %w", err)
	}
	return nil
}

// ReleaseTask drops every reservation held by a task.
func (s *StockService) ReleaseTask(taskID uint64) error {
	if err := s.stockRepo.DeleteAllocationsByTask(taskID); err != nil {
		return fmt.Errorf("failed to release task allocations: %w", err)
	}
	return nil
}

// GetItem returns a stock item by ID.
func (s *StockService) GetItem(stockItemID uint64) (*models.StockItem, error) {
	item, err := s.stockRepo.FindItemByID(stockItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStockItemNotFound
		}
		return nil, fmt.Errorf("failed to find stock item: %w", err)
	}
	return item, nil
}

// ListItems lists all stock items.
func (s *StockService) ListItems() ([]models.StockItem, error) {
	items, err := s.stockRepo.ListItems()
	if err != nil {
		return nil, fmt.Errorf("failed to list stock items: %w", err)
	}
	return items, nil
}
