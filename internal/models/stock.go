package models

import (
	"time"

	"gorm.io/gorm"
)

// StockItem is a quantity-tracked inventory item ("insumo") that tasks draw
// from. Quantity is the total on hand; availability subtracts allocations.
type StockItem struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Unit      string         `gorm:"type:varchar(50)" json:"unit"`
	Quantity  float64        `gorm:"not null;default:0" json:"quantity"`
	UnitCost  float64        `gorm:"not null;default:0" json:"unit_cost"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Allocations []StockAllocation `gorm:"foreignKey:StockItemID" json:"allocations,omitempty"`
}

// StockAllocation reserves a quantity of a stock item for a task.
type StockAllocation struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	StockItemID uint64         `gorm:"not null;index" json:"stock_item_id"`
	TaskID      uint64         `gorm:"not null;index" json:"task_id"`
	Quantity    float64        `gorm:"not null" json:"quantity"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	StockItem StockItem `gorm:"foreignKey:StockItemID" json:"stock_item,omitempty"`
}
