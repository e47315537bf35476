package dto

import (
	"time"

	"github.com/obraflow/obraflow-api/internal/models"
)

// StockItemDTO represents a stock item in API responses
type StockItemDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
	Quantity  float64   `json:"quantity"`
	Available float64   `json:"available"`
	UnitCost  float64   `json:"unit_cost"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToStockItemDTO converts a StockItem model to StockItemDTO. Available
// quantity is computed by the service and passed alongside the model.
func ToStockItemDTO(item models.StockItem, available float64) StockItemDTO {
	return StockItemDTO{
		ID:        item.ID,
		Name:      item.Name,
		Unit:      item.Unit,
		Quantity:  item.Quantity,
		Available: available,
		UnitCost:  item.UnitCost,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}
