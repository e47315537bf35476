package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/obraflow/obraflow-api/internal/dto"
	apierrors "github.com/obraflow/obraflow-api/internal/errors"
	"github.com/obraflow/obraflow-api/internal/models"
	"github.com/obraflow/obraflow-api/internal/services"
)

// StockHandler coordinates stock ledger HTTP handlers.
type StockHandler struct {
	stockService *services.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService *services.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// CreateItem registers a new stock item.
func (h *StockHandler) CreateItem(c *gin.Context) {
	type CreateItemRequest struct {
		Name     string  `json:"name" binding:"required"`
		Unit     string  `json:"unit"`
		Quantity float64 `json:"quantity"`
		UnitCost float64 `json:"unit_cost"`
	}

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item := &models.StockItem{
		Name:     req.Name,
		Unit:     req.Unit,
		Quantity: req.Quantity,
		UnitCost: req.UnitCost,
	}
	if err := h.stockService.CreateItem(item); err != nil {
		respondStockError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToStockItemDTO(*item, item.Quantity))
}

// ListItems lists the stock items with their available quantities.
func (h *StockHandler) ListItems(c *gin.Context) {
	items, err := h.stockService.ListItems()
	if err != nil {
		respondStockError(c, err)
		return
	}

	result := make([]dto.StockItemDTO, len(items))
	for i, item := range items {
		available, err := h.stockService.AvailableQuantity(item.ID)
		if err != nil {
			respondStockError(c, err)
			return
		}
		result[i] = dto.ToStockItemDTO(item, available)
	}

	c.JSON(http.StatusOK, gin.H{
		"items": result,
	})
}

// GetAvailability returns the available quantity of one stock item.
func (h *StockHandler) GetAvailability(c *gin.Context) {
	stockItemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid stock item ID")
		return
	}

	item, err := h.stockService.GetItem(stockItemID)
	if err != nil {
		respondStockError(c, err)
		return
	}

	available, err := h.stockService.AvailableQuantity(stockItemID)
	if err != nil {
		respondStockError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStockItemDTO(*item, available))
}

func respondStockError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrStockItemNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrStockItemNameMissing),
		errors.Is(err, services.ErrInvalidQuantity):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInsufficientStock):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
