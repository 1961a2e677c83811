package inventory

import (
	"context"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/inventory/dto"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/model"
)

type UseCase interface {
	// Reservation lifecycle. None of these write movement rows; only
	// AdjustStock feeds the ledger.
	ReserveStock(ctx context.Context, productID, quantity int64) (*model.Inventory, error)
	ReleaseStock(ctx context.Context, productID, quantity int64) (*model.Inventory, error)
	ConfirmStock(ctx context.Context, productID, quantity int64) (*model.Inventory, error)

	// AdjustStock is the only path that appends to the movement ledger and
	// the only path that can move the product's weighted-average cost.
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*dto.AdjustStockResult, error)

	GetInventoryLevels(ctx context.Context, includeInactive bool) ([]model.InventoryLevel, error)
	GetLowStockItems(ctx context.Context) ([]model.InventoryLevel, error)
	GetInventorySummary(ctx context.Context) (*dto.InventorySummary, error)
	GetStockMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
	GetCostHistory(ctx context.Context, productID int64, limit int) (*dto.CostHistory, error)
}
