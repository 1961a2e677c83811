package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/inventory/dto"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/model"
)

// TxRepository is the slice of the repository visible inside one database
// transaction. GetForUpdate must take a row lock so concurrent mutations on
// the same product serialize; callers read, compute, and write before commit.
type TxRepository interface {
	GetForUpdate(ctx context.Context, productID int64) (*model.Inventory, error)
	GetProductCostForUpdate(ctx context.Context, productID int64) (decimal.Decimal, error)
	UpdateQuantities(ctx context.Context, inv *model.Inventory) error
	UpdateProductCost(ctx context.Context, productID int64, cost decimal.Decimal) error
	InsertMovement(ctx context.Context, m *model.StockMovement) error
}

type Repository interface {
	// WithinTx runs fn inside a single transaction; a returned error rolls
	// everything back.
	WithinTx(ctx context.Context, fn func(tx TxRepository) error) error

	FindLevels(ctx context.Context, includeInactive bool) ([]model.InventoryLevel, error)
	FindLowStock(ctx context.Context) ([]model.InventoryLevel, error)
	Summary(ctx context.Context) (*dto.InventorySummary, error)
	FindMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
	FindCostMovements(ctx context.Context, productID int64, limit int) ([]model.CostMovement, error)
	GetProductCost(ctx context.Context, productID int64) (decimal.Decimal, error)
}
