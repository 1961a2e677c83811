package dto

import (
	"github.com/shopspring/decimal"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/model"
)

type AdjustStockResult struct {
	PreviousQuantity int64            `json:"previous_quantity"`
	NewQuantity      int64            `json:"new_quantity"`
	NewCostPrice     *decimal.Decimal `json:"new_cost_price,omitempty"`
}

type MovementFilters struct {
	ProductID    *int64
	MovementType string
	Limit        int
	Offset       int
}

type InventorySummary struct {
	TotalProducts   int64           `db:"total_products" json:"total_products"`
	TotalValue      decimal.Decimal `db:"total_value" json:"total_value"`
	LowStockCount   int64           `db:"low_stock_count" json:"low_stock_count"`
	OutOfStockCount int64           `db:"out_of_stock_count" json:"out_of_stock_count"`
	TotalQuantity   int64           `db:"total_quantity" json:"total_quantity"`
}

type CostHistory struct {
	CurrentCostPrice decimal.Decimal      `json:"current_cost_price"`
	Movements        []model.CostMovement `json:"movements"`
}
