package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock movement types.
const (
	MovementTypeIn         = "IN"
	MovementTypeOut        = "OUT"
	MovementTypeAdjustment = "ADJUSTMENT"
)

// Movement reference types; reference_id is interpreted in the namespace the
// type names (purchase id, order id, and so on).
const (
	ReferencePurchase   = "PURCHASE"
	ReferenceSale       = "SALE"
	ReferenceReturn     = "RETURN"
	ReferenceDamage     = "DAMAGE"
	ReferenceAdjustment = "ADJUSTMENT"
)

type Inventory struct {
	ID                int64      `db:"id" json:"id"`
	ProductID         int64      `db:"product_id" json:"product_id"`
	QuantityAvailable int64      `db:"quantity_available" json:"quantity_available"`
	QuantityReserved  int64      `db:"quantity_reserved" json:"quantity_reserved"`
	ReorderLevel      int64      `db:"reorder_level" json:"reorder_level"`
	MaxStockLevel     int64      `db:"max_stock_level" json:"max_stock_level"`
	LastRestockedAt   *time.Time `db:"last_restocked_at" json:"last_restocked_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// StockMovement rows are append-only; they are the audit trail for every
// quantity or cost change and are never updated or deleted.
type StockMovement struct {
	ID            int64               `db:"id" json:"id"`
	ProductID     int64               `db:"product_id" json:"product_id"`
	MovementType  string              `db:"movement_type" json:"movement_type"`
	Quantity      int64               `db:"quantity" json:"quantity"`
	ReferenceType string              `db:"reference_type" json:"reference_type"`
	ReferenceID   *int64              `db:"reference_id" json:"reference_id"`
	UnitCost      decimal.NullDecimal `db:"unit_cost" json:"unit_cost"`
	Notes         *string             `db:"notes" json:"notes"`
	CreatedBy     int64               `db:"created_by" json:"created_by"`
	CreatedAt     time.Time           `db:"created_at" json:"created_at"`
}

// InventoryLevel is an inventory row joined with its product summary.
type InventoryLevel struct {
	Inventory
	ProductSKU  string          `db:"product_sku" json:"product_sku"`
	ProductName string          `db:"product_name" json:"product_name"`
	CostPrice   decimal.Decimal `db:"cost_price" json:"cost_price"`
	IsActive    bool            `db:"is_active" json:"is_active"`
}

// CostMovement is a movement that carried a unit cost, joined with the
// display name of the actor who recorded it.
type CostMovement struct {
	MovementType string          `db:"movement_type" json:"movement_type"`
	Quantity     int64           `db:"quantity" json:"quantity"`
	UnitCost     decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	Notes        *string         `db:"notes" json:"notes"`
	CreatedBy    string          `db:"created_by" json:"created_by"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}
