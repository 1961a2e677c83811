package dto

import "github.com/shopspring/decimal"

type AdjustStockInput struct {
	ProductID     int64
	Quantity      int64 // signed for ADJUSTMENT, positive for IN/OUT
	MovementType  string
	ReferenceType string
	ReferenceID   *int64
	Notes         string
	UnitCost      *decimal.Decimal
	ActorID       int64
}
