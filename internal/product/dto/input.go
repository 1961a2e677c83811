package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	CategoryID  *int64
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	CostPrice   decimal.Decimal
}

type UpdateProductInput struct {
	ID          int64
	CategoryID  *int64
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	IsActive    bool
}
