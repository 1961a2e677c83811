package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	CategoryID    *int64          `db:"category_id" json:"category_id"`
	SKU           string          `db:"sku" json:"sku"`
	Name          string          `db:"name" json:"name"`
	Description   *string         `db:"description" json:"description"`
	Price         decimal.Decimal `db:"price" json:"price"`
	CostPrice     decimal.Decimal `db:"cost_price" json:"cost_price"`
	ImageURL      *string         `db:"image_url" json:"image_url"`
	ImagePublicID *string         `db:"image_public_id" json:"-"`
	IsActive      bool            `db:"is_active" json:"is_active"`
	Category      *Category       `db:"-" json:"category,omitempty"`
}
