package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type DateRange struct {
	From time.Time
	To   time.Time
}

type SalesSummary struct {
	OrderCount   int             `db:"order_count" json:"order_count"`
	ItemsSold    int64           `db:"items_sold" json:"items_sold"`
	GrossRevenue decimal.Decimal `db:"gross_revenue" json:"gross_revenue"`
	ShippingFees decimal.Decimal `db:"shipping_fees" json:"shipping_fees"`
	CostOfGoods  decimal.Decimal `db:"cost_of_goods" json:"cost_of_goods"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
}

type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int    `db:"count" json:"count"`
}

type TopProduct struct {
	ProductID    int64           `db:"product_id" json:"product_id"`
	SKU          string          `db:"sku" json:"sku"`
	Name         string          `db:"name" json:"name"`
	QuantitySold int64           `db:"quantity_sold" json:"quantity_sold"`
	Revenue      decimal.Decimal `db:"revenue" json:"revenue"`
}
