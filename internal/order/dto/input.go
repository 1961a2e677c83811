package dto

import "github.com/shopspring/decimal"

type OrderItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type CreateOrderInput struct {
	CustomerName  string           `json:"customer_name"`
	Phone         string           `json:"phone"`
	AddressLine   string           `json:"address_line"`
	City          string           `json:"city"`
	PaymentMethod string           `json:"payment_method"`
	ShippingFee   decimal.Decimal  `json:"shipping_fee"`
	Notes         string           `json:"notes"`
	Items         []OrderItemInput `json:"items"`
}
