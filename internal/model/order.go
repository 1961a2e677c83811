package model

import "github.com/shopspring/decimal"

// Order lifecycle statuses.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

const (
	PaymentMethodCOD  = "COD"
	PaymentMethodCard = "CARD"

	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
)

type Order struct {
	BaseModel
	OrderNumber   string          `db:"order_number" json:"order_number"`
	CustomerName  string          `db:"customer_name" json:"customer_name"`
	Phone         string          `db:"phone" json:"phone"`
	AddressLine   string          `db:"address_line" json:"address_line"`
	City          string          `db:"city" json:"city"`
	Status        string          `db:"status" json:"status"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	PaymentStatus string          `db:"payment_status" json:"payment_status"`
	Subtotal      decimal.Decimal `db:"subtotal" json:"subtotal"`
	ShippingFee   decimal.Decimal `db:"shipping_fee" json:"shipping_fee"`
	Total         decimal.Decimal `db:"total" json:"total"`
	Notes         *string         `db:"notes" json:"notes"`
	Items         []OrderItem     `db:"-" json:"items,omitempty"`
}

type OrderItem struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	ProductID int64           `db:"product_id" json:"product_id"`
	Quantity  int64           `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
}
