package model

import "time"

// Delivery statuses mirror the courier's coarse lifecycle.
const (
	DeliveryStatusCreated   = "CREATED"
	DeliveryStatusInTransit = "IN_TRANSIT"
	DeliveryStatusDelivered = "DELIVERED"
	DeliveryStatusReturned  = "RETURNED"
)

type Delivery struct {
	BaseModel
	OrderID       int64      `db:"order_id" json:"order_id"`
	Provider      string     `db:"provider" json:"provider"`
	WaybillID     *string    `db:"waybill_id" json:"waybill_id"`
	CityID        int64      `db:"city_id" json:"city_id"`
	DistrictID    int64      `db:"district_id" json:"district_id"`
	Status        string     `db:"status" json:"status"`
	StatusDetail  *string    `db:"status_detail" json:"status_detail"`
	LastCheckedAt *time.Time `db:"last_checked_at" json:"last_checked_at"`
}
