package dto

type CreateDeliveryInput struct {
	OrderID    int64  `json:"order_id"`
	CityID     int64  `json:"city_id"`
	DistrictID int64  `json:"district_id"`
	Notes      string `json:"notes"`
}
