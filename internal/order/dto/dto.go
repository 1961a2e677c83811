package dto

type OrderFilters struct {
	Status        string
	PaymentStatus string
	SearchQuery   string
	Page          int
	PageSize      int
}
