package dto

type ProductFilters struct {
	CategoryID  *int64
	IsActive    *bool
	SearchQuery string
	SortBy      string
	SortOrder   string
	Page        int
	PageSize    int
}
