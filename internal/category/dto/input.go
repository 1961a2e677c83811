package dto

type CreateCategoryInput struct {
	Name        string
	Description string
	SortOrder   int
}

type UpdateCategoryInput struct {
	ID          int64
	Name        string
	Description string
	SortOrder   int
	IsActive    bool
}
