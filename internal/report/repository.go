package report

import (
	"context"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/report/dto"
)

type Repository interface {
	SalesSummary(ctx context.Context, r dto.DateRange) (*dto.SalesSummary, error)
	OrdersByStatus(ctx context.Context, r dto.DateRange) ([]dto.StatusCount, error)
	TopProducts(ctx context.Context, r dto.DateRange, limit int) ([]dto.TopProduct, error)
}
