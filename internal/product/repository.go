package product

import (
	"context"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/model"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/product/dto"
)

type Repository interface {
	// Create inserts the product and seeds its zero-quantity inventory row in
	// the same transaction.
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, p *model.Product) error
	Deactivate(ctx context.Context, id int64) error
	UpdateImage(ctx context.Context, id int64, imageURL, publicID string) error
	IsSKUUnique(ctx context.Context, sku string, excludeID int64) (bool, error)
}
