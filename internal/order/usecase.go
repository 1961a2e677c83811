package order

import (
	"context"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/model"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/order/dto"
)

type UseCase interface {
	// CreateOrder reserves stock for every line before the order row is
	// written; a failed line releases the holds taken so far.
	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	ConfirmOrder(ctx context.Context, id int64) (*model.Order, error)
	// ShipOrder turns each line's reservation into a permanent deduction.
	ShipOrder(ctx context.Context, id int64) (*model.Order, error)
	MarkDelivered(ctx context.Context, id int64) (*model.Order, error)
	MarkPaid(ctx context.Context, id int64) (*model.Order, error)
	// CancelOrder releases every line's reservation. Only orders that have
	// not shipped can be cancelled.
	CancelOrder(ctx context.Context, id int64) (*model.Order, error)
}
