package delivery

import (
	"context"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/model"
)

type Repository interface {
	Create(ctx context.Context, d *model.Delivery) error
	FindByID(ctx context.Context, id int64) (*model.Delivery, error)
	FindByOrderID(ctx context.Context, orderID int64) (*model.Delivery, error)
	FindAll(ctx context.Context, status string) ([]model.Delivery, error)
	UpdateStatus(ctx context.Context, id int64, status string, detail *string) error
}
