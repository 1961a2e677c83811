package delivery

import (
	"context"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/delivery/dto"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/delivery/koombiyo"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/model"
)

type UseCase interface {
	// CreateDelivery registers the order with the courier and marks it shipped.
	CreateDelivery(ctx context.Context, input *dto.CreateDeliveryInput) (*model.Delivery, error)
	GetDeliveryByOrder(ctx context.Context, orderID int64) (*model.Delivery, error)
	ListDeliveries(ctx context.Context, status string) ([]model.Delivery, error)
	// RefreshTracking pulls the courier's latest status for the waybill and
	// folds terminal states back into the order.
	RefreshTracking(ctx context.Context, deliveryID int64) (*model.Delivery, error)
	ListDistricts(ctx context.Context) ([]koombiyo.District, error)
	ListCities(ctx context.Context, districtID int64) ([]koombiyo.City, error)
}
