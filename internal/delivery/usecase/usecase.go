package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/apperr"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/delivery"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/delivery/dto"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/delivery/koombiyo"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/model"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/order"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/logger"
)

const providerKoombiyo = "koombiyo"

type deliveryUC struct {
	repo    delivery.Repository
	orderUC order.UseCase
	courier *koombiyo.Client
	logger  logger.Logger
}

func NewDeliveryUseCase(repo delivery.Repository, orderUC order.UseCase, courier *koombiyo.Client, logger logger.Logger) delivery.UseCase {
	return &deliveryUC{
		repo:    repo,
		orderUC: orderUC,
		courier: courier,
		logger:  logger,
	}
}

func (u *deliveryUC) CreateDelivery(ctx context.Context, input *dto.CreateDeliveryInput) (*model.Delivery, error) {
	if input.CityID <= 0 || input.DistrictID <= 0 {
		return nil, apperr.Wrap(apperr.ErrValidation, "city_id and district_id are required")
	}

	o, err := u.orderUC.GetOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if o.Status != model.OrderStatusConfirmed {
		return nil, apperr.Wrap(apperr.ErrValidation, "only confirmed orders can be handed to the courier, order is %s", o.Status)
	}

	if existing, err := u.repo.FindByOrderID(ctx, input.OrderID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Wrap(apperr.ErrConflict, "order %d already has a delivery", input.OrderID)
	}

	waybill := newWaybillID()
	cod := "0"
	if o.PaymentMethod == model.PaymentMethodCOD {
		cod = o.Total.StringFixed(2)
	}

	err = u.courier.AddOrder(ctx, &koombiyo.AddOrderInput{
		WaybillID:     waybill,
		OrderNumber:   o.OrderNumber,
		ReceiverName:  o.CustomerName,
		ReceiverPhone: o.Phone,
		Address:       o.AddressLine,
		CityID:        input.CityID,
		DistrictID:    input.DistrictID,
		Description:   input.Notes,
		CODAmount:     cod,
	})
	if err != nil {
		return nil, err
	}

	d := &model.Delivery{
		OrderID:    input.OrderID,
		Provider:   providerKoombiyo,
		WaybillID:  &waybill,
		CityID:     input.CityID,
		DistrictID: input.DistrictID,
		Status:     model.DeliveryStatusCreated,
	}
	if err := u.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	// The reservation becomes a deduction once the parcel is with the courier.
	if _, err := u.orderUC.ShipOrder(ctx, input.OrderID); err != nil {
		u.logger.Error("delivery created but order could not be shipped",
			zap.Int64("order_id", input.OrderID),
			zap.String("waybill_id", waybill),
			zap.Error(err))
		return nil, err
	}

	u.logger.Info("delivery created",
		zap.Int64("order_id", input.OrderID),
		zap.String("waybill_id", waybill))
	return d, nil
}

func (u *deliveryUC) GetDeliveryByOrder(ctx context.Context, orderID int64) (*model.Delivery, error) {
	d, err := u.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.Wrap(apperr.ErrNotFound, "no delivery for order %d", orderID)
	}
	return d, nil
}

func (u *deliveryUC) ListDeliveries(ctx context.Context, status string) ([]model.Delivery, error) {
	return u.repo.FindAll(ctx, status)
}

func (u *deliveryUC) RefreshTracking(ctx context.Context, deliveryID int64) (*model.Delivery, error) {
	d, err := u.repo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if d.WaybillID == nil {
		return nil, apperr.Wrap(apperr.ErrValidation, "delivery %d has no waybill", deliveryID)
	}

	entries, err := u.courier.Track(ctx, *d.WaybillID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return d, nil
	}

	latest := entries[0]
	status := mapCourierStatus(latest.Status)
	detail := latest.Status
	if latest.Note != "" {
		detail = fmt.Sprintf("%s: %s", latest.Status, latest.Note)
	}

	if err := u.repo.UpdateStatus(ctx, d.ID, status, &detail); err != nil {
		return nil, err
	}
	d.Status = status
	d.StatusDetail = &detail

	if status == model.DeliveryStatusDelivered {
		if _, err := u.orderUC.MarkDelivered(ctx, d.OrderID); err != nil {
			// Already delivered or cancelled elsewhere; the tracking refresh
			// itself still succeeded.
			u.logger.Warn("could not mark order delivered from tracking",
				zap.Int64("order_id", d.OrderID),
				zap.Error(err))
		}
	}
	return d, nil
}

func (u *deliveryUC) ListDistricts(ctx context.Context) ([]koombiyo.District, error) {
	return u.courier.Districts(ctx)
}

func (u *deliveryUC) ListCities(ctx context.Context, districtID int64) ([]koombiyo.City, error) {
	return u.courier.Cities(ctx, districtID)
}

func mapCourierStatus(raw string) string {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "deliver"):
		return model.DeliveryStatusDelivered
	case strings.Contains(s, "return"):
		return model.DeliveryStatusReturned
	case strings.Contains(s, "pending"), strings.Contains(s, "created"):
		return model.DeliveryStatusCreated
	default:
		return model.DeliveryStatusInTransit
	}
}

func newWaybillID() string {
	return fmt.Sprintf("KB%s", strings.ToUpper(uuid.New().String()[:10]))
}
