package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/apperr"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/inventory"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/model"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/order"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/order/dto"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/product"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type orderUC struct {
	repo        order.Repository
	productRepo product.Repository
	inventoryUC inventory.UseCase
	logger      logger.Logger
}

func NewOrderUseCase(repo order.Repository, productRepo product.Repository, inventoryUC inventory.UseCase, logger logger.Logger) order.UseCase {
	return &orderUC{
		repo:        repo,
		productRepo: productRepo,
		inventoryUC: inventoryUC,
		logger:      logger,
	}
}

func (u *orderUC) CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	items := make([]model.OrderItem, 0, len(input.Items))
	subtotal := decimal.Zero
	for _, line := range input.Items {
		p, err := u.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, apperr.Wrap(apperr.ErrNotFound, "product %d not found", line.ProductID)
		}
		if !p.IsActive {
			return nil, apperr.Wrap(apperr.ErrValidation, "product %d is inactive", line.ProductID)
		}
		subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(line.Quantity)))
		items = append(items, model.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: p.Price,
		})
	}

	// Hold stock line by line. A failed line hands back every hold taken so
	// far; the order row is never written on a partial reservation.
	reserved := make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		if _, err := u.inventoryUC.ReserveStock(ctx, item.ProductID, item.Quantity); err != nil {
			u.releaseItems(ctx, reserved)
			return nil, err
		}
		reserved = append(reserved, item)
	}

	o := &model.Order{
		OrderNumber:   newOrderNumber(),
		CustomerName:  input.CustomerName,
		Phone:         input.Phone,
		AddressLine:   input.AddressLine,
		City:          input.City,
		Status:        model.OrderStatusPending,
		PaymentMethod: input.PaymentMethod,
		PaymentStatus: model.PaymentStatusPending,
		Subtotal:      subtotal,
		ShippingFee:   input.ShippingFee,
		Total:         subtotal.Add(input.ShippingFee),
		Items:         items,
	}
	if input.Notes != "" {
		o.Notes = &input.Notes
	}

	if err := u.repo.Create(ctx, o); err != nil {
		u.releaseItems(ctx, reserved)
		return nil, err
	}

	u.logger.Info("order created",
		zap.Int64("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.Int("lines", len(o.Items)))
	return o, nil
}

func (u *orderUC) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	return u.repo.FindByID(ctx, id)
}

func (u *orderUC) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = defaultPageSize
	}
	if filters.PageSize > maxPageSize {
		filters.PageSize = maxPageSize
	}
	return u.repo.FindAll(ctx, filters)
}

func (u *orderUC) ConfirmOrder(ctx context.Context, id int64) (*model.Order, error) {
	return u.transition(ctx, id, model.OrderStatusConfirmed, model.OrderStatusPending)
}

func (u *orderUC) ShipOrder(ctx context.Context, id int64) (*model.Order, error) {
	o, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != model.OrderStatusConfirmed {
		return nil, apperr.Wrap(apperr.ErrValidation, "cannot ship order in status %s", o.Status)
	}

	// Each line's hold becomes a permanent deduction. Confirmation is
	// per product; a line that fails here means the reservations drifted
	// out of sync with the order and needs operator attention.
	for _, item := range o.Items {
		if _, err := u.inventoryUC.ConfirmStock(ctx, item.ProductID, item.Quantity); err != nil {
			u.logger.Error("confirm stock failed while shipping",
				zap.Int64("order_id", o.ID),
				zap.Int64("product_id", item.ProductID),
				zap.Error(err))
			return nil, err
		}
	}

	if err := u.repo.UpdateStatus(ctx, id, model.OrderStatusShipped); err != nil {
		return nil, err
	}
	o.Status = model.OrderStatusShipped
	return o, nil
}

func (u *orderUC) MarkDelivered(ctx context.Context, id int64) (*model.Order, error) {
	return u.transition(ctx, id, model.OrderStatusDelivered, model.OrderStatusShipped)
}

func (u *orderUC) MarkPaid(ctx context.Context, id int64) (*model.Order, error) {
	o, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.PaymentStatus == model.PaymentStatusPaid {
		return o, nil
	}
	if err := u.repo.UpdatePaymentStatus(ctx, id, model.PaymentStatusPaid); err != nil {
		return nil, err
	}
	o.PaymentStatus = model.PaymentStatusPaid
	return o, nil
}

func (u *orderUC) CancelOrder(ctx context.Context, id int64) (*model.Order, error) {
	o, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != model.OrderStatusPending && o.Status != model.OrderStatusConfirmed {
		return nil, apperr.Wrap(apperr.ErrValidation, "cannot cancel order in status %s", o.Status)
	}

	u.releaseItems(ctx, o.Items)

	if err := u.repo.UpdateStatus(ctx, id, model.OrderStatusCancelled); err != nil {
		return nil, err
	}
	o.Status = model.OrderStatusCancelled
	return o, nil
}

func (u *orderUC) transition(ctx context.Context, id int64, to string, from string) (*model.Order, error) {
	o, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != from {
		return nil, apperr.Wrap(apperr.ErrValidation, "cannot move order from %s to %s", o.Status, to)
	}
	if err := u.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	o.Status = to
	return o, nil
}

func (u *orderUC) releaseItems(ctx context.Context, items []model.OrderItem) {
	for _, item := range items {
		if _, err := u.inventoryUC.ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
			u.logger.Error("release stock failed",
				zap.Int64("product_id", item.ProductID),
				zap.Int64("quantity", item.Quantity),
				zap.Error(err))
		}
	}
}

func validateCreateInput(input *dto.CreateOrderInput) error {
	if strings.TrimSpace(input.CustomerName) == "" {
		return apperr.Wrap(apperr.ErrValidation, "customer_name is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return apperr.Wrap(apperr.ErrValidation, "phone is required")
	}
	if len(input.Items) == 0 {
		return apperr.Wrap(apperr.ErrValidation, "order must have at least one item")
	}
	if input.PaymentMethod != model.PaymentMethodCOD && input.PaymentMethod != model.PaymentMethodCard {
		return apperr.Wrap(apperr.ErrValidation, "unknown payment method %q", input.PaymentMethod)
	}
	if input.ShippingFee.IsNegative() {
		return apperr.Wrap(apperr.ErrValidation, "shipping_fee cannot be negative")
	}
	seen := make(map[int64]bool, len(input.Items))
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return apperr.Wrap(apperr.ErrValidation, "quantity must be positive for product %d", line.ProductID)
		}
		if seen[line.ProductID] {
			return apperr.Wrap(apperr.ErrValidation, "duplicate product %d in order", line.ProductID)
		}
		seen[line.ProductID] = true
	}
	return nil
}

func newOrderNumber() string {
	return fmt.Sprintf("RB-%s", strings.ToUpper(uuid.New().String()[:8]))
}
