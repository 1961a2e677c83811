package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/apperr"
	invdto "github.com/janithpag/reztobelle-admin-web-sub000/internal/inventory/dto"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/model"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/order/dto"
	proddto "github.com/janithpag/reztobelle-admin-web-sub000/internal/product/dto"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...zap.Field) {}
func (nopLogger) Info(string, ...zap.Field)  {}
func (nopLogger) Warn(string, ...zap.Field)  {}
func (nopLogger) Error(string, ...zap.Field) {}
func (nopLogger) Fatal(string, ...zap.Field) {}
func (nopLogger) Sync() error                { return nil }

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, o *model.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	args := m.Called(ctx, filters)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Int(1), args.Error(2)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, id int64, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdatePaymentStatus(ctx context.Context, id int64, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) Create(ctx context.Context, p *model.Product) error {
	panic("not used in order tests")
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindAll(ctx context.Context, filters *proddto.ProductFilters) ([]model.Product, int, error) {
	panic("not used in order tests")
}

func (m *ProductRepoMock) Update(ctx context.Context, p *model.Product) error {
	panic("not used in order tests")
}

func (m *ProductRepoMock) Deactivate(ctx context.Context, id int64) error {
	panic("not used in order tests")
}

func (m *ProductRepoMock) UpdateImage(ctx context.Context, id int64, imageURL, publicID string) error {
	panic("not used in order tests")
}

func (m *ProductRepoMock) IsSKUUnique(ctx context.Context, sku string, excludeID int64) (bool, error) {
	panic("not used in order tests")
}

type InventoryUCMock struct{ mock.Mock }

func (m *InventoryUCMock) ReserveStock(ctx context.Context, productID, quantity int64) (*model.Inventory, error) {
	args := m.Called(ctx, productID, quantity)
	inv, _ := args.Get(0).(*model.Inventory)
	return inv, args.Error(1)
}

func (m *InventoryUCMock) ReleaseStock(ctx context.Context, productID, quantity int64) (*model.Inventory, error) {
	args := m.Called(ctx, productID, quantity)
	inv, _ := args.Get(0).(*model.Inventory)
	return inv, args.Error(1)
}

func (m *InventoryUCMock) ConfirmStock(ctx context.Context, productID, quantity int64) (*model.Inventory, error) {
	args := m.Called(ctx, productID, quantity)
	inv, _ := args.Get(0).(*model.Inventory)
	return inv, args.Error(1)
}

func (m *InventoryUCMock) AdjustStock(ctx context.Context, input *invdto.AdjustStockInput) (*invdto.AdjustStockResult, error) {
	panic("not used in order tests")
}

func (m *InventoryUCMock) GetInventoryLevels(ctx context.Context, includeInactive bool) ([]model.InventoryLevel, error) {
	panic("not used in order tests")
}

func (m *InventoryUCMock) GetLowStockItems(ctx context.Context) ([]model.InventoryLevel, error) {
	panic("not used in order tests")
}

func (m *InventoryUCMock) GetInventorySummary(ctx context.Context) (*invdto.InventorySummary, error) {
	panic("not used in order tests")
}

func (m *InventoryUCMock) GetStockMovements(ctx context.Context, filters *invdto.MovementFilters) ([]model.StockMovement, int, error) {
	panic("not used in order tests")
}

func (m *InventoryUCMock) GetCostHistory(ctx context.Context, productID int64, limit int) (*invdto.CostHistory, error) {
	panic("not used in order tests")
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func activeProduct(id int64, price string) *model.Product {
	p := &model.Product{
		SKU:      "SKU",
		Name:     "Product",
		Price:    dec(price),
		IsActive: true,
	}
	p.ID = id
	return p
}

func validInput() *dto.CreateOrderInput {
	return &dto.CreateOrderInput{
		CustomerName:  "Nimali Perera",
		Phone:         "0771234567",
		AddressLine:   "12 Galle Rd",
		City:          "Colombo",
		PaymentMethod: model.PaymentMethodCOD,
		ShippingFee:   dec("350.00"),
		Items: []dto.OrderItemInput{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()
	repo := new(OrderRepoMock)
	prodRepo := new(ProductRepoMock)
	invUC := new(InventoryUCMock)
	uc := NewOrderUseCase(repo, prodRepo, invUC, nopLogger{})

	prodRepo.On("FindByID", ctx, int64(1)).Return(activeProduct(1, "1500.00"), nil)
	prodRepo.On("FindByID", ctx, int64(2)).Return(activeProduct(2, "900.00"), nil)
	invUC.On("ReserveStock", ctx, int64(1), int64(2)).Return(&model.Inventory{}, nil)
	invUC.On("ReserveStock", ctx, int64(2), int64(1)).Return(&model.Inventory{}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*model.Order")).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Order).ID = 10
	}).Return(nil)

	o, err := uc.CreateOrder(ctx, validInput())
	require.NoError(t, err)

	assert.Equal(t, int64(10), o.ID)
	assert.Equal(t, model.OrderStatusPending, o.Status)
	assert.Equal(t, model.PaymentStatusPending, o.PaymentStatus)
	assert.True(t, o.Subtotal.Equal(dec("3900.00")), "got %s", o.Subtotal)
	assert.True(t, o.Total.Equal(dec("4250.00")), "got %s", o.Total)
	assert.Len(t, o.Items, 2)
	assert.Regexp(t, `^RB-[0-9A-F]{8}$`, o.OrderNumber)

	repo.AssertExpectations(t)
	invUC.AssertExpectations(t)
}

func TestCreateOrderReleasesOnPartialReservation(t *testing.T) {
	ctx := context.Background()
	repo := new(OrderRepoMock)
	prodRepo := new(ProductRepoMock)
	invUC := new(InventoryUCMock)
	uc := NewOrderUseCase(repo, prodRepo, invUC, nopLogger{})

	prodRepo.On("FindByID", ctx, int64(1)).Return(activeProduct(1, "1500.00"), nil)
	prodRepo.On("FindByID", ctx, int64(2)).Return(activeProduct(2, "900.00"), nil)
	invUC.On("ReserveStock", ctx, int64(1), int64(2)).Return(&model.Inventory{}, nil)
	invUC.On("ReserveStock", ctx, int64(2), int64(1)).
		Return(nil, apperr.Wrap(apperr.ErrInsufficientStock, "out of stock"))
	invUC.On("ReleaseStock", ctx, int64(1), int64(2)).Return(&model.Inventory{}, nil)

	_, err := uc.CreateOrder(ctx, validInput())
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

	// The first line's hold was handed back, and no order row was written.
	invUC.AssertCalled(t, "ReleaseStock", ctx, int64(1), int64(2))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrderReleasesWhenInsertFails(t *testing.T) {
	ctx := context.Background()
	repo := new(OrderRepoMock)
	prodRepo := new(ProductRepoMock)
	invUC := new(InventoryUCMock)
	uc := NewOrderUseCase(repo, prodRepo, invUC, nopLogger{})

	prodRepo.On("FindByID", ctx, int64(1)).Return(activeProduct(1, "1500.00"), nil)
	prodRepo.On("FindByID", ctx, int64(2)).Return(activeProduct(2, "900.00"), nil)
	invUC.On("ReserveStock", ctx, mock.Anything, mock.Anything).Return(&model.Inventory{}, nil)
	invUC.On("ReleaseStock", ctx, mock.Anything, mock.Anything).Return(&model.Inventory{}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*model.Order")).
		Return(assert.AnError)

	_, err := uc.CreateOrder(ctx, validInput())
	assert.Error(t, err)
	invUC.AssertCalled(t, "ReleaseStock", ctx, int64(1), int64(2))
	invUC.AssertCalled(t, "ReleaseStock", ctx, int64(2), int64(1))
}

func TestCreateOrderRejectsInactiveProduct(t *testing.T) {
	ctx := context.Background()
	repo := new(OrderRepoMock)
	prodRepo := new(ProductRepoMock)
	invUC := new(InventoryUCMock)
	uc := NewOrderUseCase(repo, prodRepo, invUC, nopLogger{})

	inactive := activeProduct(1, "1500.00")
	inactive.IsActive = false
	prodRepo.On("FindByID", ctx, int64(1)).Return(inactive, nil)

	input := validInput()
	input.Items = input.Items[:1]

	_, err := uc.CreateOrder(ctx, input)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	invUC.AssertNotCalled(t, "ReserveStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrderValidation(t *testing.T) {
	uc := NewOrderUseCase(new(OrderRepoMock), new(ProductRepoMock), new(InventoryUCMock), nopLogger{})
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*dto.CreateOrderInput)
	}{
		{"missing customer name", func(in *dto.CreateOrderInput) { in.CustomerName = " " }},
		{"missing phone", func(in *dto.CreateOrderInput) { in.Phone = "" }},
		{"no items", func(in *dto.CreateOrderInput) { in.Items = nil }},
		{"bad payment method", func(in *dto.CreateOrderInput) { in.PaymentMethod = "CHEQUE" }},
		{"negative shipping", func(in *dto.CreateOrderInput) { in.ShippingFee = dec("-1") }},
		{"zero quantity", func(in *dto.CreateOrderInput) { in.Items[0].Quantity = 0 }},
		{"duplicate product", func(in *dto.CreateOrderInput) { in.Items[1].ProductID = 1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(input)
			_, err := uc.CreateOrder(ctx, input)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func pendingOrder(id int64) *model.Order {
	o := &model.Order{
		OrderNumber: "RB-TEST0001",
		Status:      model.OrderStatusPending,
		Items: []model.OrderItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	}
	o.ID = id
	return o
}

func TestConfirmOrder(t *testing.T) {
	ctx := context.Background()
	repo := new(OrderRepoMock)
	uc := NewOrderUseCase(repo, new(ProductRepoMock), new(InventoryUCMock), nopLogger{})

	repo.On("FindByID", ctx, int64(5)).Return(pendingOrder(5), nil)
	repo.On("UpdateStatus", ctx, int64(5), model.OrderStatusConfirmed).Return(nil)

	o, err := uc.ConfirmOrder(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, o.Status)
}

func TestShipOrderConfirmsEveryLine(t *testing.T) {
	ctx := context.Background()
	repo := new(OrderRepoMock)
	invUC := new(InventoryUCMock)
	uc := NewOrderUseCase(repo, new(ProductRepoMock), invUC, nopLogger{})

	o := pendingOrder(5)
	o.Status = model.OrderStatusConfirmed
	repo.On("FindByID", ctx, int64(5)).Return(o, nil)
	invUC.On("ConfirmStock", ctx, int64(1), int64(2)).Return(&model.Inventory{}, nil)
	invUC.On("ConfirmStock", ctx, int64(2), int64(1)).Return(&model.Inventory{}, nil)
	repo.On("UpdateStatus", ctx, int64(5), model.OrderStatusShipped).Return(nil)

	shipped, err := uc.ShipOrder(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, shipped.Status)
	invUC.AssertExpectations(t)
}

func TestShipOrderRequiresConfirmedStatus(t *testing.T) {
	ctx := context.Background()
	repo := new(OrderRepoMock)
	invUC := new(InventoryUCMock)
	uc := NewOrderUseCase(repo, new(ProductRepoMock), invUC, nopLogger{})

	repo.On("FindByID", ctx, int64(5)).Return(pendingOrder(5), nil)

	_, err := uc.ShipOrder(ctx, 5)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	invUC.AssertNotCalled(t, "ConfirmStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelOrderReleasesReservations(t *testing.T) {
	ctx := context.Background()
	repo := new(OrderRepoMock)
	invUC := new(InventoryUCMock)
	uc := NewOrderUseCase(repo, new(ProductRepoMock), invUC, nopLogger{})

	repo.On("FindByID", ctx, int64(5)).Return(pendingOrder(5), nil)
	invUC.On("ReleaseStock", ctx, int64(1), int64(2)).Return(&model.Inventory{}, nil)
	invUC.On("ReleaseStock", ctx, int64(2), int64(1)).Return(&model.Inventory{}, nil)
	repo.On("UpdateStatus", ctx, int64(5), model.OrderStatusCancelled).Return(nil)

	o, err := uc.CancelOrder(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, o.Status)
	invUC.AssertExpectations(t)
}

func TestCancelOrderRejectsShipped(t *testing.T) {
	ctx := context.Background()
	repo := new(OrderRepoMock)
	invUC := new(InventoryUCMock)
	uc := NewOrderUseCase(repo, new(ProductRepoMock), invUC, nopLogger{})

	o := pendingOrder(5)
	o.Status = model.OrderStatusShipped
	repo.On("FindByID", ctx, int64(5)).Return(o, nil)

	_, err := uc.CancelOrder(ctx, 5)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	invUC.AssertNotCalled(t, "ReleaseStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkDeliveredRequiresShipped(t *testing.T) {
	ctx := context.Background()
	repo := new(OrderRepoMock)
	uc := NewOrderUseCase(repo, new(ProductRepoMock), new(InventoryUCMock), nopLogger{})

	repo.On("FindByID", ctx, int64(5)).Return(pendingOrder(5), nil)

	_, err := uc.MarkDelivered(ctx, 5)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := new(OrderRepoMock)
	uc := NewOrderUseCase(repo, new(ProductRepoMock), new(InventoryUCMock), nopLogger{})

	o := pendingOrder(5)
	o.PaymentStatus = model.PaymentStatusPaid
	repo.On("FindByID", ctx, int64(5)).Return(o, nil)

	got, err := uc.MarkPaid(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)
	repo.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything)
}
