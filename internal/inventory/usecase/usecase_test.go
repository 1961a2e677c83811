package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/apperr"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/inventory"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/inventory/dto"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/model"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...zap.Field) {}
func (nopLogger) Info(string, ...zap.Field)  {}
func (nopLogger) Warn(string, ...zap.Field)  {}
func (nopLogger) Error(string, ...zap.Field) {}
func (nopLogger) Fatal(string, ...zap.Field) {}
func (nopLogger) Sync() error                { return nil }

// fakeRepo keeps inventory state in memory with transactional semantics: a
// failed callback leaves the committed state untouched.
type fakeRepo struct {
	inv       map[int64]model.Inventory
	costs     map[int64]decimal.Decimal
	movements []model.StockMovement
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		inv:   map[int64]model.Inventory{},
		costs: map[int64]decimal.Decimal{},
	}
}

func (f *fakeRepo) seed(productID, available, reserved int64, cost decimal.Decimal) {
	f.inv[productID] = model.Inventory{
		ProductID:         productID,
		QuantityAvailable: available,
		QuantityReserved:  reserved,
	}
	f.costs[productID] = cost
}

type fakeTx struct {
	inv       map[int64]model.Inventory
	costs     map[int64]decimal.Decimal
	movements []model.StockMovement
}

func (f *fakeRepo) WithinTx(ctx context.Context, fn func(tx inventory.TxRepository) error) error {
	tx := &fakeTx{
		inv:   map[int64]model.Inventory{},
		costs: map[int64]decimal.Decimal{},
	}
	for k, v := range f.inv {
		tx.inv[k] = v
	}
	for k, v := range f.costs {
		tx.costs[k] = v
	}

	if err := fn(tx); err != nil {
		return err
	}

	f.inv = tx.inv
	f.costs = tx.costs
	f.movements = append(f.movements, tx.movements...)
	return nil
}

func (t *fakeTx) GetForUpdate(ctx context.Context, productID int64) (*model.Inventory, error) {
	inv, ok := t.inv[productID]
	if !ok {
		return nil, apperr.Wrap(apperr.ErrNotFound, "inventory for product %d not found", productID)
	}
	return &inv, nil
}

func (t *fakeTx) GetProductCostForUpdate(ctx context.Context, productID int64) (decimal.Decimal, error) {
	cost, ok := t.costs[productID]
	if !ok {
		return decimal.Decimal{}, apperr.Wrap(apperr.ErrNotFound, "product %d not found", productID)
	}
	return cost, nil
}

func (t *fakeTx) UpdateQuantities(ctx context.Context, inv *model.Inventory) error {
	t.inv[inv.ProductID] = *inv
	return nil
}

func (t *fakeTx) UpdateProductCost(ctx context.Context, productID int64, cost decimal.Decimal) error {
	t.costs[productID] = cost
	return nil
}

func (t *fakeTx) InsertMovement(ctx context.Context, m *model.StockMovement) error {
	m.ID = int64(len(t.movements) + 1)
	t.movements = append(t.movements, *m)
	return nil
}

func (f *fakeRepo) FindLevels(ctx context.Context, includeInactive bool) ([]model.InventoryLevel, error) {
	return nil, nil
}

func (f *fakeRepo) FindLowStock(ctx context.Context) ([]model.InventoryLevel, error) {
	return nil, nil
}

func (f *fakeRepo) Summary(ctx context.Context) (*dto.InventorySummary, error) {
	return &dto.InventorySummary{}, nil
}

func (f *fakeRepo) FindMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var out []model.StockMovement
	for _, m := range f.movements {
		if filters.ProductID != nil && m.ProductID != *filters.ProductID {
			continue
		}
		if filters.MovementType != "" && m.MovementType != filters.MovementType {
			continue
		}
		out = append(out, m)
	}
	return out, len(out), nil
}

func (f *fakeRepo) FindCostMovements(ctx context.Context, productID int64, limit int) ([]model.CostMovement, error) {
	return nil, nil
}

func (f *fakeRepo) GetProductCost(ctx context.Context, productID int64) (decimal.Decimal, error) {
	cost, ok := f.costs[productID]
	if !ok {
		return decimal.Decimal{}, apperr.Wrap(apperr.ErrNotFound, "product %d not found", productID)
	}
	return cost, nil
}

func newUC(repo *fakeRepo) inventory.UseCase {
	return NewInventoryUseCase(repo, nopLogger{})
}

func adjustIn(productID, qty int64, unitCost *decimal.Decimal) *dto.AdjustStockInput {
	return &dto.AdjustStockInput{
		ProductID:     productID,
		Quantity:      qty,
		MovementType:  model.MovementTypeIn,
		ReferenceType: model.ReferencePurchase,
		UnitCost:      unitCost,
		ActorID:       1,
	}
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestReserveStock(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.seed(1, 10, 0, dec("5.00"))
	uc := newUC(repo)

	inv, err := uc.ReserveStock(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(6), inv.QuantityAvailable)
	assert.Equal(t, int64(4), inv.QuantityReserved)

	// Reservation moves units between pools, total on hand is unchanged.
	assert.Equal(t, int64(10), inv.QuantityAvailable+inv.QuantityReserved)
}

func TestReserveStockInsufficient(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.seed(1, 3, 0, dec("5.00"))
	uc := newUC(repo)

	_, err := uc.ReserveStock(ctx, 1, 4)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

	// Nothing committed.
	assert.Equal(t, int64(3), repo.inv[1].QuantityAvailable)
	assert.Equal(t, int64(0), repo.inv[1].QuantityReserved)
}

func TestReserveStockUnknownProduct(t *testing.T) {
	uc := newUC(newFakeRepo())
	_, err := uc.ReserveStock(context.Background(), 99, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestReserveStockRejectsNonPositiveQuantity(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(1, 10, 0, dec("5.00"))
	uc := newUC(repo)

	for _, qty := range []int64{0, -3} {
		_, err := uc.ReserveStock(context.Background(), 1, qty)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}
}

func TestReleaseStock(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.seed(1, 6, 4, dec("5.00"))
	uc := newUC(repo)

	inv, err := uc.ReleaseStock(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(9), inv.QuantityAvailable)
	assert.Equal(t, int64(1), inv.QuantityReserved)
}

func TestReleaseStockOverRelease(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.seed(1, 6, 2, dec("5.00"))
	uc := newUC(repo)

	_, err := uc.ReleaseStock(ctx, 1, 3)
	assert.ErrorIs(t, err, apperr.ErrOverRelease)
}

func TestConfirmStockShrinksOnHand(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.seed(1, 6, 4, dec("5.00"))
	uc := newUC(repo)

	inv, err := uc.ConfirmStock(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(6), inv.QuantityAvailable)
	assert.Equal(t, int64(0), inv.QuantityReserved)
}

func TestConfirmStockOverConfirm(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.seed(1, 6, 1, dec("5.00"))
	uc := newUC(repo)

	_, err := uc.ConfirmStock(ctx, 1, 2)
	assert.ErrorIs(t, err, apperr.ErrOverConfirm)
}

func TestReservationLifecycleWritesNoMovements(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.seed(1, 10, 0, dec("5.00"))
	uc := newUC(repo)

	_, err := uc.ReserveStock(ctx, 1, 5)
	require.NoError(t, err)
	_, err = uc.ReleaseStock(ctx, 1, 2)
	require.NoError(t, err)
	_, err = uc.ConfirmStock(ctx, 1, 3)
	require.NoError(t, err)

	assert.Empty(t, repo.movements)
}

func TestAdjustStockInRecomputesWeightedAverage(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.seed(1, 10, 0, dec("5.00"))
	uc := newUC(repo)

	res, err := uc.AdjustStock(ctx, adjustIn(1, 10, decPtr("7.00")))
	require.NoError(t, err)

	assert.Equal(t, int64(10), res.PreviousQuantity)
	assert.Equal(t, int64(20), res.NewQuantity)
	require.NotNil(t, res.NewCostPrice)
	assert.True(t, res.NewCostPrice.Equal(dec("6.00")), "got %s", res.NewCostPrice)
	assert.True(t, repo.costs[1].Equal(dec("6.00")))
}

func TestAdjustStockInWithoutCostLeavesCostAlone(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.seed(1, 10, 0, dec("5.00"))
	uc := newUC(repo)

	res, err := uc.AdjustStock(ctx, adjustIn(1, 10, nil))
	require.NoError(t, err)
	assert.Nil(t, res.NewCostPrice)
	assert.True(t, repo.costs[1].Equal(dec("5.00")))
}

func TestAdjustStockInIntoEmptyStockUsesUnitCost(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.seed(1, 0, 0, dec("0"))
	uc := newUC(repo)

	res, err := uc.AdjustStock(ctx, adjustIn(1, 50, decPtr("10.00")))
	require.NoError(t, err)
	require.NotNil(t, res.NewCostPrice)
	assert.True(t, res.NewCostPrice.Equal(dec("10.00")))
}

func TestAdjustStockOut(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.seed(1, 10, 0, dec("5.00"))
	uc := newUC(repo)

	res, err := uc.AdjustStock(ctx, &dto.AdjustStockInput{
		ProductID:     1,
		Quantity:      4,
		MovementType:  model.MovementTypeOut,
		ReferenceType: model.ReferenceSale,
		ActorID:       1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.NewQuantity)

	// Outbound movements never touch the weighted-average cost.
	assert.True(t, repo.costs[1].Equal(dec("5.00")))
	assert.Nil(t, res.NewCostPrice)
}

func TestAdjustStockOutInsufficient(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.seed(1, 3, 0, dec("5.00"))
	uc := newUC(repo)

	_, err := uc.AdjustStock(ctx, &dto.AdjustStockInput{
		ProductID:     1,
		Quantity:      4,
		MovementType:  model.MovementTypeOut,
		ReferenceType: model.ReferenceDamage,
		ActorID:       1,
	})
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Empty(t, repo.movements)
}

func TestAdjustStockAdjustmentNegative(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.seed(1, 10, 0, dec("5.00"))
	uc := newUC(repo)

	res, err := uc.AdjustStock(ctx, &dto.AdjustStockInput{
		ProductID:     1,
		Quantity:      -4,
		MovementType:  model.MovementTypeAdjustment,
		ReferenceType: model.ReferenceAdjustment,
		ActorID:       1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.NewQuantity)
}

func TestAdjustStockAdjustmentBelowZero(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.seed(1, 3, 0, dec("5.00"))
	uc := newUC(repo)

	_, err := uc.AdjustStock(ctx, &dto.AdjustStockInput{
		ProductID:     1,
		Quantity:      -4,
		MovementType:  model.MovementTypeAdjustment,
		ReferenceType: model.ReferenceAdjustment,
		ActorID:       1,
	})
	assert.ErrorIs(t, err, apperr.ErrNegativeStock)
	assert.Equal(t, int64(3), repo.inv[1].QuantityAvailable)
}

func TestAdjustStockPositiveAdjustmentWithCost(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.seed(1, 10, 0, dec("5.00"))
	uc := newUC(repo)

	res, err := uc.AdjustStock(ctx, &dto.AdjustStockInput{
		ProductID:     1,
		Quantity:      10,
		MovementType:  model.MovementTypeAdjustment,
		ReferenceType: model.ReferenceAdjustment,
		UnitCost:      decPtr("7.00"),
		ActorID:       1,
	})
	require.NoError(t, err)
	require.NotNil(t, res.NewCostPrice)
	assert.True(t, res.NewCostPrice.Equal(dec("6.00")))
}

func TestAdjustStockValidation(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.seed(1, 10, 0, dec("5.00"))
	uc := newUC(repo)

	cases := []struct {
		name  string
		input *dto.AdjustStockInput
	}{
		{"unknown movement type", &dto.AdjustStockInput{
			ProductID: 1, Quantity: 1, MovementType: "TRANSFER",
			ReferenceType: model.ReferencePurchase, ActorID: 1,
		}},
		{"unknown reference type", &dto.AdjustStockInput{
			ProductID: 1, Quantity: 1, MovementType: model.MovementTypeIn,
			ReferenceType: "GIFT", ActorID: 1,
		}},
		{"zero adjustment", &dto.AdjustStockInput{
			ProductID: 1, Quantity: 0, MovementType: model.MovementTypeAdjustment,
			ReferenceType: model.ReferenceAdjustment, ActorID: 1,
		}},
		{"negative quantity for IN", &dto.AdjustStockInput{
			ProductID: 1, Quantity: -1, MovementType: model.MovementTypeIn,
			ReferenceType: model.ReferencePurchase, ActorID: 1,
		}},
		{"negative unit cost", &dto.AdjustStockInput{
			ProductID: 1, Quantity: 1, MovementType: model.MovementTypeIn,
			ReferenceType: model.ReferencePurchase, UnitCost: decPtr("-1"), ActorID: 1,
		}},
		{"missing actor", &dto.AdjustStockInput{
			ProductID: 1, Quantity: 1, MovementType: model.MovementTypeIn,
			ReferenceType: model.ReferencePurchase,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.AdjustStock(ctx, tc.input)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
	assert.Empty(t, repo.movements)
}

func TestAdjustStockWritesMovement(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.seed(1, 0, 0, dec("0"))
	uc := newUC(repo)

	refID := int64(42)
	_, err := uc.AdjustStock(ctx, &dto.AdjustStockInput{
		ProductID:     1,
		Quantity:      5,
		MovementType:  model.MovementTypeIn,
		ReferenceType: model.ReferencePurchase,
		ReferenceID:   &refID,
		UnitCost:      decPtr("3.50"),
		Notes:         "first lot",
		ActorID:       7,
	})
	require.NoError(t, err)

	require.Len(t, repo.movements, 1)
	m := repo.movements[0]
	assert.Equal(t, int64(1), m.ProductID)
	assert.Equal(t, model.MovementTypeIn, m.MovementType)
	assert.Equal(t, int64(5), m.Quantity)
	assert.Equal(t, model.ReferencePurchase, m.ReferenceType)
	assert.Equal(t, refID, *m.ReferenceID)
	assert.True(t, m.UnitCost.Valid)
	assert.True(t, m.UnitCost.Decimal.Equal(dec("3.50")))
	assert.Equal(t, "first lot", *m.Notes)
	assert.Equal(t, int64(7), m.CreatedBy)
}

// Full restock-sell-restock cycle across every mutation path.
func TestInventoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.seed(1, 0, 0, dec("0"))
	uc := newUC(repo)

	res, err := uc.AdjustStock(ctx, adjustIn(1, 50, decPtr("10.00")))
	require.NoError(t, err)
	assert.Equal(t, int64(50), res.NewQuantity)
	assert.True(t, res.NewCostPrice.Equal(dec("10.00")))

	_, err = uc.ReserveStock(ctx, 1, 20)
	require.NoError(t, err)
	inv, err := uc.ConfirmStock(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(30), inv.QuantityAvailable)
	assert.Equal(t, int64(0), inv.QuantityReserved)

	_, err = uc.AdjustStock(ctx, &dto.AdjustStockInput{
		ProductID:     1,
		Quantity:      5,
		MovementType:  model.MovementTypeOut,
		ReferenceType: model.ReferenceSale,
		ActorID:       1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(25), repo.inv[1].QuantityAvailable)

	// 25 on hand at 10.00 plus 25 incoming at 14.00 averages to 12.00.
	res, err = uc.AdjustStock(ctx, adjustIn(1, 25, decPtr("14.00")))
	require.NoError(t, err)
	assert.Equal(t, int64(50), res.NewQuantity)
	assert.True(t, res.NewCostPrice.Equal(dec("12.00")), "got %s", res.NewCostPrice)

	// Every mutation through AdjustStock is on the ledger, nothing else is.
	movements, total, err := uc.GetStockMovements(ctx, &dto.MovementFilters{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, movements, 3)
}

func TestGetStockMovementsValidatesType(t *testing.T) {
	uc := newUC(newFakeRepo())
	_, _, err := uc.GetStockMovements(context.Background(), &dto.MovementFilters{MovementType: "BOGUS"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
