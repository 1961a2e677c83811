package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/apperr"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/inventory"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/inventory/dto"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/model"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/logger"
)

const (
	defaultMovementLimit = 50
	maxMovementLimit     = 200
	defaultCostLimit     = 20
)

type inventoryUseCase struct {
	repo   inventory.Repository
	logger logger.Logger
}

func NewInventoryUseCase(repo inventory.Repository, log logger.Logger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *inventoryUseCase) ReserveStock(ctx context.Context, productID, quantity int64) (*model.Inventory, error) {
	if quantity <= 0 {
		return nil, apperr.Wrap(apperr.ErrValidation, "quantity must be positive")
	}

	var out *model.Inventory
	err := uc.repo.WithinTx(ctx, func(tx inventory.TxRepository) error {
		inv, err := tx.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if inv.QuantityAvailable < quantity {
			return apperr.Wrap(apperr.ErrInsufficientStock,
				"cannot reserve %d units, only %d available", quantity, inv.QuantityAvailable)
		}
		inv.QuantityAvailable -= quantity
		inv.QuantityReserved += quantity
		if err := tx.UpdateQuantities(ctx, inv); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *inventoryUseCase) ReleaseStock(ctx context.Context, productID, quantity int64) (*model.Inventory, error) {
	if quantity <= 0 {
		return nil, apperr.Wrap(apperr.ErrValidation, "quantity must be positive")
	}

	var out *model.Inventory
	err := uc.repo.WithinTx(ctx, func(tx inventory.TxRepository) error {
		inv, err := tx.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if inv.QuantityReserved < quantity {
			return apperr.Wrap(apperr.ErrOverRelease,
				"cannot release %d units, only %d reserved", quantity, inv.QuantityReserved)
		}
		inv.QuantityReserved -= quantity
		inv.QuantityAvailable += quantity
		if err := tx.UpdateQuantities(ctx, inv); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *inventoryUseCase) ConfirmStock(ctx context.Context, productID, quantity int64) (*model.Inventory, error) {
	if quantity <= 0 {
		return nil, apperr.Wrap(apperr.ErrValidation, "quantity must be positive")
	}

	var out *model.Inventory
	err := uc.repo.WithinTx(ctx, func(tx inventory.TxRepository) error {
		inv, err := tx.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if inv.QuantityReserved < quantity {
			return apperr.Wrap(apperr.ErrOverConfirm,
				"cannot confirm %d units, only %d reserved", quantity, inv.QuantityReserved)
		}
		// The confirmed units left the available pool when they were
		// reserved; on-hand stock shrinks here.
		inv.QuantityReserved -= quantity
		if err := tx.UpdateQuantities(ctx, inv); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*dto.AdjustStockResult, error) {
	if err := validateAdjustInput(input); err != nil {
		return nil, err
	}

	var result *dto.AdjustStockResult
	err := uc.repo.WithinTx(ctx, func(tx inventory.TxRepository) error {
		inv, err := tx.GetForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}

		now := time.Now()
		previous := inv.QuantityAvailable
		var newAvailable int64
		var newCost *decimal.Decimal

		switch input.MovementType {
		case model.MovementTypeIn:
			newAvailable = previous + input.Quantity
			if input.UnitCost != nil {
				cost, err := uc.recomputeCost(ctx, tx, input.ProductID, previous, input.Quantity, *input.UnitCost)
				if err != nil {
					return err
				}
				newCost = &cost
			}
			inv.LastRestockedAt = &now

		case model.MovementTypeOut:
			if previous < input.Quantity {
				return apperr.Wrap(apperr.ErrInsufficientStock,
					"cannot remove %d units, only %d available", input.Quantity, previous)
			}
			newAvailable = previous - input.Quantity

		case model.MovementTypeAdjustment:
			newAvailable = previous + input.Quantity
			if newAvailable < 0 {
				return apperr.Wrap(apperr.ErrNegativeStock,
					"adjustment of %d would drive stock below zero (currently %d)", input.Quantity, previous)
			}
			if input.Quantity > 0 && input.UnitCost != nil {
				cost, err := uc.recomputeCost(ctx, tx, input.ProductID, previous, input.Quantity, *input.UnitCost)
				if err != nil {
					return err
				}
				newCost = &cost
			}
		}

		inv.QuantityAvailable = newAvailable
		if err := tx.UpdateQuantities(ctx, inv); err != nil {
			return err
		}

		movement := &model.StockMovement{
			ProductID:     input.ProductID,
			MovementType:  input.MovementType,
			Quantity:      input.Quantity,
			ReferenceType: input.ReferenceType,
			ReferenceID:   input.ReferenceID,
			CreatedBy:     input.ActorID,
			CreatedAt:     now,
		}
		if input.UnitCost != nil {
			movement.UnitCost = decimal.NewNullDecimal(*input.UnitCost)
		}
		if input.Notes != "" {
			notes := input.Notes
			movement.Notes = &notes
		}
		if err := tx.InsertMovement(ctx, movement); err != nil {
			return err
		}

		result = &dto.AdjustStockResult{
			PreviousQuantity: previous,
			NewQuantity:      newAvailable,
			NewCostPrice:     newCost,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("stock adjusted",
		zap.Int64("product_id", input.ProductID),
		zap.String("movement_type", input.MovementType),
		zap.Int64("quantity", input.Quantity),
		zap.Int64("previous", result.PreviousQuantity),
		zap.Int64("new", result.NewQuantity),
	)
	return result, nil
}

// recomputeCost derives the new weighted-average cost from the locked product
// row and persists it within the same transaction.
func (uc *inventoryUseCase) recomputeCost(ctx context.Context, tx inventory.TxRepository, productID, previousQty, incomingQty int64, unitCost decimal.Decimal) (decimal.Decimal, error) {
	previousCost, err := tx.GetProductCostForUpdate(ctx, productID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	newCost := weightedAverageCost(previousQty, previousCost, incomingQty, unitCost)
	if err := tx.UpdateProductCost(ctx, productID, newCost); err != nil {
		return decimal.Decimal{}, err
	}
	return newCost, nil
}

// weightedAverageCost blends the existing stock value with the incoming lot:
// (prevQty*prevCost + inQty*unitCost) / (prevQty + inQty), falling back to the
// incoming unit cost when the denominator is zero.
func weightedAverageCost(prevQty int64, prevCost decimal.Decimal, inQty int64, unitCost decimal.Decimal) decimal.Decimal {
	totalQty := prevQty + inQty
	if totalQty == 0 {
		return unitCost
	}
	prevValue := prevCost.Mul(decimal.NewFromInt(prevQty))
	inValue := unitCost.Mul(decimal.NewFromInt(inQty))
	return prevValue.Add(inValue).DivRound(decimal.NewFromInt(totalQty), 2)
}

func validateAdjustInput(input *dto.AdjustStockInput) error {
	switch input.MovementType {
	case model.MovementTypeIn, model.MovementTypeOut:
		if input.Quantity <= 0 {
			return apperr.Wrap(apperr.ErrValidation, "quantity must be positive for %s movements", input.MovementType)
		}
	case model.MovementTypeAdjustment:
		if input.Quantity == 0 {
			return apperr.Wrap(apperr.ErrValidation, "adjustment quantity must be non-zero")
		}
	default:
		return apperr.Wrap(apperr.ErrValidation, "unknown movement type %q", input.MovementType)
	}

	switch input.ReferenceType {
	case model.ReferencePurchase, model.ReferenceSale, model.ReferenceReturn,
		model.ReferenceDamage, model.ReferenceAdjustment:
	default:
		return apperr.Wrap(apperr.ErrValidation, "unknown reference type %q", input.ReferenceType)
	}

	if input.UnitCost != nil && input.UnitCost.IsNegative() {
		return apperr.Wrap(apperr.ErrValidation, "unit cost must not be negative")
	}
	if input.ActorID <= 0 {
		return apperr.Wrap(apperr.ErrValidation, "actor is required")
	}
	return nil
}

func (uc *inventoryUseCase) GetInventoryLevels(ctx context.Context, includeInactive bool) ([]model.InventoryLevel, error) {
	return uc.repo.FindLevels(ctx, includeInactive)
}

func (uc *inventoryUseCase) GetLowStockItems(ctx context.Context) ([]model.InventoryLevel, error) {
	return uc.repo.FindLowStock(ctx)
}

func (uc *inventoryUseCase) GetInventorySummary(ctx context.Context) (*dto.InventorySummary, error) {
	return uc.repo.Summary(ctx)
}

func (uc *inventoryUseCase) GetStockMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	if filters.MovementType != "" {
		switch filters.MovementType {
		case model.MovementTypeIn, model.MovementTypeOut, model.MovementTypeAdjustment:
		default:
			return nil, 0, apperr.Wrap(apperr.ErrValidation, "unknown movement type %q", filters.MovementType)
		}
	}
	if filters.Limit <= 0 {
		filters.Limit = defaultMovementLimit
	}
	if filters.Limit > maxMovementLimit {
		filters.Limit = maxMovementLimit
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	return uc.repo.FindMovements(ctx, filters)
}

func (uc *inventoryUseCase) GetCostHistory(ctx context.Context, productID int64, limit int) (*dto.CostHistory, error) {
	if limit <= 0 {
		limit = defaultCostLimit
	}

	current, err := uc.repo.GetProductCost(ctx, productID)
	if err != nil {
		return nil, err
	}
	movements, err := uc.repo.FindCostMovements(ctx, productID, limit)
	if err != nil {
		return nil, err
	}
	return &dto.CostHistory{
		CurrentCostPrice: current,
		Movements:        movements,
	}, nil
}
