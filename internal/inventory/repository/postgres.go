package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/apperr"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/inventory"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/inventory/dto"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) WithinTx(ctx context.Context, fn func(tx inventory.TxRepository) error) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&txRepository{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

type txRepository struct {
	tx *sqlx.Tx
}

func (r *txRepository) GetForUpdate(ctx context.Context, productID int64) (*model.Inventory, error) {
	var inv model.Inventory
	query := `SELECT * FROM inventory WHERE product_id = $1 FOR UPDATE`
	err := r.tx.GetContext(ctx, &inv, query, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "no inventory record for product %d", productID)
		}
		return nil, err
	}
	return &inv, nil
}

func (r *txRepository) GetProductCostForUpdate(ctx context.Context, productID int64) (decimal.Decimal, error) {
	var cost decimal.Decimal
	query := `SELECT cost_price FROM products WHERE id = $1 FOR UPDATE`
	err := r.tx.GetContext(ctx, &cost, query, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Decimal{}, apperr.Wrap(apperr.ErrNotFound, "product %d not found", productID)
		}
		return decimal.Decimal{}, err
	}
	return cost, nil
}

func (r *txRepository) UpdateQuantities(ctx context.Context, inv *model.Inventory) error {
	query := `
        UPDATE inventory
        SET quantity_available = :quantity_available,
            quantity_reserved = :quantity_reserved,
            last_restocked_at = :last_restocked_at,
            updated_at = now()
        WHERE product_id = :product_id
    `
	_, err := r.tx.NamedExecContext(ctx, query, inv)
	if err != nil {
		return fmt.Errorf("failed to update inventory quantities: %w", err)
	}
	return nil
}

func (r *txRepository) UpdateProductCost(ctx context.Context, productID int64, cost decimal.Decimal) error {
	_, err := r.tx.ExecContext(ctx,
		`UPDATE products SET cost_price = $1, updated_at = now() WHERE id = $2`, cost, productID)
	if err != nil {
		return fmt.Errorf("failed to update product cost: %w", err)
	}
	return nil
}

func (r *txRepository) InsertMovement(ctx context.Context, m *model.StockMovement) error {
	query := `
        INSERT INTO stock_movements (
            product_id, movement_type, quantity, reference_type, reference_id,
            unit_cost, notes, created_by, created_at
        )
        VALUES (
            :product_id, :movement_type, :quantity, :reference_type, :reference_id,
            :unit_cost, :notes, :created_by, :created_at
        )
    `
	_, err := r.tx.NamedExecContext(ctx, query, m)
	if err != nil {
		return fmt.Errorf("failed to log movement: %w", err)
	}
	return nil
}

const levelColumns = `
    i.*, p.sku AS product_sku, p.name AS product_name, p.cost_price, p.is_active
`

func (r *PGRepository) FindLevels(ctx context.Context, includeInactive bool) ([]model.InventoryLevel, error) {
	query := `SELECT ` + levelColumns + ` FROM inventory i JOIN products p ON p.id = i.product_id`
	if !includeInactive {
		query += ` WHERE p.is_active`
	}
	// Most at-risk items first.
	query += ` ORDER BY i.quantity_available ASC`

	var items []model.InventoryLevel
	err := r.DB.SelectContext(ctx, &items, query)
	return items, err
}

func (r *PGRepository) FindLowStock(ctx context.Context) ([]model.InventoryLevel, error) {
	query := `
        SELECT ` + levelColumns + `
        FROM inventory i
        JOIN products p ON p.id = i.product_id
        WHERE p.is_active AND i.quantity_available <= i.reorder_level
        ORDER BY i.quantity_available ASC
    `
	var items []model.InventoryLevel
	err := r.DB.SelectContext(ctx, &items, query)
	return items, err
}

func (r *PGRepository) Summary(ctx context.Context) (*dto.InventorySummary, error) {
	query := `
        SELECT
            count(*) AS total_products,
            COALESCE(sum(i.quantity_available * p.cost_price), 0) AS total_value,
            count(*) FILTER (WHERE i.quantity_available > 0 AND i.quantity_available <= i.reorder_level) AS low_stock_count,
            count(*) FILTER (WHERE i.quantity_available = 0) AS out_of_stock_count,
            COALESCE(sum(i.quantity_available + i.quantity_reserved), 0) AS total_quantity
        FROM inventory i
        JOIN products p ON p.id = i.product_id
        WHERE p.is_active
    `
	var summary dto.InventorySummary
	err := r.DB.GetContext(ctx, &summary, query)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *PGRepository) FindMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var items []model.StockMovement
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != nil {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = *f.ProductID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM stock_movements" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC, id DESC"
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) FindCostMovements(ctx context.Context, productID int64, limit int) ([]model.CostMovement, error) {
	query := `
        SELECT m.movement_type, m.quantity, m.unit_cost, m.notes,
               COALESCE(u.display_name, 'unknown') AS created_by, m.created_at
        FROM stock_movements m
        LEFT JOIN users u ON u.id = m.created_by
        WHERE m.product_id = $1
          AND m.unit_cost IS NOT NULL
          AND m.movement_type IN ('IN', 'ADJUSTMENT')
        ORDER BY m.created_at DESC, m.id DESC
        LIMIT $2
    `
	var items []model.CostMovement
	err := r.DB.SelectContext(ctx, &items, query, productID, limit)
	return items, err
}

func (r *PGRepository) GetProductCost(ctx context.Context, productID int64) (decimal.Decimal, error) {
	var cost decimal.Decimal
	err := r.DB.GetContext(ctx, &cost, `SELECT cost_price FROM products WHERE id = $1`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Decimal{}, apperr.Wrap(apperr.ErrNotFound, "product %d not found", productID)
		}
		return decimal.Decimal{}, err
	}
	return cost, nil
}
