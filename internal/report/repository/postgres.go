package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/report/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// Cancelled orders are excluded from every sales figure.
func (r *PGRepository) SalesSummary(ctx context.Context, rng dto.DateRange) (*dto.SalesSummary, error) {
	var s dto.SalesSummary
	err := r.DB.GetContext(ctx, &s, `
        SELECT
            count(*)                               AS order_count,
            COALESCE(sum(t.items_sold), 0)         AS items_sold,
            COALESCE(sum(t.gross_revenue), 0)      AS gross_revenue,
            COALESCE(sum(o.shipping_fee), 0)       AS shipping_fees,
            COALESCE(sum(t.cost_of_goods), 0)      AS cost_of_goods
        FROM orders o
        JOIN LATERAL (
            SELECT sum(oi.quantity)                   AS items_sold,
                   sum(oi.quantity * oi.unit_price)   AS gross_revenue,
                   sum(oi.quantity * p.cost_price)    AS cost_of_goods
            FROM order_items oi
            JOIN products p ON p.id = oi.product_id
            WHERE oi.order_id = o.id
        ) t ON true
        WHERE o.status != 'CANCELLED'
          AND o.created_at >= $1 AND o.created_at < $2
    `, rng.From, rng.To)
	if err != nil {
		return nil, err
	}
	s.GrossProfit = s.GrossRevenue.Sub(s.CostOfGoods)
	return &s, nil
}

func (r *PGRepository) OrdersByStatus(ctx context.Context, rng dto.DateRange) ([]dto.StatusCount, error) {
	var counts []dto.StatusCount
	err := r.DB.SelectContext(ctx, &counts, `
        SELECT status, count(*) AS count
        FROM orders
        WHERE created_at >= $1 AND created_at < $2
        GROUP BY status
        ORDER BY count DESC
    `, rng.From, rng.To)
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *PGRepository) TopProducts(ctx context.Context, rng dto.DateRange, limit int) ([]dto.TopProduct, error) {
	var products []dto.TopProduct
	err := r.DB.SelectContext(ctx, &products, `
        SELECT
            p.id                                          AS product_id,
            p.sku,
            p.name,
            COALESCE(sum(oi.quantity), 0)                 AS quantity_sold,
            COALESCE(sum(oi.quantity * oi.unit_price), 0) AS revenue
        FROM order_items oi
        JOIN orders o ON o.id = oi.order_id
        JOIN products p ON p.id = oi.product_id
        WHERE o.status != 'CANCELLED'
          AND o.created_at >= $1 AND o.created_at < $2
        GROUP BY p.id, p.sku, p.name
        ORDER BY quantity_sold DESC, revenue DESC
        LIMIT $3
    `, rng.From, rng.To, limit)
	if err != nil {
		return nil, err
	}
	return products, nil
}
