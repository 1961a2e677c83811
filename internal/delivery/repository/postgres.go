package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/apperr"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, d *model.Delivery) error {
	query := `
        INSERT INTO deliveries (
            order_id, provider, waybill_id, city_id, district_id,
            status, status_detail, created_at, updated_at
        )
        VALUES (
            :order_id, :provider, :waybill_id, :city_id, :district_id,
            :status, :status_detail, now(), now()
        )
        RETURNING id
    `
	rows, err := r.DB.NamedQueryContext(ctx, query, d)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		return rows.Scan(&d.ID)
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Delivery, error) {
	var d model.Delivery
	err := r.DB.GetContext(ctx, &d, `SELECT * FROM deliveries WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "delivery %d not found", id)
		}
		return nil, err
	}
	return &d, nil
}

func (r *PGRepository) FindByOrderID(ctx context.Context, orderID int64) (*model.Delivery, error) {
	var d model.Delivery
	err := r.DB.GetContext(ctx, &d, `SELECT * FROM deliveries WHERE order_id = $1 LIMIT 1`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *PGRepository) FindAll(ctx context.Context, status string) ([]model.Delivery, error) {
	var deliveries []model.Delivery
	query := `SELECT * FROM deliveries`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	if err := r.DB.SelectContext(ctx, &deliveries, query, args...); err != nil {
		return nil, err
	}
	return deliveries, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id int64, status string, detail *string) error {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE deliveries
        SET status = $1, status_detail = $2, last_checked_at = now(), updated_at = now()
        WHERE id = $3
    `, status, detail, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "delivery %d not found", id)
	}
	return nil
}
