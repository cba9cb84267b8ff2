package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/mberahman/pos-analytics/internal/model"
)

// CHOrdersRepository lists order history from ClickHouse (reporting view).
type CHOrdersRepository interface {
	ListByTenant(ctx context.Context, tenantID, customerID int64, status model.OrderStatus, limit, offset int) ([]model.Order, error)
}

type chOrdersRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewCHOrdersRepository(ch *sqlx.DB) CHOrdersRepository {
	return &chOrdersRepository{ch: ch}
}

func (r *chOrdersRepository) ListByTenant(ctx context.Context, tenantID, customerID int64, status model.OrderStatus, limit, offset int) ([]model.Order, error) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := `
		SELECT id, tenant_id, customer_id, amount, status, created_at, updated_at
		FROM posa.orders_latest
		WHERE tenant_id = ?
	`
	args := []any{tenantID}

	if customerID > 0 {
		q += " AND customer_id = ?"
		args = append(args, customerID)
	}
	if status != "" {
		q += " AND status = ?"
		args = append(args, status.String())
	}

	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var rows []model.Order
	if err := r.ch.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
