package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mberahman/pos-analytics/internal/model"
)

// OrdersRepository defines persistence for the orders table.
type OrdersRepository interface {
	// OrdersSince bulk-reads non-cancelled orders for a tenant created at or
	// after since. Chronological order.
	OrdersSince(ctx context.Context, tenantID int64, since time.Time) ([]model.Order, error)
	BatchInsert(ctx context.Context, tx *sqlx.Tx, orders []model.Order) error
}

type OrdersRepositoryImpl struct {
	db *sqlx.DB
}

func NewOrdersRepository(db *sqlx.DB) *OrdersRepositoryImpl {
	return &OrdersRepositoryImpl{db: db}
}

var _ OrdersRepository = (*OrdersRepositoryImpl)(nil)

func (r *OrdersRepositoryImpl) withTx(ctx context.Context, tx *sqlx.Tx, fn func(*sqlx.Tx) error) error {
	if tx != nil {
		return fn(tx)
	}
	t, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = t.Rollback() }()
	if err := fn(t); err != nil {
		return err
	}
	return t.Commit()
}

func (r *OrdersRepositoryImpl) OrdersSince(ctx context.Context, tenantID int64, since time.Time) ([]model.Order, error) {
	var out []model.Order
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, tenant_id, customer_id, amount, status, created_at, updated_at
		  FROM orders
		 WHERE tenant_id = ? AND created_at >= ? AND status <> 'cancelled'
		 ORDER BY created_at
	`, tenantID, since)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BatchInsert inserts many order rows in one statement. Re-delivered events
// (same ULID) are no-ops.
func (r *OrdersRepositoryImpl) BatchInsert(ctx context.Context, tx *sqlx.Tx, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	var sb strings.Builder
	args := make([]any, 0, len(orders)*6)

	sb.WriteString(`INSERT INTO orders (id, tenant_id, customer_id, amount, status, created_at, updated_at) VALUES `)
	for i, o := range orders {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, NOW())")
		args = append(args, o.ID, o.TenantID, o.CustomerID, o.Amount, o.Status.String(), o.CreatedAt)
	}
	sb.WriteString(` ON DUPLICATE KEY UPDATE id = id`)

	return r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, sb.String(), args...)
		return err
	})
}
