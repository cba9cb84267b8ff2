package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mberahman/pos-analytics/internal/model"
)

// CustomersRepository is the customer read snapshot and write-back surface.
// ActiveCustomers and UpdateCustomerType back the analytics engine;
// BatchApplyOrderStats is used by the ingest worker to maintain lifetime
// aggregates.
type CustomersRepository interface {
	ActiveCustomers(ctx context.Context, tenantID int64) ([]model.Customer, error)
	UpdateCustomerType(ctx context.Context, tenantID, customerID int64, typ model.CustomerType) error
	BatchApplyOrderStats(ctx context.Context, tx *sqlx.Tx, deltas []CustomerOrderDelta) error
}

type CustomersRepositoryImpl struct {
	db *sqlx.DB
}

func NewCustomersRepository(db *sqlx.DB) *CustomersRepositoryImpl {
	return &CustomersRepositoryImpl{db: db}
}

var _ CustomersRepository = (*CustomersRepositoryImpl)(nil)

func (r *CustomersRepositoryImpl) ActiveCustomers(ctx context.Context, tenantID int64) ([]model.Customer, error) {
	var out []model.Customer
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, tenant_id, name, phone, signup_at, last_activity_at,
		       order_count, total_spent, customer_type, is_active,
		       created_at, updated_at
		  FROM customers
		 WHERE tenant_id = ? AND is_active = 1
		 ORDER BY id
	`, tenantID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CustomersRepositoryImpl) UpdateCustomerType(ctx context.Context, tenantID, customerID int64, typ model.CustomerType) error {
	if !typ.Valid() {
		return fmt.Errorf("invalid customer type %q", typ)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers
		   SET customer_type = ?, updated_at = NOW()
		 WHERE tenant_id = ? AND id = ?
	`, typ.String(), tenantID, customerID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL also reports 0 when the row exists with the same type,
		// so verify the customer is actually there.
		var one int
		if err := r.db.GetContext(ctx, &one,
			`SELECT 1 FROM customers WHERE tenant_id = ? AND id = ? LIMIT 1`,
			tenantID, customerID,
		); err != nil {
			return fmt.Errorf("customer %d not found", customerID)
		}
	}
	return nil
}

// CustomerOrderDelta is one customer's aggregate bump from a flush of ingested
// orders. Orders/Spent reflect completed orders only.
type CustomerOrderDelta struct {
	CustomerID  int64
	Orders      int64
	Spent       int64
	LastOrderAt time.Time
}

// BatchApplyOrderStats applies many per-customer aggregate bumps in a single
// statement.
func (r *CustomersRepositoryImpl) BatchApplyOrderStats(ctx context.Context, tx *sqlx.Tx, deltas []CustomerOrderDelta) error {
	if len(deltas) == 0 {
		return nil
	}

	var sbRaw strings.Builder
	args := make([]any, 0, len(deltas)*4)

	sbRaw.WriteString("SELECT ? AS customer_id, ? AS orders, ? AS spent, ? AS last_order_at")
	for i, d := range deltas {
		if i == 0 {
			args = append(args, d.CustomerID, d.Orders, d.Spent, d.LastOrderAt)
			continue
		}
		sbRaw.WriteString(" UNION ALL SELECT ?, ?, ?, ?")
		args = append(args, d.CustomerID, d.Orders, d.Spent, d.LastOrderAt)
	}

	query := fmt.Sprintf(`
		UPDATE customers c
		JOIN (
			SELECT customer_id,
			       SUM(orders)        AS orders,
			       SUM(spent)         AS spent,
			       MAX(last_order_at) AS last_order_at
			FROM (
				%s
			) raw
			GROUP BY customer_id
		) s ON s.customer_id = c.id
		SET c.order_count      = c.order_count + s.orders,
		    c.total_spent      = c.total_spent + s.spent,
		    c.last_activity_at = GREATEST(COALESCE(c.last_activity_at, s.last_order_at), s.last_order_at),
		    c.updated_at       = NOW()
	`, sbRaw.String())

	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
