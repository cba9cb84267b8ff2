package model

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) String() string { return string(s) }

func (s OrderStatus) Valid() bool {
	return s == OrderPending || s == OrderCompleted || s == OrderCancelled
}

// ParseOrderStatus normalizes input; empty => completed.
// Returns (value, true) if valid; otherwise (completed, false).
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "completed":
		return OrderCompleted, true
	case "pending":
		return OrderPending, true
	case "cancelled":
		return OrderCancelled, true
	default:
		return OrderCompleted, false
	}
}

// Order is the DB entity persisted in the orders table.
type Order struct {
	ID         string      `db:"id"` // ULID
	TenantID   int64       `db:"tenant_id"`
	CustomerID int64       `db:"customer_id"`
	Amount     int64       `db:"amount"` // minor currency units
	Status     OrderStatus `db:"status"`
	CreatedAt  time.Time   `db:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at"`
}
