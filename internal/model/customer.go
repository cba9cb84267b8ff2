package model

import (
	"strings"
	"time"
)

type CustomerType string

const (
	CustomerTypeRegular CustomerType = "regular"
	CustomerTypePremium CustomerType = "premium"
	CustomerTypeVIP     CustomerType = "vip"
)

func (t CustomerType) String() string { return string(t) }

func (t CustomerType) Valid() bool {
	return t == CustomerTypeRegular || t == CustomerTypePremium || t == CustomerTypeVIP
}

// ParseCustomerType normalizes input; empty => regular.
// Returns (value, true) if valid; otherwise (regular, false).
func ParseCustomerType(s string) (CustomerType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "regular":
		return CustomerTypeRegular, true
	case "premium":
		return CustomerTypePremium, true
	case "vip":
		return CustomerTypeVIP, true
	default:
		return CustomerTypeRegular, false
	}
}

// Customer is the DB entity persisted in the customers table. Lifetime order
// aggregates (order_count, total_spent, last_activity_at) are maintained by
// the ingest worker and only reflect completed orders.
type Customer struct {
	ID             int64        `db:"id"`
	TenantID       int64        `db:"tenant_id"`
	Name           string       `db:"name"`
	Phone          string       `db:"phone"`
	SignupAt       time.Time    `db:"signup_at"`
	LastActivityAt *time.Time   `db:"last_activity_at"` // nullable
	OrderCount     int64        `db:"order_count"`
	TotalSpent     int64        `db:"total_spent"` // minor currency units
	CustomerType   CustomerType `db:"customer_type"`
	IsActive       bool         `db:"is_active"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}
