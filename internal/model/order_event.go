package model

import "time"

// OrderEvent is the payload POS terminals publish to Kafka for every order.
// The ingest worker assigns a ULID when ID is empty.
type OrderEvent struct {
	ID         string      `json:"id,omitempty"`
	TenantID   int64       `json:"tenant_id"`
	CustomerID int64       `json:"customer_id"`
	Amount     int64       `json:"amount"`
	Status     OrderStatus `json:"status,omitempty"` // empty => completed
	CreatedAt  time.Time   `json:"created_at"`
}
