// Package analytics implements the customer analytics engine: RFM scoring,
// CLV estimation, cohort retention analysis, churn risk prediction, and
// segment tagging. Every call pulls a fresh snapshot for one tenant, computes
// in memory, and returns plain values; the tagger is the only operation with
// a side effect.
package analytics

import (
	"context"
	"time"

	"github.com/mberahman/pos-analytics/internal/model"
)

// CustomerSource bulk-reads the active customer snapshot for a tenant,
// including lifetime order aggregates.
type CustomerSource interface {
	ActiveCustomers(ctx context.Context, tenantID int64) ([]model.Customer, error)
}

// OrderSource bulk-reads non-cancelled orders for a tenant within a trailing
// window.
type OrderSource interface {
	OrdersSince(ctx context.Context, tenantID int64, since time.Time) ([]model.Order, error)
}

// SegmentSink writes a coarse customer-type label back onto one customer
// record.
type SegmentSink interface {
	UpdateCustomerType(ctx context.Context, tenantID, customerID int64, typ model.CustomerType) error
}

// Config holds the currency-specific model constants.
type Config struct {
	CLVHighThreshold   int64 // clv above this is "high", in minor units
	CLVMediumThreshold int64 // clv above this is "medium"
	CohortWindowMonths int   // default trailing window when the caller passes none
}

const (
	defaultCohortMonths = 12
	maxCohortMonths     = 60
)

func (c Config) withDefaults() Config {
	if c.CohortWindowMonths <= 0 {
		c.CohortWindowMonths = defaultCohortMonths
	}
	return c
}

// Service is the analytics engine. It holds no computation state between
// calls; quantile breakpoints and friends are rebuilt from a fresh snapshot
// on every invocation.
type Service struct {
	customers CustomerSource
	orders    OrderSource
	sink      SegmentSink
	cfg       Config

	now func() time.Time // injectable for tests
}

func New(customers CustomerSource, orders OrderSource, sink SegmentSink, cfg Config) *Service {
	return &Service{
		customers: customers,
		orders:    orders,
		sink:      sink,
		cfg:       cfg.withDefaults(),
		now:       time.Now,
	}
}

// daysBetween returns whole days elapsed from a to b, never negative.
func daysBetween(a, b time.Time) int {
	d := int(b.Sub(a).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// activityRef is the timestamp recency is measured from: last activity when
// known, signup otherwise.
func activityRef(c model.Customer) time.Time {
	if c.LastActivityAt != nil && c.LastActivityAt.After(c.SignupAt) {
		return *c.LastActivityAt
	}
	return c.SignupAt
}
