package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/mberahman/pos-analytics/internal/model"
)

// Fixed clock for every engine test.
var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

type fakeData struct {
	customers    []model.Customer
	orders       []model.Order
	customersErr error
	ordersErr    error
}

func (f *fakeData) ActiveCustomers(_ context.Context, tenantID int64) ([]model.Customer, error) {
	if f.customersErr != nil {
		return nil, f.customersErr
	}
	out := make([]model.Customer, 0, len(f.customers))
	for _, c := range f.customers {
		if c.TenantID == tenantID && c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeData) OrdersSince(_ context.Context, tenantID int64, since time.Time) ([]model.Order, error) {
	if f.ordersErr != nil {
		return nil, f.ordersErr
	}
	out := make([]model.Order, 0, len(f.orders))
	for _, o := range f.orders {
		if o.TenantID == tenantID && !o.CreatedAt.Before(since) && o.Status != model.OrderCancelled {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeSink struct {
	updates map[int64]model.CustomerType
	failFor map[int64]bool
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		updates: make(map[int64]model.CustomerType),
		failFor: make(map[int64]bool),
	}
}

func (f *fakeSink) UpdateCustomerType(_ context.Context, _, customerID int64, typ model.CustomerType) error {
	if f.failFor[customerID] {
		return fmt.Errorf("write refused for customer %d", customerID)
	}
	f.updates[customerID] = typ
	return nil
}

func newTestService(data *fakeData, sink *fakeSink) *Service {
	if sink == nil {
		sink = newFakeSink()
	}
	s := New(data, data, sink, Config{
		CLVHighThreshold:   10_000_000,
		CLVMediumThreshold: 3_000_000,
		CohortWindowMonths: 12,
	})
	s.now = func() time.Time { return testNow }
	return s
}

// cust builds an active customer whose aggregates are expressed in days
// before the test clock.
func cust(id int64, signupDaysAgo, lastDaysAgo int, orders, spent int64) model.Customer {
	c := model.Customer{
		ID:         id,
		TenantID:   1,
		Name:       fmt.Sprintf("customer-%d", id),
		SignupAt:   testNow.AddDate(0, 0, -signupDaysAgo),
		OrderCount: orders,
		TotalSpent: spent,
		IsActive:   true,
	}
	if lastDaysAgo >= 0 {
		la := testNow.AddDate(0, 0, -lastDaysAgo)
		c.LastActivityAt = &la
	}
	return c
}
