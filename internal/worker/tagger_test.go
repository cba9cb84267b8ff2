package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mberahman/pos-analytics/internal/analytics"
	"github.com/mberahman/pos-analytics/internal/model"
)

type tenantListStub struct{ tenants []model.Tenant }

func (s *tenantListStub) GetByAPIKey(_ context.Context, _ string) (*model.Tenant, error) {
	return nil, nil
}

func (s *tenantListStub) ListActive(_ context.Context) ([]model.Tenant, error) {
	return s.tenants, nil
}

// tenantData backs the engine for several tenants; reads for failTenant error
// out, and customer-type writes are recorded per tenant.
type tenantData struct {
	failTenant int64
	customers  map[int64][]model.Customer
	tagged     map[int64][]int64
}

func (d *tenantData) ActiveCustomers(_ context.Context, tenantID int64) ([]model.Customer, error) {
	if tenantID == d.failTenant {
		return nil, errors.New("storage offline")
	}
	return d.customers[tenantID], nil
}

func (d *tenantData) OrdersSince(_ context.Context, _ int64, _ time.Time) ([]model.Order, error) {
	return nil, nil
}

func (d *tenantData) UpdateCustomerType(_ context.Context, tenantID, customerID int64, _ model.CustomerType) error {
	d.tagged[tenantID] = append(d.tagged[tenantID], customerID)
	return nil
}

func TestSweep_TenantFailureDoesNotStopSweep(t *testing.T) {
	la := time.Now().AddDate(0, 0, -7)
	data := &tenantData{
		failTenant: 1,
		customers: map[int64][]model.Customer{
			2: {{
				ID:             21,
				TenantID:       2,
				SignupAt:       time.Now().AddDate(0, 0, -120),
				LastActivityAt: &la,
				OrderCount:     5,
				TotalSpent:     750_000,
				IsActive:       true,
			}},
		},
		tagged: make(map[int64][]int64),
	}
	engine := analytics.New(data, data, data, analytics.Config{
		CLVHighThreshold:   10_000_000,
		CLVMediumThreshold: 3_000_000,
	})

	tenants := &tenantListStub{tenants: []model.Tenant{
		{ID: 1, Name: "broken", Status: "active"},
		{ID: 2, Name: "healthy", Status: "active"},
	}}

	w := NewTagger(tenants, engine, time.Hour)
	w.sweep(context.Background())

	if got := data.tagged[2]; len(got) != 1 || got[0] != 21 {
		t.Fatalf("tenant 2 tagged = %v, want [21]; tenant 1 failing must not stop the sweep", got)
	}
	if got := data.tagged[1]; len(got) != 0 {
		t.Errorf("tenant 1 tagged = %v, want none", got)
	}
}
