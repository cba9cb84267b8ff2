package analytics

import (
	"context"
	"testing"

	"github.com/mberahman/pos-analytics/internal/model"
)

func TestChurnPrediction_BoundaryExactThresholds(t *testing.T) {
	cases := []struct {
		days            int
		wantRisk        model.Tier
		wantProbability int
	}{
		{0, model.TierLow, 0},
		{30, model.TierLow, 0},
		{60, model.TierLow, 0},    // boundary: not > 60
		{61, model.TierLow, 25},   // explicit low bucket
		{90, model.TierLow, 25},   // boundary: not > 90
		{91, model.TierMedium, 50},
		{95, model.TierMedium, 50}, // reference example
		{180, model.TierMedium, 50}, // boundary: not > 180
		{181, model.TierHigh, 85},
		{400, model.TierHigh, 85},
	}

	for _, tc := range cases {
		data := &fakeData{customers: []model.Customer{
			cust(1, 500, tc.days, 3, 500_000),
		}}
		svc := newTestService(data, nil)

		rows, err := svc.ChurnPrediction(context.Background(), 1)
		if err != nil {
			t.Fatalf("days=%d: unexpected error: %v", tc.days, err)
		}
		if len(rows) != 1 {
			t.Fatalf("days=%d: got %d rows, want 1", tc.days, len(rows))
		}
		a := rows[0]
		if a.DaysSinceLastOrder != tc.days {
			t.Errorf("days=%d: computed days = %d", tc.days, a.DaysSinceLastOrder)
		}
		if a.Risk != tc.wantRisk || a.Probability != tc.wantProbability {
			t.Errorf("days=%d: got %s/%d, want %s/%d",
				tc.days, a.Risk, a.Probability, tc.wantRisk, tc.wantProbability)
		}
	}
}

func TestChurnPrediction_Exclusions(t *testing.T) {
	noActivity := cust(2, 100, -1, 0, 0) // no orders, no last activity
	withOrdersNoActivity := model.Customer{
		ID:         3,
		TenantID:   1,
		SignupAt:   testNow.AddDate(0, 0, -100),
		OrderCount: 2,
		TotalSpent: 100_000,
		IsActive:   true,
		// LastActivityAt nil: excluded even with orders
	}
	data := &fakeData{customers: []model.Customer{
		cust(1, 200, 10, 1, 50_000),
		noActivity,
		withOrdersNoActivity,
	}}
	svc := newTestService(data, nil)

	rows, err := svc.ChurnPrediction(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].CustomerID != 1 {
		t.Fatalf("exclusion rules violated: %+v", rows)
	}
}

func TestChurnPrediction_EmptyPopulation(t *testing.T) {
	svc := newTestService(&fakeData{}, nil)

	rows, err := svc.ChurnPrediction(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("got %v, want empty non-nil slice", rows)
	}
}
