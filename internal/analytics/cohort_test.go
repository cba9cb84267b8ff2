package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/mberahman/pos-analytics/internal/model"
)

func order(id string, customerID int64, amount int64, createdAt time.Time) model.Order {
	return model.Order{
		ID:         id,
		TenantID:   1,
		CustomerID: customerID,
		Amount:     amount,
		Status:     model.OrderCompleted,
		CreatedAt:  createdAt,
	}
}

func signup(id int64, at time.Time) model.Customer {
	return model.Customer{
		ID:       id,
		TenantID: 1,
		SignupAt: at,
		IsActive: true,
	}
}

func TestCohortAnalysis_PeriodZeroAlwaysFull(t *testing.T) {
	june := time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)
	july := time.Date(2026, 7, 3, 15, 0, 0, 0, time.UTC)
	data := &fakeData{customers: []model.Customer{
		signup(1, june), signup(2, june), signup(3, july),
	}}
	svc := newTestService(data, nil)

	points, err := svc.CohortAnalysis(context.Background(), 1, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2: %+v", len(points), points)
	}

	for _, p := range points {
		if p.Period != 0 {
			t.Errorf("cohort %s: unexpected period %d", p.Cohort, p.Period)
		}
		if p.RetentionRate != 100 {
			t.Errorf("cohort %s: period-0 retention = %v, want 100", p.Cohort, p.RetentionRate)
		}
		if p.ChurnRate != 0 {
			t.Errorf("cohort %s: period-0 churn = %v, want 0", p.Cohort, p.ChurnRate)
		}
	}
	if points[0].Cohort != "2026-06" || points[0].Customers != 2 {
		t.Errorf("first cohort = %s/%d, want 2026-06/2", points[0].Cohort, points[0].Customers)
	}
	if points[1].Cohort != "2026-07" || points[1].Customers != 1 {
		t.Errorf("second cohort = %s/%d, want 2026-07/1", points[1].Cohort, points[1].Customers)
	}
}

func TestCohortAnalysis_RetentionCurve(t *testing.T) {
	// four customers signed up in June 2026; two come back roughly 40 days
	// after the cohort month starts
	june := time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC)
	data := &fakeData{
		customers: []model.Customer{
			signup(1, june), signup(2, june), signup(3, june), signup(4, june),
		},
		orders: []model.Order{
			order("o1", 1, 100_000, time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC)),   // period 0
			order("o2", 1, 150_000, time.Date(2026, 7, 11, 0, 0, 0, 0, time.UTC)),  // period 1
			order("o3", 2, 200_000, time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)),  // period 1
			order("o4", 2, 300_000, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)),  // period 2
		},
	}
	svc := newTestService(data, nil)

	points, err := svc.CohortAnalysis(context.Background(), 1, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byPeriod := make(map[int]model.CohortPoint)
	for _, p := range points {
		if p.Cohort != "2026-06" {
			t.Fatalf("unexpected cohort %q", p.Cohort)
		}
		byPeriod[p.Period] = p
	}

	p0 := byPeriod[0]
	if p0.Customers != 4 || p0.RetentionRate != 100 {
		t.Errorf("period 0 = %+v, want 4 customers / 100%%", p0)
	}
	if p0.Revenue != 100_000 {
		t.Errorf("period 0 revenue = %d, want 100000", p0.Revenue)
	}

	p1 := byPeriod[1]
	if p1.Customers != 2 {
		t.Errorf("period 1 customers = %d, want 2", p1.Customers)
	}
	if p1.RetentionRate != 50 || p1.ChurnRate != 50 {
		t.Errorf("period 1 retention/churn = %v/%v, want 50/50", p1.RetentionRate, p1.ChurnRate)
	}
	if p1.Revenue != 350_000 {
		t.Errorf("period 1 revenue = %d, want 350000", p1.Revenue)
	}

	p2 := byPeriod[2]
	if p2.Customers != 1 || p2.RetentionRate != 25 {
		t.Errorf("period 2 = %+v, want 1 customer / 25%%", p2)
	}
}

func TestCohortAnalysis_WindowExcludesOldSignups(t *testing.T) {
	data := &fakeData{customers: []model.Customer{
		signup(1, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)), // far outside
		signup(2, time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)),
	}}
	svc := newTestService(data, nil)

	points, err := svc.CohortAnalysis(context.Background(), 1, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 || points[0].Cohort != "2026-08" {
		t.Fatalf("got %+v, want single 2026-08 cohort", points)
	}
}

func TestCohortAnalysis_DefaultWindow(t *testing.T) {
	// monthsWindow <= 0 falls back to the configured 12; a signup 11 months
	// back stays inside
	data := &fakeData{customers: []model.Customer{
		signup(1, time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)),
	}}
	svc := newTestService(data, nil)

	points, err := svc.CohortAnalysis(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 || points[0].Cohort != "2025-10" {
		t.Fatalf("got %+v, want single 2025-10 cohort", points)
	}
}

func TestCohortAnalysis_EmptyPopulation(t *testing.T) {
	svc := newTestService(&fakeData{}, nil)

	points, err := svc.CohortAnalysis(context.Background(), 1, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if points == nil || len(points) != 0 {
		t.Fatalf("got %v, want empty non-nil slice", points)
	}
}
