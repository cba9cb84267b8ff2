package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mberahman/pos-analytics/internal/model"
)

func TestCalculateRFM_ScoresAndCodes(t *testing.T) {
	data := &fakeData{customers: []model.Customer{
		cust(1, 400, 2, 40, 8_000_000),
		cust(2, 380, 10, 25, 5_000_000),
		cust(3, 350, 30, 12, 2_500_000),
		cust(4, 300, 60, 8, 1_500_000),
		cust(5, 250, 90, 5, 900_000),
		cust(6, 200, 120, 3, 500_000),
		cust(7, 150, 150, 2, 300_000),
		cust(8, 120, 170, 1, 150_000),
		cust(9, 100, 200, 1, 80_000),
		cust(10, 90, 250, 1, 40_000),
	}}
	svc := newTestService(data, nil)

	scores, err := svc.CalculateRFM(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != 10 {
		t.Fatalf("got %d scores, want 10", len(scores))
	}

	for _, sc := range scores {
		for name, v := range map[string]int{
			"recency":   sc.Recency,
			"frequency": sc.Frequency,
			"monetary":  sc.Monetary,
		} {
			if v < 1 || v > 5 {
				t.Errorf("customer %d: %s score %d out of range", sc.CustomerID, name, v)
			}
		}
		wantCode := fmt.Sprintf("%d%d%d", sc.Recency, sc.Frequency, sc.Monetary)
		if sc.Code != wantCode {
			t.Errorf("customer %d: code %q, want %q", sc.CustomerID, sc.Code, wantCode)
		}
		if sc.Segment == "" {
			t.Errorf("customer %d: empty segment", sc.CustomerID)
		}
	}

	// most recent, most frequent, highest spender must be a clean 555
	if scores[0].Code != "555" {
		t.Errorf("top customer code = %q, want 555", scores[0].Code)
	}
	if scores[0].Segment != model.SegmentChampions {
		t.Errorf("top customer segment = %q, want Champions", scores[0].Segment)
	}
}

func TestCalculateRFM_RecencyInversion(t *testing.T) {
	// identical frequency/monetary, A far more recent than B
	data := &fakeData{customers: []model.Customer{
		cust(1, 300, 3, 5, 1_000_000),
		cust(2, 300, 250, 5, 1_000_000),
		cust(3, 300, 50, 5, 1_000_000),
		cust(4, 300, 100, 5, 1_000_000),
		cust(5, 300, 180, 5, 1_000_000),
	}}
	svc := newTestService(data, nil)

	scores, err := svc.CalculateRFM(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byID := make(map[int64]model.RFMScore)
	for _, sc := range scores {
		byID[sc.CustomerID] = sc
	}
	if byID[1].Recency < byID[2].Recency {
		t.Errorf("recent customer scored %d, stale customer %d; want recent >= stale",
			byID[1].Recency, byID[2].Recency)
	}
	if byID[1].Recency != 5 {
		t.Errorf("most recent customer recency = %d, want 5", byID[1].Recency)
	}
	// 250 days sits exactly on the top breakpoint of this population, so it
	// scores raw 4 and publishes as 2
	if byID[2].Recency != 2 {
		t.Errorf("most stale customer recency = %d, want 2", byID[2].Recency)
	}
}

func TestCalculateRFM_SingleCustomer(t *testing.T) {
	// one customer: all breakpoints collapse, raw scores are 1, so published
	// recency inverts to 5
	data := &fakeData{customers: []model.Customer{
		cust(1, 100, 5, 3, 600_000),
	}}
	svc := newTestService(data, nil)

	scores, err := svc.CalculateRFM(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("got %d scores, want 1", len(scores))
	}
	if scores[0].Code != "511" {
		t.Errorf("code = %q, want 511", scores[0].Code)
	}
}

func TestCalculateRFM_EmptyPopulation(t *testing.T) {
	svc := newTestService(&fakeData{}, nil)

	scores, err := svc.CalculateRFM(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scores == nil || len(scores) != 0 {
		t.Fatalf("got %v, want empty non-nil slice", scores)
	}
}

func TestCalculateRFM_ExcludesZeroOrderCustomers(t *testing.T) {
	data := &fakeData{customers: []model.Customer{
		cust(1, 100, 5, 3, 600_000),
		cust(2, 50, -1, 0, 0), // signup without any order
	}}
	svc := newTestService(data, nil)

	scores, err := svc.CalculateRFM(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != 1 || scores[0].CustomerID != 1 {
		t.Fatalf("zero-order customer not excluded: %+v", scores)
	}
}

func TestCalculateRFM_ProviderError(t *testing.T) {
	data := &fakeData{customersErr: errors.New("db down")}
	svc := newTestService(data, nil)

	if _, err := svc.CalculateRFM(context.Background(), 1); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestSegmentForCode(t *testing.T) {
	cases := []struct {
		code string
		want model.Segment
	}{
		{"555", model.SegmentChampions},
		{"445", model.SegmentChampions},
		{"543", model.SegmentLoyalCustomers},
		{"335", model.SegmentLoyalCustomers},
		{"553", model.SegmentPotentialLoyalists},
		{"323", model.SegmentPotentialLoyalists},
		{"511", model.SegmentNewCustomers},
		{"311", model.SegmentNewCustomers},
		{"525", model.SegmentPromising},
		{"313", model.SegmentPromising},
		{"535", model.SegmentNeedAttention},
		{"324", model.SegmentNeedAttention},
		{"331", model.SegmentAboutToSleep},
		{"251", model.SegmentAboutToSleep},
		{"255", model.SegmentAtRisk},
		{"124", model.SegmentAtRisk},
		{"155", model.SegmentCannotLoseThem},
		{"113", model.SegmentCannotLoseThem},
		{"332", model.SegmentHibernating},
		{"211", model.SegmentHibernating},
		{"111", model.SegmentLost},
		{"151", model.SegmentLost},
		// unlisted codes fall through to Lost
		{"000", model.SegmentLost},
		{"999", model.SegmentLost},
	}
	for _, tc := range cases {
		if got := segmentForCode(tc.code); got != tc.want {
			t.Errorf("segmentForCode(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestTypeForSegment(t *testing.T) {
	cases := []struct {
		seg  model.Segment
		want model.CustomerType
	}{
		{model.SegmentChampions, model.CustomerTypeVIP},
		{model.SegmentCannotLoseThem, model.CustomerTypeVIP},
		{model.SegmentLoyalCustomers, model.CustomerTypePremium},
		{model.SegmentPotentialLoyalists, model.CustomerTypePremium},
		{model.SegmentNewCustomers, model.CustomerTypeRegular},
		{model.SegmentHibernating, model.CustomerTypeRegular},
		{model.SegmentLost, model.CustomerTypeRegular},
	}
	for _, tc := range cases {
		if got := typeForSegment(tc.seg); got != tc.want {
			t.Errorf("typeForSegment(%q) = %q, want %q", tc.seg, got, tc.want)
		}
	}
}
