package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mberahman/pos-analytics/internal/model"
)

// cohortPeriodDays is the fixed 30-day bucket used to derive the offset
// period of an order relative to its cohort month.
const cohortPeriodDays = 30

// CohortAnalysis groups customers by signup month across the trailing
// monthsWindow months (current month included) and joins order history to
// produce per-cohort retention, churn and revenue curves. monthsWindow <= 0
// falls back to the configured default.
func (s *Service) CohortAnalysis(ctx context.Context, tenantID int64, monthsWindow int) ([]model.CohortPoint, error) {
	if monthsWindow <= 0 {
		monthsWindow = s.cfg.CohortWindowMonths
	}
	if monthsWindow > maxCohortMonths {
		monthsWindow = maxCohortMonths
	}

	customers, err := s.customers.ActiveCustomers(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}

	cutoff := monthStart(s.now()).AddDate(0, 1-monthsWindow, 0)

	// cohort month per customer, and period-0 sizes from the signups
	// themselves.
	cohortOf := make(map[int64]time.Time)
	sizes := make(map[time.Time]int)
	for _, c := range customers {
		if c.SignupAt.Before(cutoff) {
			continue
		}
		m := monthStart(c.SignupAt)
		cohortOf[c.ID] = m
		sizes[m]++
	}
	if len(sizes) == 0 {
		return []model.CohortPoint{}, nil
	}

	orders, err := s.orders.OrdersSince(ctx, tenantID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	type cell struct {
		buyers  map[int64]struct{}
		revenue int64
	}
	cells := make(map[time.Time]map[int]*cell)
	for _, o := range orders {
		cohort, ok := cohortOf[o.CustomerID]
		if !ok {
			continue // customer outside the window (or inactive)
		}
		if o.CreatedAt.Before(cohort) {
			continue // malformed input; periods are >= 0 by contract
		}
		period := daysBetween(cohort, o.CreatedAt) / cohortPeriodDays
		byPeriod := cells[cohort]
		if byPeriod == nil {
			byPeriod = make(map[int]*cell)
			cells[cohort] = byPeriod
		}
		cl := byPeriod[period]
		if cl == nil {
			cl = &cell{buyers: make(map[int64]struct{})}
			byPeriod[period] = cl
		}
		cl.buyers[o.CustomerID] = struct{}{}
		cl.revenue += o.Amount
	}

	out := make([]model.CohortPoint, 0, len(sizes)*2)
	for cohort, size := range sizes {
		denom := size
		if denom == 0 {
			denom = 1 // retention stays computable for an empty cohort
		}

		byPeriod := cells[cohort]
		periods := make([]int, 0, len(byPeriod)+1)
		seen := map[int]bool{0: true}
		periods = append(periods, 0)
		for p := range byPeriod {
			if !seen[p] {
				periods = append(periods, p)
				seen[p] = true
			}
		}
		sort.Ints(periods)

		for _, p := range periods {
			count := 0
			var revenue int64
			if cl := byPeriod[p]; cl != nil {
				count = len(cl.buyers)
				revenue = cl.revenue
			}
			if p == 0 {
				// Period 0 is the cohort itself: every signup counts,
				// buyer or not.
				count = size
			}
			retention := 100 * float64(count) / float64(denom)
			out = append(out, model.CohortPoint{
				Cohort:        cohort.Format("2006-01"),
				Period:        p,
				Customers:     count,
				Revenue:       revenue,
				RetentionRate: retention,
				ChurnRate:     100 - retention,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Cohort != out[j].Cohort {
			return out[i].Cohort < out[j].Cohort
		}
		return out[i].Period < out[j].Period
	})
	return out, nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
