package analytics

import (
	"context"
	"fmt"

	"github.com/mberahman/pos-analytics/internal/model"
)

// CalculateRFM scores every active customer with at least one order on
// recency, frequency, and monetary value. Breakpoints for each dimension are
// built independently across the whole scored population, never per customer.
// An empty population returns an empty slice, not an error.
func (s *Service) CalculateRFM(ctx context.Context, tenantID int64) ([]model.RFMScore, error) {
	customers, err := s.customers.ActiveCustomers(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}

	eligible := make([]model.Customer, 0, len(customers))
	for _, c := range customers {
		if c.OrderCount > 0 {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return []model.RFMScore{}, nil
	}

	now := s.now()
	recency := make([]float64, len(eligible))
	frequency := make([]float64, len(eligible))
	monetary := make([]float64, len(eligible))
	for i, c := range eligible {
		recency[i] = float64(daysBetween(activityRef(c), now))
		frequency[i] = float64(c.OrderCount)
		monetary[i] = float64(c.TotalSpent)
	}

	rb := Quantiles(recency)
	fb := Quantiles(frequency)
	mb := Quantiles(monetary)

	scores := make([]model.RFMScore, 0, len(eligible))
	for i, c := range eligible {
		// Recency is inverted: fewer days since last order is better.
		r := 6 - scoreOf(recency[i], rb)
		f := scoreOf(frequency[i], fb)
		m := scoreOf(monetary[i], mb)
		code := fmt.Sprintf("%d%d%d", r, f, m)

		scores = append(scores, model.RFMScore{
			CustomerID:  c.ID,
			Recency:     r,
			Frequency:   f,
			Monetary:    m,
			Code:        code,
			Segment:     segmentForCode(code),
			RecencyDays: int(recency[i]),
			OrderCount:  c.OrderCount,
			TotalSpent:  c.TotalSpent,
		})
	}
	return scores, nil
}
