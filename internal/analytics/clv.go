package analytics

import (
	"context"
	"fmt"

	"github.com/mberahman/pos-analytics/internal/model"
)

const (
	// clvHorizonDays is the assumed 3-year forward horizon the annual
	// purchase rate is projected over.
	clvHorizonDays = 365 * 3
	// clvGrowthFactor is a flat optimistic growth adjustment, a documented
	// heuristic rather than a forecast.
	clvGrowthFactor = 1.15
	// minLifespanDays floors the observed lifespan so brand-new customers
	// don't blow up the frequency division.
	minLifespanDays = 30
)

// CalculateCLV estimates lifetime value for every active customer with at
// least one completed order. An empty population returns an empty slice.
func (s *Service) CalculateCLV(ctx context.Context, tenantID int64) ([]model.CLVMetrics, error) {
	customers, err := s.customers.ActiveCustomers(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}

	out := make([]model.CLVMetrics, 0, len(customers))
	for _, c := range customers {
		if c.OrderCount <= 0 {
			continue
		}

		lifespan := daysBetween(c.SignupAt, activityRef(c))
		if lifespan < minLifespanDays {
			lifespan = minLifespanDays
		}

		aov := float64(c.TotalSpent) / float64(c.OrderCount)
		frequency := float64(c.OrderCount) / (float64(lifespan) / 365.0)
		clv := aov * frequency * clvHorizonDays

		out = append(out, model.CLVMetrics{
			CustomerID:        c.ID,
			AvgOrderValue:     aov,
			PurchaseFrequency: frequency,
			LifespanDays:      lifespan,
			TotalRevenue:      c.TotalSpent,
			CLV:               clv,
			PredictedCLV:      clv * clvGrowthFactor,
			Tier:              s.clvTier(clv),
		})
	}
	return out, nil
}

func (s *Service) clvTier(clv float64) model.Tier {
	switch {
	case clv > float64(s.cfg.CLVHighThreshold):
		return model.TierHigh
	case clv > float64(s.cfg.CLVMediumThreshold):
		return model.TierMedium
	default:
		return model.TierLow
	}
}
