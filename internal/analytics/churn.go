package analytics

import (
	"context"
	"fmt"

	"github.com/mberahman/pos-analytics/internal/model"
)

// Churn thresholds in days since last order, evaluated descending; first
// match wins. "low" covers two buckets with different probabilities: drifting
// past 60 days scores 25, anything more recent scores 0.
const (
	churnHighDays   = 180
	churnMediumDays = 90
	churnLowDays    = 60

	churnHighProbability   = 85
	churnMediumProbability = 50
	churnLowProbability    = 25
)

// ChurnPrediction classifies churn risk for every active customer with at
// least one order and a known last activity date.
func (s *Service) ChurnPrediction(ctx context.Context, tenantID int64) ([]model.ChurnAssessment, error) {
	customers, err := s.customers.ActiveCustomers(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}

	now := s.now()
	out := make([]model.ChurnAssessment, 0, len(customers))
	for _, c := range customers {
		if c.OrderCount <= 0 || c.LastActivityAt == nil {
			continue
		}
		days := daysBetween(*c.LastActivityAt, now)

		risk := model.TierLow
		probability := 0
		switch {
		case days > churnHighDays:
			risk = model.TierHigh
			probability = churnHighProbability
		case days > churnMediumDays:
			risk = model.TierMedium
			probability = churnMediumProbability
		case days > churnLowDays:
			probability = churnLowProbability
		}

		out = append(out, model.ChurnAssessment{
			CustomerID:         c.ID,
			DaysSinceLastOrder: days,
			Risk:               risk,
			Probability:        probability,
		})
	}
	return out, nil
}
