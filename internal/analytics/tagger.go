package analytics

import (
	"context"

	"github.com/mberahman/pos-analytics/internal/model"
)

// AutoTagCustomers runs an RFM pass and writes the derived coarse customer
// type onto every scored customer. Writes are per-customer: one failure is
// recorded in the summary and does not abort or roll back the rest of the
// batch. The returned error is only non-nil when the RFM pass itself cannot
// run.
func (s *Service) AutoTagCustomers(ctx context.Context, tenantID int64) (model.TagSummary, error) {
	scores, err := s.CalculateRFM(ctx, tenantID)
	if err != nil {
		return model.TagSummary{}, err
	}

	summary := model.TagSummary{Errors: []model.TagError{}}
	for _, sc := range scores {
		typ := typeForSegment(sc.Segment)
		if err := s.sink.UpdateCustomerType(ctx, tenantID, sc.CustomerID, typ); err != nil {
			summary.Errors = append(summary.Errors, model.TagError{
				CustomerID: sc.CustomerID,
				Message:    err.Error(),
			})
			continue
		}
		summary.Tagged++
	}
	return summary, nil
}
