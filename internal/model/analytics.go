package model

// Segment is a named RFM segment assigned from the composite code table.
type Segment string

const (
	SegmentChampions          Segment = "Champions"
	SegmentLoyalCustomers     Segment = "Loyal Customers"
	SegmentPotentialLoyalists Segment = "Potential Loyalists"
	SegmentNewCustomers       Segment = "New Customers"
	SegmentPromising          Segment = "Promising"
	SegmentNeedAttention      Segment = "Need Attention"
	SegmentAboutToSleep       Segment = "About to Sleep"
	SegmentAtRisk             Segment = "At Risk"
	SegmentCannotLoseThem     Segment = "Cannot Lose Them"
	SegmentHibernating        Segment = "Hibernating"
	SegmentLost               Segment = "Lost"
)

func (s Segment) String() string { return string(s) }

// Tier is a coarse high/medium/low band, used for CLV profitability and
// churn risk.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

func (t Tier) String() string { return string(t) }

// RFMScore is the per-customer result of one RFM scoring pass. It is computed
// fresh on every call and never persisted; only the derived segment label is
// written back through the tagger.
type RFMScore struct {
	CustomerID  int64   `json:"customer_id"`
	Recency     int     `json:"recency"`   // 1-5, higher = more recent
	Frequency   int     `json:"frequency"` // 1-5
	Monetary    int     `json:"monetary"`  // 1-5
	Code        string  `json:"code"`      // e.g. "555"
	Segment     Segment `json:"segment"`
	RecencyDays int     `json:"recency_days"`
	OrderCount  int64   `json:"order_count"`
	TotalSpent  int64   `json:"total_spent"`
}

// CLVMetrics is the per-customer lifetime value estimate.
type CLVMetrics struct {
	CustomerID        int64   `json:"customer_id"`
	AvgOrderValue     float64 `json:"avg_order_value"`
	PurchaseFrequency float64 `json:"purchase_frequency"` // annualized
	LifespanDays      int     `json:"lifespan_days"`
	TotalRevenue      int64   `json:"total_revenue"`
	CLV               float64 `json:"clv"`
	PredictedCLV      float64 `json:"predicted_clv"`
	Tier              Tier    `json:"tier"`
}

// CohortPoint is one (signup cohort, offset period) cell of the retention
// grid.
type CohortPoint struct {
	Cohort        string  `json:"cohort"` // signup month, "2006-01"
	Period        int     `json:"period"` // months since signup, >= 0
	Customers     int     `json:"customers"`
	Revenue       int64   `json:"revenue"`
	RetentionRate float64 `json:"retention_rate"` // percent of period-0 size
	ChurnRate     float64 `json:"churn_rate"`     // 100 - retention
}

// ChurnAssessment is the per-customer churn risk classification.
type ChurnAssessment struct {
	CustomerID         int64 `json:"customer_id"`
	DaysSinceLastOrder int   `json:"days_since_last_order"`
	Risk               Tier  `json:"risk"`
	Probability        int   `json:"probability"` // percent
}

// TagError records one failed customer-type write during auto-tagging.
type TagError struct {
	CustomerID int64  `json:"customer_id"`
	Message    string `json:"message"`
}

// TagSummary is the outcome of one auto-tag batch. Tagged counts only
// successful writes; a failed write lands in Errors and does not abort the
// rest of the batch.
type TagSummary struct {
	Tagged int        `json:"tagged"`
	Errors []TagError `json:"errors"`
}
