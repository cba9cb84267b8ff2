package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AnalyticsRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "posa_analytics_runs_total",
			Help: "Analytics computations by kind and outcome",
		},
		[]string{"kind", "outcome"}, // rfm|clv|cohorts|churn|auto_tag , ok|error
	)

	TaggedCustomers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "posa_tagged_customers_total",
			Help: "Customer type writes performed by the segment tagger",
		},
		[]string{"result"}, // ok|error
	)

	OrdersIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "posa_orders_ingested_total",
			Help: "Order events lifecycle counter by stage",
		},
		[]string{"stage"}, // received|poison|stored|dropped
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		AnalyticsRuns,
		TaggedCustomers,
		OrdersIngested,
	)
}
