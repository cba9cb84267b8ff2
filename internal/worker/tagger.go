package worker

import (
	"context"
	"time"

	"github.com/mberahman/pos-analytics/internal/analytics"
	"github.com/mberahman/pos-analytics/internal/logger"
	"github.com/mberahman/pos-analytics/internal/metrics"
	"github.com/mberahman/pos-analytics/internal/repository"
	"go.uber.org/zap"
)

// Tagger periodically refreshes segment labels for every active tenant.
// One tenant failing does not stop the sweep.
type Tagger struct {
	Tenants  repository.TenantsRepository
	Engine   *analytics.Service
	Interval time.Duration
}

func NewTagger(tenants repository.TenantsRepository, engine *analytics.Service, interval time.Duration) *Tagger {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Tagger{Tenants: tenants, Engine: engine, Interval: interval}
}

// Run sweeps once immediately, then on every interval tick until ctx is
// cancelled.
func (w *Tagger) Run(ctx context.Context) error {
	w.sweep(ctx)

	tick := time.NewTicker(w.Interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			w.sweep(ctx)
		}
	}
}

func (w *Tagger) sweep(ctx context.Context) {
	tenants, err := w.Tenants.ListActive(ctx)
	if err != nil {
		logger.L().Error("tagger: list tenants failed", zap.Error(err))
		return
	}

	for _, t := range tenants {
		summary, err := w.Engine.AutoTagCustomers(ctx, t.ID)
		if err != nil {
			metrics.AnalyticsRuns.WithLabelValues("auto_tag", "error").Inc()
			logger.L().Error("tagger: auto-tag failed",
				zap.Int64("tenant_id", t.ID), zap.Error(err))
			continue
		}
		metrics.AnalyticsRuns.WithLabelValues("auto_tag", "ok").Inc()
		metrics.TaggedCustomers.WithLabelValues("ok").Add(float64(summary.Tagged))
		metrics.TaggedCustomers.WithLabelValues("error").Add(float64(len(summary.Errors)))

		logger.L().Info("tagger: tenant swept",
			zap.Int64("tenant_id", t.ID),
			zap.Int("tagged", summary.Tagged),
			zap.Int("errors", len(summary.Errors)))
	}
}
