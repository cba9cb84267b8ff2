package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/mberahman/pos-analytics/internal/analytics"
	"github.com/mberahman/pos-analytics/internal/http/middleware"
	"github.com/mberahman/pos-analytics/internal/metrics"
)

func rfmHandler(engine *analytics.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		tenantID, ok := middleware.TenantIDFromCtx(c)
		if !ok || tenantID <= 0 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		scores, err := engine.CalculateRFM(c.Request().Context(), tenantID)
		if err != nil {
			metrics.AnalyticsRuns.WithLabelValues("rfm", "error").Inc()
			log.Errorf("rfm failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}
		metrics.AnalyticsRuns.WithLabelValues("rfm", "ok").Inc()

		return c.JSON(http.StatusOK, map[string]any{
			"count":   len(scores),
			"results": scores,
		})
	}
}

func clvHandler(engine *analytics.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		tenantID, ok := middleware.TenantIDFromCtx(c)
		if !ok || tenantID <= 0 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		rows, err := engine.CalculateCLV(c.Request().Context(), tenantID)
		if err != nil {
			metrics.AnalyticsRuns.WithLabelValues("clv", "error").Inc()
			log.Errorf("clv failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}
		metrics.AnalyticsRuns.WithLabelValues("clv", "ok").Inc()

		return c.JSON(http.StatusOK, map[string]any{
			"count":   len(rows),
			"results": rows,
		})
	}
}

func cohortsHandler(engine *analytics.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		tenantID, ok := middleware.TenantIDFromCtx(c)
		if !ok || tenantID <= 0 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		months := 0 // 0 => engine default
		if v := c.QueryParam("months"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 || n > 60 {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid months"})
			}
			months = n
		}

		points, err := engine.CohortAnalysis(c.Request().Context(), tenantID, months)
		if err != nil {
			metrics.AnalyticsRuns.WithLabelValues("cohorts", "error").Inc()
			log.Errorf("cohort analysis failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}
		metrics.AnalyticsRuns.WithLabelValues("cohorts", "ok").Inc()

		return c.JSON(http.StatusOK, map[string]any{
			"count":   len(points),
			"results": points,
		})
	}
}

func churnHandler(engine *analytics.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		tenantID, ok := middleware.TenantIDFromCtx(c)
		if !ok || tenantID <= 0 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		rows, err := engine.ChurnPrediction(c.Request().Context(), tenantID)
		if err != nil {
			metrics.AnalyticsRuns.WithLabelValues("churn", "error").Inc()
			log.Errorf("churn prediction failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}
		metrics.AnalyticsRuns.WithLabelValues("churn", "ok").Inc()

		return c.JSON(http.StatusOK, map[string]any{
			"count":   len(rows),
			"results": rows,
		})
	}
}

func autoTagHandler(engine *analytics.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		tenantID, ok := middleware.TenantIDFromCtx(c)
		if !ok || tenantID <= 0 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		summary, err := engine.AutoTagCustomers(c.Request().Context(), tenantID)
		if err != nil {
			metrics.AnalyticsRuns.WithLabelValues("auto_tag", "error").Inc()
			log.Errorf("auto-tag failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}
		metrics.AnalyticsRuns.WithLabelValues("auto_tag", "ok").Inc()
		metrics.TaggedCustomers.WithLabelValues("ok").Add(float64(summary.Tagged))
		metrics.TaggedCustomers.WithLabelValues("error").Add(float64(len(summary.Errors)))

		return c.JSON(http.StatusOK, summary)
	}
}
