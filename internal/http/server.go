package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/mberahman/pos-analytics/internal/analytics"
	"github.com/mberahman/pos-analytics/internal/config"
	"github.com/mberahman/pos-analytics/internal/http/middleware"
	"github.com/mberahman/pos-analytics/internal/metrics"
	"github.com/mberahman/pos-analytics/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Server struct{ e *echo.Echo }

func NewServer(cfg config.Config, mysqlDB, clickhouseDB *sqlx.DB, rds *redis.Client) *Server {
	// repos (MySQL)
	tenantsRepo := repository.NewTenantsRepository(mysqlDB)
	customersRepo := repository.NewCustomersRepository(mysqlDB)
	ordersRepo := repository.NewOrdersRepository(mysqlDB)

	// repos (ClickHouse)
	chOrdersRepo := repository.NewCHOrdersRepository(clickhouseDB)

	// analytics engine
	engine := analytics.New(customersRepo, ordersRepo, customersRepo, analytics.Config{
		CLVHighThreshold:   cfg.Analytics.CLVHighThreshold,
		CLVMediumThreshold: cfg.Analytics.CLVMediumThreshold,
		CohortWindowMonths: cfg.Analytics.CohortWindowMonths,
	})

	// echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMid.Recover(), echoMid.Logger())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// middlewares
	authMW := middleware.APIKeyMiddleware(tenantsRepo)
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          rds,
		DefaultRPS:     cfg.RateLimit.RPS,
		KeyPrefix:      "rl:tenant:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	// routes
	v1 := e.Group("/v1", authMW, rlMW)
	v1.GET("/analytics/rfm", rfmHandler(engine))
	v1.GET("/analytics/clv", clvHandler(engine))
	v1.GET("/analytics/cohorts", cohortsHandler(engine))
	v1.GET("/analytics/churn", churnHandler(engine))
	v1.POST("/analytics/auto-tag", autoTagHandler(engine))
	v1.GET("/reports/orders", listOrdersHandler(chOrdersRepo))

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	log.Printf("http: listening on %s", addr)
	return s.e.Start(addr)
}
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
