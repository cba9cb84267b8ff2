package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mberahman/pos-analytics/internal/analytics"
	"github.com/mberahman/pos-analytics/internal/config"
	"github.com/mberahman/pos-analytics/internal/db"
	"github.com/mberahman/pos-analytics/internal/logger"
	"github.com/mberahman/pos-analytics/internal/metrics"
	"github.com/mberahman/pos-analytics/internal/repository"
	"github.com/mberahman/pos-analytics/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var taggerCmd = &cobra.Command{
	Use:   "tagger",
	Short: "Run periodic segment tagger",
	RunE:  runTagger,
}

func runTagger(cmd *cobra.Command, args []string) error {
	// 1) load config
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Log.Level)
	metrics.MustRegister(prometheus.DefaultRegisterer)

	// 2) DB connection (MySQL)
	dbx, err := db.OpenMySQL(cfg.MySQL)
	if err != nil {
		return fmt.Errorf("mysql connect: %w", err)
	}
	defer dbx.Close()

	// 3) repositories + engine
	tenantsRepo := repository.NewTenantsRepository(dbx)
	customersRepo := repository.NewCustomersRepository(dbx)
	ordersRepo := repository.NewOrdersRepository(dbx)

	engine := analytics.New(customersRepo, ordersRepo, customersRepo, analytics.Config{
		CLVHighThreshold:   cfg.Analytics.CLVHighThreshold,
		CLVMediumThreshold: cfg.Analytics.CLVMediumThreshold,
		CohortWindowMonths: cfg.Analytics.CohortWindowMonths,
	})

	w := worker.NewTagger(tenantsRepo, engine, cfg.Tagger.Interval)

	// 4) graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf(">> tagger started interval=%s", w.Interval)

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
