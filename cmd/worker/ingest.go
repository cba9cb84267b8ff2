package worker

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mberahman/pos-analytics/internal/config"
	"github.com/mberahman/pos-analytics/internal/db"
	"github.com/mberahman/pos-analytics/internal/kafka"
	"github.com/mberahman/pos-analytics/internal/metrics"
	"github.com/mberahman/pos-analytics/internal/repository"
	"github.com/mberahman/pos-analytics/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run order events ingest worker",
	RunE:  runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	// 1) load config
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)

	// 2) DB connection (MySQL)
	dbx, err := db.OpenMySQL(cfg.MySQL)
	if err != nil {
		return fmt.Errorf("mysql connect: %w", err)
	}
	defer dbx.Close()

	// 3) repositories
	ordersRepo := repository.NewOrdersRepository(dbx)
	customersRepo := repository.NewCustomersRepository(dbx)

	// 4) kafka consumer
	consumer := kafka.NewConsumerFromConfig(kafka.Config{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          cfg.Kafka.Topic,
		GroupID:        cfg.Kafka.GroupID,
		MinBytes:       cfg.Kafka.MinBytes,
		MaxBytes:       cfg.Kafka.MaxBytes,
		CommitInterval: time.Duration(cfg.Kafka.CommitInterval) * time.Millisecond,
	})
	defer consumer.Close()

	w := worker.NewIngest(dbx, consumer, ordersRepo, customersRepo)

	// tune knobs
	if cfg.Ingest.WorkerCount > 0 {
		w.Workers = cfg.Ingest.WorkerCount
	}
	if cfg.Ingest.BatchSize > 0 {
		w.BatchSize = cfg.Ingest.BatchSize
	}
	if cfg.Ingest.BatchWait > 0 {
		w.BatchWait = cfg.Ingest.BatchWait
	}

	// 5) graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf(">> ingest started topic=%s workers=%d batchSize=%d batchWait=%s",
		consumer.Topic(), w.Workers, w.BatchSize, w.BatchWait)

	return w.Run(ctx)
}
