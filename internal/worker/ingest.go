package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mberahman/pos-analytics/internal/kafka"
	"github.com/mberahman/pos-analytics/internal/metrics"
	"github.com/mberahman/pos-analytics/internal/model"
	"github.com/mberahman/pos-analytics/internal/repository"
	"github.com/mberahman/pos-analytics/internal/util"
)

// EventSource is the slice of the Kafka consumer the ingest worker needs.
type EventSource interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, m kafka.Message) error
}

// Ingest:
// - fetches order events from Kafka,
// - validates and normalizes them,
// - batches order inserts plus customer aggregate bumps atomically.
type Ingest struct {
	// Dependencies
	DB        *sqlx.DB
	Consumer  EventSource
	Orders    repository.OrdersRepository
	Customers repository.CustomersRepository

	// Behavior
	Workers   int           // number of goroutines parsing events
	BatchSize int           // max buffered orders per flush (items)
	BatchWait time.Duration // max time to wait before flush
}

// NewIngest builds an ingest worker with sane defaults.
func NewIngest(
	db *sqlx.DB,
	consumer EventSource,
	ordersRepo repository.OrdersRepository,
	customersRepo repository.CustomersRepository,
) *Ingest {
	return &Ingest{
		DB:        db,
		Consumer:  consumer,
		Orders:    ordersRepo,
		Customers: customersRepo,
		Workers:   32,
		BatchSize: 200,
		BatchWait: 300 * time.Millisecond,
	}
}

// Run starts the worker and blocks until ctx is cancelled.
func (w *Ingest) Run(ctx context.Context) error {
	if w.Consumer == nil {
		return errors.New("ingest: nil consumer")
	}
	if w.Workers <= 0 {
		w.Workers = 32
	}
	if w.BatchSize <= 0 {
		w.BatchSize = 200
	}
	if w.BatchWait <= 0 {
		w.BatchWait = 300 * time.Millisecond
	}

	// Channel for parsed orders → batch writer. Never closed: processors may
	// still be mid-send at shutdown, and the writer exits on ctx anyway.
	orders := make(chan model.Order, w.BatchSize*2)

	// Start batch writer
	go w.runBatchWriter(ctx, orders)

	// Fetch loop → fan-out to processors
	msgCh := make(chan kafka.Message, w.Workers*2)

	// Fetcher goroutine
	go func() {
		defer close(msgCh)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				m, err := w.Consumer.Fetch(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Printf("[ingest] kafka fetch err: %v", err)
					time.Sleep(200 * time.Millisecond)
					continue
				}
				msgCh <- m
			}
		}
	}()

	// Start processors
	for i := 0; i < w.Workers; i++ {
		go w.runProcessor(ctx, msgCh, orders)
	}

	// Block until shutdown
	<-ctx.Done()
	return nil
}

func (w *Ingest) runProcessor(ctx context.Context, in <-chan kafka.Message, out chan<- model.Order) {
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-in:
			if !ok {
				return
			}
			w.processOne(ctx, m, out)
		}
	}
}

func (w *Ingest) processOne(ctx context.Context, m kafka.Message, out chan<- model.Order) {
	metrics.OrdersIngested.WithLabelValues("received").Inc()

	var ev model.OrderEvent
	err := json.Unmarshal(m.Value, &ev)
	if err == nil {
		err = validateEvent(&ev)
	}
	if err != nil {
		// poison → commit, skip
		metrics.OrdersIngested.WithLabelValues("poison").Inc()
		log.Printf("[ingest] bad order event: %v", err)
		_ = w.Consumer.Commit(ctx, m)
		return
	}

	select {
	case out <- model.Order{
		ID:         ev.ID,
		TenantID:   ev.TenantID,
		CustomerID: ev.CustomerID,
		Amount:     ev.Amount,
		Status:     ev.Status,
		CreatedAt:  ev.CreatedAt,
	}:
	case <-ctx.Done():
		return
	}

	// Always commit (at-least-once; inserts are idempotent on the ULID)
	if err := w.Consumer.Commit(ctx, m); err != nil {
		log.Printf("[ingest] commit err: %v", err)
	}
}

// validateEvent normalizes an order event in place, assigning a ULID and
// defaulting status/created_at when absent.
func validateEvent(ev *model.OrderEvent) error {
	if ev.TenantID <= 0 {
		return errors.New("missing tenant_id")
	}
	if ev.CustomerID <= 0 {
		return errors.New("missing customer_id")
	}
	if ev.Amount <= 0 {
		return errors.New("non-positive amount")
	}
	if ev.Status == "" {
		ev.Status = model.OrderCompleted
	}
	if !ev.Status.Valid() {
		return errors.New("invalid status")
	}
	if ev.ID == "" {
		ev.ID = util.NewID()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	return nil
}

// buildDeltas folds one flush batch into per-customer aggregate bumps.
// Only completed orders count toward order_count/total_spent, and
// LastOrderAt is the latest completed order timestamp; pending and
// cancelled orders are persisted but bump nothing.
func buildDeltas(orders []model.Order) []repository.CustomerOrderDelta {
	deltaMap := make(map[int64]repository.CustomerOrderDelta, 64)
	for _, o := range orders {
		if o.Status != model.OrderCompleted {
			continue
		}
		d := deltaMap[o.CustomerID]
		d.CustomerID = o.CustomerID
		d.Orders++
		d.Spent += o.Amount
		if o.CreatedAt.After(d.LastOrderAt) {
			d.LastOrderAt = o.CreatedAt
		}
		deltaMap[o.CustomerID] = d
	}

	deltas := make([]repository.CustomerOrderDelta, 0, len(deltaMap))
	for _, d := range deltaMap {
		deltas = append(deltas, d)
	}
	return deltas
}

// runBatchWriter does size/time-based flush of order inserts and customer
// aggregate bumps atomically.
func (w *Ingest) runBatchWriter(ctx context.Context, in <-chan model.Order) {
	tick := time.NewTicker(w.BatchWait)
	defer tick.Stop()

	var pending []model.Order

	flush := func() {
		if len(pending) == 0 {
			return
		}

		deltas := buildDeltas(pending)

		// Single TX: orders insert + customer aggregate bumps
		tx, err := w.DB.BeginTxx(ctx, nil)
		if err != nil {
			log.Printf("[ingest] begin tx err: %v", err)
			metrics.OrdersIngested.WithLabelValues("dropped").Add(float64(len(pending)))
			pending = pending[:0]
			return
		}
		defer func() { _ = tx.Rollback() }()

		if err := w.Orders.BatchInsert(ctx, tx, pending); err != nil {
			log.Printf("[ingest] orders batch insert err: %v", err)
			return
		}
		if err := w.Customers.BatchApplyOrderStats(ctx, tx, deltas); err != nil {
			log.Printf("[ingest] customer stats batch err: %v", err)
			return
		}

		if err := tx.Commit(); err != nil {
			log.Printf("[ingest] tx commit err: %v", err)
			return
		}

		metrics.OrdersIngested.WithLabelValues("stored").Add(float64(len(pending)))
		log.Printf("[ingest] flushed: orders=%d customers=%d", len(pending), len(deltas))

		pending = pending[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return

		case o, ok := <-in:
			if !ok {
				flush()
				return
			}
			pending = append(pending, o)
			if len(pending) >= w.BatchSize {
				flush()
			}

		case <-tick.C:
			flush()
		}
	}
}
