// Package kafka wraps the segmentio reader for the order-event stream that
// POS terminals publish into.
package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Defaults for the order-event stream.
const (
	DefaultTopic   = "orders.events"
	DefaultGroupID = "posa-ingest"
)

type Config struct {
	Brokers        []string
	Topic          string        // default orders.events
	GroupID        string        // default posa-ingest
	MinBytes       int           // default 1KB
	MaxBytes       int           // default 10MB
	CommitInterval time.Duration // default 1s (0 = sync each msg)
	MaxWait        time.Duration // default 50ms
}

func (c Config) withDefaults() Config {
	if c.Topic == "" {
		c.Topic = DefaultTopic
	}
	if c.GroupID == "" {
		c.GroupID = DefaultGroupID
	}
	if c.MinBytes <= 0 {
		c.MinBytes = 1 << 10
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 10 << 20
	}
	if c.CommitInterval <= 0 {
		c.CommitInterval = time.Second
	}
	if c.MaxWait <= 0 {
		c.MaxWait = 50 * time.Millisecond
	}
	return c
}

type Message = kafka.Message

// Consumer fetches order events. Commits are explicit so the ingest worker
// controls at-least-once semantics around poison messages.
type Consumer struct {
	r     *kafka.Reader
	topic string
}

func NewConsumerFromConfig(c Config) *Consumer {
	c = c.withDefaults()
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.GroupID,
		Topic:          c.Topic,
		MinBytes:       c.MinBytes,
		MaxBytes:       c.MaxBytes,
		CommitInterval: c.CommitInterval,
		MaxWait:        c.MaxWait,
	})
	return &Consumer{r: r, topic: c.Topic}
}

func (c *Consumer) Topic() string { return c.topic }

func (c *Consumer) Fetch(ctx context.Context) (Message, error) {
	return c.r.FetchMessage(ctx)
}

func (c *Consumer) Commit(ctx context.Context, m Message) error {
	return c.r.CommitMessages(ctx, m)
}

func (c *Consumer) Close() error { return c.r.Close() }
