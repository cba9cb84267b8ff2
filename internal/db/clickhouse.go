package db

import (
	"fmt"
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jmoiron/sqlx"
	"github.com/mberahman/pos-analytics/internal/config"
)

// OpenClickHouse connects to the order-history warehouse used by the report
// endpoints.
func OpenClickHouse(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("empty ClickHouse DSN")
	}
	conn, err := sqlx.Open("clickhouse", cfg.DSN)
	if err != nil {
		return nil, err
	}
	applyPool(conn, cfg)

	if err := pingWithTimeout(conn, cfg.PingTimeout, 3*time.Second); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}
