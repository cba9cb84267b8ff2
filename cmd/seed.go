package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mberahman/pos-analytics/internal/config"
	"github.com/mberahman/pos-analytics/internal/db"
	"github.com/mberahman/pos-analytics/internal/util"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo tenants, customers and orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1) load config
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// 2) connect MySQL
		sqlDB, err := db.OpenMySQL(cfg.MySQL)
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		log.Println(">> Seeding demo data...")

		if err := seedTenants(sqlDB); err != nil {
			return err
		}
		if err := seedCustomers(sqlDB); err != nil {
			return err
		}

		log.Println(">> Seed completed ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

// seedTenants inserts 2 deterministic demo tenants (idempotent).
func seedTenants(dbx *sqlx.DB) error {
	const q = `
INSERT INTO tenants
    (name, api_key, status, rate_limit_rps, created_at, updated_at)
VALUES
    (?, ?, ?, ?, NOW(), NOW())
ON DUPLICATE KEY UPDATE
    name       = VALUES(name),
    status     = VALUES(status),
    rate_limit_rps = VALUES(rate_limit_rps),
    updated_at = VALUES(updated_at)
`
	tenants := []struct {
		name   string
		apiKey string
		status string
		rps    *int
	}{
		{"Corner Market", "11111111111111111111111111111111", "active", intptr(20)},
		{"Suspended Kiosk", "22222222222222222222222222222222", "suspended", nil},
	}
	for _, t := range tenants {
		if _, err := dbx.Exec(q, t.name, t.apiKey, t.status, t.rps); err != nil {
			return fmt.Errorf("insert tenant %q: %w", t.name, err)
		}
	}
	return nil
}

// demoCustomer describes one seeded customer; their orders are generated to
// match the lifetime aggregates exactly.
type demoCustomer struct {
	name             string
	phone            string
	signupDaysAgo    int
	orders           int
	amount           int64 // per order, minor units
	lastOrderDaysAgo int
}

// Shapes chosen so RFM, CLV, cohorts and churn all return varied output:
// a champion, a loyal regular, a fresh signup, a drifting mid-risk buyer,
// a long-gone big spender, and a signup who never bought.
var demoCustomers = []demoCustomer{
	{"Mina Rahimi", "+15550100001", 420, 24, 850_000, 4},
	{"Omid Karimi", "+15550100002", 300, 11, 420_000, 21},
	{"Sara Naderi", "+15550100003", 18, 2, 310_000, 6},
	{"Pouya Akbari", "+15550100004", 260, 5, 380_000, 95},
	{"Leila Moradi", "+15550100005", 540, 9, 1_200_000, 220},
	{"Hamid Souri", "+15550100006", 40, 0, 0, 0},
}

// seedCustomers inserts demo customers for the first tenant and generates a
// consistent order history (idempotent; orders are only written once).
func seedCustomers(dbx *sqlx.DB) error {
	var tenantID int64
	if err := dbx.Get(&tenantID, `SELECT id FROM tenants WHERE api_key = ? LIMIT 1`,
		"11111111111111111111111111111111"); err != nil {
		return fmt.Errorf("lookup demo tenant: %w", err)
	}

	tx, err := dbx.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()
	const cq = `
INSERT INTO customers
    (tenant_id, name, phone, signup_at, last_activity_at, order_count,
     total_spent, customer_type, is_active, created_at, updated_at)
VALUES
    (?, ?, ?, ?, ?, ?, ?, 'regular', 1, NOW(), NOW())
ON DUPLICATE KEY UPDATE
    name             = VALUES(name),
    signup_at        = VALUES(signup_at),
    last_activity_at = VALUES(last_activity_at),
    order_count      = VALUES(order_count),
    total_spent      = VALUES(total_spent),
    updated_at       = VALUES(updated_at)
`
	for _, c := range demoCustomers {
		signup := now.AddDate(0, 0, -c.signupDaysAgo)
		var lastActivity *time.Time
		if c.orders > 0 {
			la := now.AddDate(0, 0, -c.lastOrderDaysAgo)
			lastActivity = &la
		}
		if _, err := tx.Exec(cq, tenantID, c.name, c.phone, signup, lastActivity,
			c.orders, int64(c.orders)*c.amount); err != nil {
			return fmt.Errorf("insert customer %q: %w", c.name, err)
		}
	}

	// Orders: skip when the tenant already has history (ULIDs are not
	// deterministic, so re-running would duplicate rows otherwise).
	var existing int
	if err := tx.Get(&existing, `SELECT COUNT(*) FROM orders WHERE tenant_id = ?`, tenantID); err != nil {
		return fmt.Errorf("count orders: %w", err)
	}
	if existing > 0 {
		return tx.Commit()
	}

	const oq = `
INSERT INTO orders (id, tenant_id, customer_id, amount, status, created_at, updated_at)
VALUES (?, ?, ?, ?, 'completed', ?, NOW())
`
	for _, c := range demoCustomers {
		if c.orders == 0 {
			continue
		}
		var customerID int64
		if err := tx.Get(&customerID,
			`SELECT id FROM customers WHERE tenant_id = ? AND phone = ? LIMIT 1`,
			tenantID, c.phone); err != nil {
			return fmt.Errorf("lookup customer %q: %w", c.name, err)
		}

		// spread orders evenly between signup and last order
		first := c.signupDaysAgo
		last := c.lastOrderDaysAgo
		step := 0
		if c.orders > 1 {
			step = (first - last) / (c.orders - 1)
		}
		for i := 0; i < c.orders; i++ {
			daysAgo := first - i*step
			if i == c.orders-1 {
				daysAgo = last
			}
			createdAt := now.AddDate(0, 0, -daysAgo)
			if _, err := tx.Exec(oq, util.NewID(), tenantID, customerID, c.amount, createdAt); err != nil {
				return fmt.Errorf("insert order for %q: %w", c.name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func intptr(i int) *int { return &i }
