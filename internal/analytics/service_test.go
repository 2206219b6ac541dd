package analytics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/angelmondragon/shoplytics-backend/internal/gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
  user_id INTEGER PRIMARY KEY,
  username TEXT,
  email TEXT,
  registration_date DATETIME,
  last_login DATETIME,
  status TEXT
);`,
	`CREATE TABLE IF NOT EXISTS products (
  product_id INTEGER PRIMARY KEY,
  product_name TEXT,
  category TEXT,
  price REAL,
  cost REAL,
  stock_quantity INTEGER,
  status TEXT,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS orders (
  order_id INTEGER PRIMARY KEY,
  user_id INTEGER,
  order_date DATETIME,
  total_amount REAL,
  status TEXT,
  payment_method TEXT
);`,
	`CREATE TABLE IF NOT EXISTS order_items (
  item_id INTEGER PRIMARY KEY,
  order_id INTEGER,
  product_id INTEGER,
  quantity INTEGER,
  unit_price REAL
);`,
	`CREATE TABLE IF NOT EXISTS platform_sales (
  date TEXT PRIMARY KEY,
  platform TEXT,
  gmv REAL,
  order_count INTEGER,
  paying_users INTEGER,
  refund_count INTEGER,
  refund_rate REAL,
  aov REAL
);`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "analytics.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	for _, ddl := range testSchema {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

// testClock is a fixed reference instant so today/monthly windows are stable.
var testClock = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, db *gorm.DB) *service {
	t.Helper()

	svc, err := NewService(db, gate.New(gate.DefaultRules()))
	require.NoError(t, err)

	impl := svc.(*service)
	impl.now = func() time.Time { return testClock }
	return impl
}

func insertOrder(t *testing.T, db *gorm.DB, id, userID int64, at time.Time, total float64, status, payment string) {
	t.Helper()
	require.NoError(t, db.Exec(
		`INSERT INTO orders (order_id, user_id, order_date, total_amount, status, payment_method) VALUES (?, ?, ?, ?, ?, ?)`,
		id, userID, at, total, status, payment,
	).Error)
}

func TestDashboardOverviewFromOrders(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	today := testClock
	insertOrder(t, db, 1, 10, today.Add(-2*time.Hour), 100, "delivered", "alipay")
	insertOrder(t, db, 2, 10, today.Add(-1*time.Hour), 200, "shipped", "wechat")
	insertOrder(t, db, 3, 11, today.Add(-30*time.Minute), 50, "cancelled", "card")
	insertOrder(t, db, 4, 12, today.AddDate(0, 0, -5), 300, "delivered", "card")
	insertOrder(t, db, 5, 13, today.AddDate(0, 0, -45), 999, "delivered", "card")

	overview, err := svc.DashboardOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), overview.Today.TodayOrders, "cancelled orders are excluded")
	assert.InDelta(t, 300.0, overview.Today.TodaySales, 0.001)
	assert.Equal(t, int64(1), overview.Today.TodayCustomers)
	assert.InDelta(t, 150.0, overview.Today.TodayAvgOrderValue, 0.001)

	assert.Equal(t, int64(3), overview.Monthly.MonthlyOrders, "45-day-old order is outside the window")
	assert.InDelta(t, 600.0, overview.Monthly.MonthlySales, 0.001)
	assert.Equal(t, int64(2), overview.Monthly.MonthlyCustomers)
}

func TestDashboardOverviewUsesPlatformSeriesWhenOrdersEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	require.NoError(t, db.Exec(
		`INSERT INTO platform_sales (date, platform, gmv, order_count, paying_users, refund_count, refund_rate, aov)
		 VALUES (?, 'douyin', 5000, 40, 35, 1, 1.2, 125)`,
		testClock.Format("2006-01-02"),
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO platform_sales (date, platform, gmv, order_count, paying_users, refund_count, refund_rate, aov)
		 VALUES (?, 'douyin', 3000, 25, 20, 0, 0, 120)`,
		testClock.AddDate(0, 0, -10).Format("2006-01-02"),
	).Error)

	overview, err := svc.DashboardOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(40), overview.Today.TodayOrders, "order count comes from the platform row")
	assert.InDelta(t, 5000.0, overview.Today.TodaySales, 0.001)
	assert.Equal(t, int64(35), overview.Today.TodayCustomers)
	assert.Equal(t, int64(65), overview.Monthly.MonthlyOrders)
	assert.InDelta(t, 8000.0, overview.Monthly.MonthlySales, 0.001)
}

func TestDashboardOverviewPrefersOrdersWhenBothPopulated(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	insertOrder(t, db, 1, 10, testClock.Add(-time.Hour), 100, "delivered", "alipay")
	require.NoError(t, db.Exec(
		`INSERT INTO platform_sales (date, platform, gmv, order_count, paying_users, refund_count, refund_rate, aov)
		 VALUES (?, 'douyin', 99999, 999, 900, 0, 0, 100)`,
		testClock.Format("2006-01-02"),
	).Error)

	overview, err := svc.DashboardOverview(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 100.0, overview.Today.TodaySales, 0.001)
}

func TestSalesTrendGroupsByDay(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	dayA := testClock.AddDate(0, 0, -2)
	dayB := testClock.AddDate(0, 0, -1)
	insertOrder(t, db, 1, 10, dayA, 100, "delivered", "alipay")
	insertOrder(t, db, 2, 11, dayA.Add(3*time.Hour), 200, "shipped", "card")
	insertOrder(t, db, 3, 12, dayB, 400, "delivered", "wechat")
	insertOrder(t, db, 4, 13, dayB.Add(time.Hour), 50, "cancelled", "card")

	points, err := svc.SalesTrend(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, dayA.Format("2006-01-02"), points[0].Date)
	assert.Equal(t, int64(2), points[0].OrderCount)
	assert.InDelta(t, 300.0, points[0].DailySales, 0.001)
	assert.InDelta(t, 150.0, points[0].AvgOrderValue, 0.001)

	assert.Equal(t, dayB.Format("2006-01-02"), points[1].Date)
	assert.Equal(t, int64(1), points[1].OrderCount, "cancelled order drops out")
	assert.InDelta(t, 400.0, points[1].DailySales, 0.001)
}

func TestSalesTrendWindowBounds(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	insertOrder(t, db, 1, 10, testClock.AddDate(0, 0, -40), 100, "delivered", "alipay")
	insertOrder(t, db, 2, 11, testClock.AddDate(0, 0, -5), 200, "delivered", "card")

	points, err := svc.SalesTrend(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, points, 1, "default window is 30 days")

	points, err = svc.SalesTrend(context.Background(), 10_000)
	require.NoError(t, err)
	assert.Len(t, points, 2, "oversized window clamps to a year")
}

func TestCategoryAnalysisOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	require.NoError(t, db.Exec(`INSERT INTO products (product_id, product_name, category, price) VALUES
		(1, 'Phone', 'electronics', 500),
		(2, 'Shirt', 'apparel', 25),
		(3, 'Mug', 'home', 25)`).Error)

	insertOrder(t, db, 1, 10, testClock.Add(-time.Hour), 550, "delivered", "alipay")
	insertOrder(t, db, 2, 11, testClock.Add(-2*time.Hour), 50, "delivered", "card")
	insertOrder(t, db, 3, 12, testClock.Add(-3*time.Hour), 500, "cancelled", "card")

	require.NoError(t, db.Exec(`INSERT INTO order_items (item_id, order_id, product_id, quantity, unit_price) VALUES
		(1, 1, 1, 1, 500),
		(2, 1, 2, 2, 25),
		(3, 2, 3, 2, 25),
		(4, 3, 1, 1, 500)`).Error)

	stats, err := svc.CategoryAnalysis(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, "electronics", stats[0].Category)
	assert.InDelta(t, 500.0, stats[0].TotalRevenue, 0.001, "cancelled order's items excluded")
	assert.Equal(t, "apparel", stats[1].Category, "revenue tie broken by category name")
	assert.Equal(t, "home", stats[2].Category)
	assert.Equal(t, int64(2), stats[1].TotalQuantity)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, gate.New(gate.DefaultRules()))
	assert.Error(t, err)

	_, err = NewService(newTestDB(t), nil)
	assert.Error(t, err)
}
