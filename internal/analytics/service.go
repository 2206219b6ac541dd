package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/shoplytics-backend/internal/gate"
	"github.com/angelmondragon/shoplytics-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Service exposes the read-only analytics catalog. Every operation is a
// stateless aggregate query; callers decide what to do with failures.
type Service interface {
	DashboardOverview(ctx context.Context) (*Overview, error)
	SalesTrend(ctx context.Context, days int) ([]TrendPoint, error)
	CategoryAnalysis(ctx context.Context) ([]CategoryStat, error)
	PlatformTrend(ctx context.Context) ([]PlatformPoint, error)
	DayOrders(ctx context.Context, day time.Time) ([]DayOrder, error)
	DayStats(ctx context.Context, day time.Time) (*DayBreakdown, error)
	CustomQuery(ctx context.Context, query string) ([]map[string]any, error)
	DatabaseInfo(ctx context.Context) (map[string]TableInfo, error)
	SampleRows(ctx context.Context, table string, limit int) ([]map[string]any, error)
}

const (
	// DefaultTrendDays is the trailing window when the caller does not ask
	// for one.
	DefaultTrendDays = 30
	// MaxTrendDays caps the trailing window.
	MaxTrendDays = 365
)

type service struct {
	db   *gorm.DB
	gate *gate.Gate
	now  func() time.Time
}

// NewService builds the analytics catalog over the provided connection.
func NewService(db *gorm.DB, g *gate.Gate) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection required")
	}
	if g == nil {
		return nil, fmt.Errorf("query gate required")
	}
	return &service{db: db, gate: g, now: time.Now}, nil
}

const overviewOrdersSQL = `
SELECT
  COUNT(*) AS today_orders,
  COALESCE(SUM(total_amount), 0) AS today_sales,
  COUNT(DISTINCT user_id) AS today_customers,
  COALESCE(AVG(total_amount), 0) AS today_avg_order_value
FROM orders
WHERE order_date >= ? AND order_date < ?
  AND status != 'cancelled'
`

const overviewMonthlyOrdersSQL = `
SELECT
  COUNT(*) AS monthly_orders,
  COALESCE(SUM(total_amount), 0) AS monthly_sales,
  COUNT(DISTINCT user_id) AS monthly_customers
FROM orders
WHERE order_date >= ?
  AND status != 'cancelled'
`

const overviewPlatformSQL = `
SELECT
  COALESCE(SUM(order_count), 0) AS today_orders,
  COALESCE(SUM(gmv), 0) AS today_sales,
  COALESCE(SUM(paying_users), 0) AS today_customers,
  COALESCE(AVG(aov), 0) AS today_avg_order_value
FROM platform_sales
WHERE date = ?
`

const overviewMonthlyPlatformSQL = `
SELECT
  COALESCE(SUM(order_count), 0) AS monthly_orders,
  COALESCE(SUM(gmv), 0) AS monthly_sales,
  COALESCE(SUM(paying_users), 0) AS monthly_customers
FROM platform_sales
WHERE date >= ?
`

// DashboardOverview reports today's and the trailing 30 days' headline
// numbers. When the orders table is empty but platform_sales is populated,
// the pre-aggregated platform series is used instead.
func (s *service) DashboardOverview(ctx context.Context) (*Overview, error) {
	now := s.now()
	dayStart := startOfDay(now)
	monthStart := now.AddDate(0, 0, -30)

	usePlatform, err := s.platformIsPrimary(ctx)
	if err != nil {
		return nil, err
	}

	var overview Overview
	if usePlatform {
		if err := s.db.WithContext(ctx).
			Raw(overviewPlatformSQL, dateKey(dayStart)).
			Scan(&overview.Today).Error; err != nil {
			return nil, fmt.Errorf("querying today platform metrics: %w", err)
		}
		if err := s.db.WithContext(ctx).
			Raw(overviewMonthlyPlatformSQL, dateKey(monthStart)).
			Scan(&overview.Monthly).Error; err != nil {
			return nil, fmt.Errorf("querying monthly platform metrics: %w", err)
		}
		return &overview, nil
	}

	if err := s.db.WithContext(ctx).
		Raw(overviewOrdersSQL, dayStart, dayStart.AddDate(0, 0, 1)).
		Scan(&overview.Today).Error; err != nil {
		return nil, fmt.Errorf("querying today metrics: %w", err)
	}
	if err := s.db.WithContext(ctx).
		Raw(overviewMonthlyOrdersSQL, monthStart).
		Scan(&overview.Monthly).Error; err != nil {
		return nil, fmt.Errorf("querying monthly metrics: %w", err)
	}
	return &overview, nil
}

const trendOrdersSQL = `
SELECT
  DATE(order_date) AS date,
  COUNT(*) AS order_count,
  COALESCE(SUM(total_amount), 0) AS daily_sales,
  COALESCE(AVG(total_amount), 0) AS avg_order_value
FROM orders
WHERE order_date >= ?
  AND status != 'cancelled'
GROUP BY DATE(order_date)
ORDER BY date
`

const trendPlatformSQL = `
SELECT
  date,
  order_count,
  COALESCE(gmv, 0) AS daily_sales,
  COALESCE(aov, 0) AS avg_order_value
FROM platform_sales
WHERE date >= ?
ORDER BY date
`

// SalesTrend returns the per-day series for the trailing window. Days is
// clamped to [1, MaxTrendDays]; zero means DefaultTrendDays.
func (s *service) SalesTrend(ctx context.Context, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	if days > MaxTrendDays {
		days = MaxTrendDays
	}
	cutoff := s.now().AddDate(0, 0, -days)

	usePlatform, err := s.platformIsPrimary(ctx)
	if err != nil {
		return nil, err
	}

	points := []TrendPoint{}
	if usePlatform {
		if err := s.db.WithContext(ctx).
			Raw(trendPlatformSQL, dateKey(cutoff)).
			Scan(&points).Error; err != nil {
			return nil, fmt.Errorf("querying platform trend: %w", err)
		}
		return points, nil
	}

	if err := s.db.WithContext(ctx).
		Raw(trendOrdersSQL, cutoff).
		Scan(&points).Error; err != nil {
		return nil, fmt.Errorf("querying sales trend: %w", err)
	}
	return points, nil
}

const categoryAnalysisSQL = `
SELECT
  p.category AS category,
  COUNT(DISTINCT oi.order_id) AS order_count,
  COALESCE(SUM(oi.quantity), 0) AS total_quantity,
  COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS total_revenue
FROM order_items oi
JOIN products p ON oi.product_id = p.product_id
JOIN orders o ON oi.order_id = o.order_id
WHERE o.status != 'cancelled'
GROUP BY p.category
ORDER BY total_revenue DESC, p.category ASC
`

// CategoryAnalysis aggregates revenue per product category, highest revenue
// first with the category name as a deterministic tie-break.
func (s *service) CategoryAnalysis(ctx context.Context) ([]CategoryStat, error) {
	stats := []CategoryStat{}
	if err := s.db.WithContext(ctx).Raw(categoryAnalysisSQL).Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("querying category analysis: %w", err)
	}
	return stats, nil
}

// platformIsPrimary reports whether dashboard aggregates should come from
// platform_sales: only when the orders table is empty and the platform
// series has rows.
func (s *service) platformIsPrimary(ctx context.Context) (bool, error) {
	var orderCount int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		return false, fmt.Errorf("counting orders: %w", err)
	}
	if orderCount > 0 {
		return false, nil
	}
	var platformCount int64
	if err := s.db.WithContext(ctx).Model(&models.PlatformSales{}).Count(&platformCount).Error; err != nil {
		return false, fmt.Errorf("counting platform rows: %w", err)
	}
	return platformCount > 0, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
