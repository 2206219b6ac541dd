package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

const dayOrdersSQL = `
SELECT order_id, user_id, order_date, total_amount, status, payment_method
FROM orders
WHERE order_date >= ? AND order_date < ?
ORDER BY order_date
`

const dayItemCategoriesSQL = `
SELECT
  oi.order_id AS order_id,
  p.category AS category
FROM order_items oi
JOIN orders o ON oi.order_id = o.order_id
LEFT JOIN products p ON oi.product_id = p.product_id
WHERE o.order_date >= ? AND o.order_date < ?
`

// DayOrders returns order-level detail for one calendar date, with the item
// count and the distinct category list attached to each order.
func (s *service) DayOrders(ctx context.Context, day time.Time) ([]DayOrder, error) {
	start := startOfDay(day)
	end := start.AddDate(0, 0, 1)

	orders := []DayOrder{}
	if err := s.db.WithContext(ctx).Raw(dayOrdersSQL, start, end).Scan(&orders).Error; err != nil {
		return nil, fmt.Errorf("querying day orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	var items []struct {
		OrderID  int64
		Category string
	}
	if err := s.db.WithContext(ctx).Raw(dayItemCategoriesSQL, start, end).Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("querying day order items: %w", err)
	}

	counts := make(map[int64]int64, len(orders))
	categories := make(map[int64]map[string]struct{}, len(orders))
	for _, item := range items {
		counts[item.OrderID]++
		if item.Category == "" {
			continue
		}
		set, ok := categories[item.OrderID]
		if !ok {
			set = make(map[string]struct{})
			categories[item.OrderID] = set
		}
		set[item.Category] = struct{}{}
	}

	for i := range orders {
		orders[i].ItemCount = counts[orders[i].OrderID]
		orders[i].Categories = joinSorted(categories[orders[i].OrderID])
	}
	return orders, nil
}

func joinSorted(set map[string]struct{}) string {
	if len(set) == 0 {
		return ""
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

const dayCategorySQL = `
SELECT
  p.category AS category,
  COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS revenue,
  COALESCE(SUM(oi.quantity), 0) AS qty
FROM order_items oi
JOIN orders o ON oi.order_id = o.order_id
JOIN products p ON oi.product_id = p.product_id
WHERE o.order_date >= ? AND o.order_date < ?
GROUP BY p.category
ORDER BY revenue DESC, p.category ASC
`

const dayPaymentSQL = `
SELECT
  payment_method,
  COUNT(*) AS orders,
  COALESCE(SUM(total_amount), 0) AS sales
FROM orders
WHERE order_date >= ? AND order_date < ?
GROUP BY payment_method
ORDER BY orders DESC, payment_method ASC
`

const dayHourRowsSQL = `
SELECT order_date, total_amount
FROM orders
WHERE order_date >= ? AND order_date < ?
`

// DayStats returns the category, hour-of-day, and payment-method breakdowns
// for one calendar date. A date with no orders yields three empty slices.
func (s *service) DayStats(ctx context.Context, day time.Time) (*DayBreakdown, error) {
	start := startOfDay(day)
	end := start.AddDate(0, 0, 1)

	breakdown := &DayBreakdown{
		Category: []DayCategoryStat{},
		Hour:     []DayHourStat{},
		Payment:  []DayPaymentStat{},
	}

	if err := s.db.WithContext(ctx).Raw(dayCategorySQL, start, end).Scan(&breakdown.Category).Error; err != nil {
		return nil, fmt.Errorf("querying day category stats: %w", err)
	}
	if err := s.db.WithContext(ctx).Raw(dayPaymentSQL, start, end).Scan(&breakdown.Payment).Error; err != nil {
		return nil, fmt.Errorf("querying day payment stats: %w", err)
	}

	var rows []struct {
		OrderDate   time.Time
		TotalAmount float64
	}
	if err := s.db.WithContext(ctx).Raw(dayHourRowsSQL, start, end).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying day hourly rows: %w", err)
	}
	breakdown.Hour = bucketByHour(rows)

	return breakdown, nil
}

// bucketByHour groups orders into 24 hour-of-day buckets in Go so the query
// stays free of engine-specific time formatting functions.
func bucketByHour(rows []struct {
	OrderDate   time.Time
	TotalAmount float64
}) []DayHourStat {
	type bucket struct {
		orders int64
		sales  float64
	}
	buckets := make(map[int]*bucket)
	for _, row := range rows {
		hour := row.OrderDate.Hour()
		b, ok := buckets[hour]
		if !ok {
			b = &bucket{}
			buckets[hour] = b
		}
		b.orders++
		b.sales += row.TotalAmount
	}

	hours := make([]int, 0, len(buckets))
	for hour := range buckets {
		hours = append(hours, hour)
	}
	sort.Ints(hours)

	stats := make([]DayHourStat, 0, len(hours))
	for _, hour := range hours {
		stats = append(stats, DayHourStat{
			Hour:   fmt.Sprintf("%02d", hour),
			Orders: buckets[hour].orders,
			Sales:  buckets[hour].sales,
		})
	}
	return stats
}
