package analytics

import (
	"math"
	"time"
)

// The dashboard, trend, and category surfaces are "always show something"
// endpoints: when their queries fail (or return nothing for trend and
// category), callers substitute these deterministic payloads instead of
// breaking the UI. Exploratory surfaces (custom query, drill-downs) never
// use them.

// FallbackOverview is the canned dashboard payload.
func FallbackOverview() *Overview {
	return &Overview{
		Today: TodayMetrics{
			TodayOrders:        18,
			TodaySales:         12560.50,
			TodayCustomers:     15,
			TodayAvgOrderValue: 697.81,
		},
		Monthly: MonthlyMetrics{
			MonthlyOrders:    245,
			MonthlySales:     187920.75,
			MonthlyCustomers: 189,
		},
	}
}

// FallbackTrend synthesizes a deterministic daily series ending the day
// before now. The shape is a plausible demo curve derived only from the day
// index, so repeated calls produce identical values for the same window.
func FallbackTrend(now time.Time, days int) []TrendPoint {
	if days <= 0 {
		days = DefaultTrendDays
	}
	base := startOfDay(now).AddDate(0, 0, -days)
	points := make([]TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		orderCount := int64(8 + (i%7)*2)
		dailySales := 4200.0 + float64((i*37)%110)*85.0
		points = append(points, TrendPoint{
			Date:          dateKey(base.AddDate(0, 0, i)),
			OrderCount:    orderCount,
			DailySales:    round2(dailySales),
			AvgOrderValue: round2(dailySales / float64(orderCount)),
		})
	}
	return points
}

// FallbackCategories is the canned category breakdown, ordered by revenue
// descending.
func FallbackCategories() []CategoryStat {
	return []CategoryStat{
		{Category: "electronics", OrderCount: 182, TotalQuantity: 624, TotalRevenue: 168430.00},
		{Category: "apparel", OrderCount: 151, TotalQuantity: 547, TotalRevenue: 96210.50},
		{Category: "home", OrderCount: 124, TotalQuantity: 433, TotalRevenue: 72650.25},
		{Category: "beauty", OrderCount: 109, TotalQuantity: 381, TotalRevenue: 54880.75},
		{Category: "grocery", OrderCount: 93, TotalQuantity: 352, TotalRevenue: 30115.00},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
