package analytics

import "time"

// TodayMetrics summarizes the current calendar day, excluding cancelled
// orders.
type TodayMetrics struct {
	TodayOrders        int64   `json:"today_orders"`
	TodaySales         float64 `json:"today_sales"`
	TodayCustomers     int64   `json:"today_customers"`
	TodayAvgOrderValue float64 `json:"today_avg_order_value"`
}

// MonthlyMetrics summarizes the trailing 30 days, excluding cancelled
// orders.
type MonthlyMetrics struct {
	MonthlyOrders    int64   `json:"monthly_orders"`
	MonthlySales     float64 `json:"monthly_sales"`
	MonthlyCustomers int64   `json:"monthly_customers"`
}

// Overview is the dashboard headline payload.
type Overview struct {
	Today   TodayMetrics   `json:"today_metrics"`
	Monthly MonthlyMetrics `json:"monthly_metrics"`
}

// TrendPoint is one day of the sales trend series.
type TrendPoint struct {
	Date          string  `json:"date"`
	OrderCount    int64   `json:"order_count"`
	DailySales    float64 `json:"daily_sales"`
	AvgOrderValue float64 `json:"avg_order_value"`
}

// CategoryStat aggregates order_items per product category.
type CategoryStat struct {
	Category      string  `json:"category"`
	OrderCount    int64   `json:"order_count"`
	TotalQuantity int64   `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// PlatformPoint is one day of the external platform sales series.
type PlatformPoint struct {
	Date        string  `json:"date"`
	GMV         float64 `json:"gmv"`
	OrderCount  int64   `json:"order_count"`
	PayingUsers int64   `json:"paying_users"`
	RefundRate  float64 `json:"refund_rate"`
	AOV         float64 `json:"aov"`
}

// DayOrder is the drill-down row for one order on a given date.
type DayOrder struct {
	OrderID       int64     `json:"order_id"`
	UserID        int64     `json:"user_id"`
	OrderDate     time.Time `json:"order_date"`
	TotalAmount   float64   `json:"total_amount"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	ItemCount     int64     `json:"item_count"`
	Categories    string    `json:"categories"`
}

// DayCategoryStat is revenue and quantity per category for one date.
type DayCategoryStat struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Qty      int64   `json:"qty"`
}

// DayHourStat is order volume per hour-of-day for one date.
type DayHourStat struct {
	Hour   string  `json:"hour"`
	Orders int64   `json:"orders"`
	Sales  float64 `json:"sales"`
}

// DayPaymentStat is order volume per payment method for one date.
type DayPaymentStat struct {
	PaymentMethod string  `json:"payment_method"`
	Orders        int64   `json:"orders"`
	Sales         float64 `json:"sales"`
}

// DayBreakdown bundles the three per-day breakdowns. All slices are
// non-nil; a date with zero orders yields three empty sequences.
type DayBreakdown struct {
	Category []DayCategoryStat `json:"category"`
	Hour     []DayHourStat     `json:"hour"`
	Payment  []DayPaymentStat  `json:"payment"`
}

// ColumnInfo describes one column of a stored table.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TableInfo describes one stored table.
type TableInfo struct {
	RowCount int64        `json:"row_count"`
	Columns  []ColumnInfo `json:"columns"`
}
