package analytics

import (
	"context"
	"fmt"

	"github.com/angelmondragon/shoplytics-backend/pkg/db/models"
)

const platformTrendSQL = `
SELECT date, gmv, order_count, paying_users, refund_rate, aov
FROM platform_sales
ORDER BY date
`

const platformFromOrdersSQL = `
SELECT
  DATE(order_date) AS date,
  COALESCE(SUM(total_amount), 0) AS gmv,
  COUNT(*) AS order_count,
  COUNT(DISTINCT user_id) AS paying_users,
  0 AS refund_rate,
  COALESCE(AVG(total_amount), 0) AS aov
FROM orders
GROUP BY DATE(order_date)
ORDER BY date
`

// PlatformTrend returns the full daily platform series. When the
// platform_sales table is empty the series is reconstructed from orders,
// with refund_rate pinned to zero since order rows carry no refund signal.
func (s *service) PlatformTrend(ctx context.Context) ([]PlatformPoint, error) {
	var platformCount int64
	if err := s.db.WithContext(ctx).Model(&models.PlatformSales{}).Count(&platformCount).Error; err != nil {
		return nil, fmt.Errorf("counting platform rows: %w", err)
	}

	points := []PlatformPoint{}
	query := platformTrendSQL
	if platformCount == 0 {
		query = platformFromOrdersSQL
	}
	if err := s.db.WithContext(ctx).Raw(query).Scan(&points).Error; err != nil {
		return nil, fmt.Errorf("querying platform trend: %w", err)
	}
	return points, nil
}
