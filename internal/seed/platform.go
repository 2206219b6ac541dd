package seed

import (
	"math/rand"
	"time"

	"github.com/angelmondragon/shoplytics-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// monthlyBase shapes the seasonal GMV curve: slow start of year, mid-year
// promo spikes, year-end peak.
var monthlyBase = []float64{
	1: 38000, 2: 32000, 3: 41000, 4: 43000, 5: 47000, 6: 62000,
	7: 45000, 8: 44000, 9: 48000, 10: 52000, 11: 78000, 12: 69000,
}

// generatePlatformSeries builds one pre-aggregated row per day for the
// trailing window, newest day last.
func generatePlatformSeries(rng *rand.Rand, opts Options) []models.PlatformSales {
	start := time.Date(opts.Now.Year(), opts.Now.Month(), opts.Now.Day(), 0, 0, 0, 0, opts.Now.Location()).
		AddDate(0, 0, -opts.PlatformDays+1)

	rows := make([]models.PlatformSales, 0, opts.PlatformDays)
	for i := 0; i < opts.PlatformDays; i++ {
		day := start.AddDate(0, 0, i)

		gmv := monthlyBase[int(day.Month())] / 30.0
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			gmv *= 1.25
		}
		if day.Day() <= 3 {
			// month-opening promo window
			gmv *= 1.4
		}
		gmv *= 0.90 + rng.Float64()*0.20

		aov := 95.0 + float64(int(day.Month())%4)*12.0 + rng.Float64()*15.0
		orderCount := int(gmv / aov)
		if orderCount < 1 {
			orderCount = 1
		}
		payingRatio := 0.70 + rng.Float64()*0.16
		refundRate := 0.8 + rng.Float64()*2.7

		rows = append(rows, models.PlatformSales{
			Date:        day.Format("2006-01-02"),
			Platform:    "douyin",
			GMV:         round2(gmv),
			OrderCount:  orderCount,
			PayingUsers: int(float64(orderCount) * payingRatio),
			RefundCount: int(float64(orderCount) * refundRate / 100.0),
			RefundRate:  decimal.NewFromFloat(refundRate).Round(2).InexactFloat64(),
			AOV:         round2(gmv / float64(orderCount)),
		})
	}
	return rows
}
