package models

// PlatformSales holds one pre-aggregated daily row from an external sales
// platform. It is the alternate dashboard source used when the orders table
// is empty.
type PlatformSales struct {
	Date        string  `gorm:"column:date;primaryKey" json:"date"`
	Platform    string  `gorm:"column:platform" json:"platform"`
	GMV         float64 `gorm:"column:gmv" json:"gmv"`
	OrderCount  int     `gorm:"column:order_count" json:"order_count"`
	PayingUsers int     `gorm:"column:paying_users" json:"paying_users"`
	RefundCount int     `gorm:"column:refund_count" json:"refund_count"`
	RefundRate  float64 `gorm:"column:refund_rate" json:"refund_rate"`
	AOV         float64 `gorm:"column:aov" json:"aov"`
}

func (PlatformSales) TableName() string { return "platform_sales" }
