package models

import "time"

// Order is a purchase header. TotalAmount is denormalized: it is written by
// the seeder as the sum of item quantity*unit_price but never reconciled
// against order_items afterwards.
type Order struct {
	OrderID       int64       `gorm:"column:order_id;primaryKey" json:"order_id"`
	UserID        int64       `gorm:"column:user_id" json:"user_id"`
	OrderDate     time.Time   `gorm:"column:order_date" json:"order_date"`
	TotalAmount   float64     `gorm:"column:total_amount" json:"total_amount"`
	Status        string      `gorm:"column:status" json:"status"`
	PaymentMethod string      `gorm:"column:payment_method" json:"payment_method"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;references:OrderID" json:"items,omitempty"`
}

func (Order) TableName() string { return "orders" }

// Order statuses written by the seeder. Cancelled orders are excluded from
// every revenue aggregate.
const (
	OrderStatusDelivered = "delivered"
	OrderStatusShipped   = "shipped"
	OrderStatusPending   = "pending"
	OrderStatusCancelled = "cancelled"
)
