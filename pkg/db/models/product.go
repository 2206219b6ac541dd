package models

import "time"

// Product is a catalog listing referenced by order items.
type Product struct {
	ProductID     int64     `gorm:"column:product_id;primaryKey" json:"product_id"`
	ProductName   string    `gorm:"column:product_name" json:"product_name"`
	Category      string    `gorm:"column:category" json:"category"`
	Price         float64   `gorm:"column:price" json:"price"`
	Cost          float64   `gorm:"column:cost" json:"cost"`
	StockQuantity int       `gorm:"column:stock_quantity" json:"stock_quantity"`
	Status        string    `gorm:"column:status" json:"status"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Product) TableName() string { return "products" }
