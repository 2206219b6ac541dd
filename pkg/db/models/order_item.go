package models

// OrderItem is a purchase line referencing a product.
type OrderItem struct {
	ItemID    int64   `gorm:"column:item_id;primaryKey" json:"item_id"`
	OrderID   int64   `gorm:"column:order_id" json:"order_id"`
	ProductID int64   `gorm:"column:product_id" json:"product_id"`
	Quantity  int     `gorm:"column:quantity" json:"quantity"`
	UnitPrice float64 `gorm:"column:unit_price" json:"unit_price"`
}

func (OrderItem) TableName() string { return "order_items" }
