package models

// QuickOrder is a lightweight product order pushed to the live orders screen
type QuickOrder struct {
	ID           string `gorm:"primaryKey;size:64" json:"id"` // push key
	CustomerName string `gorm:"not null" json:"customer_name"`
	ProductName  string `gorm:"not null" json:"product_name"`
	Quantity     int    `gorm:"not null;check:quantity > 0" json:"quantity"`
	Timestamp    int64  `gorm:"not null;index" json:"timestamp"` // unix milliseconds
}

// TableName specifies the table name for the QuickOrder model
func (QuickOrder) TableName() string {
	return "quick_orders"
}
