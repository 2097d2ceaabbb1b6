package models

import "time"

// Payment method tags pada order.
const (
	PaymentCardGateway = "card-gateway"
	PaymentInStore     = "in-store"
)

// Order dibuat sekali dalam status placed. Setelah itu satu-satunya field
// yang berubah adalah Status (plus UpdatedAt); items dan total immutable.
type Order struct {
	ID             string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID         uint        `gorm:"not null;index" json:"user_id"`
	UserName       string      `gorm:"type:varchar(255);not null" json:"user_name"`
	RestaurantID   uint        `gorm:"not null;index" json:"restaurant_id"`
	RestaurantName string      `gorm:"type:varchar(255);not null" json:"restaurant_name"`
	Items          []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Total          float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`
	Status         OrderStatus `gorm:"type:varchar(20);not null;default:'placed'" json:"status"`
	PaymentMethod  string      `gorm:"type:varchar(20);not null" json:"payment_method"`
	CreatedAt      time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"not null" json:"updated_at"`
}
