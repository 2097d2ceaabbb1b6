package models

import "time"

// Notification adalah pesan untuk dashboard staff restaurant, ditulis oleh
// lifecycle engine setiap transisi status dan disiarkan lewat events hub.
type Notification struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurant_id"`
	OrderID      string    `gorm:"type:varchar(36)" json:"order_id"`
	Message      string    `gorm:"type:varchar(255);not null" json:"message"`
	Read         bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
