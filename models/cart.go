package models

import "time"

// CartItem adalah satu baris keranjang milik customer. Satu customer satu
// keranjang; baris dengan (user, menu item, size) yang sama di-merge.
type CartItem struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       uint         `gorm:"not null;index:idx_cart_line,unique" json:"user_id"`
	RestaurantID uint         `gorm:"not null;index" json:"restaurant_id"`
	MenuItemID   uint         `gorm:"not null;index:idx_cart_line,unique" json:"menu_item_id"`
	MenuItem     MenuItem     `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"menu_item"`
	Size         string       `gorm:"type:varchar(32);not null;index:idx_cart_line,unique" json:"size"`
	Quantity     int          `gorm:"not null" json:"quantity"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
