package models

import "time"

type MenuItem struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RestaurantID uint           `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant     `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name         string         `gorm:"type:varchar(255); not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	// Available adalah toggle visibilitas milik owner, bukan stok.
	// Item baru selalu available: nilai false saat Create dianggap zero value
	// oleh gorm dan tertimpa default kolom, jadi menyembunyikan item hanya
	// bisa lewat update.
	Available bool           `gorm:"not null;default:true" json:"available"`
	Sizes     []MenuItemSize `gorm:"foreignKey:MenuItemID" json:"sizes"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

// MenuItemSize menyimpan harga dan stok per ukuran. Size unik dalam satu item.
// AvailableQuantity hanya berkurang lewat penempatan order, tidak pernah < 0.
type MenuItemSize struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	MenuItemID        uint      `gorm:"not null;index:idx_item_size,unique" json:"menu_item_id"`
	Size              string    `gorm:"type:varchar(32);not null;index:idx_item_size,unique" json:"size"`
	Price             float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	AvailableQuantity int       `gorm:"not null;default:0" json:"available_quantity"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
