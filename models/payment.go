package models

import "time"

// Payment status values.
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
	PaymentStatusExpired = "expired"
)

// Payment merepresentasikan satu sesi pembayaran gateway untuk order.
// OrderID sudah dialokasikan di awal (sebelum order record dibuat) supaya
// callback gateway bisa menempatkan order dengan id yang sama.
type Payment struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	OrderID      string     `gorm:"type:varchar(36);not null;index" json:"order_id"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	RestaurantID uint       `gorm:"not null" json:"restaurant_id"`
	Amount       float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	SnapToken    string     `gorm:"type:varchar(255)" json:"snap_token"`
	RedirectURL  string     `gorm:"type:varchar(255)" json:"redirect_url"`
	PaymentType  string     `gorm:"type:varchar(64)" json:"payment_type"`
	PaymentTime  *time.Time `json:"payment_time,omitempty"`
	ExpiredAt    *time.Time `json:"expired_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
