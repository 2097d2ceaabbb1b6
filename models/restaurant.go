package models

import "time"

// ApprovalStatus dikontrol admin, terpisah dari status operasional.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// StatusOverride adalah escape hatch milik owner untuk melewati jadwal mingguan.
type StatusOverride string

const (
	OverrideAuto   StatusOverride = "auto"
	OverrideOpen   StatusOverride = "open"
	OverrideBusy   StatusOverride = "busy"
	OverrideClosed StatusOverride = "closed"
)

// OperationalStatus adalah hasil perhitungan availability resolver.
type OperationalStatus string

const (
	StatusOpen   OperationalStatus = "Open"
	StatusBusy   OperationalStatus = "Busy"
	StatusClosed OperationalStatus = "Closed"
)

type Restaurant struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OwnerID        uint           `gorm:"not null;index" json:"owner_id"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Address        string         `gorm:"type:varchar(255)" json:"address"`
	Phone          string         `gorm:"type:varchar(32)" json:"phone"`
	Email          string         `gorm:"type:varchar(255)" json:"email"`
	ApprovalStatus string         `gorm:"type:varchar(20);not null;default:'pending'" json:"approval_status"`
	StatusOverride StatusOverride `gorm:"type:varchar(20);not null;default:'auto'" json:"status_override"`
	OpeningHours   []OpeningHour  `gorm:"foreignKey:RestaurantID" json:"opening_hours"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (r *Restaurant) IsApproved() bool {
	return r.ApprovalStatus == ApprovalApproved
}

// OpeningHour adalah jadwal buka satu hari. Weekday memakai nama hari bahasa
// Inggris ("Monday" dst), unik per restaurant. Open/Close format "HH:MM".
type OpeningHour struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"not null;index:idx_rest_weekday,unique" json:"restaurant_id"`
	Weekday      string    `gorm:"type:varchar(10);not null;index:idx_rest_weekday,unique" json:"weekday"`
	Enabled      bool      `gorm:"not null;default:false" json:"enabled"`
	Open         string    `gorm:"type:varchar(5)" json:"open"`
	Close        string    `gorm:"type:varchar(5)" json:"close"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DaySchedule adalah bentuk yang dikonsumsi availability resolver.
type DaySchedule struct {
	Enabled bool   `json:"enabled"`
	Open    string `json:"open"`
	Close   string `json:"close"`
}

// Schedule mengubah baris OpeningHours menjadi map weekday -> DaySchedule.
func (r *Restaurant) Schedule() map[string]DaySchedule {
	sched := make(map[string]DaySchedule, len(r.OpeningHours))
	for _, oh := range r.OpeningHours {
		sched[oh.Weekday] = DaySchedule{
			Enabled: oh.Enabled,
			Open:    oh.Open,
			Close:   oh.Close,
		}
	}
	return sched
}
