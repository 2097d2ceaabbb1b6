package models

import "time"

const (
	RoleCustomer        = "customer"
	RoleRestaurantOwner = "restaurant-owner"
	RoleRestaurantStaff = "restaurant-staff"
	RoleAdmin           = "admin"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(255); not null" json:"name"`
	Email    string `gorm:"type:varchar(255); unique;not null" json:"email"`
	Password string `gorm:"type:varchar(255); not null" json:"-"`
	Role     string `gorm:"type:varchar(32); not null" json:"role"`
	// RestaurantID diisi untuk owner/staff, nil untuk customer dan admin.
	RestaurantID *uint     `gorm:"index" json:"restaurant_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsRestaurantMember -> true jika user adalah owner/staff dari restaurant tsb.
func (u *User) IsRestaurantMember(restaurantID uint) bool {
	if u.Role != RoleRestaurantOwner && u.Role != RoleRestaurantStaff {
		return false
	}
	return u.RestaurantID != nil && *u.RestaurantID == restaurantID
}
