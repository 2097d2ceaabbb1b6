package models

import "fmt"

type OrderStatus string

const (
	StatusPlaced         OrderStatus = "placed"
	StatusInKitchen      OrderStatus = "in_kitchen"
	StatusReadyForPickup OrderStatus = "ready_for_pickup"
	StatusPickedUp       OrderStatus = "picked_up"
	StatusCancelled      OrderStatus = "cancelled"
)

// statusFlow adalah urutan status order dari awal sampai selesai.
// Advance selalu bergerak satu langkah, tidak boleh loncat.
var statusFlow = []OrderStatus{
	StatusPlaced,
	StatusInKitchen,
	StatusReadyForPickup,
	StatusPickedUp,
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPlaced, StatusInKitchen, StatusReadyForPickup, StatusPickedUp, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal -> picked_up dan cancelled tidak punya transisi lanjutan
func (s OrderStatus) IsTerminal() bool {
	return s == StatusPickedUp || s == StatusCancelled
}

// Next mengembalikan status berikutnya pada alur normal.
// Error jika status sudah terminal atau tidak dikenal.
func (s OrderStatus) Next() (OrderStatus, error) {
	for i, st := range statusFlow {
		if st == s {
			if i+1 >= len(statusFlow) {
				return "", fmt.Errorf("order status %q has no next step", s)
			}
			return statusFlow[i+1], nil
		}
	}
	return "", fmt.Errorf("order status %q has no next step", s)
}

// CanTransition adalah satu-satunya sumber kebenaran aturan transisi status.
// Semua controller dan service harus lewat sini, jangan cek status ad hoc.
func CanTransition(from, to OrderStatus, role string) bool {
	if from.IsTerminal() {
		return false
	}

	switch role {
	case RoleRestaurantOwner, RoleRestaurantStaff:
		// Staff boleh maju satu langkah, atau cancel dari status non-terminal mana pun.
		if to == StatusCancelled {
			return true
		}
		next, err := from.Next()
		return err == nil && next == to
	case RoleCustomer:
		// Customer: cancel hanya saat masih placed, konfirmasi ambil saat ready.
		if to == StatusCancelled {
			return from == StatusPlaced
		}
		if to == StatusPickedUp {
			return from == StatusReadyForPickup
		}
		return false
	case RoleAdmin:
		if to == StatusCancelled {
			return true
		}
		next, err := from.Next()
		return err == nil && next == to
	}
	return false
}
