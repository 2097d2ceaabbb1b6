package services

import (
	"errors"
	"fmt"
)

// Error taxonomy untuk lifecycle engine. Controller yang memutuskan mapping
// ke HTTP status; service tidak pernah menelan error.
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrMenuItemNotFound   = errors.New("menu item not found")

	// ErrInvalidTransition: status saat ini tidak punya langkah lanjutan.
	ErrInvalidTransition = errors.New("order status has no next step")
	// ErrTransitionNotAllowed: transisi ada tapi actor ini tidak boleh melakukannya.
	ErrTransitionNotAllowed = errors.New("transition not allowed for this actor")
	// ErrStaleTransition: status di database sudah berubah sejak dibaca.
	ErrStaleTransition = errors.New("order status changed, please refresh")

	ErrDeleteNotAllowed = errors.New("You can only delete orders that are 'Placed'")

	ErrRestaurantNotAvailable = errors.New("restaurant is not accepting orders right now")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrNotYourOrder           = errors.New("order belongs to another customer")
)

// InsufficientStockError menyebut item yang bermasalah dan sisa stoknya
// supaya UI bisa menjelaskan penolakan.
type InsufficientStockError struct {
	ItemName  string
	Size      string
	Requested int
	Remaining int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s): requested %d, remaining %d",
		e.ItemName, e.Size, e.Requested, e.Remaining)
}
