package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campus-dining/dining-station/events"
	"github.com/campus-dining/dining-station/models"
	"github.com/campus-dining/dining-station/utils"
)

// Actor adalah identitas eksplisit pemanggil. Tidak ada state auth ambient:
// setiap operasi lifecycle menerima actor sebagai parameter.
type Actor struct {
	ID           uint
	Role         string
	RestaurantID *uint // diisi untuk owner/staff
}

func (a Actor) isStaffOf(restaurantID uint) bool {
	if a.Role == models.RoleAdmin {
		return true
	}
	if a.Role != models.RoleRestaurantOwner && a.Role != models.RoleRestaurantStaff {
		return false
	}
	return a.RestaurantID != nil && *a.RestaurantID == restaurantID
}

// OrderLifecycleService adalah satu-satunya jalur mutasi status order.
// Semua update status memakai compare-and-swap (WHERE status = expected)
// supaya dua staff yang menekan tombol bersamaan tidak saling menimpa.
type OrderLifecycleService struct {
	DB *gorm.DB
}

func NewOrderLifecycleService(db *gorm.DB) *OrderLifecycleService {
	return &OrderLifecycleService{DB: db}
}

// PlaceOrderInput -> parameter penempatan order dari keranjang.
type PlaceOrderInput struct {
	// OrderID opsional; alur pembayaran gateway sudah mengalokasikan id
	// sebelum callback. Kosong berarti di-generate di sini.
	OrderID       string
	RestaurantID  uint
	PaymentMethod string
}

// PlaceOrder membuat order baru dalam status placed dari isi keranjang actor.
// Prekondisi: keranjang tidak kosong, restaurant approved dan resolved Open,
// stok cukup untuk setiap baris. Side effect (tulis order, potong stok,
// kosongkan keranjang) berjalan dalam satu transaksi: semua atau tidak sama
// sekali.
func (s *OrderLifecycleService) PlaceOrder(actor Actor, in PlaceOrderInput) (*models.Order, error) {
	if actor.Role != models.RoleCustomer {
		return nil, ErrTransitionNotAllowed
	}

	var restaurant models.Restaurant
	if err := s.DB.Preload("OpeningHours").First(&restaurant, in.RestaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	// Restaurant yang belum approved tidak pernah ditawarkan ke customer,
	// status operasional tidak relevan.
	if !restaurant.IsApproved() {
		return nil, ErrRestaurantNotAvailable
	}
	if ResolveStatus(restaurant.Schedule(), restaurant.StatusOverride, time.Now()) != models.StatusOpen {
		return nil, ErrRestaurantNotAvailable
	}

	var cart []models.CartItem
	if err := s.DB.Where("user_id = ? AND restaurant_id = ?", actor.ID, in.RestaurantID).
		Preload("MenuItem").Find(&cart).Error; err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	var customer models.User
	if err := s.DB.First(&customer, actor.ID).Error; err != nil {
		return nil, err
	}

	orderID := in.OrderID
	if orderID == "" {
		orderID = uuid.NewString()
	}

	order := models.Order{
		ID:             orderID,
		UserID:         customer.ID,
		UserName:       customer.Name,
		RestaurantID:   restaurant.ID,
		RestaurantName: restaurant.Name,
		Status:         models.StatusPlaced,
		PaymentMethod:  in.PaymentMethod,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var total float64
		var items []models.OrderItem

		// Validasi stok dulu untuk seluruh baris supaya penolakan tidak
		// meninggalkan potongan parsial.
		for _, line := range cart {
			var size models.MenuItemSize
			if err := tx.Where("menu_item_id = ? AND size = ?", line.MenuItemID, line.Size).
				First(&size).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrMenuItemNotFound
				}
				return err
			}
			if !line.MenuItem.Available {
				return ErrMenuItemNotFound
			}
			if line.Quantity > size.AvailableQuantity {
				return &InsufficientStockError{
					ItemName:  line.MenuItem.Name,
					Size:      line.Size,
					Requested: line.Quantity,
					Remaining: size.AvailableQuantity,
				}
			}

			items = append(items, models.OrderItem{
				OrderID:      order.ID,
				MenuItemID:   line.MenuItemID,
				Name:         line.MenuItem.Name,
				Quantity:     line.Quantity,
				UnitPrice:    size.Price,
				SelectedSize: line.Size,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			})
			total += float64(line.Quantity) * size.Price
		}

		order.Total = total
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		order.Items = items

		// Potong stok dengan guard `available_quantity >= ?` supaya decrement
		// atomic dan tidak pernah turun di bawah nol, juga saat ada penempatan
		// lain yang berlomba di baris yang sama.
		for _, line := range cart {
			res := tx.Model(&models.MenuItemSize{}).
				Where("menu_item_id = ? AND size = ? AND available_quantity >= ?",
					line.MenuItemID, line.Size, line.Quantity).
				UpdateColumn("available_quantity", gorm.Expr("available_quantity - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Stok keburu dipotong penempatan lain; baca ulang untuk pesan.
				var size models.MenuItemSize
				remaining := 0
				if err := tx.Where("menu_item_id = ? AND size = ?", line.MenuItemID, line.Size).
					First(&size).Error; err == nil {
					remaining = size.AvailableQuantity
				}
				return &InsufficientStockError{
					ItemName:  line.MenuItem.Name,
					Size:      line.Size,
					Requested: line.Quantity,
					Remaining: remaining,
				}
			}
		}

		// Kosongkan keranjang customer.
		if err := tx.Where("user_id = ? AND restaurant_id = ?", actor.ID, in.RestaurantID).
			Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(order, fmt.Sprintf("New order %s placed (%d items)", order.ID, len(order.Items)))
	return &order, nil
}

// Advance memajukan order satu langkah pada alur normal. Hanya owner/staff
// dari restaurant terkait (atau admin). Status dibaca ulang dari database,
// bukan dipercaya dari caller.
func (s *OrderLifecycleService) Advance(actor Actor, orderID string) (*models.Order, error) {
	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}
	if !actor.isStaffOf(order.RestaurantID) {
		return nil, ErrTransitionNotAllowed
	}

	next, err := order.Status.Next()
	if err != nil {
		return nil, ErrInvalidTransition
	}
	if !models.CanTransition(order.Status, next, actor.Role) {
		return nil, ErrTransitionNotAllowed
	}

	if err := s.CompareAndSwapStatus(order.ID, order.Status, next); err != nil {
		return nil, err
	}

	order.Status = next
	s.notify(*order, fmt.Sprintf("Order %s is now %s", order.ID, next))
	return order, nil
}

// Cancel membatalkan order. Staff boleh dari status non-terminal mana pun;
// customer hanya selama masih placed, dan hanya untuk order miliknya.
func (s *OrderLifecycleService) Cancel(actor Actor, orderID string) (*models.Order, error) {
	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleCustomer:
		if order.UserID != actor.ID {
			return nil, ErrNotYourOrder
		}
	case models.RoleRestaurantOwner, models.RoleRestaurantStaff:
		if !actor.isStaffOf(order.RestaurantID) {
			return nil, ErrTransitionNotAllowed
		}
	case models.RoleAdmin:
	default:
		return nil, ErrTransitionNotAllowed
	}

	if !models.CanTransition(order.Status, models.StatusCancelled, actor.Role) {
		return nil, ErrTransitionNotAllowed
	}

	if err := s.CompareAndSwapStatus(order.ID, order.Status, models.StatusCancelled); err != nil {
		return nil, err
	}

	// Stok sengaja tidak dikembalikan saat cancel; lihat DESIGN.md.
	order.Status = models.StatusCancelled
	s.notify(*order, fmt.Sprintf("Order %s cancelled", order.ID))
	return order, nil
}

// ConfirmPickup -> customer mengkonfirmasi pengambilan order miliknya.
// Idempotent: order yang sudah picked_up (mis. staff keburu menekan advance)
// dianggap sukses karena dua jalur menuju nilai terminal yang sama.
func (s *OrderLifecycleService) ConfirmPickup(actor Actor, orderID string) (*models.Order, error) {
	if actor.Role != models.RoleCustomer {
		return nil, ErrTransitionNotAllowed
	}

	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.ID {
		return nil, ErrNotYourOrder
	}
	if order.Status == models.StatusPickedUp {
		return order, nil
	}
	if !models.CanTransition(order.Status, models.StatusPickedUp, actor.Role) {
		return nil, ErrTransitionNotAllowed
	}

	if err := s.CompareAndSwapStatus(order.ID, order.Status, models.StatusPickedUp); err != nil {
		if errors.Is(err, ErrStaleTransition) {
			// Baca ulang; kalau sudah picked_up lewat jalur staff, tetap sukses.
			if fresh, ferr := s.getOrder(orderID); ferr == nil && fresh.Status == models.StatusPickedUp {
				return fresh, nil
			}
		}
		return nil, err
	}

	order.Status = models.StatusPickedUp
	s.notify(*order, fmt.Sprintf("Order %s picked up", order.ID))
	return order, nil
}

// Delete menghapus permanen order yang masih placed (customer batal sebelum
// restaurant melihatnya). Status lain ditolak; hapus bukan pengganti cancel.
func (s *OrderLifecycleService) Delete(actor Actor, orderID string) error {
	order, err := s.getOrder(orderID)
	if err != nil {
		return err
	}

	switch actor.Role {
	case models.RoleCustomer:
		if order.UserID != actor.ID {
			return ErrNotYourOrder
		}
	case models.RoleRestaurantOwner, models.RoleRestaurantStaff:
		if !actor.isStaffOf(order.RestaurantID) {
			return ErrTransitionNotAllowed
		}
	case models.RoleAdmin:
	default:
		return ErrTransitionNotAllowed
	}

	// Guard status di statement delete-nya sendiri; re-read saja tidak cukup
	// kalau ada transisi yang menyelip. Order dan itemnya hilang bersama
	// atau tidak sama sekali.
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND status = ?", orderID, models.StatusPlaced).
			Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrDeleteNotAllowed
		}
		return tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error
	})
}

func (s *OrderLifecycleService) getOrder(orderID string) (*models.Order, error) {
	var order models.Order
	if err := s.DB.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// CompareAndSwapStatus -> update status bersyarat: baris hanya berubah jika
// status saat ini masih `expected`. RowsAffected nol berarti ada penulis lain
// yang menang; caller menerima ErrStaleTransition, tidak ada penerapan ganda
// diam-diam.
func (s *OrderLifecycleService) CompareAndSwapStatus(orderID string, expected, next models.OrderStatus) error {
	res := s.DB.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, expected).
		Updates(map[string]interface{}{
			"status":     next,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleTransition
	}
	return nil
}

// notify menulis notifikasi staff dan menyiarkannya ke dashboard. Kegagalan
// di sini hanya di-log; status order sudah benar di database.
func (s *OrderLifecycleService) notify(order models.Order, message string) {
	notif := models.Notification{
		RestaurantID: order.RestaurantID,
		OrderID:      order.ID,
		Message:      message,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.DB.Create(&notif).Error; err != nil {
		utils.ErrorLogger.Printf("failed to persist notification for order %s: %v", order.ID, err)
	}

	events.BroadcastOrderUpdate(order)
	events.BroadcastStaffNotification(order.RestaurantID, message)
}
