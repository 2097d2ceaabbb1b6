package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campus-dining/dining-station/models"
	"github.com/campus-dining/dining-station/utils"
)

func init() {
	utils.InitLogger()
}

// openLifecycleDB membuka database in-memory terpisah per test. Nama DSN
// memakai nama test supaya dua test tidak berbagi state.
func openLifecycleDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Restaurant{}, &models.OpeningHour{},
		&models.MenuItem{}, &models.MenuItemSize{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{}, &models.Payment{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

type lifecycleFixture struct {
	db         *gorm.DB
	svc        *OrderLifecycleService
	customer   models.User
	staff      models.User
	restaurant models.Restaurant
	item       models.MenuItem
	size       models.MenuItemSize
}

// seedLifecycle menyiapkan satu restaurant approved dengan override open,
// satu customer, satu staff, dan satu item dengan stok awal yang diberikan.
func seedLifecycle(t *testing.T, stock int) *lifecycleFixture {
	t.Helper()
	db := openLifecycleDB(t)

	restaurant := models.Restaurant{
		OwnerID:        99,
		Name:           "Warung Kampus",
		ApprovalStatus: models.ApprovalApproved,
		StatusOverride: models.OverrideOpen,
	}
	db.Create(&restaurant)

	customer := models.User{
		Name:     "Budi",
		Email:    "budi@example.com",
		Password: "x",
		Role:     models.RoleCustomer,
	}
	db.Create(&customer)

	staff := models.User{
		Name:         "Sari",
		Email:        "sari@example.com",
		Password:     "x",
		Role:         models.RoleRestaurantStaff,
		RestaurantID: &restaurant.ID,
	}
	db.Create(&staff)

	item := models.MenuItem{
		RestaurantID: restaurant.ID,
		Name:         "Nasi Goreng",
		Available:    true,
	}
	db.Create(&item)

	size := models.MenuItemSize{
		MenuItemID:        item.ID,
		Size:              "regular",
		Price:             15000,
		AvailableQuantity: stock,
	}
	db.Create(&size)

	return &lifecycleFixture{
		db:         db,
		svc:        NewOrderLifecycleService(db),
		customer:   customer,
		staff:      staff,
		restaurant: restaurant,
		item:       item,
		size:       size,
	}
}

func (f *lifecycleFixture) customerActor() Actor {
	return Actor{ID: f.customer.ID, Role: models.RoleCustomer}
}

func (f *lifecycleFixture) staffActor() Actor {
	return Actor{ID: f.staff.ID, Role: models.RoleRestaurantStaff, RestaurantID: &f.restaurant.ID}
}

func (f *lifecycleFixture) addCartLine(t *testing.T, quantity int) {
	t.Helper()
	line := models.CartItem{
		UserID:       f.customer.ID,
		RestaurantID: f.restaurant.ID,
		MenuItemID:   f.item.ID,
		Size:         f.size.Size,
		Quantity:     quantity,
	}
	if err := f.db.Create(&line).Error; err != nil {
		t.Fatalf("failed to seed cart: %v", err)
	}
}

func (f *lifecycleFixture) remainingStock(t *testing.T) int {
	t.Helper()
	var size models.MenuItemSize
	if err := f.db.First(&size, f.size.ID).Error; err != nil {
		t.Fatalf("failed to reload size: %v", err)
	}
	return size.AvailableQuantity
}

func (f *lifecycleFixture) placeOrder(t *testing.T) *models.Order {
	t.Helper()
	f.addCartLine(t, 1)
	order, err := f.svc.PlaceOrder(f.customerActor(), PlaceOrderInput{
		RestaurantID:  f.restaurant.ID,
		PaymentMethod: models.PaymentInStore,
	})
	if err != nil {
		t.Fatalf("failed to place order: %v", err)
	}
	return order
}

func TestPlaceOrderHappyPath(t *testing.T) {
	f := seedLifecycle(t, 2)
	f.addCartLine(t, 2)

	order, err := f.svc.PlaceOrder(f.customerActor(), PlaceOrderInput{
		RestaurantID:  f.restaurant.ID,
		PaymentMethod: models.PaymentInStore,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPlaced, order.Status)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, f.customer.Name, order.UserName)
	assert.Equal(t, f.restaurant.Name, order.RestaurantName)
	assert.Equal(t, 2*15000.0, order.Total)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, "regular", order.Items[0].SelectedSize)

	// Stok terpotong sampai nol, tidak lebih
	assert.Equal(t, 0, f.remainingStock(t))

	// Keranjang dikosongkan
	var carts int64
	f.db.Model(&models.CartItem{}).Where("user_id = ?", f.customer.ID).Count(&carts)
	assert.Equal(t, int64(0), carts)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	f := seedLifecycle(t, 1)
	f.addCartLine(t, 3)

	_, err := f.svc.PlaceOrder(f.customerActor(), PlaceOrderInput{RestaurantID: f.restaurant.ID})
	var stockErr *InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Remaining)

	// Penolakan tidak meninggalkan order maupun potongan stok
	var orders int64
	f.db.Model(&models.Order{}).Count(&orders)
	assert.Equal(t, int64(0), orders)
	assert.Equal(t, 1, f.remainingStock(t))

	// Keranjang tetap utuh untuk dicoba lagi
	var carts int64
	f.db.Model(&models.CartItem{}).Count(&carts)
	assert.Equal(t, int64(1), carts)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := seedLifecycle(t, 5)

	_, err := f.svc.PlaceOrder(f.customerActor(), PlaceOrderInput{RestaurantID: f.restaurant.ID})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderRestaurantClosed(t *testing.T) {
	f := seedLifecycle(t, 5)
	f.addCartLine(t, 1)
	f.db.Model(&f.restaurant).Update("status_override", models.OverrideClosed)

	_, err := f.svc.PlaceOrder(f.customerActor(), PlaceOrderInput{RestaurantID: f.restaurant.ID})
	assert.ErrorIs(t, err, ErrRestaurantNotAvailable)
	assert.Equal(t, 5, f.remainingStock(t))
}

func TestPlaceOrderRestaurantBusy(t *testing.T) {
	f := seedLifecycle(t, 5)
	f.addCartLine(t, 1)
	f.db.Model(&f.restaurant).Update("status_override", models.OverrideBusy)

	_, err := f.svc.PlaceOrder(f.customerActor(), PlaceOrderInput{RestaurantID: f.restaurant.ID})
	assert.ErrorIs(t, err, ErrRestaurantNotAvailable)
}

func TestPlaceOrderUnapprovedRestaurant(t *testing.T) {
	f := seedLifecycle(t, 5)
	f.addCartLine(t, 1)
	f.db.Model(&f.restaurant).Update("approval_status", models.ApprovalPending)

	_, err := f.svc.PlaceOrder(f.customerActor(), PlaceOrderInput{RestaurantID: f.restaurant.ID})
	assert.ErrorIs(t, err, ErrRestaurantNotAvailable)
}

func TestPlaceOrderUnavailableItem(t *testing.T) {
	f := seedLifecycle(t, 5)
	f.addCartLine(t, 1)
	f.db.Model(&f.item).Update("available", false)

	_, err := f.svc.PlaceOrder(f.customerActor(), PlaceOrderInput{RestaurantID: f.restaurant.ID})
	assert.ErrorIs(t, err, ErrMenuItemNotFound)
}

func TestPlaceOrderRejectsNonCustomer(t *testing.T) {
	f := seedLifecycle(t, 5)

	_, err := f.svc.PlaceOrder(f.staffActor(), PlaceOrderInput{RestaurantID: f.restaurant.ID})
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}

func TestAdvanceWalksTheFlow(t *testing.T) {
	f := seedLifecycle(t, 5)
	order := f.placeOrder(t)

	for _, want := range []models.OrderStatus{
		models.StatusInKitchen, models.StatusReadyForPickup, models.StatusPickedUp,
	} {
		updated, err := f.svc.Advance(f.staffActor(), order.ID)
		assert.NoError(t, err)
		assert.Equal(t, want, updated.Status)
	}

	// Terminal: tidak ada langkah lanjutan
	_, err := f.svc.Advance(f.staffActor(), order.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAdvanceRejectsCustomer(t *testing.T) {
	f := seedLifecycle(t, 5)
	order := f.placeOrder(t)

	_, err := f.svc.Advance(f.customerActor(), order.ID)
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}

func TestAdvanceRejectsStaffOfOtherRestaurant(t *testing.T) {
	f := seedLifecycle(t, 5)
	order := f.placeOrder(t)

	otherID := f.restaurant.ID + 1
	intruder := Actor{ID: 77, Role: models.RoleRestaurantStaff, RestaurantID: &otherID}
	_, err := f.svc.Advance(intruder, order.ID)
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}

func TestAdvanceUnknownOrder(t *testing.T) {
	f := seedLifecycle(t, 5)

	_, err := f.svc.Advance(f.staffActor(), "does-not-exist")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCompareAndSwapDetectsStaleWrite(t *testing.T) {
	f := seedLifecycle(t, 5)
	order := f.placeOrder(t)

	// Dua penulis membaca status yang sama; yang kedua harus kalah.
	err := f.svc.CompareAndSwapStatus(order.ID, models.StatusPlaced, models.StatusInKitchen)
	assert.NoError(t, err)

	err = f.svc.CompareAndSwapStatus(order.ID, models.StatusPlaced, models.StatusInKitchen)
	assert.ErrorIs(t, err, ErrStaleTransition)

	// Status di database tetap hasil penulis pertama
	var fresh models.Order
	f.db.First(&fresh, "id = ?", order.ID)
	assert.Equal(t, models.StatusInKitchen, fresh.Status)
}

func TestCustomerCancelOnlyWhilePlaced(t *testing.T) {
	f := seedLifecycle(t, 5)
	order := f.placeOrder(t)

	cancelled, err := f.svc.Cancel(f.customerActor(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	// Order kedua keburu masuk dapur, customer tidak bisa lagi cancel
	order2 := f.placeOrder(t)
	_, err = f.svc.Advance(f.staffActor(), order2.ID)
	assert.NoError(t, err)

	_, err = f.svc.Cancel(f.customerActor(), order2.ID)
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}

func TestStaffCancelNonTerminal(t *testing.T) {
	f := seedLifecycle(t, 5)
	order := f.placeOrder(t)

	_, err := f.svc.Advance(f.staffActor(), order.ID)
	assert.NoError(t, err)

	cancelled, err := f.svc.Cancel(f.staffActor(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	// Terminal: cancel kedua ditolak
	_, err = f.svc.Cancel(f.staffActor(), order.ID)
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}

func TestCancelDoesNotRestoreStock(t *testing.T) {
	f := seedLifecycle(t, 5)
	order := f.placeOrder(t)
	assert.Equal(t, 4, f.remainingStock(t))

	_, err := f.svc.Cancel(f.staffActor(), order.ID)
	assert.NoError(t, err)

	// Stok tidak kembali setelah cancel
	assert.Equal(t, 4, f.remainingStock(t))
}

func TestCancelRejectsOtherCustomersOrder(t *testing.T) {
	f := seedLifecycle(t, 5)
	order := f.placeOrder(t)

	stranger := Actor{ID: f.customer.ID + 100, Role: models.RoleCustomer}
	_, err := f.svc.Cancel(stranger, order.ID)
	assert.ErrorIs(t, err, ErrNotYourOrder)
}

func TestConfirmPickup(t *testing.T) {
	f := seedLifecycle(t, 5)
	order := f.placeOrder(t)

	// Belum ready: ditolak
	_, err := f.svc.ConfirmPickup(f.customerActor(), order.ID)
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)

	_, err = f.svc.Advance(f.staffActor(), order.ID)
	assert.NoError(t, err)
	_, err = f.svc.Advance(f.staffActor(), order.ID)
	assert.NoError(t, err)

	picked, err := f.svc.ConfirmPickup(f.customerActor(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPickedUp, picked.Status)

	// Idempotent: konfirmasi ulang tetap sukses
	again, err := f.svc.ConfirmPickup(f.customerActor(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPickedUp, again.Status)
}

func TestConfirmPickupRejectsStaffAndStrangers(t *testing.T) {
	f := seedLifecycle(t, 5)
	order := f.placeOrder(t)

	_, err := f.svc.ConfirmPickup(f.staffActor(), order.ID)
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)

	stranger := Actor{ID: f.customer.ID + 100, Role: models.RoleCustomer}
	_, err = f.svc.ConfirmPickup(stranger, order.ID)
	assert.ErrorIs(t, err, ErrNotYourOrder)
}

func TestDeleteOnlyWhilePlaced(t *testing.T) {
	f := seedLifecycle(t, 5)
	order := f.placeOrder(t)

	err := f.svc.Delete(f.customerActor(), order.ID)
	assert.NoError(t, err)

	var count int64
	f.db.Model(&models.Order{}).Where("id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	f.db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	// Order yang sudah jalan tidak boleh dihapus
	order2 := f.placeOrder(t)
	_, err = f.svc.Advance(f.staffActor(), order2.ID)
	assert.NoError(t, err)

	err = f.svc.Delete(f.customerActor(), order2.ID)
	assert.ErrorIs(t, err, ErrDeleteNotAllowed)

	// Penolakan tidak boleh menyentuh order maupun itemnya
	f.db.Model(&models.Order{}).Where("id = ?", order2.ID).Count(&count)
	assert.Equal(t, int64(1), count)
	f.db.Model(&models.OrderItem{}).Where("order_id = ?", order2.ID).Count(&count)
	assert.NotZero(t, count)
}

func TestDeleteRejectsStranger(t *testing.T) {
	f := seedLifecycle(t, 5)
	order := f.placeOrder(t)

	stranger := Actor{ID: f.customer.ID + 100, Role: models.RoleCustomer}
	err := f.svc.Delete(stranger, order.ID)
	assert.ErrorIs(t, err, ErrNotYourOrder)
}

func TestLifecycleWritesStaffNotifications(t *testing.T) {
	f := seedLifecycle(t, 5)
	order := f.placeOrder(t)
	_, err := f.svc.Advance(f.staffActor(), order.ID)
	assert.NoError(t, err)

	var notifs []models.Notification
	f.db.Where("restaurant_id = ?", f.restaurant.ID).Find(&notifs)
	assert.Len(t, notifs, 2)
	assert.Equal(t, order.ID, notifs[0].OrderID)
}

func TestPlaceOrderHonorsPreallocatedID(t *testing.T) {
	f := seedLifecycle(t, 5)
	f.addCartLine(t, 1)

	order, err := f.svc.PlaceOrder(f.customerActor(), PlaceOrderInput{
		OrderID:       "gateway-allocated-id",
		RestaurantID:  f.restaurant.ID,
		PaymentMethod: models.PaymentCardGateway,
	})
	assert.NoError(t, err)
	assert.Equal(t, "gateway-allocated-id", order.ID)
	assert.Equal(t, models.PaymentCardGateway, order.PaymentMethod)
}
