package services

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"

	"github.com/campus-dining/dining-station/models"
	"github.com/campus-dining/dining-station/utils"
)

var ErrPaymentNotFound = errors.New("payment not found")

// PaymentService membuat sesi pembayaran Midtrans Snap dari keranjang dan
// menangani notifikasi gateway. Order baru benar-benar ditempatkan (lewat
// lifecycle engine) saat gateway melaporkan settlement, bukan saat sesi
// dibuat. Verifikasi signature webhook didelegasikan ke SDK lewat
// CheckTransaction: status yang dipakai selalu hasil query balik ke Midtrans,
// bukan isi body callback.
type PaymentService struct {
	DB        *gorm.DB
	Lifecycle *OrderLifecycleService

	snapClient snap.Client
	coreClient coreapi.Client
}

func NewPaymentService(db *gorm.DB, lifecycle *OrderLifecycleService) *PaymentService {
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_ENV") == "production" {
		env = midtrans.Production
	}

	ps := &PaymentService{DB: db, Lifecycle: lifecycle}
	ps.snapClient.New(serverKey, env)
	ps.coreClient.New(serverKey, env)
	return ps
}

// CreateSession membuat transaksi Snap untuk isi keranjang customer saat ini.
// OrderID dialokasikan di sini supaya callback nanti menempatkan order dengan
// id yang sama.
func (ps *PaymentService) CreateSession(actor Actor, restaurantID uint) (*models.Payment, error) {
	if actor.Role != models.RoleCustomer {
		return nil, ErrTransitionNotAllowed
	}

	var restaurant models.Restaurant
	if err := ps.DB.Preload("OpeningHours").First(&restaurant, restaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	if !restaurant.IsApproved() {
		return nil, ErrRestaurantNotAvailable
	}
	if ResolveStatus(restaurant.Schedule(), restaurant.StatusOverride, time.Now()) != models.StatusOpen {
		return nil, ErrRestaurantNotAvailable
	}

	var cart []models.CartItem
	if err := ps.DB.Where("user_id = ? AND restaurant_id = ?", actor.ID, restaurantID).
		Preload("MenuItem").Find(&cart).Error; err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	var customer models.User
	if err := ps.DB.First(&customer, actor.ID).Error; err != nil {
		return nil, err
	}

	var total int64
	var itemDetails []midtrans.ItemDetails
	for _, line := range cart {
		var size models.MenuItemSize
		if err := ps.DB.Where("menu_item_id = ? AND size = ?", line.MenuItemID, line.Size).
			First(&size).Error; err != nil {
			return nil, ErrMenuItemNotFound
		}
		lineTotal := int64(size.Price) * int64(line.Quantity)
		total += lineTotal
		itemDetails = append(itemDetails, midtrans.ItemDetails{
			ID:    fmt.Sprintf("%d-%s", line.MenuItemID, line.Size),
			Name:  fmt.Sprintf("%s (%s)", line.MenuItem.Name, line.Size),
			Price: int64(size.Price),
			Qty:   int32(line.Quantity),
		})
	}

	orderID := uuid.NewString()
	expiredAt := time.Now().Add(30 * time.Minute)

	payment := models.Payment{
		OrderID:      orderID,
		UserID:       customer.ID,
		RestaurantID: restaurantID,
		Amount:       float64(total),
		Status:       models.PaymentStatusPending,
		ExpiredAt:    &expiredAt,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: total,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: customer.Name,
			Email: customer.Email,
		},
		Items: &itemDetails,
	}

	snapResp, snapErr := ps.snapClient.CreateTransaction(snapReq)
	if snapErr != nil {
		utils.ErrorLogger.Printf("Midtrans snap error for order %s: %v", orderID, snapErr)
		return nil, snapErr
	}

	payment.SnapToken = snapResp.Token
	payment.RedirectURL = snapResp.RedirectURL

	if err := ps.DB.Create(&payment).Error; err != nil {
		return nil, err
	}

	return &payment, nil
}

// HandleNotification memproses webhook Midtrans untuk satu order id. Status
// diambil ulang dari Midtrans; body webhook hanya dipakai untuk tahu order
// mana yang harus dicek.
func (ps *PaymentService) HandleNotification(orderID string) (*models.Payment, error) {
	var payment models.Payment
	if err := ps.DB.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	statusResp, statusErr := ps.coreClient.CheckTransaction(orderID)
	if statusErr != nil {
		return nil, statusErr
	}

	switch statusResp.TransactionStatus {
	case "capture":
		if statusResp.FraudStatus == "accept" {
			return ps.settle(&payment, statusResp.PaymentType)
		}
	case "settlement":
		return ps.settle(&payment, statusResp.PaymentType)
	case "deny", "cancel", "failure":
		ps.markPayment(&payment, models.PaymentStatusFailed, statusResp.PaymentType)
	case "expire":
		ps.markPayment(&payment, models.PaymentStatusExpired, statusResp.PaymentType)
	}

	return &payment, nil
}

// settle menandai payment sukses dan menempatkan order lewat lifecycle
// engine. Callback gateway bisa datang lebih dari sekali; payment yang sudah
// success tidak menempatkan order kedua.
func (ps *PaymentService) settle(payment *models.Payment, paymentType string) (*models.Payment, error) {
	if payment.Status == models.PaymentStatusSuccess {
		return payment, nil
	}

	actor := Actor{ID: payment.UserID, Role: models.RoleCustomer}
	if _, err := ps.Lifecycle.PlaceOrder(actor, PlaceOrderInput{
		OrderID:       payment.OrderID,
		RestaurantID:  payment.RestaurantID,
		PaymentMethod: models.PaymentCardGateway,
	}); err != nil {
		// Pembayaran masuk tapi order gagal ditempatkan (mis. stok habis
		// duluan). Tandai failed dan biarkan caller yang memutuskan refund.
		ps.markPayment(payment, models.PaymentStatusFailed, paymentType)
		return nil, err
	}

	ps.markPayment(payment, models.PaymentStatusSuccess, paymentType)
	return payment, nil
}

func (ps *PaymentService) markPayment(payment *models.Payment, status, paymentType string) {
	now := time.Now()
	payment.Status = status
	payment.PaymentType = paymentType
	if status == models.PaymentStatusSuccess {
		payment.PaymentTime = &now
	}
	payment.UpdatedAt = now
	if err := ps.DB.Save(payment).Error; err != nil {
		utils.ErrorLogger.Printf("failed to update payment %d: %v", payment.ID, err)
	}
}

// PaymentTimeoutChecker menandai sesi pending yang lewat ExpiredAt sebagai
// expired. Tidak ada order yang perlu dibatalkan: order baru dibuat setelah
// settlement.
func (ps *PaymentService) PaymentTimeoutChecker() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ps.CheckExpiredPayments()
	}
}

// CheckExpiredPayments memeriksa pembayaran pending yang sudah kedaluwarsa.
func (ps *PaymentService) CheckExpiredPayments() {
	var payments []models.Payment
	if err := ps.DB.Where("status = ?", models.PaymentStatusPending).Find(&payments).Error; err != nil {
		utils.ErrorLogger.Printf("Error checking expired payments: %v", err)
		return
	}

	now := time.Now()
	for i := range payments {
		p := &payments[i]
		if p.ExpiredAt != nil && !p.ExpiredAt.IsZero() && now.After(*p.ExpiredAt) {
			ps.markPayment(p, models.PaymentStatusExpired, p.PaymentType)
			utils.InfoLogger.Printf("Payment %d for order %s expired", p.ID, p.OrderID)
		}
	}
}

// StartTimeoutChecker memulai goroutine pemeriksa sesi expired.
func (ps *PaymentService) StartTimeoutChecker() {
	go ps.PaymentTimeoutChecker()
	utils.InfoLogger.Println("Payment timeout checker started")
}
