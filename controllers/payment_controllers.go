package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campus-dining/dining-station/models"
	"github.com/campus-dining/dining-station/services"
	"github.com/campus-dining/dining-station/utils"
)

type PaymentController struct {
	DB       *gorm.DB
	Payments *services.PaymentService
}

func NewPaymentController(db *gorm.DB, payments *services.PaymentService) *PaymentController {
	return &PaymentController{DB: db, Payments: payments}
}

// CreateSession -> customer membuat sesi pembayaran Snap untuk keranjangnya.
func (pc *PaymentController) CreateSession(c *gin.Context) {
	var req struct {
		RestaurantID uint `json:"restaurant_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	payment, err := pc.Payments.CreateSession(actorFromContext(c), req.RestaurantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Payment session created", payment)
}

// HandleCallback -> webhook Midtrans. Body hanya dipakai untuk mengambil
// order_id; status transaksi diverifikasi balik ke Midtrans lewat SDK.
func (pc *PaymentController) HandleCallback(c *gin.Context) {
	var notif map[string]interface{}
	if err := c.ShouldBindJSON(&notif); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	orderID, ok := notif["order_id"].(string)
	if !ok || orderID == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("order_id missing from notification"))
		return
	}

	payment, err := pc.Payments.HandleNotification(orderID)
	if err != nil {
		utils.ErrorLogger.Printf("payment callback failed for order %s: %v", orderID, err)
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification processed", gin.H{
		"order_id": payment.OrderID,
		"status":   payment.Status,
	})
}

// GetPaymentStatus -> customer memeriksa status sesi pembayarannya.
func (pc *PaymentController) GetPaymentStatus(c *gin.Context) {
	actor := actorFromContext(c)
	orderID := c.Param("order_id")

	var payment models.Payment
	if err := pc.DB.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if actor.Role == models.RoleCustomer && payment.UserID != actor.ID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment status", payment)
}
