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

type OrderController struct {
	DB        *gorm.DB
	Lifecycle *services.OrderLifecycleService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{
		DB:        db,
		Lifecycle: services.NewOrderLifecycleService(db),
	}
}

// CreateOrder -> customer checkout dari keranjang (pembayaran in-store).
// Alur card-gateway lewat payment callback, bukan endpoint ini.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	type ReqBody struct {
		RestaurantID  uint   `json:"restaurant_id" binding:"required"`
		PaymentMethod string `json:"payment_method"`
	}

	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.PaymentMethod == "" {
		body.PaymentMethod = models.PaymentInStore
	}

	order, err := oc.Lifecycle.PlaceOrder(actorFromContext(c), services.PlaceOrderInput{
		RestaurantID:  body.RestaurantID,
		PaymentMethod: body.PaymentMethod,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID -> detail 1 order. Customer hanya boleh melihat order
// miliknya; staff hanya order restaurantnya.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id := c.Param("order_id")

	var order models.Order
	if err := oc.DB.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	actor := actorFromContext(c)
	switch actor.Role {
	case models.RoleCustomer:
		if order.UserID != actor.ID {
			utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
			return
		}
	case models.RoleRestaurantOwner, models.RoleRestaurantStaff:
		if actor.RestaurantID == nil || *actor.RestaurantID != order.RestaurantID {
			utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetMyOrders -> daftar order milik customer yang login.
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	actor := actorFromContext(c)

	var orders []models.Order
	if err := oc.DB.Preload("Items").
		Where("user_id = ?", actor.ID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetRestaurantOrders -> order masuk untuk dapur restaurant, optional filter
// ?status=placed dsb.
func (oc *OrderController) GetRestaurantOrders(c *gin.Context) {
	actor := actorFromContext(c)
	if actor.RestaurantID == nil {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	query := oc.DB.Preload("Items").Where("restaurant_id = ?", *actor.RestaurantID)
	if status := c.Query("status"); status != "" {
		if !models.OrderStatus(status).IsValid() {
			utils.RespondError(c, http.StatusBadRequest, &CustomError{"unknown order status"})
			return
		}
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Order("created_at asc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant orders", orders)
}

// AdvanceOrder -> staff memajukan order satu langkah pada alur normal.
func (oc *OrderController) AdvanceOrder(c *gin.Context) {
	order, err := oc.Lifecycle.Advance(actorFromContext(c), c.Param("order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order advanced", order)
}

// UpdateOrderStatus -> PUT /orders/:order_id/status, body {"status": "..."}.
// Semua jalur tetap lewat lifecycle engine; endpoint ini hanya menerjemahkan
// status yang diminta ke operasi yang sesuai.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	type ReqBody struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}

	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !body.Status.IsValid() {
		utils.RespondError(c, http.StatusBadRequest, &CustomError{"unknown order status"})
		return
	}

	actor := actorFromContext(c)
	orderID := c.Param("order_id")

	var (
		order *models.Order
		err   error
	)

	switch {
	case body.Status == models.StatusCancelled:
		order, err = oc.Lifecycle.Cancel(actor, orderID)
	case body.Status == models.StatusPickedUp && actor.Role == models.RoleCustomer:
		order, err = oc.Lifecycle.ConfirmPickup(actor, orderID)
	default:
		// Validasi dulu sebelum mutasi: status yang diminta harus persis satu
		// langkah dari status tersimpan. Permintaan loncat ditolak tanpa
		// menyentuh order.
		var current models.Order
		if derr := oc.DB.First(&current, "id = ?", orderID).Error; derr != nil {
			if errors.Is(derr, gorm.ErrRecordNotFound) {
				respondServiceError(c, services.ErrOrderNotFound)
			} else {
				utils.RespondError(c, http.StatusInternalServerError, derr)
			}
			return
		}
		next, nerr := current.Status.Next()
		if nerr != nil || next != body.Status {
			respondServiceError(c, services.ErrInvalidTransition)
			return
		}

		order, err = oc.Lifecycle.Advance(actor, orderID)
		// Ada penulis lain yang menyelip di antara baca dan advance; hasilnya
		// bukan status yang diminta caller.
		if err == nil && order.Status != body.Status {
			respondServiceError(c, services.ErrStaleTransition)
			return
		}
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// CancelOrder -> staff dari status non-terminal mana pun, customer hanya
// selama masih placed.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	order, err := oc.Lifecycle.Cancel(actorFromContext(c), c.Param("order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}

// ConfirmPickup -> customer mengkonfirmasi order sudah diambil.
func (oc *OrderController) ConfirmPickup(c *gin.Context) {
	order, err := oc.Lifecycle.ConfirmPickup(actorFromContext(c), c.Param("order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order picked up", order)
}

// DeleteOrder -> hard delete, hanya untuk order yang masih placed.
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	orderID := c.Param("order_id")
	if err := oc.Lifecycle.Delete(actorFromContext(c), orderID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": orderID})
}
