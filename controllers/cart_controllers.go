package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campus-dining/dining-station/models"
	"github.com/campus-dining/dining-station/utils"
)

type CartController struct {
	DB *gorm.DB
}

func NewCartController(db *gorm.DB) *CartController {
	return &CartController{DB: db}
}

// GetCart -> isi keranjang customer, dengan subtotal terhitung per baris.
func (cc *CartController) GetCart(c *gin.Context) {
	actor := actorFromContext(c)

	var lines []models.CartItem
	if err := cc.DB.Preload("MenuItem").Preload("MenuItem.Sizes").
		Where("user_id = ?", actor.ID).
		Find(&lines).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var total float64
	for _, line := range lines {
		for _, s := range line.MenuItem.Sizes {
			if s.Size == line.Size {
				total += float64(line.Quantity) * s.Price
			}
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Cart", gin.H{
		"items": lines,
		"total": total,
	})
}

// AddToCart -> tambah satu baris; baris (item, size) yang sudah ada di-merge.
// Keranjang hanya boleh berisi satu restaurant; item restaurant lain menolak.
func (cc *CartController) AddToCart(c *gin.Context) {
	var req struct {
		MenuItemID uint   `json:"menu_item_id" binding:"required"`
		Size       string `json:"size" binding:"required"`
		Quantity   int    `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	actor := actorFromContext(c)

	var item models.MenuItem
	if err := cc.DB.Preload("Sizes").First(&item, req.MenuItemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if !item.Available {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item is not available"))
		return
	}

	sizeExists := false
	for _, s := range item.Sizes {
		if s.Size == req.Size {
			sizeExists = true
			break
		}
	}
	if !sizeExists {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown size for this item"))
		return
	}

	// Satu keranjang satu restaurant.
	var other int64
	cc.DB.Model(&models.CartItem{}).
		Where("user_id = ? AND restaurant_id != ?", actor.ID, item.RestaurantID).
		Count(&other)
	if other > 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("cart already contains items from another restaurant"))
		return
	}

	var line models.CartItem
	err := cc.DB.Where("user_id = ? AND menu_item_id = ? AND size = ?",
		actor.ID, req.MenuItemID, req.Size).First(&line).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		line = models.CartItem{
			UserID:       actor.ID,
			RestaurantID: item.RestaurantID,
			MenuItemID:   req.MenuItemID,
			Size:         req.Size,
			Quantity:     req.Quantity,
			CreatedAt:    time.Now(),
		}
	case err != nil:
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	default:
		line.Quantity += req.Quantity
	}
	line.UpdatedAt = time.Now()

	if err := cc.DB.Save(&line).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart updated", line)
}

// UpdateCartLine -> ganti quantity satu baris; 0 berarti hapus.
func (cc *CartController) UpdateCartLine(c *gin.Context) {
	lineID, _ := strconv.Atoi(c.Param("line_id"))

	var req struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if *req.Quantity < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("quantity must be >= 0"))
		return
	}

	actor := actorFromContext(c)

	var line models.CartItem
	if err := cc.DB.Where("id = ? AND user_id = ?", lineID, actor.ID).First(&line).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if *req.Quantity == 0 {
		if err := cc.DB.Delete(&line).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Cart line removed", gin.H{"line_id": line.ID})
		return
	}

	line.Quantity = *req.Quantity
	line.UpdatedAt = time.Now()
	if err := cc.DB.Save(&line).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart line updated", line)
}

// ClearCart -> kosongkan seluruh keranjang customer.
func (cc *CartController) ClearCart(c *gin.Context) {
	actor := actorFromContext(c)

	if err := cc.DB.Where("user_id = ?", actor.ID).
		Delete(&models.CartItem{}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart cleared", nil)
}
