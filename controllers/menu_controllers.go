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

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetRestaurantMenu -> menu publik satu restaurant (approved saja, item yang
// di-hide owner tidak ikut).
func (mc *MenuController) GetRestaurantMenu(c *gin.Context) {
	restaurantID, _ := strconv.Atoi(c.Param("restaurant_id"))

	var restaurant models.Restaurant
	if err := mc.DB.Where("approval_status = ?", models.ApprovalApproved).
		First(&restaurant, restaurantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var items []models.MenuItem
	if err := mc.DB.Preload("Sizes").
		Where("restaurant_id = ? AND available = ?", restaurant.ID, true).
		Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant menu", items)
}

// GetManagedMenu -> semua item restaurant milik actor, termasuk yang hidden.
func (mc *MenuController) GetManagedMenu(c *gin.Context) {
	restaurantID, ok := mc.managedRestaurantID(c)
	if !ok {
		return
	}

	var items []models.MenuItem
	if err := mc.DB.Preload("Sizes").
		Where("restaurant_id = ?", restaurantID).
		Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Managed menu", items)
}

// CreateMenuItem -> owner/staff menambahkan item beserta ukuran-ukurannya.
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	restaurantID, ok := mc.managedRestaurantID(c)
	if !ok {
		return
	}

	type sizeReq struct {
		Size              string  `json:"size" binding:"required"`
		Price             float64 `json:"price"`
		AvailableQuantity int     `json:"available_quantity"`
	}
	var req struct {
		Name        string    `json:"name" binding:"required"`
		Description string    `json:"description"`
		Sizes       []sizeReq `json:"sizes" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	for _, s := range req.Sizes {
		if s.Price < 0 || s.AvailableQuantity < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price and available_quantity must be non-negative"))
			return
		}
	}

	item := models.MenuItem{
		RestaurantID: restaurantID,
		Name:         req.Name,
		Description:  req.Description,
		Available:    true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		for _, s := range req.Sizes {
			size := models.MenuItemSize{
				MenuItemID:        item.ID,
				Size:              s.Size,
				Price:             s.Price,
				AvailableQuantity: s.AvailableQuantity,
				CreatedAt:         time.Now(),
				UpdatedAt:         time.Now(),
			}
			if err := tx.Create(&size).Error; err != nil {
				return err
			}
			item.Sizes = append(item.Sizes, size)
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// UpdateMenuItem -> nama/deskripsi/toggle availability.
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	item, ok := mc.managedItem(c)
	if !ok {
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Available   *bool   `json:"available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	item.UpdatedAt = time.Now()

	if err := mc.DB.Save(item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	item, ok := mc.managedItem(c)
	if !ok {
		return
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_item_id = ?", item.ID).
			Delete(&models.MenuItemSize{}).Error; err != nil {
			return err
		}
		return tx.Delete(item).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"item_id": item.ID})
}

// UpsertSize -> tambah atau ubah satu ukuran (harga / stok) item.
func (mc *MenuController) UpsertSize(c *gin.Context) {
	item, ok := mc.managedItem(c)
	if !ok {
		return
	}

	var req struct {
		Size              string   `json:"size" binding:"required"`
		Price             *float64 `json:"price"`
		AvailableQuantity *int     `json:"available_quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var size models.MenuItemSize
	err := mc.DB.Where("menu_item_id = ? AND size = ?", item.ID, req.Size).First(&size).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		size = models.MenuItemSize{
			MenuItemID: item.ID,
			Size:       req.Size,
			CreatedAt:  time.Now(),
		}
	case err != nil:
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if req.Price != nil {
		if *req.Price < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price must be non-negative"))
			return
		}
		size.Price = *req.Price
	}
	if req.AvailableQuantity != nil {
		if *req.AvailableQuantity < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("available_quantity must be non-negative"))
			return
		}
		size.AvailableQuantity = *req.AvailableQuantity
	}
	size.UpdatedAt = time.Now()

	if err := mc.DB.Save(&size).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Size updated", size)
}

// managedRestaurantID -> restaurant milik actor (owner/staff). Admin memakai
// param :restaurant_id.
func (mc *MenuController) managedRestaurantID(c *gin.Context) (uint, bool) {
	actor := actorFromContext(c)

	if actor.Role == models.RoleAdmin {
		id, _ := strconv.Atoi(c.Param("restaurant_id"))
		return uint(id), true
	}

	if actor.RestaurantID == nil {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return 0, false
	}
	return *actor.RestaurantID, true
}

// managedItem memuat item dan memastikan milik restaurant actor.
func (mc *MenuController) managedItem(c *gin.Context) (*models.MenuItem, bool) {
	itemID, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.Preload("Sizes").First(&item, itemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return nil, false
	}

	actor := actorFromContext(c)
	if actor.Role != models.RoleAdmin {
		if actor.RestaurantID == nil || *actor.RestaurantID != item.RestaurantID {
			utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
			return nil, false
		}
	}

	return &item, true
}
