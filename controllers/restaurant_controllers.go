package controllers

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campus-dining/dining-station/models"
	"github.com/campus-dining/dining-station/services"
	"github.com/campus-dining/dining-station/utils"
)

type RestaurantController struct {
	DB *gorm.DB
}

func NewRestaurantController(db *gorm.DB) *RestaurantController {
	return &RestaurantController{DB: db}
}

var clockRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

var weekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

// restaurantView adalah restaurant plus status operasional hasil resolver,
// bentuk yang dilihat customer di listing.
type restaurantView struct {
	models.Restaurant
	OperationalStatus models.OperationalStatus `json:"operational_status"`
}

// RegisterRestaurant -> user mendaftarkan restaurant baru (approval_status
// 'pending' sampai admin memutuskan) dan menjadi owner-nya.
func (rc *RestaurantController) RegisterRestaurant(c *gin.Context) {
	type request struct {
		Name    string `json:"name" binding:"required"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
		Email   string `json:"email"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	actor := actorFromContext(c)

	restaurant := models.Restaurant{
		OwnerID:        actor.ID,
		Name:           req.Name,
		Address:        req.Address,
		Phone:          req.Phone,
		Email:          req.Email,
		ApprovalStatus: models.ApprovalPending,
		StatusOverride: models.OverrideAuto,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	err := rc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&restaurant).Error; err != nil {
			return err
		}
		// Pendaftar jadi owner; restaurant_id user ikut diisi.
		return tx.Model(&models.User{}).Where("id = ?", actor.ID).
			Updates(map[string]interface{}{
				"role":          models.RoleRestaurantOwner,
				"restaurant_id": restaurant.ID,
			}).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Restaurant %q registered by user %d, waiting for approval", restaurant.Name, actor.ID)

	utils.RespondJSON(c, http.StatusCreated, "Restaurant registered, waiting for approval", restaurant)
}

// GetAllRestaurants -> listing publik. Hanya restaurant approved yang
// ditawarkan ke customer, dengan status operasional terhitung.
func (rc *RestaurantController) GetAllRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	if err := rc.DB.Preload("OpeningHours").
		Where("approval_status = ?", models.ApprovalApproved).
		Find(&restaurants).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	now := time.Now()
	views := make([]restaurantView, 0, len(restaurants))
	for _, r := range restaurants {
		views = append(views, restaurantView{
			Restaurant:        r,
			OperationalStatus: services.ResolveStatus(r.Schedule(), r.StatusOverride, now),
		})
	}

	utils.RespondJSON(c, http.StatusOK, "List of restaurants", views)
}

// GetRestaurantByID -> detail restaurant approved, plus status terhitung.
func (rc *RestaurantController) GetRestaurantByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("restaurant_id"))

	var restaurant models.Restaurant
	if err := rc.DB.Preload("OpeningHours").
		Where("approval_status = ?", models.ApprovalApproved).
		First(&restaurant, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant detail", restaurantView{
		Restaurant:        restaurant,
		OperationalStatus: services.ResolveStatus(restaurant.Schedule(), restaurant.StatusOverride, time.Now()),
	})
}

// GetRestaurantStatus -> status operasional saja, dipakai UI sebelum checkout.
func (rc *RestaurantController) GetRestaurantStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("restaurant_id"))

	var restaurant models.Restaurant
	if err := rc.DB.Preload("OpeningHours").First(&restaurant, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	status := services.ResolveStatus(restaurant.Schedule(), restaurant.StatusOverride, time.Now())
	if !restaurant.IsApproved() {
		status = models.StatusClosed
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant status", gin.H{
		"restaurant_id":      restaurant.ID,
		"operational_status": status,
	})
}

// UpdateRestaurant -> owner mengubah data kontak restaurantnya.
func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	restaurant, ok := rc.ownedRestaurant(c)
	if !ok {
		return
	}

	type request struct {
		Name    *string `json:"name"`
		Address *string `json:"address"`
		Phone   *string `json:"phone"`
		Email   *string `json:"email"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.Address != nil {
		restaurant.Address = *req.Address
	}
	if req.Phone != nil {
		restaurant.Phone = *req.Phone
	}
	if req.Email != nil {
		restaurant.Email = *req.Email
	}
	restaurant.UpdatedAt = time.Now()

	if err := rc.DB.Save(restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}

// SetOpeningHours -> owner mengganti jadwal mingguan sekaligus.
// Format jam "HH:MM"; open harus < close. Jadwal yang melewati tengah malam
// tidak didukung oleh perbandingan string resolver.
func (rc *RestaurantController) SetOpeningHours(c *gin.Context) {
	restaurant, ok := rc.ownedRestaurant(c)
	if !ok {
		return
	}

	type dayReq struct {
		Weekday string `json:"weekday" binding:"required"`
		Enabled bool   `json:"enabled"`
		Open    string `json:"open"`
		Close   string `json:"close"`
	}
	var req struct {
		Days []dayReq `json:"days" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	for _, d := range req.Days {
		if !weekdays[d.Weekday] {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown weekday %q", d.Weekday))
			return
		}
		if d.Enabled {
			if !clockRe.MatchString(d.Open) || !clockRe.MatchString(d.Close) {
				utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid time range for %s, want HH:MM", d.Weekday))
				return
			}
			if d.Open >= d.Close {
				utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("open must be before close on %s (overnight schedules are not supported)", d.Weekday))
				return
			}
		}
	}

	err := rc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", restaurant.ID).
			Delete(&models.OpeningHour{}).Error; err != nil {
			return err
		}
		for _, d := range req.Days {
			oh := models.OpeningHour{
				RestaurantID: restaurant.ID,
				Weekday:      d.Weekday,
				Enabled:      d.Enabled,
				Open:         d.Open,
				Close:        d.Close,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			}
			if err := tx.Create(&oh).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Opening hours updated", nil)
}

// SetStatusOverride -> escape hatch owner: open/busy/closed, atau auto untuk
// kembali ke jadwal.
func (rc *RestaurantController) SetStatusOverride(c *gin.Context) {
	restaurant, ok := rc.ownedRestaurant(c)
	if !ok {
		return
	}

	var req struct {
		Override models.StatusOverride `json:"override" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	switch req.Override {
	case models.OverrideAuto, models.OverrideOpen, models.OverrideBusy, models.OverrideClosed:
	default:
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown override %q", req.Override))
		return
	}

	restaurant.StatusOverride = req.Override
	restaurant.UpdatedAt = time.Now()
	if err := rc.DB.Save(restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Status override updated", restaurant)
}

// ListPendingRestaurants -> antrean approval untuk admin.
func (rc *RestaurantController) ListPendingRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	if err := rc.DB.Where("approval_status = ?", models.ApprovalPending).
		Find(&restaurants).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Pending restaurants", restaurants)
}

// SetApprovalStatus -> admin approve/reject restaurant.
func (rc *RestaurantController) SetApprovalStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("restaurant_id"))

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Status != models.ApprovalApproved && req.Status != models.ApprovalRejected {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("status must be %q or %q",
			models.ApprovalApproved, models.ApprovalRejected))
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	restaurant.ApprovalStatus = req.Status
	restaurant.UpdatedAt = time.Now()
	if err := rc.DB.Save(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Restaurant %d approval set to %s", restaurant.ID, req.Status)

	utils.RespondJSON(c, http.StatusOK, "Approval status updated", restaurant)
}

// ownedRestaurant memuat restaurant milik actor; admin boleh lewat param.
func (rc *RestaurantController) ownedRestaurant(c *gin.Context) (*models.Restaurant, bool) {
	actor := actorFromContext(c)

	var restaurantID uint
	switch actor.Role {
	case models.RoleAdmin:
		id, _ := strconv.Atoi(c.Param("restaurant_id"))
		restaurantID = uint(id)
	case models.RoleRestaurantOwner:
		if actor.RestaurantID == nil {
			utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
			return nil, false
		}
		restaurantID = *actor.RestaurantID
	default:
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return nil, false
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, restaurantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return nil, false
	}

	return &restaurant, true
}
