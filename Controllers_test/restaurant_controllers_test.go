package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/campus-dining/dining-station/controllers"
	"github.com/campus-dining/dining-station/models"
)

func setupRestaurantRouter(db *gorm.DB, actor models.User) *gin.Engine {
	router := gin.New()
	router.Use(asUser(actor))
	restCtrl := controllers.NewRestaurantController(db)
	router.POST("/restaurants", restCtrl.RegisterRestaurant)
	router.GET("/restaurants", restCtrl.GetAllRestaurants)
	router.GET("/restaurants/:restaurant_id", restCtrl.GetRestaurantByID)
	router.GET("/restaurants/:restaurant_id/status", restCtrl.GetRestaurantStatus)
	router.PATCH("/restaurant/profile", restCtrl.UpdateRestaurant)
	router.PUT("/restaurant/hours", restCtrl.SetOpeningHours)
	router.PATCH("/restaurant/override", restCtrl.SetStatusOverride)
	router.GET("/admin/restaurants/pending", restCtrl.ListPendingRestaurants)
	router.PUT("/admin/restaurants/:restaurant_id/approval", restCtrl.SetApprovalStatus)
	return router
}

func TestRegisterRestaurantPromotesOwner(t *testing.T) {
	db := setupTestDB(t)
	customer := seedCustomer(t, db)
	router := setupRestaurantRouter(db, customer)

	w, resp := doJSON(t, router, "POST", "/restaurants", gin.H{
		"name":    "Kantin FISIP",
		"address": "Gedung B",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, models.ApprovalPending, data["approval_status"])

	// Pendaftar dipromosikan jadi owner dengan restaurant_id terisi
	var user models.User
	assert.NoError(t, db.First(&user, customer.ID).Error)
	assert.Equal(t, models.RoleRestaurantOwner, user.Role)
	assert.NotNil(t, user.RestaurantID)
}

func TestPublicListingHidesUnapproved(t *testing.T) {
	db := setupTestDB(t)
	seedApprovedRestaurant(t, db)
	db.Create(&models.Restaurant{
		Name:           "Masih Pending",
		ApprovalStatus: models.ApprovalPending,
	})
	customer := seedCustomer(t, db)
	router := setupRestaurantRouter(db, customer)

	w, resp := doJSON(t, router, "GET", "/restaurants", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	list := resp["data"].([]interface{})
	assert.Len(t, list, 1)

	entry := list[0].(map[string]interface{})
	assert.Equal(t, "Kantin Teknik", entry["name"])
	assert.Equal(t, string(models.StatusOpen), entry["operational_status"])
}

func TestGetRestaurantStatusResolvesOverride(t *testing.T) {
	db := setupTestDB(t)
	restaurant, _ := seedApprovedRestaurant(t, db)
	customer := seedCustomer(t, db)
	router := setupRestaurantRouter(db, customer)

	url := fmt.Sprintf("/restaurants/%d/status", restaurant.ID)

	w, resp := doJSON(t, router, "GET", url, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, string(models.StatusOpen), data["operational_status"])

	db.Model(&restaurant).Update("status_override", models.OverrideBusy)
	w, resp = doJSON(t, router, "GET", url, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data = resp["data"].(map[string]interface{})
	assert.Equal(t, string(models.StatusBusy), data["operational_status"])

	// Restaurant yang dicabut approvalnya selalu Closed
	db.Model(&restaurant).Updates(map[string]interface{}{
		"status_override": models.OverrideOpen,
		"approval_status": models.ApprovalRejected,
	})
	w, resp = doJSON(t, router, "GET", url, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data = resp["data"].(map[string]interface{})
	assert.Equal(t, string(models.StatusClosed), data["operational_status"])
}

func TestSetOpeningHoursValidation(t *testing.T) {
	db := setupTestDB(t)
	_, owner := seedApprovedRestaurant(t, db)
	router := setupRestaurantRouter(db, owner)

	// Weekday tidak dikenal
	w, _ := doJSON(t, router, "PUT", "/restaurant/hours", gin.H{
		"days": []gin.H{{"weekday": "Mondey", "enabled": true, "open": "09:00", "close": "17:00"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Format jam salah
	w, _ = doJSON(t, router, "PUT", "/restaurant/hours", gin.H{
		"days": []gin.H{{"weekday": "Monday", "enabled": true, "open": "9am", "close": "17:00"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Jadwal lewat tengah malam ditolak
	w, _ = doJSON(t, router, "PUT", "/restaurant/hours", gin.H{
		"days": []gin.H{{"weekday": "Monday", "enabled": true, "open": "22:00", "close": "02:00"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Jadwal valid tersimpan
	w, _ = doJSON(t, router, "PUT", "/restaurant/hours", gin.H{
		"days": []gin.H{
			{"weekday": "Monday", "enabled": true, "open": "09:00", "close": "17:00"},
			{"weekday": "Sunday", "enabled": false},
		},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var hours []models.OpeningHour
	db.Where("restaurant_id = ?", *owner.RestaurantID).Find(&hours)
	assert.Len(t, hours, 2)
}

func TestSetOpeningHoursReplacesSchedule(t *testing.T) {
	db := setupTestDB(t)
	_, owner := seedApprovedRestaurant(t, db)
	router := setupRestaurantRouter(db, owner)

	w, _ := doJSON(t, router, "PUT", "/restaurant/hours", gin.H{
		"days": []gin.H{{"weekday": "Monday", "enabled": true, "open": "09:00", "close": "17:00"}},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, "PUT", "/restaurant/hours", gin.H{
		"days": []gin.H{{"weekday": "Tuesday", "enabled": true, "open": "10:00", "close": "15:00"}},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Jadwal lama diganti, bukan ditambah
	var hours []models.OpeningHour
	db.Where("restaurant_id = ?", *owner.RestaurantID).Find(&hours)
	assert.Len(t, hours, 1)
	assert.Equal(t, "Tuesday", hours[0].Weekday)
}

func TestScheduleDrivesStatus(t *testing.T) {
	db := setupTestDB(t)
	restaurant, owner := seedApprovedRestaurant(t, db)
	router := setupRestaurantRouter(db, owner)

	// Kembali ke jadwal (auto), semua hari buka sepanjang hari: status Open
	// tanpa tergantung kapan test dijalankan.
	days := make([]gin.H, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		days = append(days, gin.H{
			"weekday": d.String(), "enabled": true, "open": "00:00", "close": "23:59",
		})
	}
	w, _ := doJSON(t, router, "PUT", "/restaurant/hours", gin.H{"days": days})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, "PATCH", "/restaurant/override", gin.H{"override": "auto"})
	assert.Equal(t, http.StatusOK, w.Code)

	url := fmt.Sprintf("/restaurants/%d/status", restaurant.ID)
	w, resp := doJSON(t, router, "GET", url, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, string(models.StatusOpen), data["operational_status"])
}

func TestSetStatusOverrideRejectsUnknown(t *testing.T) {
	db := setupTestDB(t)
	_, owner := seedApprovedRestaurant(t, db)
	router := setupRestaurantRouter(db, owner)

	w, _ := doJSON(t, router, "PATCH", "/restaurant/override", gin.H{"override": "holiday"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, "PATCH", "/restaurant/override", gin.H{"override": "busy"})
	assert.Equal(t, http.StatusOK, w.Code)

	var fresh models.Restaurant
	db.First(&fresh, *owner.RestaurantID)
	assert.Equal(t, models.OverrideBusy, fresh.StatusOverride)
}

func TestOwnerEndpointsRejectCustomer(t *testing.T) {
	db := setupTestDB(t)
	seedApprovedRestaurant(t, db)
	customer := seedCustomer(t, db)
	router := setupRestaurantRouter(db, customer)

	w, _ := doJSON(t, router, "PUT", "/restaurant/hours", gin.H{"days": []gin.H{}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, router, "PATCH", "/restaurant/override", gin.H{"override": "open"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApprovalFlow(t *testing.T) {
	db := setupTestDB(t)
	pending := models.Restaurant{
		Name:           "Menunggu ACC",
		ApprovalStatus: models.ApprovalPending,
	}
	db.Create(&pending)

	admin := models.User{
		Name:     "Admin",
		Email:    "admin-" + t.Name() + "@example.com",
		Password: "x",
		Role:     models.RoleAdmin,
	}
	db.Create(&admin)
	router := setupRestaurantRouter(db, admin)

	w, resp := doJSON(t, router, "GET", "/admin/restaurants/pending", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["data"].([]interface{}), 1)

	url := fmt.Sprintf("/admin/restaurants/%d/approval", pending.ID)
	w, _ = doJSON(t, router, "PUT", url, gin.H{"status": "approved"})
	assert.Equal(t, http.StatusOK, w.Code)

	var fresh models.Restaurant
	db.First(&fresh, pending.ID)
	assert.True(t, fresh.IsApproved())

	// Nilai selain approved/rejected ditolak
	w, _ = doJSON(t, router, "PUT", url, gin.H{"status": "maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
