package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campus-dining/dining-station/models"
	"github.com/campus-dining/dining-station/utils"
)

func init() {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
}

// setupTestDB membuka database in-memory terpisah per test (DSN memakai nama
// test) dan migrasi semua model.
func setupTestDB(t *testing.T) *gorm.DB {
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

// asUser meniru auth middleware: set klaim user langsung ke context.
func asUser(user models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", user.ID)
		c.Set("role", user.Role)
		if user.RestaurantID != nil {
			c.Set("restaurant_id", *user.RestaurantID)
		}
		c.Next()
	}
}

// seedApprovedRestaurant membuat restaurant approved dengan override open,
// plus user owner-nya.
func seedApprovedRestaurant(t *testing.T, db *gorm.DB) (models.Restaurant, models.User) {
	t.Helper()
	restaurant := models.Restaurant{
		Name:           "Kantin Teknik",
		ApprovalStatus: models.ApprovalApproved,
		StatusOverride: models.OverrideOpen,
	}
	if err := db.Create(&restaurant).Error; err != nil {
		t.Fatalf("failed to seed restaurant: %v", err)
	}

	owner := models.User{
		Name:         "Owner",
		Email:        "owner-" + t.Name() + "@example.com",
		Password:     "x",
		Role:         models.RoleRestaurantOwner,
		RestaurantID: &restaurant.ID,
	}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("failed to seed owner: %v", err)
	}

	db.Model(&restaurant).Update("owner_id", owner.ID)
	restaurant.OwnerID = owner.ID
	return restaurant, owner
}

func seedCustomer(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	customer := models.User{
		Name:     "Customer",
		Email:    "customer-" + t.Name() + "@example.com",
		Password: "x",
		Role:     models.RoleCustomer,
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}
	return customer
}

// seedMenuItem membuat satu item dengan satu ukuran "regular".
func seedMenuItem(t *testing.T, db *gorm.DB, restaurantID uint, price float64, stock int) (models.MenuItem, models.MenuItemSize) {
	t.Helper()
	item := models.MenuItem{
		RestaurantID: restaurantID,
		Name:         "Mie Ayam",
		Available:    true,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to seed menu item: %v", err)
	}
	size := models.MenuItemSize{
		MenuItemID:        item.ID,
		Size:              "regular",
		Price:             price,
		AvailableQuantity: stock,
	}
	if err := db.Create(&size).Error; err != nil {
		t.Fatalf("failed to seed size: %v", err)
	}
	return item, size
}

// doJSON menjalankan satu request terhadap router dan mengembalikan recorder
// plus body yang sudah di-decode.
func doJSON(t *testing.T, router *gin.Engine, method, url string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("response is not JSON: %v (body: %s)", err, w.Body.String())
		}
	}
	return w, decoded
}
