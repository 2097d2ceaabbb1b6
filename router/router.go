package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campus-dining/dining-station/controllers"
	"github.com/campus-dining/dining-station/middlewares"
	"github.com/campus-dining/dining-station/models"
	"github.com/campus-dining/dining-station/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// Harus terdaftar sebelum route didefinisikan; gin membekukan chain
	// middleware per route saat registrasi.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	// Inisialisasi service & controller
	lifecycle := services.NewOrderLifecycleService(db)
	paymentSvc := services.NewPaymentService(db, lifecycle)

	userCtrl := controllers.NewUserController(db)
	restaurantCtrl := controllers.NewRestaurantController(db)
	menuCtrl := controllers.NewMenuController(db)
	cartCtrl := controllers.NewCartController(db)
	orderCtrl := controllers.NewOrderController(db)
	paymentCtrl := controllers.NewPaymentController(db, paymentSvc)
	notificationCtrl := controllers.NewNotificationController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter ketat untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Listing restaurant & menu tanpa login
	r.GET("/restaurants", restaurantCtrl.GetAllRestaurants)
	r.GET("/restaurants/:restaurant_id", restaurantCtrl.GetRestaurantByID)
	r.GET("/restaurants/:restaurant_id/status", restaurantCtrl.GetRestaurantStatus)
	r.GET("/restaurants/:restaurant_id/menu", menuCtrl.GetRestaurantMenu)

	// Webhook gateway pembayaran
	r.POST("/payments/callback", paymentCtrl.HandleCallback)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.POST("/restaurants", restaurantCtrl.RegisterRestaurant)

	// ORDERS - role dicek oleh lifecycle engine per operasi
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	auth.PUT("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
	auth.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)
	auth.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)

	// CUSTOMER
	customer := auth.Group("/")
	customer.Use(middlewares.RequireRoles(models.RoleCustomer))
	{
		customer.GET("/cart", cartCtrl.GetCart)
		customer.POST("/cart", cartCtrl.AddToCart)
		customer.PATCH("/cart/:line_id", cartCtrl.UpdateCartLine)
		customer.DELETE("/cart", cartCtrl.ClearCart)

		customer.POST("/orders", orderCtrl.CreateOrder)
		customer.GET("/orders", orderCtrl.GetMyOrders)
		customer.POST("/orders/:order_id/pickup", orderCtrl.ConfirmPickup)

		customer.POST("/payments/session", paymentCtrl.CreateSession)
		customer.GET("/payments/:order_id", paymentCtrl.GetPaymentStatus)
	}

	// RESTAURANT OWNER / STAFF
	kitchen := auth.Group("/restaurant")
	kitchen.Use(middlewares.RequireRoles(models.RoleRestaurantOwner, models.RoleRestaurantStaff))
	{
		kitchen.GET("/orders", orderCtrl.GetRestaurantOrders)
		kitchen.POST("/orders/:order_id/advance", orderCtrl.AdvanceOrder)

		kitchen.GET("/menu", menuCtrl.GetManagedMenu)
		kitchen.POST("/menu", menuCtrl.CreateMenuItem)
		kitchen.PATCH("/menu/:item_id", menuCtrl.UpdateMenuItem)
		kitchen.DELETE("/menu/:item_id", menuCtrl.DeleteMenuItem)
		kitchen.PUT("/menu/:item_id/sizes", menuCtrl.UpsertSize)

		kitchen.GET("/notifications", notificationCtrl.GetNotifications)
		kitchen.PATCH("/notifications/:notif_id/read", notificationCtrl.MarkNotificationRead)
	}

	// OWNER ONLY
	owner := auth.Group("/restaurant")
	owner.Use(middlewares.RequireRoles(models.RoleRestaurantOwner))
	{
		owner.PATCH("/profile", restaurantCtrl.UpdateRestaurant)
		owner.PUT("/hours", restaurantCtrl.SetOpeningHours)
		owner.PATCH("/override", restaurantCtrl.SetStatusOverride)
		owner.POST("/staff", userCtrl.CreateStaff)
	}

	// ADMIN
	admin := auth.Group("/admin")
	admin.Use(middlewares.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/users", userCtrl.GetAllUsers)
		admin.GET("/restaurants/pending", restaurantCtrl.ListPendingRestaurants)
		admin.PATCH("/restaurants/:restaurant_id/approval", restaurantCtrl.SetApprovalStatus)
	}

	// WebSocket dashboard events
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("/events", controllers.EventsHandler)
	}

	return r
}
