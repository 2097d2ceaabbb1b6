package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/campus-dining/dining-station/events"
	"github.com/campus-dining/dining-station/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventsHandler -> endpoint WebSocket dashboard. Owner/staff menerima event
// restaurantnya sendiri; admin menerima semua.
func EventsHandler(c *gin.Context) {
	roleInterface, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleInterface.(string)

	if role != models.RoleRestaurantOwner && role != models.RoleRestaurantStaff && role != models.RoleAdmin {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	var restaurantID uint
	if v, ok := c.Get("restaurant_id"); ok {
		if rid, ok := v.(uint); ok {
			restaurantID = rid
		}
	}
	if role != models.RoleAdmin && restaurantID == 0 {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	events.RegisterClient(ws, role, restaurantID)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	events.UnregisterClient(ws)
}
