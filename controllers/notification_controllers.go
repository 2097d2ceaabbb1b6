package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campus-dining/dining-station/models"
	"github.com/campus-dining/dining-station/utils"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GetNotifications -> notifikasi restaurant milik actor, terbaru dulu.
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	actor := actorFromContext(c)
	if actor.RestaurantID == nil {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var notifications []models.Notification
	if err := nc.DB.Where("restaurant_id = ?", *actor.RestaurantID).
		Order("created_at desc").
		Limit(100).
		Find(&notifications).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notifications", notifications)
}

// MarkNotificationRead
func (nc *NotificationController) MarkNotificationRead(c *gin.Context) {
	actor := actorFromContext(c)
	if actor.RestaurantID == nil {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	id, _ := strconv.Atoi(c.Param("notif_id"))

	var notif models.Notification
	if err := nc.DB.Where("id = ? AND restaurant_id = ?", id, *actor.RestaurantID).
		First(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	notif.Read = true
	if err := nc.DB.Save(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", notif)
}
