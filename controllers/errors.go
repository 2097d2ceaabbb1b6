package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-dining/dining-station/services"
	"github.com/campus-dining/dining-station/utils"
)

// ErrNoPermission adalah error umum untuk akses yang ditolak
var ErrNoPermission = &CustomError{"You do not have permission"}

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

// respondServiceError memetakan error taxonomy dari services ke HTTP status.
// Satu-satunya tempat mapping ini hidup; controller lain tinggal memanggil.
func respondServiceError(c *gin.Context, err error) {
	var stockErr *services.InsufficientStockError

	switch {
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrRestaurantNotFound),
		errors.Is(err, services.ErrMenuItemNotFound),
		errors.Is(err, services.ErrPaymentNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrStaleTransition):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrDeleteNotAllowed),
		errors.Is(err, services.ErrEmptyCart):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrTransitionNotAllowed),
		errors.Is(err, services.ErrNotYourOrder):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, services.ErrRestaurantNotAvailable),
		errors.As(err, &stockErr):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	default:
		utils.ErrorLogger.Printf("unexpected service error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// actorFromContext membangun Actor eksplisit dari klaim yang ditaruh
// auth middleware di context.
func actorFromContext(c *gin.Context) services.Actor {
	var actor services.Actor

	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(uint); ok {
			actor.ID = id
		}
	}
	if v, ok := c.Get("role"); ok {
		if role, ok := v.(string); ok {
			actor.Role = role
		}
	}
	if v, ok := c.Get("restaurant_id"); ok {
		if rid, ok := v.(uint); ok {
			actor.RestaurantID = &rid
		}
	}

	return actor
}
