package controllers

import (
	"net/http"
	"strconv"

	"roomqr-backend/services"
	"roomqr-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RoomEventController struct {
	EventSvc *services.RoomEventService
	Logger   *zap.Logger
}

func NewRoomEventController(svc *services.RoomEventService, logger *zap.Logger) *RoomEventController {
	return &RoomEventController{EventSvc: svc, Logger: logger}
}

// GetRoomEvents handles GET /api/room_events. Optional filters: room_no,
// limit.
func (ec *RoomEventController) GetRoomEvents(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	roomNo := c.Query("room_no")

	var events interface{}
	var err error
	if roomNo != "" {
		events, err = ec.EventSvc.GetByRoomNo(roomNo, limit)
	} else {
		events, err = ec.EventSvc.GetAll(limit)
	}
	if err != nil {
		ec.Logger.Error("fetch room events failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch room events")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, events)
}
