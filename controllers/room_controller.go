package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"roomqr-backend/services"
	"roomqr-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RoomController struct {
	RoomSvc *services.RoomService
	Logger  *zap.Logger
}

func NewRoomController(svc *services.RoomService, logger *zap.Logger) *RoomController {
	return &RoomController{RoomSvc: svc, Logger: logger}
}

// Request payload for the combined create/delete endpoint. Room and floor
// numbers are accepted as strings or JSON numbers, so the fields stay
// untyped until normalization.
type roomPayload struct {
	RoomNo         interface{}     `json:"roomNo"`
	FloorNo        interface{}     `json:"floorNo"`
	Persons        []personPayload `json:"persons"`
	OriginalRoomNo interface{}     `json:"originalRoomNo"`
	Action         string          `json:"action"`
}

type personPayload struct {
	Name        interface{} `json:"name"`
	Age         interface{} `json:"age"`
	Nationality interface{} `json:"nationality"`
}

// GetRooms handles GET /api/get_rooms.
func (rc *RoomController) GetRooms(c *gin.Context) {
	rooms, err := rc.RoomSvc.GetAll()
	if err != nil {
		rc.Logger.Error("fetch rooms failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch rooms")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GetRoomByID handles GET /api/get_room/:id.
func (rc *RoomController) GetRoomByID(c *gin.Context) {
	id, ok := utils.ToOptionalInt(c.Param("id"))
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "id is required")
		return
	}

	room, err := rc.RoomSvc.GetByID(id)
	if errors.Is(err, services.ErrRoomNotFound) {
		utils.JSONError(c, http.StatusNotFound, "room not found")
		return
	}
	if err != nil {
		rc.Logger.Error("fetch room failed", zap.Int("id", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch room")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// CreateRooms handles POST /api/create_rooms. The wire format carries an
// action flag for the delete variant; the two transitions are dispatched to
// separate handlers backed by separate service operations.
func (rc *RoomController) CreateRooms(c *gin.Context) {
	var req roomPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	if req.Action == "delete" {
		rc.deleteRoom(c, req)
		return
	}
	rc.upsertRoom(c, req)
}

func (rc *RoomController) upsertRoom(c *gin.Context, req roomPayload) {
	input := services.UpsertRoomInput{
		RoomNo:         req.RoomNo,
		FloorNo:        req.FloorNo,
		OriginalRoomNo: utils.TrimString(req.OriginalRoomNo),
		Persons:        make([]services.PersonInput, 0, len(req.Persons)),
	}
	for _, p := range req.Persons {
		input.Persons = append(input.Persons, services.PersonInput{
			Name:        p.Name,
			Age:         p.Age,
			Nationality: p.Nationality,
		})
	}

	result, err := rc.RoomSvc.Upsert(input)
	if err != nil {
		if services.IsValidationError(err) {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		if isDuplicateKeyError(err) {
			utils.JSONError(c, http.StatusConflict,
				fmt.Sprintf("room number '%s' already exists", utils.NormalizeKey(req.RoomNo)))
			return
		}
		rc.Logger.Error("upsert room failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to create room")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}

func (rc *RoomController) deleteRoom(c *gin.Context, req roomPayload) {
	lookupNo := utils.TrimString(req.OriginalRoomNo)
	if lookupNo == "" {
		lookupNo = utils.NormalizeKey(req.RoomNo)
	}
	if lookupNo == "" {
		utils.JSONError(c, http.StatusBadRequest, "roomNo is required")
		return
	}

	deleted, err := rc.RoomSvc.DeleteByRoomNumber(lookupNo)
	if errors.Is(err, services.ErrRoomNotFound) {
		utils.JSONError(c, http.StatusNotFound, "room not found")
		return
	}
	if err != nil {
		rc.Logger.Error("delete room failed", zap.String("room_no", lookupNo), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete room")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, deleted)
}

// isDuplicateKeyError covers the engines in play: MySQL reports "Duplicate
// entry", sqlite "UNIQUE constraint failed".
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
