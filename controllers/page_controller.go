package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"roomqr-backend/services"
	"roomqr-backend/utils"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// PageController serves the server-rendered views: room overview, room
// detail, and the QR print sheet. Data comes from the same service layer as
// the API.
type PageController struct {
	RoomSvc       *services.RoomService
	Logger        *zap.Logger
	PublicBaseURL string
}

func NewPageController(svc *services.RoomService, logger *zap.Logger, publicBaseURL string) *PageController {
	return &PageController{
		RoomSvc:       svc,
		Logger:        logger,
		PublicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// RoomOverview handles GET /.
func (pc *PageController) RoomOverview(c *gin.Context) {
	rooms, err := pc.RoomSvc.GetAll()
	if err != nil {
		pc.Logger.Error("render overview failed", zap.Error(err))
		pc.renderError(c, "Could not load rooms.")
		return
	}
	c.HTML(http.StatusOK, "rooms.html", gin.H{"Rooms": rooms})
}

// RoomDetail handles GET /rooms/:id.
func (pc *PageController) RoomDetail(c *gin.Context) {
	id, ok := utils.ToOptionalInt(c.Param("id"))
	if !ok {
		pc.renderError(c, "Invalid room link.")
		return
	}

	room, err := pc.RoomSvc.GetByID(id)
	if errors.Is(err, services.ErrRoomNotFound) {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Room not found."})
		return
	}
	if err != nil {
		pc.Logger.Error("render room detail failed", zap.Int("id", id), zap.Error(err))
		pc.renderError(c, "Could not load the room.")
		return
	}
	c.HTML(http.StatusOK, "room_detail.html", gin.H{"Room": room})
}

// PrintQRCodes handles GET /print: one QR image per room, each encoding a
// deep link to that room's detail page.
func (pc *PageController) PrintQRCodes(c *gin.Context) {
	rooms, err := pc.RoomSvc.GetAll()
	if err != nil {
		pc.Logger.Error("render print view failed", zap.Error(err))
		pc.renderError(c, "Could not load rooms.")
		return
	}
	c.HTML(http.StatusOK, "print.html", gin.H{"Rooms": rooms})
}

// QRCode handles GET /qr/:id — a PNG encoding the room's detail link. The
// id segment may carry a .png suffix for the benefit of <img> tags.
func (pc *PageController) QRCode(c *gin.Context) {
	raw := strings.TrimSuffix(c.Param("id"), ".png")
	id, ok := utils.ToOptionalInt(raw)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "id is required")
		return
	}

	if _, err := pc.RoomSvc.GetByID(id); err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			utils.JSONError(c, http.StatusNotFound, "room not found")
			return
		}
		pc.Logger.Error("qr lookup failed", zap.Int("id", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch room")
		return
	}

	link := fmt.Sprintf("%s/rooms/%d", pc.PublicBaseURL, id)
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		pc.Logger.Error("qr encode failed", zap.String("link", link), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to generate qr code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (pc *PageController) renderError(c *gin.Context, message string) {
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": message})
}
