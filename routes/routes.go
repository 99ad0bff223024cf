package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomqr-backend/controllers"
	"roomqr-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controller instances onto the route table. The
// page controller is optional; when nil, only the JSON API is mounted.
func SetupRouter(
	rc *controllers.RoomController,
	ec *controllers.RoomEventController,
	pc *controllers.PageController,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/api")
	{
		api.GET("/get_rooms", rc.GetRooms)
		api.GET("/get_room/:id", rc.GetRoomByID)
		api.POST("/create_rooms", rc.CreateRooms)

		if ec != nil {
			api.GET("/room_events", ec.GetRoomEvents)
		}
	}

	if pc != nil {
		r.LoadHTMLGlob("templates/*.html")
		r.GET("/", pc.RoomOverview)
		r.GET("/rooms/:id", pc.RoomDetail)
		r.GET("/print", pc.PrintQRCodes)
		r.GET("/qr/:id", pc.QRCode)
	}

	return r
}
