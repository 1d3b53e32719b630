package controller

import (
	"github.com/chengtian/temple-backend/internal/middleware"
	ws "github.com/chengtian/temple-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// EventsController upgrades admin consoles onto the live event feed.
type EventsController struct {
	hub      *ws.Hub
	upgrader *websocket.Upgrader
}

func NewEventsController(hub *ws.Hub, allowedOrigins []string) *EventsController {
	return &EventsController{
		hub:      hub,
		upgrader: ws.NewUpgrader(allowedOrigins),
	}
}

// Stream GET /api/admin/events
func (ctrl *EventsController) Stream(c *gin.Context) {
	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response
		middleware.GetLoggerFromContext(c).Warn("WebSocket upgrade failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	sessionID := ""
	if s := middleware.GetSession(c); s != nil {
		sessionID = s.ID()
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, sessionID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
