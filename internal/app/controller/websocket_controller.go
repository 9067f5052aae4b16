package controller

import (
	"github.com/belugagoods/storefront-backend/internal/middleware"
	"github.com/belugagoods/storefront-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	gws "github.com/gorilla/websocket"
)

type WebSocketController struct {
	hub      *websocket.Hub
	upgrader *gws.Upgrader
}

func NewWebSocketController(hub *websocket.Hub, allowedOrigins []string) *WebSocketController {
	return &WebSocketController{
		hub:      hub,
		upgrader: websocket.NewUpgrader(allowedOrigins),
	}
}

// HandleWebSocket keeps a tab's cart badge in sync with its other tabs
// GET /ws
func (ctrl *WebSocketController) HandleWebSocket(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}

	if err := websocket.Serve(ctrl.hub, ctrl.upgrader, c.Writer, c.Request, clientID); err != nil {
		// Upgrade가 이미 에러 응답을 씀
		middleware.GetLoggerFromContext(c).Warn("WebSocket upgrade failed", map[string]interface{}{
			"client_id": clientID,
			"error":     err.Error(),
		})
	}
}
