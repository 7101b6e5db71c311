package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/talentverse/talentverse-backend/internal/services"
)

// WebSocketHandler upgrades an authenticated request to a live connection.
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		services.HandleWebSocket(hub, c.Writer, c.Request, userID)
	}
}
