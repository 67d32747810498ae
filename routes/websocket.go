package routes

import (
	"github.com/random0602/DailyGlow/middleware"
	"github.com/random0602/DailyGlow/services"

	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes exposes the live event stream. Browsers pass the
// token as ?token= since they cannot set headers on the upgrade request.
func RegisterWebSocketRoutes(router *gin.Engine, authService services.AuthServiceInterface, wsService services.WebSocketServiceInterface) {
	wsGroup := router.Group("/ws")
	wsGroup.Use(middleware.WebSocketAuthMiddleware(authService))
	{
		wsGroup.GET("", func(c *gin.Context) {
			wsService.HandleConnection(c)
		})
	}
}
