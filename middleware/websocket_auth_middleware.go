package middleware

import (
	"net/http"

	"github.com/random0602/DailyGlow/services"
	"github.com/random0602/DailyGlow/utils/token"

	"github.com/gin-gonic/gin"
)

// WebSocketAuthMiddleware validates JWT tokens for WebSocket connections.
// Browsers cannot set headers on the upgrade request, so the token may
// also arrive as ?token=.
func WebSocketAuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := token.ExtractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		if !authenticate(c, authService, tokenString) {
			return
		}
		c.Next()
	}
}
