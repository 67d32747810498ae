package middleware

import (
	"net/http"
	"strings"

	"github.com/random0602/DailyGlow/services"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid bearer token and stores the caller's
// userID (uuid.UUID) and username in the context.
func AuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		// Extract token from Bearer schema
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		if !authenticate(c, authService, parts[1]) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, authService services.AuthServiceInterface, tokenString string) bool {
	claims, err := authService.ValidateToken(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}

	userID, err := claims.UserID()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}

	c.Set("userID", userID)
	c.Set("username", claims.Username)
	return true
}
