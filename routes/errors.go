package routes

import (
	"errors"
	"log"
	"net/http"

	"github.com/random0602/DailyGlow/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrMoodNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrResourceExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusInternalServerError:
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "internal server error"})
	case http.StatusUnauthorized:
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(status, gin.H{"error": "Invalid username or password"})
			return
		}
		c.JSON(status, gin.H{"error": "Invalid or expired token"})
	default:
		c.JSON(status, gin.H{"error": err.Error()})
	}
}

func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	userIDInterface, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}
	userID, ok := userIDInterface.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}
	return userID, true
}
