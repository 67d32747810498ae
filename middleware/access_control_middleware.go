package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/random0602/DailyGlow/database"
	"github.com/random0602/DailyGlow/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OwnerLookup resolves the owner of the resource identified by id. It
// returns a not-found error when the resource does not exist.
type OwnerLookup func(db *database.Database, id string) (uuid.UUID, error)

func TaskOwner(svc services.TaskServiceInterface) OwnerLookup {
	return func(db *database.Database, id string) (uuid.UUID, error) {
		task, err := svc.GetTaskById(db, id)
		if err != nil {
			return uuid.Nil, err
		}
		return task.UserID, nil
	}
}

func MoodOwner(svc services.MoodServiceInterface) OwnerLookup {
	return func(db *database.Database, id string) (uuid.UUID, error) {
		mood, err := svc.GetMoodById(db, id)
		if err != nil {
			return uuid.Nil, err
		}
		return mood.UserID, nil
	}
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userIDInterface, exists := c.Get("userID")
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return uuid.Nil, false
	}

	userID, ok := userIDInterface.(uuid.UUID)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return userID, true
}

// OwnershipMiddleware lets the request through only when the caller owns the
// resource named by :id. Unknown ids yield 404, other users' resources 403.
// Must run after AuthMiddleware.
func OwnershipMiddleware(db *database.Database, resourceType string, lookup OwnerLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}

		resourceID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			// a malformed id cannot name an existing resource
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": resourceType + " not found"})
			return
		}

		ownerID, err := lookup(db, resourceID.String())
		if err != nil {
			if errors.Is(err, services.ErrTaskNotFound) || errors.Is(err, services.ErrMoodNotFound) || errors.Is(err, services.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": resourceType + " not found"})
				return
			}
			log.Printf("Ownership check for %s %s failed: %v", resourceType, resourceID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Error checking permissions"})
			return
		}

		if ownerID != userID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions for this resource"})
			return
		}

		// Store resource type and ID in context for route handlers
		c.Set("resourceType", resourceType)
		c.Set("resourceID", resourceID)

		c.Next()
	}
}

// SelfOnlyMiddleware restricts /users/:id routes to the caller's own id.
func SelfOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}

		if c.Param("id") != userID.String() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Users may only manage their own account"})
			return
		}
		c.Next()
	}
}
