package routes

import (
	"net/http"

	"github.com/random0602/DailyGlow/database"
	"github.com/random0602/DailyGlow/middleware"
	"github.com/random0602/DailyGlow/services"

	"github.com/gin-gonic/gin"
)

func RegisterUserRoutes(group *gin.RouterGroup, db *database.Database, userService services.UserServiceInterface) {
	group.GET("/users/me", func(c *gin.Context) { GetCurrentUser(c, db, userService) })
	group.DELETE("/users/:id", middleware.SelfOnlyMiddleware(), func(c *gin.Context) { DeleteUser(c, db, userService) })
}

func GetCurrentUser(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	user, err := userService.GetUserById(db, userID.String())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// DeleteUser removes the account along with its tasks and moods.
func DeleteUser(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	if err := userService.DeleteUser(db, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
