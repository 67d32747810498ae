package routes

import (
	"net/http"

	"github.com/random0602/DailyGlow/database"
	"github.com/random0602/DailyGlow/middleware"
	"github.com/random0602/DailyGlow/services"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes mounts signup and signin. limiter may be nil.
func RegisterAuthRoutes(router *gin.Engine, db *database.Database, authService services.AuthServiceInterface, limiter *middleware.RateLimiter) {
	group := router.Group("/auth")
	if limiter != nil {
		group.Use(middleware.RateLimitMiddleware(limiter))
	}
	{
		group.POST("/signup", func(c *gin.Context) { SignUp(c, db, authService) })
		group.POST("/signin", func(c *gin.Context) { SignIn(c, db, authService) })
	}
}

func SignUp(c *gin.Context, db *database.Database, authService services.AuthServiceInterface) {
	var request credentialsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := authService.SignUp(db, request.Username, request.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, signUpResponse{ID: user.ID, Username: user.Username})
}

func SignIn(c *gin.Context, db *database.Database, authService services.AuthServiceInterface) {
	var request credentialsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := authService.SignIn(db, request.Username, request.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, signInResponse{AccessToken: token})
}
