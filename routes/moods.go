package routes

import (
	"net/http"

	"github.com/random0602/DailyGlow/database"
	"github.com/random0602/DailyGlow/middleware"
	"github.com/random0602/DailyGlow/services"

	"github.com/gin-gonic/gin"
)

func RegisterMoodRoutes(group *gin.RouterGroup, db *database.Database, moodService services.MoodServiceInterface) {
	owned := middleware.OwnershipMiddleware(db, "Mood", middleware.MoodOwner(moodService))

	group.GET("/moods", func(c *gin.Context) { GetMoods(c, db, moodService) })
	group.POST("/moods", func(c *gin.Context) { CreateMood(c, db, moodService) })
	group.GET("/moods/:id", owned, func(c *gin.Context) { GetMoodById(c, db, moodService) })
	group.PATCH("/moods/:id", owned, func(c *gin.Context) { UpdateMood(c, db, moodService) })
	group.DELETE("/moods/:id", owned, func(c *gin.Context) { DeleteMood(c, db, moodService) })
}

func GetMoods(c *gin.Context, db *database.Database, moodService services.MoodServiceInterface) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	moods, err := moodService.GetMoods(db, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, moods)
}

func CreateMood(c *gin.Context, db *database.Database, moodService services.MoodServiceInterface) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var request createMoodRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mood, err := moodService.CreateMood(db, userID, request.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mood)
}

func GetMoodById(c *gin.Context, db *database.Database, moodService services.MoodServiceInterface) {
	mood, err := moodService.GetMoodById(db, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mood)
}

func UpdateMood(c *gin.Context, db *database.Database, moodService services.MoodServiceInterface) {
	var request updateMoodRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mood, err := moodService.UpdateMood(db, c.Param("id"), request.patch())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mood)
}

func DeleteMood(c *gin.Context, db *database.Database, moodService services.MoodServiceInterface) {
	if err := moodService.DeleteMood(db, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
