package routes

import (
	"net/http"

	"github.com/random0602/DailyGlow/database"
	"github.com/random0602/DailyGlow/middleware"
	"github.com/random0602/DailyGlow/services"

	"github.com/gin-gonic/gin"
)

func RegisterTaskRoutes(group *gin.RouterGroup, db *database.Database, taskService services.TaskServiceInterface) {
	owned := middleware.OwnershipMiddleware(db, "Task", middleware.TaskOwner(taskService))

	group.GET("/tasks", func(c *gin.Context) { GetTasks(c, db, taskService) })
	group.POST("/tasks", func(c *gin.Context) { CreateTask(c, db, taskService) })
	group.GET("/tasks/stats", func(c *gin.Context) { GetTaskStats(c, db, taskService) })
	group.GET("/tasks/:id", owned, func(c *gin.Context) { GetTaskById(c, db, taskService) })
	group.PATCH("/tasks/:id", owned, func(c *gin.Context) { UpdateTask(c, db, taskService) })
	group.DELETE("/tasks/:id", owned, func(c *gin.Context) { DeleteTask(c, db, taskService) })
}

func GetTasks(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	tasks, err := taskService.GetTasks(db, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func CreateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var request createTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := taskService.CreateTask(db, userID, request.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func GetTaskStats(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	stats, err := taskService.GetTaskStats(db, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func GetTaskById(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	task, err := taskService.GetTaskById(db, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func UpdateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	var request updateTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := taskService.UpdateTask(db, c.Param("id"), request.patch())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func DeleteTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	if err := taskService.DeleteTask(db, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
