package routes

import (
	"net/http"
	"time"

	"github.com/random0602/DailyGlow/calendar"
	"github.com/random0602/DailyGlow/database"
	"github.com/random0602/DailyGlow/services"

	"github.com/gin-gonic/gin"
)

func RegisterCalendarRoutes(group *gin.RouterGroup, db *database.Database, taskService services.TaskServiceInterface) {
	group.GET("/calendar", func(c *gin.Context) { GetCalendarMonth(c, db, taskService) })
	group.GET("/calendar/:date", func(c *gin.Context) { GetCalendarDay(c, db, taskService) })
}

// GetCalendarMonth renders the grid for ?month=YYYY-MM, defaulting to the
// current month.
func GetCalendarMonth(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	now := time.Now().UTC()
	year, month := now.Year(), now.Month()
	if value := c.Query("month"); value != "" {
		var err error
		year, month, err = calendar.ParseMonth(value)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	tasks, err := taskService.GetTasks(db, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, calendar.BuildMonth(year, month, tasks, now))
}

func GetCalendarDay(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	date := c.Param("date")
	tasks, err := taskService.GetTasksForDate(db, userID, date)
	if err != nil {
		respondError(c, err)
		return
	}

	day, err := calendar.DayDetails(date, tasks)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, day)
}
