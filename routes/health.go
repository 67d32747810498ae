package routes

import (
	"net/http"
	"time"

	"github.com/random0602/DailyGlow/database"
	"github.com/random0602/DailyGlow/models"

	"github.com/gin-gonic/gin"
)

// HealthCheck probes one optional dependency such as the cache or broker.
type HealthCheck func() error

type healthResponse struct {
	Status        string            `json:"status"`
	Database      string            `json:"database"`
	Components    map[string]string `json:"components"`
	PendingEvents int64             `json:"pending_events"`
	Time          time.Time         `json:"time"`
}

// RegisterHealthRoutes reports 503 when the database is unreachable and
// "degraded" when only an optional component is down.
func RegisterHealthRoutes(router *gin.Engine, db *database.Database, checks map[string]HealthCheck) {
	router.GET("/health", func(c *gin.Context) {
		response := healthResponse{
			Status:     "ok",
			Database:   "ok",
			Components: map[string]string{},
			Time:       time.Now().UTC(),
		}

		if err := db.Ping(); err != nil {
			response.Status = "unavailable"
			response.Database = err.Error()
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}

		if err := db.DB.Model(&models.Event{}).Where("dispatched = ?", false).Count(&response.PendingEvents).Error; err != nil {
			response.Status = "degraded"
		}

		for name, check := range checks {
			if err := check(); err != nil {
				response.Components[name] = err.Error()
				response.Status = "degraded"
				continue
			}
			response.Components[name] = "ok"
		}

		c.JSON(http.StatusOK, response)
	})
}
