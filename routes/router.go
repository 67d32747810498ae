package routes

import (
	"github.com/random0602/DailyGlow/database"
	"github.com/random0602/DailyGlow/middleware"
	"github.com/random0602/DailyGlow/services"

	"github.com/gin-gonic/gin"
)

// Services groups the handlers' dependencies. WebSocket may be nil, in which
// case /ws is not mounted.
type Services struct {
	Auth      services.AuthServiceInterface
	Users     services.UserServiceInterface
	Tasks     services.TaskServiceInterface
	Moods     services.MoodServiceInterface
	WebSocket services.WebSocketServiceInterface
}

type Options struct {
	AllowedOrigins string
	// AuthLimiter throttles /auth per client IP when set.
	AuthLimiter  *middleware.RateLimiter
	HealthChecks map[string]HealthCheck
}

func NewRouter(db *database.Database, svc Services, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), middleware.RecoveryWithLog())
	router.Use(middleware.CORSMiddleware(opts.AllowedOrigins))

	RegisterAuthRoutes(router, db, svc.Auth, opts.AuthLimiter)

	api := router.Group("/")
	api.Use(middleware.AuthMiddleware(svc.Auth))
	{
		RegisterTaskRoutes(api, db, svc.Tasks)
		RegisterMoodRoutes(api, db, svc.Moods)
		RegisterUserRoutes(api, db, svc.Users)
		RegisterCalendarRoutes(api, db, svc.Tasks)
	}

	if svc.WebSocket != nil {
		RegisterWebSocketRoutes(router, svc.Auth, svc.WebSocket)
	}
	RegisterHealthRoutes(router, db, opts.HealthChecks)
	RegisterStaticRoutes(router)

	return router
}
