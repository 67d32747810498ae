package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/random0602/DailyGlow/broker"
	"github.com/random0602/DailyGlow/cache"
	"github.com/random0602/DailyGlow/config"
	"github.com/random0602/DailyGlow/database"
	"github.com/random0602/DailyGlow/middleware"
	"github.com/random0602/DailyGlow/routes"
	"github.com/random0602/DailyGlow/services"

	"github.com/gin-gonic/gin"
)

// eventBus is what both the outbox dispatcher and the websocket hub need.
type eventBus struct {
	broker.Publisher
	broker.Subscriber
	health func() error
}

// connectBroker uses NATS when NATS_URL is set and reachable, and an
// in-process broker otherwise.
func connectBroker(cfg config.Config) eventBus {
	if cfg.NatsURL != "" {
		bus, err := connectNATS(cfg.NatsURL)
		if err == nil {
			return bus
		}
		log.Printf("Warning: NATS unavailable: %v", err)
		log.Println("Falling back to the in-process broker; live updates only reach this instance")
	}

	local := broker.NewLocalBroker()
	return eventBus{Publisher: local, Subscriber: local, health: local.Health}
}

func connectNATS(url string) (eventBus, error) {
	producer, err := broker.NewProducer(url)
	if err != nil {
		return eventBus{}, err
	}
	consumer, err := broker.NewConsumer(url)
	if err != nil {
		producer.Close()
		return eventBus{}, err
	}
	return eventBus{Publisher: producer, Subscriber: consumer, health: producer.Health}, nil
}

func (b eventBus) Close() {
	b.Publisher.Close()
	b.Subscriber.Close()
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Setup(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	healthChecks := map[string]routes.HealthCheck{}

	// Redis is optional; without it lists are always read from the database.
	var listCache services.ListCache
	if cfg.RedisAddr != "" {
		cacheConfig := cache.DefaultCacheConfig()
		cacheConfig.Addr = cfg.RedisAddr
		cacheConfig.Password = cfg.RedisPassword
		cacheConfig.DB = cfg.RedisDB

		redisCache := cache.NewRedisCache(cacheConfig)
		defer redisCache.Close()
		if err := redisCache.Health(); err != nil {
			log.Printf("Warning: Redis at %s is not responding: %v", cfg.RedisAddr, err)
		}
		listCache = redisCache
		healthChecks["cache"] = redisCache.Health
	}

	bus := connectBroker(cfg)
	defer bus.Close()
	healthChecks["broker"] = bus.health

	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpiration)
	userService := services.NewUserService(listCache)
	taskService := services.NewTaskService(listCache, cfg.CacheTTL)
	moodService := services.NewMoodService(listCache, cfg.CacheTTL)

	webSocketService := services.NewWebSocketService(bus, middleware.ParseOrigins(cfg.AllowedOrigins))
	webSocketService.Start()
	defer webSocketService.Stop()

	var dispatcher services.EventHandlerServiceInterface = services.NewEventHandlerService(db, bus)
	dispatcher.Start()
	defer dispatcher.Stop()

	router := routes.NewRouter(db, routes.Services{
		Auth:      authService,
		Users:     userService,
		Tasks:     taskService,
		Moods:     moodService,
		WebSocket: webSocketService,
	}, routes.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AuthLimiter:    middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		HealthChecks:   healthChecks,
	})

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("API server is running on port %s", cfg.AppPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shut down: %v", err)
	}
}
