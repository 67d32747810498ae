package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"
)

const defaultJWTSecret = "your-super-secret-key-change-this-in-production"

type Config struct {
	AppEnv         string
	AppPort        string
	AllowedOrigins string

	DatabaseURL    string
	SQLitePath     string
	DBMaxIdleConns int
	DBMaxOpenConns int

	JWTSecret     string
	JWTExpiration time.Duration

	NatsURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("%s not set, defaulting to %s", key, defaultValue)
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Invalid integer value for %s, defaulting to %d", key, defaultValue)
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
		log.Printf("Invalid number for %s, defaulting to %v", key, defaultValue)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Invalid duration for %s, defaulting to %s", key, defaultValue)
	}
	return defaultValue
}

func Load() Config {
	log.Println("Loading configuration...")

	return Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		AppPort:        getEnv("APP_PORT", "3000"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),

		// Postgres is used when DATABASE_URL is set, SQLite otherwise.
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "dailyglow.db"),
		DBMaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),

		JWTSecret:     getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpiration: getEnvAsDuration("JWT_EXPIRATION", time.Hour),

		NatsURL: getEnv("NATS_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheTTL:      getEnvAsDuration("CACHE_TTL", 5*time.Minute),

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 10),
	}
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate rejects settings that are only acceptable for local development.
func (c Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.JWTExpiration <= 0 {
		return errors.New("JWT_EXPIRATION must be positive")
	}
	return nil
}
