package database

import (
	"fmt"
	"log"

	"github.com/random0602/DailyGlow/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

// Dialector picks Postgres when a DATABASE_URL is configured and falls back
// to a local SQLite file otherwise.
func Dialector(cfg config.Config) gorm.Dialector {
	if cfg.DatabaseURL != "" {
		return postgres.Open(cfg.DatabaseURL)
	}
	// foreign keys are off by default in SQLite
	return sqlite.Open(fmt.Sprintf("file:%s?_foreign_keys=on", cfg.SQLitePath))
}

func Setup(cfg config.Config) (*Database, error) {
	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Warn
	}

	gormConfig := &gorm.Config{
		Logger:                 logger.Default.LogMode(logLevel),
		AllowGlobalUpdate:      false,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}

	db, err := gorm.Open(Dialector(cfg), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed successfully")

	return &Database{DB: db}, nil
}

func (d *Database) Close() {
	if d.DB == nil {
		log.Println("Database connection is nil, nothing to close.")
		return
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		log.Printf("Failed to get database connection: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Failed to close database connection: %v", err)
	}
}

// Ping reports whether the underlying connection is reachable.
func (d *Database) Ping() error {
	if d == nil || d.DB == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
