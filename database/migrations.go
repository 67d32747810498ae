package database

import (
	"log"

	"github.com/random0602/DailyGlow/models"

	"gorm.io/gorm"
)

// RunMigrations keeps the schema in sync with the models.
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Mood{},
		&models.Event{},
	)

	if err != nil {
		log.Printf("Migration failed: %v", err)
		return err
	}

	return nil
}
