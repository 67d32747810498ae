package services

import (
	"errors"
	"fmt"

	"github.com/random0602/DailyGlow/broker"
	"github.com/random0602/DailyGlow/cache"
	"github.com/random0602/DailyGlow/database"
	"github.com/random0602/DailyGlow/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// errAccountGone is returned when a still-valid token names a deleted user.
var errAccountGone = fmt.Errorf("%w: account no longer exists", ErrInvalidToken)

// requireOwner fails with errAccountGone if ownerID has no user row.
func requireOwner(tx *gorm.DB, ownerID uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", ownerID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errAccountGone
	}
	return nil
}

// ownerWriteError maps a foreign key failure on an owned row to errAccountGone.
func ownerWriteError(err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return errAccountGone
	}
	return err
}

type UserServiceInterface interface {
	GetUserById(db *database.Database, id string) (models.User, error)
	DeleteUser(db *database.Database, id string) error
}

type UserService struct {
	cache ListCache
}

func NewUserService(c ListCache) *UserService {
	return &UserService{cache: c}
}

func (s *UserService) GetUserById(db *database.Database, id string) (models.User, error) {
	var user models.User
	if err := db.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// DeleteUser removes the user together with every task and mood they own.
func (s *UserService) DeleteUser(db *database.Database, id string) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var user models.User
	if err := tx.First(&user, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	// The foreign keys cascade too, but SQLite only enforces them when
	// the pragma is on, so remove owned rows explicitly.
	taskResult := tx.Where("user_id = ?", user.ID).Delete(&models.Task{})
	if taskResult.Error != nil {
		tx.Rollback()
		return taskResult.Error
	}

	moodResult := tx.Where("user_id = ?", user.ID).Delete(&models.Mood{})
	if moodResult.Error != nil {
		tx.Rollback()
		return moodResult.Error
	}

	if err := tx.Delete(&user).Error; err != nil {
		tx.Rollback()
		return err
	}

	event, err := models.NewEvent(
		string(broker.UserDeleted),
		"user",
		"delete",
		user.ID.String(),
		map[string]interface{}{
			"user_id":       user.ID.String(),
			"tasks_deleted": taskResult.RowsAffected,
			"moods_deleted": moodResult.RowsAffected,
		},
	)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	invalidate(s.cache, cache.UserKeys(user.ID.String())...)
	return nil
}
