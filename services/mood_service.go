package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/random0602/DailyGlow/broker"
	"github.com/random0602/DailyGlow/cache"
	"github.com/random0602/DailyGlow/database"
	"github.com/random0602/DailyGlow/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateMoodInput struct {
	Emoji string
	Note  *string
	Date  *time.Time
}

// MoodPatch holds the fields a caller may change. An empty Note clears it.
type MoodPatch struct {
	Emoji *string
	Note  *string
	Date  *time.Time
}

type MoodServiceInterface interface {
	CreateMood(db *database.Database, ownerID uuid.UUID, input CreateMoodInput) (models.Mood, error)
	GetMoods(db *database.Database, ownerID uuid.UUID) ([]models.Mood, error)
	GetMoodById(db *database.Database, id string) (models.Mood, error)
	UpdateMood(db *database.Database, id string, patch MoodPatch) (models.Mood, error)
	DeleteMood(db *database.Database, id string) error
}

type MoodService struct {
	cache    ListCache
	cacheTTL time.Duration
}

func NewMoodService(c ListCache, ttl time.Duration) *MoodService {
	return &MoodService{cache: c, cacheTTL: ttl}
}

func normalizeNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func moodEventData(mood models.Mood) map[string]interface{} {
	return map[string]interface{}{
		"mood_id": mood.ID.String(),
		"user_id": mood.UserID.String(),
		"emoji":   mood.Emoji,
		"date":    mood.Date,
	}
}

func (s *MoodService) CreateMood(db *database.Database, ownerID uuid.UUID, input CreateMoodInput) (models.Mood, error) {
	emoji := strings.TrimSpace(input.Emoji)
	if emoji == "" {
		return models.Mood{}, fmt.Errorf("%w: emoji is required", ErrValidation)
	}

	mood := models.Mood{
		UserID: ownerID,
		Emoji:  emoji,
		Note:   normalizeNote(input.Note),
	}
	if input.Date != nil {
		mood.Date = input.Date.UTC()
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Mood{}, tx.Error
	}

	if err := requireOwner(tx, ownerID); err != nil {
		tx.Rollback()
		return models.Mood{}, err
	}

	if err := tx.Create(&mood).Error; err != nil {
		tx.Rollback()
		return models.Mood{}, ownerWriteError(err)
	}

	event, err := models.NewEvent(
		string(broker.MoodCreated),
		"mood",
		"create",
		ownerID.String(),
		moodEventData(mood),
	)
	if err != nil {
		tx.Rollback()
		return models.Mood{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Mood{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Mood{}, err
	}

	invalidate(s.cache, cache.MoodsKey(ownerID.String()))
	return mood, nil
}

func (s *MoodService) GetMoods(db *database.Database, ownerID uuid.UUID) ([]models.Mood, error) {
	moods, err := cachedList(s.cache, s.cacheTTL, cache.MoodsKey(ownerID.String()), func() ([]models.Mood, error) {
		var moods []models.Mood
		if err := db.DB.Where("user_id = ?", ownerID).Order("date DESC").Find(&moods).Error; err != nil {
			return nil, err
		}
		return moods, nil
	})
	if err != nil {
		return nil, err
	}

	for i := range moods {
		moods[i].UserID = ownerID
	}
	if moods == nil {
		moods = []models.Mood{}
	}
	return moods, nil
}

func (s *MoodService) GetMoodById(db *database.Database, id string) (models.Mood, error) {
	var mood models.Mood
	if err := db.DB.First(&mood, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Mood{}, ErrMoodNotFound
		}
		return models.Mood{}, err
	}
	return mood, nil
}

func (s *MoodService) UpdateMood(db *database.Database, id string, patch MoodPatch) (models.Mood, error) {
	updates := map[string]interface{}{}
	if patch.Emoji != nil {
		emoji := strings.TrimSpace(*patch.Emoji)
		if emoji == "" {
			return models.Mood{}, fmt.Errorf("%w: emoji cannot be empty", ErrValidation)
		}
		updates["emoji"] = emoji
	}
	if patch.Note != nil {
		if note := normalizeNote(patch.Note); note != nil {
			updates["note"] = *note
		} else {
			updates["note"] = nil
		}
	}
	if patch.Date != nil {
		if patch.Date.IsZero() {
			return models.Mood{}, fmt.Errorf("%w: date cannot be empty", ErrValidation)
		}
		updates["date"] = patch.Date.UTC()
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Mood{}, tx.Error
	}

	var mood models.Mood
	if err := tx.First(&mood, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Mood{}, ErrMoodNotFound
		}
		return models.Mood{}, err
	}

	if len(updates) > 0 {
		if err := tx.Model(&mood).Updates(updates).Error; err != nil {
			tx.Rollback()
			return models.Mood{}, err
		}
		if err := tx.First(&mood, "id = ?", id).Error; err != nil {
			tx.Rollback()
			return models.Mood{}, err
		}
	}

	event, err := models.NewEvent(
		string(broker.MoodUpdated),
		"mood",
		"update",
		mood.UserID.String(),
		moodEventData(mood),
	)
	if err != nil {
		tx.Rollback()
		return models.Mood{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Mood{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Mood{}, err
	}

	invalidate(s.cache, cache.MoodsKey(mood.UserID.String()))
	return mood, nil
}

func (s *MoodService) DeleteMood(db *database.Database, id string) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var mood models.Mood
	if err := tx.First(&mood, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMoodNotFound
		}
		return err
	}

	if err := tx.Delete(&mood).Error; err != nil {
		tx.Rollback()
		return err
	}

	event, err := models.NewEvent(
		string(broker.MoodDeleted),
		"mood",
		"delete",
		mood.UserID.String(),
		map[string]interface{}{
			"mood_id": mood.ID.String(),
			"user_id": mood.UserID.String(),
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

	invalidate(s.cache, cache.MoodsKey(mood.UserID.String()))
	return nil
}
