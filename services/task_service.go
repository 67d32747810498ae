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

type CreateTaskInput struct {
	Title         string
	ScheduledDate *string
}

// TaskPatch holds the fields a caller may change. Nil fields are left alone;
// an empty ScheduledDate clears the date.
type TaskPatch struct {
	Title         *string
	IsCompleted   *bool
	ScheduledDate *string
}

type TaskStats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}

type TaskServiceInterface interface {
	CreateTask(db *database.Database, ownerID uuid.UUID, input CreateTaskInput) (models.Task, error)
	GetTasks(db *database.Database, ownerID uuid.UUID) ([]models.Task, error)
	GetTaskById(db *database.Database, id string) (models.Task, error)
	UpdateTask(db *database.Database, id string, patch TaskPatch) (models.Task, error)
	DeleteTask(db *database.Database, id string) error
	GetTasksForDate(db *database.Database, ownerID uuid.UUID, date string) ([]models.Task, error)
	GetTaskStats(db *database.Database, ownerID uuid.UUID) (TaskStats, error)
}

type TaskService struct {
	cache    ListCache
	cacheTTL time.Duration
}

func NewTaskService(c ListCache, ttl time.Duration) *TaskService {
	return &TaskService{cache: c, cacheTTL: ttl}
}

func normalizeDate(date *string) (*string, error) {
	if date == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*date)
	if trimmed == "" {
		return nil, nil
	}
	if !models.ValidDate(trimmed) {
		return nil, fmt.Errorf("%w: scheduledDate must be YYYY-MM-DD", ErrValidation)
	}
	return &trimmed, nil
}

func taskEventData(task models.Task) map[string]interface{} {
	return map[string]interface{}{
		"task_id":        task.ID.String(),
		"user_id":        task.UserID.String(),
		"title":          task.Title,
		"is_completed":   task.IsCompleted,
		"scheduled_date": task.ScheduledDate,
	}
}

func (s *TaskService) CreateTask(db *database.Database, ownerID uuid.UUID, input CreateTaskInput) (models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Task{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	scheduled, err := normalizeDate(input.ScheduledDate)
	if err != nil {
		return models.Task{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	task := models.Task{
		UserID:        ownerID,
		Title:         title,
		IsCompleted:   false,
		ScheduledDate: scheduled,
	}

	if err := requireOwner(tx, ownerID); err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Create(&task).Error; err != nil {
		tx.Rollback()
		return models.Task{}, ownerWriteError(err)
	}

	event, err := models.NewEvent(
		string(broker.TaskCreated),
		"task",
		"create",
		ownerID.String(),
		taskEventData(task),
	)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	invalidate(s.cache, cache.TasksKey(ownerID.String()))
	return task, nil
}

func (s *TaskService) GetTasks(db *database.Database, ownerID uuid.UUID) ([]models.Task, error) {
	tasks, err := cachedList(s.cache, s.cacheTTL, cache.TasksKey(ownerID.String()), func() ([]models.Task, error) {
		var tasks []models.Task
		if err := db.DB.Where("user_id = ?", ownerID).Order("created_at DESC").Find(&tasks).Error; err != nil {
			return nil, err
		}
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}

	// owner is not serialized, so restore it for cached entries
	for i := range tasks {
		tasks[i].UserID = ownerID
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

func (s *TaskService) GetTaskById(db *database.Database, id string) (models.Task, error) {
	var task models.Task
	if err := db.DB.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskService) UpdateTask(db *database.Database, id string, patch TaskPatch) (models.Task, error) {
	updates := map[string]interface{}{}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return models.Task{}, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		updates["title"] = title
	}
	if patch.IsCompleted != nil {
		updates["is_completed"] = *patch.IsCompleted
	}
	if patch.ScheduledDate != nil {
		scheduled, err := normalizeDate(patch.ScheduledDate)
		if err != nil {
			return models.Task{}, err
		}
		if scheduled == nil {
			updates["scheduled_date"] = nil
		} else {
			updates["scheduled_date"] = *scheduled
		}
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}

	if len(updates) > 0 {
		if err := tx.Model(&task).Updates(updates).Error; err != nil {
			tx.Rollback()
			return models.Task{}, err
		}
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			tx.Rollback()
			return models.Task{}, err
		}
	}

	event, err := models.NewEvent(
		string(broker.TaskUpdated),
		"task",
		"update",
		task.UserID.String(),
		taskEventData(task),
	)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	invalidate(s.cache, cache.TasksKey(task.UserID.String()))
	return task, nil
}

func (s *TaskService) DeleteTask(db *database.Database, id string) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	if err := tx.Delete(&task).Error; err != nil {
		tx.Rollback()
		return err
	}

	event, err := models.NewEvent(
		string(broker.TaskDeleted),
		"task",
		"delete",
		task.UserID.String(),
		map[string]interface{}{
			"task_id": task.ID.String(),
			"user_id": task.UserID.String(),
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

	invalidate(s.cache, cache.TasksKey(task.UserID.String()))
	return nil
}

// GetTasksForDate returns the owner's tasks that land on date: scheduled for
// it, or unscheduled and created on it.
func (s *TaskService) GetTasksForDate(db *database.Database, ownerID uuid.UUID, date string) ([]models.Task, error) {
	if !models.ValidDate(date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}

	tasks, err := s.GetTasks(db, ownerID)
	if err != nil {
		return nil, err
	}

	result := []models.Task{}
	for _, task := range tasks {
		if task.Day() == date {
			result = append(result, task)
		}
	}
	return result, nil
}

func (s *TaskService) GetTaskStats(db *database.Database, ownerID uuid.UUID) (TaskStats, error) {
	var stats TaskStats
	if err := db.DB.Model(&models.Task{}).Where("user_id = ?", ownerID).Count(&stats.Total).Error; err != nil {
		return TaskStats{}, err
	}
	if err := db.DB.Model(&models.Task{}).Where("user_id = ? AND is_completed = ?", ownerID, true).Count(&stats.Completed).Error; err != nil {
		return TaskStats{}, err
	}
	stats.Pending = stats.Total - stats.Completed
	return stats, nil
}
