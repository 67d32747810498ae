package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the calendar day format used by scheduledDate.
const DateLayout = "2006-01-02"

type Task struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Title         string    `gorm:"not null" json:"title"`
	IsCompleted   bool      `gorm:"not null;default:false" json:"isCompleted"`
	ScheduledDate *string   `gorm:"size:10;index" json:"scheduledDate"`
	CreatedAt     time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" json:"-"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Day returns the calendar day the task belongs to: its scheduled date when
// set, otherwise the day it was created.
func (t Task) Day() string {
	if t.ScheduledDate != nil && *t.ScheduledDate != "" {
		return *t.ScheduledDate
	}
	return t.CreatedAt.UTC().Format(DateLayout)
}

func (t *Task) FromJSON(data []byte) error {
	return json.Unmarshal(data, t)
}

func (t *Task) ToJSON() ([]byte, error) {
	return json.Marshal(t)
}

// ValidDate reports whether s is a real calendar day in YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
