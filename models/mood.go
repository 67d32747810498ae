package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Mood is a journal entry pairing an emoji with an optional note.
type Mood struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Emoji     string    `gorm:"not null" json:"emoji"`
	Note      *string   `json:"note"`
	Date      time.Time `gorm:"not null;index" json:"date"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`
}

func (m *Mood) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Date.IsZero() {
		m.Date = time.Now().UTC()
	}
	return nil
}

func (m *Mood) FromJSON(data []byte) error {
	return json.Unmarshal(data, m)
}

func (m *Mood) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
