package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Event        string          `gorm:"not null" json:"event"`
	Version      int             `gorm:"not null" json:"version"`
	Entity       string          `gorm:"not null" json:"entity"`
	Operation    string          `gorm:"not null" json:"operation"`
	ActorID      string          `gorm:"not null;index" json:"actor_id"`
	Timestamp    time.Time       `gorm:"not null" json:"timestamp"`
	Data         json.RawMessage `gorm:"type:jsonb;not null" json:"data"`
	Status       string          `gorm:"not null;default:'pending'" json:"status"`
	Dispatched   bool            `gorm:"not null;default:false;index" json:"dispatched"`
	DispatchedAt *time.Time      `json:"dispatched_at,omitempty"`
}

func NewEvent(event, entity, operation, actorID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Event:     event,
		Version:   1,
		Entity:    entity,
		Operation: operation,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Data:      dataBytes,
		Status:    "pending",
	}, nil
}

// EventPayload is the body published for a dispatched outbox event.
type EventPayload struct {
	EventID   string          `json:"event_id"`
	Timestamp time.Time       `json:"timestamp"`
	Type      string          `json:"type"`
	Entity    string          `json:"entity"`
	UserID    string          `json:"user_id"`
	Data      json.RawMessage `json:"data"`
}

// EventEnvelope is the wire format on the broker.
type EventEnvelope struct {
	Type    string       `json:"type"`
	Payload EventPayload `json:"payload"`
}

// Envelope wraps the event for publishing. The actor is always the owner
// of the changed resource.
func (e Event) Envelope() EventEnvelope {
	data := e.Data
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}
	return EventEnvelope{
		Type: e.Event,
		Payload: EventPayload{
			EventID:   e.ID.String(),
			Timestamp: e.Timestamp,
			Type:      e.Event,
			Entity:    e.Entity,
			UserID:    e.ActorID,
			Data:      data,
		},
	}
}
