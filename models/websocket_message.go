package models

import (
	"time"

	"github.com/google/uuid"
)

// WebSocketMessageType represents message type constants
type WebSocketMessageType string

const (
	EventMessage     WebSocketMessageType = "event"
	ConnectedMessage WebSocketMessageType = "connected"
	ErrorMessage     WebSocketMessageType = "error"
)

// StandardMessage is the envelope pushed to websocket clients.
type StandardMessage struct {
	ID           string                 `json:"id"`
	Type         WebSocketMessageType   `json:"type"`
	Event        string                 `json:"event,omitempty"`
	Timestamp    time.Time              `json:"timestamp"`
	Payload      map[string]interface{} `json:"payload"`
	ResourceID   string                 `json:"resource_id,omitempty"`
	ResourceType string                 `json:"resource_type,omitempty"`
}

// NewStandardMessage creates a new standard message
func NewStandardMessage(msgType WebSocketMessageType, event string, payload map[string]interface{}) *StandardMessage {
	return &StandardMessage{
		ID:        uuid.New().String(),
		Type:      msgType,
		Event:     event,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// WithResource adds resource information to the message
func (m *StandardMessage) WithResource(resourceType string, resourceID string) *StandardMessage {
	m.ResourceType = resourceType
	m.ResourceID = resourceID
	return m
}
