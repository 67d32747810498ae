package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEvent(t *testing.T) {
	testCases := []struct {
		name      string
		event     string
		entity    string
		operation string
		actorID   string
		data      interface{}
		wantErr   bool
	}{
		{
			name:      "Valid event",
			event:     "task.created",
			entity:    "task",
			operation: "create",
			actorID:   "user-123",
			data:      map[string]interface{}{"title": "Buy milk"},
			wantErr:   false,
		},
		{
			name:    "Invalid JSON data",
			event:   "mood.created",
			entity:  "mood",
			data:    make(chan int),
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			event, err := NewEvent(tc.event, tc.entity, tc.operation, tc.actorID, tc.data)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, event)
			assert.Equal(t, tc.event, event.Event)
			assert.Equal(t, tc.entity, event.Entity)
			assert.Equal(t, tc.operation, event.Operation)
			assert.Equal(t, tc.actorID, event.ActorID)
			assert.Equal(t, 1, event.Version)
			assert.Equal(t, "pending", event.Status)
			assert.False(t, event.Dispatched)
			assert.Nil(t, event.DispatchedAt)

			var data map[string]interface{}
			assert.NoError(t, json.Unmarshal(event.Data, &data))
			assert.Equal(t, "Buy milk", data["title"])
		})
	}
}

func TestEventEnvelope(t *testing.T) {
	event, err := NewEvent("task.deleted", "task", "delete", "user-123", map[string]string{"task_id": "t1"})
	assert.NoError(t, err)

	raw, err := json.Marshal(event.Envelope())
	assert.NoError(t, err)

	var decoded map[string]interface{}
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "task.deleted", decoded["type"])

	payload := decoded["payload"].(map[string]interface{})
	assert.Equal(t, event.ID.String(), payload["event_id"])
	assert.Equal(t, "task", payload["entity"])
	assert.Equal(t, "user-123", payload["user_id"])
	assert.Equal(t, map[string]interface{}{"task_id": "t1"}, payload["data"])
}

func TestEventEnvelope_EmptyData(t *testing.T) {
	env := Event{Event: "user.created"}.Envelope()
	assert.JSONEq(t, `{}`, string(env.Payload.Data))
}
