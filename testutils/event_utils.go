package testutils

import (
	"database/sql/driver"
	"encoding/json"
	"testing"

	"github.com/random0602/DailyGlow/database"
	"github.com/random0602/DailyGlow/models"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

// MockEventRows creates mock SQL rows for events testing
func MockEventRows(events []models.Event) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "event", "version", "entity", "operation",
		"actor_id", "timestamp", "data", "status",
		"dispatched", "dispatched_at",
	})

	for _, event := range events {
		if event.Data == nil {
			event.Data = json.RawMessage(`{}`)
		}
		if event.Status == "" {
			event.Status = "pending"
		}

		var dispatchedAt interface{}
		if event.DispatchedAt != nil {
			dispatchedAt = *event.DispatchedAt
		}

		rows.AddRow(
			event.ID.String(),
			event.Event,
			event.Version,
			event.Entity,
			event.Operation,
			event.ActorID,
			event.Timestamp,
			[]byte(event.Data),
			event.Status,
			event.Dispatched,
			dispatchedAt,
		)
	}

	return rows
}

func NewResult(lastInsertID, rowsAffected int64) driver.Result {
	return sqlmock.NewResult(lastInsertID, rowsAffected)
}

// PendingEvents returns the undispatched outbox rows in insertion order.
func PendingEvents(t testing.TB, db *database.Database) []models.Event {
	t.Helper()

	var events []models.Event
	if err := db.DB.Where("dispatched = ?", false).Order("rowid").Find(&events).Error; err != nil {
		t.Fatalf("failed to load events: %v", err)
	}
	return events
}

// EventTypes lists the event names of events.
func EventTypes(events []models.Event) []string {
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.Event)
	}
	return types
}
