package broker

type EventType string

const (
	// Standardized event types in format: <resource>.<action>
	TaskCreated EventType = "task.created"
	TaskUpdated EventType = "task.updated"
	TaskDeleted EventType = "task.deleted"

	MoodCreated EventType = "mood.created"
	MoodUpdated EventType = "mood.updated"
	MoodDeleted EventType = "mood.deleted"

	UserCreated EventType = "user.created"
	UserDeleted EventType = "user.deleted"
)
