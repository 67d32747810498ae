package broker

const (
	TaskSubject = "dailyglow.tasks"
	MoodSubject = "dailyglow.moods"
	UserSubject = "dailyglow.users"
)

// AllSubjects lists every subject the application publishes on.
var AllSubjects = []string{TaskSubject, MoodSubject, UserSubject}

// SubjectForEntity maps an outbox entity name to its subject.
func SubjectForEntity(entity string) string {
	switch entity {
	case "task":
		return TaskSubject
	case "mood":
		return MoodSubject
	default:
		return UserSubject
	}
}
