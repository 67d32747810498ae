package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectForEntity(t *testing.T) {
	assert.Equal(t, TaskSubject, SubjectForEntity("task"))
	assert.Equal(t, MoodSubject, SubjectForEntity("mood"))
	assert.Equal(t, UserSubject, SubjectForEntity("user"))
	assert.ElementsMatch(t, []string{"dailyglow.tasks", "dailyglow.moods", "dailyglow.users"}, AllSubjects)
}

func TestProducer_NotConnected(t *testing.T) {
	var p *Producer
	assert.ErrorIs(t, p.Publish(TaskSubject, []byte("{}")), ErrNotConnected)
	assert.ErrorIs(t, p.Health(), ErrNotConnected)
	assert.NotPanics(t, func() { p.Close() })
}

func TestNewProducer_Unreachable(t *testing.T) {
	_, err := NewProducer("nats://127.0.0.1:1")
	assert.Error(t, err)
}
