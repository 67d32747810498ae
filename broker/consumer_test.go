package broker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Message) Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for message")
	}
	return Message{}
}

func TestLocalBroker_RoutesBySubject(t *testing.T) {
	b := NewLocalBroker()
	defer b.Close()

	tasks, err := b.Subscribe([]string{TaskSubject})
	require.NoError(t, err)
	all, err := b.Subscribe(AllSubjects)
	require.NoError(t, err)

	require.NoError(t, b.Publish(MoodSubject, []byte(`{"type":"mood.created"}`)))
	require.NoError(t, b.Publish(TaskSubject, []byte(`{"type":"task.created"}`)))

	msg := receive(t, tasks)
	assert.Equal(t, TaskSubject, msg.Subject)
	assert.JSONEq(t, `{"type":"task.created"}`, string(msg.Data))

	assert.Equal(t, MoodSubject, receive(t, all).Subject)
	assert.Equal(t, TaskSubject, receive(t, all).Subject)
}

func TestLocalBroker_Close(t *testing.T) {
	b := NewLocalBroker()
	ch, err := b.Subscribe([]string{UserSubject})
	require.NoError(t, err)
	assert.NoError(t, b.Health())

	b.Close()
	b.Close()

	_, open := <-ch
	assert.False(t, open)
	assert.ErrorIs(t, b.Publish(UserSubject, nil), ErrNotConnected)
	assert.ErrorIs(t, b.Health(), ErrNotConnected)

	_, err = b.Subscribe([]string{UserSubject})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestNewConsumer_Unreachable(t *testing.T) {
	_, err := NewConsumer("nats://127.0.0.1:1")
	assert.Error(t, err)
}
