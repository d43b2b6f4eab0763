package sse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesTopicSubscribersOnly(t *testing.T) {
	hub := NewHub()

	a, cancelA := hub.Subscribe("event-a")
	defer cancelA()
	b, cancelB := hub.Subscribe("event-b")
	defer cancelB()

	hub.Publish(Event{Topic: "event-a", Name: "attendance.checked_in", Data: "x"})

	select {
	case got := <-a:
		assert.Equal(t, "attendance.checked_in", got.Name)
	case <-time.After(time.Second):
		t.Fatal("subscriber of event-a did not receive the event")
	}

	select {
	case got := <-b:
		t.Fatalf("subscriber of event-b received %v", got)
	default:
	}
}

func TestHub_CleanupIsIdempotent(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe("event-a")
	require.Equal(t, 1, hub.SubscriberCount("event-a"))

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount("event-a"))
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()

	_, cancel := hub.Subscribe("event-a")
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < hub.bufferSize*3; i++ {
			hub.Publish(Event{Topic: "event-a", Name: "tick"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
