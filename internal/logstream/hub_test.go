package logstream

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	first := hub.Subscribe()
	second := hub.Subscribe()
	require.Equal(t, 2, hub.Len())

	hub.Broadcast([]byte(`{"level":"info"}`))

	assert.Equal(t, `{"level":"info"}`, string(<-first.Records()))
	assert.Equal(t, `{"level":"info"}`, string(<-second.Records()))
}

func TestHubUnsubscribeClosesStream(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()

	hub.Unsubscribe(sub)
	assert.Equal(t, 0, hub.Len())

	_, open := <-sub.Records()
	assert.False(t, open)

	// A second unsubscribe for the same viewer must not panic.
	hub.Unsubscribe(sub)
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	hub := NewHub()
	slow := hub.Subscribe()
	fast := hub.Subscribe()

	total := subscriberBuffer + 10
	for i := 0; i < total; i++ {
		hub.Broadcast([]byte(fmt.Sprintf("record-%d", i)))
		// Keep the fast viewer drained so it sees everything.
		<-fast.Records()
	}

	assert.Equal(t, subscriberBuffer, len(slow.Records()))
	assert.Equal(t, "record-0", string(<-slow.Records()))
}

func TestHubBroadcastWithoutSubscribers(t *testing.T) {
	hub := NewHub()
	assert.NotPanics(t, func() {
		hub.Broadcast([]byte("nobody listening"))
	})
}
