package relay

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	events []Event
}

func (c *fakeConn) Send(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *fakeConn) ofType(eventType string) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Event
	for _, e := range c.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func TestPresenceLastConnectionWins(t *testing.T) {
	p := NewPresence()
	first := &fakeConn{}
	second := &fakeConn{}

	p.Set("user_1", first)
	p.Set("user_1", second)

	got, ok := p.Get("user_1")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, p.Count())
}

func TestPresenceDropStaleConnKeepsNewer(t *testing.T) {
	p := NewPresence()
	first := &fakeConn{}
	second := &fakeConn{}

	p.Set("user_1", first)
	p.Set("user_1", second)

	// The superseded connection disconnecting must not evict the new one.
	_, ok := p.Drop(first)
	assert.False(t, ok)

	got, ok := p.Get("user_1")
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestPresenceDrop(t *testing.T) {
	p := NewPresence()
	c := &fakeConn{}
	p.Set("user_2", c)

	userID, ok := p.Drop(c)
	require.True(t, ok)
	assert.Equal(t, "user_2", userID)
	assert.Equal(t, 0, p.Count())

	_, ok = p.Drop(c)
	assert.False(t, ok)
}

func TestOtherOf(t *testing.T) {
	assert.Equal(t, UserTwo, OtherOf(UserOne))
	assert.Equal(t, UserOne, OtherOf(UserTwo))
	assert.Equal(t, UserOne, OtherOf("someone_else"))
}
