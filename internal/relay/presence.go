package relay

import "sync"

// Conn is one client connection as the relay sees it. The websocket
// Client implements it; tests substitute an in-memory double.
type Conn interface {
	Send(e Event)
}

// Presence maps identified users to their active connection. It is
// process-local and ephemeral: rebuilt on every connect, gone on restart.
type Presence struct {
	mu    sync.RWMutex
	conns map[string]Conn
	users map[Conn]string
}

// NewPresence creates an empty presence table.
func NewPresence() *Presence {
	return &Presence{
		conns: make(map[string]Conn),
		users: make(map[Conn]string),
	}
}

// Set binds userID to c, overwriting any prior connection for that user.
// Last connection wins: only the newest session receives delivery.
func (p *Presence) Set(userID string, c Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if prev, ok := p.conns[userID]; ok && prev != c {
		delete(p.users, prev)
	}
	p.conns[userID] = c
	p.users[c] = userID
}

// Drop removes the presence entry for c, if any, and returns the userID
// it was bound to. A stale connection that was already superseded by a
// newer one for the same user does not evict the newer entry.
func (p *Presence) Drop(c Conn) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	userID, ok := p.users[c]
	if !ok {
		return "", false
	}
	delete(p.users, c)
	if p.conns[userID] == c {
		delete(p.conns, userID)
	}
	return userID, true
}

// Get returns the active connection for userID.
func (p *Presence) Get(userID string) (Conn, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.conns[userID]
	return c, ok
}

// Count returns the number of identified users currently connected.
func (p *Presence) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.conns)
}
