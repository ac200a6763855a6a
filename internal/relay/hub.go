package relay

import (
	"sync"

	"go.uber.org/zap"
)

// Hub maintains the set of active connections and fans events out to them.
// Connections register on upgrade (before they have an identity) and gain
// a presence entry once they join.
type Hub struct {
	mu       sync.RWMutex
	clients  map[Conn]struct{}
	presence *Presence
	log      *zap.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:  make(map[Conn]struct{}),
		presence: NewPresence(),
		log:      log,
	}
}

// Add registers a freshly opened connection.
func (h *Hub) Add(c Conn) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("connection added", zap.Int("total", total))
}

// Remove drops a connection and its presence entry, if any.
func (h *Hub) Remove(c Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	total := len(h.clients)
	h.mu.Unlock()

	if userID, ok := h.presence.Drop(c); ok {
		h.log.Info("user disconnected", zap.String("userId", userID), zap.Int("connections", total))
	}
}

// Join binds an identity to a connection. Re-joining simply overwrites
// the presence entry.
func (h *Hub) Join(userID string, c Conn) {
	h.presence.Set(userID, c)
	h.log.Info("user joined", zap.String("userId", userID))
}

// Broadcast fans an event out to every connection in scope.
func (h *Hub) Broadcast(e Event) {
	for _, c := range h.broadcastScope(e) {
		c.Send(e)
	}
}

// broadcastScope selects the connections an event goes to. Today that is
// every connection, identified or not; room-scoped delivery would change
// only this method.
func (h *Hub) broadcastScope(Event) []Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conns := make([]Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	return conns
}

// SendTo delivers an event to a single identified user, if connected.
func (h *Hub) SendTo(userID string, e Event) bool {
	c, ok := h.presence.Get(userID)
	if !ok {
		return false
	}
	c.Send(e)
	return true
}

// Connections returns the number of open connections, for diagnostics.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OnlineUsers returns the number of identified users, for diagnostics.
func (h *Hub) OnlineUsers() int {
	return h.presence.Count()
}
