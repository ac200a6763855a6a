package handlers

import (
	"net/http"
	"time"

	"github.com/linguachat/server/internal/relay"
	"github.com/linguachat/server/internal/store"
)

// HealthResponse represents the health check response structure.
type HealthResponse struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	Connections int    `json:"connections"`
	OnlineUsers int    `json:"onlineUsers"`
	Messages    int    `json:"messages"`
}

// HealthHandler reports server liveness plus a few relay diagnostics.
type HealthHandler struct {
	store   *store.Store
	hub     *relay.Hub
	started time.Time
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(st *store.Store, hub *relay.Hub) *HealthHandler {
	return &HealthHandler{store: st, hub: hub, started: time.Now()}
}

// Check handles GET /health
// Used by monitoring and load balancer probes.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.CountMessages()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded"})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Uptime:      time.Since(h.started).Round(time.Second).String(),
		Connections: h.hub.Connections(),
		OnlineUsers: h.hub.OnlineUsers(),
		Messages:    count,
	})
}
