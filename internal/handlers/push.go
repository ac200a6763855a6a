package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/linguachat/server/internal/push"
)

// PushHandler is the REST mirror of the relay's register-push-token event.
type PushHandler struct {
	registry *push.Registry
	log      *zap.Logger
}

// NewPushHandler creates a new PushHandler instance.
func NewPushHandler(registry *push.Registry, log *zap.Logger) *PushHandler {
	return &PushHandler{registry: registry, log: log}
}

// RegisterTokenRequest is the request body for registering a push token.
type RegisterTokenRequest struct {
	UserID string `json:"userId" validate:"required"`
	Token  string `json:"expoPushToken" validate:"required"`
}

// Register handles POST /api/push/register
func (h *PushHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterTokenRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.registry.Register(req.UserID, req.Token)
	if errors.Is(err, push.ErrInvalidToken) {
		writeError(w, http.StatusUnprocessableEntity, "invalid push token format")
		return
	}
	if err != nil {
		h.log.Error("failed to register push token", zap.String("userId", req.UserID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to register push token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
