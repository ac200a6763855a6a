package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/linguachat/server/internal/relay"
	"github.com/linguachat/server/internal/store"
)

// MessageHandler is the polling/REST fallback over the message collection.
// It mirrors the relay's read and delete semantics without broadcasting.
type MessageHandler struct {
	store *store.Store
	log   *zap.Logger
}

// NewMessageHandler creates a new MessageHandler instance.
func NewMessageHandler(st *store.Store, log *zap.Logger) *MessageHandler {
	return &MessageHandler{store: st, log: log}
}

// List handles GET /api/messages
// Query params: limit (default 50), offset, order (asc|desc, default desc).
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	order := r.URL.Query().Get("order")
	if order != store.OrderAsc {
		order = store.OrderDesc
	}

	messages, err := h.store.ListActive(limit, offset, order)
	if err != nil {
		h.log.Error("failed to list messages", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// Get handles GET /api/messages/{id}
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	msg, err := h.store.FindMessage(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "message not found")
		return
	}
	if err != nil {
		h.log.Error("failed to get message", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get message")
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// Pending handles GET /api/messages/pending/{userId}
// Returns the user's offline queue, oldest first.
func (h *MessageHandler) Pending(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	messages, err := h.store.FindActiveForReceiver(userID)
	if err != nil {
		h.log.Error("failed to load pending messages", zap.String("userId", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load pending messages")
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// DeleteMessageRequest identifies the requester of a REST delete.
type DeleteMessageRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// Delete handles DELETE /api/messages/{id}
// Same authorization as the relay: only a conversation participant may
// delete, and deleting twice is an idempotent success.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req DeleteMessageRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.store.FindMessage(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "message not found")
		return
	}
	if err != nil {
		h.log.Error("failed to load message", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load message")
		return
	}

	if !relay.CanDelete(msg, req.UserID) {
		writeError(w, http.StatusForbidden, "not allowed to delete this message")
		return
	}

	deleted, err := h.store.SoftDelete(id, req.UserID)
	if err != nil {
		h.log.Error("failed to delete message", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete message")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"messageId": deleted.ID,
		"deletedAt": deleted.DeletedAt,
		"deletedBy": deleted.DeletedBy,
	})
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}
