package relay

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/linguachat/server/internal/models"
	"github.com/linguachat/server/internal/push"
	"github.com/linguachat/server/internal/store"
)

// Pusher sends one best-effort push notification. Failures never propagate
// to the operation that triggered the push.
type Pusher interface {
	SendPush(ctx context.Context, token string, n push.Notification) error
}

// Handler is the relay protocol core. It processes join, message, delete,
// reaction and token events, driving the store, the presence table and the
// push registry. Validation and authorization errors go back to the
// originating connection only; nothing here is fatal to the server.
type Handler struct {
	store    *store.Store
	registry *push.Registry
	pusher   Pusher
	hub      *Hub
	log      *zap.Logger

	now func() time.Time

	// syncPush makes the post-persist push attempt run inline instead of
	// in a detached goroutine. Tests only.
	syncPush bool
}

// NewHandler creates the protocol handler with its collaborators injected.
func NewHandler(st *store.Store, registry *push.Registry, pusher Pusher, hub *Hub, log *zap.Logger) *Handler {
	return &Handler{
		store:    st,
		registry: registry,
		pusher:   pusher,
		hub:      hub,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Dispatch routes one inbound event to its handler. Unknown types and
// malformed payloads are reported back to the sender as an error event.
func (h *Handler) Dispatch(c Conn, e Event) {
	switch e.Type {
	case EventJoin:
		var p JoinPayload
		if !h.decode(c, e.Payload, &p) {
			return
		}
		h.HandleJoin(c, p)
	case EventMessage:
		var msg models.ChatMessage
		if !h.decode(c, e.Payload, &msg) {
			return
		}
		h.HandleSend(c, msg)
	case EventDeleteMessage:
		var p DeletePayload
		if !h.decode(c, e.Payload, &p) {
			return
		}
		h.HandleDelete(c, p)
	case EventRegisterPushToken:
		var p RegisterTokenPayload
		if !h.decode(c, e.Payload, &p) {
			return
		}
		h.HandleRegisterToken(c, p)
	case EventMessageReaction:
		var p ReactionPayload
		if !h.decode(c, e.Payload, &p) {
			return
		}
		h.HandleReaction(c, p)
	default:
		c.Send(NewEvent(EventError, ErrorPayload{Message: "unknown event type", Details: e.Type}))
	}
}

func (h *Handler) decode(c Conn, raw json.RawMessage, v any) bool {
	if err := json.Unmarshal(raw, v); err != nil {
		c.Send(NewEvent(EventError, ErrorPayload{Message: "invalid payload", Details: err.Error()}))
		return false
	}
	return true
}

// HandleJoin registers presence and flushes the offline queue to the
// joining connection only. The batch is a subset read, not a mutation:
// messages stay pending until the client acknowledges them.
func (h *Handler) HandleJoin(c Conn, p JoinPayload) {
	if p.UserID == "" {
		c.Send(NewEvent(EventError, ErrorPayload{Message: "userId is required"}))
		return
	}

	h.hub.Join(p.UserID, c)

	pending, err := h.store.FindActiveForReceiver(p.UserID)
	if err != nil {
		h.log.Error("failed to load pending messages", zap.String("userId", p.UserID), zap.Error(err))
		c.Send(NewEvent(EventError, ErrorPayload{Message: "failed to load pending messages"}))
		return
	}
	if len(pending) > 0 {
		c.Send(NewEvent(EventPendingMessages, PendingPayload{Messages: pending}))
		h.log.Info("delivered pending messages",
			zap.String("userId", p.UserID), zap.Int("count", len(pending)))
	}
}

// HandleSend validates, dedups, persists and broadcasts one message, then
// fires a best-effort push notification at the receiver.
func (h *Handler) HandleSend(c Conn, msg models.ChatMessage) {
	if msg.ID == "" || msg.User.ID == "" {
		c.Send(NewEvent(EventError, ErrorPayload{Message: "message id and sender id are required"}))
		return
	}

	// Dedup by client-supplied id: a resend is acknowledged, never re-stored.
	existing, err := h.store.FindMessage(msg.ID)
	if err == nil {
		c.Send(NewEvent(EventMessageDelivered, DeliveredPayload{
			MessageID: existing.ID,
			Status:    StatusDuplicate,
			SavedAt:   &existing.CreatedAt,
		}))
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		h.storageError(c, "failed to check message", msg.ID, err)
		return
	}

	msg.ReceiverID = ResolveReceiver(&msg)
	if msg.Type == "" {
		msg.Type = models.TypeText
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = h.now()
	}
	msg.SeenBy = []string{msg.User.ID}
	msg.IsDeleted = false
	msg.DeletedAt = nil
	msg.DeletedBy = ""

	if err := h.store.InsertMessage(&msg); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// Raced duplicate between the existence check and the insert.
			c.Send(NewEvent(EventMessageDelivered, DeliveredPayload{
				MessageID: msg.ID,
				Status:    StatusDuplicate,
			}))
			return
		}
		h.storageError(c, "failed to save message", msg.ID, err)
		return
	}

	h.hub.Broadcast(NewEvent(EventMessage, msg))
	c.Send(NewEvent(EventMessageDelivered, DeliveredPayload{
		MessageID: msg.ID,
		Status:    StatusDelivered,
		SavedAt:   &msg.CreatedAt,
	}))

	// Push delivery is fire-and-forget: it starts after the persist and the
	// acknowledgment, and its failure is logged, never reported to the sender.
	if h.syncPush {
		h.notifyReceiver(msg)
	} else {
		go h.notifyReceiver(msg)
	}
}

func (h *Handler) notifyReceiver(msg models.ChatMessage) {
	token, ok := h.registry.Lookup(msg.ReceiverID)
	if !ok {
		return
	}

	title := msg.User.Name
	if title == "" {
		title = "New message"
	}
	err := h.pusher.SendPush(context.Background(), token, push.Notification{
		Title: title,
		Body:  msg.Preview(),
		Data:  map[string]any{"messageId": msg.ID},
	})
	if err != nil {
		h.log.Warn("push notification failed",
			zap.String("messageId", msg.ID),
			zap.String("receiverId", msg.ReceiverID),
			zap.Error(err))
		return
	}

	// Secondary persist; bookkeeping only, allowed to fail silently.
	if err := h.store.MarkPushSent(msg.ID, h.now()); err != nil {
		h.log.Debug("failed to record push delivery", zap.String("messageId", msg.ID), zap.Error(err))
	}
}

// HandleDelete soft-deletes a message after checking the requester is a
// conversation participant. The delete is applied speculatively and
// reverted if the authorization check fails, leaving the message exactly
// as it was.
func (h *Handler) HandleDelete(c Conn, p DeletePayload) {
	msg, err := h.store.FindMessage(p.MessageID)
	if errors.Is(err, store.ErrNotFound) {
		c.Send(NewEvent(EventDeleteError, DeleteErrorPayload{MessageID: p.MessageID, Error: "message not found"}))
		return
	}
	if err != nil {
		h.storageError(c, "failed to load message", p.MessageID, err)
		return
	}

	// Idempotent: deleting twice succeeds with the original metadata and
	// does not re-broadcast.
	if msg.IsDeleted {
		c.Send(NewEvent(EventDeleteSuccess, DeleteSuccessPayload{
			MessageID: msg.ID,
			DeletedAt: *msg.DeletedAt,
		}))
		return
	}

	deleted, err := h.store.SoftDelete(p.MessageID, p.UserID)
	if err != nil {
		h.storageError(c, "failed to delete message", p.MessageID, err)
		return
	}

	if !CanDelete(msg, p.UserID) {
		if err := h.store.RevertDelete(p.MessageID); err != nil {
			h.log.Error("failed to revert delete", zap.String("messageId", p.MessageID), zap.Error(err))
		}
		c.Send(NewEvent(EventDeleteError, DeleteErrorPayload{
			MessageID: p.MessageID,
			Error:     "not allowed to delete this message",
		}))
		return
	}

	h.hub.Broadcast(NewEvent(EventMessageDeleted, DeletedPayload{
		MessageID: deleted.ID,
		DeletedAt: *deleted.DeletedAt,
		DeletedBy: deleted.DeletedBy,
	}))
	c.Send(NewEvent(EventDeleteSuccess, DeleteSuccessPayload{
		MessageID: deleted.ID,
		DeletedAt: *deleted.DeletedAt,
	}))
	h.log.Info("message deleted", zap.String("messageId", deleted.ID), zap.String("deletedBy", p.UserID))
}

// HandleRegisterToken delegates to the push registry and reports the
// outcome to the requesting connection.
func (h *Handler) HandleRegisterToken(c Conn, p RegisterTokenPayload) {
	err := h.registry.Register(p.UserID, p.Token)
	if err != nil {
		if errors.Is(err, push.ErrInvalidToken) {
			c.Send(NewEvent(EventPushTokenError, TokenErrorPayload{Error: "invalid push token format"}))
			return
		}
		h.log.Error("failed to register push token", zap.String("userId", p.UserID), zap.Error(err))
		c.Send(NewEvent(EventPushTokenError, TokenErrorPayload{Error: "failed to register push token"}))
		return
	}
	c.Send(NewEvent(EventPushTokenRegistered, TokenRegisteredPayload{Success: true}))
}

// HandleReaction replaces the user's reaction on a message (or clears it
// when the emoji is empty) and broadcasts the updated message.
func (h *Handler) HandleReaction(c Conn, p ReactionPayload) {
	msg, err := h.store.FindMessage(p.MessageID)
	if errors.Is(err, store.ErrNotFound) {
		c.Send(NewEvent(EventError, ErrorPayload{Message: "message not found", Details: p.MessageID}))
		return
	}
	if err != nil {
		h.storageError(c, "failed to load message", p.MessageID, err)
		return
	}

	msg.SetReaction(p.UserID, p.Emoji)
	now := h.now()
	msg.UpdatedAt = &now

	if err := h.store.UpdateMessage(msg); err != nil {
		h.storageError(c, "failed to save reaction", p.MessageID, err)
		return
	}
	h.hub.Broadcast(NewEvent(EventMessage, msg))
}

func (h *Handler) storageError(c Conn, what, messageID string, err error) {
	h.log.Error(what, zap.String("messageId", messageID), zap.Error(err))
	c.Send(NewEvent(EventError, ErrorPayload{Message: what}))
}
