package relay

import (
	"encoding/json"
	"time"

	"github.com/linguachat/server/internal/models"
)

// Inbound event types.
const (
	EventJoin              = "join"
	EventMessage           = "message"
	EventDeleteMessage     = "delete-message"
	EventRegisterPushToken = "register-push-token"
	EventMessageReaction   = "message-reaction"
)

// Outbound event types.
const (
	EventPendingMessages     = "pending-messages"
	EventMessageDelivered    = "message-delivered"
	EventMessageDeleted      = "message-deleted"
	EventDeleteSuccess       = "delete-success"
	EventDeleteError         = "delete-error"
	EventPushTokenRegistered = "push-token-registered"
	EventPushTokenError      = "push-token-error"
	EventError               = "error"
)

// Delivery statuses reported in the message-delivered acknowledgment.
const (
	StatusDelivered = "delivered"
	StatusDuplicate = "duplicate"
)

// Event is the wire envelope for everything that crosses the websocket,
// in both directions.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEvent builds an outbound envelope. Payloads are plain structs we
// control, so a marshal failure is a programming error and panics.
func NewEvent(eventType string, payload any) Event {
	data, err := json.Marshal(payload)
	if err != nil {
		panic("relay: unmarshalable event payload: " + err.Error())
	}
	return Event{Type: eventType, Payload: data}
}

// JoinPayload identifies the user behind a freshly opened connection.
type JoinPayload struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
}

// DeletePayload asks for a soft delete of one message.
type DeletePayload struct {
	MessageID string `json:"messageId"`
	UserID    string `json:"userId"`
}

// RegisterTokenPayload carries an Expo push token registration.
type RegisterTokenPayload struct {
	UserID string `json:"userId"`
	Token  string `json:"expoPushToken"`
}

// ReactionPayload sets or clears a user's reaction on a message.
// An empty emoji clears it.
type ReactionPayload struct {
	MessageID string `json:"messageId"`
	UserID    string `json:"userId"`
	Emoji     string `json:"emoji"`
}

// PendingPayload is the batch of queued messages delivered on join.
type PendingPayload struct {
	Messages []models.ChatMessage `json:"messages"`
}

// DeliveredPayload acknowledges a send back to the sender only.
type DeliveredPayload struct {
	MessageID string     `json:"messageId"`
	Status    string     `json:"status"`
	SavedAt   *time.Time `json:"savedAt,omitempty"`
}

// DeletedPayload is broadcast after a successful soft delete.
type DeletedPayload struct {
	MessageID string    `json:"messageId"`
	DeletedAt time.Time `json:"deletedAt"`
	DeletedBy string    `json:"deletedBy"`
}

// DeleteSuccessPayload is the requester-only reply to a delete.
type DeleteSuccessPayload struct {
	MessageID string    `json:"messageId"`
	DeletedAt time.Time `json:"deletedAt"`
}

// DeleteErrorPayload is the requester-only delete failure reply.
type DeleteErrorPayload struct {
	MessageID string `json:"messageId"`
	Error     string `json:"error"`
}

// TokenRegisteredPayload confirms a push token registration.
type TokenRegisteredPayload struct {
	Success bool `json:"success"`
}

// TokenErrorPayload reports a failed push token registration.
type TokenErrorPayload struct {
	Error string `json:"error"`
}

// ErrorPayload is the generic typed error event, sent only to the
// originating connection.
type ErrorPayload struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
