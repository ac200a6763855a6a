package models

import "time"

// Message types. The client defaults to "text" when it doesn't say otherwise.
const (
	TypeText     = "text"
	TypeImage    = "image"
	TypeFile     = "file"
	TypeLocation = "location"
	TypeSystem   = "system"
)

// MessageUser identifies the sender of a chat message.
// The "_id" field name matches what the mobile client sends.
type MessageUser struct {
	ID     string `json:"_id"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Location is an optional geo payload for location-type messages.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LinkPreview carries unfurled metadata for a link shared in chat.
type LinkPreview struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// ReplyContext holds information about the message being replied to.
type ReplyContext struct {
	MessageID string `json:"messageId,omitempty"`
	Name      string `json:"name,omitempty"`
	Text      string `json:"text,omitempty"`
}

// Reaction is a single (user, emoji) pair attached to a message.
// A user has at most one reaction per message; the latest one wins.
type Reaction struct {
	UserID string `json:"userId"`
	Emoji  string `json:"emoji"`
}

// ChatMessage is a single chat message document.
// The ID is supplied by the client and is the dedup key: a second send
// with the same ID is acknowledged as a duplicate, never stored twice.
type ChatMessage struct {
	ID         string      `json:"id"`
	User       MessageUser `json:"user"`
	ReceiverID string      `json:"receiverId,omitempty"`

	Text        string        `json:"text,omitempty"`
	Image       string        `json:"image,omitempty"`
	File        string        `json:"file,omitempty"`
	Location    *Location     `json:"location,omitempty"`
	ReplyTo     *ReplyContext `json:"replyTo,omitempty"`
	LinkPreview *LinkPreview  `json:"linkPreview,omitempty"`
	Type        string        `json:"type,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`

	Reactions []Reaction `json:"reactions,omitempty"`
	SeenBy    []string   `json:"seenBy"`

	IsDeleted bool       `json:"isDeleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	DeletedBy string     `json:"deletedBy,omitempty"`

	PushNotificationSent bool       `json:"pushNotificationSent,omitempty"`
	PushSentAt           *time.Time `json:"pushSentAt,omitempty"`
}

// SeenByUser reports whether userID is already in the seenBy set.
func (m *ChatMessage) SeenByUser(userID string) bool {
	for _, id := range m.SeenBy {
		if id == userID {
			return true
		}
	}
	return false
}

// SetReaction replaces any prior reaction by userID. An empty emoji
// clears the user's reaction instead.
func (m *ChatMessage) SetReaction(userID, emoji string) {
	kept := m.Reactions[:0]
	for _, r := range m.Reactions {
		if r.UserID != userID {
			kept = append(kept, r)
		}
	}
	m.Reactions = kept
	if emoji != "" {
		m.Reactions = append(m.Reactions, Reaction{UserID: userID, Emoji: emoji})
	}
}

// Preview returns a short human-readable summary of the message content,
// used as the push notification body.
func (m *ChatMessage) Preview() string {
	switch {
	case m.Text != "":
		return m.Text
	case m.Image != "":
		return "Sent a photo"
	case m.File != "":
		return "Sent a file"
	case m.Location != nil:
		return "Shared a location"
	default:
		return "New message"
	}
}

// PushRegistration maps a user to their Expo push token.
// Upserted on every register event, never deleted by the relay.
type PushRegistration struct {
	UserID   string    `json:"userId"`
	Token    string    `json:"expoPushToken"`
	LastSeen time.Time `json:"lastSeen"`
}
