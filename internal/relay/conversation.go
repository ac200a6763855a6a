package relay

import "github.com/linguachat/server/internal/models"

// The app serves exactly one two-party conversation between two fixed
// identities. Receiver resolution and delete authorization both hang off
// this pair; a multi-conversation version would replace OtherOf with a
// membership lookup without touching the event handlers.
const (
	UserOne = "user_1"
	UserTwo = "user_2"
)

// OtherOf returns the opposite party of the two-user conversation.
func OtherOf(userID string) string {
	if userID == UserOne {
		return UserTwo
	}
	return UserOne
}

// ResolveReceiver returns the message's receiver, deriving it from the
// two-identity convention when the client didn't set one.
func ResolveReceiver(msg *models.ChatMessage) string {
	if msg.ReceiverID != "" {
		return msg.ReceiverID
	}
	return OtherOf(msg.User.ID)
}

// CanDelete reports whether userID may delete the message: only the
// original sender or the resolved receiver qualifies.
func CanDelete(msg *models.ChatMessage, userID string) bool {
	return userID == msg.User.ID || userID == ResolveReceiver(msg)
}
