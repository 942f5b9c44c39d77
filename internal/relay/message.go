package relay

import "time"

// ChatMessage is the domain model for a community chat message.
// It is broadcast immediately and handed to the history sink; the relay
// keeps no copy.
type ChatMessage struct {
	ID           string
	SenderUserID int64
	SenderName   string
	Text         string
	IsAdmin      bool
	SentAt       time.Time
	CallID       string // empty when sent outside a call
}
