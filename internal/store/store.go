package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Role values persisted for users.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User represents a registered account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Message is a persisted community chat message. The relay broadcasts
// messages before they reach the store; persistence is history only.
type Message struct {
	ID           int64
	UID          string // relay-assigned message id
	SenderUserID int64
	SenderName   string
	Text         string
	IsAdmin      bool
	CallID       string
	CreatedAt    time.Time
}

// UserStore provides user persistence operations.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash, role string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
}

// MessageStore provides chat history persistence.
type MessageStore interface {
	SaveMessage(ctx context.Context, m *Message) error
	RecentMessages(ctx context.Context, limit int) ([]*Message, error)
}

// Store is the full persistence surface the server needs.
type Store interface {
	UserStore
	MessageStore
	Close() error
}
