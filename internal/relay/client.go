package relay

// Role classifies a participant for policy checks.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Identity is the (userId, displayName, role) tuple a connection carries.
// It is attached once per connection and immutable afterwards, except that
// a repeated join command overwrites it wholesale.
type Identity struct {
	UserID int64
	Name   string
	Role   Role
}

// IsAdmin reports whether the identity may start and end calls.
func (id Identity) IsAdmin() bool {
	return id.Role == RoleAdmin
}

// Client is one live transport connection as seen by the relay.
// The transport layer writes commands and reads events; the hub owns
// everything else.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event

	// done is closed by the hub when the client is unregistered so the
	// command forwarder can stop.
	done chan struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 8),
		done:     make(chan struct{}),
	}
}
