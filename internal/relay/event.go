package relay

// EventKind is a notification the relay emits to connections.
type EventKind int

const (
	// EventUserOnline announces a newly identified user to everyone else.
	EventUserOnline EventKind = iota
	// EventCallStarted announces a new call to all connections.
	EventCallStarted
	// EventUserJoinedCall announces an updated member list to call members.
	EventUserJoinedCall
	// EventUserLeftCall announces a departure to remaining call members.
	EventUserLeftCall
	// EventCallEnded announces call termination to all connections.
	EventCallEnded
	// EventNewMessage delivers a chat message to all connections.
	EventNewMessage
	// EventSignal delivers a relayed signaling blob to one connection.
	EventSignal
	// EventAllMuted tells call members the admin muted the call.
	EventAllMuted
	// EventError is a connection-local policy or protocol error.
	EventError
)

// Event is sent to connections to describe what happened.
type Event struct {
	Kind    EventKind
	User    Identity // subject of user_online / joined / left events
	Call    *CallEvent
	Message *ChatMessage
	Signal  *SignalEvent
	Error   *RelayError
}

// CallEvent holds data specific to call lifecycle events.
type CallEvent struct {
	ID           string
	AdminName    string
	Participants int
	Note         string // human-readable blurb for started/ended
}

// SignalEvent is a relayed signaling message. Payload is passed through
// verbatim; the relay attaches only the sender's connection id and name.
type SignalEvent struct {
	Kind       SignalKind
	FromConn   string
	SenderName string
	Payload    []byte
}
