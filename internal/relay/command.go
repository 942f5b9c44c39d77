package relay

// CommandKind describes what the connection wants to do.
type CommandKind int

const (
	// CommandJoin attaches a participant identity to the connection.
	CommandJoin CommandKind = iota
	// CommandStartCall opens a new call session (admin only).
	CommandStartCall
	// CommandJoinCall adds the connection to an existing call.
	CommandJoinCall
	// CommandLeaveCall removes the connection from a call.
	CommandLeaveCall
	// CommandEndCall terminates a call (initiator only).
	CommandEndCall
	// CommandSendMessage broadcasts a chat message to everyone.
	CommandSendMessage
	// CommandSignal relays an opaque signaling blob to one connection.
	CommandSignal
	// CommandMuteAll tells all call members to mute (admin only).
	CommandMuteAll
)

// SignalKind distinguishes the relayed signaling message types.
// The relay never inspects the payload itself.
type SignalKind string

const (
	SignalOffer     SignalKind = "offer"
	SignalAnswer    SignalKind = "answer"
	SignalCandidate SignalKind = "ice_candidate"
)

// Signal is a point-to-point signaling relay request. Target names the
// receiving connection explicitly; the relay does not infer it.
type Signal struct {
	Kind    SignalKind
	Target  string
	Payload []byte
}

// Command represents an action requested by a connection. Only the
// fields relevant to Kind are set; the transport mapper validates that
// before the command reaches the hub.
type Command struct {
	Kind     CommandKind
	Identity Identity // CommandJoin
	CallID   string   // call commands; optional tag on CommandSendMessage
	Text     string   // CommandSendMessage
	Signal   *Signal  // CommandSignal
}
