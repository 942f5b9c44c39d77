package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeJoin         = "join"
	InboundTypeStartCall    = "start_call"
	InboundTypeJoinCall     = "join_call"
	InboundTypeLeaveCall    = "leave_call"
	InboundTypeEndCall      = "end_call"
	InboundTypeMsg          = "msg"
	InboundTypeOffer        = "webrtc_offer"
	InboundTypeAnswer       = "webrtc_answer"
	InboundTypeICECandidate = "webrtc_ice_candidate"
	InboundTypeMuteAll      = "mute_all"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"
)

// JoinData announces the participant behind this connection. The role a
// client asserts here is advisory only; the server trusts the role from
// the verified token instead.
type JoinData struct {
	UserID   int64  `json:"user_id,omitempty"`
	UserName string `json:"user_name"`
	Role     string `json:"role,omitempty"`
}

// StartCallData opens a new community call. The timestamp is advisory;
// the server derives the call id itself.
type StartCallData struct {
	Timestamp int64 `json:"timestamp,omitempty"`
}

// CallData targets an existing call by id (join/leave/end/mute).
type CallData struct {
	CallID string `json:"call_id"`
}

// MsgData is a chat message from the client.
type MsgData struct {
	Text   string `json:"text"`
	CallID string `json:"call_id,omitempty"`
}

// SignalData carries an opaque signaling payload to one connection.
// The payload is relayed verbatim and never parsed by the server.
type SignalData struct {
	Target  string          `json:"target"`
	Payload json.RawMessage `json:"payload"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Outbound event names.
const (
	EventNameUserOnline     = "user_online"
	EventNameCallStarted    = "call_started"
	EventNameUserJoinedCall = "user_joined_call"
	EventNameUserLeftCall   = "user_left_call"
	EventNameCallEnded      = "call_ended"
	EventNameNewMessage     = "new_message"
	EventNameAllMuted       = "all_muted_by_admin"
)

// EventUserOnline notifies everyone else that a user identified itself.
type EventUserOnline struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
}

// EventCallStarted announces a new call to every connection.
type EventCallStarted struct {
	CallID    string `json:"call_id"`
	AdminName string `json:"admin_name"`
	Message   string `json:"message,omitempty"`
}

// EventUserJoinedCall carries the updated participant count to members.
type EventUserJoinedCall struct {
	UserID           int64  `json:"user_id"`
	UserName         string `json:"user_name"`
	ParticipantCount int    `json:"participant_count"`
}

// EventUserLeftCall notifies remaining members of a departure.
type EventUserLeftCall struct {
	UserName         string `json:"user_name"`
	ParticipantCount int    `json:"participant_count"`
}

// EventCallEnded announces call termination to every connection.
type EventCallEnded struct {
	CallID  string `json:"call_id"`
	Message string `json:"message,omitempty"`
}

// EventNewMessage is a chat message broadcast.
type EventNewMessage struct {
	ID       string `json:"id"`
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
	Text     string `json:"text"`
	IsAdmin  bool   `json:"is_admin"`
	TS       int64  `json:"ts"`
	CallID   string `json:"call_id,omitempty"`
}

// EventSignal is a relayed signaling message with the sender attached.
type EventSignal struct {
	From       string          `json:"from"`
	SenderName string          `json:"sender_name,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
