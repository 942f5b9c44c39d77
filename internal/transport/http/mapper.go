package http

import (
	"encoding/json"

	"github.com/studyhall-live/relay-server/internal/proto"
	"github.com/studyhall-live/relay-server/internal/relay"
)

// inboundToCommand validates an inbound frame and maps it onto the
// relay's closed command set. A malformed frame yields a protocol error
// for the sender and nothing reaches the hub.
func inboundToCommand(verified relay.Identity, inbound proto.Inbound) (*relay.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, badRequest("malformed join payload")
		}
		ident := verified
		if join.UserName != "" {
			ident.Name = join.UserName
		}
		// The asserted role and user id are ignored; the token decides.
		return &relay.Command{Kind: relay.CommandJoin, Identity: ident}, nil

	case proto.InboundTypeStartCall:
		var start proto.StartCallData
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &start); err != nil {
				return nil, badRequest("malformed start_call payload")
			}
		}
		return &relay.Command{Kind: relay.CommandStartCall}, nil

	case proto.InboundTypeJoinCall, proto.InboundTypeLeaveCall, proto.InboundTypeEndCall, proto.InboundTypeMuteAll:
		var call proto.CallData
		if err := json.Unmarshal(inbound.Data, &call); err != nil {
			return nil, badRequest("malformed call payload")
		}
		if call.CallID == "" {
			return nil, badRequest("call_id is required")
		}
		return &relay.Command{Kind: callCommandKind(inbound.Type), CallID: call.CallID}, nil

	case proto.InboundTypeMsg:
		var msg proto.MsgData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, badRequest("malformed msg payload")
		}
		if msg.Text == "" {
			return nil, badRequest("text is required")
		}
		return &relay.Command{
			Kind:   relay.CommandSendMessage,
			Text:   msg.Text,
			CallID: msg.CallID,
		}, nil

	case proto.InboundTypeOffer, proto.InboundTypeAnswer, proto.InboundTypeICECandidate:
		var sig proto.SignalData
		if err := json.Unmarshal(inbound.Data, &sig); err != nil {
			return nil, badRequest("malformed signaling payload")
		}
		if sig.Target == "" {
			return nil, badRequest("target is required")
		}
		return &relay.Command{
			Kind: relay.CommandSignal,
			Signal: &relay.Signal{
				Kind:    signalKind(inbound.Type),
				Target:  sig.Target,
				Payload: sig.Payload,
			},
		}, nil

	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}
	}
}

func badRequest(msg string) *proto.Error {
	return &proto.Error{Code: relay.ErrCodeBadRequest, Msg: msg}
}

func callCommandKind(inboundType string) relay.CommandKind {
	switch inboundType {
	case proto.InboundTypeJoinCall:
		return relay.CommandJoinCall
	case proto.InboundTypeLeaveCall:
		return relay.CommandLeaveCall
	case proto.InboundTypeEndCall:
		return relay.CommandEndCall
	default:
		return relay.CommandMuteAll
	}
}

func signalKind(inboundType string) relay.SignalKind {
	switch inboundType {
	case proto.InboundTypeOffer:
		return relay.SignalOffer
	case proto.InboundTypeAnswer:
		return relay.SignalAnswer
	default:
		return relay.SignalCandidate
	}
}

func signalEventName(kind relay.SignalKind) string {
	switch kind {
	case relay.SignalOffer:
		return proto.InboundTypeOffer
	case relay.SignalAnswer:
		return proto.InboundTypeAnswer
	default:
		return proto.InboundTypeICECandidate
	}
}

func outboundFromEvent(event *relay.Event) proto.Outbound {
	switch event.Kind {
	case relay.EventUserOnline:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameUserOnline,
			Data: proto.EventUserOnline{
				UserID:   event.User.UserID,
				UserName: event.User.Name,
			},
		}
	case relay.EventCallStarted:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameCallStarted,
			Data: proto.EventCallStarted{
				CallID:    event.Call.ID,
				AdminName: event.Call.AdminName,
				Message:   event.Call.Note,
			},
		}
	case relay.EventUserJoinedCall:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameUserJoinedCall,
			Data: proto.EventUserJoinedCall{
				UserID:           event.User.UserID,
				UserName:         event.User.Name,
				ParticipantCount: event.Call.Participants,
			},
		}
	case relay.EventUserLeftCall:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameUserLeftCall,
			Data: proto.EventUserLeftCall{
				UserName:         event.User.Name,
				ParticipantCount: event.Call.Participants,
			},
		}
	case relay.EventCallEnded:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameCallEnded,
			Data: proto.EventCallEnded{
				CallID:  event.Call.ID,
				Message: event.Call.Note,
			},
		}
	case relay.EventNewMessage:
		m := event.Message
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameNewMessage,
			Data: proto.EventNewMessage{
				ID:       m.ID,
				UserID:   m.SenderUserID,
				UserName: m.SenderName,
				Text:     m.Text,
				IsAdmin:  m.IsAdmin,
				TS:       m.SentAt.Unix(),
				CallID:   m.CallID,
			},
		}
	case relay.EventSignal:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: signalEventName(event.Signal.Kind),
			Data: proto.EventSignal{
				From:       event.Signal.FromConn,
				SenderName: event.Signal.SenderName,
				Payload:    event.Signal.Payload,
			},
		}
	case relay.EventAllMuted:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameAllMuted,
		}
	case relay.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
