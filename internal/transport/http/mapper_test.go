package http

import (
	"encoding/json"
	"testing"

	"github.com/studyhall-live/relay-server/internal/proto"
	"github.com/studyhall-live/relay-server/internal/relay"
)

var verified = relay.Identity{UserID: 7, Name: "alice", Role: relay.RoleStudent}

func TestInboundJoinKeepsVerifiedRole(t *testing.T) {
	data, _ := json.Marshal(proto.JoinData{UserID: 999, UserName: "display-alice", Role: "admin"})
	cmd, perr := inboundToCommand(verified, proto.Inbound{Type: proto.InboundTypeJoin, Data: data})
	if perr != nil {
		t.Fatalf("unexpected proto error: %+v", perr)
	}
	if cmd.Kind != relay.CommandJoin {
		t.Fatalf("wrong kind: %v", cmd.Kind)
	}
	// Display name comes from the payload, everything else from the token.
	if cmd.Identity.Name != "display-alice" || cmd.Identity.UserID != 7 || cmd.Identity.Role != relay.RoleStudent {
		t.Fatalf("identity not grounded in verified claims: %+v", cmd.Identity)
	}
}

func TestInboundRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		msgType string
		data    string
	}{
		{"join_call without call_id", proto.InboundTypeJoinCall, `{}`},
		{"leave_call without call_id", proto.InboundTypeLeaveCall, `{}`},
		{"end_call without call_id", proto.InboundTypeEndCall, `{}`},
		{"mute_all without call_id", proto.InboundTypeMuteAll, `{}`},
		{"msg without text", proto.InboundTypeMsg, `{}`},
		{"offer without target", proto.InboundTypeOffer, `{"payload":{}}`},
		{"join with invalid json", proto.InboundTypeJoin, `{"user_name":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, perr := inboundToCommand(verified, proto.Inbound{Type: tt.msgType, Data: json.RawMessage(tt.data)})
			if perr == nil || perr.Code != relay.ErrCodeBadRequest {
				t.Fatalf("expected bad_request, got cmd=%+v err=%+v", cmd, perr)
			}
		})
	}
}

func TestInboundUnknownTypeRejected(t *testing.T) {
	_, perr := inboundToCommand(verified, proto.Inbound{Type: "teleport", Data: json.RawMessage(`{}`)})
	if perr == nil || perr.Code != "invalid_message" {
		t.Fatalf("expected invalid_message, got %+v", perr)
	}
}

func TestSignalPayloadPassedThroughVerbatim(t *testing.T) {
	raw := `{"sdp":"v=0\r\no=- 42","weird":[1,null,{"x":true}]}`
	data, _ := json.Marshal(proto.SignalData{Target: "c9", Payload: json.RawMessage(raw)})

	cmd, perr := inboundToCommand(verified, proto.Inbound{Type: proto.InboundTypeAnswer, Data: data})
	if perr != nil {
		t.Fatalf("unexpected proto error: %+v", perr)
	}
	if cmd.Signal.Kind != relay.SignalAnswer || cmd.Signal.Target != "c9" {
		t.Fatalf("unexpected signal command: %+v", cmd.Signal)
	}
	if string(cmd.Signal.Payload) != raw {
		t.Fatalf("payload altered: %s", cmd.Signal.Payload)
	}

	out := outboundFromEvent(&relay.Event{
		Kind: relay.EventSignal,
		Signal: &relay.SignalEvent{
			Kind:       relay.SignalAnswer,
			FromConn:   "c1",
			SenderName: "alice",
			Payload:    cmd.Signal.Payload,
		},
	})
	if out.Event != proto.InboundTypeAnswer {
		t.Fatalf("wrong outbound event name: %s", out.Event)
	}
	ev, ok := out.Data.(proto.EventSignal)
	if !ok || string(ev.Payload) != raw || ev.From != "c1" {
		t.Fatalf("outbound signal mangled: %+v", out.Data)
	}
}

func TestOutboundEventNames(t *testing.T) {
	tests := []struct {
		event *relay.Event
		name  string
	}{
		{&relay.Event{Kind: relay.EventUserOnline, User: verified}, proto.EventNameUserOnline},
		{&relay.Event{Kind: relay.EventCallStarted, Call: &relay.CallEvent{ID: "call_1"}}, proto.EventNameCallStarted},
		{&relay.Event{Kind: relay.EventUserJoinedCall, User: verified, Call: &relay.CallEvent{ID: "call_1", Participants: 2}}, proto.EventNameUserJoinedCall},
		{&relay.Event{Kind: relay.EventUserLeftCall, User: verified, Call: &relay.CallEvent{ID: "call_1", Participants: 1}}, proto.EventNameUserLeftCall},
		{&relay.Event{Kind: relay.EventCallEnded, Call: &relay.CallEvent{ID: "call_1"}}, proto.EventNameCallEnded},
		{&relay.Event{Kind: relay.EventAllMuted, Call: &relay.CallEvent{ID: "call_1"}}, proto.EventNameAllMuted},
	}
	for _, tt := range tests {
		out := outboundFromEvent(tt.event)
		if out.Type != proto.OutboundTypeEvent || out.Event != tt.name {
			t.Fatalf("event %v mapped to %q", tt.event.Kind, out.Event)
		}
	}
}
