package relay

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultMaxMessageLen = 2000
	historyBuffer        = 256
)

// HistorySink receives chat messages for persistence. The hub hands
// messages off through a buffered channel and never blocks on the sink.
type HistorySink interface {
	SaveMessage(ctx context.Context, m *ChatMessage) error
}

// HubConfig carries the relay policy knobs.
type HubConfig struct {
	// MaxActiveCalls caps concurrently active sessions; 0 = unlimited.
	MaxActiveCalls int
	// MaxMessageLen bounds chat message size; 0 uses the default.
	MaxMessageLen int
}

type clientCommand struct {
	client *Client
	cmd    *Command
}

// Hub is the relay's single coordination point. One goroutine owns the
// registry and the session table; every mutation arrives through the
// hub's channels and is applied one at a time.
type Hub struct {
	registry *Registry
	sessions *Coordinator
	router   *Router

	history   HistorySink
	historyCh chan *ChatMessage

	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand

	maxMessageLen int
	log           zerolog.Logger
}

// NewHub constructs a hub. sink may be nil when chat history is not
// persisted; logger may be nil.
func NewHub(cfg HubConfig, sink HistorySink, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	maxLen := cfg.MaxMessageLen
	if maxLen <= 0 {
		maxLen = defaultMaxMessageLen
	}

	registry := NewRegistry()
	return &Hub{
		registry:      registry,
		sessions:      NewCoordinator(cfg.MaxActiveCalls),
		router:        NewRouter(registry),
		history:       sink,
		historyCh:     make(chan *ChatMessage, historyBuffer),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		commands:      make(chan clientCommand),
		maxMessageLen: maxLen,
		log:           *logger,
	}
}

// Run processes events until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	go h.historyWriter(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.registry.Register(c)
			go h.forward(c)
		case c := <-h.unregister:
			h.removeClient(c)
		case cc := <-h.commands:
			h.handleCommand(cc.client, cc.cmd)
		}
	}
}

// RegisterClient hands a new connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient removes a connection, cascading session cleanup.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// forward pumps one client's commands into the hub's shared queue.
func (h *Hub) forward(c *Client) {
	for {
		select {
		case <-c.done:
			return
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.commands <- clientCommand{client: c, cmd: cmd}:
			case <-c.done:
				return
			}
		}
	}
}

func (h *Hub) handleCommand(c *Client, cmd *Command) {
	if _, ok := h.registry.Get(c.ID); !ok {
		// Command raced with the disconnect; drop it.
		return
	}

	switch cmd.Kind {
	case CommandJoin:
		h.handleJoin(c, cmd.Identity)
	case CommandStartCall:
		h.handleStartCall(c)
	case CommandJoinCall:
		h.handleJoinCall(c, cmd.CallID)
	case CommandLeaveCall:
		h.handleLeaveCall(c, cmd.CallID)
	case CommandEndCall:
		h.handleEndCall(c, cmd.CallID)
	case CommandSendMessage:
		h.handleMessage(c, cmd)
	case CommandSignal:
		h.handleSignal(c, cmd.Signal)
	case CommandMuteAll:
		h.handleMuteAll(c, cmd.CallID)
	default:
		h.log.Warn().Int("kind", int(cmd.Kind)).Str("conn", c.ID).Msg("unknown command kind")
	}
}

func (h *Hub) handleJoin(c *Client, ident Identity) {
	h.registry.AttachIdentity(c.ID, ident)
	h.router.ToOthers(c.ID, &Event{Kind: EventUserOnline, User: ident})
	h.log.Debug().Str("conn", c.ID).Str("user", ident.Name).Str("role", string(ident.Role)).Msg("identity attached")
}

func (h *Hub) handleStartCall(c *Client) {
	ident, _ := h.registry.IdentityOf(c.ID)
	s, rerr := h.sessions.Start(c.ID, ident)
	if rerr != nil {
		h.reject(c, rerr)
		return
	}
	h.log.Info().Str("call", s.ID).Str("admin", ident.Name).Msg("call started")
	h.router.ToAll(&Event{
		Kind: EventCallStarted,
		Call: &CallEvent{
			ID:           s.ID,
			AdminName:    ident.Name,
			Participants: s.Len(),
			Note:         ident.Name + " started a community call",
		},
	})
}

func (h *Hub) handleJoinCall(c *Client, callID string) {
	s, added, rerr := h.sessions.Join(callID, c.ID)
	if rerr != nil {
		if rerr.Code == ErrCodeCallNotFound {
			h.log.Debug().Str("call", callID).Str("conn", c.ID).Msg("join for unknown call ignored")
			return
		}
		h.reject(c, rerr)
		return
	}
	if !added {
		return
	}
	ident, _ := h.registry.IdentityOf(c.ID)
	h.router.ToSession(s, &Event{
		Kind: EventUserJoinedCall,
		User: ident,
		Call: &CallEvent{ID: s.ID, Participants: s.Len()},
	})
}

func (h *Hub) handleLeaveCall(c *Client, callID string) {
	res := h.sessions.Leave(callID, c.ID)
	if !res.Removed || res.Ended {
		return
	}
	ident, _ := h.registry.IdentityOf(c.ID)
	h.router.ToSession(res.Session, &Event{
		Kind: EventUserLeftCall,
		User: ident,
		Call: &CallEvent{ID: res.Session.ID, Participants: res.Session.Len()},
	})
}

func (h *Hub) handleEndCall(c *Client, callID string) {
	s, rerr := h.sessions.End(callID, c.ID)
	if rerr != nil {
		if rerr.Code == ErrCodeCallNotFound {
			h.log.Debug().Str("call", callID).Str("conn", c.ID).Msg("end for unknown call ignored")
			return
		}
		h.reject(c, rerr)
		return
	}
	h.log.Info().Str("call", s.ID).Msg("call ended")
	h.router.ToAll(&Event{
		Kind: EventCallEnded,
		Call: &CallEvent{ID: s.ID, Note: "the call has ended"},
	})
}

func (h *Hub) handleMessage(c *Client, cmd *Command) {
	ident, ok := h.registry.IdentityOf(c.ID)
	if !ok {
		h.reject(c, relayError(ErrCodeBadRequest, "join before sending messages"))
		return
	}
	if cmd.Text == "" || len(cmd.Text) > h.maxMessageLen {
		h.reject(c, relayError(ErrCodeBadRequest, "message empty or too long"))
		return
	}

	msg := &ChatMessage{
		ID:           uuid.New().String(),
		SenderUserID: ident.UserID,
		SenderName:   ident.Name,
		Text:         cmd.Text,
		IsAdmin:      ident.IsAdmin(),
		SentAt:       time.Now(),
		CallID:       cmd.CallID,
	}
	h.router.ToAll(&Event{Kind: EventNewMessage, Message: msg})

	if h.history != nil {
		select {
		case h.historyCh <- msg:
		default:
			h.log.Warn().Str("msg", msg.ID).Msg("history buffer full, message dropped")
		}
	}
}

func (h *Hub) handleSignal(c *Client, sig *Signal) {
	if sig == nil {
		return
	}
	ident, _ := h.registry.IdentityOf(c.ID)
	h.router.ToConnection(sig.Target, &Event{
		Kind: EventSignal,
		Signal: &SignalEvent{
			Kind:       sig.Kind,
			FromConn:   c.ID,
			SenderName: ident.Name,
			Payload:    sig.Payload,
		},
	})
}

func (h *Hub) handleMuteAll(c *Client, callID string) {
	ident, _ := h.registry.IdentityOf(c.ID)
	if !ident.IsAdmin() {
		h.reject(c, relayError(ErrCodeForbidden, "only admins can mute a call"))
		return
	}
	s, ok := h.sessions.Get(callID)
	if !ok {
		h.log.Debug().Str("call", callID).Msg("mute for unknown call ignored")
		return
	}
	h.router.ToSession(s, &Event{Kind: EventAllMuted, Call: &CallEvent{ID: s.ID}})
}

// removeClient cascades session cleanup before the registry entry goes
// away, then releases the client's channels.
func (h *Hub) removeClient(c *Client) {
	ident, _ := h.registry.IdentityOf(c.ID)

	for _, act := range h.sessions.Disconnect(c.ID) {
		switch {
		case act.Ended:
			h.log.Info().Str("call", act.Session.ID).Str("conn", c.ID).Msg("initiator disconnected, call ended")
			h.router.ToAll(&Event{
				Kind: EventCallEnded,
				Call: &CallEvent{ID: act.Session.ID, Note: "the call has ended"},
			})
		case act.Emptied:
			// Session discarded with nobody left to notify.
		default:
			h.router.ToSession(act.Session, &Event{
				Kind: EventUserLeftCall,
				User: ident,
				Call: &CallEvent{ID: act.Session.ID, Participants: act.Session.Len()},
			})
		}
	}

	if h.registry.Remove(c.ID) != nil {
		close(c.done)
		close(c.Events)
	}
}

func (h *Hub) reject(c *Client, rerr *RelayError) {
	h.log.Debug().Str("conn", c.ID).Str("code", rerr.Code).Msg("command rejected")
	h.router.ToConnection(c.ID, &Event{Kind: EventError, Error: rerr})
}

// historyWriter drains the handoff buffer into the sink off the hub
// goroutine, so persistence latency never stalls broadcasts.
func (h *Hub) historyWriter(ctx context.Context) {
	if h.history == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.historyCh:
			if err := h.history.SaveMessage(ctx, msg); err != nil {
				h.log.Error().Err(err).Str("msg", msg.ID).Msg("save chat message")
			}
		}
	}
}
