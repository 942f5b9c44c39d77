package relay

// Router fans events out to a computed set of connections. It holds no
// state of its own; the registry tells it who is reachable. Delivery is
// a non-blocking channel send: slow consumers drop events rather than
// stall the hub.
type Router struct {
	registry *Registry
}

// NewRouter constructs a router over the given registry.
func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// ToAll delivers an event to every registered connection.
func (r *Router) ToAll(ev *Event) {
	r.registry.Each(func(c *Client) {
		deliver(c, ev)
	})
}

// ToOthers delivers to every registered connection except one.
func (r *Router) ToOthers(exceptConnID string, ev *Event) {
	r.registry.Each(func(c *Client) {
		if c.ID != exceptConnID {
			deliver(c, ev)
		}
	})
}

// ToSession delivers to a snapshot of the session's current members.
// Members that disconnected since the snapshot are dropped silently.
func (r *Router) ToSession(s *Session, ev *Event) {
	for _, id := range s.MemberIDs() {
		r.ToConnection(id, ev)
	}
}

// ToConnection delivers to exactly one connection. A gone connection is
// not an error; the disconnect race is expected and harmless.
func (r *Router) ToConnection(connID string, ev *Event) {
	if c, ok := r.registry.Get(connID); ok {
		deliver(c, ev)
	}
}

func deliver(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		// Drop if slow consumer.
	}
}
