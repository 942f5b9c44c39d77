package relay

import (
	"strconv"
	"time"
)

// Coordinator is the single authority for call lifecycle and membership.
// All methods run on the hub goroutine, so no two mutations interleave.
type Coordinator struct {
	sessions map[string]*Session
	memberOf map[string]string // connID -> session id

	// maxActive caps concurrently active sessions; 0 means unlimited.
	maxActive int
	lastStamp int64
}

// NewCoordinator constructs a coordinator with the given session cap.
func NewCoordinator(maxActive int) *Coordinator {
	return &Coordinator{
		sessions:  make(map[string]*Session),
		memberOf:  make(map[string]string),
		maxActive: maxActive,
	}
}

// nextID derives a unique call id from the wall clock. The stamp is
// bumped past the last one handed out, so concurrent creations within
// the same millisecond still get distinct ids.
func (c *Coordinator) nextID(now time.Time) string {
	ms := now.UnixMilli()
	if ms <= c.lastStamp {
		ms = c.lastStamp + 1
	}
	c.lastStamp = ms
	return "call_" + strconv.FormatInt(ms, 10)
}

// Start creates a new active session with the initiator as its only
// member. Rejected unless the initiator's verified role is admin.
func (c *Coordinator) Start(connID string, ident Identity) (*Session, *RelayError) {
	if !ident.IsAdmin() {
		return nil, relayError(ErrCodeForbidden, "only admins can start a call")
	}
	if c.maxActive > 0 && len(c.sessions) >= c.maxActive {
		return nil, relayError(ErrCodeCallLimit, "active call limit reached")
	}
	if _, busy := c.memberOf[connID]; busy {
		return nil, relayError(ErrCodeAlreadyInCall, "already in a call")
	}

	now := time.Now()
	s := newSession(c.nextID(now), connID, ident.Name, now)
	c.sessions[s.ID] = s
	c.memberOf[connID] = s.ID
	return s, nil
}

// Join adds a connection to an active session. Re-joining is a no-op
// (added=false); an unknown or ended session id is not-found.
func (c *Coordinator) Join(callID, connID string) (s *Session, added bool, rerr *RelayError) {
	s, ok := c.sessions[callID]
	if !ok || !s.Active() {
		return nil, false, relayError(ErrCodeCallNotFound, "call not found")
	}
	if cur, busy := c.memberOf[connID]; busy && cur != callID {
		return nil, false, relayError(ErrCodeAlreadyInCall, "already in another call")
	}
	added = s.Add(connID)
	c.memberOf[connID] = callID
	return s, added, nil
}

// LeaveResult describes what Leave actually changed.
type LeaveResult struct {
	Session *Session
	Removed bool
	// Ended is set when the member set became empty and the session was
	// discarded. Nobody is left to notify in that case.
	Ended bool
}

// Leave removes a connection from a session. Unknown session or
// non-member is a no-op. An emptied session ends and is discarded.
func (c *Coordinator) Leave(callID, connID string) LeaveResult {
	s, ok := c.sessions[callID]
	if !ok {
		return LeaveResult{}
	}
	res := LeaveResult{Session: s, Removed: s.Remove(connID)}
	if res.Removed {
		delete(c.memberOf, connID)
	}
	if s.Empty() {
		s.end()
		delete(c.sessions, callID)
		res.Ended = true
	}
	return res
}

// End terminates a session. Rejected unless the requester is the
// original initiator.
func (c *Coordinator) End(callID, connID string) (*Session, *RelayError) {
	s, ok := c.sessions[callID]
	if !ok {
		return nil, relayError(ErrCodeCallNotFound, "call not found")
	}
	if s.InitiatorConn != connID {
		return nil, relayError(ErrCodeForbidden, "only the call initiator can end it")
	}
	c.discard(s)
	return s, nil
}

// DisconnectAction describes the cleanup applied to one session after a
// connection dropped.
type DisconnectAction struct {
	Session *Session
	// Ended marks initiator-disconnect: the whole session was terminated.
	Ended bool
	// Emptied marks a member-disconnect that left the session empty, so
	// it was discarded with nobody to notify.
	Emptied bool
}

// Disconnect cleans up every session containing the connection. The
// one-session invariant makes a single hit the normal case, but the
// sweep tolerates a connection appearing in several sessions.
func (c *Coordinator) Disconnect(connID string) []DisconnectAction {
	var actions []DisconnectAction
	for id, s := range c.sessions {
		if !s.Has(connID) {
			continue
		}
		if s.InitiatorConn == connID {
			c.discard(s)
			actions = append(actions, DisconnectAction{Session: s, Ended: true})
			continue
		}
		s.Remove(connID)
		if s.Empty() {
			s.end()
			delete(c.sessions, id)
			actions = append(actions, DisconnectAction{Session: s, Emptied: true})
			continue
		}
		actions = append(actions, DisconnectAction{Session: s})
	}
	delete(c.memberOf, connID)
	return actions
}

// Get returns an active session by id.
func (c *Coordinator) Get(callID string) (*Session, bool) {
	s, ok := c.sessions[callID]
	return s, ok
}

// Len returns the number of active sessions.
func (c *Coordinator) Len() int {
	return len(c.sessions)
}

// discard ends a session and drops all membership bookkeeping for it.
func (c *Coordinator) discard(s *Session) {
	s.end()
	delete(c.sessions, s.ID)
	for _, id := range s.MemberIDs() {
		if c.memberOf[id] == s.ID {
			delete(c.memberOf, id)
		}
	}
}
