package relay

import "time"

// Session is one ongoing call: an initiator, a member set, and an
// active flag. An ended session is never mutated again.
type Session struct {
	ID            string
	InitiatorConn string
	InitiatorName string
	CreatedAt     time.Time

	active  bool
	members map[string]struct{}
}

func newSession(id, initiatorConn, initiatorName string, now time.Time) *Session {
	s := &Session{
		ID:            id,
		InitiatorConn: initiatorConn,
		InitiatorName: initiatorName,
		CreatedAt:     now,
		active:        true,
		members:       make(map[string]struct{}),
	}
	s.members[initiatorConn] = struct{}{}
	return s
}

// Active reports whether the session still accepts mutations.
func (s *Session) Active() bool {
	return s.active
}

// Add inserts a member connection. Returns true if newly added.
func (s *Session) Add(connID string) bool {
	if _, ok := s.members[connID]; ok {
		return false
	}
	s.members[connID] = struct{}{}
	return true
}

// Remove deletes a member connection. Returns true if removed.
func (s *Session) Remove(connID string) bool {
	if _, ok := s.members[connID]; !ok {
		return false
	}
	delete(s.members, connID)
	return true
}

// Has reports membership of a connection.
func (s *Session) Has(connID string) bool {
	_, ok := s.members[connID]
	return ok
}

// Len returns the current member count.
func (s *Session) Len() int {
	return len(s.members)
}

// Empty returns true if no connections remain in the session.
func (s *Session) Empty() bool {
	return len(s.members) == 0
}

// MemberIDs returns a snapshot of the member connection ids.
func (s *Session) MemberIDs() []string {
	ids := make([]string, 0, len(s.members))
	for id := range s.members {
		ids = append(ids, id)
	}
	return ids
}

// end transitions the session to its terminal state.
func (s *Session) end() {
	s.active = false
}
