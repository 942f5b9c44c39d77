package relay

import (
	"fmt"
	"strings"
	"testing"
)

var admin = Identity{UserID: 1, Name: "prof", Role: RoleAdmin}

func TestCoordinatorIDsUniqueUnderRapidCreation(t *testing.T) {
	c := NewCoordinator(0)

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		s, rerr := c.Start(fmt.Sprintf("conn%d", i), admin)
		if rerr != nil {
			t.Fatalf("start failed: %+v", rerr)
		}
		if _, dup := seen[s.ID]; dup {
			t.Fatalf("duplicate session id %q", s.ID)
		}
		if !strings.HasPrefix(s.ID, "call_") {
			t.Fatalf("unexpected id shape %q", s.ID)
		}
		seen[s.ID] = struct{}{}
		// Free the initiator so the next Start isn't rejected.
		c.Disconnect(s.InitiatorConn)
	}
}

func TestCoordinatorStartRequiresAdmin(t *testing.T) {
	c := NewCoordinator(0)

	_, rerr := c.Start("s1", Identity{UserID: 2, Name: "sam", Role: RoleStudent})
	if rerr == nil || rerr.Code != ErrCodeForbidden {
		t.Fatalf("expected forbidden, got %+v", rerr)
	}
	if c.Len() != 0 {
		t.Fatalf("session created despite rejection")
	}
}

func TestCoordinatorActiveCallCap(t *testing.T) {
	c := NewCoordinator(1)

	if _, rerr := c.Start("a1", admin); rerr != nil {
		t.Fatalf("first start: %+v", rerr)
	}
	_, rerr := c.Start("a2", admin)
	if rerr == nil || rerr.Code != ErrCodeCallLimit {
		t.Fatalf("expected call_limit_reached, got %+v", rerr)
	}
}

func TestCoordinatorJoinIdempotentAndEndedUnreachable(t *testing.T) {
	c := NewCoordinator(0)

	s, _ := c.Start("a1", admin)

	if _, added, rerr := c.Join(s.ID, "b1"); rerr != nil || !added {
		t.Fatalf("join: added=%v err=%+v", added, rerr)
	}
	if _, added, _ := c.Join(s.ID, "b1"); added {
		t.Fatal("re-join reported as a mutation")
	}
	if s.Len() != 2 {
		t.Fatalf("member set size %d, want 2", s.Len())
	}

	if _, rerr := c.End(s.ID, "a1"); rerr != nil {
		t.Fatalf("end: %+v", rerr)
	}
	if _, _, rerr := c.Join(s.ID, "b2"); rerr == nil || rerr.Code != ErrCodeCallNotFound {
		t.Fatalf("join after end should be not-found, got %+v", rerr)
	}
}

func TestCoordinatorSecondSessionMembershipRejected(t *testing.T) {
	c := NewCoordinator(0)

	s1, _ := c.Start("a1", admin)
	s2, _ := c.Start("a2", admin)

	if _, _, rerr := c.Join(s1.ID, "b1"); rerr != nil {
		t.Fatalf("first join: %+v", rerr)
	}
	_, _, rerr := c.Join(s2.ID, "b1")
	if rerr == nil || rerr.Code != ErrCodeAlreadyInCall {
		t.Fatalf("expected already_in_call, got %+v", rerr)
	}
}

func TestCoordinatorLeaveEmptiesSession(t *testing.T) {
	c := NewCoordinator(0)

	s, _ := c.Start("a1", admin)
	res := c.Leave(s.ID, "a1")
	if !res.Removed || !res.Ended {
		t.Fatalf("unexpected leave result: %+v", res)
	}
	if _, ok := c.Get(s.ID); ok {
		t.Fatal("emptied session still reachable")
	}

	// Unknown session and non-member leaves are no-ops.
	if res := c.Leave("call_404", "a1"); res.Removed || res.Ended {
		t.Fatalf("leave on unknown session mutated state: %+v", res)
	}
}

func TestCoordinatorEndRequiresInitiator(t *testing.T) {
	c := NewCoordinator(0)

	s, _ := c.Start("a1", admin)
	c.Join(s.ID, "b1")

	if _, rerr := c.End(s.ID, "b1"); rerr == nil || rerr.Code != ErrCodeForbidden {
		t.Fatalf("expected forbidden, got %+v", rerr)
	}
	if !s.Active() {
		t.Fatal("session ended by non-initiator")
	}
}

func TestCoordinatorDisconnectInitiatorEndsSession(t *testing.T) {
	c := NewCoordinator(0)

	s, _ := c.Start("a1", admin)
	c.Join(s.ID, "b1")

	actions := c.Disconnect("a1")
	if len(actions) != 1 || !actions[0].Ended {
		t.Fatalf("unexpected actions: %+v", actions)
	}
	if _, ok := c.Get(s.ID); ok {
		t.Fatal("session survived initiator disconnect")
	}
}

func TestCoordinatorDisconnectMemberLeavesSession(t *testing.T) {
	c := NewCoordinator(0)

	s, _ := c.Start("a1", admin)
	c.Join(s.ID, "b1")

	actions := c.Disconnect("b1")
	if len(actions) != 1 || actions[0].Ended || actions[0].Emptied {
		t.Fatalf("unexpected actions: %+v", actions)
	}
	if s.Len() != 1 || !s.Active() {
		t.Fatalf("session state after member disconnect: len=%d active=%v", s.Len(), s.Active())
	}
}

// A connection should never be in two sessions, but disconnect cleanup
// must sweep all occurrences if that invariant is ever violated.
func TestCoordinatorDisconnectSweepsAllOccurrences(t *testing.T) {
	c := NewCoordinator(0)

	s1, _ := c.Start("a1", admin)
	s2, _ := c.Start("a2", admin)
	c.Join(s1.ID, "b1")
	s2.Add("b1") // bypasses the coordinator on purpose

	actions := c.Disconnect("b1")
	if len(actions) != 2 {
		t.Fatalf("expected cleanup in both sessions, got %+v", actions)
	}
	if s1.Has("b1") || s2.Has("b1") {
		t.Fatal("stale membership left behind")
	}
}
