package relay

import (
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// expectNone fails if an event of the given kind shows up within the
// window. Used for the one-broadcast-per-mutation assertions.
func expectNone(t *testing.T, ch <-chan *Event, kind EventKind, window time.Duration) {
	t.Helper()

	deadline := time.Now().Add(window)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event kind %v: %+v", kind, ev)
			}
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}

// countEvents drains the channel for the window and counts occurrences
// of the given kind.
func countEvents(ch <-chan *Event, kind EventKind, window time.Duration) int {
	n := 0
	deadline := time.Now().Add(window)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				n++
			}
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	return n
}

func joined(c *Client, userID int64, name string, role Role) {
	c.Commands <- &Command{Kind: CommandJoin, Identity: Identity{UserID: userID, Name: name, Role: role}}
}
