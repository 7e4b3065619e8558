// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package progress

import (
	"sync"
	"testing"
)

// collector is a Sink that records every delivered event.
type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) sink(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *collector) all() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

func TestTrackerDeliversFinalEvent(t *testing.T) {
	c := &collector{}
	tr := NewTracker(c.sink)

	for i := 1; i <= 100; i++ {
		tr.Publish(Event{Done: i, Total: 100, Label: "page"})
	}
	tr.Close()

	events := c.all()
	if len(events) == 0 {
		t.Fatal("no events delivered")
	}
	last := events[len(events)-1]
	if last.Done != 100 || last.Total != 100 {
		t.Errorf("final event = %+v, want Done=100 Total=100", last)
	}
}

func TestTrackerMonotonic(t *testing.T) {
	c := &collector{}
	tr := NewTracker(c.sink)

	tr.Publish(Event{Done: 1, Total: 3})
	tr.Publish(Event{Done: 2, Total: 3})
	tr.Publish(Event{Done: 1, Total: 3}) // stale, must be dropped
	tr.Publish(Event{Done: 3, Total: 3})
	tr.Close()

	prev := -1
	for _, ev := range c.all() {
		if ev.Done < prev {
			t.Fatalf("Done decreased: %d after %d", ev.Done, prev)
		}
		prev = ev.Done
	}
	if prev != 3 {
		t.Errorf("last Done = %d, want 3", prev)
	}
}

func TestTrackerCloseIdempotent(t *testing.T) {
	tr := NewTracker(nil)
	tr.Publish(Event{Done: 1, Total: 1})
	tr.Close()
	tr.Close()

	// Publishing after Close must be a no-op, not a panic.
	tr.Publish(Event{Done: 2, Total: 2})
}

func TestTrackerNilSink(t *testing.T) {
	tr := NewTracker(nil)
	for i := 0; i < 10; i++ {
		tr.Publish(Event{Done: i, Total: 10})
	}
	tr.Close()
}
