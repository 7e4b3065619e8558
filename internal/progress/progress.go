// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progress delivers operation progress events to a caller-supplied
// sink without blocking the operation. Implements: prd006-progress (R1-R4);
//
//	docs/ARCHITECTURE § Progress & Cancellation.
package progress

import "sync"

// Event is one progress report: completed units out of a total, with a
// label for the unit just finished. Done never decreases within one
// operation (R2.1).
type Event struct {
	Done  int
	Total int
	Label string
}

// Sink receives events. It is called from the tracker's own goroutine, so
// implementations may block briefly without stalling the operation.
type Sink func(Event)

// Tracker forwards events to a sink asynchronously. Intermediate events may
// be coalesced under load, but the latest event is always delivered, and
// Close does not return before the final state has reached the sink (R3.2).
type Tracker struct {
	mu     sync.Mutex
	latest Event
	dirty  bool
	closed bool
	kick   chan struct{}
	done   chan struct{}
	sink   Sink
}

// NewTracker starts a tracker delivering to sink. A nil sink discards
// events but keeps Publish cheap to call unconditionally.
func NewTracker(sink Sink) *Tracker {
	if sink == nil {
		sink = func(Event) {}
	}
	t := &Tracker{
		kick: make(chan struct{}, 1),
		done: make(chan struct{}),
		sink: sink,
	}
	go t.run()
	return t
}

// Publish records ev as the operation's latest state. Events that would
// move Done backward are dropped (R2.1). Publish never blocks.
func (t *Tracker) Publish(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || ev.Done < t.latest.Done {
		return
	}
	t.latest = ev
	t.dirty = true
	select {
	case t.kick <- struct{}{}:
	default:
	}
}

// Close flushes the latest event and stops the tracker. It blocks until the
// sink has seen the final state. Close is idempotent.
func (t *Tracker) Close() {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.kick)
	}
	t.mu.Unlock()
	<-t.done
}

func (t *Tracker) run() {
	defer close(t.done)
	for range t.kick {
		t.flush()
	}
	// Deliver anything published between the last flush and Close.
	t.flush()
}

func (t *Tracker) flush() {
	for {
		t.mu.Lock()
		if !t.dirty {
			t.mu.Unlock()
			return
		}
		ev := t.latest
		t.dirty = false
		t.mu.Unlock()
		t.sink(ev)
	}
}
