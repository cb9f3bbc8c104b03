// File: api/collector.go
// Author: momentics <momentics@gmail.com>
//
// Collector is the stable FIFO queue of Events the dispatch loop peeks,
// dispatches, and pops. See reactor/collector.go for the concrete,
// eapache/queue-backed implementation.

package api

// Collector is consumed by the dispatch loop exactly once per event: Peek is
// repeatable until Pop, Pop releases the head, Release abandons the rest.
type Collector interface {
	// Put appends an event; ordering is stable FIFO.
	Put(t EventType, class EntityClass, context any)

	// Peek returns the next event without removing it, or nil if empty.
	Peek() *Event

	// Pop removes the head event. No-op if empty.
	Pop()

	// Release abandons all pending events.
	Release()
}
