// File: reactor/collector.go
// Author: momentics <momentics@gmail.com>
//
// FIFO event collector backed by github.com/eapache/queue's ring buffer.
// Grounded on the "stable FIFO of typed work items" shape used throughout
// the example corpus (e.g. momentics-hioload-ws's channel-backed
// EventLoop inbox), but without the channel/goroutine machinery: the
// reactor's collector is only ever touched from the owning goroutine, so
// a plain ring buffer is both simpler and allocation-cheaper than a
// channel.

package reactor

import (
	"github.com/eapache/queue"

	"github.com/corewire-labs/evreactor/api"
)

// collector is the concrete api.Collector. peek() is idempotent until
// pop() is called, matching the dispatch loop's use in process().
type collector struct {
	q *queue.Queue
}

func newCollector() *collector {
	return &collector{q: queue.New()}
}

var _ api.Collector = (*collector)(nil)

// Put appends an event to the tail of the queue.
func (c *collector) Put(t api.EventType, class api.EntityClass, context any) {
	c.q.Add(&api.Event{Type: t, Class: class, Context: context})
}

// Peek returns the head event without removing it, or nil if empty.
func (c *collector) Peek() *api.Event {
	if c.q.Length() == 0 {
		return nil
	}
	return c.q.Peek().(*api.Event)
}

// Pop removes the head event. No-op if already empty.
func (c *collector) Pop() {
	if c.q.Length() == 0 {
		return
	}
	c.q.Remove()
}

// Release discards every pending event.
func (c *collector) Release() {
	c.q = queue.New()
}
