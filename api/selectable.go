// File: api/selectable.go
// Author: momentics <momentics@gmail.com>
//
// Selectable is a registered I/O-capable resource: a descriptor plus a
// deadline and a terminal bit. See reactor/selectable.go for the concrete
// type and its lifecycle (INIT once, UPDATED any number of times, FINAL at
// most once).

package api

// Selectable is consumed by the reactor's children list and by whichever
// Selector drives readiness computation.
type Selectable interface {
	// Fd returns the underlying OS descriptor, or -1 if this selectable
	// carries no descriptor (e.g. it exists purely to hold a deadline).
	Fd() int

	// Deadline returns the absolute deadline in monotonic milliseconds, if
	// any is set.
	Deadline() (ms int64, ok bool)

	// SetDeadline updates (or clears, with ok=false) the deadline.
	SetDeadline(ms int64, ok bool)

	// IsTerminal reports whether this selectable has declared itself
	// done; on the next Update call the reactor will mark it
	// SELECTABLE_FINAL and release it.
	IsTerminal() bool

	// Terminate marks the selectable terminal. Idempotent.
	Terminate()
}

// Selector is the external I/O readiness facility driven by a host loop;
// this contract describes only the shape a host loop must provide, not
// its internal implementation. The host reads Reactor.Timeout(), which the
// last Work() call set, to decide how long to block in Wait.
type Selector interface {
	// Register begins watching fd for the given interest set.
	Register(fd int, readable, writable bool) error

	// Unregister stops watching fd. Idempotent.
	Unregister(fd int) error

	// Wait blocks up to timeoutMs (negative means indefinitely) and
	// returns the fds that became ready, tagged with which direction.
	Wait(timeoutMs int) ([]ReadyFd, error)

	// Close releases the underlying OS resource.
	Close() error
}

// ReadyFd names one descriptor that became ready and in which direction.
type ReadyFd struct {
	Fd       int
	Readable bool
	Writable bool
	Error    bool
}
