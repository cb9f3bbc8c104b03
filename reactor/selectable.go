// File: reactor/selectable.go
// Author: momentics <momentics@gmail.com>
//
// Selectable is a registered I/O-capable resource. Registration, update,
// and release live on Reactor (reactor.go) since they need the owning
// reactor's collector and children list; this file holds only the value
// type and its api.Selectable implementation.

package reactor

import "github.com/corewire-labs/evreactor/api"

// Selectable carries an optional OS descriptor, an optional deadline, a
// terminal bit, and the four callbacks the reactor and an I/O selector
// drive it with. Its back-reference to the owning
// reactor is weak: the children list is the only strong (owning) link.
type Selectable struct {
	attachments *Record

	fd    int
	hasFd bool

	deadlineMs  int64
	hasDeadline bool

	terminal bool

	onReadable func(s *Selectable)
	onWritable func(s *Selectable)
	onExpired  func(s *Selectable)
	onRelease  func(s *Selectable)

	context *weakRef // owning reactor, weak
}

var _ api.Selectable = (*Selectable)(nil)

func newSelectable() *Selectable {
	return &Selectable{attachments: newRecord(), fd: -1}
}

// Attachments returns the selectable's attachments record.
func (s *Selectable) Attachments() *Record { return s.attachments }

// Fd returns the OS descriptor, or -1 if none is set.
func (s *Selectable) Fd() int {
	if !s.hasFd {
		return -1
	}
	return s.fd
}

// SetFd attaches an OS descriptor for an I/O selector to watch.
func (s *Selectable) SetFd(fd int) {
	s.fd = fd
	s.hasFd = true
}

// Deadline returns the absolute deadline in monotonic milliseconds.
func (s *Selectable) Deadline() (int64, bool) {
	return s.deadlineMs, s.hasDeadline
}

// SetDeadline updates or clears the deadline.
func (s *Selectable) SetDeadline(ms int64, ok bool) {
	s.deadlineMs = ms
	s.hasDeadline = ok
}

// IsTerminal reports whether this selectable has declared itself done.
func (s *Selectable) IsTerminal() bool { return s.terminal }

// Terminate marks the selectable terminal. Idempotent.
func (s *Selectable) Terminate() { s.terminal = true }

// OnReadable installs the readable-readiness callback.
func (s *Selectable) OnReadable(cb func(*Selectable)) { s.onReadable = cb }

// OnWritable installs the writable-readiness callback.
func (s *Selectable) OnWritable(cb func(*Selectable)) { s.onWritable = cb }

// OnExpired installs the deadline-expiry callback.
func (s *Selectable) OnExpired(cb func(*Selectable)) { s.onExpired = cb }

// OnRelease installs the release callback, invoked once the selectable is
// removed from the owning reactor's children list.
func (s *Selectable) OnRelease(cb func(*Selectable)) { s.onRelease = cb }
