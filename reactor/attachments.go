// File: reactor/attachments.go
// Author: momentics <momentics@gmail.com>
//
// Attachments record and the weak-reactor-reference handle. Grounded on
// the key/value context store shape from momentics-hioload-ws's
// internal/session/context_store.go, simplified to the reactor's
// single-owner-goroutine model: no mutex, no TTL, no propagation flags --
// none of that applies to an attachments record that is only ever touched
// from the dispatch loop's own goroutine.

package reactor

import "github.com/corewire-labs/evreactor/api"

type attachmentKey int

const (
	keyHandler attachmentKey = iota
	keyReactor
	keyTerminated
)

// Record is the per-entity key->value attachments map every Connection,
// Session, Link, Delivery, Transport, Selectable, and Task carries. Three
// well-known keys are used internally (HANDLER, REACTOR, TERMINATED); a
// caller is free to ignore all three and use Record purely as attachments
// storage for its own purposes.
type Record struct {
	values map[attachmentKey]any
}

func newRecord() *Record {
	return &Record{values: make(map[attachmentKey]any, 2)}
}

// Handler returns the attached api.Handler, if one has been registered.
func (r *Record) Handler() (api.Handler, bool) {
	v, ok := r.values[keyHandler]
	if !ok {
		return nil, false
	}
	h, ok := v.(api.Handler)
	return h, ok
}

// SetHandler attaches a strong reference to h. Per the ownership rules,
// this is the one strong reference an entity's attachments hold.
func (r *Record) SetHandler(h api.Handler) {
	r.values[keyHandler] = h
}

func (r *Record) reactorRef() (*weakRef, bool) {
	v, ok := r.values[keyReactor]
	if !ok {
		return nil, false
	}
	w, ok := v.(*weakRef)
	return w, ok
}

func (r *Record) setReactorRef(w *weakRef) {
	r.values[keyReactor] = w
}

func (r *Record) hasTerminated() bool {
	_, ok := r.values[keyTerminated]
	return ok
}

func (r *Record) markTerminated() {
	r.values[keyTerminated] = struct{}{}
}

// weakRef is the opaque handle entities store instead of a bare *Reactor
// pointer. A language without
// built-in weak references models this as an arena handle with a
// generation check; here the "arena" is the single weakRef value the
// owning Reactor allocates for itself, and the "generation" collapses to
// one boolean flipped false once Stop() has fully drained the reactor.
// A stale lookup after that point returns (nil, false) instead of
// resurrecting a reactor that has logically terminated.
type weakRef struct {
	reactor *Reactor
	live    bool
}

// get resolves the weak reference, reporting whether the reactor it
// points to is still live.
func (w *weakRef) get() (*Reactor, bool) {
	if w == nil || !w.live {
		return nil, false
	}
	return w.reactor, true
}

// invalidate is called exactly once, from Reactor.Stop's first (and only
// effective) drain.
func (w *weakRef) invalidate() {
	w.live = false
}

// initReactorAttachment installs a weak REACTOR reference on record. This
// is the Go analogue of pni_record_init_reactor in the original source:
// the moment an externally-constructed entity becomes bound to the
// reactor that saw its INIT event.
func initReactorAttachment(record *Record, r *Reactor) {
	record.setReactorRef(r.self)
}
