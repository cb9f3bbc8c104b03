//go:build !linux
// +build !linux

// File: reactor/wakeup_other.go
// Author: momentics <momentics@gmail.com>
//
// Portable fallback for Wakeup on platforms without eventfd. A host loop
// that owns a Selector with no descriptor to watch still needs a way to
// be woken; this variant exposes the same Notify/Close contract but
// signals a buffered channel instead of a file descriptor, so a host
// blocked in its own select/poll equivalent should select on C() too.

package reactor

// Wakeup is the non-Linux counterpart to wakeup_linux.go's eventfd
// version. It carries no OS descriptor: Selectable().Fd() always reports
// -1, and a host loop must additionally watch C() to be woken.
type Wakeup struct {
	sel *Selectable
	ch  chan struct{}
}

// NewWakeup registers a wakeup selectable on r and returns the handle a
// caller uses to signal it.
func NewWakeup(r *Reactor) (*Wakeup, error) {
	w := &Wakeup{ch: make(chan struct{}, 1)}
	w.sel = r.RegisterSelectable()
	r.UpdateSelectable(w.sel)
	return w, nil
}

// Selectable returns the underlying reactor-owned selectable.
func (w *Wakeup) Selectable() *Selectable { return w.sel }

// C returns the channel a host select loop should watch alongside its own
// I/O readiness source.
func (w *Wakeup) C() <-chan struct{} { return w.ch }

// Notify wakes a blocked host loop. Safe to call from any goroutine;
// redundant calls before the pending signal is drained are coalesced.
func (w *Wakeup) Notify() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

// Close is a no-op on this platform; present for interface parity with
// wakeup_linux.go.
func (w *Wakeup) Close() error { return nil }
