//go:build linux
// +build linux

// File: reactor/wakeup_linux.go
// Author: momentics <momentics@gmail.com>
//
// Cross-goroutine wakeup selectable backed by an eventfd. Grounded on
// shaovie-goev's notify.go (Notify/NewNotify): a single eventfd read end
// registered as a Selectable, plus a Notify() any other goroutine may call
// to break the host loop out of its Selector.Wait. Unlike notify.go's
// direct syscall.Write, Notify here goes through golang.org/x/sys/unix per
// the rest of this package's I/O boundary.

package reactor

import (
	"encoding/binary"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/corewire-labs/evreactor/api"
)

// Wakeup is a thread-safe selectable a host installs once per reactor so
// other goroutines (producers, signal handlers, timers external to this
// process) can force a blocked Selector.Wait to return promptly, without
// the reactor's own state ever being touched from more than one goroutine.
type Wakeup struct {
	sel     *Selectable
	fd      int
	pending atomic.Bool
}

// NewWakeup registers a wakeup selectable on r and returns the handle a
// caller uses to signal it. Closing the reactor does not close the
// eventfd; call Close explicitly once the host loop has stopped watching
// it.
func NewWakeup(r *Reactor) (*Wakeup, error) {
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, api.NewError(api.ErrCodeResourceExhausted, "reactor: eventfd").
			WithContext("errno", err)
	}
	w := &Wakeup{fd: fd}
	w.sel = r.RegisterSelectable()
	w.sel.SetFd(fd)
	w.sel.OnReadable(w.drain)
	r.UpdateSelectable(w.sel)
	return w, nil
}

// Selectable returns the underlying reactor-owned selectable, for a host
// loop that registers descriptors with its own Selector by hand.
func (w *Wakeup) Selectable() *Selectable { return w.sel }

// Notify wakes a blocked Selector.Wait. Safe to call from any goroutine,
// any number of times; redundant calls before the pending signal is
// drained are coalesced into one wakeup, matching notify.go's
// notifyOnce guard.
func (w *Wakeup) Notify() {
	if !w.pending.CompareAndSwap(false, true) {
		return
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	for {
		_, err := unix.Write(w.fd, buf[:])
		if err == unix.EINTR {
			continue
		}
		return
	}
}

// drain is the selectable's OnReadable callback: consume the eventfd
// counter so the next Notify can re-arm it.
func (w *Wakeup) drain(*Selectable) {
	var buf [8]byte
	for {
		_, err := unix.Read(w.fd, buf[:])
		if err == unix.EINTR {
			continue
		}
		break
	}
	w.pending.Store(false)
}

// Close releases the eventfd. The selectable itself is terminated and
// released through the normal SELECTABLE_FINAL path by the caller marking
// it terminal and calling Reactor.UpdateSelectable.
func (w *Wakeup) Close() error {
	return unix.Close(w.fd)
}
