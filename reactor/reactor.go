// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Reactor is the root aggregate: collector, timer, children list, global
// and root handlers, and the mutable loop state.
// Algorithmically this is a direct, idiomatic-Go translation of
// proton-c/src/reactor/reactor.c's pn_reactor_process and friends, kept
// single-threaded and lock-free, with no internal locking. The surrounding
// config/metrics/debug wiring is adapted from momentics-hioload-ws's
// facade.go (New/Start/Stop shape) and control/ package.

package reactor

import (
	"log"
	"time"

	"github.com/corewire-labs/evreactor/api"
	"github.com/corewire-labs/evreactor/control"
)

// Reactor is the single long-lived owner in this design: it exclusively
// owns the collector, timer, root handler, and children list.
type Reactor struct {
	attachments *Record
	collector   *collector
	timer       *timer
	global      api.Handler
	handler     api.Handler
	children    []*Selectable
	timerSel    *Selectable
	self        *weakRef

	now         int64
	previous    api.EventType
	selectables int
	timeoutMs   int
	yield       bool
	stopped     bool

	connectionFinal func(*Connection)

	clock func() int64

	config  *control.ConfigStore
	metrics *control.MetricsRegistry
	debug   *control.DebugProbes

	dispatchCount int64
	quiesceCount  int64
	verbose       bool
}

var (
	_ api.GracefulShutdown = (*Reactor)(nil)
	_ api.Debug            = (*Reactor)(nil)
)

// Option configures a Reactor at construction time.
type Option func(*Reactor)

// WithClock overrides the monotonic clock Mark() consults. Tests use this
// to drive deterministic timer scenarios (see reactor/reactor_test.go).
func WithClock(fn func() int64) Option {
	return func(r *Reactor) { r.clock = fn }
}

// WithGlobalHandler overrides the handler invoked after the resolved
// handler on every event.
func WithGlobalHandler(h api.Handler) Option {
	return func(r *Reactor) { r.global = h }
}

// WithRootHandler overrides the fallback handler used when no
// more-specific entity in the walk carries one.
func WithRootHandler(h api.Handler) Option {
	return func(r *Reactor) { r.handler = h }
}

// WithConnectionFinalHook installs the externally-defined CONNECTION_FINAL
// cleanup routine (release transport selectables, detach from children).
// The dispatch loop guarantees it runs exactly once per connection, after
// user handlers have seen the event.
func WithConnectionFinalHook(fn func(*Connection)) Option {
	return func(r *Reactor) { r.connectionFinal = fn }
}

// noopHandler is the default global/root handler: a reactor with no
// registered handlers still runs to completion (scenario S1).
var noopHandler = api.HandlerFunc(func(*api.Event) error { return nil })

// New constructs a Reactor ready for Start().
func New(opts ...Option) *Reactor {
	r := &Reactor{
		attachments: newRecord(),
		collector:   newCollector(),
		timer:       newTimer(),
		handler:     noopHandler,
		global:      noopHandler,
		previous:    api.EventNone,
		clock:       func() int64 { return time.Now().UnixMilli() },
		config:      control.NewConfigStore(),
		metrics:     control.NewMetricsRegistry(),
		debug:       control.NewDebugProbes(),
	}
	r.self = &weakRef{reactor: r, live: true}
	for _, opt := range opts {
		opt(r)
	}

	control.RegisterPlatformProbes(r.debug)
	r.debug.RegisterProbe("reactor.selectables", func() any { return r.selectables })
	r.debug.RegisterProbe("reactor.timers_pending", func() any { return r.timer.tasks() })
	r.debug.RegisterProbe("reactor.dispatch_count", func() any { return r.dispatchCount })
	r.debug.RegisterProbe("reactor.quiesce_count", func() any { return r.quiesceCount })

	r.config.SetConfig(map[string]any{"log.handler_dispatch": false})
	r.config.OnReload(func() {
		snap := r.config.GetSnapshot()
		if v, ok := snap["log.handler_dispatch"].(bool); ok {
			r.verbose = v
		}
	})

	r.Mark()
	return r
}

// Attachments returns the reactor's own attachments record.
func (r *Reactor) Attachments() *Record { return r.attachments }

// Handler returns the root handler.
func (r *Reactor) Handler() api.Handler { return r.handler }

// SetHandler replaces the root handler.
func (r *Reactor) SetHandler(h api.Handler) { r.handler = h }

// Global returns the global handler invoked after every resolved handler.
func (r *Reactor) Global() api.Handler { return r.global }

// SetGlobal replaces the global handler.
func (r *Reactor) SetGlobal(h api.Handler) { r.global = h }

// Config exposes the reactor's hot-reloadable tunables.
func (r *Reactor) Config() *control.ConfigStore { return r.config }

// Stats returns a snapshot of runtime metrics.
func (r *Reactor) Stats() map[string]any { return r.metrics.GetSnapshot() }

// DumpState implements api.Debug.
func (r *Reactor) DumpState() map[string]any { return r.debug.DumpState() }

// RegisterProbe implements api.Debug.
func (r *Reactor) RegisterProbe(name string, fn func() any) { r.debug.RegisterProbe(name, fn) }

// Timeout reports the I/O timeout set by the last Work call, for a host
// loop's own selector invocation.
func (r *Reactor) Timeout() int { return r.timeoutMs }

// Mark refreshes `now` from the configured clock.
func (r *Reactor) Mark() { r.now = r.clock() }

// Now returns the reactor's current snapshot of the clock, as of the last
// Mark (only refreshed at process() entry).
func (r *Reactor) Now() int64 { return r.now }

// more reports whether the reactor still has potential work: pending
// timer tasks, or more than the always-present timer selectable.
func (r *Reactor) more() bool {
	return r.timer.tasks() > 0 || r.selectables > 1
}

// Yield requests that process() return after completing the in-flight
// dispatch. Honored only when there is a next event to dispatch; a yield
// requested between dispatch and the quiesce check is deliberately
// ignored so the reactor always completes its quiesce/final accounting.
func (r *Reactor) Yield() { r.yield = true }

// RegisterSelectable creates, publishes SELECTABLE_INIT for, and adds to
// the children list a new Selectable owned by this reactor.
func (r *Reactor) RegisterSelectable() *Selectable {
	sel := newSelectable()
	sel.context = r.self
	r.collector.Put(api.EventSelectableInit, api.ClassSelectable, sel)
	r.children = append(r.children, sel)
	r.selectables++
	return sel
}

// UpdateSelectable publishes SELECTABLE_UPDATED or, the first time the
// selectable reports terminal, SELECTABLE_FINAL. A selectable already
// marked terminated is a no-op (idempotent).
func (r *Reactor) UpdateSelectable(sel *Selectable) {
	if sel.attachments.hasTerminated() {
		return
	}
	if sel.IsTerminal() {
		sel.attachments.markTerminated()
		r.collector.Put(api.EventSelectableFinal, api.ClassSelectable, sel)
	} else {
		r.collector.Put(api.EventSelectableUpdated, api.ClassSelectable, sel)
	}
}

// Schedule computes deadline := now + delayMs, inserts a task into the
// timer heap, attaches a weak reactor reference and strong handler
// reference, and refreshes the timer selectable's deadline if one is
// registered.
func (r *Reactor) Schedule(delayMs int64, handler api.Handler) *Task {
	task := r.timer.schedule(r.now + delayMs)
	initReactorAttachment(task.Attachments(), r)
	task.Attachments().SetHandler(handler)
	if r.timerSel != nil {
		if d, ok := r.timer.deadline(); ok {
			r.timerSel.SetDeadline(d, true)
		}
		r.UpdateSelectable(r.timerSel)
	}
	return task
}

// newTimerSelectable registers the one internal selectable whose sole
// role is to carry the timer deadline.
func (r *Reactor) newTimerSelectable() *Selectable {
	sel := r.RegisterSelectable()
	sel.OnExpired(r.timerExpired)
	if d, ok := r.timer.deadline(); ok {
		sel.SetDeadline(d, true)
	}
	r.UpdateSelectable(sel)
	return sel
}

// timerExpired is the timer selectable's expired callback: tick the
// timer, emit one TIMER_TASK per matured task, refresh the deadline, and
// publish the resulting SELECTABLE_UPDATED.
func (r *Reactor) timerExpired(sel *Selectable) {
	for _, task := range r.timer.tick(r.now) {
		r.collector.Put(api.EventTimerTask, api.ClassTask, task)
	}
	if d, ok := r.timer.deadline(); ok {
		sel.SetDeadline(d, true)
	} else {
		sel.SetDeadline(0, false)
	}
	r.UpdateSelectable(sel)
}

// dispatchPre runs the pre-dispatch hook: binding a fresh connection to
// this reactor before any handler observes its CONNECTION_INIT.
func (r *Reactor) dispatchPre(ev *api.Event) {
	if ev.Type == api.EventConnectionInit {
		conn := ev.Context.(*Connection)
		initReactorAttachment(conn.Attachments(), r)
	}
}

// dispatchPost runs the post-dispatch hook: releasing a connection's
// resources once every handler has observed its CONNECTION_FINAL.
func (r *Reactor) dispatchPost(ev *api.Event) {
	if ev.Type == api.EventConnectionFinal {
		if r.connectionFinal != nil {
			r.connectionFinal(ev.Context.(*Connection))
		}
	}
}

// releaseIfSelectableFinal implements the children-list invariant: once a
// selectable has been dispatched as SELECTABLE_FINAL, it is removed from
// the children list and the count decremented exactly once, and its
// release callback (if any) runs.
func (r *Reactor) releaseIfSelectableFinal(ev *api.Event) {
	if ev.Type != api.EventSelectableFinal || ev.Class != api.ClassSelectable {
		return
	}
	sel := ev.Context.(*Selectable)
	for i, child := range r.children {
		if child == sel {
			r.children = append(r.children[:i], r.children[i+1:]...)
			r.selectables--
			break
		}
	}
	if sel.onRelease != nil {
		sel.onRelease(sel)
	}
}

// safeDispatch invokes h.Dispatch(ev), treating any error or panic as
// handled: a handler is expected to handle its own failures, so the
// reactor treats any outcome as success and proceeds. Grounded on
// adapters.RecoveryMiddleware, inlined here so the guarantee holds even
// for handlers a caller did not wrap themselves.
func (r *Reactor) safeDispatch(h api.Handler, ev *api.Event) {
	if h == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("reactor: handler panic recovered: %v", rec)
		}
	}()
	if r.verbose {
		log.Printf("reactor: dispatching %s to %T", ev.Type, h)
	}
	if err := h.Dispatch(ev); err != nil {
		log.Printf("reactor: handler returned error (treated as handled): %v", err)
	}
}

// process runs the dispatch loop. It returns true iff the reactor still
// has potential work, false iff it is fully drained and should terminate.
func (r *Reactor) process() bool {
	r.Mark()
	// The timer selectable is wholly internal (unlike a host's own fd-backed
	// selectables, nothing external ever drives its readiness), so process()
	// fires its expiry itself whenever enough wall-clock time has passed,
	// rather than requiring a host loop to police the reactor's own heap.
	if r.timerSel != nil {
		if d, ok := r.timerSel.Deadline(); ok && d <= r.now {
			r.timerExpired(r.timerSel)
		}
	}
	previous := api.EventNone // loop-local; resets every process() call
	for {
		ev := r.collector.Peek()
		if ev != nil {
			if r.yield {
				r.yield = false
				return true
			}
			// This second, unconditional clear mirrors the original C reactor's
			// dispatch routine exactly: by this point r.yield is always
			// already false, since the branch above already returned if it
			// was set. Preserved for behavioral fidelity even though it has
			// no observable effect here.
			r.yield = false

			r.dispatchPre(ev)
			handler := resolveHandler(ev, r.handler)
			r.safeDispatch(handler, ev)
			r.safeDispatch(r.global, ev)
			r.dispatchPost(ev)

			r.releaseIfSelectableFinal(ev)

			previous = ev.Type
			r.previous = ev.Type
			r.dispatchCount++
			r.metrics.Set("reactor.dispatch_count", r.dispatchCount)

			r.collector.Pop()
		} else if r.more() {
			// `previous` (this call) and `r.previous` (persists across
			// calls) diverge deliberately: the former suppresses two
			// QUIESCED events back to back within one process() call, the
			// latter suppresses QUIESCED after a FINAL seen in any earlier
			// call. Both variants are preserved from the original source.
			if previous != api.EventReactorQuiesced && r.previous != api.EventReactorFinal {
				r.collector.Put(api.EventReactorQuiesced, api.ClassReactor, r)
				r.quiesceCount++
				r.metrics.Set("reactor.quiesce_count", r.quiesceCount)
				continue
			}
			return true
		} else {
			if r.timerSel != nil {
				r.timerSel.Terminate()
				r.UpdateSelectable(r.timerSel)
				r.timerSel = nil
				continue
			}
			return false
		}
	}
}

// Start enqueues REACTOR_INIT and registers the timer selectable.
func (r *Reactor) Start() {
	r.collector.Put(api.EventReactorInit, api.ClassReactor, r)
	r.timerSel = r.newTimerSelectable()
}

// Work stores timeoutMs (for a host I/O selector's own Wait call) and
// runs one process() cycle.
func (r *Reactor) Work(timeoutMs int) bool {
	r.timeoutMs = timeoutMs
	return r.process()
}

// Run drives the reactor to completion using a fixed 1-second I/O
// timeout.
func (r *Reactor) Run() {
	r.Start()
	for r.Work(1000) {
	}
	r.Stop()
}

// Stop enqueues REACTOR_FINAL, drains it via process(), and releases the
// collector. Idempotent: the stopped flag is set before draining, so a
// handler that reentrantly calls Stop() during that drain observes it as
// already stopped and returns immediately.
func (r *Reactor) Stop() {
	if r.stopped {
		return
	}
	r.stopped = true
	r.collector.Put(api.EventReactorFinal, api.ClassReactor, r)
	r.process()
	r.collector.Release()
	r.self.invalidate()
}

// Shutdown implements api.GracefulShutdown by delegating to Stop.
func (r *Reactor) Shutdown() error {
	r.Stop()
	return nil
}
