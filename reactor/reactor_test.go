package reactor

import (
	"testing"

	"github.com/corewire-labs/evreactor/api"
)

// TestReactorRunsToCompletionWithNoWork covers scenario S1: a reactor with
// no registered handlers and no scheduled work still drains cleanly.
func TestReactorRunsToCompletionWithNoWork(t *testing.T) {
	r := New()
	r.Start()
	for i := 0; i < 10 && r.Work(0); i++ {
	}
	if r.Work(0) {
		t.Fatal("expected the reactor to be fully drained")
	}
	r.Stop()
}

// TestReactorDispatchesToGlobalHandler verifies every event reaches the
// global handler in addition to whichever handler resolution picked.
func TestReactorDispatchesToGlobalHandler(t *testing.T) {
	var types []api.EventType
	global := api.HandlerFunc(func(ev *api.Event) error {
		types = append(types, ev.Type)
		return nil
	})
	r := New(WithGlobalHandler(global))
	r.Start()
	for r.Work(0) {
	}
	r.Stop()

	if len(types) == 0 {
		t.Fatal("expected the global handler to see at least one event")
	}
	if types[0] != api.EventReactorInit {
		t.Fatalf("expected REACTOR_INIT first, got %s", types[0])
	}
	if types[len(types)-1] != api.EventReactorFinal {
		t.Fatalf("expected REACTOR_FINAL last, got %s", types[len(types)-1])
	}
}

// TestReactorConnectionHandlerBinding verifies CONNECTION_INIT binds a
// weak reactor reference before any handler observes the event, and that
// a connection's own handler takes precedence over the root handler.
func TestReactorConnectionHandlerBinding(t *testing.T) {
	var sawViaConnHandler, sawViaRoot bool
	r := New(WithRootHandler(api.HandlerFunc(func(ev *api.Event) error {
		sawViaRoot = true
		return nil
	})))

	conn := NewConnection()
	conn.Attachments().SetHandler(api.HandlerFunc(func(ev *api.Event) error {
		sawViaConnHandler = true
		if _, ok := reactorFromRecord(conn.Attachments()); !ok {
			t.Error("expected the connection to already carry a resolvable reactor reference")
		}
		return nil
	}))

	r.Start()
	r.collector.Put(api.EventConnectionInit, api.ClassConnection, conn)
	for r.Work(0) {
	}
	r.Stop()

	if !sawViaConnHandler {
		t.Fatal("expected the connection's own handler to see CONNECTION_INIT")
	}
	if sawViaRoot {
		t.Fatal("root handler must not run when a more specific handler exists")
	}
}

// TestReactorConnectionFinalHook verifies the post-dispatch cleanup hook
// runs exactly once, after user handlers have already observed the event.
func TestReactorConnectionFinalHook(t *testing.T) {
	var order []string
	var hookConn *Connection
	r := New(WithConnectionFinalHook(func(c *Connection) {
		order = append(order, "hook")
		hookConn = c
	}))

	conn := NewConnection()
	conn.Attachments().SetHandler(api.HandlerFunc(func(ev *api.Event) error {
		if ev.Type == api.EventConnectionFinal {
			order = append(order, "handler")
		}
		return nil
	}))

	r.Start()
	r.collector.Put(api.EventConnectionFinal, api.ClassConnection, conn)
	for r.Work(0) {
	}
	r.Stop()

	if len(order) != 2 || order[0] != "handler" || order[1] != "hook" {
		t.Fatalf("expected handler before hook, got %v", order)
	}
	if hookConn != conn {
		t.Fatal("expected the hook to receive the connection that finalized")
	}
}

// TestReactorScheduleFiresTimerTask exercises the timer selectable path:
// schedule, quiesce, tick, dispatch.
func TestReactorScheduleFiresTimerTask(t *testing.T) {
	now := int64(0)
	r := New(WithClock(func() int64 { return now }))

	var fired bool
	taskHandler := api.HandlerFunc(func(ev *api.Event) error {
		fired = true
		return nil
	})

	r.Start()
	task := r.Schedule(100, taskHandler)
	if task.Deadline() != 100 {
		t.Fatalf("expected deadline 100, got %d", task.Deadline())
	}

	for r.Work(0) {
		if fired {
			break
		}
		now += 10
	}
	r.Stop()

	if !fired {
		t.Fatal("expected the scheduled task's handler to fire")
	}
}

// TestReactorYieldStopsBeforeNextEvent verifies Yield() takes effect only
// on the next iteration, after the in-flight event finishes dispatching.
func TestReactorYieldStopsBeforeNextEvent(t *testing.T) {
	var dispatched []api.EventType
	r := New()

	conn := NewConnection()
	conn.Attachments().SetHandler(api.HandlerFunc(func(ev *api.Event) error {
		dispatched = append(dispatched, ev.Type)
		if ev.Type == api.EventConnectionInit {
			r.Yield()
		}
		return nil
	}))

	r.collector.Put(api.EventConnectionInit, api.ClassConnection, conn)
	r.collector.Put(api.EventConnectionFinal, api.ClassConnection, conn)

	stillWork := r.process()
	if !stillWork {
		t.Fatal("expected process() to report more work pending after a yield")
	}
	if len(dispatched) != 1 || dispatched[0] != api.EventConnectionInit {
		t.Fatalf("expected only CONNECTION_INIT dispatched before yield, got %v", dispatched)
	}
	if next := r.collector.Peek(); next == nil || next.Type != api.EventConnectionFinal {
		t.Fatal("expected CONNECTION_FINAL to remain queued after the yield")
	}
}

// TestReactorSelectableLifecycle covers registration, update, and the
// exactly-once release on SELECTABLE_FINAL.
func TestReactorSelectableLifecycle(t *testing.T) {
	r := New()
	sel := r.RegisterSelectable()

	released := 0
	sel.OnRelease(func(*Selectable) { released++ })

	before := r.selectables
	sel.Terminate()
	r.UpdateSelectable(sel)
	// A second UpdateSelectable on an already-terminated selectable must
	// be a no-op, not a second SELECTABLE_FINAL.
	r.UpdateSelectable(sel)

	for r.collector.Peek() != nil {
		ev := r.collector.Peek()
		r.releaseIfSelectableFinal(ev)
		r.collector.Pop()
	}

	if released != 1 {
		t.Fatalf("expected exactly one release, got %d", released)
	}
	if r.selectables != before-1 {
		t.Fatalf("expected selectable count to drop by one, got before=%d after=%d", before, r.selectables)
	}
	for _, c := range r.children {
		if c == sel {
			t.Fatal("expected the terminated selectable removed from children")
		}
	}
}

// TestReactorStopIsIdempotent covers scenario S6.
func TestReactorStopIsIdempotent(t *testing.T) {
	var finals int
	r := New(WithGlobalHandler(api.HandlerFunc(func(ev *api.Event) error {
		if ev.Type == api.EventReactorFinal {
			finals++
		}
		return nil
	})))
	r.Start()
	for r.Work(0) {
	}
	r.Stop()
	r.Stop() // must be a no-op
	r.Stop() // and again

	if finals != 1 {
		t.Fatalf("expected exactly one REACTOR_FINAL across repeated Stop calls, got %d", finals)
	}
}

// TestReactorHandlerPanicIsRecovered verifies a panicking handler does not
// abort dispatch of subsequent events.
func TestReactorHandlerPanicIsRecovered(t *testing.T) {
	var secondSeen bool
	r := New()
	conn := NewConnection()
	conn.Attachments().SetHandler(api.HandlerFunc(func(ev *api.Event) error {
		panic("boom")
	}))

	other := NewConnection()
	other.Attachments().SetHandler(api.HandlerFunc(func(ev *api.Event) error {
		secondSeen = true
		return nil
	}))

	r.collector.Put(api.EventConnectionInit, api.ClassConnection, conn)
	r.collector.Put(api.EventConnectionInit, api.ClassConnection, other)

	r.process()

	if !secondSeen {
		t.Fatal("expected dispatch to continue past a panicking handler")
	}
}
