package reactor

import (
	"testing"

	"github.com/corewire-labs/evreactor/api"
)

func namedHandler(name string, sink *string) api.Handler {
	return api.HandlerFunc(func(*api.Event) error {
		*sink = name
		return nil
	})
}

func TestResolveHandlerMostSpecificWins(t *testing.T) {
	conn := NewConnection()
	sess := NewSession(conn)
	link := NewLink(sess)

	var sink string
	conn.Attachments().SetHandler(namedHandler("connection", &sink))
	sess.Attachments().SetHandler(namedHandler("session", &sink))
	link.Attachments().SetHandler(namedHandler("link", &sink))

	ev := &api.Event{Type: api.EventConnectionInit, Class: api.ClassLink, Context: link}
	h := resolveHandler(ev, nil)
	if h == nil {
		t.Fatal("expected a resolved handler")
	}
	_ = h.Dispatch(ev)
	if sink != "link" {
		t.Fatalf("expected link handler to win, got %q", sink)
	}
}

func TestResolveHandlerFallsBackToSession(t *testing.T) {
	conn := NewConnection()
	sess := NewSession(conn)
	link := NewLink(sess)

	var sink string
	sess.Attachments().SetHandler(namedHandler("session", &sink))

	ev := &api.Event{Class: api.ClassLink, Context: link}
	h := resolveHandler(ev, nil)
	_ = h.Dispatch(ev)
	if sink != "session" {
		t.Fatalf("expected session handler when link carries none, got %q", sink)
	}
}

func TestResolveHandlerFallsBackToFallback(t *testing.T) {
	conn := NewConnection()
	ev := &api.Event{Class: api.ClassConnection, Context: conn}

	var sink string
	fallback := namedHandler("fallback", &sink)
	h := resolveHandler(ev, fallback)
	_ = h.Dispatch(ev)
	if sink != "fallback" {
		t.Fatalf("expected fallback handler, got %q", sink)
	}
}

func TestResolveHandlerTaskAndSelectable(t *testing.T) {
	tm := newTimer()
	task := tm.schedule(0)
	var sink string
	task.Attachments().SetHandler(namedHandler("task", &sink))

	ev := &api.Event{Type: api.EventTimerTask, Class: api.ClassTask, Context: task}
	h := resolveHandler(ev, nil)
	_ = h.Dispatch(ev)
	if sink != "task" {
		t.Fatalf("expected task handler, got %q", sink)
	}

	sel := newSelectable()
	sel.Attachments().SetHandler(namedHandler("selectable", &sink))
	selEv := &api.Event{Type: api.EventSelectableUpdated, Class: api.ClassSelectable, Context: sel}
	h = resolveHandler(selEv, nil)
	_ = h.Dispatch(selEv)
	if sink != "selectable" {
		t.Fatalf("expected selectable handler, got %q", sink)
	}
}

func TestResolveReactorViaConnectionWalk(t *testing.T) {
	r := New()
	conn := NewConnection()
	initReactorAttachment(conn.Attachments(), r)
	sess := NewSession(conn)
	link := NewLink(sess)
	delivery := NewDelivery(link)

	ev := &api.Event{Class: api.ClassDelivery, Context: delivery}
	got, ok := resolveReactor(ev)
	if !ok || got != r {
		t.Fatal("expected resolveReactor to walk delivery->link->session->connection")
	}
}

func TestResolveReactorViaSelectable(t *testing.T) {
	r := New()
	sel := r.RegisterSelectable()
	ev := &api.Event{Class: api.ClassSelectable, Context: sel}
	got, ok := resolveReactor(ev)
	if !ok || got != r {
		t.Fatal("expected resolveReactor to resolve a selectable's owning reactor")
	}
}

func TestResolveReactorViaTransport(t *testing.T) {
	r := New()
	conn := NewConnection()
	transport := NewTransport(conn)
	initReactorAttachment(transport.Attachments(), r)

	// The transport's own weak reference must be read, not its
	// connection's -- a transport can be bound to a reactor before (or
	// without) its connection ever being.
	ev := &api.Event{Class: api.ClassTransport, Context: transport}
	got, ok := resolveReactor(ev)
	if !ok || got != r {
		t.Fatal("expected resolveReactor to read the transport's own reactor reference")
	}

	other := New()
	initReactorAttachment(conn.Attachments(), other)
	got, ok = resolveReactor(ev)
	if !ok || got != r {
		t.Fatal("expected the transport's own reference to take precedence over its connection's")
	}
}

func TestResolveReactorUnresolvableClass(t *testing.T) {
	ev := &api.Event{Class: api.ClassNone, Context: nil}
	if _, ok := resolveReactor(ev); ok {
		t.Fatal("expected ClassNone to be unresolvable")
	}
}
