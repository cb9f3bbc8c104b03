// File: reactor/resolve.go
// Author: momentics <momentics@gmail.com>
//
// resolveHandler and resolveReactor are pure functions over the entity
// graph, exposed separately from the dispatch loop so the walk itself is
// unit testable without a running reactor. Grounded on
// pn_event_handler/pn_event_reactor in proton-c/src/reactor/reactor.c.

package reactor

import "github.com/corewire-labs/evreactor/api"

// eventLink returns the link associated with ev, if any. A delivery
// event's link is its owning link; a link event's link is itself.
func eventLink(ev *api.Event) (*Link, bool) {
	switch ev.Class {
	case api.ClassLink:
		return ev.Context.(*Link), true
	case api.ClassDelivery:
		return ev.Context.(*Delivery).Link(), true
	default:
		return nil, false
	}
}

// eventSession returns the session associated with ev, if any.
func eventSession(ev *api.Event) (*Session, bool) {
	if l, ok := eventLink(ev); ok {
		return l.Session(), true
	}
	if ev.Class == api.ClassSession {
		return ev.Context.(*Session), true
	}
	return nil, false
}

// eventConnection returns the connection associated with ev, if any.
func eventConnection(ev *api.Event) (*Connection, bool) {
	if s, ok := eventSession(ev); ok {
		return s.Connection(), true
	}
	switch ev.Class {
	case api.ClassConnection:
		return ev.Context.(*Connection), true
	case api.ClassTransport:
		return ev.Context.(*Transport).Connection(), true
	default:
		return nil, false
	}
}

// resolveHandler implements the most-specific-wins
// walk: link, then session, then connection, then task/selectable,
// falling back to fallback (the reactor's root handler) when nothing
// more specific carries a HANDLER attachment.
func resolveHandler(ev *api.Event, fallback api.Handler) api.Handler {
	if l, ok := eventLink(ev); ok {
		if h, ok := l.Attachments().Handler(); ok {
			return h
		}
	}
	if s, ok := eventSession(ev); ok {
		if h, ok := s.Attachments().Handler(); ok {
			return h
		}
	}
	if c, ok := eventConnection(ev); ok {
		if h, ok := c.Attachments().Handler(); ok {
			return h
		}
	}
	switch ev.Class {
	case api.ClassTask:
		if h, ok := ev.Context.(*Task).Attachments().Handler(); ok {
			return h
		}
	case api.ClassSelectable:
		if h, ok := ev.Context.(*Selectable).Attachments().Handler(); ok {
			return h
		}
	}
	return fallback
}

// reactorFromRecord reads the weak REACTOR attachment off record.
func reactorFromRecord(record *Record) (*Reactor, bool) {
	ref, ok := record.reactorRef()
	if !ok {
		return nil, false
	}
	return ref.get()
}

// resolveReactor implements the event->reactor lookup table from
// the event's attachments chain.
func resolveReactor(ev *api.Event) (*Reactor, bool) {
	switch ev.Class {
	case api.ClassReactor:
		r, ok := ev.Context.(*Reactor)
		return r, ok
	case api.ClassTask:
		return reactorFromRecord(ev.Context.(*Task).Attachments())
	case api.ClassTransport:
		return reactorFromRecord(ev.Context.(*Transport).Attachments())
	case api.ClassDelivery, api.ClassLink, api.ClassSession, api.ClassConnection:
		conn := connectionOf(ev.Class, ev.Context)
		if conn == nil {
			return nil, false
		}
		return reactorFromRecord(conn.Attachments())
	case api.ClassSelectable:
		sel := ev.Context.(*Selectable)
		return sel.context.get()
	default:
		return nil, false
	}
}
