// File: api/event.go
// Author: momentics <momentics@gmail.com>
//
// Event and EventType are the wire currency of the reactor: every readiness
// notification, timer maturity, and lifecycle transition is translated into
// one of these before it reaches a handler.

package api

import "strconv"

// EventType is a closed enumeration of event kinds the reactor can produce
// or forward. Values produced by an external transport/protocol layer are
// out of scope for this module but still flow through Event.Type as an
// opaque pass-through value (see EventType's zero value and the >= userBase
// convention below).
type EventType int

const (
	// EventNone is the zero value; never observed on a dispatched Event.
	EventNone EventType = iota

	EventReactorInit
	EventReactorQuiesced
	EventReactorFinal

	EventSelectableInit
	EventSelectableUpdated
	EventSelectableFinal

	EventConnectionInit
	EventConnectionFinal

	// EventTimerTask is emitted once per matured scheduled task.
	EventTimerTask

	// userBase is the first value available to a host application or
	// transport layer for its own pass-through event types. Keeping a gap
	// below it (rather than starting at 0) means new core event types can
	// be added here without colliding with anything a caller picked.
	userBase = 1000
)

// UserEventType allocates an EventType for caller-defined, pass-through
// events (e.g. AMQP frame events from a transport layer). The reactor
// never branches on these internally; they exist purely so a single
// EventType space can travel through one Collector.
func UserEventType(offset int) EventType {
	return EventType(int(userBase) + offset)
}

// String renders a human-readable name, falling back to a numeric tag for
// pass-through values a transport layer defined itself.
func (t EventType) String() string {
	switch t {
	case EventNone:
		return "NONE"
	case EventReactorInit:
		return "REACTOR_INIT"
	case EventReactorQuiesced:
		return "REACTOR_QUIESCED"
	case EventReactorFinal:
		return "REACTOR_FINAL"
	case EventSelectableInit:
		return "SELECTABLE_INIT"
	case EventSelectableUpdated:
		return "SELECTABLE_UPDATED"
	case EventSelectableFinal:
		return "SELECTABLE_FINAL"
	case EventConnectionInit:
		return "CONNECTION_INIT"
	case EventConnectionFinal:
		return "CONNECTION_FINAL"
	case EventTimerTask:
		return "TIMER_TASK"
	default:
		return "USER_EVENT(" + strconv.Itoa(int(t)) + ")"
	}
}

// EntityClass identifies the kind of context value an Event carries. It
// drives both handler resolution and the event->reactor lookup (both in
// reactor/resolve.go).
type EntityClass int

const (
	ClassNone EntityClass = iota
	ClassReactor
	ClassSelectable
	ClassTask
	ClassTransport
	ClassConnection
	ClassSession
	ClassLink
	ClassDelivery
)

// Event is an immutable record describing one unit of dispatchable work.
// The Context field holds whatever entity produced it (a *reactor.Reactor,
// a *reactor.Selectable, a *reactor.Task, or one of the AMQP-shaped entity
// types); callers type-assert on Class to know what to expect.
type Event struct {
	Type    EventType
	Class   EntityClass
	Context any
}
