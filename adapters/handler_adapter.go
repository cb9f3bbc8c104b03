// File: adapters/handler_adapter.go
// Package adapters
// Author: momentics <momentics@gmail.com>
//
// MiddlewareHandler and the standard middleware chain, updated to the
// reactor's api.Handler.Dispatch(ev *api.Event) error signature. A host
// wraps any handler it registers on an entity's attachments or as the
// reactor's root/global handler with these before calling SetHandler, the
// same pattern momentics-hioload-ws used for its own transport handlers.

package adapters

import (
	"log"

	"github.com/corewire-labs/evreactor/api"
)

// MiddlewareHandler wraps a base Handler and applies middleware in chain.
type MiddlewareHandler struct {
	handler    api.Handler
	middleware []func(api.Handler) api.Handler
}

// NewMiddlewareHandler creates a new MiddlewareHandler for the given base handler.
func NewMiddlewareHandler(handler api.Handler) *MiddlewareHandler {
	return &MiddlewareHandler{handler: handler}
}

// Use appends a middleware to the chain.
func (m *MiddlewareHandler) Use(mw func(api.Handler) api.Handler) *MiddlewareHandler {
	m.middleware = append(m.middleware, mw)
	return m
}

// Dispatch applies all middleware then calls the base handler.
func (m *MiddlewareHandler) Dispatch(ev *api.Event) error {
	handler := m.handler
	for i := len(m.middleware) - 1; i >= 0; i-- {
		handler = m.middleware[i](handler)
	}
	return handler.Dispatch(ev)
}

// LoggingMiddleware logs each handler invocation on entry, and logs any
// error the wrapped handler returns; a successful return is not logged.
func LoggingMiddleware(next api.Handler) api.Handler {
	return api.HandlerFunc(func(ev *api.Event) error {
		log.Printf("[handler] dispatching %s (class=%d)", ev.Type, ev.Class)
		err := next.Dispatch(ev)
		if err != nil {
			log.Printf("[handler] %s returned error: %v", ev.Type, err)
		}
		return err
	})
}

// RecoveryMiddleware recovers from panics in the wrapped handler, logs the
// recovered value, and returns a nil error. The reactor's own dispatch
// loop already guarantees recovery (reactor.go's safeDispatch), so this
// middleware matters mainly for handlers dispatched outside a Reactor,
// where safeDispatch does not apply.
func RecoveryMiddleware(next api.Handler) api.Handler {
	return api.HandlerFunc(func(ev *api.Event) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[handler] panic recovered dispatching %s: %v", ev.Type, r)
				err = nil
			}
		}()
		return next.Dispatch(ev)
	})
}

// MetricsMiddleware increments a "handler.dispatched" counter on every
// call, and a per-event-type counter alongside it.
func MetricsMiddleware(adapter *ControlAdapter) func(api.Handler) api.Handler {
	return func(next api.Handler) api.Handler {
		return api.HandlerFunc(func(ev *api.Event) error {
			state := adapter.DumpState()
			total, _ := state["handler.dispatched"].(int64)
			adapter.SetMetric("handler.dispatched", total+1)

			perType, _ := state["handler."+ev.Type.String()].(int64)
			adapter.SetMetric("handler."+ev.Type.String(), perType+1)

			return next.Dispatch(ev)
		})
	}
}
