// Package api
// Author: momentics
//
// Debug is the introspection contract a Reactor and ControlAdapter both
// satisfy, so a host can poll either one the same way.

package api

// Debug exposes runtime introspection for a reactor or adapter.
type Debug interface {
	// DumpState emits a snapshot of registered probe output for diagnostics.
	DumpState() map[string]any

	// RegisterProbe dynamically registers a new named debug probe.
	RegisterProbe(name string, fn func() any)
}
