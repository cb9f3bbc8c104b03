// File: adapters/control_adapter.go
// Package adapters
// Author: momentics <momentics@gmail.com>
//
// ControlAdapter bundles the three control primitives (config, metrics,
// debug probes) behind one value a reactor host can pass around instead
// of threading three separate pointers everywhere. reactor.Reactor keeps
// its own private instances for its own bookkeeping (reactor.go); this
// adapter is for host-level concerns layered on top -- e.g. a handler
// middleware chain's own counters, reported alongside the reactor's.

package adapters

import (
	"github.com/corewire-labs/evreactor/api"
	"github.com/corewire-labs/evreactor/control"
)

// ControlAdapter satisfies api.Debug and api.GracefulShutdown so it can be
// registered anywhere those contracts are expected.
type ControlAdapter struct {
	config  *control.ConfigStore
	metrics *control.MetricsRegistry
	debug   *control.DebugProbes
}

var (
	_ api.Debug            = (*ControlAdapter)(nil)
	_ api.GracefulShutdown = (*ControlAdapter)(nil)
)

// NewControlAdapter builds a ControlAdapter with platform debug probes
// already registered.
func NewControlAdapter() *ControlAdapter {
	a := &ControlAdapter{
		config:  control.NewConfigStore(),
		metrics: control.NewMetricsRegistry(),
		debug:   control.NewDebugProbes(),
	}
	control.RegisterPlatformProbes(a.debug)
	return a
}

// GetConfig returns a snapshot of the current configuration.
func (c *ControlAdapter) GetConfig() map[string]any {
	return c.config.GetSnapshot()
}

// SetConfig merges new values and fires reload listeners.
func (c *ControlAdapter) SetConfig(cfg map[string]any) {
	c.config.SetConfig(cfg)
}

// OnReload registers a listener fired synchronously, on SetConfig's
// calling goroutine, whenever the config changes.
func (c *ControlAdapter) OnReload(fn func()) {
	c.config.OnReload(fn)
}

// SetMetric records a named metric value.
func (c *ControlAdapter) SetMetric(key string, value any) {
	c.metrics.Set(key, value)
}

// DumpState implements api.Debug, combining metrics and debug probe
// output into one namespaced map.
func (c *ControlAdapter) DumpState() map[string]any {
	combined := make(map[string]any)
	for k, v := range c.metrics.GetSnapshot() {
		combined[k] = v
	}
	for k, v := range c.debug.DumpState() {
		combined["debug."+k] = v
	}
	return combined
}

// RegisterProbe implements api.Debug.
func (c *ControlAdapter) RegisterProbe(name string, fn func() any) {
	c.debug.RegisterProbe(name, fn)
}

// Shutdown implements api.GracefulShutdown; a bare ControlAdapter holds no
// resources that need releasing, so this always succeeds.
func (c *ControlAdapter) Shutdown() error {
	return nil
}
