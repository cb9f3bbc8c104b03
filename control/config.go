// control/config.go
// Author: momentics <momentics@gmail.com>
//
// ConfigStore holds a reactor's hot-reloadable tunables (e.g.
// log.handler_dispatch, consulted by reactor.safeDispatch). SetConfig may be
// called from any goroutine, but listeners run synchronously on the calling
// goroutine: a reactor is single-threaded with no internal locking over its
// own fields, so a listener that touches reactor state (as reactor.New's
// does) must run on whichever goroutine SetConfig was called from, not on
// one this package spawns behind the caller's back.

package control

import (
	"sync"
)

// ConfigStore is a dynamic key/value map with atomic snapshot and listener support.
type ConfigStore struct {
	mu        sync.RWMutex
	config    map[string]any
	listeners []func()
}

// NewConfigStore initializes a new config store with empty data.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		config:    make(map[string]any),
		listeners: make([]func(), 0),
	}
}

// GetSnapshot returns a copy of all config values.
func (cs *ConfigStore) GetSnapshot() map[string]any {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	copy := make(map[string]any, len(cs.config))
	for k, v := range cs.config {
		copy[k] = v
	}
	return copy
}

// SetConfig merges new values, then invokes every registered listener
// synchronously, on the calling goroutine. The config map is fully updated
// and the store's own lock released before any listener runs, so a
// listener is free to call GetSnapshot without deadlocking, and a caller
// on the reactor's own goroutine (as reactor.New's listener expects) never
// hands reactor-state mutation off to a goroutine it doesn't own.
func (cs *ConfigStore) SetConfig(newCfg map[string]any) {
	cs.mu.Lock()
	for k, v := range newCfg {
		cs.config[k] = v
	}
	listeners := make([]func(), len(cs.listeners))
	copy(listeners, cs.listeners)
	cs.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// OnReload registers a listener hook called synchronously, on SetConfig's
// calling goroutine, whenever the config changes.
func (cs *ConfigStore) OnReload(fn func()) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}
