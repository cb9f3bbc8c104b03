// Package ioselector implements api.Selector, the host-driven I/O
// readiness facility a Reactor's Timeout() is sized for. The reactor core
// never imports this package directly: a host loop owns a Selector,
// calls reactor.Timeout() to size its Wait, and turns each returned
// ReadyFd into a SELECTABLE_UPDATED publish via Reactor.UpdateSelectable.
//
// Platform-specific implementations are chosen at compile time via build
// tags, the way momentics-hioload-ws's reactor package split
// epoll_reactor.go/iocp_reactor.go/reactor_stub.go. Each build-tagged
// file in this package provides its own New() (api.Selector, error).
package ioselector
