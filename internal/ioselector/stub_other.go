//go:build !linux && !windows
// +build !linux,!windows

// File: internal/ioselector/stub_other.go
// Author: momentics <momentics@gmail.com>
//
// Stub Selector for platforms without an epoll or IOCP implementation.
// Grounded on momentics-hioload-ws's reactor_stub.go: a host may still use
// the reactor core purely for timers and user events on these platforms,
// it just cannot obtain a working Selector for OS descriptors.

package ioselector

import (
	"errors"

	"github.com/corewire-labs/evreactor/api"
)

// New reports that no Selector is available on this platform.
func New() (api.Selector, error) {
	return nil, errors.New("ioselector: this platform is not supported")
}
