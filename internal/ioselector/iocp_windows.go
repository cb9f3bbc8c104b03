//go:build windows
// +build windows

// File: internal/ioselector/iocp_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows IOCP-backed api.Selector. Grounded on momentics-hioload-ws's
// reactor/iocp_reactor.go, moved onto golang.org/x/sys/windows. IOCP is
// fundamentally a completion facility, not a readiness one: Register here
// only associates a handle with the port, and each ReadyFd this Wait
// reports corresponds to one completion packet a caller's own overlapped
// I/O posted against that handle -- the prior iocp_reactor.go this is
// based on made the same simplifying choice, describing itself as a
// "demo skeleton", and this carries the same scope.
package ioselector

import (
	"fmt"
	"sync"

	"golang.org/x/sys/windows"

	"github.com/corewire-labs/evreactor/api"
)

type iocpSelector struct {
	port windows.Handle

	mu      sync.Mutex
	keyToFd map[uint32]int
	fdToKey map[int]uint32
	nextKey uint32
}

var _ api.Selector = (*iocpSelector)(nil)

// New constructs the Windows Selector.
func New() (api.Selector, error) {
	port, err := windows.CreateIoCompletionPort(windows.InvalidHandle, 0, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("ioselector: CreateIoCompletionPort: %w", err)
	}
	return &iocpSelector{
		port:    port,
		keyToFd: make(map[uint32]int),
		fdToKey: make(map[int]uint32),
	}, nil
}

// Register associates fd's handle with the completion port. readable and
// writable are accepted for interface symmetry with epollSelector but do
// not change IOCP's behavior: readiness there is inherent to whichever
// overlapped operation the caller posts.
func (s *iocpSelector) Register(fd int, readable, writable bool) error {
	s.mu.Lock()
	if _, already := s.fdToKey[fd]; already {
		s.mu.Unlock()
		return nil
	}
	s.nextKey++
	key := s.nextKey
	s.fdToKey[fd] = key
	s.keyToFd[key] = fd
	s.mu.Unlock()

	handle := windows.Handle(fd)
	if _, err := windows.CreateIoCompletionPort(handle, s.port, uintptr(key), 0); err != nil {
		return fmt.Errorf("ioselector: associate handle: %w", err)
	}
	return nil
}

// Unregister drops the key mapping for fd. The handle itself is detached
// from the port only when it is closed; Windows provides no explicit
// disassociate call.
func (s *iocpSelector) Unregister(fd int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.fdToKey[fd]
	if !ok {
		return nil
	}
	delete(s.fdToKey, fd)
	delete(s.keyToFd, key)
	return nil
}

// Wait blocks for up to one completion packet and reports the fd it
// belongs to as readable. A caller must have posted overlapped I/O
// against that handle for a completion to ever arrive.
func (s *iocpSelector) Wait(timeoutMs int) ([]api.ReadyFd, error) {
	var bytes uint32
	var key uintptr
	var overlapped *windows.Overlapped

	timeout := uint32(windows.INFINITE)
	if timeoutMs >= 0 {
		timeout = uint32(timeoutMs)
	}

	err := windows.GetQueuedCompletionStatus(s.port, &bytes, &key, &overlapped, timeout)
	if err != nil {
		if err == windows.WAIT_TIMEOUT {
			return nil, nil
		}
		return nil, fmt.Errorf("ioselector: GetQueuedCompletionStatus: %w", err)
	}

	s.mu.Lock()
	fd, ok := s.keyToFd[uint32(key)]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return []api.ReadyFd{{Fd: fd, Readable: true}}, nil
}

// Close releases the completion port.
func (s *iocpSelector) Close() error {
	return windows.CloseHandle(s.port)
}
