//go:build linux
// +build linux

// File: internal/ioselector/epoll_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll-backed api.Selector. Grounded on momentics-hioload-ws's
// reactor/epoll_reactor.go for the Register/Unregister/Close shape, moved
// onto golang.org/x/sys/unix instead of the standard library's syscall
// package.

package ioselector

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/corewire-labs/evreactor/api"
)

type epollSelector struct {
	epfd int

	mu       sync.Mutex
	interest map[int]struct{}
}

var _ api.Selector = (*epollSelector)(nil)

// New constructs the Linux Selector.
func New() (api.Selector, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("ioselector: epoll_create1: %w", err)
	}
	return &epollSelector{epfd: epfd, interest: make(map[int]struct{})}, nil
}

// Register begins watching fd for the given interest set.
func (s *epollSelector) Register(fd int, readable, writable bool) error {
	var ev unix.EpollEvent
	if readable {
		ev.Events |= unix.EPOLLIN
	}
	if writable {
		ev.Events |= unix.EPOLLOUT
	}
	ev.Fd = int32(fd)

	s.mu.Lock()
	_, already := s.interest[fd]
	s.mu.Unlock()

	op := unix.EPOLL_CTL_ADD
	if already {
		op = unix.EPOLL_CTL_MOD
	}
	if err := unix.EpollCtl(s.epfd, op, fd, &ev); err != nil {
		return fmt.Errorf("ioselector: epoll_ctl: %w", err)
	}

	s.mu.Lock()
	s.interest[fd] = struct{}{}
	s.mu.Unlock()
	return nil
}

// Unregister stops watching fd. Idempotent.
func (s *epollSelector) Unregister(fd int) error {
	s.mu.Lock()
	_, ok := s.interest[fd]
	delete(s.interest, fd)
	s.mu.Unlock()
	if !ok {
		return nil
	}
	if err := unix.EpollCtl(s.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("ioselector: epoll_ctl del: %w", err)
	}
	return nil
}

// Wait blocks up to timeoutMs and returns the fds that became ready.
func (s *epollSelector) Wait(timeoutMs int) ([]api.ReadyFd, error) {
	const maxEvents = 256
	var raw [maxEvents]unix.EpollEvent

	n, err := unix.EpollWait(s.epfd, raw[:], timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, fmt.Errorf("ioselector: epoll_wait: %w", err)
	}

	ready := make([]api.ReadyFd, 0, n)
	for i := 0; i < n; i++ {
		ev := raw[i]
		ready = append(ready, api.ReadyFd{
			Fd:       int(ev.Fd),
			Readable: ev.Events&unix.EPOLLIN != 0,
			Writable: ev.Events&unix.EPOLLOUT != 0,
			Error:    ev.Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0,
		})
	}
	return ready, nil
}

// Close releases the epoll descriptor.
func (s *epollSelector) Close() error {
	return unix.Close(s.epfd)
}
