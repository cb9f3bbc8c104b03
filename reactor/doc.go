// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor implements a single-threaded, cooperative event reactor:
// a central collector, a timer selectable, a registered-descriptor set,
// and a handler tree derived at dispatch time by walking the
// link -> session -> connection entity graph. One goroutine owns a
// Reactor for the duration of any process()/work() call; there is no
// internal locking.
package reactor
