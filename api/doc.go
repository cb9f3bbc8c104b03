// Package api defines the contracts the reactor core consumes and exposes:
// the event collector, the registered selectable, the I/O selector driven
// by a host loop, and the opaque handler. Concrete implementations live in
// package reactor (collector, selectable)
// and internal/ioselector (I/O selector); api holds only the contracts so
// they can be mocked independently in tests.
package api
