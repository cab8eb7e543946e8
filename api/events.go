// File: api/events.go
// Package api defines core event types for netreactor.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "fmt"

// ConnID names a listener or connection inside the reactor's resource table.
//
// Identifiers are opaque, monotonically increasing and never reused while the
// resource is alive. ID 0 is reserved for the reactor's internal wakeup
// channel and is never surfaced to the application.
type ConnID uint64

// Direction selects one half of a full-duplex connection.
type Direction uint8

const (
	// Read is the inbound half: bytes flowing from the peer to the application.
	Read Direction = iota
	// Write is the outbound half: bytes flowing from the application to the peer.
	Write
)

// String returns "read" or "write".
func (d Direction) String() string {
	switch d {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// EventKind discriminates the event payloads produced by the reactor.
type EventKind uint8

const (
	// NewConnection reports a freshly accepted connection.
	NewConnection EventKind = iota + 1
	// Data reports that one of the connection's buffers changed: either new
	// inbound bytes arrived or buffered outbound bytes were flushed. The
	// application must re-check both sides.
	Data
	// Done reports that one direction of the connection reached its terminal
	// state; Dir says which one.
	Done
)

// String returns the lower-case kind name.
func (k EventKind) String() string {
	switch k {
	case NewConnection:
		return "new-connection"
	case Data:
		return "data"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("event(%d)", uint8(k))
	}
}

// Event is one pulled notification from the reactor. Events are plain values:
// once returned by Next they are owned by the caller and delivered exactly
// once.
//
// Dir is meaningful only when Kind is Done.
type Event struct {
	Kind EventKind
	Conn ConnID
	Dir  Direction
}

// String renders the event for logs and test failures.
func (e Event) String() string {
	if e.Kind == Done {
		return fmt.Sprintf("%s(%d, %s)", e.Kind, e.Conn, e.Dir)
	}
	return fmt.Sprintf("%s(%d)", e.Kind, e.Conn)
}
