//go:build linux
// +build linux

// File: reactor/resource_linux.go
// The resource table's tagged union: every table entry is either a listener
// or a connection.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package reactor

import (
	"github.com/momentics/netreactor/core/stream"
)

// resource is the sealed union of the two resource kinds owned by the
// reactor. Dispatch sites type-switch over it exhaustively; a third
// implementation is a programming error.
type resource interface {
	fd() int
}

// listener wraps a bound, nonblocking listening socket. It never changes
// state after creation; accepted only counts connections for fairness
// bookkeeping and logs.
type listener struct {
	sock     int
	accepted uint64
}

func (l *listener) fd() int { return l.sock }

// conn pairs a nonblocking duplex socket with its two buffered streams. The
// connection is eligible for removal from the resource table exactly when
// both streams are Done.
type conn struct {
	sock     int
	inbound  *stream.Stream
	outbound *stream.Stream
}

func (c *conn) fd() int { return c.sock }

// finished reports whether both directions reached their terminal state.
func (c *conn) finished() bool {
	return c.inbound.IsDone() && c.outbound.IsDone()
}
