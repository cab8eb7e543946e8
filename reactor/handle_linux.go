//go:build linux
// +build linux

// File: reactor/handle_linux.go
// The borrowed per-connection accessor through which applications read,
// write and close buffered connections.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package reactor

import (
	"fmt"

	"github.com/momentics/netreactor/api"
	"github.com/momentics/netreactor/core/stream"
)

// Handle is a short-lived view of one connection's buffers, bound to the
// identifier it was created for. It is a capability borrowed from the
// reactor for the duration of one dispatch: using it after the connection
// was removed, or touching a buffer its state no longer exposes, is a
// contract violation and panics.
type Handle struct {
	reactor *Reactor
	id      api.ConnID
}

// conn resolves the handle's identifier, failing fatally when it no longer
// names a live connection.
func (h Handle) conn() *conn {
	res, ok := h.reactor.resources[h.id]
	if !ok {
		panic(fmt.Sprintf("netreactor: handle for dead resource %d", h.id))
	}
	c, ok := res.(*conn)
	if !ok {
		panic(fmt.Sprintf("netreactor: handle for non-connection resource %d", h.id))
	}
	return c
}

// Bytes returns a read-only view of the inbound buffer's current contents.
// The view is invalidated by Consume and by the next reactor cycle.
func (h Handle) Bytes() []byte {
	buf, ok := h.conn().inbound.Bytes()
	if !ok {
		panic(fmt.Sprintf("netreactor: inbound buffer of %d is not accessible", h.id))
	}
	return buf
}

// Consume removes the first n bytes from the inbound buffer, freeing
// capacity and potentially re-enabling read readiness on the next cycle.
// n must not exceed the current buffered length.
func (h Handle) Consume(n int) {
	c := h.conn()
	if _, ok := c.inbound.Bytes(); !ok {
		panic(fmt.Sprintf("netreactor: inbound buffer of %d is not accessible", h.id))
	}
	c.inbound.Consume(n)
}

// Write appends bytes to the outbound buffer unconditionally: outbound
// buffering has no capacity check, callers needing bounded egress must
// throttle themselves.
func (h Handle) Write(p []byte) {
	c := h.conn()
	if _, ok := c.outbound.Bytes(); !ok {
		panic(fmt.Sprintf("netreactor: outbound buffer of %d is not accessible", h.id))
	}
	c.outbound.Append(p)
}

// Close initiates the connection's shutdown: the inbound direction is
// truncated (unread bytes discarded, the socket stays watched until the
// peer's natural end-of-stream is observed) and the outbound direction
// drains (bytes already queued are flushed, then the direction completes).
// A direction that already completed, for example after an I/O error, is
// left alone. Closing a connection twice is a contract violation and panics.
func (h Handle) Close() {
	c := h.reactor
	cn := h.conn()
	if cn.inbound.State() == stream.AwaitingConfirmation || cn.outbound.State() == stream.Draining {
		panic(fmt.Sprintf("netreactor: connection %d closed twice", h.id))
	}
	c.log.Debug().Uint64("id", uint64(h.id)).Msg("close requested")
	if !cn.inbound.IsDone() {
		cn.inbound.CloseTruncating()
	}
	if !cn.outbound.IsDone() {
		cn.outbound.CloseDraining()
		if cn.outbound.Len() == 0 {
			// Nothing was pending: the flush is already complete.
			cn.outbound.Finish()
			c.pending.Add(api.Event{Kind: api.Done, Conn: h.id, Dir: api.Write})
		}
	}
}
