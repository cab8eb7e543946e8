//go:build linux
// +build linux

// File: reactor/conn_linux.go
// Per-connection read and write drain loops. The poll primitive only
// re-notifies on a state transition, so every dispatch drains until the
// socket would block before returning to the wait.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package reactor

import (
	"golang.org/x/sys/unix"

	"github.com/momentics/netreactor/api"
	"github.com/momentics/netreactor/core/stream"
)

// shuntIO performs one full drain of a connection after a readiness wakeup:
// reads first, then writes, each gated by its own stream predicate. Events
// for the connection are therefore queued in generation order, reads before
// writes.
func (r *Reactor) shuntIO(id api.ConnID, c *conn) {
	r.readDrain(id, c)
	r.writeDrain(id, c)
}

// readDrain pulls bytes from the socket into the inbound stream until the
// socket would block, the capacity threshold is reached, or the stream
// leaves its fillable states. A force-closed inbound stream keeps reading so
// the peer's natural end-of-stream can still be observed; whatever it reads
// is discarded. An I/O error is terminal for the direction and surfaces a
// Done event, unless the application already asked for the close.
func (r *Reactor) readDrain(id api.ConnID, c *conn) {
	for c.inbound.WantsFill() {
		n, err := unix.Read(c.sock, r.scratch)
		switch {
		case err == unix.EAGAIN:
			return

		case err != nil:
			r.log.Info().Uint64("id", uint64(id)).Err(err).Msg("read error")
			if c.inbound.State() == stream.AwaitingConfirmation {
				// The application already force-closed this direction; the
				// failure stands in for the awaited confirmation.
				c.inbound.Finish()
				return
			}
			c.inbound.Finish()
			r.pending.Add(api.Event{Kind: api.Done, Conn: id, Dir: api.Read})
			return

		case n == 0:
			// Natural end-of-stream.
			if c.inbound.State() == stream.AwaitingConfirmation {
				// The application already force-closed this direction; the
				// peer's end-of-stream is the awaited confirmation and needs
				// no further event.
				r.log.Debug().Uint64("id", uint64(id)).Msg("read confirmed closed")
				c.inbound.Finish()
				return
			}
			r.log.Debug().Uint64("id", uint64(id)).Msg("read end-of-stream")
			c.inbound.CloseDraining()
			r.pending.Add(api.Event{Kind: api.Done, Conn: id, Dir: api.Read})
			return

		default:
			if c.inbound.State() == stream.AwaitingConfirmation {
				// Discarding until the natural end shows up.
				continue
			}
			c.inbound.Append(r.scratch[:n])
			r.pending.Add(api.Event{Kind: api.Data, Conn: id})
		}
	}
}

// writeDrain pushes buffered outbound bytes to the socket until the buffer
// empties or the socket would block. Emptying a Draining buffer completes
// the direction: the flush the application asked for with its close has been
// delivered.
func (r *Reactor) writeDrain(id api.ConnID, c *conn) {
	for {
		buf, ok := c.outbound.Bytes()
		if !ok || len(buf) == 0 {
			return
		}
		n, err := unix.Write(c.sock, buf)
		switch {
		case err == unix.EAGAIN:
			return

		case err != nil:
			r.log.Info().Uint64("id", uint64(id)).Err(err).Msg("write error")
			c.outbound.Finish()
			r.pending.Add(api.Event{Kind: api.Done, Conn: id, Dir: api.Write})
			return

		case n == 0:
			// The peer's receiving side is gone.
			r.log.Info().Uint64("id", uint64(id)).Msg("write end-of-stream")
			c.outbound.Finish()
			r.pending.Add(api.Event{Kind: api.Done, Conn: id, Dir: api.Write})
			return

		default:
			c.outbound.Consume(n)
			r.pending.Add(api.Event{Kind: api.Data, Conn: id})
			if c.outbound.State() == stream.Draining && c.outbound.Len() == 0 {
				r.log.Debug().Uint64("id", uint64(id)).Msg("write flushed")
				c.outbound.Finish()
				r.pending.Add(api.Event{Kind: api.Done, Conn: id, Dir: api.Write})
				return
			}
		}
	}
}
