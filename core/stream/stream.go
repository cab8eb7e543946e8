// File: core/stream/stream.go
// Package stream implements the per-direction buffering state machine.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package stream

import (
	"fmt"

	"github.com/bassosimone/runtimex"
)

// State is the lifecycle state of one direction of a connection.
type State uint8

const (
	// Open means the stream is actively accumulating (inbound) or awaiting
	// drain (outbound). Inbound streams additionally carry a capacity
	// threshold that suspends readiness once reached.
	Open State = iota

	// Draining means no new data will be accepted from the side that feeds
	// this buffer, but previously buffered bytes must still be delivered or
	// flushed before the stream can complete.
	Draining

	// AwaitingConfirmation means the application force-closed this direction
	// before its natural end was observed. Buffered bytes are discarded
	// immediately; the direction keeps participating in readiness so the
	// natural end-of-stream can still be observed.
	AwaitingConfirmation

	// Done is terminal: no further data, no further readiness interest.
	Done
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Draining:
		return "draining"
	case AwaitingConfirmation:
		return "awaiting-confirmation"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Stream owns one direction's pending bytes and lifecycle state.
//
// All mutating methods enforce the state machine's contracts by panicking on
// invalid transitions: such a call indicates a reactor or application bug,
// not a runtime condition, and continuing would operate on inconsistent
// state.
type Stream struct {
	state  State
	buf    []byte
	wanted int
}

// New returns an Open stream with an empty buffer and the given capacity
// threshold. The threshold only governs fill readiness; it is not a hard cap
// on buffer length.
func New(wanted int) *Stream {
	runtimex.Assert(wanted > 0)
	return &Stream{state: Open, wanted: wanted}
}

// State reports the current lifecycle state.
func (s *Stream) State() State { return s.state }

// IsDone reports whether the stream reached its terminal state.
func (s *Stream) IsDone() bool { return s.state == Done }

// Len returns the number of pending bytes. It is zero whenever the buffer is
// inaccessible (AwaitingConfirmation discards eagerly, Done holds nothing).
func (s *Stream) Len() int { return len(s.buf) }

// WantsFill reports whether the underlying source should be watched for
// readable readiness: an Open stream below its capacity threshold, or a
// force-closed stream that must keep observing the source to detect its
// natural end. Draining and Done streams never want fill readiness.
//
// The read drain loop uses the same predicate, so filling stops on its own
// once the threshold is reached (backpressure) or the stream leaves Open.
func (s *Stream) WantsFill() bool {
	switch s.state {
	case Open:
		return len(s.buf) < s.wanted
	case AwaitingConfirmation:
		return true
	default:
		return false
	}
}

// WantsFlush reports whether the underlying sink should be watched for
// writable readiness: any pending bytes, or a force-closed stream still
// awaiting its confirmation.
func (s *Stream) WantsFlush() bool {
	switch s.state {
	case Open, Draining:
		return len(s.buf) > 0
	case AwaitingConfirmation:
		return true
	default:
		return false
	}
}

// Bytes returns the pending byte sequence and whether it is accessible.
// Once a direction is force-closed or finished its buffer is no longer
// addressable and Bytes reports false.
func (s *Stream) Bytes() ([]byte, bool) {
	switch s.state {
	case Open, Draining:
		return s.buf, true
	default:
		return nil, false
	}
}

// Append adds bytes to the tail of the pending buffer, preserving order.
// The buffer must be accessible.
func (s *Stream) Append(p []byte) {
	if s.state != Open && s.state != Draining {
		panic(fmt.Sprintf("stream: append in state %s", s.state))
	}
	s.buf = append(s.buf, p...)
}

// Consume removes the first n bytes from the pending buffer, preserving the
// order of the remainder. The buffer must be accessible and n must not
// exceed Len.
func (s *Stream) Consume(n int) {
	if s.state != Open && s.state != Draining {
		panic(fmt.Sprintf("stream: consume in state %s", s.state))
	}
	runtimex.Assert(n >= 0 && n <= len(s.buf))
	s.buf = s.buf[:copy(s.buf, s.buf[n:])]
}

// CloseTruncating transitions Open or Draining to AwaitingConfirmation,
// discarding any buffered-but-undelivered bytes immediately. Calling it on a
// stream that is already AwaitingConfirmation or Done means the same
// direction was force-closed twice; that is a contract violation and panics.
func (s *Stream) CloseTruncating() {
	switch s.state {
	case Open, Draining:
		s.state = AwaitingConfirmation
		s.buf = nil
	default:
		panic(fmt.Sprintf("stream: truncating close in state %s", s.state))
	}
}

// CloseDraining transitions Open to Draining, preserving buffered bytes so
// they can still be flushed or delivered. It is invoked when the side that
// feeds this buffer reaches its natural end while the stream is still Open;
// any other starting state is a contract violation and panics.
func (s *Stream) CloseDraining() {
	if s.state != Open {
		panic(fmt.Sprintf("stream: draining close in state %s", s.state))
	}
	s.state = Draining
}

// Finish unconditionally transitions to Done, releasing the buffer. It is
// called when a drain reaches terminal success or an unrecoverable error.
func (s *Stream) Finish() {
	s.state = Done
	s.buf = nil
}
