// File: core/stream/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package stream implements the per-direction buffering state machine used by
// the reactor: a FIFO of pending bytes plus a four-state lifecycle that
// separates "stop accepting new data" from "still must flush or observe what
// is already pending".
//
// A stream is exclusively owned by its connection and is never touched
// concurrently; the package performs no I/O and no locking.
package stream
