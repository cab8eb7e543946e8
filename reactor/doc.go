// File: reactor/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package reactor implements a single-threaded, edge-triggered network
// reactor: an arbitrary number of listening sockets and accepted connections
// multiplexed over one epoll instance, surfaced to the application as a
// pull-based sequence of buffered events instead of raw readiness
// notifications.
//
// Exactly one goroutine drives a Reactor. The resource table, the buffers
// and the socket registrations are exclusively owned by that goroutine, so
// the package needs no internal locking; the only cross-thread touchpoints
// are Wake and the reserved command channel, both backed by an eventfd
// registered with the poll instance.
//
// Applications call Next to pull the next event and manipulate a
// connection's buffers through a short-lived Handle. Inbound buffering is
// bounded by the configured capacity threshold: once a connection buffers
// that much unread data the reactor stops requesting read readiness for it
// until the application consumes bytes. Outbound buffering is deliberately
// unbounded; callers that write faster than the peer drains accumulate
// memory without limit and must impose their own write throttling.
package reactor
