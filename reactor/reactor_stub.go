//go:build !linux
// +build !linux

// File: reactor/reactor_stub.go
// Stub implementation for platforms without epoll support.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package reactor

import (
	"net/netip"

	"github.com/momentics/netreactor/api"
)

// Reactor is not available on this platform.
type Reactor struct{}

// New returns api.ErrNotSupported: the reactor requires Linux epoll.
func New(cfg Config) (*Reactor, error) {
	return nil, api.ErrNotSupported
}

// Listen is not available on this platform.
func (r *Reactor) Listen(addr string) (netip.AddrPort, error) {
	return netip.AddrPort{}, api.ErrNotSupported
}

// Next is not available on this platform.
func (r *Reactor) Next() (api.Event, error) {
	return api.Event{}, api.ErrNotSupported
}

// Handle is not available on this platform.
func (r *Reactor) Handle(id api.ConnID) Handle {
	panic(api.ErrNotSupported)
}

// Wake is not available on this platform.
func (r *Reactor) Wake() error { return api.ErrNotSupported }

// Close is a no-op on this platform.
func (r *Reactor) Close() error { return nil }

// Handle is the per-connection accessor; it cannot be obtained on this
// platform.
type Handle struct{}

// Bytes is not available on this platform.
func (h Handle) Bytes() []byte { panic(api.ErrNotSupported) }

// Consume is not available on this platform.
func (h Handle) Consume(n int) { panic(api.ErrNotSupported) }

// Write is not available on this platform.
func (h Handle) Write(p []byte) { panic(api.ErrNotSupported) }

// Close is not available on this platform.
func (h Handle) Close() { panic(api.ErrNotSupported) }
