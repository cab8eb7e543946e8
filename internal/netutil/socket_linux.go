//go:build linux
// +build linux

// File: internal/netutil/socket_linux.go
// Package netutil wraps the raw socket syscalls the reactor needs: creating
// nonblocking listening sockets, accepting nonblocking connections and the
// netip/sockaddr conversions in between.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package netutil

import (
	"fmt"
	"net/netip"

	"golang.org/x/sys/unix"
)

// ListenTCP opens a nonblocking, close-on-exec TCP listening socket bound to
// addr and returns its file descriptor together with the actually bound
// address (which differs from addr when port 0 was requested).
func ListenTCP(addr netip.AddrPort, backlog int) (int, netip.AddrPort, error) {
	family := unix.AF_INET6
	if addr.Addr().Is4() || addr.Addr().Is4In6() {
		family = unix.AF_INET
	}
	fd, err := unix.Socket(family, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return -1, netip.AddrPort{}, fmt.Errorf("socket create: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return -1, netip.AddrPort{}, fmt.Errorf("setsockopt SO_REUSEADDR: %w", err)
	}
	if err := unix.Bind(fd, sockaddr(addr)); err != nil {
		unix.Close(fd)
		return -1, netip.AddrPort{}, fmt.Errorf("bind %s: %w", addr, err)
	}
	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return -1, netip.AddrPort{}, fmt.Errorf("listen %s: %w", addr, err)
	}
	sa, err := unix.Getsockname(fd)
	if err != nil {
		unix.Close(fd)
		return -1, netip.AddrPort{}, fmt.Errorf("getsockname: %w", err)
	}
	return fd, addrPort(sa), nil
}

// Accept accepts one pending connection from a listening socket. The new
// socket is nonblocking and close-on-exec. A unix.EAGAIN error means the
// backlog is empty.
func Accept(lfd int) (int, error) {
	fd, _, err := unix.Accept4(lfd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		return -1, err
	}
	return fd, nil
}

// SetNoDelay disables Nagle's algorithm on a connected socket.
func SetNoDelay(fd int) error {
	return unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
}

// sockaddr converts a netip.AddrPort to the matching unix.Sockaddr.
func sockaddr(ap netip.AddrPort) unix.Sockaddr {
	if ap.Addr().Is4() || ap.Addr().Is4In6() {
		return &unix.SockaddrInet4{Port: int(ap.Port()), Addr: ap.Addr().As4()}
	}
	return &unix.SockaddrInet6{Port: int(ap.Port()), Addr: ap.Addr().As16()}
}

// addrPort converts a unix.Sockaddr back to a netip.AddrPort.
func addrPort(sa unix.Sockaddr) netip.AddrPort {
	switch sa := sa.(type) {
	case *unix.SockaddrInet4:
		return netip.AddrPortFrom(netip.AddrFrom4(sa.Addr), uint16(sa.Port))
	case *unix.SockaddrInet6:
		return netip.AddrPortFrom(netip.AddrFrom16(sa.Addr), uint16(sa.Port))
	default:
		return netip.AddrPort{}
	}
}
