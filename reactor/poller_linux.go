//go:build linux
// +build linux

// File: reactor/poller_linux.go
// Linux epoll(7) poll primitive with an eventfd wakeup source.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package reactor

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/netreactor/api"
)

// poller owns the epoll instance and the eventfd used to interrupt a
// blocking wait from another goroutine. All registrations are edge-triggered;
// the reactor re-arms interest before every wait, which also resets the edge
// state of still-ready descriptors.
type poller struct {
	epfd int
	evfd int
}

// newPoller creates the epoll instance and registers the eventfd wakeup
// source under the reserved identifier 0.
func newPoller() (*poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	evfd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		unix.Close(epfd)
		return nil, fmt.Errorf("eventfd create: %w", err)
	}
	p := &poller{epfd: epfd, evfd: evfd}
	if err := p.add(evfd, wakeID, true, false); err != nil {
		unix.Close(evfd)
		unix.Close(epfd)
		return nil, fmt.Errorf("register wakeup source: %w", err)
	}
	return p, nil
}

// epollEvent builds an edge-triggered epoll event carrying id as userdata.
// The identifier is packed into the Fd and Pad fields, which epoll treats as
// opaque payload.
func epollEvent(id api.ConnID, read, write bool) *unix.EpollEvent {
	flags := uint32(unix.EPOLLET)
	if read {
		flags |= unix.EPOLLIN
	}
	if write {
		flags |= unix.EPOLLOUT
	}
	return &unix.EpollEvent{
		Events: flags,
		Fd:     int32(uint32(id)),
		Pad:    int32(uint32(uint64(id) >> 32)),
	}
}

// eventID recovers the identifier packed by epollEvent.
func eventID(ev *unix.EpollEvent) api.ConnID {
	return api.ConnID(uint64(uint32(ev.Pad))<<32 | uint64(uint32(ev.Fd)))
}

// add registers fd with the given interest, tagged with id.
func (p *poller) add(fd int, id api.ConnID, read, write bool) error {
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, epollEvent(id, read, write))
}

// mod updates the interest of an already registered fd. Re-arming an
// edge-triggered registration also re-reports conditions that are still
// pending, so a socket left readable or writable is not lost.
func (p *poller) mod(fd int, id api.ConnID, read, write bool) error {
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, epollEvent(id, read, write))
}

// del removes fd from the poll set.
func (p *poller) del(fd int) error {
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

// wait blocks until at least one registered descriptor is ready and fills
// events. There is no timeout: the reactor has no timer wheel and relies on
// the wakeup source for external interruption.
func (p *poller) wait(events []unix.EpollEvent) (int, error) {
	for {
		n, err := unix.EpollWait(p.epfd, events, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("epoll wait: %w", err)
		}
		return n, nil
	}
}

// wake makes the pending or next wait return by bumping the eventfd.
// Safe to call from any goroutine.
func (p *poller) wake() error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	_, err := unix.Write(p.evfd, buf[:])
	if err == unix.EAGAIN {
		// Counter saturated: a wakeup is already pending.
		return nil
	}
	return err
}

// drainWakeup resets the eventfd counter after a wakeup fired.
func (p *poller) drainWakeup() {
	var buf [8]byte
	for {
		if _, err := unix.Read(p.evfd, buf[:]); err != nil {
			return
		}
	}
}

// close releases the epoll instance and the eventfd.
func (p *poller) close() error {
	unix.Close(p.evfd)
	return unix.Close(p.epfd)
}
