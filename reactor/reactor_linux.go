//go:build linux
// +build linux

// File: reactor/reactor_linux.go
// The reactor core: resource table, identifier allocation, the poll cycle
// and the pull API.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package reactor

import (
	"fmt"
	"math"
	"net/netip"

	"github.com/eapache/queue"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/momentics/netreactor/api"
	"github.com/momentics/netreactor/core/stream"
	"github.com/momentics/netreactor/internal/netutil"
)

// wakeID is the reserved identifier of the internal wakeup/command source.
// It is never surfaced to the application.
const wakeID api.ConnID = 0

// commandBacklog bounds the command channel. No command types exist yet, so
// the capacity is only relevant to a future control plane.
const commandBacklog = 16

// Reactor multiplexes listeners and connections over one epoll instance and
// exposes the resulting activity as a pull-based event sequence.
//
// A Reactor must be driven by a single goroutine; only Wake is safe to call
// from elsewhere.
type Reactor struct {
	cfg       Config
	log       zerolog.Logger
	poller    *poller
	resources map[api.ConnID]resource
	lastID    uint64
	pending   *queue.Queue
	commands  chan api.Command
	events    []unix.EpollEvent
	scratch   []byte
	closed    bool
}

// New creates an empty reactor. It fails if the epoll instance cannot be
// created or the wakeup channel cannot be registered with it.
func New(cfg Config) (*Reactor, error) {
	cfg = cfg.withDefaults()
	p, err := newPoller()
	if err != nil {
		return nil, err
	}
	return &Reactor{
		cfg:       cfg,
		log:       *cfg.Logger,
		poller:    p,
		resources: make(map[api.ConnID]resource),
		pending:   queue.New(),
		commands:  make(chan api.Command, commandBacklog),
		events:    make([]unix.EpollEvent, cfg.MaxEvents),
		scratch:   make([]byte, cfg.ScratchSize),
	}, nil
}

// Listen binds a nonblocking listening socket to addr ("host:port", parsed
// by netip.ParseAddrPort) and registers it with the reactor. It returns the
// actually bound address, which differs from addr when port 0 was requested.
func (r *Reactor) Listen(addr string) (netip.AddrPort, error) {
	if r.closed {
		return netip.AddrPort{}, api.ErrReactorClosed
	}
	ap, err := netip.ParseAddrPort(addr)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("parse listen address: %w", err)
	}
	fd, bound, err := netutil.ListenTCP(ap, r.cfg.Backlog)
	if err != nil {
		return netip.AddrPort{}, err
	}
	id := r.bumpID()
	if err := r.poller.add(fd, id, true, false); err != nil {
		unix.Close(fd)
		return netip.AddrPort{}, fmt.Errorf("register listener: %w", err)
	}
	r.resources[id] = &listener{sock: fd}
	r.log.Info().Uint64("id", uint64(id)).Stringer("addr", bound).Msg("listening")
	return bound, nil
}

// Next returns the next event, running poll cycles until one exists. It
// blocks indefinitely while the reactor is idle; there is no timeout and no
// cancellation beyond Wake and the command channel.
func (r *Reactor) Next() (api.Event, error) {
	if r.closed {
		return api.Event{}, api.ErrReactorClosed
	}
	for r.pending.Length() == 0 {
		if err := r.fill(); err != nil {
			return api.Event{}, err
		}
	}
	return r.pending.Remove().(api.Event), nil
}

// Handle returns a borrowed accessor for the connection named by id. The
// handle is only valid until the next call to Next; retaining it across
// cycles risks operating on a removed connection, which panics.
func (r *Reactor) Handle(id api.ConnID) Handle {
	return Handle{reactor: r, id: id}
}

// Wake interrupts a pending (or the next) blocking wait. It is the only
// method safe to call from outside the reactor goroutine.
func (r *Reactor) Wake() error {
	return r.poller.wake()
}

// Close releases every owned socket, the epoll instance and the eventfd.
// Like every method except Wake it must be called from the reactor
// goroutine. Subsequent calls are no-ops.
func (r *Reactor) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	for id, res := range r.resources {
		_ = r.poller.del(res.fd())
		_ = unix.Close(res.fd())
		delete(r.resources, id)
	}
	return r.poller.close()
}

// bumpID allocates the next identifier. Exhausting the identifier space is
// a contract violation: it cannot happen before memory does, so hitting it
// indicates allocator corruption.
func (r *Reactor) bumpID() api.ConnID {
	if r.lastID == math.MaxUint64 {
		panic("netreactor: out of connection identifiers")
	}
	r.lastID++
	return api.ConnID(r.lastID)
}

// fill runs one poll cycle: sweep finished connections, re-arm interest,
// block for readiness and dispatch every reported event, queuing the
// application-level events it produces.
func (r *Reactor) fill() error {
	r.closeFinished()
	if err := r.rearm(); err != nil {
		return err
	}
	n, err := r.poller.wait(r.events)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		id := eventID(&r.events[i])
		if id == wakeID {
			r.poller.drainWakeup()
			r.drainCommands()
			continue
		}
		res, ok := r.resources[id]
		if !ok {
			// Removed earlier in this same batch.
			continue
		}
		r.log.Debug().Uint64("id", uint64(id)).Msg("woke")
		switch res := res.(type) {
		case *listener:
			if err := r.acceptAll(res); err != nil {
				return err
			}
		case *conn:
			r.shuntIO(id, res)
		default:
			panic(fmt.Sprintf("netreactor: unknown resource type %T", res))
		}
	}
	return nil
}

// closeFinished removes every connection whose two directions are both Done,
// releasing its socket. Removal happens at the start of a cycle, strictly
// after the cycle that produced the terminal transitions.
func (r *Reactor) closeFinished() {
	for id, res := range r.resources {
		c, ok := res.(*conn)
		if !ok || !c.finished() {
			continue
		}
		r.log.Info().Uint64("id", uint64(id)).Msg("closing")
		_ = r.poller.del(c.sock)
		_ = unix.Close(c.sock)
		delete(r.resources, id)
	}
}

// rearm recomputes every connection's readiness interest from its stream
// states and updates the registrations. Listeners keep the read interest
// they were registered with and are not re-armed.
func (r *Reactor) rearm() error {
	for id, res := range r.resources {
		c, ok := res.(*conn)
		if !ok {
			continue
		}
		if err := r.poller.mod(c.sock, id, c.inbound.WantsFill(), c.outbound.WantsFlush()); err != nil {
			return fmt.Errorf("re-arm connection %d: %w", id, err)
		}
	}
	return nil
}

// acceptAll drains the listener's backlog, accepting until the socket would
// block. Under edge-triggered notification a partial drain could starve a
// burst of incoming connections, so the loop always runs to exhaustion.
func (r *Reactor) acceptAll(l *listener) error {
	for {
		fd, err := netutil.Accept(l.sock)
		if err == unix.EAGAIN {
			return nil
		}
		if err == unix.ECONNABORTED || err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}
		_ = netutil.SetNoDelay(fd)
		id := r.bumpID()
		if err := r.poller.add(fd, id, true, false); err != nil {
			unix.Close(fd)
			return fmt.Errorf("register accepted connection: %w", err)
		}
		r.resources[id] = &conn{
			sock:     fd,
			inbound:  stream.New(r.cfg.ReadBufferSize),
			outbound: stream.New(r.cfg.ReadBufferSize),
		}
		l.accepted++
		r.pending.Add(api.Event{Kind: api.NewConnection, Conn: id})
		r.log.Info().Uint64("id", uint64(id)).Uint64("accepted", l.accepted).Msg("accepted")
	}
}

// drainCommands empties the command channel after a wakeup. No command types
// are defined yet, so everything received is discarded; the channel is a
// reserved extension point for a future control plane.
func (r *Reactor) drainCommands() {
	for {
		select {
		case <-r.commands:
			r.log.Debug().Msg("discarding command")
		default:
			return
		}
	}
}
