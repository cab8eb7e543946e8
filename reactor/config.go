// File: reactor/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package reactor

import "github.com/rs/zerolog"

// Default sizing constants.
const (
	// DefaultReadBufferSize is the per-connection inbound capacity threshold.
	DefaultReadBufferSize = 8 * 1024
	// DefaultScratchSize is the size of the reactor's shared read scratch
	// buffer, the unit of one nonblocking read attempt.
	DefaultScratchSize = 8 * 1024
	// DefaultMaxEvents is the number of readiness events collected per poll
	// batch.
	DefaultMaxEvents = 128
	// DefaultBacklog is the listen(2) backlog for new listeners.
	DefaultBacklog = 128
)

// Config carries the tunables of a Reactor. The zero value is usable: every
// field falls back to its default.
type Config struct {
	// ReadBufferSize is the inbound capacity threshold per connection. Once
	// a connection has buffered at least this many unread bytes the reactor
	// stops requesting read readiness for it until the application consumes.
	ReadBufferSize int

	// ScratchSize is the size of the shared scratch buffer used for
	// nonblocking reads.
	ScratchSize int

	// MaxEvents caps how many readiness events one poll cycle collects.
	MaxEvents int

	// Backlog is the listen(2) backlog used by Listen.
	Backlog int

	// Logger receives the reactor's structured debug and lifecycle logs.
	// Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns a Config populated with the default values.
func DefaultConfig() Config {
	nop := zerolog.Nop()
	return Config{
		ReadBufferSize: DefaultReadBufferSize,
		ScratchSize:    DefaultScratchSize,
		MaxEvents:      DefaultMaxEvents,
		Backlog:        DefaultBacklog,
		Logger:         &nop,
	}
}

// withDefaults fills zero fields with their default values.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = d.ReadBufferSize
	}
	if c.ScratchSize <= 0 {
		c.ScratchSize = d.ScratchSize
	}
	if c.MaxEvents <= 0 {
		c.MaxEvents = d.MaxEvents
	}
	if c.Backlog <= 0 {
		c.Backlog = d.Backlog
	}
	if c.Logger == nil {
		c.Logger = d.Logger
	}
	return c
}
