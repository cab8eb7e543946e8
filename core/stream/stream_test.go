// File: core/stream/stream_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package stream_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/netreactor/core/stream"
)

const wanted = 8

func TestNewStreamIsOpenAndEmpty(t *testing.T) {
	s := stream.New(wanted)
	assert.Equal(t, stream.Open, s.State())
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.IsDone())
	buf, ok := s.Bytes()
	require.True(t, ok)
	assert.Empty(t, buf)
}

// The buffer equals the in-order concatenation of all appended chunks not
// yet consumed.
func TestAppendConsumePreservesOrder(t *testing.T) {
	s := stream.New(64)
	s.Append([]byte("hello "))
	s.Append([]byte("buffered "))
	s.Append([]byte("world"))

	buf, ok := s.Bytes()
	require.True(t, ok)
	require.True(t, bytes.Equal([]byte("hello buffered world"), buf))

	s.Consume(6)
	buf, ok = s.Bytes()
	require.True(t, ok)
	assert.Equal(t, []byte("buffered world"), buf)

	s.Consume(len(buf))
	assert.Equal(t, 0, s.Len())
}

func TestConsumeBeyondLengthPanics(t *testing.T) {
	s := stream.New(wanted)
	s.Append([]byte("abc"))
	require.Panics(t, func() { s.Consume(4) })
}

func TestWantsFill(t *testing.T) {
	tests := []struct {
		name string
		prep func(*stream.Stream)
		want bool
	}{
		{"open below threshold", func(s *stream.Stream) {}, true},
		{"open at threshold", func(s *stream.Stream) {
			s.Append(make([]byte, wanted))
		}, false},
		{"open above threshold", func(s *stream.Stream) {
			s.Append(make([]byte, wanted+1))
		}, false},
		{"draining", func(s *stream.Stream) {
			s.Append([]byte("x"))
			s.CloseDraining()
		}, false},
		{"awaiting confirmation", func(s *stream.Stream) {
			s.CloseTruncating()
		}, true},
		{"done", func(s *stream.Stream) {
			s.Finish()
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stream.New(wanted)
			tt.prep(s)
			assert.Equal(t, tt.want, s.WantsFill())
		})
	}
}

func TestWantsFlush(t *testing.T) {
	tests := []struct {
		name string
		prep func(*stream.Stream)
		want bool
	}{
		{"open empty", func(s *stream.Stream) {}, false},
		{"open pending", func(s *stream.Stream) {
			s.Append([]byte("x"))
		}, true},
		{"draining pending", func(s *stream.Stream) {
			s.Append([]byte("x"))
			s.CloseDraining()
		}, true},
		{"draining empty", func(s *stream.Stream) {
			s.CloseDraining()
		}, false},
		{"awaiting confirmation", func(s *stream.Stream) {
			s.CloseTruncating()
		}, true},
		{"done", func(s *stream.Stream) {
			s.Finish()
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stream.New(wanted)
			tt.prep(s)
			assert.Equal(t, tt.want, s.WantsFlush())
		})
	}
}

func TestCloseTruncatingDiscards(t *testing.T) {
	s := stream.New(wanted)
	s.Append([]byte("undelivered"))
	s.CloseTruncating()

	assert.Equal(t, stream.AwaitingConfirmation, s.State())
	assert.Equal(t, 0, s.Len())
	_, ok := s.Bytes()
	assert.False(t, ok)
}

func TestCloseTruncatingFromDraining(t *testing.T) {
	s := stream.New(wanted)
	s.Append([]byte("pending"))
	s.CloseDraining()
	s.CloseTruncating()
	assert.Equal(t, stream.AwaitingConfirmation, s.State())
}

// Force-closing the same direction twice is a contract violation.
func TestDoubleCloseTruncatingPanics(t *testing.T) {
	s := stream.New(wanted)
	s.CloseTruncating()
	require.Panics(t, func() { s.CloseTruncating() })
}

func TestCloseDrainingPreservesBytes(t *testing.T) {
	s := stream.New(wanted)
	s.Append([]byte("flush me"))
	s.CloseDraining()

	assert.Equal(t, stream.Draining, s.State())
	buf, ok := s.Bytes()
	require.True(t, ok)
	assert.Equal(t, []byte("flush me"), buf)
}

func TestCloseDrainingRequiresOpen(t *testing.T) {
	for _, prep := range []func(*stream.Stream){
		func(s *stream.Stream) { s.CloseDraining() },
		func(s *stream.Stream) { s.CloseTruncating() },
		func(s *stream.Stream) { s.Finish() },
	} {
		s := stream.New(wanted)
		prep(s)
		require.Panics(t, func() { s.CloseDraining() })
	}
}

// Once Done, the stream never transitions again and its buffer stays
// unavailable.
func TestDoneIsTerminal(t *testing.T) {
	s := stream.New(wanted)
	s.Append([]byte("gone"))
	s.Finish()

	require.True(t, s.IsDone())
	assert.Equal(t, 0, s.Len())
	_, ok := s.Bytes()
	assert.False(t, ok)
	assert.False(t, s.WantsFill())
	assert.False(t, s.WantsFlush())

	require.Panics(t, func() { s.Append([]byte("x")) })
	require.Panics(t, func() { s.Consume(0) })
	require.Panics(t, func() { s.CloseTruncating() })
	require.Panics(t, func() { s.CloseDraining() })

	s.Finish()
	assert.True(t, s.IsDone())
}

func TestAppendAfterTruncatingClosePanics(t *testing.T) {
	s := stream.New(wanted)
	s.CloseTruncating()
	require.Panics(t, func() { s.Append([]byte("late")) })
	require.Panics(t, func() { s.Consume(0) })
}
