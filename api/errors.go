// File: api/errors.go
// Package api defines common sentinel errors.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "errors"

// Sentinel errors shared across netreactor packages.
var (
	// ErrNotSupported is returned by the reactor constructor on platforms
	// without epoll support.
	ErrNotSupported = errors.New("netreactor: platform not supported")

	// ErrReactorClosed is returned by operations on a reactor after Close.
	ErrReactorClosed = errors.New("netreactor: reactor closed")
)
