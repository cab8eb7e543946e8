// File: api/control.go
// Package api defines the reserved control-plane command type.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Command is the payload type of the reactor's cross-thread command channel.
//
// No command types are defined yet: the interface is sealed and has no
// implementations, so no value of this type can be constructed outside this
// package. The channel exists purely so a future control plane (stop reactor,
// force-close a connection, ...) can interrupt the reactor's blocking wait.
type Command interface {
	isCommand()
}
