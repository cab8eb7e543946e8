// File: api/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package api defines the shared surface types of netreactor: connection
// identifiers, event payloads, the reserved control-plane command type and
// the common sentinel errors.
//
// The package is intentionally free of I/O so the types stay portable; all
// platform-specific machinery lives in the reactor package.
package api
