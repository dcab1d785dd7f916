package httpproxy

import (
	"errors"
	"syscall"
)

// isClientDisconnect reports whether err is the kind of write failure a
// vanished client produces (EPIPE/ECONNRESET), which the leader path must
// treat as non-fatal to the cache fill (spec §4.4/§7).
func isClientDisconnect(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET)
}
