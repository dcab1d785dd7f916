// Package httpproxy implements the HTTP-level logic at the boundary with
// the cache: parsing a request line, extracting Host, detecting a cacheable
// 200 response, and the leader/follower/hit paths that drive a cache.Slot.
package httpproxy

import "errors"

var (
	// ErrParseRejected marks a malformed request line or an oversize URL or
	// Host header.
	ErrParseRejected = errors.New("httpproxy: malformed or oversize request")
	// ErrUpstreamUnavailable marks a failure to establish the upstream
	// stream.
	ErrUpstreamUnavailable = errors.New("httpproxy: could not reach upstream")
	// ErrUpstreamIO marks a read/write failure against an established
	// upstream stream.
	ErrUpstreamIO = errors.New("httpproxy: upstream i/o error")
	// ErrNonCacheable marks an upstream response whose status line was not
	// 200 OK.
	ErrNonCacheable = errors.New("httpproxy: upstream response not cacheable")
	// ErrCapacityExceeded marks a response that overflowed the payload's
	// configured MAX_BYTES; bytes already cached are discarded on the
	// Loading → Error transition.
	ErrCapacityExceeded = errors.New("httpproxy: response exceeded cache capacity")
	// ErrTimeout marks a follower's total-inactivity timer expiring.
	ErrTimeout = errors.New("httpproxy: follower inactivity timeout")
	// ErrShutdown marks a request rejected because the cache is shutting
	// down.
	ErrShutdown = errors.New("httpproxy: cache is shutting down")
)
