package httpproxy

import (
	"bufio"
	"context"
	"errors"
	"net"
	"time"

	"github.com/arishaaaaa/my-cache-proxy/pkg/cache"
	"github.com/arishaaaaa/my-cache-proxy/pkg/internal/logsafe"
	"github.com/arishaaaaa/my-cache-proxy/pkg/logging"
	"github.com/arishaaaaa/my-cache-proxy/pkg/metrics"
)

// Handler binds a cache directory to a concrete Dialer and drives the
// leader/follower/hit dispatch for one accepted client connection at a
// time. It is the Cache::handle collaborator spec §6 describes.
type Handler struct {
	Directory       *cache.Directory
	Dialer          Dialer
	Metrics         *metrics.Counters
	Log             logging.Logger
	FollowerTimeout time.Duration
}

// NewHandler builds a Handler with the given collaborators. A zero
// FollowerTimeout is replaced with DefaultFollowerTimeout.
func NewHandler(dir *cache.Directory, dialer Dialer, m *metrics.Counters, log logging.Logger, followerTimeout time.Duration) *Handler {
	if followerTimeout <= 0 {
		followerTimeout = DefaultFollowerTimeout
	}
	return &Handler{Directory: dir, Dialer: dialer, Metrics: m, Log: log, FollowerTimeout: followerTimeout}
}

// Handle services exactly one accepted client connection, blocking until
// the interaction ends (the client disconnects, the fetch completes, or an
// unrecoverable error occurs). It never panics on a malformed client; every
// failure simply closes the connection.
func (h *Handler) Handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	req, err := ReadRequest(reader)
	if err != nil {
		h.Log.Debugf("rejecting malformed request: %v", err)
		return
	}
	log := h.Log.WithField("url", logsafe.Sanitize(req.URL))

	role, slot, token, err := h.Directory.FindOrInsert(req.URL)
	switch {
	case errors.Is(err, cache.ErrSaturated):
		h.Metrics.IncRequest("saturated")
		log.Infof("rejecting request, cache saturated")
		return
	case errors.Is(err, cache.ErrShutdownPkg):
		return
	case err != nil:
		log.Warnf("directory admission failed: %v", err)
		return
	}

	h.Metrics.IncRequest(role.String())

	switch role {
	case cache.Leader:
		if err := RunLeader(ctx, token, slot, req, conn, h.Dialer, h.Metrics, log); err != nil {
			log.Infof("leader fetch ended: %v", err)
		}
	case cache.Follower:
		if err := RunFollower(slot, conn, h.FollowerTimeout, h.Metrics); err != nil {
			log.Infof("follower stream ended: %v", err)
		}
	case cache.Hit:
		h.serveHit(slot, conn)
	}
}

// serveHit copies a Ready entry's payload to the client in one streamed
// write (spec §4.6).
func (h *Handler) serveHit(slot *cache.Slot, conn net.Conn) {
	buf := slot.Payload()
	if buf == nil {
		return
	}
	data := buf.ReadAt(0)
	if len(data) == 0 {
		return
	}
	if _, err := conn.Write(data); err != nil {
		h.Log.Debugf("hit path write failed: %v", err)
		return
	}
	h.Metrics.AddBytesServed(len(data))
}
