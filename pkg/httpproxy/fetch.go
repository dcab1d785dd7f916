package httpproxy

import (
	"context"
	"io"

	"github.com/arishaaaaa/my-cache-proxy/pkg/cache"
	"github.com/arishaaaaa/my-cache-proxy/pkg/internal/logsafe"
	"github.com/arishaaaaa/my-cache-proxy/pkg/logging"
	"github.com/arishaaaaa/my-cache-proxy/pkg/metrics"
)

// ChunkSize is the fixed read size the leader uses against the upstream
// stream.
const ChunkSize = 32 * 1024

// RunLeader drives the fetch coordinator path (spec §4.4) for the caller
// that was handed the Leader role: it opens the upstream stream, replays
// the client's request verbatim, then tees every chunk read to both the
// client and the payload until upstream EOF or a fatal error, resolving
// token exactly once.
func RunLeader(ctx context.Context, token *cache.LeaderToken, slot *cache.Slot, req *Request, client io.Writer, dialer Dialer, m *metrics.Counters, log logging.Logger) error {
	log = log.WithField("url", logsafe.Sanitize(req.URL)).WithField("host", logsafe.Sanitize(req.Host))

	conn, err := dialer.DialHost(ctx, req.Host)
	if err != nil {
		log.Warnf("upstream connect failed: %v", err)
		_ = token.PublishError()
		m.IncError("upstream_io")
		return ErrUpstreamUnavailable
	}
	defer conn.Close()
	m.IncUpstreamConnect()

	if err := writeFull(conn, req.Raw); err != nil {
		log.Warnf("writing request upstream failed: %v", err)
		_ = token.PublishError()
		m.IncError("upstream_io")
		return ErrUpstreamIO
	}

	buf := make([]byte, ChunkSize)
	first := true
	cacheable := true
	sizeFull := false
	clientDisconnected := false

	for {
		n, rerr := conn.Read(buf)
		if n > 0 {
			chunk := buf[:n]

			if first {
				first = false
				if !IsCacheableStatusLine(chunk) {
					cacheable = false
					log.Infof("response not cacheable, streaming only")
				}
			}

			if cacheable && !sizeFull {
				if aerr := slot.Append(chunk); aerr != nil {
					sizeFull = true
					slot.MarkSizeFull()
					log.Warnf("payload capacity exceeded, ceasing cache writes")
				}
			}

			if !clientDisconnected {
				if _, werr := client.Write(chunk); werr != nil {
					if isClientDisconnect(werr) {
						clientDisconnected = true
						log.Infof("client disconnected, continuing to fill cache")
					} else {
						_ = token.PublishError()
						m.IncError("upstream_io")
						return ErrUpstreamIO
					}
				}
			}
		}

		if rerr != nil {
			if rerr == io.EOF {
				break
			}
			_ = token.PublishError()
			m.IncError("upstream_io")
			return ErrUpstreamIO
		}
	}

	if sizeFull {
		_ = token.PublishError()
		m.IncError("capacity_exceeded")
		return ErrCapacityExceeded
	}

	if !cacheable {
		_ = token.PublishError()
		m.IncError("non_cacheable")
		return ErrNonCacheable
	}

	if err := token.PublishReady(); err != nil {
		return err
	}
	return nil
}

// writeFull retries short writes until all of p has been written or an
// error occurs.
func writeFull(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}
