package httpproxy

import (
	"io"
	"time"

	"github.com/arishaaaaa/my-cache-proxy/pkg/cache"
	"github.com/arishaaaaa/my-cache-proxy/pkg/metrics"
)

// DefaultFollowerTimeout is the suggested total-inactivity timeout from
// spec §4.5.
const DefaultFollowerTimeout = 10 * time.Second

// RunFollower drives the reader-stream path (spec §4.5) for a caller handed
// the Follower role on a Loading slot: it tail-reads the growing payload,
// writing each new chunk to client, until the slot reaches Ready (having
// caught up) or Error, or until timeout inactivity elapses.
func RunFollower(slot *cache.Slot, client io.Writer, timeout time.Duration, m *metrics.Counters) error {
	buf := slot.Payload()
	offset := 0

	for {
		if buf != nil {
			if chunk := buf.ReadAt(offset); len(chunk) > 0 {
				if _, err := client.Write(chunk); err != nil {
					if isClientDisconnect(err) {
						return nil
					}
					return ErrUpstreamIO
				}
				m.AddBytesServed(len(chunk))
				offset += len(chunk)
			}
		}

		_, state, length := slot.Observe()
		if state == cache.Ready && offset >= length {
			return nil
		}
		// Empty means Delete or Shutdown released the slot mid-stream; the
		// follower treats it the same as Error.
		if state == cache.Error || state == cache.Empty {
			return ErrNonCacheable
		}

		_, _, timedOut := slot.WaitProgressDeadline(offset, time.Now().Add(timeout))
		if timedOut {
			m.IncError("timeout")
			return ErrTimeout
		}
	}
}
