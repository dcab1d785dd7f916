// Package metrics tracks cache counters and renders them in Prometheus text
// exposition format without depending on client_golang — the same
// client_model/expfmt pairing the rest of the stack uses for hand-built
// metrics pages.
package metrics

import (
	"io"
	"sync/atomic"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Counters holds the cache's operational counters. All fields are updated
// with atomics so callers never need an external lock.
type Counters struct {
	requestsHit        atomic.Uint64
	requestsFollower   atomic.Uint64
	requestsLeader     atomic.Uint64
	requestsSaturated  atomic.Uint64
	bytesServed        atomic.Uint64
	evictions          atomic.Uint64
	upstreamConnects   atomic.Uint64
	errorsNonCacheable atomic.Uint64
	errorsCapacity     atomic.Uint64
	errorsUpstream     atomic.Uint64
	errorsTimeout      atomic.Uint64
}

// New returns a zeroed Counters ready for use.
func New() *Counters {
	return &Counters{}
}

// IncRequest records one classified request, by role.
func (c *Counters) IncRequest(role string) {
	switch role {
	case "hit":
		c.requestsHit.Add(1)
	case "follower":
		c.requestsFollower.Add(1)
	case "leader":
		c.requestsLeader.Add(1)
	case "saturated":
		c.requestsSaturated.Add(1)
	}
}

// AddBytesServed accumulates bytes written to clients.
func (c *Counters) AddBytesServed(n int) {
	if n > 0 {
		c.bytesServed.Add(uint64(n))
	}
}

// IncEviction records one LRU eviction.
func (c *Counters) IncEviction() { c.evictions.Add(1) }

// IncUpstreamConnect records one successful upstream dial.
func (c *Counters) IncUpstreamConnect() { c.upstreamConnects.Add(1) }

// IncError records one terminal error, by kind.
func (c *Counters) IncError(kind string) {
	switch kind {
	case "non_cacheable":
		c.errorsNonCacheable.Add(1)
	case "capacity_exceeded":
		c.errorsCapacity.Add(1)
	case "upstream_io":
		c.errorsUpstream.Add(1)
	case "timeout":
		c.errorsTimeout.Add(1)
	}
}

func counter(name, help string, value float64) *dto.MetricFamily {
	t := dto.MetricType_COUNTER
	return &dto.MetricFamily{
		Name: &name,
		Help: &help,
		Type: &t,
		Metric: []*dto.Metric{
			{Counter: &dto.Counter{Value: &value}},
		},
	}
}

// WriteTo encodes every counter as Prometheus text format onto w.
func (c *Counters) WriteTo(w io.Writer) error {
	families := []*dto.MetricFamily{
		counter("cache_requests_hit_total", "Requests served from a Ready entry.", float64(c.requestsHit.Load())),
		counter("cache_requests_follower_total", "Requests that tailed an in-flight fetch.", float64(c.requestsFollower.Load())),
		counter("cache_requests_leader_total", "Requests that became the fetch leader.", float64(c.requestsLeader.Load())),
		counter("cache_requests_saturated_total", "Requests rejected because all slots were loading.", float64(c.requestsSaturated.Load())),
		counter("cache_bytes_served_total", "Bytes written to clients.", float64(c.bytesServed.Load())),
		counter("cache_evictions_total", "LRU evictions performed.", float64(c.evictions.Load())),
		counter("cache_upstream_connects_total", "Upstream connections opened.", float64(c.upstreamConnects.Load())),
		counter("cache_errors_non_cacheable_total", "Fetches that ended non-cacheable.", float64(c.errorsNonCacheable.Load())),
		counter("cache_errors_capacity_exceeded_total", "Fetches that overflowed MAX_BYTES.", float64(c.errorsCapacity.Load())),
		counter("cache_errors_upstream_io_total", "Fetches that failed with an upstream I/O error.", float64(c.errorsUpstream.Load())),
		counter("cache_errors_timeout_total", "Followers that gave up on an inactivity timeout.", float64(c.errorsTimeout.Load())),
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, f := range families {
		if err := enc.Encode(f); err != nil {
			return err
		}
	}
	return nil
}
