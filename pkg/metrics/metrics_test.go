package metrics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountersWriteToRendersAllFamilies(t *testing.T) {
	c := New()
	c.IncRequest("hit")
	c.IncRequest("leader")
	c.IncRequest("leader")
	c.AddBytesServed(128)
	c.IncEviction()
	c.IncUpstreamConnect()
	c.IncError("timeout")

	var buf bytes.Buffer
	require.NoError(t, c.WriteTo(&buf))

	out := buf.String()
	require.Contains(t, out, "cache_requests_hit_total 1")
	require.Contains(t, out, "cache_requests_leader_total 2")
	require.Contains(t, out, "cache_bytes_served_total 128")
	require.Contains(t, out, "cache_evictions_total 1")
	require.Contains(t, out, "cache_upstream_connects_total 1")
	require.Contains(t, out, "cache_errors_timeout_total 1")
	require.True(t, strings.Contains(out, "# TYPE cache_requests_hit_total counter"))
}

func TestUnknownRoleAndKindAreNoOps(t *testing.T) {
	c := New()
	c.IncRequest("bogus")
	c.IncError("bogus")
	var buf bytes.Buffer
	require.NoError(t, c.WriteTo(&buf))
	require.Contains(t, buf.String(), "cache_requests_hit_total 0")
}
