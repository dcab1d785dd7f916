package httpproxy

import (
	"bytes"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arishaaaaa/my-cache-proxy/pkg/cache"
	"github.com/arishaaaaa/my-cache-proxy/pkg/logging"
	"github.com/arishaaaaa/my-cache-proxy/pkg/metrics"
)

// pipeDialer hands back one end of a net.Pipe per DialHost call and lets the
// test drive the other end as a fake upstream. The request bytes the leader
// replays upstream are drained in the background, since net.Pipe has no
// buffering and the leader's write would otherwise block forever.
type pipeDialer struct {
	conns chan net.Conn
}

func newPipeDialer() (*pipeDialer, func() net.Conn) {
	ch := make(chan net.Conn, 8)
	d := &pipeDialer{conns: ch}
	next := func() net.Conn { return <-ch }
	return d, next
}

func (d *pipeDialer) DialHost(ctx context.Context, host string) (net.Conn, error) {
	client, server := net.Pipe()
	go io.Copy(io.Discard, server)
	d.conns <- server
	return client, nil
}

func TestRunLeaderCachesCleanResponse(t *testing.T) {
	dialer, nextUpstream := newPipeDialer()
	dir := cache.NewDirectory(3, 1024)
	role, slot, token, err := dir.FindOrInsert("/u1")
	require.NoError(t, err)
	require.Equal(t, cache.Leader, role)

	req := &Request{Method: "GET", URL: "/u1", Version: "HTTP/1.1", Host: "example.com", Raw: []byte("GET /u1 HTTP/1.1\r\nHost: example.com\r\n\r\n")}

	var client bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- RunLeader(context.Background(), token, slot, req, &client, dialer, metrics.New(), logging.NewNop())
	}()

	upstream := nextUpstream()
	go func() {
		upstream.Write([]byte("HTTP/1.1 200 OK\r\n\r\nHELLO"))
		upstream.Close()
	}()

	require.NoError(t, <-done)
	require.Equal(t, "HTTP/1.1 200 OK\r\n\r\nHELLO", client.String())
	_, state, length := slot.Observe()
	require.Equal(t, cache.Ready, state)
	require.Equal(t, len("HTTP/1.1 200 OK\r\n\r\nHELLO"), length)
}

func TestRunLeaderNonCacheableStillStreamsButErrors(t *testing.T) {
	dialer, nextUpstream := newPipeDialer()
	dir := cache.NewDirectory(3, 1024)
	_, slot, token, err := dir.FindOrInsert("/missing")
	require.NoError(t, err)

	req := &Request{URL: "/missing", Host: "example.com", Raw: []byte("GET /missing HTTP/1.1\r\nHost: example.com\r\n\r\n")}

	var client bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- RunLeader(context.Background(), token, slot, req, &client, dialer, metrics.New(), logging.NewNop())
	}()

	upstream := nextUpstream()
	go func() {
		upstream.Write([]byte("HTTP/1.1 404 Not Found\r\n\r\nnope"))
		upstream.Close()
	}()

	err = <-done
	require.ErrorIs(t, err, ErrNonCacheable)
	require.Equal(t, "HTTP/1.1 404 Not Found\r\n\r\nnope", client.String())
	_, state, _ := slot.Observe()
	require.Equal(t, cache.Error, state)
}

func TestRunLeaderCapacityExceeded(t *testing.T) {
	dialer, nextUpstream := newPipeDialer()
	dir := cache.NewDirectory(3, 10) // capacity smaller than the body
	_, slot, token, err := dir.FindOrInsert("/big")
	require.NoError(t, err)

	req := &Request{URL: "/big", Host: "example.com", Raw: []byte("GET /big HTTP/1.1\r\nHost: example.com\r\n\r\n")}

	var client bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- RunLeader(context.Background(), token, slot, req, &client, dialer, metrics.New(), logging.NewNop())
	}()

	upstream := nextUpstream()
	go func() {
		upstream.Write([]byte("HTTP/1.1 200 OK\r\n\r\n"))
		time.Sleep(5 * time.Millisecond)
		upstream.Write([]byte("this body is way too long to fit"))
		upstream.Close()
	}()

	err = <-done
	require.ErrorIs(t, err, ErrCapacityExceeded)
	_, state, _ := slot.Observe()
	require.Equal(t, cache.Error, state)
}
