package httpproxy

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arishaaaaa/my-cache-proxy/pkg/cache"
	"github.com/arishaaaaa/my-cache-proxy/pkg/metrics"
)

func TestRunFollowerReceivesSameBytesAsLeader(t *testing.T) {
	dir := cache.NewDirectory(2, 1024)
	_, leaderSlot, token, err := dir.FindOrInsert("/u1")
	require.NoError(t, err)

	_, followerSlot, _, err := dir.FindOrInsert("/u1")
	require.NoError(t, err)

	var followerOut bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- RunFollower(followerSlot, &followerOut, time.Second, metrics.New())
	}()

	require.NoError(t, leaderSlot.Append([]byte("hello ")))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, leaderSlot.Append([]byte("world")))
	require.NoError(t, token.PublishReady())

	require.NoError(t, <-done)
	require.Equal(t, "hello world", followerOut.String())
}

func TestRunFollowerEndsOnError(t *testing.T) {
	dir := cache.NewDirectory(2, 1024)
	_, _, token, err := dir.FindOrInsert("/u1")
	require.NoError(t, err)
	_, followerSlot, _, err := dir.FindOrInsert("/u1")
	require.NoError(t, err)

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- RunFollower(followerSlot, &out, time.Second, metrics.New()) }()

	require.NoError(t, token.PublishError())
	require.ErrorIs(t, <-done, ErrNonCacheable)
}

func TestRunFollowerTimesOutOnInactivity(t *testing.T) {
	dir := cache.NewDirectory(2, 1024)
	_, _, _, err := dir.FindOrInsert("/u1")
	require.NoError(t, err)
	_, followerSlot, _, err := dir.FindOrInsert("/u1")
	require.NoError(t, err)

	var out bytes.Buffer
	err = RunFollower(followerSlot, &out, 20*time.Millisecond, metrics.New())
	require.ErrorIs(t, err, ErrTimeout)
}
