package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSlotAppendWakesWaitProgress(t *testing.T) {
	d := NewDirectory(1, 64)
	_, slot, token, err := d.FindOrInsert("u1")
	require.NoError(t, err)

	woke := make(chan int, 1)
	go func() {
		_, l := slot.WaitProgress(0)
		woke <- l
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, slot.Append([]byte("hi")))

	select {
	case l := <-woke:
		require.Equal(t, 2, l)
	case <-time.After(time.Second):
		t.Fatal("follower never woke on append")
	}
	require.NoError(t, token.PublishReady())
}

func TestSlotAppendAfterCapacityExceeded(t *testing.T) {
	d := NewDirectory(1, 4)
	_, slot, token, err := d.FindOrInsert("u1")
	require.NoError(t, err)
	require.NoError(t, slot.Append([]byte("abcd")))
	err = slot.Append([]byte("e"))
	require.Error(t, err)
	slot.MarkSizeFull()
	require.NoError(t, token.PublishError())
	_, state, length := slot.Observe()
	require.Equal(t, Error, state)
	require.Equal(t, 0, length)
}

func TestSlotWaitTerminalReturnsOnReady(t *testing.T) {
	d := NewDirectory(1, 64)
	_, slot, token, err := d.FindOrInsert("u1")
	require.NoError(t, err)

	done := make(chan State, 1)
	go func() { done <- slot.WaitTerminal() }()

	require.NoError(t, token.PublishReady())
	require.Equal(t, Ready, <-done)
}
