package payload

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferCreation(t *testing.T) {
	b := New(16)
	require.NotNil(t, b)
	require.Equal(t, 16, b.Capacity())
	require.Equal(t, 0, b.Len())
}

func TestBufferAppendGrowsLen(t *testing.T) {
	b := New(16)
	n, err := len("asdf"), b.Append([]byte("asdf"))
	require.NoError(t, err)
	require.Equal(t, n, b.Len())
}

func TestBufferReadAtEmpty(t *testing.T) {
	b := New(4)
	require.Nil(t, b.ReadAt(0))
}

func TestBufferAppendReadAt(t *testing.T) {
	b := New(8)
	require.NoError(t, b.Append([]byte("asdf")))
	require.Equal(t, []byte("asdf"), b.ReadAt(0))
	require.Equal(t, []byte("df"), b.ReadAt(2))
	require.NoError(t, b.Append([]byte("gh")))
	require.Equal(t, []byte("asdfgh"), b.ReadAt(0))
}

func TestBufferAppendPastCapacity(t *testing.T) {
	b := New(4)
	require.NoError(t, b.Append([]byte("asdf")))
	err := b.Append([]byte("g"))
	require.ErrorIs(t, err, ErrCapacityExceeded)
	require.Equal(t, 4, b.Len())
}

func TestBufferEarlyBytesImmutable(t *testing.T) {
	b := New(8)
	require.NoError(t, b.Append([]byte("ab")))
	first := b.ReadAt(0)
	require.NoError(t, b.Append([]byte("cd")))
	require.Equal(t, []byte("ab"), first[:2])
}
