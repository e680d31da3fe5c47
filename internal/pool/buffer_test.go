package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferWriteGrows(t *testing.T) {
	b := NewBuffer(4)
	n, err := b.Write([]byte("hello world, this is longer than four bytes"))
	require.NoError(t, err)
	require.Equal(t, 43, n)
	require.Equal(t, "hello world, this is longer than four bytes", string(b.Bytes()))
}

func TestBufferResetRetainsCapacity(t *testing.T) {
	b := NewBuffer(16)
	_, err := b.Write([]byte("payload"))
	require.NoError(t, err)
	cap0 := cap(b.B)

	b.Reset()
	require.Equal(t, 0, b.Len())
	require.Equal(t, cap0, cap(b.B))
}

func TestGetPutRoundTrip(t *testing.T) {
	b := Get()
	require.Equal(t, 0, b.Len())
	_, err := b.Write([]byte("x"))
	require.NoError(t, err)
	Put(b)

	b2 := Get()
	require.Equal(t, 0, b2.Len())
}

func TestAppendByte(t *testing.T) {
	b := NewBuffer(1)
	b.AppendByte('a')
	b.AppendByte('b')
	require.Equal(t, []byte("ab"), b.Bytes())
}
