package compress

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoOpRoundTrip(t *testing.T) {
	c, err := New(None)
	require.NoError(t, err)

	data := []byte("pixel-readout-payload")
	compressed, err := c.Compress(data)
	require.NoError(t, err)
	require.Equal(t, data, compressed)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestS2RoundTrip(t *testing.T) {
	c, err := New(S2)
	require.NoError(t, err)

	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i % 7)
	}

	compressed, err := c.Compress(data)
	require.NoError(t, err)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestLZ4RoundTrip(t *testing.T) {
	c, err := New(LZ4)
	require.NoError(t, err)

	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i % 11)
	}

	compressed, err := c.Compress(data)
	require.NoError(t, err)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestCompressEmptyInput(t *testing.T) {
	for _, typ := range []Type{S2, LZ4} {
		c, err := New(typ)
		require.NoError(t, err)

		compressed, err := c.Compress(nil)
		require.NoError(t, err)
		require.Empty(t, compressed)
	}
}

func TestNewUnsupportedType(t *testing.T) {
	_, err := New(Type(255))
	require.Error(t, err)
}

func TestTypeString(t *testing.T) {
	require.Equal(t, "none", None.String())
	require.Equal(t, "s2", S2.String())
	require.Equal(t, "lz4", LZ4.String())
	require.Equal(t, "zstd", Zstd.String())
	require.Equal(t, "unknown", Type(255).String())
}
