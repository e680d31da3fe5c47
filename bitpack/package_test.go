package bitpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	p := New()
	require.NoError(t, p.Write(6, 4))
	require.NoError(t, p.Write(5, 4))
	require.NoError(t, p.Write(0x3FF, 10))

	it := p.Begin()
	v, err := it.Read(4, false)
	require.NoError(t, err)
	require.Equal(t, uint64(6), v)

	v, err = it.Read(4, false)
	require.NoError(t, err)
	require.Equal(t, uint64(5), v)

	v, err = it.Read(10, false)
	require.NoError(t, err)
	require.Equal(t, uint64(0x3FF), v)
}

func TestWriteExReadExRoundTrip(t *testing.T) {
	p := New()
	require.NoError(t, p.WriteEx(0b101, 3))
	require.NoError(t, p.WriteEx(0b11001, 5))

	it := p.Begin()
	v, err := it.ReadEx(3, false)
	require.NoError(t, err)
	require.Equal(t, uint64(0b101), v)

	v, err = it.ReadEx(5, false)
	require.NoError(t, err)
	require.Equal(t, uint64(0b11001), v)
}

func TestS2SinglePixelLayout(t *testing.T) {
	// Scenario S2: pixel_id=6 on 4 bits then adc=5 on 4 bits.
	p := New()
	require.NoError(t, p.Write(6, 4))
	require.NoError(t, p.Write(5, 4))
	require.Equal(t, uint64(8), p.EndPosition())
	require.Equal(t, []byte{0xA6}, p.Bytes())
}

func TestWriteRejectsOversizedValue(t *testing.T) {
	p := New()
	require.Error(t, p.Write(16, 4))
}

func TestWriteRejectsTooManyBits(t *testing.T) {
	p := New()
	require.Error(t, p.Write(0, 65))
}

func TestReadPastEndFailsWithoutRelaxedFlag(t *testing.T) {
	p := New()
	require.NoError(t, p.Write(1, 1))
	it := p.Begin()
	_, err := it.Read(1, false)
	require.NoError(t, err)
	_, err = it.Read(1, false)
	require.Error(t, err)
}

func TestReadPastEndUsesZerosWhenRelaxed(t *testing.T) {
	p := New()
	require.NoError(t, p.Write(1, 1))
	it := p.Begin()
	v, err := it.Read(9, true)
	require.NoError(t, err)
	require.Equal(t, uint64(1)<<8, v)
}

func TestFinalizeByte(t *testing.T) {
	p := New()
	require.NoError(t, p.Write(0b101, 3))
	require.NoError(t, p.FinalizeByte())
	require.Equal(t, uint64(8), p.EndPosition())

	it := p.Begin()
	v, err := it.Read(3, false)
	require.NoError(t, err)
	require.Equal(t, uint64(0b101), v)
	v, err = it.Read(5, false)
	require.NoError(t, err)
	require.Equal(t, uint64(0), v)
}

func TestNextReadoutCycleDoesNotAffectBits(t *testing.T) {
	p := New()
	require.NoError(t, p.Write(1, 1))
	p.NextReadoutCycle()
	require.NoError(t, p.Write(0, 1))
	p.NextReadoutCycle()
	require.Equal(t, []uint64{1, 2}, p.ReadoutPositions())
}

func TestIteratorMismatch(t *testing.T) {
	a := New()
	b := New()
	require.NoError(t, a.Write(1, 4))
	require.NoError(t, b.Write(1, 4))
	_, err := a.End().Distance(b.Begin())
	require.Error(t, err)
}

func TestIteratorNegativeDelta(t *testing.T) {
	p := New()
	require.NoError(t, p.Write(1, 4))
	begin := p.Begin()
	end := p.End()
	_, err := begin.Distance(end)
	require.Error(t, err)
}

func TestIteratorSubUnderflow(t *testing.T) {
	p := New()
	require.NoError(t, p.Write(1, 4))
	it := p.Begin()
	require.Error(t, it.Sub(1))
}

func TestWritePackageSplice(t *testing.T) {
	src := New()
	require.NoError(t, src.Write(6, 4))
	require.NoError(t, src.Write(5, 4))

	dst := New()
	require.NoError(t, dst.WritePackage(src))
	require.True(t, dst.Equal(src))
}

func TestCrossWidthBitRoundTrip(t *testing.T) {
	p := New()
	values := []struct {
		v     uint64
		nBits uint
	}{
		{3, 2}, {0, 1}, {1023, 10}, {1, 1}, {42, 7},
	}
	for _, tc := range values {
		require.NoError(t, p.Write(tc.v, tc.nBits))
	}
	it := p.Begin()
	for _, tc := range values {
		got, err := it.Read(tc.nBits, false)
		require.NoError(t, err)
		require.Equal(t, tc.v, got)
	}
}
