package pixel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegionLayoutDerivedCounts(t *testing.T) {
	l, err := NewRegionLayout(4, 4)
	require.NoError(t, err)
	require.Equal(t, 16, l.NumberOfPixels())
	require.Equal(t, 4, l.BitsPerID())
}

func TestRegionLayoutRejectsNonPositive(t *testing.T) {
	_, err := NewRegionLayout(0, 4)
	require.Error(t, err)
	_, err = NewRegionLayout(4, -1)
	require.Error(t, err)
}

func TestRegionLayoutPixelIDRoundTrip(t *testing.T) {
	l, err := NewRegionLayout(4, 4)
	require.NoError(t, err)
	for row := Coordinate(0); row < 4; row++ {
		for col := Coordinate(0); col < 4; col++ {
			p := New(row, col)
			id, err := l.PixelID(p)
			require.NoError(t, err)
			back, err := l.Pixel(id)
			require.NoError(t, err)
			require.Equal(t, p, back)
		}
	}
}

func TestRegionLayoutPixelIDOutOfRange(t *testing.T) {
	l, err := NewRegionLayout(4, 4)
	require.NoError(t, err)
	_, err = l.PixelID(New(4, 0))
	require.Error(t, err)
	_, err = l.PixelID(New(0, -1))
	require.Error(t, err)
}

func TestMultiRegionLayoutLastBand(t *testing.T) {
	region, err := NewRegionLayout(2, 2)
	require.NoError(t, err)
	l, err := NewMultiRegionLayout(5, 5, region)
	require.NoError(t, err)
	require.Equal(t, 3, l.NRegionRows)
	require.Equal(t, 3, l.NRegionColumns)
	require.Equal(t, 1, l.NLastRegionRows)
	require.Equal(t, 1, l.NLastRegionColumns)
	require.False(t, l.IsRegionComplete(l.RegionID(2, 2)))
	require.True(t, l.IsRegionComplete(l.RegionID(0, 0)))
}

func TestMultiRegionLayoutRoundTrip(t *testing.T) {
	region, err := NewRegionLayout(2, 2)
	require.NoError(t, err)
	l, err := NewMultiRegionLayout(4, 4, region)
	require.NoError(t, err)
	for row := Coordinate(0); row < 4; row++ {
		for col := Coordinate(0); col < 4; col++ {
			p := New(row, col)
			regionID, local := l.ToRegion(p)
			require.Equal(t, p, l.FromRegion(regionID, local))
		}
	}
}

func TestSingleRegionLayoutHasOneRegion(t *testing.T) {
	l, err := NewSingleRegionLayout(4, 4)
	require.NoError(t, err)
	require.Equal(t, 1, l.NumberOfRegions())
}

func TestNewMultiRegionLayoutByCount(t *testing.T) {
	l, err := NewMultiRegionLayoutByCount(6, 6, 3, 3)
	require.NoError(t, err)
	require.Equal(t, 2, l.RegionLayout_.NRows)
	require.Equal(t, 2, l.RegionLayout_.NColumns)
	require.Equal(t, 3, l.NRegionRows)
	require.Equal(t, 3, l.NRegionColumns)
}
