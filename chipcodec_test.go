package chipcodec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pixelreadout/chipcodec/pixel"
)

func TestNewSinglePixelEncoderRoundTrip(t *testing.T) {
	layout, err := pixel.NewSingleRegionLayout(8, 8)
	require.NoError(t, err)

	chip := pixel.NewChip(layout)
	require.NoError(t, chip.AddPixel(pixel.New(2, 3), 9))

	enc, err := NewSinglePixelEncoder(layout, 16)
	require.NoError(t, err)

	p, err := enc.Encode(chip)
	require.NoError(t, err)
	decoded, err := enc.Decode(p)
	require.NoError(t, err)
	require.True(t, chip.Equal(decoded))
}

func TestNewRegionEncoderRoundTrip(t *testing.T) {
	layout, err := pixel.NewSingleRegionLayout(8, 8)
	require.NoError(t, err)
	readoutUnit, err := pixel.NewRegionLayout(4, 4)
	require.NoError(t, err)

	chip := pixel.NewChip(layout)
	require.NoError(t, chip.AddPixel(pixel.New(0, 0), 5))
	require.NoError(t, chip.AddPixel(pixel.New(5, 5), 2))

	enc, err := NewRegionEncoder(layout, readoutUnit, 16)
	require.NoError(t, err)

	p, err := enc.Encode(chip)
	require.NoError(t, err)
	decoded, err := enc.Decode(p)
	require.NoError(t, err)
	require.True(t, chip.Equal(decoded))
}

func TestNewDictionaryBuilderAddChip(t *testing.T) {
	layout, err := pixel.NewSingleRegionLayout(8, 8)
	require.NoError(t, err)
	readoutUnit, err := pixel.NewRegionLayout(4, 4)
	require.NoError(t, err)

	b := NewDictionaryBuilder(layout, readoutUnit, 16)
	chip := pixel.NewChip(layout)
	require.NoError(t, chip.AddPixel(pixel.New(1, 1), 3))
	require.NoError(t, b.AddChip(chip))
}
