package dictionary

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pixelreadout/chipcodec/compress"
	"github.com/pixelreadout/chipcodec/pixel"
	"github.com/pixelreadout/chipcodec/stats"
)

func TestBuilderSaveProducesLoadableCollection(t *testing.T) {
	layout, err := pixel.NewSingleRegionLayout(4, 4)
	require.NoError(t, err)
	readoutUnit, err := pixel.NewRegionLayout(2, 2)
	require.NoError(t, err)

	b := NewBuilder(layout, pixel.ByRegionByRow, readoutUnit, 8, 64)

	chip := pixel.NewChip(layout)
	require.NoError(t, chip.AddPixel(pixel.New(0, 0), 3))
	require.NoError(t, chip.AddPixel(pixel.New(1, 1), 5))
	require.NoError(t, chip.AddPixel(pixel.New(3, 2), 2))
	require.NoError(t, b.AddChip(chip))

	var buf bytes.Buffer
	require.NoError(t, b.Save(&buf))

	collection, err := stats.Load(&buf)
	require.NoError(t, err)

	allAdc, err := collection.Get("all_adc")
	require.NoError(t, err)
	require.Equal(t, uint64(8), allAdc.OriginalCounts())

	activeAdc, err := collection.Get("active_adc")
	require.NoError(t, err)
	require.Equal(t, uint64(3), activeAdc.OriginalCounts())

	deltaRowColumn, err := collection.Get("delta_row_column")
	require.NoError(t, err)
	require.Equal(t, uint64(3), deltaRowColumn.OriginalCounts())
}

func TestBuilderAddChipResplitsWhenLayoutDiffers(t *testing.T) {
	chipLayout, err := pixel.NewMultiRegionLayoutByCount(4, 4, 2, 2)
	require.NoError(t, err)
	readoutUnit, err := pixel.NewRegionLayout(2, 2)
	require.NoError(t, err)

	b := NewBuilder(chipLayout, pixel.ByRegionByRow, readoutUnit, 8, 64)

	single, err := pixel.NewSingleRegionLayout(4, 4)
	require.NoError(t, err)
	chip := pixel.NewChip(single)
	require.NoError(t, chip.AddPixel(pixel.New(0, 0), 1))
	require.NoError(t, chip.AddPixel(pixel.New(3, 3), 4))

	require.NoError(t, b.AddChip(chip))

	var buf bytes.Buffer
	require.NoError(t, b.Save(&buf))
	collection, err := stats.Load(&buf)
	require.NoError(t, err)

	activeAdc, err := collection.Get("active_adc")
	require.NoError(t, err)
	require.Equal(t, uint64(2), activeAdc.OriginalCounts())
}

func TestBuilderSaveReducesOversizedDeltaAlphabet(t *testing.T) {
	layout, err := pixel.NewSingleRegionLayout(16, 16)
	require.NoError(t, err)
	readoutUnit, err := pixel.NewRegionLayout(4, 4)
	require.NoError(t, err)

	b := NewBuilder(layout, pixel.ByRegionByRow, readoutUnit, 8, 4)

	chip := pixel.NewChip(layout)
	for row := pixel.Coordinate(0); row < 16; row += 3 {
		for column := pixel.Coordinate(0); column < 16; column += 5 {
			require.NoError(t, chip.AddPixel(pixel.New(row, column), 2))
		}
	}
	require.NoError(t, b.AddChip(chip))

	var buf bytes.Buffer
	require.NoError(t, b.Save(&buf))

	collection, err := stats.Load(&buf)
	require.NoError(t, err)
	deltaRowColumn, err := collection.Get("delta_row_column")
	require.NoError(t, err)
	require.LessOrEqual(t, len(deltaRowColumn.Alphabet()), 4)
}

func TestBuilderSaveCompressedRoundTrip(t *testing.T) {
	layout, err := pixel.NewSingleRegionLayout(4, 4)
	require.NoError(t, err)
	readoutUnit, err := pixel.NewRegionLayout(2, 2)
	require.NoError(t, err)

	lz4, err := compress.New(compress.LZ4)
	require.NoError(t, err)

	b := NewBuilder(layout, pixel.ByRegionByRow, readoutUnit, 8, 64, WithCompressor(lz4))
	chip := pixel.NewChip(layout)
	require.NoError(t, chip.AddPixel(pixel.New(1, 1), 4))
	require.NoError(t, b.AddChip(chip))

	var compressed bytes.Buffer
	require.NoError(t, b.SaveCompressed(&compressed))

	plain, err := lz4.Decompress(compressed.Bytes())
	require.NoError(t, err)

	collection, err := stats.Load(bytes.NewReader(plain))
	require.NoError(t, err)
	_, err = collection.Get("all_adc")
	require.NoError(t, err)
}

func TestBuilderSaveDeterministicAcrossIndependentBuilds(t *testing.T) {
	layout, err := pixel.NewSingleRegionLayout(8, 8)
	require.NoError(t, err)
	readoutUnit, err := pixel.NewRegionLayout(2, 2)
	require.NoError(t, err)

	newChips := func() []*pixel.Chip {
		chips := make([]*pixel.Chip, 0, 1000)
		for i := 0; i < 1000; i++ {
			chip := pixel.NewChip(layout)
			row := pixel.Coordinate(i % 8)
			column := pixel.Coordinate((i * 3) % 8)
			adc := uint16(i % 8)
			require.NoError(t, chip.AddPixel(pixel.New(row, column), adc))
			chips = append(chips, chip)
		}
		return chips
	}

	build := func() []byte {
		b := NewBuilder(layout, pixel.ByRegionByRow, readoutUnit, 8, 64)
		for _, chip := range newChips() {
			require.NoError(t, b.AddChip(chip))
		}
		var buf bytes.Buffer
		require.NoError(t, b.Save(&buf))
		return buf.Bytes()
	}

	first := build()
	second := build()
	require.Equal(t, first, second, "Save must produce byte-identical dictionaries across independent builds of the same chips")
}

func TestBuilderSaveFileRoundTrip(t *testing.T) {
	layout, err := pixel.NewSingleRegionLayout(4, 4)
	require.NoError(t, err)
	readoutUnit, err := pixel.NewRegionLayout(2, 2)
	require.NoError(t, err)

	b := NewBuilder(layout, pixel.ByRegionByRow, readoutUnit, 8, 64)
	chip := pixel.NewChip(layout)
	require.NoError(t, chip.AddPixel(pixel.New(2, 2), 1))
	require.NoError(t, b.AddChip(chip))

	dir := t.TempDir()
	path := dir + "/dictionary.txt"
	require.NoError(t, b.SaveFile(path))

	collection, err := stats.LoadFile(path)
	require.NoError(t, err)
	_, err = collection.Get("all_adc")
	require.NoError(t, err)
}
