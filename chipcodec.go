// Package chipcodec provides a space-efficient bit-packed format for
// pixel-detector readout data, together with the package-maker codecs
// that turn a chip snapshot into that format and back.
//
// A readout cycle's sparse pixel hits are captured in a pixel.Chip, then
// handed to a codec.ChipDataEncoder configured with one of four formats:
//
//   - SinglePixel: every pixel written as a raw (pixel_id, adc) pair.
//   - Region: the chip is partitioned into readout units and every cell
//     of each active one is written, adc raw.
//   - RegionWithCompressedAdc: Region with adc values Huffman-encoded
//     against a dictionary's "all_adc" alphabet.
//   - Delta: pixel positions are encoded as deltas from the previous
//     pixel walked in the same macro-region, Huffman-encoded against a
//     dictionary's delta and active-adc alphabets.
//
// RegionWithCompressedAdc and Delta both need a dictionary: a
// stats.Collection built ahead of time by a dictionary.Builder fed
// representative chips and saved to a text file.
//
// # Basic usage
//
//	layout, _ := pixel.NewSingleRegionLayout(32, 32)
//	chip := pixel.NewChip(layout)
//	chip.AddPixel(pixel.New(3, 5), 12)
//
//	enc, _ := chipcodec.NewSinglePixelEncoder(layout, 256)
//	p, _ := enc.Encode(chip)
//	decoded, _ := enc.Decode(p)
//
// For RegionWithCompressedAdc or Delta, build a dictionary first:
//
//	unit, _ := pixel.NewRegionLayout(4, 4)
//	b := chipcodec.NewDictionaryBuilder(layout, unit, 256)
//	b.AddChip(chip)
//	b.SaveFile("dictionary.txt")
//
//	dict, _ := stats.LoadFile("dictionary.txt")
//	enc, _ := chipcodec.NewDeltaEncoder(layout, unit, 256, dict)
//
// This package provides convenient top-level wrappers around codec and
// dictionary for the most common configurations. For fine-grained control
// — custom Ordering, a compress.Codec envelope, SeparateDelta mode — use
// those packages directly.
package chipcodec

import (
	"github.com/pixelreadout/chipcodec/codec"
	"github.com/pixelreadout/chipcodec/dictionary"
	"github.com/pixelreadout/chipcodec/pixel"
	"github.com/pixelreadout/chipcodec/stats"
)

// defaultOrdering matches the original's default macro-region visiting
// order for Delta encoding and dictionary building.
const defaultOrdering = pixel.ByRegionByColumn

// defaultMaxAlphabetSize bounds a built dictionary's delta_row_column
// alphabet when no caller-specific budget is known yet.
const defaultMaxAlphabetSize = 4096

// NewSinglePixelEncoder builds a ChipDataEncoder for the SinglePixel
// format: every pixel as a raw (pixel_id, adc) pair, no dictionary
// required.
func NewSinglePixelEncoder(chipLayout pixel.MultiRegionLayout, maxAdc int) (*codec.ChipDataEncoder, error) {
	return codec.NewChipDataEncoder(codec.SinglePixel, chipLayout, pixel.RegionLayout{}, maxAdc, defaultOrdering, nil)
}

// NewRegionEncoder builds a ChipDataEncoder for the Region format: every
// cell of every active readout unit, adc raw.
func NewRegionEncoder(chipLayout pixel.MultiRegionLayout, readoutUnitLayout pixel.RegionLayout, maxAdc int) (*codec.ChipDataEncoder, error) {
	return codec.NewChipDataEncoder(codec.Region, chipLayout, readoutUnitLayout, maxAdc, defaultOrdering, nil)
}

// NewCompressedRegionEncoder builds a ChipDataEncoder for the
// RegionWithCompressedAdc format, Huffman-compressing adc values against
// dictionary's "all_adc" alphabet.
func NewCompressedRegionEncoder(chipLayout pixel.MultiRegionLayout, readoutUnitLayout pixel.RegionLayout, maxAdc int, dict *stats.Collection) (*codec.ChipDataEncoder, error) {
	return codec.NewChipDataEncoder(codec.RegionWithCompressedAdc, chipLayout, readoutUnitLayout, maxAdc, defaultOrdering, dict)
}

// NewDeltaEncoder builds a ChipDataEncoder for the Delta format in
// Combined mode (the only mode usable through a Collection — see
// codec.DeltaPackageMaker), walking macro-regions in the original's
// default ByRegionByColumn order.
func NewDeltaEncoder(chipLayout pixel.MultiRegionLayout, readoutUnitLayout pixel.RegionLayout, maxAdc int, dict *stats.Collection) (*codec.ChipDataEncoder, error) {
	return codec.NewChipDataEncoder(codec.Delta, chipLayout, readoutUnitLayout, maxAdc, defaultOrdering, dict)
}

// NewDictionaryBuilder returns a dictionary.Builder pre-seeded with the
// three canonical alphabet domains for chipLayout and maxAdc, using the
// original's default macro-region walking order and a generously sized
// delta_row_column alphabet budget. Call dictionary.NewBuilder directly
// for a custom Ordering or alphabet size.
func NewDictionaryBuilder(chipLayout pixel.MultiRegionLayout, readoutUnitLayout pixel.RegionLayout, maxAdc int) *dictionary.Builder {
	return dictionary.NewBuilder(chipLayout, defaultOrdering, readoutUnitLayout, maxAdc, defaultMaxAlphabetSize)
}
