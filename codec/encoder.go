package codec

import (
	"fmt"

	"github.com/pixelreadout/chipcodec/bitpack"
	"github.com/pixelreadout/chipcodec/compress"
	"github.com/pixelreadout/chipcodec/errs"
	"github.com/pixelreadout/chipcodec/internal/options"
	"github.com/pixelreadout/chipcodec/pixel"
	"github.com/pixelreadout/chipcodec/stats"
)

// EncoderFormat selects which PackageMaker a ChipDataEncoder dispatches to.
type EncoderFormat uint8

const (
	// SinglePixel writes every pixel as a raw (pixel_id, adc) pair.
	SinglePixel EncoderFormat = iota
	// Region partitions the chip into readout units and writes every
	// cell of each active one, adc raw.
	Region
	// RegionWithCompressedAdc is Region with adc values Huffman-encoded
	// against the dictionary's "all_adc" alphabet.
	RegionWithCompressedAdc
	// Delta encodes pixel positions as deltas from the previous pixel in
	// the same macro-region's walk, Huffman-encoded against the
	// dictionary's delta and active-adc alphabets.
	Delta
)

func (f EncoderFormat) String() string {
	switch f {
	case SinglePixel:
		return "single_pixel"
	case Region:
		return "region"
	case RegionWithCompressedAdc:
		return "region_with_compressed_adc"
	case Delta:
		return "delta"
	default:
		return "unknown"
	}
}

// ChipDataEncoder dispatches Encode/Decode to the PackageMaker matching its
// configured EncoderFormat, re-splitting any chip whose own macro-region
// counts differ from the encoder's configured ChipLayout before encoding
// it — the chip's own pixel-grid extents are kept, only the macro-region
// partitioning is normalized to match.
//
// Grounded on ChipDataEncoder.h/.cc.
type ChipDataEncoder struct {
	chipLayout pixel.MultiRegionLayout
	maker      PackageMaker
	compressor compress.Codec
}

// Option configures optional ChipDataEncoder behavior not covered by
// NewChipDataEncoder's required parameters.
type Option = options.Option[*ChipDataEncoder]

// WithCompressor attaches a compress.Codec that EncodeCompressed and
// DecodeCompressed apply as an outer envelope around a Package's bytes.
// It never touches the bit layout Encode/Decode themselves produce or
// consume.
func WithCompressor(codec compress.Codec) Option {
	return options.NoError(func(e *ChipDataEncoder) { e.compressor = codec })
}

// NewChipDataEncoder builds a ChipDataEncoder. maxAdc bounds every adc
// value the encoder will ever see (adc values range [0, maxAdc)).
// ordering only affects EncoderFormat Delta; pixel.ByRegionByColumn
// matches the original's default. dictionary is required for
// RegionWithCompressedAdc and Delta and ignored for SinglePixel/Region.
func NewChipDataEncoder(format EncoderFormat, chipLayout pixel.MultiRegionLayout, readoutUnitLayout pixel.RegionLayout, maxAdc int, ordering pixel.Ordering, dictionary *stats.Collection, opts ...Option) (*ChipDataEncoder, error) {
	nBitsPerAdc := uint(pixel.BitsPerValue(maxAdc))

	var maker PackageMaker
	switch format {
	case SinglePixel:
		maker = NewDefaultPackageMaker(nBitsPerAdc)
	case Region:
		maker = NewBlockPackageMaker(readoutUnitLayout, nBitsPerAdc)
	case RegionWithCompressedAdc:
		adcStat, err := dictionary.At(stats.Adc)
		if err != nil {
			return nil, err
		}
		maker = NewBlockPackageMakerEncoded(readoutUnitLayout, adcStat)
	case Delta:
		m, err := NewDeltaPackageMaker(dictionary, readoutUnitLayout, CombinedDelta, ordering)
		if err != nil {
			return nil, err
		}
		maker = m
	default:
		return nil, fmt.Errorf("encoder format %d: %w", format, errs.ErrUnsupportedFormat)
	}

	enc := &ChipDataEncoder{chipLayout: chipLayout, maker: maker}
	if err := options.Apply(enc, opts...); err != nil {
		return nil, err
	}
	return enc, nil
}

// Encode re-splits chip onto the encoder's macro-region partitioning (kept
// over chip's own pixel-grid extents) when its layout doesn't already
// match, then hands it to the configured PackageMaker.
func (e *ChipDataEncoder) Encode(chip *pixel.Chip) (*bitpack.Package, error) {
	in := chip
	if !chip.Layout().Equal(e.chipLayout) {
		outer := chip.Layout()
		splitLayout, err := pixel.NewMultiRegionLayoutByCount(outer.NRows, outer.NColumns, e.chipLayout.NRegionRows, e.chipLayout.NRegionColumns)
		if err != nil {
			return nil, err
		}
		resplit, err := chip.Resplit(splitLayout)
		if err != nil {
			return nil, err
		}
		in = resplit
	}
	return e.maker.Make(in)
}

// Decode reads p back into a Chip over the encoder's configured layout.
func (e *ChipDataEncoder) Decode(p *bitpack.Package) (*pixel.Chip, error) {
	return e.maker.Read(p, e.chipLayout)
}

// EncodeCompressed encodes chip and, if a compressor is configured via
// WithCompressor, compresses the resulting Package's bytes. It returns the
// Package's logical bit length alongside the bytes, since a compress.Codec
// envelope carries no notion of bit length on its own; DecodeCompressed
// needs it back to rehydrate the Package.
func (e *ChipDataEncoder) EncodeCompressed(chip *pixel.Chip) (data []byte, endPosition uint64, err error) {
	p, err := e.Encode(chip)
	if err != nil {
		return nil, 0, err
	}
	raw := p.Bytes()
	if e.compressor != nil {
		raw, err = e.compressor.Compress(raw)
		if err != nil {
			return nil, 0, err
		}
	}
	return raw, p.EndPosition(), nil
}

// DecodeCompressed reverses EncodeCompressed: it decompresses data (if a
// compressor is configured), rehydrates a Package at endPosition, and
// decodes it.
func (e *ChipDataEncoder) DecodeCompressed(data []byte, endPosition uint64) (*pixel.Chip, error) {
	raw := data
	if e.compressor != nil {
		var err error
		raw, err = e.compressor.Decompress(data)
		if err != nil {
			return nil, err
		}
	}
	return e.Decode(bitpack.NewFromBytes(raw, endPosition))
}
