package codec

import (
	"fmt"
	"math"

	"github.com/pixelreadout/chipcodec/bitpack"
	"github.com/pixelreadout/chipcodec/errs"
	"github.com/pixelreadout/chipcodec/huffman"
	"github.com/pixelreadout/chipcodec/pixel"
	"github.com/pixelreadout/chipcodec/stats"
)

// bitsPerNPixels is the width of the trailing per-macro-region pixel-count
// field DeltaPackageMaker appends when the chip has more than one
// macro-region.
const bitsPerNPixels = 10

// DeltaMode selects how DeltaPackageMaker encodes a pixel's position
// relative to the previous one in its macro-region's walk.
type DeltaMode uint8

const (
	// SeparateDelta encodes delta_row and delta_column against two
	// independent dictionary alphabets.
	SeparateDelta DeltaMode = iota
	// CombinedDelta encodes a single delta_row_column letter — the delta
	// pixel's id in the macro-region's own coordinate space — against one
	// dictionary alphabet.
	CombinedDelta
)

func (m DeltaMode) String() string {
	switch m {
	case SeparateDelta:
		return "separate"
	case CombinedDelta:
		return "combined"
	default:
		return "unknown"
	}
}

// DeltaPackageMakerName returns the configuration name for a
// DeltaPackageMaker using mode, e.g. "combined_delta_huffman".
func DeltaPackageMakerName(mode DeltaMode) string {
	return mode.String() + "_delta_huffman"
}

// DeltaPackageMaker walks each macro-region's pixels in the configured
// Ordering and, for every pixel, writes only the (row, column) delta from
// the previous pixel of its region (the first against a (0,0) baseline) — Huffman-encoded
// against a delta alphabet, with a SPECIAL-letter raw fallback whenever a
// delta value falls outside that alphabet — followed by the pixel's adc,
// Huffman-encoded against the "active_adc" alphabet. When more than one
// macro-region is present, a trailing 10-bit pixel count per macro-region
// lets Read know where each region's data ends without a sentinel.
//
// Grounded on DeltaPackageMaker.h. The RegionIterator helper it builds on
// is not itself present in the retrieved original source; its behavior
// (walk an ordered pixel vector, track a default-(0,0) "previous pixel"
// baseline before the first element, report a fixed size for the trailer)
// is reconstructed from how DeltaPackageMaker.h::Make and ::Read use it.
type DeltaPackageMaker struct {
	ReadoutUnitLayout pixel.RegionLayout
	Mode              DeltaMode
	Ordering          pixel.Ordering

	adcStat            *stats.Statistics
	deltaRowStat       *stats.Statistics
	deltaColumnStat    *stats.Statistics
	deltaRowColumnStat *stats.Statistics
}

// NewDeltaPackageMaker builds a DeltaPackageMaker from a loaded dictionary
// Collection. SeparateDelta mode requires "delta_row"/"delta_column"
// alphabets that, matching the original's AlphabetStatisticsCollection,
// have no canonical AlphabetType lookup and are therefore never
// resolvable through a Collection — constructing one in SeparateDelta mode
// always fails with ErrUnsupportedFormat. CombinedDelta mode is the only
// mode ChipDataEncoder ever wires up, and is fully supported.
func NewDeltaPackageMaker(collection *stats.Collection, readoutUnitLayout pixel.RegionLayout, mode DeltaMode, ordering pixel.Ordering) (*DeltaPackageMaker, error) {
	adcStat, err := collection.At(stats.ActiveAdc)
	if err != nil {
		return nil, err
	}
	m := &DeltaPackageMaker{ReadoutUnitLayout: readoutUnitLayout, Mode: mode, Ordering: ordering, adcStat: adcStat}

	switch mode {
	case SeparateDelta:
		m.deltaRowStat, err = collection.At(stats.DeltaRow)
		if err != nil {
			return nil, err
		}
		m.deltaColumnStat, err = collection.At(stats.DeltaColumn)
		if err != nil {
			return nil, err
		}
	case CombinedDelta:
		m.deltaRowColumnStat, err = collection.At(stats.DeltaRowColumn)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("delta package maker mode %d: %w", mode, errs.ErrUnsupportedFormat)
	}
	return m, nil
}

// regionWalk replays RegionIterator's observed behavior: an ordered pixel
// vector plus a cursor, with a fixed (0,0)/adc-0 baseline standing in for
// "the previous pixel" before the first element.
type regionWalk struct {
	pixels []pixel.AdcPair
	index  int
}

var defaultRegionPixel = pixel.AdcPair{Pixel: pixel.New(0, 0), Adc: 0}

func newRegionWalk(pixels []pixel.AdcPair) *regionWalk { return &regionWalk{pixels: pixels} }

func (w *regionWalk) size() int          { return len(w.pixels) }
func (w *regionWalk) hasCurrent() bool   { return w.index < len(w.pixels) }
func (w *regionWalk) current() pixel.AdcPair { return w.pixels[w.index] }
func (w *regionWalk) previous() pixel.AdcPair {
	if w.index == 0 {
		return defaultRegionPixel
	}
	return w.pixels[w.index-1]
}
func (w *regionWalk) moveNext() { w.index++ }

// Make implements PackageMaker.
func (m *DeltaPackageMaker) Make(chip *pixel.Chip) (*bitpack.Package, error) {
	multiLayout := chip.Layout()
	layout := multiLayout.RegionLayout_
	nMacroRegions := multiLayout.NumberOfRegions()

	walks := make([]*regionWalk, nMacroRegions)
	maxSize := 0
	for macroRegionID := 0; macroRegionID < nMacroRegions; macroRegionID++ {
		var pixels []pixel.AdcPair
		if chip.IsRegionActive(macroRegionID) {
			macroRegion := chip.RegionOrSelf(macroRegionID)
			pixelArea, err := pixel.NewChipFromRegion(macroRegion, m.ReadoutUnitLayout)
			if err != nil {
				return nil, err
			}
			pixels = pixelArea.OrderedPixels(m.Ordering)
		}
		w := newRegionWalk(pixels)
		walks[macroRegionID] = w
		if w.size() > maxSize {
			maxSize = w.size()
		}
	}

	p := bitpack.New()
	for n := 0; n < maxSize; n++ {
		for _, w := range walks {
			if !w.hasCurrent() {
				continue
			}
			previousPixel := w.previous().Pixel
			cur := w.current()
			if err := m.encodePixel(p, layout, cur.Pixel, previousPixel); err != nil {
				return nil, err
			}
			if err := huffman.EncodeLetter(m.adcStat.Table(), huffman.Letter(cur.Adc), p); err != nil {
				return nil, err
			}
			w.moveNext()
		}
		if (n+1)%2 == 0 || n+1 == maxSize {
			p.NextReadoutCycle()
		}
	}

	if nMacroRegions > 1 {
		for _, w := range walks {
			if err := p.Write(uint64(w.size()), bitsPerNPixels); err != nil {
				return nil, err
			}
		}
		p.NextReadoutCycle()
	}

	return p, nil
}

func (m *DeltaPackageMaker) encodePixel(p *bitpack.Package, layout pixel.RegionLayout, px, previous pixel.Pixel) error {
	deltaRow := pixel.Coordinate((int(px.Row) + layout.NRows - int(previous.Row)) % layout.NRows)
	deltaColumn := pixel.Coordinate((int(px.Column) + layout.NColumns - int(previous.Column)) % layout.NColumns)

	if m.Mode == SeparateDelta {
		if err := encodeDeltaLetter(p, m.deltaRowStat, huffman.Letter(deltaRow), uint64(px.Row), uint(layout.BitsPerRow())); err != nil {
			return err
		}
		return encodeDeltaLetter(p, m.deltaColumnStat, huffman.Letter(deltaColumn), uint64(px.Column), uint(layout.BitsPerColumn()))
	}

	deltaPixel := pixel.New(deltaRow, deltaColumn)
	deltaRowColumn, err := layout.PixelID(deltaPixel)
	if err != nil {
		return err
	}
	pixelID, err := layout.PixelID(px)
	if err != nil {
		return err
	}
	return encodeDeltaLetter(p, m.deltaRowColumnStat, huffman.Letter(deltaRowColumn), uint64(pixelID), uint(layout.BitsPerID()))
}

// encodeDeltaLetter writes letter Huffman-encoded against stat if stat's
// alphabet contains it, otherwise writes the SPECIAL escape letter followed
// by absValue raw at bitsPerRawData bits.
func encodeDeltaLetter(p *bitpack.Package, stat *stats.Statistics, letter huffman.Letter, absValue uint64, bitsPerRawData uint) error {
	if stat.HasLetter(letter) {
		return huffman.EncodeLetter(stat.Table(), letter, p)
	}
	if err := huffman.EncodeLetter(stat.Table(), huffman.Special, p); err != nil {
		return err
	}
	return p.Write(absValue, bitsPerRawData)
}

// decodeDeltaLetter is encodeDeltaLetter's inverse: it decodes one letter
// and, if that letter is the SPECIAL escape, also reads the raw fallback
// value. isDelta reports whether letter (rather than absValue) carries the
// decoded information.
func decodeDeltaLetter(it *bitpack.Iterator, stat *stats.Statistics, bitsPerRawData uint) (letter huffman.Letter, absValue uint64, isDelta bool, err error) {
	letter, err = huffman.DecodeLetter(stat.Table(), it)
	if err != nil {
		return 0, 0, false, err
	}
	if letter == huffman.Special {
		absValue, err = it.Read(bitsPerRawData, false)
		return letter, absValue, false, err
	}
	return letter, 0, true, nil
}

func (m *DeltaPackageMaker) decodePixel(it *bitpack.Iterator, layout pixel.RegionLayout, previous pixel.Pixel) (pixel.Pixel, error) {
	var result pixel.Pixel

	if m.Mode == SeparateDelta {
		rowLetter, rowAbs, hasRowDelta, err := decodeDeltaLetter(it, m.deltaRowStat, uint(layout.BitsPerRow()))
		if err != nil {
			return pixel.Pixel{}, err
		}
		colLetter, colAbs, hasColDelta, err := decodeDeltaLetter(it, m.deltaColumnStat, uint(layout.BitsPerColumn()))
		if err != nil {
			return pixel.Pixel{}, err
		}
		if hasRowDelta {
			result.Row = pixel.Coordinate((int(previous.Row) + int(rowLetter)) % layout.NRows)
		} else {
			result.Row = pixel.Coordinate(rowAbs)
		}
		if hasColDelta {
			result.Column = pixel.Coordinate((int(previous.Column) + int(colLetter)) % layout.NColumns)
		} else {
			result.Column = pixel.Coordinate(colAbs)
		}
		return result, nil
	}

	letter, absValue, hasDelta, err := decodeDeltaLetter(it, m.deltaRowColumnStat, uint(layout.BitsPerID()))
	if err != nil {
		return pixel.Pixel{}, err
	}
	if hasDelta {
		delta, err := layout.Pixel(int(letter))
		if err != nil {
			return pixel.Pixel{}, err
		}
		result.Row = pixel.Coordinate((int(previous.Row) + int(delta.Row)) % layout.NRows)
		result.Column = pixel.Coordinate((int(previous.Column) + int(delta.Column)) % layout.NColumns)
		return result, nil
	}
	return layout.Pixel(int(absValue))
}

// Read implements PackageMaker.
func (m *DeltaPackageMaker) Read(p *bitpack.Package, multiLayout pixel.MultiRegionLayout) (*pixel.Chip, error) {
	chip := pixel.NewChip(multiLayout)
	nMacroRegions := multiLayout.NumberOfRegions()
	layout := multiLayout.RegionLayout_

	previousPixels := make([]pixel.Pixel, nMacroRegions)
	for i := range previousPixels {
		previousPixels[i] = pixel.New(0, 0)
	}

	nPixels := make([]int, nMacroRegions)
	maxNPixels := 0
	if nMacroRegions > 1 {
		trailerIt := p.End()
		if err := trailerIt.Sub(uint64(bitsPerNPixels * nMacroRegions)); err != nil {
			return nil, err
		}
		for k := 0; k < nMacroRegions; k++ {
			n, err := trailerIt.Read(bitsPerNPixels, false)
			if err != nil {
				return nil, err
			}
			nPixels[k] = int(n)
			if int(n) > maxNPixels {
				maxNPixels = int(n)
			}
		}
	} else {
		maxNPixels = math.MaxInt
		nPixels[0] = maxNPixels
	}

	it := p.Begin()
	end := p.End()
	for n := 0; n < maxNPixels && !it.Equal(end); n++ {
		for k := 0; k < nMacroRegions; k++ {
			if nPixels[k] <= n {
				continue
			}
			regionPixel, err := m.decodePixel(&it, layout, previousPixels[k])
			if err != nil {
				return nil, err
			}
			letter, err := huffman.DecodeLetter(m.adcStat.Table(), &it)
			if err != nil {
				return nil, err
			}
			chipPixel := multiLayout.FromRegion(k, regionPixel)
			if err := chip.AddPixel(chipPixel, pixel.Adc(letter)); err != nil {
				return nil, err
			}
			previousPixels[k] = regionPixel
		}
	}
	return chip, nil
}
