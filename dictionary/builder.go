// Package dictionary builds the three-alphabet dictionary file the
// compressed package makers (BlockPackageMaker's encoded mode and
// DeltaPackageMaker) read back via stats.Collection: all_adc, active_adc
// and delta_row_column statistics accumulated across many chips.
//
// Grounded on
// original_source/Algorithms/interface/DictionaryBuilder.h and
// DictionaryBuilder.cc.
package dictionary

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pixelreadout/chipcodec/compress"
	"github.com/pixelreadout/chipcodec/errs"
	"github.com/pixelreadout/chipcodec/huffman"
	"github.com/pixelreadout/chipcodec/internal/options"
	"github.com/pixelreadout/chipcodec/internal/pool"
	"github.com/pixelreadout/chipcodec/pixel"
	"github.com/pixelreadout/chipcodec/stats"
)

// Builder accumulates observation counts from many chips into three
// Producers and saves them as a dictionary text file. Safe for concurrent
// use: every method holds an internal mutex for its whole body.
type Builder struct {
	mu sync.Mutex

	chipLayout        pixel.MultiRegionLayout
	ordering          pixel.Ordering
	readoutUnitLayout pixel.RegionLayout
	maxAlphabetSize   int

	allAdc         *stats.Producer
	activeAdc      *stats.Producer
	deltaRowColumn *stats.Producer

	compressor compress.Codec
}

// Option configures optional Builder behavior not covered by NewBuilder's
// required parameters.
type Option = options.Option[*Builder]

// WithCompressor attaches a compress.Codec that SaveCompressed applies as
// an outer envelope around the dictionary file's bytes.
func WithCompressor(codec compress.Codec) Option {
	return options.NoError(func(b *Builder) { b.compressor = codec })
}

// NewBuilder returns a Builder pre-seeded with the three canonical
// alphabets' full domains: all_adc over [0,maxAdc), active_adc over
// [1,maxAdc), and delta_row_column over [0, n) where n is the number of
// pixels in one of chipLayout's macro-regions.
func NewBuilder(chipLayout pixel.MultiRegionLayout, ordering pixel.Ordering, readoutUnitLayout pixel.RegionLayout, maxAdc, maxAlphabetSize int, opts ...Option) *Builder {
	b := &Builder{
		chipLayout:        chipLayout,
		ordering:          ordering,
		readoutUnitLayout: readoutUnitLayout,
		maxAlphabetSize:   maxAlphabetSize,
		allAdc:            seededProducer("all_adc", 0, maxAdc),
		activeAdc:         seededProducer("active_adc", 1, maxAdc),
		deltaRowColumn:    seededProducer("delta_row_column", 0, chipLayout.RegionLayout_.NumberOfPixels()),
	}
	// WithCompressor is the only Option today and never fails.
	_ = options.Apply(b, opts...)
	return b
}

func seededProducer(name string, begin, end int) *stats.Producer {
	alphabet := make([]stats.Letter, 0, end-begin)
	for letter := begin; letter < end; letter++ {
		alphabet = append(alphabet, stats.Letter(letter))
	}
	return stats.NewProducerWithAlphabet(name, alphabet)
}

// AddChip folds chip's pixels into the three running Producers: every
// cell of every active readout unit into all_adc, and every pixel's adc
// and position delta (in the configured Ordering, relative to the
// previous pixel visited within the same macro-region) into active_adc
// and delta_row_column. chip is re-split onto the Builder's configured
// chip layout first if its own layout's macro-region partitioning
// differs.
func (b *Builder) AddChip(chip *pixel.Chip) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	in := chip
	if !chip.Layout().Equal(b.chipLayout) {
		outer := chip.Layout()
		splitLayout, err := pixel.NewMultiRegionLayoutByCount(outer.NRows, outer.NColumns, b.chipLayout.NRegionRows, b.chipLayout.NRegionColumns)
		if err != nil {
			return err
		}
		resplit, err := chip.Resplit(splitLayout)
		if err != nil {
			return err
		}
		in = resplit
	}

	for regionID := 0; regionID < b.chipLayout.NumberOfRegions(); regionID++ {
		if !in.IsRegionActive(regionID) {
			continue
		}
		macroRegion := in.RegionOrSelf(regionID)
		pixelArea, err := pixel.NewChipFromRegion(macroRegion, b.readoutUnitLayout)
		if err != nil {
			return err
		}
		if err := b.processOrderedPixels(pixelArea.OrderedPixels(b.ordering)); err != nil {
			return err
		}
		b.processRegionBlocks(pixelArea)
	}
	return nil
}

func (b *Builder) processOrderedPixels(orderedPixels []pixel.AdcPair) error {
	layout := b.chipLayout.RegionLayout_
	previous := pixel.New(0, 0)
	for _, pair := range orderedPixels {
		deltaRow := pixel.Coordinate((int(pair.Pixel.Row) + layout.NRows - int(previous.Row)) % layout.NRows)
		deltaColumn := pixel.Coordinate((int(pair.Pixel.Column) + layout.NColumns - int(previous.Column)) % layout.NColumns)
		deltaRowColumn, err := layout.PixelID(pixel.New(deltaRow, deltaColumn))
		if err != nil {
			return err
		}
		b.activeAdc.AddCount(stats.Letter(pair.Adc))
		b.deltaRowColumn.AddCount(stats.Letter(deltaRowColumn))
		previous = pair.Pixel
	}
	return nil
}

func (b *Builder) processRegionBlocks(pixelArea *pixel.Chip) {
	nRegions := pixelArea.Layout().NumberOfRegions()
	for regionID := 0; regionID < nRegions; regionID++ {
		if !pixelArea.IsRegionActive(regionID) {
			continue
		}
		region := pixelArea.RegionOrSelf(regionID)
		layout := region.Layout()
		for row := 0; row < layout.NRows; row++ {
			for column := 0; column < layout.NColumns; column++ {
				adc := region.GetAdc(pixel.New(pixel.Coordinate(row), pixel.Coordinate(column)))
				b.allAdc.AddCount(stats.Letter(adc))
			}
		}
	}
}

// Save writes all_adc, active_adc then delta_row_column to w, in that
// order. Only delta_row_column is ever alphabet-reduced, and only if its
// observed alphabet exceeds the Builder's configured maxAlphabetSize. The
// three blocks are assembled into a pooled buffer first, so w sees exactly
// one Write call.
func (b *Builder) Save(w io.Writer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := pool.Get()
	defer pool.Put(buf)

	if err := b.saveStatistics(b.allAdc, buf, false); err != nil {
		return err
	}
	if err := b.saveStatistics(b.activeAdc, buf, false); err != nil {
		return err
	}
	if err := b.saveStatistics(b.deltaRowColumn, buf, true); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// SaveFile creates path and saves the dictionary to it. A failure to create
// the file is wrapped with ErrIO; write errors are returned as they are.
func (b *Builder) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dictionary file %q: %w", path, errs.ErrIO)
	}
	defer f.Close()
	return b.Save(f)
}

// SaveCompressed saves the dictionary the same way Save does, then passes
// the assembled bytes through the Builder's configured compress.Codec (if
// any) before writing them to w.
func (b *Builder) SaveCompressed(w io.Writer) error {
	buf := pool.Get()
	defer pool.Put(buf)

	if err := b.Save(buf); err != nil {
		return err
	}
	data := buf.Bytes()
	if b.compressor != nil {
		var err error
		data, err = b.compressor.Compress(data)
		if err != nil {
			return err
		}
	}
	_, err := w.Write(data)
	return err
}

// SaveFileCompressed creates path and saves the compressed dictionary to
// it. A failure to create the file is wrapped with ErrIO; write errors are
// returned as they are.
func (b *Builder) SaveFileCompressed(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dictionary file %q: %w", path, errs.ErrIO)
	}
	defer f.Close()
	return b.SaveCompressed(f)
}

func (b *Builder) saveStatistics(producer *stats.Producer, w io.Writer, reduce bool) error {
	active := producer
	if reduce && producer.NumberOfLetters() > b.maxAlphabetSize {
		reduced, err := producer.Reduce(b.maxAlphabetSize, producer.Name(), huffman.Special)
		if err != nil {
			return err
		}
		active = reduced
	}
	s, err := active.Produce()
	if err != nil {
		return err
	}
	return s.Write(w)
}
