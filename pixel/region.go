package pixel

import (
	"fmt"
	"sort"

	"github.com/pixelreadout/chipcodec/errs"
)

// PixelRegion owns a RegionLayout and a sparse Pixel -> Adc map with unique
// keys: inserting an already-present pixel fails.
//
// Grounded on original_source/Algorithms/interface/Chip.h's PixelRegion and
// its implementation in Chip.cc.
type PixelRegion struct {
	layout RegionLayout
	pixels map[Pixel]Adc
}

// NewPixelRegion builds an empty PixelRegion over layout.
func NewPixelRegion(layout RegionLayout) *PixelRegion {
	return &PixelRegion{layout: layout, pixels: make(map[Pixel]Adc)}
}

// Layout returns the region's RegionLayout.
func (r *PixelRegion) Layout() RegionLayout { return r.layout }

// Len returns the number of stored pixels.
func (r *PixelRegion) Len() int { return len(r.pixels) }

// AddPixel inserts a pixel with its adc. Fails with ErrPixelOutOfRange if
// the pixel falls outside the region's layout, or ErrDuplicatePixel if it
// is already present.
func (r *PixelRegion) AddPixel(p Pixel, adc Adc) error {
	if !r.layout.Contains(p) {
		return fmt.Errorf("pixel region add %v: %w", p, errs.ErrPixelOutOfRange)
	}
	if _, exists := r.pixels[p]; exists {
		return fmt.Errorf("pixel region add %v: %w", p, errs.ErrDuplicatePixel)
	}
	r.pixels[p] = adc
	return nil
}

// GetAdc returns the adc stored at p, or 0 if p is absent.
func (r *PixelRegion) GetAdc(p Pixel) Adc {
	return r.pixels[p]
}

// OrderedPixels returns every stored (pixel, adc) pair ordered according to
// ordering. ByRegionByRow/ByRegionByColumn are not meaningful on a single
// PixelRegion (they require the owning PixelMultiRegion's sub-regions) and
// fall back to ByRow.
func (r *PixelRegion) OrderedPixels(ordering Ordering) []AdcPair {
	pairs := make([]AdcPair, 0, len(r.pixels))
	for p, adc := range r.pixels {
		pairs = append(pairs, AdcPair{Pixel: p, Adc: adc})
	}
	switch ordering {
	case ByColumn:
		sort.Slice(pairs, func(i, j int) bool {
			a, b := pairs[i].Pixel, pairs[j].Pixel
			if a.Column != b.Column {
				return a.Column < b.Column
			}
			return a.Row < b.Row
		})
	default:
		sort.Slice(pairs, func(i, j int) bool {
			return pairs[i].Pixel.Less(pairs[j].Pixel)
		})
	}
	return pairs
}

// HasSamePixels reports whether r and other store exactly the same set of
// (pixel, adc) pairs, regardless of layout.
func (r *PixelRegion) HasSamePixels(other *PixelRegion) bool {
	if len(r.pixels) != len(other.pixels) {
		return false
	}
	for p, adc := range r.pixels {
		oadc, ok := other.pixels[p]
		if !ok || oadc != adc {
			return false
		}
	}
	return true
}

// PixelMultiRegion is a Chip: a PixelRegion over the outer layout, plus,
// when the layout has more than one macro-region, a lazily-populated
// sub-PixelRegion per region id.
//
// Grounded on original_source/Algorithms/interface/Chip.h's
// PixelMultiRegion and Chip.cc's implementation.
type PixelMultiRegion struct {
	PixelRegion
	layout  MultiRegionLayout
	regions []*PixelRegion // indexed by region id, nil until first pixel lands there
}

// Chip is the system's name for a chip snapshot: a PixelMultiRegion.
type Chip = PixelMultiRegion

// NewChip builds an empty Chip over layout.
func NewChip(layout MultiRegionLayout) *Chip {
	c := &PixelMultiRegion{
		PixelRegion: PixelRegion{layout: layout.RegionLayout, pixels: make(map[Pixel]Adc)},
		layout:      layout,
	}
	if layout.NumberOfRegions() > 1 {
		c.regions = make([]*PixelRegion, layout.NumberOfRegions())
	}
	return c
}

// Layout returns the chip's outer MultiRegionLayout.
func (c *PixelMultiRegion) Layout() MultiRegionLayout { return c.layout }

// AddPixel inserts a pixel into the chip's outer map and mirrors it into
// the owning macro-region's sub-PixelRegion, lazily allocating that
// sub-region on first use.
func (c *PixelMultiRegion) AddPixel(p Pixel, adc Adc) error {
	if err := c.PixelRegion.AddPixel(p, adc); err != nil {
		return err
	}
	if c.regions == nil {
		return nil
	}
	regionID, local := c.layout.ToRegion(p)
	sub := c.regions[regionID]
	if sub == nil {
		sub = NewPixelRegion(c.layout.ActualRegionLayout(regionID))
		c.regions[regionID] = sub
	}
	if err := sub.AddPixel(local, adc); err != nil {
		return err
	}
	return nil
}

// Region returns the sub-PixelRegion for regionID, or nil if that
// macro-region has never had a pixel added to it. For a single-region chip
// (NumberOfRegions()==1) this always returns nil; use the chip itself via
// the embedded PixelRegion methods instead.
func (c *PixelMultiRegion) Region(regionID int) *PixelRegion {
	if c.regions == nil {
		return nil
	}
	return c.regions[regionID]
}

// RegionOrSelf returns the sub-PixelRegion for regionID, or the chip's own
// embedded PixelRegion when the chip has only one macro-region (mirroring
// PixelMultiRegion::GetRegion's "return *this" case for a single region).
// For a multi-region chip it returns nil when regionID has never had a
// pixel added; callers should check IsRegionActive first when that is a
// live possibility.
func (c *PixelMultiRegion) RegionOrSelf(regionID int) *PixelRegion {
	if c.regions == nil {
		return &c.PixelRegion
	}
	return c.regions[regionID]
}

// NewChipFromRegion builds a Chip that treats region's own layout as the
// outer grid and subLayout as the macro-region size within it, re-adding
// every pixel region already holds (in region's local coordinate space).
// Used by the block and delta codecs to split a chip's macro-region
// content into readout-unit-sized sub-regions.
//
// Grounded on Chip.cc's
// PixelMultiRegion(const PixelRegion&, const RegionLayout&) constructor.
func NewChipFromRegion(region *PixelRegion, subLayout RegionLayout) (*Chip, error) {
	layout, err := NewMultiRegionLayout(region.layout.NRows, region.layout.NColumns, subLayout)
	if err != nil {
		return nil, err
	}
	out := NewChip(layout)
	for p, adc := range region.pixels {
		if err := out.AddPixel(p, adc); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// IsRegionActive reports whether regionID holds at least one pixel. For a
// single-macro-region chip, "the region" is the chip itself.
func (c *PixelMultiRegion) IsRegionActive(regionID int) bool {
	if c.regions == nil {
		return regionID == 0 && c.PixelRegion.Len() > 0
	}
	sub := c.regions[regionID]
	return sub != nil && sub.Len() > 0
}

// NumberOfRegions returns the chip's macro-region count.
func (c *PixelMultiRegion) NumberOfRegions() int { return c.layout.NumberOfRegions() }

// OrderedPixels returns every stored (pixel, adc) pair in the chip's global
// coordinate space, ordered according to ordering. ByRegionByRow and
// ByRegionByColumn walk macro-regions in region-row/region-column order (or
// the transpose); within each active region, pixels are always walked in
// the sub-region's own ByRow order — the by-region/by-column distinction
// changes only the macro-region visiting order, never the per-pixel order
// inside a region.
func (c *PixelMultiRegion) OrderedPixels(ordering Ordering) []AdcPair {
	switch ordering {
	case ByRegionByRow, ByRegionByColumn:
		return c.orderedByRegion(ordering)
	default:
		return c.PixelRegion.OrderedPixels(ordering)
	}
}

func (c *PixelMultiRegion) orderedByRegion(ordering Ordering) []AdcPair {
	out := make([]AdcPair, 0, c.PixelRegion.Len())
	visit := func(regionID int) {
		sub := c.Region(regionID)
		if sub == nil || sub.Len() == 0 {
			return
		}
		for _, pair := range sub.OrderedPixels(ByRow) {
			out = append(out, AdcPair{Pixel: c.layout.FromRegion(regionID, pair.Pixel), Adc: pair.Adc})
		}
	}

	if c.regions == nil {
		visit(0)
		return out
	}

	if ordering == ByRegionByRow {
		for regionRow := 0; regionRow < c.layout.NRegionRows; regionRow++ {
			for regionColumn := 0; regionColumn < c.layout.NRegionColumns; regionColumn++ {
				visit(c.layout.RegionID(regionRow, regionColumn))
			}
		}
	} else {
		for regionColumn := 0; regionColumn < c.layout.NRegionColumns; regionColumn++ {
			for regionRow := 0; regionRow < c.layout.NRegionRows; regionRow++ {
				visit(c.layout.RegionID(regionRow, regionColumn))
			}
		}
	}
	return out
}

// Equal reports whether c and other hold exactly the same set of
// (pixel, adc) pairs in global coordinates, regardless of layout identity.
func (c *PixelMultiRegion) Equal(other *PixelMultiRegion) bool {
	return c.PixelRegion.HasSamePixels(&other.PixelRegion)
}

// Resplit builds a new Chip over a different outer MultiRegionLayout,
// re-adding every pixel currently stored in c. Used by ChipDataEncoder and
// DictionaryBuilder when a caller's chip layout differs from the
// configured one.
func (c *PixelMultiRegion) Resplit(layout MultiRegionLayout) (*Chip, error) {
	out := NewChip(layout)
	for p, adc := range c.pixels {
		if err := out.AddPixel(p, adc); err != nil {
			return nil, err
		}
	}
	return out, nil
}
