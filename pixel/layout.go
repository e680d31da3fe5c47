package pixel

import (
	"fmt"
	"math"

	"github.com/pixelreadout/chipcodec/errs"
)

// RegionLayout describes an n_rows x n_columns pixel grid and the bit
// widths derived from it.
type RegionLayout struct {
	NRows    int
	NColumns int
}

// NewRegionLayout validates and builds a RegionLayout; both dimensions must
// be positive.
func NewRegionLayout(nRows, nColumns int) (RegionLayout, error) {
	if nRows <= 0 || nColumns <= 0 {
		return RegionLayout{}, fmt.Errorf("region dimensions %dx%d: %w", nRows, nColumns, errs.ErrInvalidLayout)
	}
	return RegionLayout{NRows: nRows, NColumns: nColumns}, nil
}

// NumberOfPixels returns n_rows * n_columns.
func (l RegionLayout) NumberOfPixels() int {
	return l.NRows * l.NColumns
}

// BitsPerValue returns ceil(log2(maxValue)), the number of bits needed to
// represent values 0..maxValue-1.
func BitsPerValue(maxValue int) int {
	if maxValue <= 1 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(maxValue))))
}

// BitsPerRow returns the bit width of a row coordinate.
func (l RegionLayout) BitsPerRow() int { return BitsPerValue(l.NRows) }

// BitsPerColumn returns the bit width of a column coordinate.
func (l RegionLayout) BitsPerColumn() int { return BitsPerValue(l.NColumns) }

// BitsPerID returns the bit width of a pixel id (row*n_columns + column).
func (l RegionLayout) BitsPerID() int { return BitsPerValue(l.NumberOfPixels()) }

// Contains reports whether pixel lies within [0,NRows) x [0,NColumns).
func (l RegionLayout) Contains(p Pixel) bool {
	return p.Row >= 0 && int(p.Row) < l.NRows && p.Column >= 0 && int(p.Column) < l.NColumns
}

// checkPixel returns an error if p is outside the layout.
func (l RegionLayout) checkPixel(p Pixel) error {
	if !l.Contains(p) {
		return fmt.Errorf("pixel %v outside [0,%d)x[0,%d): %w", p, l.NRows, l.NColumns, errs.ErrPixelOutOfRange)
	}
	return nil
}

// PixelID maps a pixel to row*n_columns + column.
func (l RegionLayout) PixelID(p Pixel) (int, error) {
	if err := l.checkPixel(p); err != nil {
		return 0, err
	}
	return int(p.Row)*l.NColumns + int(p.Column), nil
}

// Pixel is the inverse of PixelID.
func (l RegionLayout) Pixel(id int) (Pixel, error) {
	column := id % l.NColumns
	row := (id - column) / l.NColumns
	p := New(Coordinate(row), Coordinate(column))
	if err := l.checkPixel(p); err != nil {
		return Pixel{}, err
	}
	return p, nil
}

// Equal reports whether two layouts have identical dimensions.
func (l RegionLayout) Equal(other RegionLayout) bool {
	return l.NRows == other.NRows && l.NColumns == other.NColumns
}

// MultiRegionLayout refines an outer RegionLayout with a sub-grid of
// macro-regions, each region_layout in size (the last row/column band may
// be smaller).
type MultiRegionLayout struct {
	RegionLayout
	RegionLayout_       RegionLayout // size of a full (non-boundary) macro-region
	NRegionRows         int
	NRegionColumns       int
	NLastRegionRows      int
	NLastRegionColumns   int
}

// NewMultiRegionLayout builds a MultiRegionLayout from the outer grid size
// and the size of one macro-region.
func NewMultiRegionLayout(nRows, nColumns int, region RegionLayout) (MultiRegionLayout, error) {
	outer, err := NewRegionLayout(nRows, nColumns)
	if err != nil {
		return MultiRegionLayout{}, err
	}
	nRegionRows := ceilDiv(nRows, region.NRows)
	nRegionColumns := ceilDiv(nColumns, region.NColumns)
	if nRegionRows <= 0 || nRegionColumns <= 0 {
		return MultiRegionLayout{}, fmt.Errorf("invalid multi-region layout: %w", errs.ErrInvalidLayout)
	}
	return MultiRegionLayout{
		RegionLayout:       outer,
		RegionLayout_:      region,
		NRegionRows:        nRegionRows,
		NRegionColumns:     nRegionColumns,
		NLastRegionRows:    nRows - (nRegionRows-1)*region.NRows,
		NLastRegionColumns: nColumns - (nRegionColumns-1)*region.NColumns,
	}, nil
}

// NewMultiRegionLayoutByCount builds a MultiRegionLayout from the outer grid
// size and an explicit number of region rows/columns; the macro-region size
// is derived to cover the outer grid with that many bands.
func NewMultiRegionLayoutByCount(nRows, nColumns, nRegionRows, nRegionColumns int) (MultiRegionLayout, error) {
	if nRegionRows <= 0 || nRegionColumns <= 0 {
		return MultiRegionLayout{}, fmt.Errorf("invalid region counts %dx%d: %w", nRegionRows, nRegionColumns, errs.ErrInvalidLayout)
	}
	regionRows := ceilDiv(nRows, nRegionRows)
	regionColumns := ceilDiv(nColumns, nRegionColumns)
	region, err := NewRegionLayout(regionRows, regionColumns)
	if err != nil {
		return MultiRegionLayout{}, err
	}
	return NewMultiRegionLayout(nRows, nColumns, region)
}

// NewSingleRegionLayout builds a MultiRegionLayout with exactly one
// macro-region covering the whole outer grid.
func NewSingleRegionLayout(nRows, nColumns int) (MultiRegionLayout, error) {
	outer, err := NewRegionLayout(nRows, nColumns)
	if err != nil {
		return MultiRegionLayout{}, err
	}
	return NewMultiRegionLayout(nRows, nColumns, outer)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// NumberOfRegions returns n_region_rows * n_region_columns.
func (l MultiRegionLayout) NumberOfRegions() int {
	return l.NRegionRows * l.NRegionColumns
}

// RegionID returns the region index for a (region_row, region_column) pair.
func (l MultiRegionLayout) RegionID(regionRow, regionColumn int) int {
	return regionRow*l.NRegionColumns + regionColumn
}

// ToRegion maps a global pixel to its (region id, local pixel) pair.
func (l MultiRegionLayout) ToRegion(p Pixel) (regionID int, local Pixel) {
	regionRow := int(p.Row) / l.RegionLayout_.NRows
	regionColumn := int(p.Column) / l.RegionLayout_.NColumns
	regionID = regionRow*l.NRegionColumns + regionColumn
	local = New(
		Coordinate(int(p.Row)%l.RegionLayout_.NRows),
		Coordinate(int(p.Column)%l.RegionLayout_.NColumns),
	)
	return regionID, local
}

// FromRegion is the inverse of ToRegion.
func (l MultiRegionLayout) FromRegion(regionID int, local Pixel) Pixel {
	regionColumn := regionID % l.NRegionColumns
	regionRow := (regionID - regionColumn) / l.NRegionColumns
	return New(
		Coordinate(regionRow*l.RegionLayout_.NRows+int(local.Row)),
		Coordinate(regionColumn*l.RegionLayout_.NColumns+int(local.Column)),
	)
}

// ActualRegionLayout returns the true size of the given region: the full
// region_layout size, or the (possibly smaller) boundary size if regionID
// falls in the last row/column band.
func (l MultiRegionLayout) ActualRegionLayout(regionID int) RegionLayout {
	regionColumn := regionID % l.NRegionColumns
	regionRow := (regionID - regionColumn) / l.NRegionColumns
	nColumns := l.RegionLayout_.NColumns
	if regionColumn+1 == l.NRegionColumns {
		nColumns = l.NLastRegionColumns
	}
	nRows := l.RegionLayout_.NRows
	if regionRow+1 == l.NRegionRows {
		nRows = l.NLastRegionRows
	}
	return RegionLayout{NRows: nRows, NColumns: nColumns}
}

// IsRegionComplete reports whether regionID has the full (non-boundary)
// region_layout size.
func (l MultiRegionLayout) IsRegionComplete(regionID int) bool {
	return l.ActualRegionLayout(regionID).Equal(l.RegionLayout_)
}

// Equal reports whether two MultiRegionLayouts share the same macro-region
// size and region counts. Note: unlike RegionLayout.Equal, this
// intentionally ignores the outer NRows/NColumns, matching the original's
// MultiRegionLayout::operator==.
func (l MultiRegionLayout) Equal(other MultiRegionLayout) bool {
	return l.RegionLayout_.Equal(other.RegionLayout_) &&
		l.NRegionRows == other.NRegionRows && l.NRegionColumns == other.NRegionColumns
}
