package codec

import (
	"github.com/pixelreadout/chipcodec/bitpack"
	"github.com/pixelreadout/chipcodec/huffman"
	"github.com/pixelreadout/chipcodec/pixel"
	"github.com/pixelreadout/chipcodec/stats"
)

// BlockPackageMakerName returns the configuration name for a
// BlockPackageMaker, depending on whether adc values are Huffman-encoded
// against a dictionary alphabet ("block_encoded") or written raw
// ("block_raw").
func BlockPackageMakerName(encodeAdc bool) string {
	if encodeAdc {
		return "block_encoded"
	}
	return "block_raw"
}

// BlockPackageMaker partitions each active macro-region into readout-unit
// sized sub-regions, addresses every sub-region across the whole chip with
// a single full_region_id, and writes every cell of that sub-region in
// row-major order — either raw at a fixed bit width, or Huffman-encoded
// against the "all_adc" dictionary alphabet when built with
// NewBlockPackageMakerEncoded. A cell with adc 0 decodes back to "no
// pixel"; Make never needs to special-case it because GetAdc already
// returns 0 for an absent pixel.
//
// Grounded on BlockPackageMaker.h.
type BlockPackageMaker struct {
	ReadoutUnitLayout pixel.RegionLayout
	NBitsPerAdc       uint
	adcStat           *stats.Statistics
}

// NewBlockPackageMaker returns a raw (non-dictionary) BlockPackageMaker.
func NewBlockPackageMaker(readoutUnitLayout pixel.RegionLayout, nBitsPerAdc uint) *BlockPackageMaker {
	return &BlockPackageMaker{ReadoutUnitLayout: readoutUnitLayout, NBitsPerAdc: nBitsPerAdc}
}

// NewBlockPackageMakerEncoded returns a BlockPackageMaker that
// Huffman-encodes every adc value against adcStat instead of writing it
// raw.
func NewBlockPackageMakerEncoded(readoutUnitLayout pixel.RegionLayout, adcStat *stats.Statistics) *BlockPackageMaker {
	return &BlockPackageMaker{ReadoutUnitLayout: readoutUnitLayout, adcStat: adcStat}
}

func fullRegionID(macroRegionID, regionID, nMacroRegions int) int {
	return regionID*nMacroRegions + macroRegionID
}

func splitFullRegionID(full, nMacroRegions int) (macroRegionID, regionID int) {
	macroRegionID = full % nMacroRegions
	regionID = (full - macroRegionID) / nMacroRegions
	return macroRegionID, regionID
}

type activeMacroRegion struct {
	macroRegionID int
	regionIDs     []int
	subRegions    *pixel.Chip
}

// Make implements PackageMaker. Active sub-regions are consumed
// round-robin across macro-regions: one readout-unit block per active
// macro-region per round, then one NextReadoutCycle call per round, until
// every macro-region's sub-regions are exhausted.
func (m *BlockPackageMaker) Make(chip *pixel.Chip) (*bitpack.Package, error) {
	multiLayout := chip.Layout()
	nMacroRegions := multiLayout.NumberOfRegions()

	var active []*activeMacroRegion
	nRegions := 0

	for macroRegionID := 0; macroRegionID < nMacroRegions; macroRegionID++ {
		if !chip.IsRegionActive(macroRegionID) {
			continue
		}
		macroRegion := chip.RegionOrSelf(macroRegionID)
		pixelArea, err := pixel.NewChipFromRegion(macroRegion, m.ReadoutUnitLayout)
		if err != nil {
			return nil, err
		}
		nRegions = pixelArea.Layout().NumberOfRegions()

		var regionIDs []int
		for regionID := 0; regionID < nRegions; regionID++ {
			if pixelArea.IsRegionActive(regionID) {
				regionIDs = append(regionIDs, regionID)
			}
		}
		if len(regionIDs) == 0 {
			continue
		}
		active = append(active, &activeMacroRegion{macroRegionID: macroRegionID, regionIDs: regionIDs, subRegions: pixelArea})
	}

	nBitsPerAddress := uint(pixel.BitsPerValue(nRegions * nMacroRegions))

	p := bitpack.New()
	for len(active) > 0 {
		remaining := make([]*activeMacroRegion, 0, len(active))
		for _, mr := range active {
			regionID := mr.regionIDs[0]
			mr.regionIDs = mr.regionIDs[1:]
			region := mr.subRegions.RegionOrSelf(regionID)

			full := fullRegionID(mr.macroRegionID, regionID, nMacroRegions)
			if err := p.Write(uint64(full), nBitsPerAddress); err != nil {
				return nil, err
			}

			for row := 0; row < m.ReadoutUnitLayout.NRows; row++ {
				for column := 0; column < m.ReadoutUnitLayout.NColumns; column++ {
					adc := region.GetAdc(pixel.New(pixel.Coordinate(row), pixel.Coordinate(column)))
					if m.adcStat != nil {
						if err := huffman.EncodeLetter(m.adcStat.Table(), huffman.Letter(adc), p); err != nil {
							return nil, err
						}
					} else if err := p.Write(uint64(adc), m.NBitsPerAdc); err != nil {
						return nil, err
					}
				}
			}

			if len(mr.regionIDs) > 0 {
				remaining = append(remaining, mr)
			}
		}
		active = remaining
		p.NextReadoutCycle()
	}

	return p, nil
}

// Read implements PackageMaker.
func (m *BlockPackageMaker) Read(p *bitpack.Package, multiLayout pixel.MultiRegionLayout) (*pixel.Chip, error) {
	chip := pixel.NewChip(multiLayout)
	nMacroRegions := multiLayout.NumberOfRegions()

	layout, err := pixel.NewMultiRegionLayout(multiLayout.RegionLayout_.NRows, multiLayout.RegionLayout_.NColumns, m.ReadoutUnitLayout)
	if err != nil {
		return nil, err
	}
	nRegions := layout.NumberOfRegions()
	nBitsPerAddress := uint(pixel.BitsPerValue(nRegions * nMacroRegions))

	it := p.Begin()
	end := p.End()
	for !it.Equal(end) {
		full, err := it.Read(nBitsPerAddress, false)
		if err != nil {
			return nil, err
		}
		macroRegionID, regionID := splitFullRegionID(int(full), nMacroRegions)

		for row := 0; row < m.ReadoutUnitLayout.NRows; row++ {
			for column := 0; column < m.ReadoutUnitLayout.NColumns; column++ {
				var adc uint64
				if m.adcStat != nil {
					letter, err := huffman.DecodeLetter(m.adcStat.Table(), &it)
					if err != nil {
						return nil, err
					}
					adc = uint64(letter)
				} else {
					adc, err = it.Read(m.NBitsPerAdc, false)
					if err != nil {
						return nil, err
					}
				}
				if adc == 0 {
					continue
				}
				readoutPixel := pixel.New(pixel.Coordinate(row), pixel.Coordinate(column))
				macroRegionPixel := layout.FromRegion(regionID, readoutPixel)
				chipPixel := multiLayout.FromRegion(macroRegionID, macroRegionPixel)
				if err := chip.AddPixel(chipPixel, pixel.Adc(adc)); err != nil {
					return nil, err
				}
			}
		}
	}
	return chip, nil
}
