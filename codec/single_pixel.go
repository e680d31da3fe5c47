package codec

import (
	"github.com/pixelreadout/chipcodec/bitpack"
	"github.com/pixelreadout/chipcodec/pixel"
)

// DefaultPackageMakerName identifies the linear single-pixel maker in
// configuration and log output.
const DefaultPackageMakerName = "default"

// DefaultPackageMaker writes each active pixel as a raw (pixel_id, adc)
// pair, visiting the chip's pixels in ascending (row, column) order and
// calling NextReadoutCycle once per n_macro_regions pixels (and once more
// at the very end). It never touches a dictionary: every value is written
// at a fixed bit width.
//
// Grounded on PackageMaker.h's DefaultPackageMaker.
type DefaultPackageMaker struct {
	NBitsPerAdc uint
}

// NewDefaultPackageMaker returns a DefaultPackageMaker writing adc values
// at nBitsPerAdc bits each.
func NewDefaultPackageMaker(nBitsPerAdc uint) *DefaultPackageMaker {
	return &DefaultPackageMaker{NBitsPerAdc: nBitsPerAdc}
}

// Make implements PackageMaker.
func (m *DefaultPackageMaker) Make(chip *pixel.Chip) (*bitpack.Package, error) {
	p := bitpack.New()
	layout := chip.Layout()
	nBitsPerPixelID := uint(layout.BitsPerID())
	nRegions := layout.NumberOfRegions()

	pairs := chip.OrderedPixels(pixel.ByRow)
	for n, pair := range pairs {
		pixelID, err := layout.PixelID(pair.Pixel)
		if err != nil {
			return nil, err
		}
		if err := p.Write(uint64(pixelID), nBitsPerPixelID); err != nil {
			return nil, err
		}
		if err := p.Write(uint64(pair.Adc), m.NBitsPerAdc); err != nil {
			return nil, err
		}
		if (n+1)%nRegions == 0 || n+1 == len(pairs) {
			p.NextReadoutCycle()
		}
	}
	return p, nil
}

// Read implements PackageMaker.
func (m *DefaultPackageMaker) Read(p *bitpack.Package, layout pixel.MultiRegionLayout) (*pixel.Chip, error) {
	nBitsPerPixelID := uint(layout.BitsPerID())
	chip := pixel.NewChip(layout)

	it := p.Begin()
	end := p.End()
	for !it.Equal(end) {
		pixelID, err := it.Read(nBitsPerPixelID, false)
		if err != nil {
			return nil, err
		}
		adc, err := it.Read(m.NBitsPerAdc, false)
		if err != nil {
			return nil, err
		}
		px, err := layout.Pixel(int(pixelID))
		if err != nil {
			return nil, err
		}
		if err := chip.AddPixel(px, pixel.Adc(adc)); err != nil {
			return nil, err
		}
	}
	return chip, nil
}
