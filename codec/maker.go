// Package codec implements the package-maker codecs that turn a chip
// snapshot into a bit-packed Package and back: the linear SinglePixel
// maker, the per-readout-unit Region (optionally Huffman-encoded) maker,
// the two Delta maker modes, and the ChipDataEncoder facade that dispatches
// between them by configured format.
//
// Grounded on original_source/Algorithms/interface/PackageMaker.h,
// BlockPackageMaker.h, DeltaPackageMaker.h and ChipDataEncoder.h/.cc.
package codec

import (
	"github.com/pixelreadout/chipcodec/bitpack"
	"github.com/pixelreadout/chipcodec/pixel"
)

// PackageMaker turns a Chip snapshot into a bit-packed Package and back.
// Make and Read are each other's inverse for any chip whose layout matches
// the MultiRegionLayout passed to Read.
type PackageMaker interface {
	Make(chip *pixel.Chip) (*bitpack.Package, error)
	Read(p *bitpack.Package, layout pixel.MultiRegionLayout) (*pixel.Chip, error)
}
