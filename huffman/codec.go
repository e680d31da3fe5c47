package huffman

import (
	"fmt"

	"github.com/pixelreadout/chipcodec/bitpack"
	"github.com/pixelreadout/chipcodec/errs"
)

// EncodeLetter writes letter's code from table into p, one bit at a time,
// from the code's least-significant bit upward. Package.Write(bit, 1) is
// used for every bit, so from the package's own MSB-first perspective the
// bits land in the code's LSB-to-MSB order — decoders must replay this
// exactly bit by bit.
//
// Grounded on original_source/Algorithms/interface/HuffmanEncoder.h's
// EncodeLetter.
func EncodeLetter(table *Table, letter Letter, p *bitpack.Package) error {
	code, ok := table.CodeFor(letter)
	if !ok {
		return fmt.Errorf("huffman encode letter %d: %w", letter, errs.ErrUnknownLetter)
	}
	for n := uint8(0); n < code.NumberOfBits(); n++ {
		bit := (code.Bits() >> n) & 1
		if err := p.Write(bit, 1); err != nil {
			return err
		}
	}
	return nil
}

// DecodeLetter reads single bits from it, growing a Code from the
// least-significant bit upward, until the accumulated code matches an
// entry in table.
//
// Grounded on original_source/Algorithms/interface/HuffmanDecoder.h's
// DecodeLetter.
func DecodeLetter(table *Table, it *bitpack.Iterator) (Letter, error) {
	var code Code
	for {
		bit, err := it.Read(1, false)
		if err != nil {
			return 0, err
		}
		var err2 error
		code, err2 = code.Append(bit == 1)
		if err2 != nil {
			return 0, err2
		}
		if letter, ok := table.LetterFor(code); ok {
			return letter, nil
		}
	}
}
