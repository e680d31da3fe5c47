// Package huffman implements the Huffman entropy coder: building a
// canonical letter<->code table from observed frequencies, and encoding or
// decoding individual letters against that table one bit at a time.
//
// Grounded on original_source/Algorithms/interface/HuffmanLetterCode.h,
// HuffmanTree.h, HuffmanEncoder.h and HuffmanDecoder.h.
//
// The Letter type is fixed to int32 rather than genericized: ADC values,
// pixel deltas and pixel ids all fit, and the reserved SPECIAL=-1 sentinel
// used by the delta codecs and dictionary reduction requires signedness.
package huffman

import (
	"fmt"
	"strings"

	"github.com/pixelreadout/chipcodec/errs"
)

// Letter is the symbol type the Huffman engine operates over.
type Letter = int32

// Special is the reserved escape letter signalling "a raw fallback value
// follows" in a reduced alphabet.
const Special Letter = -1

// MaxNumberOfBits is the widest code word this package can represent.
const MaxNumberOfBits = 64

// Code is an immutable variable-length prefix code word. Bits grow from the
// least-significant bit upward: the first bit appended occupies bit 0.
type Code struct {
	bits  uint64
	nBits uint8
}

// Append returns the code formed by appending bit to the end of c.
func (c Code) Append(bit bool) (Code, error) {
	if c.nBits+1 > MaxNumberOfBits {
		return Code{}, fmt.Errorf("huffman code would exceed %d bits: %w", MaxNumberOfBits, errs.ErrInvalidHuffmanCode)
	}
	var b uint64
	if bit {
		b = 1
	}
	return Code{bits: (b << c.nBits) | c.bits, nBits: c.nBits + 1}, nil
}

// NumberOfBits returns the code's length in bits.
func (c Code) NumberOfBits() uint8 { return c.nBits }

// Bits returns the code's raw bit pattern, right-justified.
func (c Code) Bits() uint64 { return c.bits }

// Equal reports structural equality.
func (c Code) Equal(other Code) bool {
	return c.bits == other.bits && c.nBits == other.nBits
}

// Less orders codes by bit length, then by bit pattern.
func (c Code) Less(other Code) bool {
	if c.nBits != other.nBits {
		return c.nBits < other.nBits
	}
	return c.bits < other.bits
}

// String renders the code as a string of '0'/'1' characters, one per bit,
// from the least-significant bit to the most-significant — the order the
// dictionary text format and the bit-at-a-time encoder both use.
func (c Code) String() string {
	var sb strings.Builder
	for n := uint8(0); n < c.nBits; n++ {
		if (c.bits>>n)&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// ParseCode parses a '0'/'1' string, LSB first, into a Code.
func ParseCode(s string) (Code, error) {
	if len(s) > MaxNumberOfBits {
		return Code{}, fmt.Errorf("huffman code string %q longer than %d bits: %w", s, MaxNumberOfBits, errs.ErrInvalidHuffmanCode)
	}
	var c Code
	for _, ch := range s {
		var bit bool
		switch ch {
		case '0':
			bit = false
		case '1':
			bit = true
		default:
			return Code{}, fmt.Errorf("huffman code string %q has non-binary character %q: %w", s, ch, errs.ErrInvalidHuffmanCode)
		}
		var err error
		c, err = c.Append(bit)
		if err != nil {
			return Code{}, err
		}
	}
	return c, nil
}
