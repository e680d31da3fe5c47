// Package errs holds the sentinel errors returned across chipcodec.
//
// Call sites wrap these with context using fmt.Errorf("...: %w", errs.ErrXxx);
// callers compare with errors.Is, never on the formatted string.
package errs

import "errors"

var (
	// ErrInvalidLayout signals a zero row/column count or an otherwise
	// inconsistent RegionLayout/MultiRegionLayout.
	ErrInvalidLayout = errors.New("invalid layout")

	// ErrPixelOutOfRange signals a pixel outside its declared layout.
	ErrPixelOutOfRange = errors.New("pixel out of range")

	// ErrDuplicatePixel signals insertion of an already-present pixel into a region.
	ErrDuplicatePixel = errors.New("duplicate pixel")

	// ErrUnknownLetter signals a letter not present in an alphabet.
	ErrUnknownLetter = errors.New("unknown letter")

	// ErrInvalidStatistics signals an AlphabetStatistics invariant violation:
	// out-of-range probability, probabilities not summing to 1, empty
	// alphabet, non-positive counts, or negative entropy.
	ErrInvalidStatistics = errors.New("invalid alphabet statistics")

	// ErrInvalidHuffmanCode signals a malformed Huffman code string (a
	// non-binary character, or a code longer than 64 bits).
	ErrInvalidHuffmanCode = errors.New("invalid huffman code")

	// ErrTooManyBits signals a bit-width argument greater than 64.
	ErrTooManyBits = errors.New("too many bits")

	// ErrValueOutOfRange signals a write value that does not fit in the
	// requested number of bits.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrUnexpectedEOF signals a read past the end of a Package without the
	// relaxed "use zeros for missing data" flag.
	ErrUnexpectedEOF = errors.New("unexpected end of package")

	// ErrNegativeDelta signals an iterator subtraction or -= that would move
	// a position below zero, or a - b where b is ahead of a.
	ErrNegativeDelta = errors.New("negative delta")

	// ErrIteratorMismatch signals an operation between iterators that belong
	// to different Packages.
	ErrIteratorMismatch = errors.New("iterator belongs to a different package")

	// ErrUnsupportedFormat signals an unknown EncoderFormat, or an Ordering
	// unsupported in a context that doesn't accept it.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrIO wraps underlying file read/write failures.
	ErrIO = errors.New("io error")
)
