// Package bitpack implements the append-only bit-packed container every
// package-maker codec writes into and reads back from.
//
// Grounded on original_source/Algorithms/interface/Package.h: a byte
// vector plus a logical bit-length (end position), written and read
// through an Iterator that tracks its own bit position inside that byte
// vector.
package bitpack

import (
	"fmt"

	"github.com/pixelreadout/chipcodec/errs"
)

const (
	bitsPerByte    = 8
	bitsPerItem    = 8 // DataContainer::value_type is a byte
	bitsPerInteger = 64
)

// Package is an append-only bit stream: a growable byte buffer plus a
// logical end position measured in bits, plus the out-of-band readout-cycle
// markers next_readout_cycle appends. It is single-writer/single-reader per
// instance and not internally synchronized.
type Package struct {
	data             []byte
	endPosition      uint64
	readoutPositions []uint64
}

// New returns an empty Package.
func New() *Package {
	return &Package{}
}

// NewFromBytes rehydrates a Package from raw bytes previously obtained via
// Bytes(), given the original logical end position in bits. Used to
// reconstruct a Package after its bytes have round-tripped through a
// compress.Codec envelope, which carries no notion of bit length on its
// own.
func NewFromBytes(data []byte, endPosition uint64) *Package {
	return &Package{data: data, endPosition: endPosition}
}

// Bytes returns the package's raw byte container. The final byte may carry
// unused high bits beyond EndPosition() if EndPosition is not byte-aligned.
func (p *Package) Bytes() []byte { return p.data }

// EndPosition returns the current logical length of the stream in bits.
func (p *Package) EndPosition() uint64 { return p.endPosition }

// ReadoutPositions returns the bit positions recorded by NextReadoutCycle,
// in the order they were recorded. This is an annotation only: decoders
// must never use it to drive decoding.
func (p *Package) ReadoutPositions() []uint64 { return p.readoutPositions }

// Begin returns an Iterator positioned at the start of the stream.
func (p *Package) Begin() Iterator { return Iterator{pkg: p, pos: 0} }

// End returns an Iterator positioned at the current end of the stream.
func (p *Package) End() Iterator { return Iterator{pkg: p, pos: p.endPosition} }

func mask(nBits uint) uint64 {
	if nBits >= bitsPerInteger {
		return ^uint64(0)
	}
	return (uint64(1) << nBits) - 1
}

func checkWidth(value uint64, nBits uint) error {
	if nBits > bitsPerInteger {
		return fmt.Errorf("write %d bits: %w", nBits, errs.ErrTooManyBits)
	}
	if nBits < bitsPerInteger {
		max := mask(nBits)
		if value > max {
			return fmt.Errorf("value %d does not fit in %d bits (max %d): %w", value, nBits, max, errs.ErrValueOutOfRange)
		}
	}
	return nil
}

// Write appends the top nBits bits of value, most-significant bit first:
// the first bit appended is bit (nBits-1) of value. It is built out of
// repeated single-bit WriteEx calls, matching the original's write().
func (p *Package) Write(value uint64, nBits uint) error {
	if err := checkWidth(value, nBits); err != nil {
		return err
	}
	for n := uint(0); n < nBits; n++ {
		shift := nBits - n - 1
		bit := (value >> shift) & 1
		if err := p.WriteEx(bit, 1); err != nil {
			return err
		}
	}
	return nil
}

// WriteEx packs nBits bits of value, least-significant bit first, starting
// at the current bit shift within the current byte. When the current byte
// fills up, a new zero-initialized byte is appended. Precondition:
// value < 2^nBits.
func (p *Package) WriteEx(value uint64, nBits uint) error {
	if err := checkWidth(value, nBits); err != nil {
		return err
	}

	var nWritten uint
	for nWritten < nBits {
		currentShift := uint(p.endPosition % bitsPerItem)
		if currentShift == 0 {
			p.data = append(p.data, 0)
		}
		delta := nBits - nWritten
		nToWrite := bitsPerItem - currentShift
		if delta < nToWrite {
			nToWrite = delta
		}
		maskedValue := (value >> nWritten) & mask(nToWrite)
		p.data[len(p.data)-1] |= byte(maskedValue << currentShift)
		nWritten += nToWrite
		p.endPosition += uint64(nToWrite)
	}
	return nil
}

// WritePackage appends the full contents of other to p, read back in
// chunks of up to 64 bits and re-written with Write. Used to splice two
// independently-built Packages together.
func (p *Package) WritePackage(other *Package) error {
	it := other.Begin()
	end := other.End()
	for it.pos != end.pos {
		remaining, err := end.Distance(it)
		if err != nil {
			return err
		}
		nToRead := uint(bitsPerInteger)
		if remaining < uint64(nToRead) {
			nToRead = uint(remaining)
		}
		value, err := it.Read(nToRead, false)
		if err != nil {
			return err
		}
		if err := p.Write(value, nToRead); err != nil {
			return err
		}
	}
	return nil
}

// FinalizeByte pads the stream with zero bits up to the next byte
// boundary. Used between Huffman letter streams where a maker requires
// byte-aligned sections.
func (p *Package) FinalizeByte() error {
	nWritten := uint(p.endPosition % bitsPerByte)
	var nToWrite uint
	if nWritten != 0 {
		nToWrite = bitsPerByte - nWritten
	}
	return p.Write(0, nToWrite)
}

// NextReadoutCycle appends the current end position to the readout-cycle
// annotation list. It has no effect on the bit stream itself.
func (p *Package) NextReadoutCycle() {
	p.readoutPositions = append(p.readoutPositions, p.endPosition)
}

// Equal reports whether p and other hold the same logical bit stream: same
// end position and identical byte contents up to that point.
func (p *Package) Equal(other *Package) bool {
	if p.endPosition != other.endPosition {
		return false
	}
	for i := range p.data {
		if p.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// Iterator references a position, in bits, inside a Package. It is a
// value type bound to the package that created it; comparing or
// subtracting iterators from different packages fails with
// ErrIteratorMismatch.
type Iterator struct {
	pkg *Package
	pos uint64
}

// Position returns the iterator's bit position.
func (it Iterator) Position() uint64 { return it.pos }

func (it Iterator) itemPosition() uint64 { return it.pos / bitsPerItem }
func (it Iterator) shift() uint          { return uint(it.pos % bitsPerItem) }

// Equal reports whether it and other reference the same package and bit
// position.
func (it Iterator) Equal(other Iterator) bool {
	return it.pkg == other.pkg && it.pos == other.pos
}

// Add advances the iterator by delta bits (the += operator in the original).
func (it *Iterator) Add(delta uint64) { it.pos += delta }

// Sub moves the iterator back by delta bits, failing with ErrNegativeDelta
// if that would move it before position 0.
func (it *Iterator) Sub(delta uint64) error {
	if delta > it.pos {
		return fmt.Errorf("iterator seek back by %d from %d: %w", delta, it.pos, errs.ErrNegativeDelta)
	}
	it.pos -= delta
	return nil
}

// Distance returns the non-negative bit distance it-other, failing with
// ErrIteratorMismatch if the two iterators belong to different packages or
// ErrNegativeDelta if other is ahead of it.
func (it Iterator) Distance(other Iterator) (uint64, error) {
	if it.pkg != other.pkg {
		return 0, fmt.Errorf("iterator distance: %w", errs.ErrIteratorMismatch)
	}
	if it.pos < other.pos {
		return 0, fmt.Errorf("iterator distance %d - %d: %w", it.pos, other.pos, errs.ErrNegativeDelta)
	}
	return it.pos - other.pos, nil
}

// Read returns an integer whose most significant bit equals the next
// logical bit in the stream, consuming nBitsRequested bits. If the stream
// is exhausted mid-read and useZerosForMissingData is set, the missing
// trailing bits are treated as zero and the iterator stops at the
// package's end; otherwise it fails with ErrUnexpectedEOF.
func (it *Iterator) Read(nBitsRequested uint, useZerosForMissingData bool) (uint64, error) {
	if nBitsRequested > bitsPerInteger {
		return 0, fmt.Errorf("read %d bits: %w", nBitsRequested, errs.ErrTooManyBits)
	}
	bitsLeft := it.pkg.endPosition - it.pos
	if uint64(nBitsRequested) > bitsLeft && !useZerosForMissingData {
		return 0, fmt.Errorf("read %d bits, %d left: %w", nBitsRequested, bitsLeft, errs.ErrUnexpectedEOF)
	}

	nBits := nBitsRequested
	if uint64(nBits) > bitsLeft {
		nBits = uint(bitsLeft)
	}

	var result uint64
	for n := uint(0); n < nBits; n++ {
		bit, err := it.ReadEx(1, false)
		if err != nil {
			return 0, err
		}
		result = (result << 1) + bit
	}
	result <<= nBitsRequested - nBits
	return result, nil
}

// ReadEx reads nBitsRequested bits starting at the iterator's current bit
// shift, least-significant bit first, and returns them right-justified.
// Exhaustion is handled identically to Read.
func (it *Iterator) ReadEx(nBitsRequested uint, useZerosForMissingData bool) (uint64, error) {
	if nBitsRequested > bitsPerInteger {
		return 0, fmt.Errorf("read_ex %d bits: %w", nBitsRequested, errs.ErrTooManyBits)
	}
	bitsLeft := it.pkg.endPosition - it.pos
	if uint64(nBitsRequested) > bitsLeft && !useZerosForMissingData {
		return 0, fmt.Errorf("read_ex %d bits, %d left: %w", nBitsRequested, bitsLeft, errs.ErrUnexpectedEOF)
	}

	nBits := nBitsRequested
	if uint64(nBits) > bitsLeft {
		nBits = uint(bitsLeft)
	}

	var result uint64
	var nRead uint
	for nRead < nBits {
		shift := it.shift()
		nToRead := bitsPerItem - shift
		if nBits-nRead < nToRead {
			nToRead = nBits - nRead
		}
		b := uint64(it.pkg.data[it.itemPosition()])
		b >>= shift
		b &= mask(nToRead)
		b <<= nRead
		result |= b
		nRead += nToRead
		it.pos += uint64(nToRead)
	}
	result <<= nBitsRequested - nBits
	return result, nil
}
