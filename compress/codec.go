// Package compress provides an optional byte-level compression envelope
// that a caller may apply around a finished bitpack.Package's bytes before
// handing them to storage or a transport.
//
// It plays no part in the bit layout any PackageMaker produces or consumes:
// Package.Bytes() is always the uncompressed, self-describing bit stream a
// PackageMaker decoder expects. Compress/decompress this envelope strictly
// outside of Encode/Decode.
//
// Adapted from github.com/arloliu/mebo's compress package.
package compress

import "fmt"

// Type identifies a compression algorithm.
type Type uint8

const (
	None Type = iota
	S2
	LZ4
	Zstd
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// Compressor compresses a byte slice.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a byte slice produced by the matching Compressor.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec can both compress and decompress.
type Codec interface {
	Compressor
	Decompressor
}

// New returns the built-in Codec for the given Type.
func New(t Type) (Codec, error) {
	switch t {
	case None:
		return NoOp{}, nil
	case S2:
		return S2Compressor{}, nil
	case LZ4:
		return LZ4Compressor{}, nil
	case Zstd:
		return ZstdCompressor{}, nil
	default:
		return nil, fmt.Errorf("unsupported compression type: %v", t)
	}
}
