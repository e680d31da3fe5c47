package compress

import "github.com/klauspost/compress/s2"

// S2Compressor wraps klauspost/compress/s2, a Snappy-compatible codec tuned
// for fast compression of already-structured binary payloads such as a
// finished Package's byte container.
type S2Compressor struct{}

var _ Codec = S2Compressor{}

func (S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return s2.Encode(nil, data), nil
}

func (S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return s2.Decode(nil, data)
}
