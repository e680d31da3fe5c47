//go:build nobuild

package compress

// This file documents the cgo-backed Zstandard path but is excluded from
// every real build (see the nobuild tag above): it requires the system
// libzstd that the teacher's own zstd_cgo.go also declines to build by
// default. Kept to exercise the valyala/gozstd dependency the same way
// upstream does, rather than dropping it outright.

import "github.com/valyala/gozstd"

func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return gozstd.Decompress(nil, data)
}
