package huffman

import (
	"math"
	"testing"

	"github.com/pixelreadout/chipcodec/bitpack"
	"github.com/stretchr/testify/require"
)

func TestCodeAppendGrowsFromLSB(t *testing.T) {
	var c Code
	c, err := c.Append(true)
	require.NoError(t, err)
	c, err = c.Append(false)
	require.NoError(t, err)
	require.Equal(t, uint8(2), c.NumberOfBits())
	require.Equal(t, uint64(1), c.Bits())
	require.Equal(t, "10", c.String())
}

func TestParseCodeRoundTrip(t *testing.T) {
	c, err := ParseCode("1011")
	require.NoError(t, err)
	require.Equal(t, "1011", c.String())
}

func TestParseCodeRejectsNonBinary(t *testing.T) {
	_, err := ParseCode("102")
	require.Error(t, err)
}

func TestBuildRejectsEmptyAlphabet(t *testing.T) {
	_, err := Build(map[Letter]uint64{})
	require.Error(t, err)
}

func TestBuildIsPrefixFree(t *testing.T) {
	freqs := map[Letter]uint64{1: 5, 2: 1, 3: 1, 4: 10, 5: 2}
	table, err := Build(freqs)
	require.NoError(t, err)
	require.Equal(t, len(freqs), table.Len())

	codes := make([]Code, 0, len(freqs))
	for letter := range freqs {
		c, ok := table.CodeFor(letter)
		require.True(t, ok)
		codes = append(codes, c)
	}
	for i := range codes {
		for j := range codes {
			if i == j {
				continue
			}
			require.False(t, isPrefix(codes[i], codes[j]), "code %v is a prefix of %v", codes[i], codes[j])
		}
	}
}

func isPrefix(a, b Code) bool {
	if a.NumberOfBits() >= b.NumberOfBits() {
		return false
	}
	mask := uint64(1)<<a.NumberOfBits() - 1
	return a.Bits() == (b.Bits() & mask)
}

func TestBuildSingleLetterAlphabet(t *testing.T) {
	table, err := Build(map[Letter]uint64{42: 7})
	require.NoError(t, err)
	code, ok := table.CodeFor(42)
	require.True(t, ok)
	require.Equal(t, uint8(0), code.NumberOfBits())
}

func TestEncodeDecodeLetterRoundTrip(t *testing.T) {
	freqs := map[Letter]uint64{1: 5, 2: 1, 3: 1, 4: 10, 5: 2}
	table, err := Build(freqs)
	require.NoError(t, err)

	letters := []Letter{1, 2, 3, 4, 5}
	p := bitpack.New()
	for _, letter := range letters {
		require.NoError(t, EncodeLetter(table, letter, p))
	}

	it := p.Begin()
	for _, letter := range letters {
		decoded, err := DecodeLetter(table, &it)
		require.NoError(t, err)
		require.Equal(t, letter, decoded)
	}
}

func TestEncodeUnknownLetterFails(t *testing.T) {
	table, err := Build(map[Letter]uint64{1: 1})
	require.NoError(t, err)
	p := bitpack.New()
	require.Error(t, EncodeLetter(table, 99, p))
}

func TestBuildDeterministicAcrossRunsWithTiedFrequencies(t *testing.T) {
	freqs := map[Letter]uint64{1: 3, 2: 3, 3: 3, 4: 3, 5: 1, 6: 1}

	first, err := Build(freqs)
	require.NoError(t, err)
	second, err := Build(freqs)
	require.NoError(t, err)

	for letter := range freqs {
		c1, ok := first.CodeFor(letter)
		require.True(t, ok)
		c2, ok := second.CodeFor(letter)
		require.True(t, ok)
		require.Equal(t, c1, c2, "letter %d got different codes across Build calls", letter)
	}
}

func TestUniformAlphabetEntropy(t *testing.T) {
	freqs := map[Letter]uint64{1: 1, 2: 1, 3: 1, 4: 1}
	var total uint64
	for _, f := range freqs {
		total += f
	}
	var entropy float64
	for _, f := range freqs {
		p := float64(f) / float64(total)
		entropy -= p * math.Log2(p)
	}
	require.InDelta(t, math.Log2(float64(len(freqs))), entropy, 1e-9)
}
