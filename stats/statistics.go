// Package stats implements per-alphabet Huffman statistics: the immutable
// AlphabetStatistics bundle, the mutable AlphabetStatisticsProducer that
// accumulates observations into one, the text serialization format both
// read and write, and the read-only Collection a dictionary file loads
// into.
//
// Grounded on original_source/Algorithms/interface/AlphabetStatistics.h,
// AlphabetStatisticsProducer.h and AlphabetStatisticsCollection.h.
package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/pixelreadout/chipcodec/errs"
	"github.com/pixelreadout/chipcodec/huffman"
)

// Letter is the symbol type every alphabet in this package operates over.
type Letter = huffman.Letter

// Statistics is an immutable snapshot of one alphabet's observed
// distribution and the Huffman table built from it.
type Statistics struct {
	name                   string
	alphabet               map[Letter]struct{}
	originalCounts         uint64
	originalProbabilities  map[Letter]float64
	entropy                float64
	table                  *huffman.Table
}

// New validates and builds a Statistics. It fails with
// ErrInvalidStatistics if entropy is negative, originalCounts is zero,
// the alphabet is empty, any letter is missing a probability, any
// probability falls outside [0,1], or the probabilities don't sum to 1
// within 1e-5.
func New(name string, alphabet map[Letter]struct{}, originalCounts uint64,
	probabilities map[Letter]float64, entropy float64, table *huffman.Table) (*Statistics, error) {

	if entropy < 0 {
		return nil, fmt.Errorf("alphabet %q: entropy %g is negative: %w", name, entropy, errs.ErrInvalidStatistics)
	}
	if originalCounts == 0 {
		return nil, fmt.Errorf("alphabet %q: original counts must be positive: %w", name, errs.ErrInvalidStatistics)
	}
	if len(alphabet) == 0 {
		return nil, fmt.Errorf("alphabet %q: alphabet is empty: %w", name, errs.ErrInvalidStatistics)
	}

	var total float64
	for letter := range alphabet {
		p, ok := probabilities[letter]
		if !ok {
			return nil, fmt.Errorf("alphabet %q: missing original probability for letter %d: %w", name, letter, errs.ErrInvalidStatistics)
		}
		if p < 0 || p > 1 {
			return nil, fmt.Errorf("alphabet %q: invalid original probability %g for letter %d: %w", name, p, letter, errs.ErrInvalidStatistics)
		}
		total += p
	}
	if math.Abs(total-1) > 1e-5 {
		return nil, fmt.Errorf("alphabet %q: total original probability %g is not consistent with 1: %w", name, total, errs.ErrInvalidStatistics)
	}

	return &Statistics{
		name:                  name,
		alphabet:              alphabet,
		originalCounts:        originalCounts,
		originalProbabilities: probabilities,
		entropy:               entropy,
		table:                 table,
	}, nil
}

// Name returns the alphabet's name, e.g. "all_adc".
func (s *Statistics) Name() string { return s.name }

// Entropy returns the alphabet's Shannon entropy in bits.
func (s *Statistics) Entropy() float64 { return s.entropy }

// OriginalCounts returns the total number of observations the statistics
// were built from.
func (s *Statistics) OriginalCounts() uint64 { return s.originalCounts }

// HasLetter reports whether letter belongs to the alphabet.
func (s *Statistics) HasLetter(letter Letter) bool {
	_, ok := s.alphabet[letter]
	return ok
}

// Alphabet returns every letter in the alphabet, sorted ascending.
func (s *Statistics) Alphabet() []Letter {
	out := make([]Letter, 0, len(s.alphabet))
	for l := range s.alphabet {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// OriginalProbability returns the observed probability of letter.
func (s *Statistics) OriginalProbability(letter Letter) (float64, error) {
	if !s.HasLetter(letter) {
		return 0, fmt.Errorf("alphabet %q: letter %d not present: %w", s.name, letter, errs.ErrUnknownLetter)
	}
	return s.originalProbabilities[letter], nil
}

// OriginalFrequency returns the observed count of letter.
func (s *Statistics) OriginalFrequency(letter Letter) (float64, error) {
	p, err := s.OriginalProbability(letter)
	if err != nil {
		return 0, err
	}
	return p * float64(s.originalCounts), nil
}

// HuffmanCode returns the code assigned to letter.
func (s *Statistics) HuffmanCode(letter Letter) (huffman.Code, error) {
	if !s.HasLetter(letter) {
		return huffman.Code{}, fmt.Errorf("alphabet %q: letter %d not present: %w", s.name, letter, errs.ErrUnknownLetter)
	}
	code, ok := s.table.CodeFor(letter)
	if !ok {
		return huffman.Code{}, fmt.Errorf("alphabet %q: letter %d has no huffman code: %w", s.name, letter, errs.ErrUnknownLetter)
	}
	return code, nil
}

// LetterFromHuffmanCode returns the letter assigned to code, if any.
func (s *Statistics) LetterFromHuffmanCode(code huffman.Code) (Letter, bool) {
	return s.table.LetterFor(code)
}

// Table exposes the underlying bidirectional Huffman table, e.g. for the
// encoder/decoder helpers in package huffman.
func (s *Statistics) Table() *huffman.Table { return s.table }
