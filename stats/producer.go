package stats

import (
	"fmt"
	"math"
	"os"
	"sort"
	"sync"

	"github.com/pixelreadout/chipcodec/errs"
	"github.com/pixelreadout/chipcodec/huffman"
)

// Producer accumulates per-letter observation counts and turns them into a
// Statistics on demand. Every mutating method is serialized with an
// internal mutex held for the whole call.
//
// Grounded on
// original_source/Algorithms/interface/AlphabetStatisticsProducer.h.
type Producer struct {
	mu                sync.Mutex
	name              string
	nCounts           uint64
	letterFrequencies map[Letter]uint64
	warnedSaturation  bool
}

// NewProducer returns an empty Producer with no pre-seeded letters.
func NewProducer(name string) *Producer {
	return &Producer{name: name, letterFrequencies: make(map[Letter]uint64)}
}

// NewProducerWithAlphabet returns a Producer pre-seeded with every letter
// in alphabet at zero frequency, so they appear in the eventual Statistics
// even if never observed.
func NewProducerWithAlphabet(name string, alphabet []Letter) *Producer {
	p := NewProducer(name)
	for _, letter := range alphabet {
		p.letterFrequencies[letter] = 0
	}
	return p
}

// Name returns the producer's alphabet name.
func (p *Producer) Name() string { return p.name }

// NumberOfLetters returns the number of distinct letters seen or
// pre-seeded so far.
func (p *Producer) NumberOfLetters() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.letterFrequencies)
}

// integerLimitReached reports whether nCounts has saturated at the max
// representable count. Caller must hold mu.
func (p *Producer) integerLimitReached() bool {
	return p.nCounts == math.MaxUint64
}

// AddCount records one observation of letter. Once the running total
// saturates at the maximum representable count, further observations are
// silently dropped (after a one-time stderr diagnostic).
func (p *Producer) AddCount(letter Letter) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.integerLimitReached() {
		if !p.warnedSaturation {
			fmt.Fprintf(os.Stderr, "stats: alphabet %q saturated at max count, dropping further observations\n", p.name)
			p.warnedSaturation = true
		}
		return
	}
	p.letterFrequencies[letter]++
	p.nCounts++
}

// letterFrequencyPair pairs a letter with its observed frequency.
type letterFrequencyPair struct {
	letter    Letter
	frequency uint64
}

// frequencyOrderedLetters returns every (letter, frequency) pair sorted
// ascending by frequency; ties are broken by descending letter value.
// Caller must hold mu.
func (p *Producer) frequencyOrderedLetters() ([]letterFrequencyPair, error) {
	if p.nCounts == 0 {
		return nil, fmt.Errorf("statistics not available for %q: %w", p.name, errs.ErrInvalidStatistics)
	}
	if p.integerLimitReached() {
		fmt.Fprintf(os.Stderr, "WARNING: integer limit was reached while collecting statistics for %q.\n", p.name)
	}

	ordered := make([]letterFrequencyPair, 0, len(p.letterFrequencies))
	for letter, freq := range p.letterFrequencies {
		ordered = append(ordered, letterFrequencyPair{letter: letter, frequency: freq})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].frequency != ordered[j].frequency {
			return ordered[i].frequency < ordered[j].frequency
		}
		return ordered[i].letter > ordered[j].letter
	})
	return ordered, nil
}

// Produce builds the Statistics bundle for everything observed so far:
// per-letter probabilities, Shannon entropy (zero-probability letters
// skipped), and the Huffman table built from the raw frequency map.
func (p *Producer) Produce() (*Statistics, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ordered, err := p.frequencyOrderedLetters()
	if err != nil {
		return nil, err
	}

	probabilities := make(map[Letter]float64, len(ordered))
	alphabet := make(map[Letter]struct{}, len(ordered))
	var entropy float64
	for _, pair := range ordered {
		prob := float64(pair.frequency) / float64(p.nCounts)
		probabilities[pair.letter] = prob
		alphabet[pair.letter] = struct{}{}
		if prob > 0 {
			entropy -= prob * math.Log2(prob)
		}
	}
	fmt.Fprintf(os.Stderr, "stats: entropy for %q = %g\n", p.name, entropy)

	table, err := huffman.Build(p.letterFrequencies)
	if err != nil {
		return nil, err
	}

	return New(p.name, alphabet, p.nCounts, probabilities, entropy, table)
}

// Reduce returns a new Producer whose alphabet holds at most
// newAlphabetSize letters: the newAlphabetSize-1 highest-frequency letters
// (ties broken toward the higher letter value being dropped first — see
// frequencyOrderedLetters), plus specialLetter carrying the folded
// frequency mass of everything else. If the current alphabet already fits,
// Reduce returns an equivalent copy unchanged. Fails if newAlphabetSize<=1
// or specialLetter is already present in the alphabet.
func (p *Producer) Reduce(newAlphabetSize int, newName string, specialLetter Letter) (*Producer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if newAlphabetSize <= 1 {
		return nil, fmt.Errorf("reduce to alphabet size %d: %w", newAlphabetSize, errs.ErrInvalidStatistics)
	}
	if _, exists := p.letterFrequencies[specialLetter]; exists {
		return nil, fmt.Errorf("special letter %d already present in alphabet %q: %w", specialLetter, p.name, errs.ErrInvalidStatistics)
	}

	ordered, err := p.frequencyOrderedLetters()
	if err != nil {
		return nil, err
	}
	if len(ordered) <= newAlphabetSize {
		copyProd := NewProducer(p.name)
		copyProd.nCounts = p.nCounts
		for letter, freq := range p.letterFrequencies {
			copyProd.letterFrequencies[letter] = freq
		}
		return copyProd, nil
	}

	reduced := NewProducer(newName)
	reduced.nCounts = p.nCounts
	var kept uint64
	for n := 0; n < newAlphabetSize-1; n++ {
		index := len(ordered) - n - 1
		pair := ordered[index]
		reduced.letterFrequencies[pair.letter] = pair.frequency
		kept += pair.frequency
	}
	reduced.letterFrequencies[specialLetter] = p.nCounts - kept
	return reduced, nil
}
