package stats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/pixelreadout/chipcodec/errs"
)

// AlphabetType names one of the canonical alphabets a ChipDataEncoder
// consumes from a dictionary file.
type AlphabetType uint8

const (
	Adc AlphabetType = iota
	ActiveAdc
	DeltaRow
	DeltaColumn
	DeltaRowColumn
)

// alphabetTypeNames maps the types that have a canonical dictionary block
// name. DeltaRow/DeltaColumn are declared (for the Separate-mode delta
// codec) but, matching
// original_source/Algorithms/interface/AlphabetStatisticsCollection.h's own
// alphabetTypeNames map, have no fixed canonical block name here either, so
// At fails for them. Get can still return such blocks by name, but
// codec.NewDeltaPackageMaker resolves its alphabets only through At.
var alphabetTypeNames = map[AlphabetType]string{
	Adc:            "all_adc",
	ActiveAdc:      "active_adc",
	DeltaRowColumn: "delta_row_column",
}

// Collection is a read-only set of named AlphabetStatistics loaded from a
// dictionary text file. Safe for concurrent readers once loaded.
//
// Grounded on
// original_source/Algorithms/interface/AlphabetStatisticsCollection.h.
type Collection struct {
	byName map[string]*Statistics
}

// Load reads every alphabet-statistics block from r until the stream is
// cleanly exhausted between blocks; an EOF encountered mid-block surfaces
// as an error.
func Load(r io.Reader) (*Collection, error) {
	br := bufio.NewReader(r)
	c := &Collection{byName: make(map[string]*Statistics)}
	for {
		s, err := Read(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loading alphabet statistics collection: %w", err)
		}
		if _, exists := c.byName[s.Name()]; exists {
			return nil, fmt.Errorf("alphabet statistics %q already defined: %w", s.Name(), errs.ErrInvalidStatistics)
		}
		c.byName[s.Name()] = s
	}
	return c, nil
}

// LoadFile opens path and loads a Collection from it. A failure to open the
// file is wrapped with ErrIO; read and parse errors come from Load.
func LoadFile(path string) (*Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dictionary file %q: %w", path, errs.ErrIO)
	}
	defer f.Close()
	return Load(f)
}

// Has reports whether name is present in the collection.
func (c *Collection) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Get returns the Statistics named name.
func (c *Collection) Get(name string) (*Statistics, error) {
	s, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("alphabet statistics %q not found: %w", name, errs.ErrUnknownLetter)
	}
	return s, nil
}

// At returns the Statistics for one of the canonical AlphabetTypes.
func (c *Collection) At(t AlphabetType) (*Statistics, error) {
	name, ok := alphabetTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("alphabet type %d has no canonical name: %w", t, errs.ErrUnsupportedFormat)
	}
	return c.Get(name)
}

// Fingerprint returns an xxHash64 digest over the collection's block names
// and Huffman table contents, in a stable (sorted-by-name) order. Two
// peers that loaded byte-identical dictionary files produce the same
// fingerprint without re-parsing or re-diffing the text file.
func (c *Collection) Fingerprint() uint64 {
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	h := xxhash.New()
	for _, name := range names {
		s := c.byName[name]
		fmt.Fprintf(h, "%s|%d|%d|", s.Name(), s.OriginalCounts(), len(s.alphabet))
		for _, letter := range s.Alphabet() {
			code, _ := s.HuffmanCode(letter)
			fmt.Fprintf(h, "%d:%s;", letter, code.String())
		}
	}
	return h.Sum64()
}
