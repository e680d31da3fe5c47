package stats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/pixelreadout/chipcodec/errs"
	"github.com/pixelreadout/chipcodec/huffman"
)

// Write serializes s in the text format every dictionary file block uses:
// a name line, three "label value" lines, a column header, and one row per
// letter (ascending), followed by a blank line.
//
// Grounded on AlphabetStatistics::Write in
// original_source/Algorithms/interface/AlphabetStatistics.h.
func (s *Statistics) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s\n", s.name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "number_of_letters %d\n", len(s.alphabet)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "alphabet_entropy %s\n", formatReal(s.entropy)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "original_number_of_counts %d\n", s.originalCounts); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Letter   Orig_probability   Huffman_nbits   Huffman_code\n"); err != nil {
		return err
	}
	for _, letter := range s.Alphabet() {
		prob, err := s.OriginalProbability(letter)
		if err != nil {
			return err
		}
		code, err := s.HuffmanCode(letter)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%d   %s   %d   %s\n", letter, formatReal(prob), code.NumberOfBits(), code.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return nil
}

func formatReal(v float64) string {
	return strconv.FormatFloat(v, 'e', 5, 64)
}

// Read parses one alphabet-statistics block from br, stripping a leading
// UTF-8 BOM, trailing CR, and leading blank lines before the name line.
// It returns io.EOF (wrapping nothing) if the stream is exhausted before
// any block content is found — the clean end-of-file a Collection loop
// uses to stop. An end-of-file encountered mid-block is reported as a
// distinct error.
//
// Grounded on AlphabetStatistics::Read in
// original_source/Algorithms/interface/AlphabetStatistics.h.
func Read(br *bufio.Reader) (*Statistics, error) {
	tr := &tokenReader{br: br}

	var name string
	for {
		line, err := tr.readLine()
		if err != nil {
			if err == io.EOF && name == "" {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("alphabet statistics: reading name: %w", err)
		}
		line = strings.TrimPrefix(line, "\ufeff")
		line = strings.TrimSpace(line)
		if line != "" {
			name = line
			break
		}
	}

	nLetters, err := tr.readIntParam()
	if err != nil {
		return nil, fmt.Errorf("alphabet %q: reading number_of_letters: %w", name, err)
	}
	entropy, err := tr.readFloatParam()
	if err != nil {
		return nil, fmt.Errorf("alphabet %q: reading alphabet_entropy: %w", name, err)
	}
	nCounts, err := tr.readUintParam()
	if err != nil {
		return nil, fmt.Errorf("alphabet %q: reading original_number_of_counts: %w", name, err)
	}

	// Consume the rest of the counts line, then the column-header line.
	if _, err := tr.readLine(); err != nil {
		return nil, fmt.Errorf("alphabet %q: reading table header: %w", name, err)
	}
	if _, err := tr.readLine(); err != nil {
		return nil, fmt.Errorf("alphabet %q: reading table header: %w", name, err)
	}

	alphabet := make(map[Letter]struct{}, nLetters)
	probabilities := make(map[Letter]float64, nLetters)
	codes := make(map[Letter]huffman.Code, nLetters)

	for n := 0; n < nLetters; n++ {
		letterTok, err := tr.readToken()
		if err != nil {
			return nil, fmt.Errorf("alphabet %q: reading letter %d: %w", name, n, err)
		}
		letter, err := strconv.ParseInt(letterTok, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("alphabet %q: letter %q: %w", name, letterTok, err)
		}

		probTok, err := tr.readToken()
		if err != nil {
			return nil, fmt.Errorf("alphabet %q: reading probability for letter %d: %w", name, letter, err)
		}
		prob, err := strconv.ParseFloat(probTok, 64)
		if err != nil {
			return nil, fmt.Errorf("alphabet %q: probability %q: %w", name, probTok, err)
		}

		if _, err := tr.readToken(); err != nil { // huffman_nbits, redundant with the code string's length
			return nil, fmt.Errorf("alphabet %q: reading huffman_nbits for letter %d: %w", name, letter, err)
		}

		codeTok, err := tr.readToken()
		if err != nil {
			return nil, fmt.Errorf("alphabet %q: reading huffman code for letter %d: %w", name, letter, err)
		}
		code, err := huffman.ParseCode(codeTok)
		if err != nil {
			return nil, err
		}

		l := Letter(letter)
		if _, exists := alphabet[l]; exists {
			return nil, fmt.Errorf("alphabet %q: letter %d already defined: %w", name, l, errs.ErrInvalidStatistics)
		}
		alphabet[l] = struct{}{}
		probabilities[l] = prob
		codes[l] = code
	}

	table := huffman.NewTable(codes)
	return New(name, alphabet, nCounts, probabilities, entropy, table)
}

// tokenReader mixes line-oriented reads (for the name and header lines)
// with whitespace-delimited token reads (for the numeric fields and the
// table rows), mirroring how the original alternates std::getline and
// operator>> over the same stream.
type tokenReader struct {
	br *bufio.Reader
}

func (t *tokenReader) readLine() (string, error) {
	line, err := t.br.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

func (t *tokenReader) readToken() (string, error) {
	var sb strings.Builder
	for {
		ch, _, err := t.br.ReadRune()
		if err != nil {
			return "", err
		}
		if !unicode.IsSpace(ch) {
			sb.WriteRune(ch)
			break
		}
	}
	for {
		ch, _, err := t.br.ReadRune()
		if err != nil {
			break
		}
		if unicode.IsSpace(ch) {
			_ = t.br.UnreadRune() // leave the delimiter for the next read, like operator>>
			break
		}
		sb.WriteRune(ch)
	}
	return sb.String(), nil
}

func (t *tokenReader) readIntParam() (int, error) {
	if _, err := t.readToken(); err != nil { // label
		return 0, err
	}
	v, err := t.readToken()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}

func (t *tokenReader) readUintParam() (uint64, error) {
	if _, err := t.readToken(); err != nil {
		return 0, err
	}
	v, err := t.readToken()
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(v, 10, 64)
}

func (t *tokenReader) readFloatParam() (float64, error) {
	if _, err := t.readToken(); err != nil {
		return 0, err
	}
	v, err := t.readToken()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(v, 64)
}
