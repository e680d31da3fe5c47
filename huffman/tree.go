package huffman

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/pixelreadout/chipcodec/errs"
)

// node is a short-lived tree node used only during table construction; it
// is discarded once Build returns.
type node struct {
	freq        uint64
	seq         int // insertion order, used as a stable heap tie-break
	letter      Letter
	isLeaf      bool
	left, right *node
}

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)   { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	last := old[n-1]
	*h = old[:n-1]
	return last
}

// Build runs the classic two-pop/combine Huffman construction over
// frequencies and returns the resulting prefix-code Table. Every leaf
// frequency is floored at 1 so a letter that was never observed still gets
// a valid code. Leaves are seeded in ascending letter order before the
// heap is built, so equal-frequency nodes get a fixed, deterministic
// tie-break (tree.go's seq) regardless of Go's randomized map iteration
// order — the same fix frequencyOrderedLetters applies in
// stats/producer.go. Pops are otherwise stable (seq order among ties),
// matching the leaf-before-internal tie-break implied by the original's
// min-priority-queue pop order.
//
// Grounded on original_source/Algorithms/interface/HuffmanTree.h.
func Build(frequencies map[Letter]uint64) (*Table, error) {
	if len(frequencies) == 0 {
		return nil, fmt.Errorf("huffman tree over empty alphabet: %w", errs.ErrInvalidStatistics)
	}

	letters := make([]Letter, 0, len(frequencies))
	for letter := range frequencies {
		letters = append(letters, letter)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })

	h := &nodeHeap{}
	seq := 0
	for _, letter := range letters {
		f := frequencies[letter]
		if f < 1 {
			f = 1
		}
		*h = append(*h, &node{freq: f, letter: letter, isLeaf: true, seq: seq})
		seq++
	}
	heap.Init(h)

	for h.Len() > 1 {
		first := heap.Pop(h).(*node)
		second := heap.Pop(h).(*node)
		combined := &node{freq: first.freq + second.freq, left: first, right: second, seq: seq}
		seq++
		heap.Push(h, combined)
	}
	root := heap.Pop(h).(*node)

	table := newTable()
	if err := buildTable(table, root, Code{}); err != nil {
		return nil, err
	}
	return table, nil
}

func buildTable(table *Table, n *node, code Code) error {
	if n.isLeaf {
		table.insert(n.letter, code)
		return nil
	}
	leftCode, err := code.Append(false)
	if err != nil {
		return err
	}
	if err := buildTable(table, n.left, leftCode); err != nil {
		return err
	}
	rightCode, err := code.Append(true)
	if err != nil {
		return err
	}
	return buildTable(table, n.right, rightCode)
}
