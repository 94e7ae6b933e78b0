package ast

import "sort"

// LineIndex maps byte offsets to 1-based line and column numbers.
type LineIndex struct {
	starts []int
	size   int
}

// NewLineIndex records the start offset of every line in src.
func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts, size: len(src)}
}

// Position returns the line and column of offset. Offsets past the end are
// clamped to the end of the source.
func (li *LineIndex) Position(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > li.size {
		offset = li.size
	}
	i := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	return i + 1, offset - li.starts[i] + 1
}

// Lines returns the number of lines in the source.
func (li *LineIndex) Lines() int {
	return len(li.starts)
}
