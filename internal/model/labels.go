package model

import (
	"slices"
	"strings"

	"github.com/holiman/uint256"
)

// ID returns a 128-bit identifier holding v.
func ID(v uint64) uint256.Int {
	return *uint256.NewInt(v)
}

// Labels is an ordered set of distinct asset identifiers. The position of a
// label aligns it with the same position of every Vector consumed with it.
type Labels []uint256.Int

// SequentialLabels returns n consecutive identifiers starting at first.
func SequentialLabels(first uint256.Int, n int) Labels {
	if n <= 0 {
		return Labels{}
	}
	out := make(Labels, n)
	next := first
	for i := range out {
		out[i] = next
		next.AddUint64(&next, 1)
	}
	return out
}

// Len returns the number of labels.
func (l Labels) Len() int {
	return len(l)
}

// Clone returns a copy that does not share storage with l.
func (l Labels) Clone() Labels {
	return slices.Clone(l)
}

// Sorted returns an ascending copy of l.
func (l Labels) Sorted() Labels {
	out := l.Clone()
	slices.SortFunc(out, func(a, b uint256.Int) int {
		return a.Cmp(&b)
	})
	return out
}

// Chunks splits l into consecutive chunks of at most size labels.
func (l Labels) Chunks(size int) ([]Labels, error) {
	return Chunk(l, size)
}

func (l Labels) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := range l {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(l[i].Dec())
	}
	sb.WriteByte(']')
	return sb.String()
}
