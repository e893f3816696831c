package model

import (
	"strings"

	"conveyor/pkg/exception"

	"github.com/yanun0323/errors"
)

// Vector is an ordered sequence of amounts, aligned 1:1 with a Labels of the
// same length.
type Vector []Amount

// Len returns the number of amounts.
func (v Vector) Len() int {
	return len(v)
}

// Chunks splits v into consecutive chunks of at most size amounts.
func (v Vector) Chunks(size int) ([]Vector, error) {
	return Chunk(v, size)
}

func (v Vector) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v[i].String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Aligned checks that every vector has exactly one amount per label.
func Aligned(labels Labels, vectors ...Vector) error {
	for i, v := range vectors {
		if len(v) != len(labels) {
			return errors.Wrapf(exception.ErrVectorLengthMismatch,
				"vector %d has %d amounts for %d labels", i, len(v), len(labels))
		}
	}
	return nil
}
