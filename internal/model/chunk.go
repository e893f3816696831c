package model

import (
	"conveyor/pkg/exception"

	"github.com/yanun0323/errors"
)

// Chunk splits s into consecutive sub-slices of size elements, the last one
// holding the remainder. Concatenating the chunks reproduces s. The chunks
// share storage with s but have their capacity clipped, so appending to one
// never overwrites the next.
func Chunk[S ~[]E, E any](s S, size int) ([]S, error) {
	if size <= 0 {
		return nil, errors.Wrapf(exception.ErrInvalidChunkSize, "size: %d", size)
	}
	if len(s) == 0 {
		return nil, nil
	}

	out := make([]S, 0, (len(s)+size-1)/size)
	for beg := 0; beg < len(s); beg += size {
		end := min(beg+size, len(s))
		out = append(out, s[beg:end:end])
	}
	return out, nil
}
