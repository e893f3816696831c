package codec

import (
	"encoding/binary"

	"conveyor/internal/model"
	"conveyor/pkg/exception"

	"github.com/holiman/uint256"
	"github.com/yanun0323/errors"
)

// WordSize is the encoded width of one label or one amount.
const WordSize = 16

// EncodeLabels serializes labels as consecutive 16-byte little-endian words.
func EncodeLabels(dst []byte, labels model.Labels) ([]byte, error) {
	dst = grow(dst, len(labels)*WordSize)
	for i := range labels {
		if labels[i].BitLen() > 128 {
			return nil, errors.Wrapf(exception.ErrLabelOutOfRange, "label %d: %s", i, labels[i].Dec())
		}
		putWord(dst[i*WordSize:], &labels[i])
	}
	return dst, nil
}

// DecodeLabels parses a payload produced by EncodeLabels.
func DecodeLabels(src []byte) (model.Labels, error) {
	if len(src)%WordSize != 0 {
		return nil, errors.Wrapf(exception.ErrMalformedPayload, "labels payload of %d bytes", len(src))
	}
	labels := make(model.Labels, len(src)/WordSize)
	for i := range labels {
		labels[i] = word(src[i*WordSize:])
	}
	return labels, nil
}

func grow(dst []byte, size int) []byte {
	if cap(dst) < size {
		return make([]byte, size)
	}
	return dst[:size]
}

func putWord(dst []byte, v *uint256.Int) {
	binary.LittleEndian.PutUint64(dst[0:8], v[0])
	binary.LittleEndian.PutUint64(dst[8:16], v[1])
}

func word(src []byte) uint256.Int {
	return uint256.Int{
		binary.LittleEndian.Uint64(src[0:8]),
		binary.LittleEndian.Uint64(src[8:16]),
	}
}
