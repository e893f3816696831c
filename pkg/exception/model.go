package exception

import "github.com/yanun0323/errors"

// Data model and codec errors
var (
	ErrVectorLengthMismatch = errors.New("model: vector length mismatch")
	ErrOrderRecordLength    = errors.New("model: order record length")
	ErrInvalidChunkSize     = errors.New("model: chunk size must be positive")
	ErrAmountOutOfRange     = errors.New("model: amount out of range")
	ErrAmountPrecision      = errors.New("model: amount exceeds wire precision")
	ErrMalformedPayload     = errors.New("codec: malformed payload")
	ErrLabelOutOfRange      = errors.New("codec: label exceeds 128 bits")
)
