package codec

import (
	"conveyor/internal/model"
	"conveyor/pkg/exception"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
)

// EncodeAmount converts an amount into its 128-bit mantissa at
// model.WireScale decimals.
func EncodeAmount(a model.Amount) (uint256.Int, error) {
	if a.Sign() < 0 {
		return uint256.Int{}, errors.Wrapf(exception.ErrAmountOutOfRange, "negative amount %s", a)
	}
	shifted := a.Shift(model.WireScale)
	if !shifted.Equal(shifted.Truncate(0)) {
		return uint256.Int{}, errors.Wrapf(exception.ErrAmountPrecision, "amount %s", a)
	}
	v, overflow := uint256.FromBig(shifted.BigInt())
	if overflow || v.BitLen() > 128 {
		return uint256.Int{}, errors.Wrapf(exception.ErrAmountOutOfRange, "amount %s", a)
	}
	return *v, nil
}

// DecodeAmount is the inverse of EncodeAmount.
func DecodeAmount(v *uint256.Int) model.Amount {
	return decimal.NewFromBigInt(v.ToBig(), -model.WireScale)
}

// EncodeVector serializes amounts as consecutive 16-byte little-endian
// mantissas.
func EncodeVector(dst []byte, v model.Vector) ([]byte, error) {
	dst = grow(dst, len(v)*WordSize)
	for i := range v {
		m, err := EncodeAmount(v[i])
		if err != nil {
			return nil, errors.Wrapf(err, "amount %d", i)
		}
		putWord(dst[i*WordSize:], &m)
	}
	return dst, nil
}

// DecodeVector parses a payload produced by EncodeVector.
func DecodeVector(src []byte) (model.Vector, error) {
	if len(src)%WordSize != 0 {
		return nil, errors.Wrapf(exception.ErrMalformedPayload, "vector payload of %d bytes", len(src))
	}
	v := make(model.Vector, len(src)/WordSize)
	for i := range v {
		m := word(src[i*WordSize:])
		v[i] = DecodeAmount(&m)
	}
	return v, nil
}
