package model

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Amount is a scaled fixed-point value. On the wire every amount is carried
// as an unsigned 128-bit mantissa at WireScale decimals.
type Amount = decimal.Decimal

// WireScale is the number of decimals carried by every encoded amount.
const WireScale = 18

// NewAmount builds mantissa * 10^-scale.
func NewAmount(mantissa uint64, scale int32) Amount {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(mantissa), -scale)
}
