package model

import (
	"fmt"

	"conveyor/pkg/exception"

	"github.com/yanun0323/errors"
)

// OrderRecordSize is the number of amounts carried by an encoded order record.
const OrderRecordSize = 6

// OrderRecord is a trader's order state held by a vault.
type OrderRecord struct {
	Collateral Amount
	Spent      Amount
	Minted     Amount
	Locked     Amount
	Burned     Amount
	Withdraw   Amount
}

// OrderRecordFromVector names the positional fields of an order vector.
func OrderRecordFromVector(v Vector) (OrderRecord, error) {
	if len(v) != OrderRecordSize {
		return OrderRecord{}, errors.Wrapf(exception.ErrOrderRecordLength,
			"got %d amounts, want %d", len(v), OrderRecordSize)
	}
	return OrderRecord{
		Collateral: v[0],
		Spent:      v[1],
		Minted:     v[2],
		Locked:     v[3],
		Burned:     v[4],
		Withdraw:   v[5],
	}, nil
}

func (r OrderRecord) String() string {
	return fmt.Sprintf("collateral=%s spent=%s minted=%s locked=%s burned=%s withdraw=%s",
		r.Collateral, r.Spent, r.Minted, r.Locked, r.Burned, r.Withdraw)
}
