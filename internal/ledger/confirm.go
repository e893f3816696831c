package ledger

import (
	"conveyor/pkg/exception"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

// Confirm applies the submit, await, check contract to the result of a
// mutating call: a transport error and a reverted receipt are both failures
// of op.
func Confirm(op string, r Receipt, err error) error {
	if err != nil {
		return errors.Wrapf(err, "%s", op)
	}
	if !r.Success {
		return errors.Wrapf(exception.ErrLedgerReverted, "%s tx %s", op, r.TxHash.Hex())
	}
	logs.Infof("%s confirmed, tx: %s, block: %d, gas: %d", op, r.TxHash.Hex(), r.BlockNumber, r.GasUsed)
	return nil
}
