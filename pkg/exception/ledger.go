package exception

import "github.com/yanun0323/errors"

// Ledger errors
var (
	ErrLedgerReverted      = errors.New("ledger: transaction reverted")
	ErrLedgerNoReceipt     = errors.New("ledger: missing receipt")
	ErrLedgerVaultNotFound = errors.New("ledger: vault deployment event not found")
	ErrLedgerDemandShape   = errors.New("ledger: demand must carry long and short vectors")
	ErrLedgerNilClient     = errors.New("ledger: nil client")
	ErrLedgerInvalidKey    = errors.New("ledger: invalid private key")
)
