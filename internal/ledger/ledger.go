// Package ledger describes the remote ledger capability the keeper, the vendor
// and the event source depend on. Implementations live in sub-packages.
package ledger

import (
	"context"

	"conveyor/internal/model"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

// Operation names, used in logs, errors and metrics.
const (
	OpSubmitIndex             = "submitIndex"
	OpSubmitVote              = "submitVote"
	OpSubmitAssetWeights      = "submitAssetWeights"
	OpUpdateIndexQuote        = "updateIndexQuote"
	OpProcessPendingBuyOrder  = "processPendingBuyOrder"
	OpProcessPendingSellOrder = "processPendingSellOrder"
	OpSubmitAssets            = "submitAssets"
	OpSubmitMargin            = "submitMargin"
	OpSubmitMarketData        = "submitMarketData"
	OpSubmitSupply            = "submitSupply"
	OpGetVendorDemand         = "getVendorDemand"
	OpGetTraderOrder          = "getTraderOrder"
)

// Receipt is the confirmation of a mined transaction.
type Receipt struct {
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
	Success     bool
}

// IndexDefinition is the registry entry submitted once per index.
type IndexDefinition struct {
	IndexID        uint256.Int
	Name           string
	Symbol         string
	Description    string
	Methodology    string
	InitialMembers model.Labels
	Keepers        []common.Address
	Custody        common.Address
	Collateral     common.Address
	MaxOrderSize   model.Amount
}

// IndexReceipt is the receipt of submitIndex together with the vault the
// registry deployed for the index.
type IndexReceipt struct {
	Receipt
	Vault common.Address
}

// Ledger submits transactions to, and reads state from, the castle and vault
// contracts. Every mutating call blocks until the transaction is mined.
type Ledger interface {
	// Signer is the account every transaction is sent from.
	Signer() common.Address

	SubmitIndex(ctx context.Context, def IndexDefinition) (IndexReceipt, error)
	SubmitVote(ctx context.Context, indexID uint256.Int, vote []byte) (Receipt, error)
	SubmitAssetWeights(ctx context.Context, indexID uint256.Int, assets model.Labels, weights model.Vector) (Receipt, error)
	UpdateIndexQuote(ctx context.Context, vendorID, indexID uint256.Int) (Receipt, error)
	ProcessPendingBuyOrder(ctx context.Context, vault, trader common.Address) (Receipt, error)
	ProcessPendingSellOrder(ctx context.Context, vault, trader common.Address) (Receipt, error)

	SubmitAssets(ctx context.Context, vendorID uint256.Int, assets model.Labels) (Receipt, error)
	SubmitMargin(ctx context.Context, vendorID uint256.Int, assets model.Labels, margins model.Vector) (Receipt, error)
	SubmitMarketData(ctx context.Context, vendorID uint256.Int, assets model.Labels, liquidity, prices, slopes model.Vector) (Receipt, error)
	SubmitSupply(ctx context.Context, vendorID uint256.Int, assets model.Labels, short, long model.Vector) (Receipt, error)

	GetVendorDemand(ctx context.Context, vendorID uint256.Int) (model.Demand, error)
	GetTraderOrder(ctx context.Context, vault, trader common.Address) (model.Vector, error)
}

// LogWatcher delivers batches of logs matching a filter until the returned
// subscription is cancelled or fails.
type LogWatcher interface {
	WatchLogs(ctx context.Context, q ethereum.FilterQuery, sink chan<- []types.Log) (ethereum.Subscription, error)
}
