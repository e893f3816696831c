package contract

import (
	"math/big"

	"conveyor/pkg/exception"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/yanun0323/errors"
)

// Vault event names, in the order the event source tries them.
const (
	EventBuyOrder         = "BuyOrder"
	EventSellOrder        = "SellOrder"
	EventAcquisition      = "Acquisition"
	EventDisposal         = "Disposal"
	EventAcquisitionClaim = "AcquisitionClaim"
	EventDisposalClaim    = "DisposalClaim"

	EventIndexDeployed = "IndexDeployed"
)

// VaultEvents lists every vault event the conveyor reacts to.
var VaultEvents = []string{
	EventBuyOrder,
	EventSellOrder,
	EventAcquisition,
	EventDisposal,
	EventAcquisitionClaim,
	EventDisposalClaim,
}

// VaultEventIDs returns the topic0 signature hash of every vault event.
func VaultEventIDs() []common.Hash {
	ids := make([]common.Hash, 0, len(VaultEvents))
	for _, name := range VaultEvents {
		ids = append(ids, Vault.Events[name].ID)
	}
	return ids
}

type BuyOrderEvent struct {
	Keeper           common.Address
	Trader           common.Address
	IndexID          *big.Int `abi:"index_id"`
	VendorID         *big.Int `abi:"vendor_id"`
	CollateralAmount *big.Int `abi:"collateral_amount"`
}

type SellOrderEvent struct {
	Keeper    common.Address
	Trader    common.Address
	IndexID   *big.Int `abi:"index_id"`
	VendorID  *big.Int `abi:"vendor_id"`
	ITPAmount *big.Int `abi:"itp_amount"`
}

type AcquisitionEvent struct {
	Controller common.Address
	IndexID    *big.Int `abi:"index_id"`
	VendorID   *big.Int `abi:"vendor_id"`
	Remain     *big.Int `abi:"remain"`
	Spent      *big.Int `abi:"spent"`
	ITPMinted  *big.Int `abi:"itp_minted"`
}

type DisposalEvent struct {
	Controller common.Address
	IndexID    *big.Int `abi:"index_id"`
	VendorID   *big.Int `abi:"vendor_id"`
	ITPRemain  *big.Int `abi:"itp_remain"`
	ITPBurned  *big.Int `abi:"itp_burned"`
	Gains      *big.Int `abi:"gains"`
}

type AcquisitionClaimEvent struct {
	Keeper   common.Address
	Trader   common.Address
	IndexID  *big.Int `abi:"index_id"`
	VendorID *big.Int `abi:"vendor_id"`
	Remain   *big.Int `abi:"remain"`
	Spent    *big.Int `abi:"spent"`
}

type DisposalClaimEvent struct {
	Keeper    common.Address
	Trader    common.Address
	IndexID   *big.Int `abi:"index_id"`
	VendorID  *big.Int `abi:"vendor_id"`
	ITPRemain *big.Int `abi:"itp_remain"`
	ITPBurned *big.Int `abi:"itp_burned"`
}

// IndexDeployedEvent is emitted by the castle when submitIndex deploys a
// vault. Topic fields are matched by camel-cased argument name.
type IndexDeployedEvent struct {
	IndexId *big.Int
	Vault   common.Address `abi:"vault"`
}

// UnpackLog decodes log into out as the named event of contract. A log
// carrying a different event signature fails with ErrIngestSignature and
// leaves out untouched.
func UnpackLog(contract abi.ABI, out any, event string, log types.Log) error {
	ev, ok := contract.Events[event]
	if !ok {
		return errors.Wrapf(exception.ErrIngestUnknownEvent, "event: %s", event)
	}
	if len(log.Topics) == 0 {
		return exception.ErrIngestNoSignature
	}
	if log.Topics[0] != ev.ID {
		return exception.ErrIngestSignature
	}

	if len(log.Data) > 0 {
		if err := contract.UnpackIntoInterface(out, event, log.Data); err != nil {
			return errors.Wrapf(err, "unpack %s data", event)
		}
	}

	var indexed abi.Arguments
	for _, arg := range ev.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	if err := abi.ParseTopics(out, indexed, log.Topics[1:]); err != nil {
		return errors.Wrapf(err, "parse %s topics", event)
	}
	return nil
}
