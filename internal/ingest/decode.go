package ingest

import (
	"math/big"

	"conveyor/internal/contract"
	"conveyor/internal/model"
	"conveyor/pkg/exception"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/yanun0323/errors"
)

type decoder func(log types.Log) (model.ChainMessage, error)

// decoders are tried in order; a log matches at most one of them.
var decoders = []decoder{
	decodeBuyOrder,
	decodeSellOrder,
	decodeAcquisition,
	decodeDisposal,
	decodeAcquisitionClaim,
	decodeDisposalClaim,
}

// Decode turns a raw vault log into a chain message. ok is false when the log
// carries none of the vault event signatures.
func Decode(log types.Log) (model.ChainMessage, bool, error) {
	for _, decode := range decoders {
		msg, err := decode(log)
		if err == nil {
			return msg, true, nil
		}
		if errors.Is(err, exception.ErrIngestSignature) || errors.Is(err, exception.ErrIngestNoSignature) {
			continue
		}
		return nil, false, err
	}
	return nil, false, nil
}

func u128(v *big.Int) uint256.Int {
	var z uint256.Int
	if v != nil {
		z.SetFromBig(v)
	}
	return z
}

func decodeBuyOrder(log types.Log) (model.ChainMessage, error) {
	var ev contract.BuyOrderEvent
	if err := contract.UnpackLog(contract.Vault, &ev, contract.EventBuyOrder, log); err != nil {
		return nil, err
	}
	return model.BuyOrder{
		Keeper:     ev.Keeper,
		Trader:     ev.Trader,
		IndexID:    u128(ev.IndexID),
		VendorID:   u128(ev.VendorID),
		Collateral: u128(ev.CollateralAmount),
	}, nil
}

func decodeSellOrder(log types.Log) (model.ChainMessage, error) {
	var ev contract.SellOrderEvent
	if err := contract.UnpackLog(contract.Vault, &ev, contract.EventSellOrder, log); err != nil {
		return nil, err
	}
	return model.SellOrder{
		Keeper:    ev.Keeper,
		Trader:    ev.Trader,
		IndexID:   u128(ev.IndexID),
		VendorID:  u128(ev.VendorID),
		ITPAmount: u128(ev.ITPAmount),
	}, nil
}

func decodeAcquisition(log types.Log) (model.ChainMessage, error) {
	var ev contract.AcquisitionEvent
	if err := contract.UnpackLog(contract.Vault, &ev, contract.EventAcquisition, log); err != nil {
		return nil, err
	}
	return model.Acquisition{
		Controller: ev.Controller,
		IndexID:    u128(ev.IndexID),
		VendorID:   u128(ev.VendorID),
		Remain:     u128(ev.Remain),
		Spent:      u128(ev.Spent),
		Minted:     u128(ev.ITPMinted),
	}, nil
}

func decodeDisposal(log types.Log) (model.ChainMessage, error) {
	var ev contract.DisposalEvent
	if err := contract.UnpackLog(contract.Vault, &ev, contract.EventDisposal, log); err != nil {
		return nil, err
	}
	return model.Disposal{
		Controller: ev.Controller,
		IndexID:    u128(ev.IndexID),
		VendorID:   u128(ev.VendorID),
		Remain:     u128(ev.ITPRemain),
		Burned:     u128(ev.ITPBurned),
		Gains:      u128(ev.Gains),
	}, nil
}

func decodeAcquisitionClaim(log types.Log) (model.ChainMessage, error) {
	var ev contract.AcquisitionClaimEvent
	if err := contract.UnpackLog(contract.Vault, &ev, contract.EventAcquisitionClaim, log); err != nil {
		return nil, err
	}
	return model.AcquisitionClaim{
		Keeper:   ev.Keeper,
		Trader:   ev.Trader,
		IndexID:  u128(ev.IndexID),
		VendorID: u128(ev.VendorID),
		Remain:   u128(ev.Remain),
		Spent:    u128(ev.Spent),
	}, nil
}

func decodeDisposalClaim(log types.Log) (model.ChainMessage, error) {
	var ev contract.DisposalClaimEvent
	if err := contract.UnpackLog(contract.Vault, &ev, contract.EventDisposalClaim, log); err != nil {
		return nil, err
	}
	return model.DisposalClaim{
		Keeper:    ev.Keeper,
		Trader:    ev.Trader,
		IndexID:   u128(ev.IndexID),
		VendorID:  u128(ev.VendorID),
		ITPRemain: u128(ev.ITPRemain),
		ITPBurned: u128(ev.ITPBurned),
	}, nil
}
