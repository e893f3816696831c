package eth

import (
	"context"
	"math/big"

	"conveyor/internal/codec"
	"conveyor/internal/contract"
	"conveyor/internal/ledger"
	"conveyor/internal/model"
	"conveyor/pkg/exception"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/yanun0323/errors"
)

func u128(v uint256.Int) *big.Int {
	return v.ToBig()
}

func (c *Client) SubmitIndex(ctx context.Context, def ledger.IndexDefinition) (ledger.IndexReceipt, error) {
	members, err := codec.EncodeLabels(nil, def.InitialMembers)
	if err != nil {
		return ledger.IndexReceipt{}, errors.Wrap(err, "encode initial members")
	}
	maxOrder, err := codec.EncodeAmount(def.MaxOrderSize)
	if err != nil {
		return ledger.IndexReceipt{}, errors.Wrap(err, "encode max order size")
	}

	receipt, err := c.transact(ctx, c.castle, ledger.OpSubmitIndex,
		u128(def.IndexID),
		def.Name,
		def.Symbol,
		def.Description,
		def.Methodology,
		members,
		def.Keepers,
		def.Custody,
		def.Collateral,
		maxOrder.ToBig(),
	)
	if err != nil {
		return ledger.IndexReceipt{}, err
	}

	out := ledger.IndexReceipt{Receipt: receiptOf(receipt)}
	if !out.Success {
		return out, nil
	}
	out.Vault, err = deployedVault(def.IndexID, receipt.Logs)
	if err != nil {
		return ledger.IndexReceipt{}, err
	}
	return out, nil
}

// deployedVault finds the vault the castle deployed for indexID.
func deployedVault(indexID uint256.Int, logs []*types.Log) (common.Address, error) {
	want := indexID.ToBig()
	for _, l := range logs {
		if l == nil {
			continue
		}
		var ev contract.IndexDeployedEvent
		if err := contract.UnpackLog(contract.Castle, &ev, contract.EventIndexDeployed, *l); err != nil {
			continue
		}
		if ev.IndexId != nil && ev.IndexId.Cmp(want) == 0 {
			return ev.Vault, nil
		}
	}
	return common.Address{}, errors.Wrapf(exception.ErrLedgerVaultNotFound, "index_id: %s", indexID.Dec())
}

func (c *Client) SubmitVote(ctx context.Context, indexID uint256.Int, vote []byte) (ledger.Receipt, error) {
	if vote == nil {
		vote = []byte{}
	}
	return c.send(ctx, c.castle, ledger.OpSubmitVote, u128(indexID), vote)
}

func (c *Client) SubmitAssetWeights(ctx context.Context, indexID uint256.Int, assets model.Labels, weights model.Vector) (ledger.Receipt, error) {
	payload, err := encodeAligned(assets, weights)
	if err != nil {
		return ledger.Receipt{}, errors.Wrap(err, ledger.OpSubmitAssetWeights)
	}
	return c.send(ctx, c.castle, ledger.OpSubmitAssetWeights, u128(indexID), payload[0], payload[1])
}

func (c *Client) UpdateIndexQuote(ctx context.Context, vendorID, indexID uint256.Int) (ledger.Receipt, error) {
	return c.send(ctx, c.castle, ledger.OpUpdateIndexQuote, u128(vendorID), u128(indexID))
}

func (c *Client) SubmitAssets(ctx context.Context, vendorID uint256.Int, assets model.Labels) (ledger.Receipt, error) {
	payload, err := codec.EncodeLabels(nil, assets)
	if err != nil {
		return ledger.Receipt{}, errors.Wrap(err, ledger.OpSubmitAssets)
	}
	return c.send(ctx, c.castle, ledger.OpSubmitAssets, u128(vendorID), payload)
}

func (c *Client) SubmitMargin(ctx context.Context, vendorID uint256.Int, assets model.Labels, margins model.Vector) (ledger.Receipt, error) {
	payload, err := encodeAligned(assets, margins)
	if err != nil {
		return ledger.Receipt{}, errors.Wrap(err, ledger.OpSubmitMargin)
	}
	return c.send(ctx, c.castle, ledger.OpSubmitMargin, u128(vendorID), payload[0], payload[1])
}

func (c *Client) SubmitMarketData(ctx context.Context, vendorID uint256.Int, assets model.Labels, liquidity, prices, slopes model.Vector) (ledger.Receipt, error) {
	payload, err := encodeAligned(assets, liquidity, prices, slopes)
	if err != nil {
		return ledger.Receipt{}, errors.Wrap(err, ledger.OpSubmitMarketData)
	}
	return c.send(ctx, c.castle, ledger.OpSubmitMarketData, u128(vendorID), payload[0], payload[1], payload[2], payload[3])
}

func (c *Client) SubmitSupply(ctx context.Context, vendorID uint256.Int, assets model.Labels, short, long model.Vector) (ledger.Receipt, error) {
	payload, err := encodeAligned(assets, short, long)
	if err != nil {
		return ledger.Receipt{}, errors.Wrap(err, ledger.OpSubmitSupply)
	}
	return c.send(ctx, c.castle, ledger.OpSubmitSupply, u128(vendorID), payload[0], payload[1], payload[2])
}

func (c *Client) GetVendorDemand(ctx context.Context, vendorID uint256.Int) (model.Demand, error) {
	out, err := c.call(ctx, c.castle, ledger.OpGetVendorDemand, u128(vendorID))
	if err != nil {
		return model.Demand{}, err
	}
	return decodeDemand(out)
}

// decodeDemand reads the bytes[] result of getVendorDemand: long, then short.
func decodeDemand(out []any) (model.Demand, error) {
	if len(out) != 1 {
		return model.Demand{}, errors.Wrapf(exception.ErrLedgerDemandShape, "outputs: %d", len(out))
	}
	raw, ok := out[0].([][]byte)
	if !ok || len(raw) != 2 {
		return model.Demand{}, errors.Wrapf(exception.ErrLedgerDemandShape, "got %T", out[0])
	}
	long, err := codec.DecodeVector(raw[0])
	if err != nil {
		return model.Demand{}, errors.Wrap(err, "decode long demand")
	}
	short, err := codec.DecodeVector(raw[1])
	if err != nil {
		return model.Demand{}, errors.Wrap(err, "decode short demand")
	}
	return model.Demand{Long: long, Short: short}, nil
}

// encodeAligned encodes assets followed by each vector, after checking that
// every vector has one amount per asset.
func encodeAligned(assets model.Labels, vectors ...model.Vector) ([][]byte, error) {
	if err := model.Aligned(assets, vectors...); err != nil {
		return nil, err
	}
	out := make([][]byte, 0, len(vectors)+1)
	labels, err := codec.EncodeLabels(nil, assets)
	if err != nil {
		return nil, err
	}
	out = append(out, labels)
	for _, v := range vectors {
		encoded, err := codec.EncodeVector(nil, v)
		if err != nil {
			return nil, err
		}
		out = append(out, encoded)
	}
	return out, nil
}
