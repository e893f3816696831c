// Package keeper owns one index: its registration, its constituents and the
// settlement of pending orders on its vault.
package keeper

import (
	"context"
	"time"

	"conveyor/internal/audit"
	"conveyor/internal/ledger"
	"conveyor/internal/model"
	"conveyor/internal/sampler"
	"conveyor/pkg/exception"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

// Config is the fixed identity and registration data of an index.
type Config struct {
	IndexID      uint256.Int
	VendorID     uint256.Int
	Custody      common.Address
	Collateral   common.Address
	MaxOrderSize model.Amount
	WeightBound  sampler.Bound

	Name        string
	Symbol      string
	Description string
	Methodology string
}

// Keeper is driven by a single goroutine and does no locking.
type Keeper struct {
	ledger  ledger.Ledger
	sampler sampler.Sampler
	audit   audit.Sink
	cfg     Config

	vault  common.Address
	assets model.Labels

	now func() time.Time
}

// New returns a keeper with no vault. Setup must run before any other
// operation that touches the vault.
func New(l ledger.Ledger, s sampler.Sampler, sink audit.Sink, cfg Config) *Keeper {
	if sink == nil {
		sink = audit.LogSink{}
	}
	return &Keeper{
		ledger:  l,
		sampler: s,
		audit:   sink,
		cfg:     cfg,
		assets:  model.Labels{},
		now:     time.Now,
	}
}

func (k *Keeper) IndexID() uint256.Int {
	return k.cfg.IndexID
}

func (k *Keeper) VendorID() uint256.Int {
	return k.cfg.VendorID
}

// Vault is the zero address until Setup succeeds.
func (k *Keeper) Vault() common.Address {
	return k.vault
}

// Assets returns the cached constituents of the index.
func (k *Keeper) Assets() model.Labels {
	return k.assets
}

// Setup registers the index, votes on it, submits the weights of indexSize
// constituents picked from marketAssets and refreshes the quote.
func (k *Keeper) Setup(ctx context.Context, marketAssets model.Labels, indexSize int) error {
	if indexSize > marketAssets.Len() {
		return errors.Wrapf(exception.ErrKeeperIndexTooLarge, "index size: %d, market assets: %d", indexSize, marketAssets.Len())
	}
	if err := k.cfg.WeightBound.Validate(); err != nil {
		return errors.Wrap(err, "weight bound")
	}

	def := ledger.IndexDefinition{
		IndexID:        k.cfg.IndexID,
		Name:           k.cfg.Name,
		Symbol:         k.cfg.Symbol,
		Description:    k.cfg.Description,
		Methodology:    k.cfg.Methodology,
		InitialMembers: model.Labels{},
		Keepers:        []common.Address{k.ledger.Signer()},
		Custody:        k.cfg.Custody,
		Collateral:     k.cfg.Collateral,
		MaxOrderSize:   k.cfg.MaxOrderSize,
	}
	r, err := k.ledger.SubmitIndex(ctx, def)
	if err := ledger.Confirm(ledger.OpSubmitIndex, r.Receipt, err); err != nil {
		return err
	}
	k.vault = r.Vault
	logs.Infof("index submitted, index_id: %s, vault: %s", k.cfg.IndexID.Dec(), k.vault.Hex())

	vote, err := k.ledger.SubmitVote(ctx, k.cfg.IndexID, []byte{})
	if err := ledger.Confirm(ledger.OpSubmitVote, vote, err); err != nil {
		return err
	}
	logs.Infof("vote cast, index_id: %s", k.cfg.IndexID.Dec())

	assets, err := k.sampler.Pick(marketAssets, indexSize)
	if err != nil {
		return errors.Wrap(err, "pick index assets")
	}
	weights := k.sampler.Values(k.cfg.WeightBound, assets.Len())
	wr, err := k.ledger.SubmitAssetWeights(ctx, k.cfg.IndexID, assets, weights)
	if err := ledger.Confirm(ledger.OpSubmitAssetWeights, wr, err); err != nil {
		return err
	}
	logs.Infof("weights submitted, index_id: %s, assets: %s, weights: %s", k.cfg.IndexID.Dec(), assets, weights)

	k.assets = assets
	return k.UpdateQuote(ctx)
}

// UpdateQuote refreshes the index quote against the vendor.
func (k *Keeper) UpdateQuote(ctx context.Context) error {
	r, err := k.ledger.UpdateIndexQuote(ctx, k.cfg.VendorID, k.cfg.IndexID)
	return ledger.Confirm(ledger.OpUpdateIndexQuote, r, err)
}

// BuyOrder processes the signer's pending buy order on the vault.
func (k *Keeper) BuyOrder(ctx context.Context) error {
	if err := k.provisioned(); err != nil {
		return err
	}
	r, err := k.ledger.ProcessPendingBuyOrder(ctx, k.vault, k.ledger.Signer())
	return ledger.Confirm(ledger.OpProcessPendingBuyOrder, r, err)
}

// SellOrder processes the signer's pending sell order on the vault.
func (k *Keeper) SellOrder(ctx context.Context) error {
	if err := k.provisioned(); err != nil {
		return err
	}
	r, err := k.ledger.ProcessPendingSellOrder(ctx, k.vault, k.ledger.Signer())
	return ledger.Confirm(ledger.OpProcessPendingSellOrder, r, err)
}

// LogPendingOrder audits the signer's own order record.
func (k *Keeper) LogPendingOrder(ctx context.Context) error {
	return k.logOrder(ctx, audit.SourcePending, k.ledger.Signer())
}

// LogTraderOrder audits the order record of trader.
func (k *Keeper) LogTraderOrder(ctx context.Context, trader common.Address) error {
	return k.logOrder(ctx, audit.SourceTrader, trader)
}

func (k *Keeper) logOrder(ctx context.Context, source audit.Source, trader common.Address) error {
	if err := k.provisioned(); err != nil {
		return err
	}
	v, err := k.ledger.GetTraderOrder(ctx, k.vault, trader)
	if err != nil {
		return errors.Wrapf(err, "%s, trader: %s", ledger.OpGetTraderOrder, trader.Hex())
	}
	order, err := model.OrderRecordFromVector(v)
	if err != nil {
		return errors.Wrapf(err, "%s, trader: %s", ledger.OpGetTraderOrder, trader.Hex())
	}

	rec := audit.Record{
		Source:     source,
		IndexID:    k.cfg.IndexID.Dec(),
		VendorID:   k.cfg.VendorID.Dec(),
		Vault:      k.vault,
		Trader:     trader,
		Order:      order,
		ObservedAt: k.now(),
	}
	if err := k.audit.Write(ctx, rec); err != nil {
		logs.Errorf("audit order record, trader: %s, err: %+v", trader.Hex(), err)
	}
	return nil
}

func (k *Keeper) provisioned() error {
	if k.vault == (common.Address{}) {
		return errors.Wrapf(exception.ErrKeeperVaultNotProvisioned, "index_id: %s", k.cfg.IndexID.Dec())
	}
	return nil
}
