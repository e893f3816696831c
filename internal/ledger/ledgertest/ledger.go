// Package ledgertest provides in-memory doubles of the ledger capability.
package ledgertest

import (
	"context"
	"sync"

	"conveyor/internal/ledger"
	"conveyor/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Call is one recorded ledger invocation.
type Call struct {
	Op       string
	IndexID  uint256.Int
	VendorID uint256.Int
	Vault    common.Address
	Trader   common.Address
	Assets   model.Labels
	Vectors  []model.Vector
	Index    *ledger.IndexDefinition
	Vote     []byte
}

// Ledger records every call in order and answers from configured state.
// Ops listed in Errors fail with that error; ops listed in Reverts are mined
// with a failed status.
type Ledger struct {
	mu sync.Mutex

	Account common.Address
	Vault   common.Address
	Demand  model.Demand
	Orders  map[common.Address]model.Vector
	Errors  map[string]error
	Reverts map[string]bool

	calls []Call
	seq   uint64
}

var _ ledger.Ledger = (*Ledger)(nil)

// New returns a ledger whose every call succeeds.
func New() *Ledger {
	return &Ledger{
		Account: common.HexToAddress("0x000000000000000000000000000000000000c0de"),
		Vault:   common.HexToAddress("0x000000000000000000000000000000000000fa17"),
		Orders:  make(map[common.Address]model.Vector),
		Errors:  make(map[string]error),
		Reverts: make(map[string]bool),
	}
}

// Calls returns a copy of the recorded calls.
func (l *Ledger) Calls() []Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Call, len(l.calls))
	copy(out, l.calls)
	return out
}

// Ops returns the names of the recorded calls in order.
func (l *Ledger) Ops() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.calls))
	for i := range l.calls {
		out[i] = l.calls[i].Op
	}
	return out
}

// CallsOf returns the recorded calls of one operation.
func (l *Ledger) CallsOf(op string) []Call {
	var out []Call
	for _, c := range l.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = nil
}

func (l *Ledger) Signer() common.Address {
	return l.Account
}

func (l *Ledger) record(c Call) (ledger.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, c)
	if err := l.Errors[c.Op]; err != nil {
		return ledger.Receipt{}, err
	}
	l.seq++
	return ledger.Receipt{
		TxHash:      common.BigToHash(new(uint256.Int).SetUint64(l.seq).ToBig()),
		BlockNumber: l.seq,
		GasUsed:     21_000,
		Success:     !l.Reverts[c.Op],
	}, nil
}

func (l *Ledger) SubmitIndex(_ context.Context, def ledger.IndexDefinition) (ledger.IndexReceipt, error) {
	r, err := l.record(Call{Op: ledger.OpSubmitIndex, IndexID: def.IndexID, Index: &def})
	if err != nil {
		return ledger.IndexReceipt{}, err
	}
	return ledger.IndexReceipt{Receipt: r, Vault: l.Vault}, nil
}

func (l *Ledger) SubmitVote(_ context.Context, indexID uint256.Int, vote []byte) (ledger.Receipt, error) {
	return l.record(Call{Op: ledger.OpSubmitVote, IndexID: indexID, Vote: vote})
}

func (l *Ledger) SubmitAssetWeights(_ context.Context, indexID uint256.Int, assets model.Labels, weights model.Vector) (ledger.Receipt, error) {
	return l.record(Call{Op: ledger.OpSubmitAssetWeights, IndexID: indexID, Assets: assets, Vectors: []model.Vector{weights}})
}

func (l *Ledger) UpdateIndexQuote(_ context.Context, vendorID, indexID uint256.Int) (ledger.Receipt, error) {
	return l.record(Call{Op: ledger.OpUpdateIndexQuote, VendorID: vendorID, IndexID: indexID})
}

func (l *Ledger) ProcessPendingBuyOrder(_ context.Context, vault, trader common.Address) (ledger.Receipt, error) {
	return l.record(Call{Op: ledger.OpProcessPendingBuyOrder, Vault: vault, Trader: trader})
}

func (l *Ledger) ProcessPendingSellOrder(_ context.Context, vault, trader common.Address) (ledger.Receipt, error) {
	return l.record(Call{Op: ledger.OpProcessPendingSellOrder, Vault: vault, Trader: trader})
}

func (l *Ledger) SubmitAssets(_ context.Context, vendorID uint256.Int, assets model.Labels) (ledger.Receipt, error) {
	return l.record(Call{Op: ledger.OpSubmitAssets, VendorID: vendorID, Assets: assets})
}

func (l *Ledger) SubmitMargin(_ context.Context, vendorID uint256.Int, assets model.Labels, margins model.Vector) (ledger.Receipt, error) {
	return l.record(Call{Op: ledger.OpSubmitMargin, VendorID: vendorID, Assets: assets, Vectors: []model.Vector{margins}})
}

func (l *Ledger) SubmitMarketData(_ context.Context, vendorID uint256.Int, assets model.Labels, liquidity, prices, slopes model.Vector) (ledger.Receipt, error) {
	return l.record(Call{Op: ledger.OpSubmitMarketData, VendorID: vendorID, Assets: assets, Vectors: []model.Vector{liquidity, prices, slopes}})
}

func (l *Ledger) SubmitSupply(_ context.Context, vendorID uint256.Int, assets model.Labels, short, long model.Vector) (ledger.Receipt, error) {
	return l.record(Call{Op: ledger.OpSubmitSupply, VendorID: vendorID, Assets: assets, Vectors: []model.Vector{short, long}})
}

func (l *Ledger) GetVendorDemand(_ context.Context, vendorID uint256.Int) (model.Demand, error) {
	if _, err := l.record(Call{Op: ledger.OpGetVendorDemand, VendorID: vendorID}); err != nil {
		return model.Demand{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Demand, nil
}

func (l *Ledger) GetTraderOrder(_ context.Context, vault, trader common.Address) (model.Vector, error) {
	if _, err := l.record(Call{Op: ledger.OpGetTraderOrder, Vault: vault, Trader: trader}); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if v, ok := l.Orders[trader]; ok {
		return v, nil
	}
	return make(model.Vector, model.OrderRecordSize), nil
}
