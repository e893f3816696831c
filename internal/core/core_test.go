package core

import (
	"context"
	"testing"
	"time"

	"conveyor/internal/bus"
	"conveyor/internal/ledger"
	"conveyor/internal/model"
	"conveyor/pkg/exception"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedSource struct {
	msgs []model.ChainMessage
	err  error
}

func (s scriptedSource) Run(ctx context.Context, q *bus.Queue) error {
	for _, m := range s.msgs {
		if _, err := q.Publish(m); err != nil {
			return err
		}
	}
	if s.err != nil {
		return s.err
	}
	<-ctx.Done()
	return nil
}

func TestRunStopsCleanlyOnCancel(t *testing.T) {
	f := newFixture(t)
	src := scriptedSource{msgs: []model.ChainMessage{
		model.Acquisition{IndexID: localIndex, VendorID: localVendor},
		model.Disposal{IndexID: localIndex, VendorID: localVendor},
	}}

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, src, bus.NewQueue(), f.dispatcher) }()

	require.Eventually(t, func() bool {
		return len(f.ledger.CallsOf(ledger.OpSubmitSupply)) == 2
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("run did not stop after cancel")
	}
}

func TestRunSurfacesSourceFailure(t *testing.T) {
	f := newFixture(t)
	src := scriptedSource{err: exception.ErrIngestStreamClosed}

	err := Run(t.Context(), src, bus.NewQueue(), f.dispatcher)
	require.ErrorIs(t, err, exception.ErrIngestStreamClosed)
}

func TestRunSurfacesDispatchFailure(t *testing.T) {
	f := newFixture(t)
	f.ledger.Reverts[ledger.OpSubmitSupply] = true
	src := scriptedSource{msgs: []model.ChainMessage{
		model.Acquisition{IndexID: localIndex, VendorID: localVendor},
		model.Acquisition{IndexID: localIndex, VendorID: localVendor},
	}}

	err := Run(t.Context(), src, bus.NewQueue(), f.dispatcher)
	require.ErrorIs(t, err, exception.ErrLedgerReverted)
	assert.Contains(t, err.Error(), "dispatch message 1")
	assert.Len(t, f.ledger.CallsOf(ledger.OpSubmitSupply), 1)
}

func TestDispatcherDrainsInOrder(t *testing.T) {
	f := newFixture(t)
	q := bus.NewQueue()
	_, _ = q.Publish(model.SellOrder{Trader: trader, IndexID: localIndex, VendorID: localVendor})
	_, _ = q.Publish(model.Acquisition{IndexID: localIndex, VendorID: model.ID(9)})
	_, _ = q.Publish(model.Disposal{IndexID: localIndex, VendorID: localVendor})
	q.Close()

	err := f.dispatcher.Run(t.Context(), q)
	require.ErrorIs(t, err, exception.ErrQueueClosed)

	ops := f.ledger.Ops()
	require.Len(t, ops, 8)
	assert.Equal(t, ledger.OpProcessPendingSellOrder, ops[4])
	assert.Equal(t, []string{ledger.OpGetVendorDemand, ledger.OpSubmitSupply}, ops[6:])
	assert.Equal(t, uint64(1), f.metrics.Snapshot().Ignored)
}

func TestDispatcherStartsNothingAfterCancel(t *testing.T) {
	f := newFixture(t)
	q := bus.NewQueue()
	_, _ = q.Publish(model.Acquisition{IndexID: localIndex, VendorID: localVendor})
	_, _ = q.Publish(model.Disposal{IndexID: localIndex, VendorID: localVendor})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := f.dispatcher.Run(ctx, q)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.ledger.Ops())
	assert.Equal(t, 2, q.Len())
}

// cancellingKeeper cancels the run context inside the first step of a buy
// sequence and records the context state every later step sees.
type cancellingKeeper struct {
	Keeper
	cancel context.CancelFunc
	steps  []string
}

func (k *cancellingKeeper) observe(ctx context.Context, name string) {
	if ctx.Err() != nil {
		name += ":cancelled"
	}
	k.steps = append(k.steps, name)
}

func (k *cancellingKeeper) LogTraderOrder(ctx context.Context, trader common.Address) error {
	k.cancel()
	k.observe(ctx, "trader")
	return k.Keeper.LogTraderOrder(ctx, trader)
}

func (k *cancellingKeeper) LogPendingOrder(ctx context.Context) error {
	k.observe(ctx, "pending")
	return k.Keeper.LogPendingOrder(ctx)
}

func (k *cancellingKeeper) UpdateQuote(ctx context.Context) error {
	k.observe(ctx, "quote")
	return k.Keeper.UpdateQuote(ctx)
}

func (k *cancellingKeeper) BuyOrder(ctx context.Context) error {
	k.observe(ctx, "buy")
	return k.Keeper.BuyOrder(ctx)
}

func TestCancelDuringSequenceFinishesIt(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(t.Context())
	k := &cancellingKeeper{Keeper: f.keeper, cancel: cancel}
	d := NewDispatcher(k, f.vendor, f.metrics)

	q := bus.NewQueue()
	_, _ = q.Publish(model.BuyOrder{Trader: trader, IndexID: localIndex, VendorID: localVendor, Collateral: amount(500)})
	_, _ = q.Publish(model.Acquisition{IndexID: localIndex, VendorID: localVendor})

	err := d.Run(ctx, q)
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []string{"trader", "pending", "quote", "buy", "pending"}, k.steps)
	assert.Len(t, f.ledger.CallsOf(ledger.OpProcessPendingBuyOrder), 1)
	assert.Empty(t, f.ledger.CallsOf(ledger.OpSubmitSupply))
	assert.Equal(t, 1, q.Len())
}
