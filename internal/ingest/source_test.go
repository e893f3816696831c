package ingest

import (
	"context"
	"math/big"
	"testing"
	"time"

	"conveyor/internal/bus"
	"conveyor/internal/contract"
	"conveyor/internal/ledger/ledgertest"
	"conveyor/internal/model"
	"conveyor/internal/model/enum"
	"conveyor/pkg/exception"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	vault  = common.HexToAddress("0x000000000000000000000000000000000000fa17")
	keeper = common.HexToAddress("0x00000000000000000000000000000000000000ee")
	trader = common.HexToAddress("0x00000000000000000000000000000000000000aa")
)

func n(v int64) *big.Int {
	return big.NewInt(v)
}

func TestDecodeEveryEvent(t *testing.T) {
	cases := []struct {
		log  types.Log
		want model.ChainMessage
	}{
		{
			log:  ledgertest.VaultLog(vault, contract.EventBuyOrder, []common.Address{keeper, trader}, n(1001), n(1), n(500)),
			want: model.BuyOrder{Keeper: keeper, Trader: trader, IndexID: model.ID(1001), VendorID: model.ID(1), Collateral: model.ID(500)},
		},
		{
			log:  ledgertest.VaultLog(vault, contract.EventSellOrder, []common.Address{keeper, trader}, n(1001), n(1), n(7)),
			want: model.SellOrder{Keeper: keeper, Trader: trader, IndexID: model.ID(1001), VendorID: model.ID(1), ITPAmount: model.ID(7)},
		},
		{
			log:  ledgertest.VaultLog(vault, contract.EventAcquisition, []common.Address{keeper}, n(1001), n(1), n(10), n(20), n(30)),
			want: model.Acquisition{Controller: keeper, IndexID: model.ID(1001), VendorID: model.ID(1), Remain: model.ID(10), Spent: model.ID(20), Minted: model.ID(30)},
		},
		{
			log:  ledgertest.VaultLog(vault, contract.EventDisposal, []common.Address{keeper}, n(1001), n(1), n(11), n(12), n(13)),
			want: model.Disposal{Controller: keeper, IndexID: model.ID(1001), VendorID: model.ID(1), Remain: model.ID(11), Burned: model.ID(12), Gains: model.ID(13)},
		},
		{
			log:  ledgertest.VaultLog(vault, contract.EventAcquisitionClaim, []common.Address{keeper, trader}, n(1001), n(1), n(150), n(40)),
			want: model.AcquisitionClaim{Keeper: keeper, Trader: trader, IndexID: model.ID(1001), VendorID: model.ID(1), Remain: model.ID(150), Spent: model.ID(40)},
		},
		{
			log:  ledgertest.VaultLog(vault, contract.EventDisposalClaim, []common.Address{keeper, trader}, n(1001), n(1), n(101), n(9)),
			want: model.DisposalClaim{Keeper: keeper, Trader: trader, IndexID: model.ID(1001), VendorID: model.ID(1), ITPRemain: model.ID(101), ITPBurned: model.ID(9)},
		},
	}
	for _, c := range cases {
		t.Run(c.want.Kind().String(), func(t *testing.T) {
			got, ok, err := Decode(c.log)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestDecodeSkipsForeignSignature(t *testing.T) {
	foreign := types.Log{Address: vault, Topics: []common.Hash{common.HexToHash("0xdeadbeef")}}
	msg, ok, err := Decode(foreign)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, msg)

	anonymous := types.Log{Address: vault}
	_, ok, err = Decode(anonymous)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecodeMalformedData(t *testing.T) {
	log := ledgertest.VaultLog(vault, contract.EventBuyOrder, []common.Address{keeper, trader}, n(1001), n(1), n(500))
	log.Data = log.Data[:40]
	_, ok, err := Decode(log)
	require.Error(t, err)
	assert.False(t, ok)
}

func TestRunRequiresVault(t *testing.T) {
	src := NewSource(ledgertest.NewWatcher(), common.Address{})
	require.ErrorIs(t, src.Run(t.Context(), bus.NewQueue()), exception.ErrKeeperVaultNotProvisioned)

	src = NewSource(nil, vault)
	require.ErrorIs(t, src.Run(t.Context(), bus.NewQueue()), exception.ErrIngestNilWatcher)
}

func TestRunSurfacesWatchError(t *testing.T) {
	w := ledgertest.NewWatcher()
	w.WatchErr = assert.AnError
	err := NewSource(w, vault).Run(t.Context(), bus.NewQueue())
	require.ErrorIs(t, err, assert.AnError)
}

func startSource(t *testing.T, ctx context.Context, w *ledgertest.Watcher, q *bus.Queue) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- NewSource(w, vault).Run(ctx, q) }()
	select {
	case <-w.Watching():
	case <-time.After(time.Second):
		t.Fatal("source did not subscribe")
	}
	return done
}

func TestRunPublishesInArrivalOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	w := ledgertest.NewWatcher()
	q := bus.NewQueue()
	done := startSource(t, ctx, w, q)

	query := w.Query()
	assert.Equal(t, []common.Address{vault}, query.Addresses)
	require.Len(t, query.Topics, 1)
	assert.ElementsMatch(t, contract.VaultEventIDs(), query.Topics[0])

	batch := []types.Log{
		ledgertest.VaultLog(vault, contract.EventSellOrder, []common.Address{keeper, trader}, n(1001), n(1), n(7)),
		{Address: vault, Topics: []common.Hash{common.HexToHash("0x01")}},
		ledgertest.VaultLog(vault, contract.EventAcquisition, []common.Address{keeper}, n(1001), n(1), n(10), n(20), n(30)),
	}
	require.NoError(t, w.Emit(ctx, batch))
	require.NoError(t, w.Emit(ctx, []types.Log{
		ledgertest.VaultLog(vault, contract.EventDisposal, []common.Address{keeper}, n(1001), n(1), n(1), n(2), n(3)),
	}))

	want := []enum.MessageKind{enum.MessageSellOrder, enum.MessageAcquisition, enum.MessageDisposal}
	for i, kind := range want {
		next, cancelNext := context.WithTimeout(ctx, time.Second)
		e, err := q.Next(next)
		cancelNext()
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), e.Seq)
		assert.Equal(t, kind, e.Message.Kind())
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("source did not stop after cancel")
	}
	assert.True(t, w.Unsubscribed())
}

func TestRunFailsWhenStreamEnds(t *testing.T) {
	w := ledgertest.NewWatcher()
	done := startSource(t, t.Context(), w, bus.NewQueue())

	w.Fail(assert.AnError)
	select {
	case err := <-done:
		require.ErrorIs(t, err, exception.ErrIngestStreamClosed)
		assert.Contains(t, err.Error(), assert.AnError.Error())
	case <-time.After(time.Second):
		t.Fatal("source did not stop after stream failure")
	}
	assert.True(t, w.Unsubscribed())
}

func TestRunPublishesBufferedBatchesBeforeStreamEnd(t *testing.T) {
	for range 50 {
		w := ledgertest.NewWatcher()
		q := bus.NewQueue()
		done := startSource(t, t.Context(), w, q)

		for i := int64(1); i <= 3; i++ {
			require.NoError(t, w.Emit(t.Context(), []types.Log{
				ledgertest.VaultLog(vault, contract.EventAcquisition, []common.Address{keeper}, n(1001), n(1), n(i), n(0), n(0)),
			}))
		}
		w.Fail(assert.AnError)

		select {
		case err := <-done:
			require.ErrorIs(t, err, exception.ErrIngestStreamClosed)
		case <-time.After(time.Second):
			t.Fatal("source did not stop after stream failure")
		}
		require.Equal(t, 3, q.Len())
		for i := uint64(1); i <= 3; i++ {
			e, err := q.Next(t.Context())
			require.NoError(t, err)
			assert.Equal(t, i, e.Seq)
		}
	}
}
