package ledgertest

import (
	"context"
	"sync"

	"conveyor/internal/contract"
	"conveyor/internal/ledger"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Watcher is a LogWatcher driven by the test: Emit pushes one batch, Fail
// terminates the subscription.
type Watcher struct {
	mu       sync.Mutex
	query    ethereum.FilterQuery
	sink     chan<- []types.Log
	sub      *subscription
	watching chan struct{}

	// WatchErr, when set, is returned by WatchLogs.
	WatchErr error
}

var _ ledger.LogWatcher = (*Watcher)(nil)

func NewWatcher() *Watcher {
	return &Watcher{watching: make(chan struct{})}
}

func (w *Watcher) WatchLogs(_ context.Context, q ethereum.FilterQuery, sink chan<- []types.Log) (ethereum.Subscription, error) {
	if w.WatchErr != nil {
		return nil, w.WatchErr
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.query = q
	w.sink = sink
	w.sub = &subscription{err: make(chan error, 1), quit: make(chan struct{})}
	close(w.watching)
	return w.sub, nil
}

// Watching is closed once WatchLogs has been called.
func (w *Watcher) Watching() <-chan struct{} {
	return w.watching
}

// Query returns the filter passed to WatchLogs.
func (w *Watcher) Query() ethereum.FilterQuery {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.query
}

// Emit delivers one batch to the watching source.
func (w *Watcher) Emit(ctx context.Context, batch []types.Log) error {
	w.mu.Lock()
	sink := w.sink
	w.mu.Unlock()
	select {
	case sink <- batch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Fail terminates the subscription with err.
func (w *Watcher) Fail(err error) {
	w.mu.Lock()
	sub := w.sub
	w.mu.Unlock()
	sub.err <- err
}

// Unsubscribed reports whether the source released its subscription.
func (w *Watcher) Unsubscribed() bool {
	w.mu.Lock()
	sub := w.sub
	w.mu.Unlock()
	if sub == nil {
		return false
	}
	select {
	case <-sub.quit:
		return true
	default:
		return false
	}
}

type subscription struct {
	err  chan error
	quit chan struct{}
	once sync.Once
}

func (s *subscription) Err() <-chan error {
	return s.err
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() { close(s.quit) })
}

// VaultLog builds a raw vault log for event with the given indexed addresses
// and non-indexed values.
func VaultLog(vault common.Address, event string, indexed []common.Address, values ...any) types.Log {
	ev := contract.Vault.Events[event]
	data, err := ev.Inputs.NonIndexed().Pack(values...)
	if err != nil {
		panic("ledgertest: pack " + event + ": " + err.Error())
	}
	topics := []common.Hash{ev.ID}
	for _, addr := range indexed {
		topics = append(topics, common.BytesToHash(addr.Bytes()))
	}
	return types.Log{Address: vault, Topics: topics, Data: data}
}
