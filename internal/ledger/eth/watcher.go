package eth

import (
	"context"
	"math/big"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/yanun0323/errors"
)

const defaultPollInterval = 2 * time.Second

// LogPoller reads the chain head and filters logs over a block range.
type LogPoller interface {
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

// Watcher turns FilterLogs polling into a log subscription, so plain HTTP
// endpoints work as well as websocket ones.
type Watcher struct {
	poller   LogPoller
	interval time.Duration
}

func NewWatcher(p LogPoller, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Watcher{poller: p, interval: interval}
}

func (c *Client) WatchLogs(ctx context.Context, q ethereum.FilterQuery, sink chan<- []types.Log) (ethereum.Subscription, error) {
	return c.watcher.WatchLogs(ctx, q, sink)
}

// WatchLogs polls from q.FromBlock, or from the current head when unset,
// and sends every non-empty block range as one batch. A failed RPC ends the
// subscription with its error. Once ctx is done the subscription waits for
// Unsubscribe without reporting an error.
func (w *Watcher) WatchLogs(ctx context.Context, q ethereum.FilterQuery, sink chan<- []types.Log) (ethereum.Subscription, error) {
	var from uint64
	if q.FromBlock != nil {
		from = q.FromBlock.Uint64()
	} else {
		head, err := w.poller.BlockNumber(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "read head block")
		}
		from = head
	}

	return event.NewSubscription(func(quit <-chan struct{}) error {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-quit:
				return nil
			case <-ctx.Done():
				<-quit
				return nil
			case <-ticker.C:
			}

			batch, head, err := w.poll(ctx, q, from)
			if err != nil {
				if ctx.Err() != nil {
					<-quit
					return nil
				}
				return err
			}
			if head < from {
				continue
			}
			from = head + 1
			if len(batch) == 0 {
				continue
			}

			select {
			case sink <- batch:
			case <-quit:
				return nil
			case <-ctx.Done():
				<-quit
				return nil
			}
		}
	}), nil
}

func (w *Watcher) poll(ctx context.Context, q ethereum.FilterQuery, from uint64) ([]types.Log, uint64, error) {
	head, err := w.poller.BlockNumber(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, "read head block")
	}
	if head < from {
		return nil, head, nil
	}

	q.FromBlock = new(big.Int).SetUint64(from)
	q.ToBlock = new(big.Int).SetUint64(head)
	batch, err := w.poller.FilterLogs(ctx, q)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "filter logs %d..%d", from, head)
	}
	return batch, head, nil
}
