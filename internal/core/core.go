/*
Core implements the reconciliation engine.

# Module
  - event source: decodes vault logs into chain messages and publishes them to the bus
  - in-memory bus: unbounded FIFO between the event source and the dispatcher
  - dispatcher: single thread consumer, filters messages by (index_id, vendor_id) and drives keeper & vendor
  - keeper & vendor: the only holders of local state, touched by the dispatcher alone

# Source
 1. vault logs from the ledger log watcher

# Produce
  - confirmed ledger transactions (quotes, market data, supply, pending order processing)
  - order record audits

# Sharded
  - indexID + vendorID
*/
package core

import (
	"context"

	"conveyor/internal/bus"
	"conveyor/pkg/exception"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"golang.org/x/sync/errgroup"
)

// Source produces chain messages into the queue until ctx is done or its
// stream fails.
type Source interface {
	Run(ctx context.Context, q *bus.Queue) error
}

// Run supervises the source and the dispatcher until ctx is cancelled or one
// of them fails. The queue is closed once the source returns. Cancellation of
// ctx is a clean exit and returns nil.
func Run(ctx context.Context, src Source, q *bus.Queue, d *Dispatcher) error {
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer q.Close()
		return src.Run(gctx, q)
	})
	eg.Go(func() error {
		return d.Run(gctx, q)
	})

	err := eg.Wait()
	logs.Infof("core stopped, pending messages: %d", q.Len())
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, exception.ErrQueueClosed)):
		return nil
	default:
		return err
	}
}
