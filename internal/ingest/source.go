// Package ingest is the event source: it watches a vault for the conveyor's
// events, decodes every log and publishes the resulting chain messages.
package ingest

import (
	"context"

	"conveyor/internal/bus"
	"conveyor/internal/contract"
	"conveyor/internal/ledger"
	"conveyor/pkg/exception"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

const batchBuffer = 16

// Source watches one vault.
type Source struct {
	watcher ledger.LogWatcher
	vault   common.Address
}

func NewSource(w ledger.LogWatcher, vault common.Address) *Source {
	return &Source{watcher: w, vault: vault}
}

// FilterQuery selects the vault events of vault.
func FilterQuery(vault common.Address) ethereum.FilterQuery {
	return ethereum.FilterQuery{
		Addresses: []common.Address{vault},
		Topics:    [][]common.Hash{contract.VaultEventIDs()},
	}
}

// Run publishes decoded messages to q in the order their logs arrive. It
// returns nil once ctx is done and fails when the log stream ends on its own.
func (s *Source) Run(ctx context.Context, q *bus.Queue) error {
	if s.watcher == nil {
		return exception.ErrIngestNilWatcher
	}
	if s.vault == (common.Address{}) {
		return exception.ErrKeeperVaultNotProvisioned
	}

	batches := make(chan []types.Log, batchBuffer)
	sub, err := s.watcher.WatchLogs(ctx, FilterQuery(s.vault), batches)
	if err != nil {
		return errors.Wrapf(err, "watch vault %s", s.vault.Hex())
	}
	defer sub.Unsubscribe()

	logs.Infof("event source started, vault: %s", s.vault.Hex())
	defer logs.Infof("event source stopped, vault: %s", s.vault.Hex())

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-sub.Err():
			if derr := s.drain(q, batches); derr != nil {
				return derr
			}
			if err == nil {
				return exception.ErrIngestStreamClosed
			}
			return errors.Wrapf(exception.ErrIngestStreamClosed, "vault: %s, cause: %v", s.vault.Hex(), err)
		case batch := <-batches:
			if err := s.publish(q, batch); err != nil {
				return err
			}
		}
	}
}

// drain publishes the batches delivered before the stream ended.
func (s *Source) drain(q *bus.Queue, batches <-chan []types.Log) error {
	for {
		select {
		case batch := <-batches:
			if err := s.publish(q, batch); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (s *Source) publish(q *bus.Queue, batch []types.Log) error {
	for _, log := range batch {
		if log.Removed {
			continue
		}
		msg, ok, err := Decode(log)
		if err != nil {
			logs.Errorf("decode log, tx: %s, index: %d, err: %+v", log.TxHash.Hex(), log.Index, err)
			continue
		}
		if !ok {
			continue
		}
		if _, err := q.Publish(msg); err != nil {
			return errors.Wrapf(err, "publish %s", msg.Kind())
		}
	}
	return nil
}
