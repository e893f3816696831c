// Package audit publishes the order records the keeper reads from its vault.
package audit

import (
	"context"
	"time"

	"conveyor/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/yanun0323/logs"
)

// Source tells which keeper step produced a record.
type Source string

const (
	SourcePending Source = "pending"
	SourceTrader  Source = "trader"
)

// Record is one observed order record.
type Record struct {
	Source     Source            `json:"source"`
	IndexID    string            `json:"indexId"`
	VendorID   string            `json:"vendorId"`
	Vault      common.Address    `json:"vault"`
	Trader     common.Address    `json:"trader"`
	Order      model.OrderRecord `json:"order"`
	ObservedAt time.Time         `json:"observedAt"`
}

// Sink receives audit records.
type Sink interface {
	Write(ctx context.Context, r Record) error
}

// Fanout writes every record to each sink in order. A failing sink is logged
// and does not stop the others.
type Fanout []Sink

func (f Fanout) Write(ctx context.Context, r Record) error {
	for _, s := range f {
		if err := s.Write(ctx, r); err != nil {
			logs.Errorf("audit sink write, trader: %s, err: %+v", r.Trader.Hex(), err)
		}
	}
	return nil
}
