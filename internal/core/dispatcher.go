package core

import (
	"context"
	"time"

	"conveyor/internal/bus"
	"conveyor/internal/model"
	"conveyor/internal/obs"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

// ClaimThreshold is the remainder a claim must exceed to trigger another
// settlement cycle. Claims at or below it are dust.
const ClaimThreshold = 100

// Keeper is the index side the dispatcher drives.
type Keeper interface {
	IndexID() uint256.Int
	Assets() model.Labels
	UpdateQuote(ctx context.Context) error
	BuyOrder(ctx context.Context) error
	SellOrder(ctx context.Context) error
	LogPendingOrder(ctx context.Context) error
	LogTraderOrder(ctx context.Context, trader common.Address) error
}

// Vendor is the market side the dispatcher drives.
type Vendor interface {
	VendorID() uint256.Int
	UpdateMarket(ctx context.Context, assets model.Labels) error
	UpdateSupply(ctx context.Context) error
}

// Dispatcher consumes chain messages one at a time and runs the step
// sequence of every message addressed to the local index and vendor.
type Dispatcher struct {
	keeper  Keeper
	vendor  Vendor
	metrics *obs.Metrics
	now     func() time.Time
}

var _ model.Handler = (*Dispatcher)(nil)

func NewDispatcher(k Keeper, v Vendor, m *obs.Metrics) *Dispatcher {
	return &Dispatcher{
		keeper:  k,
		vendor:  v,
		metrics: m,
		now:     time.Now,
	}
}

// Run drains q until ctx is done, the queue is closed and empty, or a
// message fails. A failed message is not retried. Cancellation stops new
// messages from starting; the sequence of a started message runs to the end
// so submitted transactions are still awaited and confirmed.
func (d *Dispatcher) Run(ctx context.Context, q *bus.Queue) error {
	logs.Info("dispatcher started")
	defer logs.Info("dispatcher stopped")

	return q.Run(ctx, func(ctx context.Context, e bus.Envelope) error {
		if err := d.Dispatch(context.WithoutCancel(ctx), e.Message); err != nil {
			return errors.Wrapf(err, "dispatch message %d", e.Seq)
		}
		return nil
	})
}

// Dispatch handles one message. Messages for another index or vendor are
// ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, msg model.ChainMessage) error {
	logs.Infof("received %s", msg)
	d.metrics.ObserveReceived(msg.Kind())

	if !d.matches(msg.Route()) {
		d.metrics.IncIgnored()
		return nil
	}

	start := d.now()
	if err := msg.Accept(ctx, d); err != nil {
		d.metrics.IncFailure()
		return errors.Wrapf(err, "handle %s", msg.Kind())
	}
	d.metrics.ObserveHandled(msg.Kind(), d.now().Sub(start))
	return nil
}

func (d *Dispatcher) matches(r model.Route) bool {
	indexID, vendorID := d.keeper.IndexID(), d.vendor.VendorID()
	return r.IndexID.Eq(&indexID) && r.VendorID.Eq(&vendorID)
}

type step func(ctx context.Context) error

func run(ctx context.Context, steps ...step) error {
	for _, s := range steps {
		if err := s(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) updateMarket(ctx context.Context) error {
	return d.vendor.UpdateMarket(ctx, d.keeper.Assets())
}

func (d *Dispatcher) logTrader(trader common.Address) step {
	return func(ctx context.Context) error {
		return d.keeper.LogTraderOrder(ctx, trader)
	}
}

func (d *Dispatcher) OnBuyOrder(ctx context.Context, m model.BuyOrder) error {
	return run(ctx,
		d.logTrader(m.Trader),
		d.keeper.LogPendingOrder,
		d.updateMarket,
		d.keeper.UpdateQuote,
		d.keeper.BuyOrder,
		d.keeper.LogPendingOrder,
	)
}

func (d *Dispatcher) OnSellOrder(ctx context.Context, m model.SellOrder) error {
	return run(ctx,
		d.logTrader(m.Trader),
		d.keeper.LogPendingOrder,
		d.updateMarket,
		d.keeper.UpdateQuote,
		d.keeper.SellOrder,
		d.keeper.LogPendingOrder,
	)
}

func (d *Dispatcher) OnAcquisition(ctx context.Context, _ model.Acquisition) error {
	return d.vendor.UpdateSupply(ctx)
}

func (d *Dispatcher) OnDisposal(ctx context.Context, _ model.Disposal) error {
	return d.vendor.UpdateSupply(ctx)
}

func (d *Dispatcher) OnAcquisitionClaim(ctx context.Context, m model.AcquisitionClaim) error {
	if !m.Remain.GtUint64(ClaimThreshold) {
		d.metrics.IncBelowThreshold()
		logs.Infof("acquisition claim below threshold, remain: %s", m.Remain.Dec())
		return nil
	}
	return run(ctx,
		d.updateMarket,
		d.keeper.UpdateQuote,
		d.keeper.BuyOrder,
		d.keeper.LogPendingOrder,
		d.logTrader(m.Trader),
	)
}

func (d *Dispatcher) OnDisposalClaim(ctx context.Context, m model.DisposalClaim) error {
	if !m.ITPRemain.GtUint64(ClaimThreshold) {
		d.metrics.IncBelowThreshold()
		logs.Infof("disposal claim below threshold, itp_remain: %s", m.ITPRemain.Dec())
		return nil
	}
	return run(ctx,
		d.updateMarket,
		d.keeper.UpdateQuote,
		d.keeper.SellOrder,
		d.keeper.LogPendingOrder,
		d.logTrader(m.Trader),
	)
}
