package model

import (
	"context"
	"fmt"

	"conveyor/internal/model/enum"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Route is the (index, vendor) pair a chain message is addressed to.
type Route struct {
	IndexID  uint256.Int
	VendorID uint256.Int
}

func (r Route) String() string {
	return fmt.Sprintf("index_id=%s vendor_id=%s", r.IndexID.Dec(), r.VendorID.Dec())
}

// ChainMessage is one decoded vault event. The set of implementations is
// closed: every variant has a method on Handler, so adding a variant fails to
// compile until every handler covers it.
type ChainMessage interface {
	Kind() enum.MessageKind
	Route() Route
	Accept(ctx context.Context, h Handler) error
	fmt.Stringer

	chainMessage()
}

// Handler reacts to each ChainMessage variant.
type Handler interface {
	OnBuyOrder(ctx context.Context, m BuyOrder) error
	OnSellOrder(ctx context.Context, m SellOrder) error
	OnAcquisition(ctx context.Context, m Acquisition) error
	OnDisposal(ctx context.Context, m Disposal) error
	OnAcquisitionClaim(ctx context.Context, m AcquisitionClaim) error
	OnDisposalClaim(ctx context.Context, m DisposalClaim) error
}

var (
	_ ChainMessage = BuyOrder{}
	_ ChainMessage = SellOrder{}
	_ ChainMessage = Acquisition{}
	_ ChainMessage = Disposal{}
	_ ChainMessage = AcquisitionClaim{}
	_ ChainMessage = DisposalClaim{}
)

type BuyOrder struct {
	Keeper     common.Address
	Trader     common.Address
	IndexID    uint256.Int
	VendorID   uint256.Int
	Collateral uint256.Int
}

func (BuyOrder) chainMessage()          {}
func (BuyOrder) Kind() enum.MessageKind { return enum.MessageBuyOrder }
func (m BuyOrder) Route() Route         { return Route{IndexID: m.IndexID, VendorID: m.VendorID} }
func (m BuyOrder) Accept(ctx context.Context, h Handler) error {
	return h.OnBuyOrder(ctx, m)
}

func (m BuyOrder) String() string {
	return fmt.Sprintf("%s keeper=%s trader=%s %s collateral=%s",
		m.Kind(), m.Keeper.Hex(), m.Trader.Hex(), m.Route(), m.Collateral.Dec())
}

type SellOrder struct {
	Keeper    common.Address
	Trader    common.Address
	IndexID   uint256.Int
	VendorID  uint256.Int
	ITPAmount uint256.Int
}

func (SellOrder) chainMessage()          {}
func (SellOrder) Kind() enum.MessageKind { return enum.MessageSellOrder }
func (m SellOrder) Route() Route         { return Route{IndexID: m.IndexID, VendorID: m.VendorID} }
func (m SellOrder) Accept(ctx context.Context, h Handler) error {
	return h.OnSellOrder(ctx, m)
}

func (m SellOrder) String() string {
	return fmt.Sprintf("%s keeper=%s trader=%s %s itp_amount=%s",
		m.Kind(), m.Keeper.Hex(), m.Trader.Hex(), m.Route(), m.ITPAmount.Dec())
}

type Acquisition struct {
	Controller common.Address
	IndexID    uint256.Int
	VendorID   uint256.Int
	Remain     uint256.Int
	Spent      uint256.Int
	Minted     uint256.Int
}

func (Acquisition) chainMessage()          {}
func (Acquisition) Kind() enum.MessageKind { return enum.MessageAcquisition }
func (m Acquisition) Route() Route         { return Route{IndexID: m.IndexID, VendorID: m.VendorID} }
func (m Acquisition) Accept(ctx context.Context, h Handler) error {
	return h.OnAcquisition(ctx, m)
}

func (m Acquisition) String() string {
	return fmt.Sprintf("%s controller=%s %s remain=%s spent=%s minted=%s",
		m.Kind(), m.Controller.Hex(), m.Route(), m.Remain.Dec(), m.Spent.Dec(), m.Minted.Dec())
}

type Disposal struct {
	Controller common.Address
	IndexID    uint256.Int
	VendorID   uint256.Int
	Remain     uint256.Int
	Burned     uint256.Int
	Gains      uint256.Int
}

func (Disposal) chainMessage()          {}
func (Disposal) Kind() enum.MessageKind { return enum.MessageDisposal }
func (m Disposal) Route() Route         { return Route{IndexID: m.IndexID, VendorID: m.VendorID} }
func (m Disposal) Accept(ctx context.Context, h Handler) error {
	return h.OnDisposal(ctx, m)
}

func (m Disposal) String() string {
	return fmt.Sprintf("%s controller=%s %s remain=%s burned=%s gains=%s",
		m.Kind(), m.Controller.Hex(), m.Route(), m.Remain.Dec(), m.Burned.Dec(), m.Gains.Dec())
}

type AcquisitionClaim struct {
	Keeper   common.Address
	Trader   common.Address
	IndexID  uint256.Int
	VendorID uint256.Int
	Remain   uint256.Int
	Spent    uint256.Int
}

func (AcquisitionClaim) chainMessage()          {}
func (AcquisitionClaim) Kind() enum.MessageKind { return enum.MessageAcquisitionClaim }
func (m AcquisitionClaim) Route() Route         { return Route{IndexID: m.IndexID, VendorID: m.VendorID} }
func (m AcquisitionClaim) Accept(ctx context.Context, h Handler) error {
	return h.OnAcquisitionClaim(ctx, m)
}

func (m AcquisitionClaim) String() string {
	return fmt.Sprintf("%s keeper=%s trader=%s %s remain=%s spent=%s",
		m.Kind(), m.Keeper.Hex(), m.Trader.Hex(), m.Route(), m.Remain.Dec(), m.Spent.Dec())
}

type DisposalClaim struct {
	Keeper    common.Address
	Trader    common.Address
	IndexID   uint256.Int
	VendorID  uint256.Int
	ITPRemain uint256.Int
	ITPBurned uint256.Int
}

func (DisposalClaim) chainMessage()          {}
func (DisposalClaim) Kind() enum.MessageKind { return enum.MessageDisposalClaim }
func (m DisposalClaim) Route() Route         { return Route{IndexID: m.IndexID, VendorID: m.VendorID} }
func (m DisposalClaim) Accept(ctx context.Context, h Handler) error {
	return h.OnDisposalClaim(ctx, m)
}

func (m DisposalClaim) String() string {
	return fmt.Sprintf("%s keeper=%s trader=%s %s itp_remain=%s itp_burned=%s",
		m.Kind(), m.Keeper.Hex(), m.Trader.Hex(), m.Route(), m.ITPRemain.Dec(), m.ITPBurned.Dec())
}
