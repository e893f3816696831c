package eth

import (
	"context"

	"conveyor/internal/codec"
	"conveyor/internal/ledger"
	"conveyor/internal/model"
	"conveyor/pkg/exception"

	"github.com/ethereum/go-ethereum/common"
	"github.com/yanun0323/errors"
)

func (c *Client) ProcessPendingBuyOrder(ctx context.Context, vault, trader common.Address) (ledger.Receipt, error) {
	return c.send(ctx, c.vault(vault), ledger.OpProcessPendingBuyOrder, trader)
}

func (c *Client) ProcessPendingSellOrder(ctx context.Context, vault, trader common.Address) (ledger.Receipt, error) {
	return c.send(ctx, c.vault(vault), ledger.OpProcessPendingSellOrder, trader)
}

func (c *Client) GetTraderOrder(ctx context.Context, vault, trader common.Address) (model.Vector, error) {
	out, err := c.call(ctx, c.vault(vault), ledger.OpGetTraderOrder, trader)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, errors.Wrapf(exception.ErrMalformedPayload, "%s outputs: %d", ledger.OpGetTraderOrder, len(out))
	}
	raw, ok := out[0].([]byte)
	if !ok {
		return nil, errors.Wrapf(exception.ErrMalformedPayload, "%s output: %T", ledger.OpGetTraderOrder, out[0])
	}
	return codec.DecodeVector(raw)
}
