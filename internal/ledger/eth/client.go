// Package eth implements the ledger capability on an Ethereum JSON-RPC
// endpoint with go-ethereum.
package eth

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"
	"sync"
	"time"

	"conveyor/internal/contract"
	"conveyor/internal/ledger"
	"conveyor/pkg/exception"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/yanun0323/errors"
)

// Option configures the RPC connection and the signing account.
type Option struct {
	RPCURL       string
	PrivateKey   string
	Castle       common.Address
	PollInterval time.Duration
}

// Backend is the part of an RPC client the ledger needs. *ethclient.Client
// satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	LogPoller
	ChainID(ctx context.Context) (*big.Int, error)
}

// Client signs every transaction with one key and blocks until it is mined.
type Client struct {
	backend Backend
	auth    *bind.TransactOpts
	castle  *bind.BoundContract
	watcher *Watcher
	closeFn func()

	mu     sync.Mutex
	vaults map[common.Address]*bind.BoundContract
}

var (
	_ ledger.Ledger     = (*Client)(nil)
	_ ledger.LogWatcher = (*Client)(nil)
)

// Dial connects to opt.RPCURL and loads the signing key.
func Dial(ctx context.Context, opt Option) (*Client, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(opt.PrivateKey, "0x"))
	if err != nil {
		return nil, errors.Wrap(exception.ErrLedgerInvalidKey, err.Error())
	}

	rpc, err := ethclient.DialContext(ctx, opt.RPCURL)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", opt.RPCURL)
	}

	c, err := New(ctx, rpc, key, opt)
	if err != nil {
		rpc.Close()
		return nil, err
	}
	c.closeFn = rpc.Close
	return c, nil
}

// New builds a client on an existing backend.
func New(ctx context.Context, backend Backend, key *ecdsa.PrivateKey, opt Option) (*Client, error) {
	if backend == nil {
		return nil, exception.ErrLedgerNilClient
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read chain id")
	}
	auth, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "create transactor")
	}

	return &Client{
		backend: backend,
		auth:    auth,
		castle:  bind.NewBoundContract(opt.Castle, contract.Castle, backend, backend, backend),
		watcher: NewWatcher(backend, opt.PollInterval),
		vaults:  make(map[common.Address]*bind.BoundContract),
	}, nil
}

// Close releases the RPC connection opened by Dial.
func (c *Client) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

func (c *Client) Signer() common.Address {
	return c.auth.From
}

func (c *Client) vault(addr common.Address) *bind.BoundContract {
	c.mu.Lock()
	defer c.mu.Unlock()
	if bc, ok := c.vaults[addr]; ok {
		return bc
	}
	bc := bind.NewBoundContract(addr, contract.Vault, c.backend, c.backend, c.backend)
	c.vaults[addr] = bc
	return bc
}

func (c *Client) transact(ctx context.Context, bc *bind.BoundContract, method string, args ...any) (*types.Receipt, error) {
	opts := *c.auth
	opts.Context = ctx

	tx, err := bc.Transact(&opts, method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "send %s", method)
	}
	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, errors.Wrapf(err, "await %s tx %s", method, tx.Hash().Hex())
	}
	if receipt == nil {
		return nil, errors.Wrapf(exception.ErrLedgerNoReceipt, "%s tx %s", method, tx.Hash().Hex())
	}
	return receipt, nil
}

func (c *Client) send(ctx context.Context, bc *bind.BoundContract, method string, args ...any) (ledger.Receipt, error) {
	receipt, err := c.transact(ctx, bc, method, args...)
	if err != nil {
		return ledger.Receipt{}, err
	}
	return receiptOf(receipt), nil
}

func (c *Client) call(ctx context.Context, bc *bind.BoundContract, method string, args ...any) ([]any, error) {
	var out []any
	opts := &bind.CallOpts{Context: ctx, From: c.auth.From}
	if err := bc.Call(opts, &out, method, args...); err != nil {
		return nil, errors.Wrapf(err, "call %s", method)
	}
	return out, nil
}

func receiptOf(r *types.Receipt) ledger.Receipt {
	out := ledger.Receipt{
		TxHash:  r.TxHash,
		GasUsed: r.GasUsed,
		Success: r.Status == types.ReceiptStatusSuccessful,
	}
	if r.BlockNumber != nil {
		out.BlockNumber = r.BlockNumber.Uint64()
	}
	return out
}
