package ledger

import (
	"testing"

	"conveyor/pkg/exception"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/yanun0323/errors"
)

func TestConfirm(t *testing.T) {
	ok := Receipt{TxHash: common.HexToHash("0x01"), Success: true}
	require.NoError(t, Confirm(OpSubmitVote, ok, nil))

	reverted := Receipt{TxHash: common.HexToHash("0x02")}
	err := Confirm(OpSubmitVote, reverted, nil)
	require.ErrorIs(t, err, exception.ErrLedgerReverted)
	require.Contains(t, err.Error(), OpSubmitVote)

	transport := errors.New("dial tcp: connection refused")
	err = Confirm(OpSubmitSupply, ok, transport)
	require.ErrorIs(t, err, transport)
	require.Contains(t, err.Error(), OpSubmitSupply)
}
