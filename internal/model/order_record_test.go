package model

import (
	"testing"

	"conveyor/pkg/exception"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRecordFromVector(t *testing.T) {
	v := Vector{
		NewAmount(100, 0), NewAmount(20, 0), NewAmount(3, 0),
		NewAmount(4, 0), NewAmount(5, 0), NewAmount(6, 0),
	}
	record, err := OrderRecordFromVector(v)
	require.NoError(t, err)
	assert.True(t, record.Collateral.Equal(NewAmount(100, 0)))
	assert.True(t, record.Spent.Equal(NewAmount(20, 0)))
	assert.True(t, record.Minted.Equal(NewAmount(3, 0)))
	assert.True(t, record.Locked.Equal(NewAmount(4, 0)))
	assert.True(t, record.Burned.Equal(NewAmount(5, 0)))
	assert.True(t, record.Withdraw.Equal(NewAmount(6, 0)))
}

func TestOrderRecordFromVectorRejectsWrongLength(t *testing.T) {
	for _, n := range []int{0, 5, 7} {
		v := make(Vector, n)
		_, err := OrderRecordFromVector(v)
		require.ErrorIsf(t, err, exception.ErrOrderRecordLength, "length %d", n)
	}
}
