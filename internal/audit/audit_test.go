package audit

import (
	"context"
	"testing"
	"time"

	"conveyor/internal/model"

	"github.com/bytedance/sonic"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	records []Record
	err     error
}

func (s *recordingSink) Write(_ context.Context, r Record) error {
	s.records = append(s.records, r)
	return s.err
}

func sampleRecord() Record {
	return Record{
		Source:   SourcePending,
		IndexID:  "1001",
		VendorID: "1",
		Vault:    common.HexToAddress("0x00000000000000000000000000000000000000fa"),
		Trader:   common.HexToAddress("0x00000000000000000000000000000000000000bb"),
		Order: model.OrderRecord{
			Collateral: model.NewAmount(1500, 1),
			Spent:      model.NewAmount(20, 0),
			Minted:     model.NewAmount(3, 0),
			Locked:     model.NewAmount(0, 0),
			Burned:     model.NewAmount(0, 0),
			Withdraw:   model.NewAmount(1, 2),
		},
		ObservedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestFanoutContinuesPastFailingSink(t *testing.T) {
	failing := &recordingSink{err: assert.AnError}
	ok := &recordingSink{}
	require.NoError(t, Fanout{failing, ok}.Write(t.Context(), sampleRecord()))
	assert.Len(t, failing.records, 1)
	assert.Len(t, ok.records, 1)
}

func TestLogSinkWrites(t *testing.T) {
	require.NoError(t, LogSink{}.Write(t.Context(), sampleRecord()))
}

func TestRecordJSON(t *testing.T) {
	payload, err := sonic.ConfigFastest.Marshal(sampleRecord())
	require.NoError(t, err)
	s := string(payload)
	assert.Contains(t, s, `"source":"pending"`)
	assert.Contains(t, s, `"Collateral":"150"`)
	assert.Contains(t, s, `"indexId":"1001"`)
}

func TestRowOf(t *testing.T) {
	row := rowOf(sampleRecord())
	assert.Equal(t, "pending", row.Source)
	assert.Equal(t, "150", row.Collateral)
	assert.Equal(t, "0.01", row.Withdraw)
	assert.Equal(t, common.HexToAddress("0xbb").Hex(), row.Trader)
}
