package ops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"conveyor/internal/model"
	"conveyor/internal/sampler"
	"conveyor/pkg/exception"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey        = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testCastle     = "0x00000000000000000000000000000000000000c0"
	testCustody    = "0x00000000000000000000000000000000000000c1"
	testCollateral = "0x00000000000000000000000000000000000000c2"
)

// clearEnv registers every key for restore and leaves it unset.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

var envKeys = []string{
	"RPC_URL", "PRIVATE_KEY", "POLL_INTERVAL", "CASTLE_ADDRESS", "CUSTODY_ADDRESS",
	"COLLATERAL_ADDRESS", "VENDOR_ID", "INDEX_ID", "MARKET_SIZE", "INDEX_SIZE",
	"CHUNK_SIZE", "FIRST_ASSET", "SAMPLER_SEED", "INDEX_NAME", "INDEX_SYMBOL",
	"MAX_ORDER_SIZE", "AUDIT_DSN", "PYROSCOPE_SERVER_ADDRESS", "PYROSCOPE_APPLICATION_NAME",
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PRIVATE_KEY", testKey)
	t.Setenv("CASTLE_ADDRESS", testCastle)
	t.Setenv("CUSTODY_ADDRESS", testCustody)
	t.Setenv("COLLATERAL_ADDRESS", testCollateral)
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, envKeys...)
	setRequired(t)

	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8547", cfg.Ledger.RPCURL)
	assert.Equal(t, 2*time.Second, cfg.Ledger.PollInterval)
	assert.Equal(t, common.HexToAddress(testCastle), cfg.Ledger.Castle)
	assert.Equal(t, model.ID(1), cfg.Vendor.VendorID)
	assert.Equal(t, model.ID(1001), cfg.Keeper.IndexID)
	assert.Equal(t, model.ID(1), cfg.Keeper.VendorID)
	assert.Equal(t, 5, cfg.MarketSize)
	assert.Equal(t, 3, cfg.IndexSize)
	assert.Equal(t, 500, cfg.Vendor.ChunkSize)
	assert.Equal(t, "10000", cfg.Keeper.MaxOrderSize.String())
	assert.False(t, cfg.Audit.Enabled())
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t, envKeys...)
	setRequired(t)
	t.Setenv("INDEX_SIZE", "4")
	t.Setenv("AUDIT_DSN", "postgres://conveyor@localhost:5432/audit")

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"rpcUrl": "http://node:8545",
		"pollInterval": "500ms",
		"marketSize": 1200,
		"indexSize": 2,
		"chunkSize": 250,
		"indexId": "340282366920938463463374607431768211455",
		"index": {"name": "Alpha", "maxOrderSize": "12.5"},
		"bounds": {"weight": {"low": 5, "high": 9, "scale": 1}}
	}`), 0o600))

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "http://node:8545", cfg.Ledger.RPCURL)
	assert.Equal(t, 500*time.Millisecond, cfg.Ledger.PollInterval)
	assert.Equal(t, 1200, cfg.MarketSize)
	assert.Equal(t, 4, cfg.IndexSize)
	assert.Equal(t, 250, cfg.Vendor.ChunkSize)
	assert.Equal(t, "340282366920938463463374607431768211455", cfg.Keeper.IndexID.Dec())
	assert.Equal(t, "Alpha", cfg.Keeper.Name)
	assert.Equal(t, "12.5", cfg.Keeper.MaxOrderSize.String())
	assert.Equal(t, sampler.Bound{Low: 5, High: 9, Scale: 1}, cfg.Keeper.WeightBound)
	assert.Equal(t, sampler.Bound{Low: 1, High: 50, Scale: 2}, cfg.Vendor.Margin)
	assert.True(t, cfg.Audit.Enabled())
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t, envKeys...)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"PRIVATE_KEY="+testKey+"\n"+
			"CASTLE_ADDRESS="+testCastle+"\n"+
			"CUSTODY_ADDRESS="+testCustody+"\n"+
			"COLLATERAL_ADDRESS="+testCollateral+"\n"+
			"VENDOR_ID=7\n"), 0o600))

	cfg, err := Load("", path)
	require.NoError(t, err)
	assert.Equal(t, model.ID(7), cfg.Vendor.VendorID)
	assert.Equal(t, testKey, cfg.Ledger.PrivateKey)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t, envKeys...)
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), "")
	require.Error(t, err)
}

func validFileConfig() FileConfig {
	cfg := Default()
	cfg.PrivateKey = testKey
	cfg.Castle = testCastle
	cfg.Custody = testCustody
	cfg.Collateral = testCollateral
	return cfg
}

func TestResolveRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*FileConfig)
		want   error
	}{
		{"missing key", func(c *FileConfig) { c.PrivateKey = "0x" }, exception.ErrConfigMissingKey},
		{"zero castle", func(c *FileConfig) { c.Castle = "0x0000000000000000000000000000000000000000" }, exception.ErrConfigMissingAddress},
		{"bad custody", func(c *FileConfig) { c.Custody = "custody" }, exception.ErrConfigMissingAddress},
		{"zero chunk", func(c *FileConfig) { c.ChunkSize = 0 }, exception.ErrConfigInvalidSize},
		{"index too large", func(c *FileConfig) { c.IndexSize = 6 }, exception.ErrConfigInvalidSize},
		{"index id over 128 bits", func(c *FileConfig) { c.IndexID = "340282366920938463463374607431768211456" }, exception.ErrConfigInvalidID},
		{"vendor id not decimal", func(c *FileConfig) { c.VendorID = "0x01" }, exception.ErrConfigInvalidID},
		{"asset labels overflow", func(c *FileConfig) { c.FirstAsset = "340282366920938463463374607431768211455" }, exception.ErrConfigInvalidID},
		{"reversed bound", func(c *FileConfig) { c.Bounds.Price = sampler.Bound{Low: 9, High: 1} }, exception.ErrConfigInvalidBound},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := validFileConfig()
			c.mutate(&cfg)
			_, err := cfg.Resolve()
			require.ErrorIs(t, err, c.want)
		})
	}
}
