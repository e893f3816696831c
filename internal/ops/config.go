package ops

import (
	"os"
	"strings"
	"time"

	"conveyor/internal/keeper"
	"conveyor/internal/ledger/eth"
	"conveyor/internal/sampler"
	"conveyor/internal/vendor"
	"conveyor/pkg/conn"
	"conveyor/pkg/exception"

	"github.com/bytedance/sonic"
	"github.com/caarlos0/env/v11"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
)

// FileConfig mirrors the JSON config layout. Fields with an env tag can be
// overridden from the environment.
type FileConfig struct {
	RPCURL       string   `json:"rpcUrl" env:"RPC_URL"`
	PrivateKey   string   `json:"privateKey" env:"PRIVATE_KEY"`
	PollInterval Duration `json:"pollInterval" env:"POLL_INTERVAL"`

	Castle     string `json:"castleAddress" env:"CASTLE_ADDRESS"`
	Custody    string `json:"custodyAddress" env:"CUSTODY_ADDRESS"`
	Collateral string `json:"collateralAddress" env:"COLLATERAL_ADDRESS"`

	VendorID   string `json:"vendorId" env:"VENDOR_ID"`
	IndexID    string `json:"indexId" env:"INDEX_ID"`
	MarketSize int    `json:"marketSize" env:"MARKET_SIZE"`
	IndexSize  int    `json:"indexSize" env:"INDEX_SIZE"`
	ChunkSize  int    `json:"chunkSize" env:"CHUNK_SIZE"`
	FirstAsset string `json:"firstAsset" env:"FIRST_ASSET"`
	Seed       uint64 `json:"seed" env:"SAMPLER_SEED"`

	Index     IndexConfig     `json:"index"`
	Bounds    BoundsConfig    `json:"bounds"`
	Audit     conn.Option     `json:"audit"`
	Profiling ProfilingConfig `json:"profiling"`
}

// IndexConfig is the registry entry submitted by the keeper.
type IndexConfig struct {
	Name         string `json:"name" env:"INDEX_NAME"`
	Symbol       string `json:"symbol" env:"INDEX_SYMBOL"`
	Description  string `json:"description"`
	Methodology  string `json:"methodology"`
	MaxOrderSize string `json:"maxOrderSize" env:"MAX_ORDER_SIZE"`
}

// BoundsConfig holds the ranges every random amount is drawn from.
type BoundsConfig struct {
	Weight    sampler.Bound `json:"weight"`
	Margin    sampler.Bound `json:"margin"`
	Price     sampler.Bound `json:"price"`
	Slope     sampler.Bound `json:"slope"`
	Liquidity sampler.Bound `json:"liquidity"`
}

// ProfilingConfig enables continuous profiling when ServerAddress is set.
type ProfilingConfig struct {
	ServerAddress   string `json:"serverAddress" env:"PYROSCOPE_SERVER_ADDRESS"`
	ApplicationName string `json:"applicationName" env:"PYROSCOPE_APPLICATION_NAME"`
}

// Duration accepts "2s" style values in both JSON and the environment.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "parse duration %q", text)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Ledger     eth.Option
	Keeper     keeper.Config
	Vendor     vendor.Config
	MarketSize int
	IndexSize  int
	Seed       uint64
	Audit      conn.Option
	Profiling  ProfilingConfig
}

// Default returns the compiled defaults.
func Default() FileConfig {
	return FileConfig{
		RPCURL:       "http://localhost:8547",
		PollInterval: Duration(2 * time.Second),
		VendorID:     "1",
		IndexID:      "1001",
		MarketSize:   5,
		IndexSize:    3,
		ChunkSize:    500,
		FirstAsset:   "1",
		Index: IndexConfig{
			Name:         "Conveyor Index",
			Symbol:       "CIX",
			Description:  "Index maintained by the conveyor",
			Methodology:  "Random constituents with random weights",
			MaxOrderSize: "10000",
		},
		Bounds: BoundsConfig{
			Weight:    sampler.Bound{Low: 1, High: 100, Scale: 2},
			Margin:    sampler.Bound{Low: 1, High: 50, Scale: 2},
			Price:     sampler.Bound{Low: 100, High: 100_000, Scale: 2},
			Slope:     sampler.Bound{Low: 1, High: 100, Scale: 4},
			Liquidity: sampler.Bound{Low: 1_000, High: 1_000_000, Scale: 0},
		},
		Profiling: ProfilingConfig{ApplicationName: "conveyor"},
	}
}

// Load resolves the configuration: defaults, then envFile (when set), then
// the JSON file at path (when set), then environment overrides.
func Load(path, envFile string) (Loaded, error) {
	cfg := Default()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Loaded{}, errors.Wrapf(err, "load env file %s", envFile)
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Loaded{}, errors.Wrapf(err, "read config %s", path)
		}
		if err := sonic.Unmarshal(data, &cfg); err != nil {
			return Loaded{}, errors.Wrapf(err, "decode config %s", path)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Loaded{}, errors.Wrap(err, "parse env")
	}

	return cfg.Resolve()
}

// Resolve validates cfg and converts it to typed values.
func (cfg FileConfig) Resolve() (Loaded, error) {
	if strings.TrimPrefix(cfg.PrivateKey, "0x") == "" {
		return Loaded{}, exception.ErrConfigMissingKey
	}

	castle, err := address("castle", cfg.Castle)
	if err != nil {
		return Loaded{}, err
	}
	custody, err := address("custody", cfg.Custody)
	if err != nil {
		return Loaded{}, err
	}
	collateral, err := address("collateral", cfg.Collateral)
	if err != nil {
		return Loaded{}, err
	}

	if cfg.MarketSize <= 0 || cfg.IndexSize <= 0 || cfg.ChunkSize <= 0 {
		return Loaded{}, errors.Wrapf(exception.ErrConfigInvalidSize,
			"market: %d, index: %d, chunk: %d", cfg.MarketSize, cfg.IndexSize, cfg.ChunkSize)
	}
	if cfg.IndexSize > cfg.MarketSize {
		return Loaded{}, errors.Wrapf(exception.ErrConfigInvalidSize,
			"index size %d exceeds market size %d", cfg.IndexSize, cfg.MarketSize)
	}

	bounds := map[string]sampler.Bound{
		"weight":    cfg.Bounds.Weight,
		"margin":    cfg.Bounds.Margin,
		"price":     cfg.Bounds.Price,
		"slope":     cfg.Bounds.Slope,
		"liquidity": cfg.Bounds.Liquidity,
	}
	for name, b := range bounds {
		if err := b.Validate(); err != nil {
			return Loaded{}, errors.Wrapf(exception.ErrConfigInvalidBound, "%s: %v", name, err)
		}
	}

	vendorID, err := parseID("vendor id", cfg.VendorID)
	if err != nil {
		return Loaded{}, err
	}
	indexID, err := parseID("index id", cfg.IndexID)
	if err != nil {
		return Loaded{}, err
	}
	firstAsset, err := parseID("first asset", cfg.FirstAsset)
	if err != nil {
		return Loaded{}, err
	}
	var lastAsset uint256.Int
	lastAsset.AddUint64(&firstAsset, uint64(cfg.MarketSize-1))
	if lastAsset.BitLen() > 128 {
		return Loaded{}, errors.Wrapf(exception.ErrConfigInvalidID,
			"asset labels from %s overflow 128 bits", firstAsset.Dec())
	}

	maxOrder, err := decimal.NewFromString(cfg.Index.MaxOrderSize)
	if err != nil {
		return Loaded{}, errors.Wrapf(err, "max order size %q", cfg.Index.MaxOrderSize)
	}

	return Loaded{
		Ledger: eth.Option{
			RPCURL:       cfg.RPCURL,
			PrivateKey:   cfg.PrivateKey,
			Castle:       castle,
			PollInterval: time.Duration(cfg.PollInterval),
		},
		Keeper: keeper.Config{
			IndexID:      indexID,
			VendorID:     vendorID,
			Custody:      custody,
			Collateral:   collateral,
			MaxOrderSize: maxOrder,
			WeightBound:  cfg.Bounds.Weight,
			Name:         cfg.Index.Name,
			Symbol:       cfg.Index.Symbol,
			Description:  cfg.Index.Description,
			Methodology:  cfg.Index.Methodology,
		},
		Vendor: vendor.Config{
			VendorID:   vendorID,
			ChunkSize:  cfg.ChunkSize,
			FirstAsset: firstAsset,
			Margin:     cfg.Bounds.Margin,
			Price:      cfg.Bounds.Price,
			Slope:      cfg.Bounds.Slope,
			Liquidity:  cfg.Bounds.Liquidity,
		},
		MarketSize: cfg.MarketSize,
		IndexSize:  cfg.IndexSize,
		Seed:       cfg.Seed,
		Audit:      cfg.Audit,
		Profiling:  cfg.Profiling,
	}, nil
}

// parseID reads a decimal identifier that must fit in 128 bits.
func parseID(name, dec string) (uint256.Int, error) {
	v, err := uint256.FromDecimal(strings.TrimSpace(dec))
	if err != nil {
		return uint256.Int{}, errors.Wrapf(exception.ErrConfigInvalidID, "%s %q: %v", name, dec, err)
	}
	if v.BitLen() > 128 {
		return uint256.Int{}, errors.Wrapf(exception.ErrConfigInvalidID, "%s %s exceeds 128 bits", name, dec)
	}
	return *v, nil
}

func address(name, hex string) (common.Address, error) {
	if !common.IsHexAddress(hex) {
		return common.Address{}, errors.Wrapf(exception.ErrConfigMissingAddress, "%s: %q", name, hex)
	}
	addr := common.HexToAddress(hex)
	if addr == (common.Address{}) {
		return common.Address{}, errors.Wrapf(exception.ErrConfigMissingAddress, "%s is zero", name)
	}
	return addr, nil
}
