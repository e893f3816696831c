package main

import (
	"context"
	"flag"
	"os"

	"conveyor/internal/audit"
	"conveyor/internal/bus"
	"conveyor/internal/core"
	"conveyor/internal/ingest"
	"conveyor/internal/keeper"
	"conveyor/internal/ledger/eth"
	"conveyor/internal/obs"
	"conveyor/internal/ops"
	"conveyor/internal/sampler"
	"conveyor/internal/vendor"
	"conveyor/pkg/conn"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"
)

func main() {
	if err := run(); err != nil {
		logs.Errorf("conveyor: %+v", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to JSON config")
	envFile := flag.String("env-file", "", "Path to .env file loaded before the environment is read")
	flag.Parse()

	cfg, err := ops.Load(*configPath, *envFile)
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-sys.Shutdown():
			logs.Info("shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
	}()

	stopProfiling, err := startProfiling(cfg.Profiling)
	if err != nil {
		return err
	}
	defer stopProfiling()

	client, err := eth.Dial(ctx, cfg.Ledger)
	if err != nil {
		return errors.Wrap(err, "connect ledger")
	}
	defer client.Close()
	logs.Infof("ledger connected, rpc: %s, signer: %s", cfg.Ledger.RPCURL, client.Signer().Hex())

	smp, err := newSampler(cfg.Seed)
	if err != nil {
		return err
	}

	sinks := audit.Fanout{audit.LogSink{}}
	if cfg.Audit.Enabled() {
		db, err := conn.Open(ctx, cfg.Audit, &audit.OrderAudit{})
		if err != nil {
			return errors.Wrap(err, "open audit database")
		}
		defer func() { _ = db.Close() }()
		sinks = append(sinks, audit.NewPostgresSink(db.DB()))
	}

	v := vendor.New(client, smp, cfg.Vendor)
	if err := v.Setup(ctx, cfg.MarketSize); err != nil {
		return errors.Wrap(err, "vendor setup")
	}
	k := keeper.New(client, smp, sinks, cfg.Keeper)
	if err := k.Setup(ctx, v.Assets(), cfg.IndexSize); err != nil {
		return errors.Wrap(err, "keeper setup")
	}

	metrics := obs.NewMetrics()
	defer func() { logs.Infof("metrics: %s", metrics.Snapshot()) }()

	d := core.NewDispatcher(k, v, metrics)
	src := ingest.NewSource(client, k.Vault())
	return core.Run(ctx, src, bus.NewQueue(), d)
}

func newSampler(seed uint64) (*sampler.Random, error) {
	if seed != 0 {
		return sampler.New(seed), nil
	}
	return sampler.NewSeeded()
}
