package main

import (
	"conveyor/internal/ops"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

type profileLogger struct{}

func (profileLogger) Infof(string, ...any)  {}
func (profileLogger) Debugf(string, ...any) {}
func (profileLogger) Errorf(format string, args ...any) {
	logs.Errorf("pyroscope: "+format, args...)
}

func startProfiling(cfg ops.ProfilingConfig) (func(), error) {
	if cfg.ServerAddress == "" {
		return func() {}, nil
	}
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ApplicationName,
		ServerAddress:   cfg.ServerAddress,
		Logger:          profileLogger{},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "start pyroscope")
	}
	logs.Infof("profiling enabled, server: %s", cfg.ServerAddress)
	return func() { _ = profiler.Stop() }, nil
}
