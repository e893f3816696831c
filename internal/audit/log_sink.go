package audit

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

// LogSink renders each record as one JSON log line.
type LogSink struct{}

func (LogSink) Write(_ context.Context, r Record) error {
	payload, err := sonic.ConfigFastest.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "marshal audit record")
	}
	logs.Infof("order record: %s", payload)
	return nil
}
