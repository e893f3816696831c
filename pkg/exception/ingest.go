package exception

import "github.com/yanun0323/errors"

// Event source errors
var (
	ErrIngestStreamClosed = errors.New("ingest: log stream closed")
	ErrIngestNilWatcher   = errors.New("ingest: nil log watcher")
	ErrIngestNoSignature  = errors.New("ingest: log has no event signature")
	ErrIngestSignature    = errors.New("ingest: event signature mismatch")
	ErrIngestUnknownEvent = errors.New("ingest: unknown event")
)
