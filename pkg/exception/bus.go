package exception

import "github.com/yanun0323/errors"

// Queue errors
var (
	ErrQueueClosed = errors.New("bus: queue closed")
)
