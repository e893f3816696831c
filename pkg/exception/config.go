package exception

import "github.com/yanun0323/errors"

// Configuration errors
var (
	ErrConfigMissingKey     = errors.New("config: missing private key")
	ErrConfigMissingAddress = errors.New("config: missing contract address")
	ErrConfigInvalidSize    = errors.New("config: invalid size")
	ErrConfigInvalidBound   = errors.New("config: invalid sampler bound")
	ErrConfigInvalidID      = errors.New("config: invalid identifier")
)
