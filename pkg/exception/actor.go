package exception

import "github.com/yanun0323/errors"

// Keeper and vendor errors
var (
	ErrKeeperVaultNotProvisioned = errors.New("keeper: vault not provisioned")
	ErrKeeperIndexTooLarge       = errors.New("keeper: index size exceeds market assets")
	ErrVendorDemandMismatch      = errors.New("vendor: demand length mismatch")
	ErrVendorNotSetup            = errors.New("vendor: asset universe not set up")
	ErrSamplerBounds             = errors.New("sampler: invalid bound")
	ErrSamplerPickSize           = errors.New("sampler: pick size exceeds population")
)
