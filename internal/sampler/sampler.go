// Package sampler generates the random amounts and asset picks the keeper and
// the vendor submit. Every generator owns its source so tests can seed it.
package sampler

import (
	crand "crypto/rand"
	"encoding/binary"
	"math"
	"math/rand/v2"

	"conveyor/internal/model"
	"conveyor/pkg/exception"

	"github.com/yanun0323/errors"
)

// Bound is an inclusive uniform range of mantissas at a fixed scale:
// values are drawn from [Low, High] * 10^-Scale.
type Bound struct {
	Low   uint64 `json:"low"`
	High  uint64 `json:"high"`
	Scale int32  `json:"scale"`
}

// Validate checks that the range is not empty.
func (b Bound) Validate() error {
	if b.Low > b.High {
		return errors.Wrapf(exception.ErrSamplerBounds, "low: %d, high: %d", b.Low, b.High)
	}
	if b.Scale < 0 || b.Scale > model.WireScale {
		return errors.Wrapf(exception.ErrSamplerBounds, "scale: %d", b.Scale)
	}
	return nil
}

// Sampler produces bounded amounts and distinct asset picks.
type Sampler interface {
	// Values draws n independent amounts from b.
	Values(b Bound, n int) model.Vector
	// Pick chooses n distinct labels from assets without replacement and
	// returns them in ascending order.
	Pick(assets model.Labels, n int) (model.Labels, error)
}

// Random is a Sampler backed by a PCG source.
type Random struct {
	rng *rand.Rand
}

var _ Sampler = (*Random)(nil)

// New returns a sampler with a fixed seed. Equal seeds produce equal
// sequences.
func New(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewSeeded returns a sampler seeded from crypto/rand.
func NewSeeded() (*Random, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, errors.Wrap(err, "read random seed")
	}
	return New(binary.LittleEndian.Uint64(b[:])), nil
}

func (r *Random) value(b Bound) model.Amount {
	span := b.High - b.Low
	var m uint64
	if span == math.MaxUint64 {
		m = r.rng.Uint64()
	} else {
		m = b.Low + r.rng.Uint64N(span+1)
	}
	return model.NewAmount(m, b.Scale)
}

func (r *Random) Values(b Bound, n int) model.Vector {
	out := make(model.Vector, n)
	for i := range out {
		out[i] = r.value(b)
	}
	return out
}

func (r *Random) Pick(assets model.Labels, n int) (model.Labels, error) {
	if n < 0 || n > len(assets) {
		return nil, errors.Wrapf(exception.ErrSamplerPickSize, "pick %d of %d", n, len(assets))
	}
	pool := assets.Clone()
	for i := 0; i < n; i++ {
		j := i + r.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n].Sorted(), nil
}
