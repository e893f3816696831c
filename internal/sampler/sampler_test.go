package sampler

import (
	"testing"

	"conveyor/internal/model"
	"conveyor/pkg/exception"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuesStayWithinBound(t *testing.T) {
	s := New(7)
	b := Bound{Low: 10, High: 20, Scale: 2}
	lo, hi := model.NewAmount(10, 2), model.NewAmount(20, 2)

	values := s.Values(b, 500)
	require.Len(t, values, 500)
	for i, v := range values {
		assert.Truef(t, v.GreaterThanOrEqual(lo) && v.LessThanOrEqual(hi), "value %d out of range: %s", i, v)
	}
}

func TestValuesDegenerateBound(t *testing.T) {
	values := New(1).Values(Bound{Low: 42, High: 42}, 3)
	for _, v := range values {
		assert.True(t, v.Equal(model.NewAmount(42, 0)))
	}
}

func TestSameSeedSameSequence(t *testing.T) {
	b := Bound{Low: 1, High: 1_000_000, Scale: 4}
	assert.Equal(t, New(99).Values(b, 16), New(99).Values(b, 16))
}

func TestPickIsSortedDistinctSubset(t *testing.T) {
	assets := model.SequentialLabels(model.ID(1), 50)
	picked, err := New(3).Pick(assets, 10)
	require.NoError(t, err)
	require.Len(t, picked, 10)

	assert.Equal(t, picked.Sorted(), picked)
	seen := make(map[string]struct{})
	for _, id := range picked {
		assert.Contains(t, assets, id)
		_, dup := seen[id.Dec()]
		assert.False(t, dup, "duplicate pick %s", id.Dec())
		seen[id.Dec()] = struct{}{}
	}
	assert.Equal(t, model.SequentialLabels(model.ID(1), 50), assets, "Pick must not reorder its input")
}

func TestPickAll(t *testing.T) {
	assets := model.Labels{model.ID(5), model.ID(1), model.ID(3)}
	picked, err := New(11).Pick(assets, 3)
	require.NoError(t, err)
	assert.Equal(t, model.Labels{model.ID(1), model.ID(3), model.ID(5)}, picked)
}

func TestPickTooMany(t *testing.T) {
	_, err := New(1).Pick(model.SequentialLabels(model.ID(1), 2), 3)
	require.ErrorIs(t, err, exception.ErrSamplerPickSize)
}

func TestBoundValidate(t *testing.T) {
	require.NoError(t, Bound{Low: 1, High: 1}.Validate())
	require.ErrorIs(t, Bound{Low: 2, High: 1}.Validate(), exception.ErrSamplerBounds)
	require.ErrorIs(t, Bound{Low: 1, High: 2, Scale: 19}.Validate(), exception.ErrSamplerBounds)
}

func TestNewSeeded(t *testing.T) {
	s, err := NewSeeded()
	require.NoError(t, err)
	require.Len(t, s.Values(Bound{Low: 1, High: 2}, 2), 2)
}
