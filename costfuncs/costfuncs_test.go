package costfuncs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMSE(t *testing.T) {
	c := MSE()

	assert.InDelta(t, 2.5, c.Cost([]float64{1, 3}, []float64{0, 1}), 1e-12)
	assert.InDeltaSlice(t, []float64{1, 2}, c.Derivs([]float64{1, 3}, []float64{0, 1}), 1e-12)
	assert.InDelta(t, 0, c.Cost([]float64{0.5}, []float64{0.5}), 1e-12)
}

func TestBinaryCrossEntropy(t *testing.T) {
	c := BinaryCrossEntropy()

	// maximum uncertainty costs ln 2, regardless of the target
	assert.InDelta(t, math.Ln2, c.Cost([]float64{0.5}, []float64{1}), 1e-12)
	assert.InDelta(t, math.Ln2, c.Cost([]float64{0.5}, []float64{0}), 1e-12)

	// confident and right is nearly free; confident and wrong is expensive
	assert.Less(t, c.Cost([]float64{0.99}, []float64{1}), 0.05)
	assert.Greater(t, c.Cost([]float64{0.01}, []float64{1}), 4.0)

	// the extremes are clamped rather than infinite
	assert.False(t, math.IsInf(c.Cost([]float64{0}, []float64{1}), 0))
	assert.False(t, math.IsInf(c.Cost([]float64{1}, []float64{0}), 0))
}

func TestBinaryCrossEntropyDerivs(t *testing.T) {
	c := BinaryCrossEntropy()

	// (p - t) / (p (1-p) n)
	ds := c.Derivs([]float64{0.8}, []float64{1})
	assert.InDelta(t, -1.25, ds[0], 1e-12)

	ds = c.Derivs([]float64{0.8}, []float64{0})
	assert.InDelta(t, 5.0, ds[0], 1e-12)

	// pushing an output toward its target always has negative slope
	ds = c.Derivs([]float64{0.3, 0.7}, []float64{1, 0})
	assert.Negative(t, ds[0])
	assert.Positive(t, ds[1])
}
