package initializers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniform(t *testing.T) {
	ws := make([]float64, 200)
	Uniform(-0.5, 0.5)(ws, 10, 10)

	for _, w := range ws {
		assert.GreaterOrEqual(t, w, -0.5)
		assert.LessOrEqual(t, w, 0.5)
		assert.NotZero(t, w)
	}
}

func TestXavierBounds(t *testing.T) {
	ws := make([]float64, 200)
	Xavier()(ws, 30, 20)

	bound := math.Sqrt(6.0 / 50.0)
	var nonzero bool
	for _, w := range ws {
		assert.LessOrEqual(t, math.Abs(w), bound)
		nonzero = nonzero || w != 0
	}
	assert.True(t, nonzero)
}

func TestVarianceScalingBounds(t *testing.T) {
	ws := make([]float64, 200)
	VarianceScaling(2)(ws, 24, 0)

	bound := math.Sqrt(3.0 * 2.0 / 24.0)
	var nonzero bool
	for _, w := range ws {
		assert.LessOrEqual(t, math.Abs(w), bound)
		nonzero = nonzero || w != 0
	}
	assert.True(t, nonzero)
}
