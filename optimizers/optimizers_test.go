package optimizers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	sn "github.com/mwelland/sentnet"
)

// stub satisfies sn.Layer so optimizers have something to key their caches
// on; none of its methods are ever called here.
type stub struct{}

func (s *stub) TypeString() string                                      { return "stub" }
func (s *stub) OutShape(in sn.Shape) (sn.Shape, error)                  { return in, nil }
func (s *stub) Finalize(net *sn.Network, in sn.Shape) error             { return nil }
func (s *stub) Forward(x *mat.Dense, training bool) (*mat.Dense, error) { return x, nil }
func (s *stub) Backward(grad *mat.Dense) (*mat.Dense, error)            { return grad, nil }

func TestSGDStep(t *testing.T) {
	x := []float64{1, -1}
	grads := []float64{0.5, 2}

	err := SGD().Run(new(stub), "x", 2,
		func(i int) float64 { return grads[i] },
		func(i int, v float64) { x[i] += v },
		0.2)
	require.NoError(t, err)

	assert.InDelta(t, 0.9, x[0], 1e-12)
	assert.InDelta(t, -1.4, x[1], 1e-12)
}

func TestAdamMinimizesQuadratic(t *testing.T) {
	l := new(stub)
	a := Adam()

	x := 3.0
	for i := 0; i < 1000; i++ {
		err := a.Run(l, "x", 1,
			func(int) float64 { return 2 * x },
			func(_ int, v float64) { x += v },
			0.05)
		require.NoError(t, err)
	}

	assert.InDelta(t, 0, x, 0.05)
}

func TestAdamFirstStepIsLearningRate(t *testing.T) {
	// with bias correction, the very first update is -lr * sign(grad)
	x := 0.0
	err := Adam().Run(new(stub), "x", 1,
		func(int) float64 { return 42.0 },
		func(_ int, v float64) { x += v },
		0.01)
	require.NoError(t, err)

	assert.InDelta(t, -0.01, x, 1e-6)
}

func TestAdamSeparatesGroups(t *testing.T) {
	l := new(stub)
	a := Adam()

	run := func(group string, grad float64) float64 {
		var moved float64
		err := a.Run(l, group, 1,
			func(int) float64 { return grad },
			func(_ int, v float64) { moved = v },
			0.1)
		require.NoError(t, err)
		return moved
	}

	run("a", 1)
	run("a", 1)

	// a fresh group starts from empty moment estimates, so its first step
	// matches the learning rate exactly
	first := run("b", 5)
	assert.InDelta(t, -0.1, first, 1e-6)
}

func TestAdamRejectsSizeChange(t *testing.T) {
	l := new(stub)
	a := Adam()

	noop := func(int, float64) {}
	zero := func(int) float64 { return 0 }

	require.NoError(t, a.Run(l, "x", 2, zero, noop, 0.1))
	assert.Error(t, a.Run(l, "x", 3, zero, noop, 0.1))
}

func TestAdamBetas(t *testing.T) {
	a := Adam().Betas(0.5, 0.75)
	assert.Equal(t, 0.5, a.beta1)
	assert.Equal(t, 0.75, a.beta2)
	assert.False(t, math.IsNaN(a.eps))
}
