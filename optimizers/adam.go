package optimizers

import (
	"math"

	"github.com/pkg/errors"

	sn "github.com/mwelland/sentnet"
)

type adamCache struct {
	m, v []float64
	t    int
}

type adamKey struct {
	l     sn.Layer
	group string
}

type adam struct {
	beta1, beta2, eps float64

	caches map[adamKey]*adamCache
}

// Adam returns the adaptive moment estimation optimizer with the usual
// defaults: beta1 0.9, beta2 0.999, epsilon 1e-8. Per-weight moment caches
// are kept for each (layer, weight group) pair the optimizer is run on, and
// are sized lazily on first use.
//
// The result of Adam implements sentnet.Optimizer.
func Adam() *adam {
	return &adam{
		beta1:  0.9,
		beta2:  0.999,
		eps:    1e-8,
		caches: make(map[adamKey]*adamCache),
	}
}

// Betas overrides the decay rates of the first and second moment estimates,
// returning the same Optimizer.
func (a *adam) Betas(beta1, beta2 float64) *adam {
	a.beta1, a.beta2 = beta1, beta2
	return a
}

func (a *adam) TypeString() string {
	return "adam"
}

func (a *adam) Run(l sn.Layer, group string, size int, grad func(int) float64, add func(int, float64), learningRate float64) error {
	key := adamKey{l, group}
	cache := a.caches[key]
	if cache == nil {
		cache = &adamCache{
			m: make([]float64, size),
			v: make([]float64, size),
		}
		a.caches[key] = cache
	} else if len(cache.m) != size {
		return errors.Errorf("Weight group %q changed size (%d != %d)", group, size, len(cache.m))
	}

	cache.t++
	mCorr := 1 - math.Pow(a.beta1, float64(cache.t))
	vCorr := 1 - math.Pow(a.beta2, float64(cache.t))

	for i := 0; i < size; i++ {
		g := grad(i)

		cache.m[i] = a.beta1*cache.m[i] + (1-a.beta1)*g
		cache.v[i] = a.beta2*cache.v[i] + (1-a.beta2)*g*g

		mHat := cache.m[i] / mCorr
		vHat := cache.v[i] / vCorr

		add(i, -1*learningRate*mHat/(math.Sqrt(vHat)+a.eps))
	}

	return nil
}
