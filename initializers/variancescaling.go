package initializers

import (
	"math"
	"math/rand"
)

// VarianceScaling returns an Initializer that scales a uniform sample so the
// weights have variance factor/fanIn: weights are drawn uniformly from
// (-b, b) with b = sqrt(3 * factor / fanIn). With factor 1 this is the
// "LeCun uniform" scheme.
//
// The result of VarianceScaling satisfies sentnet.Initializer.
func VarianceScaling(factor float64) func(ws []float64, fanIn, fanOut int) {
	return func(ws []float64, fanIn, fanOut int) {
		bound := math.Sqrt(3 * factor / float64(fanIn))
		for i := range ws {
			ws[i] = bound * (2*rand.Float64() - 1)
		}
	}
}
