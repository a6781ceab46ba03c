package initializers

import (
	"math"
	"math/rand"
)

// Xavier returns the Glorot uniform Initializer: weights are drawn uniformly
// from (-b, b) with b = sqrt(6 / (fanIn + fanOut)). It is the usual default
// for layers followed by symmetric activations.
//
// The result of Xavier satisfies sentnet.Initializer.
func Xavier() func(ws []float64, fanIn, fanOut int) {
	return func(ws []float64, fanIn, fanOut int) {
		bound := math.Sqrt(6 / float64(fanIn+fanOut))
		for i := range ws {
			ws[i] = bound * (2*rand.Float64() - 1)
		}
	}
}
