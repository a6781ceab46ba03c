package initializers

import (
	"math/rand"
)

// Uniform returns an Initializer that draws every weight from a uniform
// random sample within [lower, upper). Zero draws are discarded and redrawn.
//
// The result of Uniform satisfies sentnet.Initializer.
func Uniform(lower, upper float64) func(ws []float64, fanIn, fanOut int) {
	if lower > upper {
		lower, upper = upper, lower
	}

	return func(ws []float64, fanIn, fanOut int) {
		for i := 0; i < len(ws); i++ {
			w := rand.Float64()*(upper-lower) + lower
			if w == 0 {
				// discard and try again
				i--
				continue
			}
			ws[i] = w
		}
	}
}
