package hyperparams

import (
	"math"
)

type step struct {
	initial float64
	every   int
	factor  float64
}

// Step returns a HyperParameter that starts at 'initial' and is multiplied by
// 'factor' once every 'every' iterations. A factor below 1 gives the usual
// staircase decay.
//
// The result of Step implements sentnet.HyperParameter.
func Step(initial float64, every int, factor float64) *step {
	return &step{initial: initial, every: every, factor: factor}
}

func (s *step) TypeString() string {
	return "step"
}

func (s *step) Value(iter int) float64 {
	if s.every < 1 {
		return s.initial
	}

	return s.initial * math.Pow(s.factor, float64(iter/s.every))
}
