package costfuncs

import (
	"math"
)

// probabilities are clamped this far away from 0 and 1 before the logs
const bceEpsilon = 1e-7

type binaryCrossEntropy int8

// BinaryCrossEntropy returns the cross-entropy loss for independent binary
// targets against probability outputs, averaged over the outputs. Outputs are
// clamped to [epsilon, 1-epsilon] so the cost stays finite.
//
// The result of BinaryCrossEntropy implements sentnet.CostFunction.
func BinaryCrossEntropy() binaryCrossEntropy {
	return binaryCrossEntropy(0)
}

func (c binaryCrossEntropy) TypeString() string {
	return "binary-cross-entropy"
}

func clamp(p float64) float64 {
	if p < bceEpsilon {
		return bceEpsilon
	} else if p > 1-bceEpsilon {
		return 1 - bceEpsilon
	}

	return p
}

func (c binaryCrossEntropy) Cost(outs, targets []float64) float64 {
	var sum float64
	for i := range outs {
		p := clamp(outs[i])
		sum -= targets[i]*math.Log(p) + (1-targets[i])*math.Log(1-p)
	}

	return sum / float64(len(outs))
}

func (c binaryCrossEntropy) Derivs(outs, targets []float64) []float64 {
	ds := make([]float64, len(outs))
	for i := range outs {
		p := clamp(outs[i])
		ds[i] = (p - targets[i]) / (p * (1 - p) * float64(len(outs)))
	}

	return ds
}
