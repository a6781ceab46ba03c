package costfuncs

type mse int8

// MSE returns the standard squared error function, averaged over the
// outputs. The result of MSE implements sentnet.CostFunction.
func MSE() mse {
	return mse(0)
}

func (c mse) TypeString() string {
	return "mse"
}

func (c mse) Cost(outs, targets []float64) float64 {
	var sum float64
	for i := range outs {
		d := outs[i] - targets[i]
		sum += d * d
	}

	return sum / float64(len(outs))
}

func (c mse) Derivs(outs, targets []float64) []float64 {
	ds := make([]float64, len(outs))
	for i := range outs {
		ds[i] = 2 * (outs[i] - targets[i]) / float64(len(outs))
	}

	return ds
}
