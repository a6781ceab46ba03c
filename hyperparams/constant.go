package hyperparams

type constant float64

// Constant returns a HyperParameter whose value never changes.
//
// The result of Constant implements sentnet.HyperParameter.
func Constant(value float64) constant {
	return constant(value)
}

func (c constant) TypeString() string {
	return "constant"
}

func (c constant) Value(iter int) float64 {
	return float64(c)
}
