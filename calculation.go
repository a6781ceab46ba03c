package sentnet

import (
	"github.com/pkg/errors"

	"gonum.org/v1/gonum/mat"
)

// checkInput validates the dimensions of one sample against the Network's
// input shape.
func (net *Network) checkInput(x *mat.Dense) error {
	if x == nil {
		return NilArgError{"Inputs"}
	}

	r, c := x.Dims()
	if r != net.shapes[0].Steps || c != net.shapes[0].Features {
		return SizeMismatchError{net.shapes[0].Size(), r * c, "inputs"}
	}

	return nil
}

// forwardPass runs one sample through every Layer in order, returning the
// Network's outputs as a flat slice. training is forwarded to each Layer.
func (net *Network) forwardPass(x *mat.Dense, training bool) ([]float64, error) {
	if net.stat < finalized {
		return nil, ErrNetNotFinalized
	}

	if err := net.checkInput(x); err != nil {
		return nil, err
	}

	v := x
	for i, l := range net.layers {
		var err error
		if v, err = l.Forward(v, training); err != nil {
			return nil, errors.Wrapf(err, "Forward pass through layer %q failed", net.names[i])
		}
	}

	return flatten(v), nil
}

// backwardPass distributes the derivatives of the cost function back through
// the stack, in reverse order. Each ParamLayer accumulates its weight
// gradients along the way; they are applied later, by adjust.
func (net *Network) backwardPass(cfDerivs []float64) error {
	out := net.shapes[len(net.shapes)-1]
	if len(cfDerivs) != out.Size() {
		return SizeMismatchError{out.Size(), len(cfDerivs), "cost function derivatives"}
	}

	grad := mat.NewDense(out.Steps, out.Features, cfDerivs)

	for i := len(net.layers) - 1; i >= 0; i-- {
		var err error
		if grad, err = net.layers[i].Backward(grad); err != nil {
			return errors.Wrapf(err, "Backward pass through layer %q failed", net.names[i])
		}
	}

	return nil
}

// adjust applies one optimizer step to every ParamLayer, averaging the
// gradients accumulated since the last step over batchSize samples, then
// clears them.
func (net *Network) adjust(batchSize int) error {
	if batchSize < 1 {
		return errors.Errorf("Can't adjust Network with batch of size %d", batchSize)
	}

	learningRate := net.HP("learning-rate")
	scale := 1 / float64(batchSize)

	for i, l := range net.layers {
		p, ok := l.(ParamLayer)
		if !ok {
			continue
		}

		if err := p.Adjust(net.opt, learningRate, scale); err != nil {
			return errors.Wrapf(err, "Adjusting layer %q failed", net.names[i])
		}

		p.ZeroGrads()
	}

	net.hasSavedChanges = false
	return nil
}

// flatten returns the values of m as a single slice, row-major. The returned
// slice shares no storage with m.
func flatten(m *mat.Dense) []float64 {
	r, c := m.Dims()
	vs := make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			vs[i*c+j] = m.At(i, j)
		}
	}

	return vs
}
