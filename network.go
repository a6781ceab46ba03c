package sentnet

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
)

// setError sets the Network's stored error to the error provided. If
// net.panicErrors is true, setError will additionally panic the error it is
// given.
func (net *Network) setError(e error) {
	net.err = e
	if net.panicErrors {
		panic(e)
	}
}

// PanicErrors makes the Network panic any construction error at the point it
// occurs, instead of storing it for *Network.Error().
func (net *Network) PanicErrors() *Network {
	net.panicErrors = true
	return net
}

// Error returns any errors encountered while constructing the Network. This
// method will always return nil after the Network has been SUCCESSFULLY
// finalized.
func (net *Network) Error() error {
	return net.err
}

// ResetIter resets the Network's tracked number of iterations to the provided
// value. This could be done to bring HyperParameters that are dependent upon
// iterations back to an earlier state. The given value will usually be zero.
// ResetIter will return ErrNegativeIter if the iteration given is less than
// zero.
func (net *Network) ResetIter(iter int) error {
	if iter < 0 {
		return ErrNegativeIter
	}

	net.longIter = iter
	return nil
}

// InputShape returns the expected shape of inputs to the Network. If the
// Network has not been finalized yet, InputShape returns the zero Shape.
func (net *Network) InputShape() Shape {
	if net.stat < finalized {
		return Shape{}
	}

	return net.shapes[0]
}

// OutputSize returns the total number of output values of the Network. If the
// Network has not been finalized yet, OutputSize will return -1.
func (net *Network) OutputSize() int {
	if net.stat < finalized {
		return -1
	}

	return net.shapes[len(net.shapes)-1].Size()
}

// GetOutputs returns the Network's output values for the given inputs,
// without any training side effects. There are several error conditions:
//
//	(0) If the Network has not been finalized: ErrNetNotFinalized,
//	(1) If the input dimensions don't match: type SizeMismatchError.
func (net *Network) GetOutputs(inputs *mat.Dense) ([]float64, error) {
	return net.forwardPass(inputs, false)
}

// DefaultInitializer returns the Initializer applied to the weights of
// ParamLayers that have not been given one of their own. It never returns
// nil.
func (net *Network) DefaultInitializer() Initializer {
	if net.defaultInit == nil {
		return defaultInitializer
	}

	return net.defaultInit
}

// NumParams returns the total number of adjustable weights in the Network,
// or -1 if it has not been finalized.
func (net *Network) NumParams() int {
	if net.stat < finalized {
		return -1
	}

	total := 0
	for _, l := range net.layers {
		if p, ok := l.(ParamLayer); ok {
			total += p.NumParams()
		}
	}

	return total
}

// Summary writes a table of the Network's Layers to w: name, type, output
// shape, and parameter count, followed by the total. The Network must be
// finalized.
func (net *Network) Summary(w io.Writer) error {
	if net.stat < finalized {
		return ErrNetNotFinalized
	}

	fmt.Fprintf(w, "%-20s %-12s %-14s %s\n", "Layer", "Type", "Output Shape", "Params")
	fmt.Fprintf(w, "%s\n", "----------------------------------------------------------")

	for i, l := range net.layers {
		numParams := 0
		if p, ok := l.(ParamLayer); ok {
			numParams = p.NumParams()
		}

		out := net.shapes[i+1]
		fmt.Fprintf(w, "%-20s %-12s %-14s %d\n",
			net.names[i], l.TypeString(), fmt.Sprintf("(%d, %d)", out.Steps, out.Features), numParams)
	}

	fmt.Fprintf(w, "%s\n", "----------------------------------------------------------")
	fmt.Fprintf(w, "Total params: %d\n", net.NumParams())
	return nil
}
