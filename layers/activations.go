// activations.go contains the elementwise activation Layers: Sigmoid, Tanh,
// and ReLU. They change no shapes and have no weights.

package layers

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	sn "github.com/mwelland/sentnet"
)

// sigmoidOf computes the logistic function through tanh, which is more
// stable for large negative inputs than the direct form.
func sigmoidOf(v float64) float64 {
	return 0.5 + 0.5*math.Tanh(0.5*v)
}

// ****************************************
// Sigmoid
// ****************************************

type sigmoid struct {
	out *mat.Dense
}

// Sigmoid returns a logistic activation layer, mapping every value into
// (0, 1). The result of Sigmoid implements sentnet.Layer.
func Sigmoid() *sigmoid {
	return new(sigmoid)
}

func (s *sigmoid) TypeString() string {
	return "sigmoid"
}

func (s *sigmoid) OutShape(in sn.Shape) (sn.Shape, error) {
	return in, nil
}

func (s *sigmoid) Finalize(net *sn.Network, in sn.Shape) error {
	return nil
}

func (s *sigmoid) Forward(x *mat.Dense, training bool) (*mat.Dense, error) {
	r, c := x.Dims()
	y := mat.NewDense(r, c, nil)

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			y.Set(i, j, sigmoidOf(x.At(i, j)))
		}
	}

	s.out = y
	return y, nil
}

func (s *sigmoid) Backward(grad *mat.Dense) (*mat.Dense, error) {
	if s.out == nil {
		return nil, errors.Errorf("Backward called before Forward")
	}

	r, c := grad.Dims()
	dx := mat.NewDense(r, c, nil)

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := s.out.At(i, j)
			dx.Set(i, j, grad.At(i, j)*v*(1-v))
		}
	}

	return dx, nil
}

// ****************************************
// Tanh
// ****************************************

type tanh struct {
	out *mat.Dense
}

// Tanh returns a hyperbolic-tangent activation layer, mapping every value
// into (-1, 1). The result of Tanh implements sentnet.Layer.
func Tanh() *tanh {
	return new(tanh)
}

func (t *tanh) TypeString() string {
	return "tanh"
}

func (t *tanh) OutShape(in sn.Shape) (sn.Shape, error) {
	return in, nil
}

func (t *tanh) Finalize(net *sn.Network, in sn.Shape) error {
	return nil
}

func (t *tanh) Forward(x *mat.Dense, training bool) (*mat.Dense, error) {
	r, c := x.Dims()
	y := mat.NewDense(r, c, nil)

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			y.Set(i, j, math.Tanh(x.At(i, j)))
		}
	}

	t.out = y
	return y, nil
}

func (t *tanh) Backward(grad *mat.Dense) (*mat.Dense, error) {
	if t.out == nil {
		return nil, errors.Errorf("Backward called before Forward")
	}

	r, c := grad.Dims()
	dx := mat.NewDense(r, c, nil)

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := t.out.At(i, j)
			dx.Set(i, j, grad.At(i, j)*(1-v*v))
		}
	}

	return dx, nil
}

// ****************************************
// ReLU
// ****************************************

type relu struct {
	in *mat.Dense
}

// ReLU returns the standard rectified linear unit as a standalone layer. The
// result of ReLU implements sentnet.Layer.
func ReLU() *relu {
	return new(relu)
}

func (l *relu) TypeString() string {
	return "relu"
}

func (l *relu) OutShape(in sn.Shape) (sn.Shape, error) {
	return in, nil
}

func (l *relu) Finalize(net *sn.Network, in sn.Shape) error {
	return nil
}

func (l *relu) Forward(x *mat.Dense, training bool) (*mat.Dense, error) {
	r, c := x.Dims()
	y := mat.NewDense(r, c, nil)

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			y.Set(i, j, math.Max(x.At(i, j), 0))
		}
	}

	l.in = x
	return y, nil
}

func (l *relu) Backward(grad *mat.Dense) (*mat.Dense, error) {
	if l.in == nil {
		return nil, errors.Errorf("Backward called before Forward")
	}

	r, c := grad.Dims()
	dx := mat.NewDense(r, c, nil)

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if l.in.At(i, j) > 0 {
				dx.Set(i, j, grad.At(i, j))
			}
		}
	}

	return dx, nil
}
