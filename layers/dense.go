package layers

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	sn "github.com/mwelland/sentnet"
)

type dense struct {
	Out int `json:"out"`
	In  int `json:"in,omitempty"`

	// Weights is Out x In, row-major; Biases has one value per output.
	Weights []float64 `json:"weights,omitempty"`
	Biases  []float64 `json:"biases,omitempty"`

	init   sn.Initializer
	wGrads []float64
	bGrads []float64
	lastIn *mat.Dense
}

// Dense returns a fully connected layer with the given number of outputs and
// a bias per output. It is applied independently to each time step: inputs of
// shape (T, in) produce outputs of shape (T, out).
//
// The result of Dense implements sentnet.ParamLayer.
func Dense(out int) *dense {
	return &dense{Out: out}
}

func (d *dense) TypeString() string {
	return "dense"
}

// Init overrides the Initializer for the layer's weights.
func (d *dense) Init(init sn.Initializer) {
	d.init = init
}

func (d *dense) OutShape(in sn.Shape) (sn.Shape, error) {
	if d.Out < 1 {
		return sn.Shape{}, errors.Errorf("Dense must have out >= 1 (%d)", d.Out)
	}

	return sn.Shape{Steps: in.Steps, Features: d.Out}, nil
}

func (d *dense) Finalize(net *sn.Network, in sn.Shape) error {
	if d.In != 0 && d.In != in.Features {
		return errors.Errorf("Dense was built for %d inputs per step, input has %d", d.In, in.Features)
	}
	d.In = in.Features

	if len(d.Weights) != d.Out*d.In {
		d.Weights = make([]float64, d.Out*d.In)

		init := d.init
		if init == nil {
			init = net.DefaultInitializer()
		}
		init(d.Weights, d.In, d.Out)
	}

	if len(d.Biases) != d.Out {
		d.Biases = make([]float64, d.Out)
	}

	d.wGrads = make([]float64, d.Out*d.In)
	d.bGrads = make([]float64, d.Out)
	return nil
}

func (d *dense) Forward(x *mat.Dense, training bool) (*mat.Dense, error) {
	steps, _ := x.Dims()

	w := mat.NewDense(d.Out, d.In, d.Weights)
	y := mat.NewDense(steps, d.Out, nil)
	y.Mul(x, w.T())

	for t := 0; t < steps; t++ {
		for o := 0; o < d.Out; o++ {
			y.Set(t, o, y.At(t, o)+d.Biases[o])
		}
	}

	d.lastIn = x
	return y, nil
}

func (d *dense) Backward(grad *mat.Dense) (*mat.Dense, error) {
	if d.lastIn == nil {
		return nil, errors.Errorf("Backward called before Forward")
	}

	steps, _ := grad.Dims()

	// dW += grad^T * x, written directly into the accumulated gradients
	var dw mat.Dense
	dw.Mul(grad.T(), d.lastIn)
	wg := mat.NewDense(d.Out, d.In, d.wGrads)
	wg.Add(wg, &dw)

	for o := 0; o < d.Out; o++ {
		for t := 0; t < steps; t++ {
			d.bGrads[o] += grad.At(t, o)
		}
	}

	w := mat.NewDense(d.Out, d.In, d.Weights)
	dx := mat.NewDense(steps, d.In, nil)
	dx.Mul(grad, w)

	return dx, nil
}

func (d *dense) NumParams() int {
	return d.Out*d.In + d.Out
}

func (d *dense) Adjust(opt sn.Optimizer, learningRate, scale float64) error {
	// first run on weights, then biases
	{
		grad := func(i int) float64 {
			return scale * d.wGrads[i]
		}
		add := func(i int, v float64) {
			d.Weights[i] += v
		}

		if err := opt.Run(d, "weights", len(d.Weights), grad, add, learningRate); err != nil {
			return errors.Wrapf(err, "Running optimizer on weights failed")
		}
	}

	{
		grad := func(i int) float64 {
			return scale * d.bGrads[i]
		}
		add := func(i int, v float64) {
			d.Biases[i] += v
		}

		if err := opt.Run(d, "biases", len(d.Biases), grad, add, learningRate); err != nil {
			return errors.Wrapf(err, "Running optimizer on biases failed")
		}
	}

	return nil
}

func (d *dense) ZeroGrads() {
	for i := range d.wGrads {
		d.wGrads[i] = 0
	}
	for i := range d.bGrads {
		d.bGrads[i] = 0
	}
}
