package layers

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	sn "github.com/mwelland/sentnet"
)

type embedding struct {
	NumWords int `json:"num_words"`
	Dim      int `json:"dim"`

	// Weights holds one Dim-wide row per token ID, row-major.
	Weights []float64 `json:"weights,omitempty"`

	init    sn.Initializer
	grads   []float64
	lastIDs []int
}

// Embedding returns a table-lookup layer mapping integer token IDs to dense
// vectors of the given dimension. Inputs must have shape (T, 1), with every
// value an integer in [0, numWords); outputs have shape (T, dim).
//
// The result of Embedding implements sentnet.ParamLayer.
func Embedding(numWords, dim int) *embedding {
	return &embedding{NumWords: numWords, Dim: dim}
}

func (e *embedding) TypeString() string {
	return "embedding"
}

// Init overrides the Initializer for the lookup table.
func (e *embedding) Init(init sn.Initializer) {
	e.init = init
}

func (e *embedding) OutShape(in sn.Shape) (sn.Shape, error) {
	if in.Features != 1 {
		return sn.Shape{}, errors.Errorf("Embedding input must have 1 feature per step (has %d)", in.Features)
	}

	return sn.Shape{Steps: in.Steps, Features: e.Dim}, nil
}

func (e *embedding) Finalize(net *sn.Network, in sn.Shape) error {
	if e.NumWords < 1 {
		return errors.Errorf("Embedding must have numWords >= 1 (%d)", e.NumWords)
	} else if e.Dim < 1 {
		return errors.Errorf("Embedding must have dim >= 1 (%d)", e.Dim)
	}

	size := e.NumWords * e.Dim
	if len(e.Weights) != size {
		e.Weights = make([]float64, size)

		init := e.init
		if init == nil {
			init = net.DefaultInitializer()
		}
		init(e.Weights, e.Dim, e.Dim)
	}

	e.grads = make([]float64, size)
	return nil
}

func (e *embedding) Forward(x *mat.Dense, training bool) (*mat.Dense, error) {
	steps, _ := x.Dims()

	y := mat.NewDense(steps, e.Dim, nil)
	ids := make([]int, steps)

	for t := 0; t < steps; t++ {
		id := int(x.At(t, 0))
		if id < 0 || id >= e.NumWords {
			return nil, errors.Errorf("Token ID at step %d is out of range (%d, vocabulary size %d)", t, id, e.NumWords)
		}

		ids[t] = id
		for j := 0; j < e.Dim; j++ {
			y.Set(t, j, e.Weights[id*e.Dim+j])
		}
	}

	e.lastIDs = ids
	return y, nil
}

func (e *embedding) Backward(grad *mat.Dense) (*mat.Dense, error) {
	if e.lastIDs == nil {
		return nil, errors.Errorf("Backward called before Forward")
	}

	steps, _ := grad.Dims()
	if steps != len(e.lastIDs) {
		return nil, errors.Errorf("Gradient step count does not match last Forward (%d != %d)", steps, len(e.lastIDs))
	}

	for t, id := range e.lastIDs {
		for j := 0; j < e.Dim; j++ {
			e.grads[id*e.Dim+j] += grad.At(t, j)
		}
	}

	// token IDs are not differentiable; the layer below (if any) gets zeros
	return mat.NewDense(steps, 1, nil), nil
}

func (e *embedding) NumParams() int {
	return e.NumWords * e.Dim
}

func (e *embedding) Adjust(opt sn.Optimizer, learningRate, scale float64) error {
	grad := func(i int) float64 {
		return scale * e.grads[i]
	}
	add := func(i int, v float64) {
		e.Weights[i] += v
	}

	if err := opt.Run(e, "weights", len(e.Weights), grad, add, learningRate); err != nil {
		return errors.Wrapf(err, "Running optimizer on embedding table failed")
	}

	return nil
}

func (e *embedding) ZeroGrads() {
	for i := range e.grads {
		e.grads[i] = 0
	}
}
