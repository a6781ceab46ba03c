package sentnet

import (
	"gonum.org/v1/gonum/mat"
)

// Layer is an interface for defining the stages of a Network: layers with
// weights, activation functions, and shape-changing transformations alike.
// Values passed between Layers are *mat.Dense matrices with rows as time
// steps and columns as features.
type Layer interface {
	// TypeString returns the string corresponding to the type of the Layer.
	// For example: the Layer "Dense" should return "dense", or something to
	// that effect. TypeStrings key the registry used to recreate Layers from
	// file.
	TypeString() string

	// OutShape returns the shape of the Layer's outputs, given the shape of
	// its inputs. OutShape will be run once, during finalizing, before
	// Finalize. It should return an error if the input shape cannot be
	// accepted.
	OutShape(in Shape) (Shape, error)

	// Finalize gives the Layer its definite input shape, so that it may
	// allocate weights and internal buffers. Finalize will always be run on a
	// Layer before Forward or Backward, and will only be run once -- except
	// after loading from file, where it is run again on a Layer that already
	// has its weights. Finalized Layers must leave pre-existing weights of
	// the right size untouched.
	Finalize(net *Network, in Shape) error

	// Forward computes the Layer's outputs for a single sample. training
	// reports whether the pass is part of a training step; Layers with
	// stochastic behavior (dropout) are identity maps when it is false.
	//
	// Forward may retain the values it needs for Backward; calls always come
	// in Forward-then-Backward pairs during training.
	Forward(x *mat.Dense, training bool) (*mat.Dense, error)

	// Backward is given the derivative of the total cost w.r.t. the Layer's
	// outputs, and must return the derivative w.r.t. its inputs. Layers with
	// weights should additionally accumulate their parameter gradients; the
	// accumulated gradients are consumed later by Adjust.
	Backward(grad *mat.Dense) (*mat.Dense, error)
}

// ParamLayer is the subset of Layers that have adjustable weights.
type ParamLayer interface {
	Layer

	// NumParams returns the total number of adjustable weights in the Layer.
	NumParams() int

	// Adjust applies one update step to the Layer's weights, using the
	// gradients accumulated by Backward since the last ZeroGrads. scale is
	// applied to each gradient before it reaches the Optimizer; it will
	// usually be 1/batchSize.
	Adjust(opt Optimizer, learningRate, scale float64) error

	// ZeroGrads discards all accumulated gradients.
	ZeroGrads()

	// Init overrides the Initializer used for the Layer's weights. If it is
	// never called, the Network default applies.
	Init(init Initializer)
}

// Optimizer is an interface for weight-update rules. A single Optimizer
// instance serves the whole Network; implementations with per-weight state
// must key it by the (Layer, group) pair they are given.
type Optimizer interface {
	// Run is called to apply changes to one group of weights, given: the host
	// layer, the name of the weight group within it, the number of weights,
	// the gradient at each weight, a function to add to each weight, and a
	// learning rate.
	//
	// The gradient and add functions allow panicking on out-of-range indexes.
	Run(l Layer, group string, size int, grad func(int) float64, add func(int, float64), learningRate float64) error

	// TypeString returns the string corresponding to the type of the
	// Optimizer. For example: the Optimizer "Adam" should return "adam", or
	// something to that effect.
	TypeString() string
}

// CostFunction determines the training loss from the Network's outputs and
// the target outputs.
type CostFunction interface {
	// for all methods, it can be assumed that lengths are equal and that
	// there are no NaNs or Infs

	// Cost returns the total cost of the outputs, given the targets.
	Cost(outs, targets []float64) float64

	// Derivs returns the derivative of the total cost w.r.t. each output.
	// Derivs will only be run after Cost has been run for the same values.
	Derivs(outs, targets []float64) []float64

	// TypeString returns the string corresponding to the type of the
	// CostFunction.
	TypeString() string
}

// Initializer dictates how the weights in a Layer will be set, given a blank
// slice to hold weights and the fan-in and fan-out of the weight group.
type Initializer func(ws []float64, fanIn, fanOut int)

// HyperParameter is a single named training constant whose value may depend
// on the iteration, e.g. a decaying learning rate.
type HyperParameter interface {
	// Value returns the value of the HyperParameter at the given iteration.
	Value(iter int) float64

	// TypeString returns the string corresponding to the type of the
	// HyperParameter.
	TypeString() string
}
