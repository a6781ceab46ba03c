package sentnet

// Shape describes the dimensions of the values passed between Layers: Steps
// rows of Features columns. A raw token-ID sequence of length 500 has shape
// {Steps: 500, Features: 1}; the summary vector out of a recurrent layer has
// shape {Steps: 1, Features: units}.
type Shape struct {
	Steps    int
	Features int
}

// Size returns the total number of values in the Shape.
func (s Shape) Size() int {
	return s.Steps * s.Features
}

// Network is the main structure that is used to learn to map input to output
// functions. A Network is an ordered stack of Layers; values are fed through
// the stack in order, and gradients flow back through it in reverse.
type Network struct {
	layers []Layer

	// display names for each layer, parallel to 'layers'
	names []string

	// the shape of each boundary between layers. shapes[0] is the input
	// shape; shapes[len(layers)] is the output shape. Only set once the
	// Network has been finalized.
	shapes []Shape

	// whether or not the network should panic when it encounters an error
	panicErrors bool

	err error

	cf  CostFunction
	opt Optimizer

	defaultInit Initializer
	hyperParams map[string]HyperParameter

	// used to keep track of the current iteration during training
	iter int

	// longIter corresponds to the iteration of the network as a whole, not
	// just within the current training run.
	longIter int

	// Whether or not there are accumulated gradients that have not been
	// applied yet
	hasSavedChanges bool

	stat status
}

type status int8

const (
	initialized status = iota
	finalized
)
