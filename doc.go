// Package sentnet provides a small framework for building and training
// sequence classifiers from pre-built layer primitives.
//
// # Creating Networks
//
// The center of all training is the Network:
//
//	net := new(sentnet.Network)
//
// Networks are ordered stacks of Layers. Each Layer transforms a matrix of
// values (rows are time steps, columns are features) into another, and knows
// how to backpropagate through itself. All Layers can be found in the
// subpackage "layers", all Optimizers in "optimizers", and so forth, for
// other types.
//
// The standard procedure for adding Layers to the Network is:
//
//	net.Add("embedding", layers.Embedding(5000, 32))
//	net.Add("lstm", layers.LSTM(100))
//	net.Add("dense", layers.Dense(1))
//	net.Add("sigmoid", layers.Sigmoid())
//
//	if net.Error() != nil {
//		return net.Error()
//	}
//
// Layers with weights require an Optimizer and an Initializer, which are set
// at the Network level with Opt() and DefaultInit(). HyperParameters (such as
// the learning rate) are registered by name with AddHP().
//
// The network is finished by providing a cost function and an input shape:
//
//	err := net.Finalize(costfuncs.BinaryCrossEntropy(), sentnet.Shape{Steps: 500, Features: 1})
//
// # Training and Testing
//
// Training is done with the type TrainArgs, used as a proxy for the type of
// optional arguments that are available in other languages. Samples are
// provided through the DataSupplier interface, with the type Datum holding
// one input matrix and its target outputs.
//
// All training is done with the method Train:
//
//	func (net *Network) Train(args TrainArgs) error
//
// Testing can be done both during training (see TrainArgs) and through a
// separate method, Test:
//
//	func (net *Network) Test(data DataSupplier, isCorrect func([]float64, []float64) bool) (float64, float64, error)
//
// # Saving and Loading
//
// Writing Networks to files is quite simple. The method signature is:
//
//	func (net *Network) Save(path string) error
//
// Loading is equally simple, with:
//
//	func Load(path string) (*Network, error)
package sentnet
