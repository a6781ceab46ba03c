package optimizers

import (
	sn "github.com/mwelland/sentnet"
)

type sgd int8

// SGD returns plain stochastic gradient descent: each weight moves against
// its gradient, scaled by the learning rate. The result of SGD implements
// sentnet.Optimizer.
func SGD() sgd {
	return sgd(0)
}

func (g sgd) TypeString() string {
	return "sgd"
}

func (g sgd) Run(l sn.Layer, group string, size int, grad func(int) float64, add func(int, float64), learningRate float64) error {
	for i := 0; i < size; i++ {
		add(i, -1*learningRate*grad(i))
	}

	return nil
}
