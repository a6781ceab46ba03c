package costfuncs

import (
	sn "github.com/mwelland/sentnet"
)

func init() {
	list := map[string]func() sn.CostFunction{
		"mse":                  func() sn.CostFunction { return MSE() },
		"binary-cross-entropy": func() sn.CostFunction { return BinaryCrossEntropy() },
	}

	for s, f := range list {
		if err := sn.RegisterCostFunction(s, f); err != nil {
			panic(err.Error())
		}
	}
}
