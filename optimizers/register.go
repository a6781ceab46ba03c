package optimizers

import (
	sn "github.com/mwelland/sentnet"
)

func init() {
	list := map[string]func() sn.Optimizer{
		"sgd":  func() sn.Optimizer { return SGD() },
		"adam": func() sn.Optimizer { return Adam() },
	}

	for s, f := range list {
		if err := sn.RegisterOptimizer(s, f); err != nil {
			panic(err.Error())
		}
	}
}
