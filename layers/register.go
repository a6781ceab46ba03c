package layers

import (
	sn "github.com/mwelland/sentnet"
)

func init() {
	list := map[string]func() sn.Layer{
		"embedding":  func() sn.Layer { return Embedding(0, 0) },
		"dense":      func() sn.Layer { return Dense(0) },
		"conv1d":     func() sn.Layer { return Conv1D(0, 0) },
		"max-pool1d": func() sn.Layer { return MaxPool1D(0) },
		"dropout":    func() sn.Layer { return Dropout(0) },
		"lstm":       func() sn.Layer { return LSTM(0) },
		"sigmoid":    func() sn.Layer { return Sigmoid() },
		"tanh":       func() sn.Layer { return Tanh() },
		"relu":       func() sn.Layer { return ReLU() },
	}

	for s, f := range list {
		if err := sn.RegisterLayer(s, f); err != nil {
			panic(err.Error())
		}
	}
}
