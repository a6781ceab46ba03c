package layers

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	sn "github.com/mwelland/sentnet"
)

type maxPool struct {
	Window int `json:"window"`

	features int
	lastIdx  []int
	lastIn   int
}

// MaxPool1D returns a non-overlapping max pooling layer over the time axis:
// inputs of shape (T, f) produce outputs of shape (T/window, f), taking the
// maximum of each window per feature. Steps past the last full window are
// discarded.
func MaxPool1D(window int) *maxPool {
	return &maxPool{Window: window}
}

func (p *maxPool) TypeString() string {
	return "max-pool1d"
}

func (p *maxPool) OutShape(in sn.Shape) (sn.Shape, error) {
	if p.Window < 1 {
		return sn.Shape{}, errors.Errorf("MaxPool1D must have window >= 1 (%d)", p.Window)
	} else if in.Steps < p.Window {
		return sn.Shape{}, errors.Errorf("MaxPool1D window is wider than its input (%d > %d)", p.Window, in.Steps)
	}

	return sn.Shape{Steps: in.Steps / p.Window, Features: in.Features}, nil
}

func (p *maxPool) Finalize(net *sn.Network, in sn.Shape) error {
	p.features = in.Features
	return nil
}

func (p *maxPool) Forward(x *mat.Dense, training bool) (*mat.Dense, error) {
	steps, _ := x.Dims()
	outSteps := steps / p.Window

	y := mat.NewDense(outSteps, p.features, nil)
	idx := make([]int, outSteps*p.features)

	for t := 0; t < outSteps; t++ {
		for c := 0; c < p.features; c++ {
			best := t * p.Window
			bestV := x.At(best, c)

			for k := 1; k < p.Window; k++ {
				if v := x.At(t*p.Window+k, c); v > bestV {
					best, bestV = t*p.Window+k, v
				}
			}

			y.Set(t, c, bestV)
			idx[t*p.features+c] = best
		}
	}

	p.lastIdx = idx
	p.lastIn = steps
	return y, nil
}

func (p *maxPool) Backward(grad *mat.Dense) (*mat.Dense, error) {
	if p.lastIdx == nil {
		return nil, errors.Errorf("Backward called before Forward")
	}

	outSteps, _ := grad.Dims()

	dx := mat.NewDense(p.lastIn, p.features, nil)
	for t := 0; t < outSteps; t++ {
		for c := 0; c < p.features; c++ {
			best := p.lastIdx[t*p.features+c]
			dx.Set(best, c, dx.At(best, c)+grad.At(t, c))
		}
	}

	return dx, nil
}
