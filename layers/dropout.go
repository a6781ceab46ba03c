package layers

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	sn "github.com/mwelland/sentnet"
)

type dropout struct {
	Rate float64 `json:"rate"`

	// mask from the most recent training Forward; nil when the last pass was
	// an inference pass (identity)
	mask *mat.Dense
}

// Dropout returns an inverted-dropout regularization layer: during training,
// each value is zeroed with probability rate and the survivors are scaled by
// 1/(1-rate), so activations keep their expectation. Outside of training the
// layer is an identity map.
func Dropout(rate float64) *dropout {
	return &dropout{Rate: rate}
}

func (d *dropout) TypeString() string {
	return "dropout"
}

func (d *dropout) OutShape(in sn.Shape) (sn.Shape, error) {
	if d.Rate < 0 || d.Rate >= 1 {
		return sn.Shape{}, errors.Errorf("Dropout rate must be in [0, 1) (%g)", d.Rate)
	}

	return in, nil
}

func (d *dropout) Finalize(net *sn.Network, in sn.Shape) error {
	return nil
}

func (d *dropout) Forward(x *mat.Dense, training bool) (*mat.Dense, error) {
	if !training || d.Rate == 0 {
		d.mask = nil
		return x, nil
	}

	r, c := x.Dims()
	keep := 1 / (1 - d.Rate)

	mask := mat.NewDense(r, c, nil)
	y := mat.NewDense(r, c, nil)

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if rand.Float64() >= d.Rate {
				mask.Set(i, j, keep)
				y.Set(i, j, keep*x.At(i, j))
			}
		}
	}

	d.mask = mask
	return y, nil
}

func (d *dropout) Backward(grad *mat.Dense) (*mat.Dense, error) {
	if d.mask == nil {
		return grad, nil
	}

	r, c := grad.Dims()
	dx := mat.NewDense(r, c, nil)
	dx.MulElem(grad, d.mask)

	return dx, nil
}
