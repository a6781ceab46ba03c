package imdb

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	sn "github.com/mwelland/sentnet"
)

// Supplier converts the Dataset to a sentnet.DataSupplier: every review is
// padded or truncated to seqLen and presented as a (seqLen, 1) matrix of
// token IDs, with its label as the single target output. Iteration wraps
// around the end of the Dataset, so one Supplier serves any number of epochs.
func (d *Dataset) Supplier(seqLen, batchSize int) (sn.DataSupplier, error) {
	padded, err := PadSequences(d.Reviews, seqLen)
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't normalize reviews")
	}

	samples := make([]sn.Datum, len(padded))
	for i, seq := range padded {
		vs := make([]float64, seqLen)
		for t, id := range seq {
			vs[t] = float64(id)
		}

		samples[i] = sn.Datum{
			Inputs:  mat.NewDense(seqLen, 1, vs),
			Outputs: []float64{float64(d.Labels[i])},
		}
	}

	return sn.Data(samples, batchSize)
}
