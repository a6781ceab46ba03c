package layers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	sn "github.com/mwelland/sentnet"
)

// gradCheckLSTM returns a small LSTM with deterministic weights, finalized
// for the given input shape.
func gradCheckLSTM(t *testing.T, units int, in sn.Shape) *lstm {
	t.Helper()

	l := LSTM(units)

	n := 0
	l.Init(func(ws []float64, fanIn, fanOut int) {
		for i := range ws {
			n++
			ws[i] = 0.3 * math.Sin(float64(n))
		}
	})

	require.NoError(t, l.Finalize(nil, in))
	return l
}

// sumForward runs an inference pass and returns the sum of the outputs.
func sumForward(t *testing.T, l *lstm, x *mat.Dense) float64 {
	t.Helper()

	y, err := l.Forward(x, false)
	require.NoError(t, err)

	var sum float64
	_, c := y.Dims()
	for j := 0; j < c; j++ {
		sum += y.At(0, j)
	}
	return sum
}

func TestLSTMOutShape(t *testing.T) {
	l := gradCheckLSTM(t, 3, sn.Shape{Steps: 5, Features: 2})

	out, err := l.OutShape(sn.Shape{Steps: 5, Features: 2})
	require.NoError(t, err)
	assert.Equal(t, sn.Shape{Steps: 1, Features: 3}, out)

	y, err := l.Forward(mat.NewDense(5, 2, nil), false)
	require.NoError(t, err)

	r, c := y.Dims()
	assert.Equal(t, 1, r)
	assert.Equal(t, 3, c)
}

func TestLSTMForgetBiasStartsOpen(t *testing.T) {
	l := gradCheckLSTM(t, 2, sn.Shape{Steps: 2, Features: 1})
	assert.Equal(t, []float64{1, 1}, l.Bf)
}

// TestLSTMGradients compares every analytic weight gradient against a central
// finite difference of the summed output.
func TestLSTMGradients(t *testing.T) {
	const eps = 1e-6

	x := mat.NewDense(3, 2, []float64{
		0.5, -1,
		1.5, 0.25,
		-0.75, 2,
	})

	l := gradCheckLSTM(t, 2, sn.Shape{Steps: 3, Features: 2})

	_, err := l.Forward(x, false)
	require.NoError(t, err)

	dx, err := l.Backward(mat.NewDense(1, 2, []float64{1, 1}))
	require.NoError(t, err)

	weights := map[string][]float64{
		"wi": l.Wi, "wf": l.Wf, "wg": l.Wg, "wo": l.Wo,
		"ui": l.Ui, "uf": l.Uf, "ug": l.Ug, "uo": l.Uo,
		"bi": l.Bi, "bf": l.Bf, "bg": l.Bg, "bo": l.Bo,
	}

	for name, ws := range weights {
		for i := range ws {
			orig := ws[i]

			ws[i] = orig + eps
			plus := sumForward(t, l, x)
			ws[i] = orig - eps
			minus := sumForward(t, l, x)
			ws[i] = orig

			numeric := (plus - minus) / (2 * eps)
			assert.InDelta(t, numeric, l.grads[name][i], 1e-4, "%s[%d]", name, i)
		}
	}

	// input deltas, the same way
	r, c := x.Dims()
	for t2 := 0; t2 < r; t2++ {
		for j := 0; j < c; j++ {
			orig := x.At(t2, j)

			x.Set(t2, j, orig+eps)
			plus := sumForward(t, l, x)
			x.Set(t2, j, orig-eps)
			minus := sumForward(t, l, x)
			x.Set(t2, j, orig)

			numeric := (plus - minus) / (2 * eps)
			assert.InDelta(t, numeric, dx.At(t2, j), 1e-4, "dx[%d][%d]", t2, j)
		}
	}
}

func TestLSTMDropoutMasks(t *testing.T) {
	l := LSTM(4)
	l.Dropout(0.5).RecurrentDropout(0.5)

	n := 0
	l.Init(func(ws []float64, fanIn, fanOut int) {
		for i := range ws {
			n++
			ws[i] = 0.3 * math.Sin(float64(n))
		}
	})
	require.NoError(t, l.Finalize(nil, sn.Shape{Steps: 3, Features: 2}))

	x := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})

	_, err := l.Forward(x, true)
	require.NoError(t, err)

	require.Len(t, l.inM, 2)
	require.Len(t, l.recM, 4)
	for _, v := range l.inM {
		assert.True(t, v == 0 || v == 2, "mask values are 0 or 1/(1-rate)")
	}

	// inference never masks
	_, err = l.Forward(x, false)
	require.NoError(t, err)
	assert.Nil(t, l.inM)
	assert.Nil(t, l.recM)
}

func TestLSTMBadRates(t *testing.T) {
	_, err := LSTM(2).Dropout(1).OutShape(sn.Shape{Steps: 2, Features: 1})
	assert.Error(t, err)

	_, err = LSTM(2).RecurrentDropout(-0.1).OutShape(sn.Shape{Steps: 2, Features: 1})
	assert.Error(t, err)
}
