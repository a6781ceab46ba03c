package sentnet_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	sentnet "github.com/mwelland/sentnet"
	"github.com/mwelland/sentnet/costfuncs"
	"github.com/mwelland/sentnet/hyperparams"
	"github.com/mwelland/sentnet/initializers"
	"github.com/mwelland/sentnet/layers"
	"github.com/mwelland/sentnet/optimizers"
)

// thresholdNet returns a finalized single-input network computing
// sigmoid(x), whose outputs round to 1 exactly when x > 0.
func thresholdNet(t *testing.T) *sentnet.Network {
	t.Helper()

	d := layers.Dense(1)
	d.Weights = []float64{1}
	d.Biases = []float64{0}

	net := new(sentnet.Network)
	net.Add("dense", d)
	net.Add("sigmoid", layers.Sigmoid())
	net.Opt(optimizers.SGD())
	net.AddHP("learning-rate", hyperparams.Constant(0.1))
	require.NoError(t, net.Error())

	require.NoError(t, net.Finalize(costfuncs.BinaryCrossEntropy(), sentnet.Shape{Steps: 1, Features: 1}))
	return net
}

func sample(x, target float64) sentnet.Datum {
	return sentnet.Datum{
		Inputs:  mat.NewDense(1, 1, []float64{x}),
		Outputs: []float64{target},
	}
}

func TestAddRejectsDuplicateNames(t *testing.T) {
	net := new(sentnet.Network)
	net.Add("a", layers.Sigmoid())
	net.Add("a", layers.Tanh())
	assert.Error(t, net.Error())
}

func TestFinalizeNeedsOptimizer(t *testing.T) {
	net := new(sentnet.Network)
	net.Add("dense", layers.Dense(1))
	net.AddHP("learning-rate", hyperparams.Constant(0.1))

	assert.Error(t, net.Finalize(costfuncs.MSE(), sentnet.Shape{Steps: 1, Features: 1}))
}

func TestTestAccuracy(t *testing.T) {
	net := thresholdNet(t)

	// three of the four samples land on the right side of 0.5
	data, err := sentnet.Data([]sentnet.Datum{
		sample(2, 1),
		sample(-2, 0),
		sample(-1, 0),
		sample(2, 0),
	}, 1)
	require.NoError(t, err)

	cost, correct, err := net.Test(data, sentnet.CorrectRound)
	require.NoError(t, err)

	assert.Equal(t, 0.75, correct)
	assert.Greater(t, cost, 0.0)
}

func TestGetOutputsRange(t *testing.T) {
	net := thresholdNet(t)

	outs, err := net.GetOutputs(mat.NewDense(1, 1, []float64{3}))
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Greater(t, outs[0], 0.5)
	assert.Less(t, outs[0], 1.0)

	// wrong input dimensions must be rejected
	_, err = net.GetOutputs(mat.NewDense(2, 1, []float64{1, 2}))
	assert.Error(t, err)
}

func TestTrainReducesCost(t *testing.T) {
	net := new(sentnet.Network)
	net.Add("embedding", layers.Embedding(5, 4))
	net.Add("lstm", layers.LSTM(4))
	net.Add("dense", layers.Dense(1))
	net.Add("sigmoid", layers.Sigmoid())
	net.Opt(optimizers.Adam())
	net.DefaultInit(initializers.Xavier())
	net.AddHP("learning-rate", hyperparams.Constant(0.02))
	require.NoError(t, net.Error())

	require.NoError(t, net.Finalize(costfuncs.BinaryCrossEntropy(), sentnet.Shape{Steps: 3, Features: 1}))

	// token 3 means positive, token 4 means negative
	seq := func(id, target float64) sentnet.Datum {
		return sentnet.Datum{
			Inputs:  mat.NewDense(3, 1, []float64{id, id, id}),
			Outputs: []float64{target},
		}
	}

	data, err := sentnet.Data([]sentnet.Datum{
		seq(3, 1),
		seq(4, 0),
		seq(3, 1),
		seq(4, 0),
	}, 2)
	require.NoError(t, err)

	before, _, err := net.Test(data, nil)
	require.NoError(t, err)

	require.NoError(t, net.Train(sentnet.TrainArgs{
		TrainData:    data,
		RunCondition: sentnet.TrainUntil(400),
		IsCorrect:    sentnet.CorrectRound,
	}))

	after, _, err := net.Test(data, nil)
	require.NoError(t, err)

	assert.Less(t, after, before)

	outs, err := net.GetOutputs(mat.NewDense(3, 1, []float64{3, 3, 3}))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, outs[0], 0.0)
	assert.LessOrEqual(t, outs[0], 1.0)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	net := thresholdNet(t)
	path := filepath.Join(t.TempDir(), "net.json")

	require.NoError(t, net.Save(path))

	loaded, err := sentnet.Load(path)
	require.NoError(t, err)

	assert.Equal(t, net.NumParams(), loaded.NumParams())

	in := mat.NewDense(1, 1, []float64{1.5})
	want, err := net.GetOutputs(in)
	require.NoError(t, err)
	got, err := loaded.GetOutputs(in)
	require.NoError(t, err)

	assert.InDeltaSlice(t, want, got, 1e-12)
}

func TestSummary(t *testing.T) {
	net := thresholdNet(t)

	var buf bytes.Buffer
	require.NoError(t, net.Summary(&buf))

	out := buf.String()
	assert.Contains(t, out, "dense")
	assert.Contains(t, out, "sigmoid")
	assert.Contains(t, out, "2") // 1 weight + 1 bias
}
