// Trains an LSTM sentiment classifier on an integer-encoded movie review
// corpus. Expects <data dir>/train.csv and <data dir>/test.csv with format:
//
//	<label>, <id0>, <id1>, ... <idN>
//
// where <label> is 0 (negative) or 1 (positive) and each <id> is a token ID.
// Reviews may have any length; they are padded/truncated before training.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/subosito/gotenv"

	sn "github.com/mwelland/sentnet"
	"github.com/mwelland/sentnet/costfuncs"
	"github.com/mwelland/sentnet/hyperparams"
	"github.com/mwelland/sentnet/imdb"
	"github.com/mwelland/sentnet/initializers"
	"github.com/mwelland/sentnet/layers"
	"github.com/mwelland/sentnet/optimizers"
)

type config struct {
	dataDir  string
	savePath string

	topWords int
	seqLen   int
	embedDim int
	units    int

	conv       bool
	dropout    float64
	recDropout float64

	batchSize    int
	epochs       int
	learningRate float64
}

// envOr returns the value of the environment variable named by key, or def if
// it is unset. Flag defaults run through this so a .env file can override
// them without touching the command line.
func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func parseFlags() config {
	if err := gotenv.Load(); err != nil {
		slog.Debug("No .env file found, using OS environment")
	}

	var c config
	flag.StringVar(&c.dataDir, "data", envOr("SENTNET_DATA", "resources"), "directory holding train.csv and test.csv")
	flag.StringVar(&c.savePath, "save", envOr("SENTNET_SAVE", ""), "path to save the trained network to (empty: don't save)")
	flag.IntVar(&c.topWords, "top-words", 5000, "vocabulary cap; rarer words become out-of-vocabulary")
	flag.IntVar(&c.seqLen, "seq-len", 500, "length every review is padded/truncated to")
	flag.IntVar(&c.embedDim, "embed", 32, "embedding dimension")
	flag.IntVar(&c.units, "units", 100, "number of LSTM units")
	flag.BoolVar(&c.conv, "conv", false, "add a convolutional front-end before the LSTM")
	flag.Float64Var(&c.dropout, "dropout", 0, "dropout rate (0: no dropout)")
	flag.Float64Var(&c.recDropout, "recurrent-dropout", 0, "LSTM recurrent dropout rate")
	flag.IntVar(&c.batchSize, "batch", 64, "mini-batch size")
	flag.IntVar(&c.epochs, "epochs", 3, "number of passes over the training set")
	flag.Float64Var(&c.learningRate, "lr", 0.001, "learning rate for Adam")
	flag.Parse()

	return c
}

func initNet(c config) *sn.Network {
	net := new(sn.Network)

	net.Add("embedding", layers.Embedding(c.topWords, c.embedDim))

	if c.conv {
		net.Add("conv", layers.Conv1D(32, 3).ReLU())
		net.Add("pool", layers.MaxPool1D(2))
	}

	if c.dropout != 0 {
		net.Add("dropout", layers.Dropout(c.dropout))
	}

	lstm := layers.LSTM(c.units)
	if c.dropout != 0 {
		lstm.Dropout(c.dropout)
	}
	if c.recDropout != 0 {
		lstm.RecurrentDropout(c.recDropout)
	}
	net.Add("lstm", lstm)

	net.Add("dense", layers.Dense(1))
	net.Add("sigmoid", layers.Sigmoid())

	net.Opt(optimizers.Adam())
	net.DefaultInit(initializers.Xavier())
	net.AddHP("learning-rate", hyperparams.Constant(c.learningRate))

	if err := net.Finalize(costfuncs.BinaryCrossEntropy(), sn.Shape{Steps: c.seqLen, Features: 1}); err != nil {
		slog.Error("Couldn't finalize network", "err", err)
		os.Exit(1)
	}

	return net
}

func train(net *sn.Network, c config, trainLen int, trainData, testData sn.DataSupplier) error {
	epoch := 0

	args := sn.TrainArgs{
		TrainData:    trainData,
		TestData:     testData,
		ShouldTest:   sn.EndEvery(trainLen),
		SendStatus:   sn.EndEvery(trainLen),
		RunCondition: sn.TrainUntil(c.epochs * trainLen),
		IsCorrect:    sn.CorrectRound,
		Update: func(r sn.Result) {
			if r.IsTest {
				fmt.Printf("epoch %d/%d - val_loss: %.4f - val_acc: %.4f\n", epoch, c.epochs, r.Cost, r.Correct)
			} else {
				epoch++
				fmt.Printf("epoch %d/%d - loss: %.4f - acc: %.4f\n", epoch, c.epochs, r.Cost, r.Correct)
			}
		},
	}

	slog.Info("Starting training", "epochs", c.epochs, "batch", c.batchSize, "samples", trainLen)
	startTime := time.Now()

	if err := net.Train(args); err != nil {
		return err
	}

	slog.Info("Done training", "took", time.Since(startTime).Round(time.Second))
	return nil
}

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	})))

	c := parseFlags()

	trainSet, testSet, err := imdb.LoadSplit(c.dataDir, c.topWords)
	if err != nil {
		slog.Error("Couldn't load corpus", "dir", c.dataDir, "err", err)
		os.Exit(1)
	}
	slog.Info("Loaded corpus", "train", trainSet.Len(), "test", testSet.Len())

	trainSet.Shuffle(0)

	trainData, err := trainSet.Supplier(c.seqLen, c.batchSize)
	if err != nil {
		slog.Error("Couldn't prepare training data", "err", err)
		os.Exit(1)
	}

	testData, err := testSet.Supplier(c.seqLen, c.batchSize)
	if err != nil {
		slog.Error("Couldn't prepare testing data", "err", err)
		os.Exit(1)
	}

	net := initNet(c)
	net.Summary(os.Stdout)

	if err := train(net, c, trainSet.Len(), trainData, testData); err != nil {
		slog.Error("Training failed", "err", err)
		os.Exit(1)
	}

	_, acc, err := net.Test(testData, sn.CorrectRound)
	if err != nil {
		slog.Error("Final test failed", "err", err)
		os.Exit(1)
	}

	fmt.Printf("Accuracy: %.2f%%\n", 100*acc)

	if c.savePath != "" {
		if err := net.Save(c.savePath); err != nil {
			slog.Error("Couldn't save network", "path", c.savePath, "err", err)
			os.Exit(1)
		}
		slog.Info("Saved network", "path", c.savePath)
	}
}
