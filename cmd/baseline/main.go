// Scores the test half of a movie review corpus with the VADER sentiment
// lexicon, as a no-training baseline to compare the LSTM classifier against.
// Needs the word index (a word -> frequency rank JSON table) to turn token
// IDs back into text.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonreiter/govader"
	"github.com/lmittmann/tint"
	"github.com/subosito/gotenv"

	"github.com/mwelland/sentnet/imdb"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	})))

	if err := gotenv.Load(); err != nil {
		slog.Debug("No .env file found, using OS environment")
	}

	dataDir := flag.String("data", "resources", "directory holding test.csv")
	indexPath := flag.String("index", "", "path to the word index JSON (default: <data>/word_index.json)")
	flag.Parse()

	if *indexPath == "" {
		*indexPath = filepath.Join(*dataDir, "word_index.json")
	}

	// no vocabulary cap: the lexicon wants the full text back
	test, err := imdb.Load(filepath.Join(*dataDir, "test.csv"), 0)
	if err != nil {
		slog.Error("Couldn't load corpus", "err", err)
		os.Exit(1)
	}

	index, err := imdb.LoadWordIndex(*indexPath)
	if err != nil {
		slog.Error("Couldn't load word index", "path", *indexPath, "err", err)
		os.Exit(1)
	}

	slog.Info("Scoring reviews", "count", test.Len())

	analyzer := govader.NewSentimentIntensityAnalyzer()

	correct := 0
	for i, seq := range test.Reviews {
		scores := analyzer.PolarityScores(index.Decode(seq))

		label := 0
		if scores.Compound > 0 {
			label = 1
		}

		if label == test.Labels[i] {
			correct++
		}
	}

	fmt.Printf("Accuracy: %.2f%%\n", 100*float64(correct)/float64(test.Len()))
}
