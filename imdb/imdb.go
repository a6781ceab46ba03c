// Package imdb loads corpora of integer-encoded movie reviews with binary
// sentiment labels, in the convention of the classic IMDB dataset: every
// review is a sequence of token IDs, where each ID is the rank of a word by
// corpus frequency, offset past a handful of reserved IDs.
package imdb

import (
	"bufio"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Reserved token IDs. Real words start at IndexFrom; a word with frequency
// rank r is encoded as r + IndexFrom.
const (
	PadID   = 0 // padding sentinel, carries no information
	StartID = 1 // marks the beginning of every review
	OOVID   = 2 // stands in for every out-of-vocabulary word

	IndexFrom = 3
)

// Dataset is a fixed collection of labeled reviews. Reviews[i] is the token
// sequence of the i'th review; Labels[i] is its sentiment (0 = negative,
// 1 = positive).
type Dataset struct {
	Reviews [][]int
	Labels  []int
}

// Len returns the number of reviews in the Dataset.
func (d *Dataset) Len() int {
	return len(d.Reviews)
}

// Shuffle reorders the Dataset in place, keeping each review paired with its
// label. The order is determined entirely by seed.
func (d *Dataset) Shuffle(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(d.Reviews), func(i, j int) {
		d.Reviews[i], d.Reviews[j] = d.Reviews[j], d.Reviews[i]
		d.Labels[i], d.Labels[j] = d.Labels[j], d.Labels[i]
	})
}

// review parses one CSV line of the corpus: the label first, then the token
// IDs of the review, in order.
func review(str string, topWords int) (seq []int, label int, err error) {
	s := strings.Split(str, ",")

	if len(s) < 1 {
		err = errors.Errorf("Can't get review, line is empty")
		return
	}

	{
		var l int64
		l, err = strconv.ParseInt(strings.TrimSpace(s[0]), 10, 0)
		label = int(l)
		if err != nil {
			err = errors.Wrapf(err, "Couldn't parse value of label (given: %s)", s[0])
			return
		} else if label != 0 && label != 1 {
			err = errors.Errorf("Label is out of bounds (%d, must be 0 or 1)", label)
			return
		}
	}

	{
		seq = make([]int, len(s)-1)

		for i := 1; i < len(s); i++ {
			var v int64
			v, err = strconv.ParseInt(strings.TrimSpace(s[i]), 10, 0)
			if err != nil {
				err = errors.Wrapf(err, "Couldn't parse token %d of line (given: %s)", i-1, s[i])
				return
			} else if v < 0 {
				err = errors.Errorf("Token %d of line is negative (%d)", i-1, v)
				return
			}

			id := int(v)
			if topWords > 0 && id >= topWords {
				id = OOVID
			}

			seq[i-1] = id
		}
	}

	return
}

// Load reads a labeled corpus from a CSV file with one review per line:
//
//	<label>,<id0>,<id1>,...
//
// where <label> is 0 or 1 and each <id> is a non-negative token ID. Reviews
// may have any length.
//
// topWords caps the vocabulary: every ID at or above it is replaced by OOVID.
// A topWords of 0 (or below) disables the cap. If it is positive, it must
// leave room for the reserved IDs (> IndexFrom).
func Load(path string, topWords int) (*Dataset, error) {
	if topWords > 0 && topWords <= IndexFrom {
		return nil, errors.Errorf("Vocabulary cap must leave room for reserved IDs (%d <= %d)", topWords, IndexFrom)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't open file %s", path)
	}

	defer f.Close()

	ds := new(Dataset)

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	for i := 0; sc.Scan(); i++ {
		str := sc.Text()
		if strings.TrimSpace(str) == "" {
			continue
		}

		seq, label, err := review(str, topWords)
		if err != nil {
			return nil, errors.Wrapf(err, "Couldn't get review on line %d of file %s", i, path)
		}

		ds.Reviews = append(ds.Reviews, seq)
		ds.Labels = append(ds.Labels, label)
	}

	if err = sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "Scanning file %s encountered an error", path)
	}

	if len(ds.Reviews) == 0 {
		return nil, errors.Errorf("File %s contains no reviews", path)
	}

	return ds, nil
}

// LoadSplit reads the train and test halves of a corpus from train.csv and
// test.csv inside dir, both with the same vocabulary cap.
func LoadSplit(dir string, topWords int) (train, test *Dataset, err error) {
	if train, err = Load(filepath.Join(dir, "train.csv"), topWords); err != nil {
		return nil, nil, errors.Wrapf(err, "Couldn't load training half of corpus")
	}

	if test, err = Load(filepath.Join(dir, "test.csv"), topWords); err != nil {
		return nil, nil, errors.Wrapf(err, "Couldn't load testing half of corpus")
	}

	return train, test, nil
}
