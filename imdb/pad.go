package imdb

import (
	"github.com/pkg/errors"
)

// PadSequences coerces every sequence to length exactly l: sequences longer
// than l keep only their last l tokens; shorter ones are left-padded with
// PadID. The input is never modified, and the output rows never share storage
// with it.
func PadSequences(seqs [][]int, l int) ([][]int, error) {
	if l < 1 {
		return nil, errors.Errorf("Target length must be >= 1 (%d)", l)
	}

	out := make([][]int, len(seqs))
	for i, seq := range seqs {
		row := make([]int, l)

		if len(seq) >= l {
			copy(row, seq[len(seq)-l:])
		} else {
			copy(row[l-len(seq):], seq)
		}

		out[i] = row
	}

	return out, nil
}
