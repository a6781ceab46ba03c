package imdb

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// WordIndex maps words to their frequency ranks, and back. Ranks start at 1;
// the token ID of a word is its rank plus IndexFrom.
type WordIndex struct {
	byWord map[string]int
	byID   map[int]string
}

// LoadWordIndex reads a word→rank table from a JSON file of the form
// {"the": 1, "and": 2, ...}.
func LoadWordIndex(path string) (*WordIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't open file %s", path)
	}

	defer f.Close()

	var byWord map[string]int
	dec := json.NewDecoder(f)
	if err := dec.Decode(&byWord); err != nil {
		return nil, errors.Wrapf(err, "Couldn't decode JSON from file %s", path)
	}

	w := &WordIndex{
		byWord: byWord,
		byID:   make(map[int]string, len(byWord)),
	}

	for word, rank := range byWord {
		w.byID[rank+IndexFrom] = word
	}

	return w, nil
}

// ID returns the token ID of the given word, or OOVID if the word is not in
// the index.
func (w *WordIndex) ID(word string) int {
	rank, ok := w.byWord[word]
	if !ok {
		return OOVID
	}

	return rank + IndexFrom
}

// Decode rebuilds readable text from a token sequence. Padding and
// sequence-start IDs are skipped; out-of-vocabulary IDs (and IDs the index
// does not know) come back as "?".
func (w *WordIndex) Decode(seq []int) string {
	var b strings.Builder

	for _, id := range seq {
		if id == PadID || id == StartID {
			continue
		}

		word, ok := w.byID[id]
		if id == OOVID || !ok {
			word = "?"
		}

		if b.Len() != 0 {
			b.WriteByte(' ')
		}
		b.WriteString(word)
	}

	return b.String()
}
