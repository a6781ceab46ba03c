package imdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestPadSequences(t *testing.T) {
	seqs := [][]int{
		{4, 5, 6},       // exact
		{4, 5, 6, 7, 8}, // too long: keep the last 3
		{9},             // too short: left-pad
		{},              // empty: all padding
	}

	out, err := PadSequences(seqs, 3)
	require.NoError(t, err)

	require.Len(t, out, len(seqs))
	for i := range out {
		assert.Len(t, out[i], 3, "row %d", i)
	}

	assert.Equal(t, []int{4, 5, 6}, out[0])
	assert.Equal(t, []int{6, 7, 8}, out[1])
	assert.Equal(t, []int{0, 0, 9}, out[2])
	assert.Equal(t, []int{0, 0, 0}, out[3])

	// the input must come through untouched
	assert.Equal(t, []int{4, 5, 6, 7, 8}, seqs[1])
	assert.Equal(t, []int{9}, seqs[2])
}

func TestPadSequencesBadLength(t *testing.T) {
	_, err := PadSequences([][]int{{1}}, 0)
	assert.Error(t, err)

	_, err = PadSequences([][]int{{1}}, -5)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "train.csv", "1,1,4,5,6\n0,1,7\n")

	ds, err := Load(path, 0)
	require.NoError(t, err)

	require.Equal(t, 2, ds.Len())
	assert.Equal(t, []int{1, 4, 5, 6}, ds.Reviews[0])
	assert.Equal(t, []int{1, 7}, ds.Reviews[1])
	assert.Equal(t, []int{1, 0}, ds.Labels)
}

func TestLoadVocabCap(t *testing.T) {
	path := writeFile(t, "train.csv", "1,1,4,9,10,200\n")

	ds, err := Load(path, 10)
	require.NoError(t, err)

	// IDs at or above the cap collapse to OOVID
	assert.Equal(t, []int{1, 4, 9, OOVID, OOVID}, ds.Reviews[0])
}

func TestLoadRejectsBadInput(t *testing.T) {
	for name, contents := range map[string]string{
		"bad label":   "2,4,5\n",
		"alpha label": "x,4,5\n",
		"negative ID": "1,-3\n",
		"alpha ID":    "1,4,x\n",
	} {
		path := writeFile(t, "train.csv", contents)
		_, err := Load(path, 0)
		assert.Error(t, err, name)
	}

	// a cap that swallows the reserved IDs makes no sense
	path := writeFile(t, "train.csv", "1,4\n")
	_, err := Load(path, IndexFrom)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"), 0)
	assert.Error(t, err)
}

func TestLoadSplit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "train.csv"), []byte("1,4,5\n0,6\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.csv"), []byte("0,7\n"), 0644))

	train, test, err := LoadSplit(dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, train.Len())
	assert.Equal(t, 1, test.Len())
}

func TestShuffleKeepsPairs(t *testing.T) {
	ds := &Dataset{
		Reviews: [][]int{{4}, {5}, {6}, {7}, {8}},
		Labels:  []int{0, 1, 0, 1, 0},
	}

	want := make(map[int]int)
	for i, seq := range ds.Reviews {
		want[seq[0]] = ds.Labels[i]
	}

	ds.Shuffle(1)

	require.Equal(t, 5, ds.Len())
	for i, seq := range ds.Reviews {
		assert.Equal(t, want[seq[0]], ds.Labels[i])
	}
}

func TestSupplier(t *testing.T) {
	ds := &Dataset{
		Reviews: [][]int{{4, 5}, {6}},
		Labels:  []int{1, 0},
	}

	sup, err := ds.Supplier(3, 2)
	require.NoError(t, err)

	d, err := sup.Get(0)
	require.NoError(t, err)

	r, c := d.Inputs.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 1, c)
	assert.Equal(t, []float64{0, 4, 5}, []float64{d.Inputs.At(0, 0), d.Inputs.At(1, 0), d.Inputs.At(2, 0)})
	assert.Equal(t, []float64{1}, d.Outputs)

	// iteration wraps around the end of the dataset
	d2, err := sup.Get(2)
	require.NoError(t, err)
	assert.Equal(t, d.Outputs, d2.Outputs)
}

func TestWordIndex(t *testing.T) {
	path := writeFile(t, "word_index.json", `{"the": 1, "movie": 2, "great": 3}`)

	w, err := LoadWordIndex(path)
	require.NoError(t, err)

	assert.Equal(t, 1+IndexFrom, w.ID("the"))
	assert.Equal(t, OOVID, w.ID("zyzzyva"))

	seq := []int{PadID, StartID, 1 + IndexFrom, 2 + IndexFrom, OOVID, 3 + IndexFrom}
	assert.Equal(t, "the movie ? great", w.Decode(seq))
}
