package ngram

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stblake/quagmire/utils"
)

func TestIndex(t *testing.T) {
	tests := []struct {
		name string
		gram string
		want int
	}{
		{name: "A", gram: "A", want: 0},
		{name: "Z", gram: "Z", want: 25},
		{name: "TH", gram: "TH", want: 19 + 7*26},
		{name: "AAB", gram: "AAB", want: 26 * 26},
		{name: "ZZ", gram: "ZZ", want: 26*26 - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Index(utils.MustOrd(tt.gram)))
		})
	}
}

func TestNew(t *testing.T) {
	_, err := New(2, make([]float32, 26))
	assert.ErrorIs(t, err, ErrTableSize)

	_, err = New(0, nil)
	assert.ErrorIs(t, err, ErrSize)

	_, err = New(6, nil)
	assert.ErrorIs(t, err, ErrSize)

	tbl, err := New(1, make([]float32, 26))
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Size())
}

func TestLoad(t *testing.T) {
	input := "TH\t3\nHE 1\n\n"
	tbl, err := Load(strings.NewReader(input), 2)
	require.NoError(t, err)

	th := math.Log(4)
	he := math.Log(2)
	total := th + he
	assert.InDelta(t, th/total, tbl.Value(utils.MustOrd("TH")), 1e-6)
	assert.InDelta(t, he/total, tbl.Value(utils.MustOrd("HE")), 1e-6)
	assert.Equal(t, float32(0), tbl.Value(utils.MustOrd("QZ")))

	var sum float64
	for _, v := range tbl.values {
		sum += float64(v)
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		n     int
	}{
		{name: "wrong length", input: "THE 4\n", n: 2},
		{name: "non letter", input: "T1 4\n", n: 2},
		{name: "bad count", input: "TH x\n", n: 2},
		{name: "negative count", input: "TH -1\n", n: 2},
		{name: "missing count", input: "TH\n", n: 2},
		{name: "bad size", input: "", n: 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input), tt.n)
			assert.Error(t, err)
		})
	}
}

func TestLoad_LineNumber(t *testing.T) {
	_, err := Load(strings.NewReader("TH 1\nHE 2\nX? 3\n"), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestScore(t *testing.T) {
	uniform := make([]float32, 26*26)
	for i := range uniform {
		uniform[i] = 1. / float32(len(uniform))
	}
	tbl, err := New(2, uniform)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, tbl.Score(utils.MustOrd("HELLOWORLD")), 1e-5)
	assert.InDelta(t, 1.0, tbl.Score(utils.MustOrd("HE")), 1e-5)
	assert.Equal(t, 0., tbl.Score(utils.MustOrd("H")))
	assert.Equal(t, 0., tbl.Score(nil))

	// only HE scores: HEHE has windows HE EH HE
	single := make([]float32, 26*26)
	single[Index(utils.MustOrd("HE"))] = 0.5
	tbl, err = New(2, single)
	require.NoError(t, err)
	assert.InDelta(t, 676*0.5*2/3, tbl.Score(utils.MustOrd("HEHE")), 1e-4)
	assert.InDelta(t, 676*0.5, tbl.Score(utils.MustOrd("HE")), 1e-4)
}

func TestFromText(t *testing.T) {
	corpus := utils.MustOrd(strings.Repeat("THEQUICKBROWNFOXJUMPSOVERTHELAZYDOG", 10))
	tbl, err := FromText(3, corpus)
	require.NoError(t, err)

	english := tbl.Score(utils.MustOrd("THEQUICKBROWNFOX"))
	noise := tbl.Score(utils.MustOrd("XQZJVKWPXQZJVKWP"))
	assert.Greater(t, english, noise)
	assert.Equal(t, 0., noise)
}
