package solver

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stblake/quagmire/cipher"
	"github.com/stblake/quagmire/crib"
	"github.com/stblake/quagmire/ngram"
	"github.com/stblake/quagmire/utils"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCombinations(t *testing.T) {
	o := DefaultOptions()
	o.MinKeywordLen, o.MaxKeywordLen = 5, 7
	tests := []struct {
		name  string
		typ   cipher.Type
		opts  func(*Options)
		lens  []int
		want  int
		check func(t *testing.T, c Combination)
	}{
		{
			name: "vigenere pins keywords to cycleword",
			typ:  cipher.Vigenere,
			lens: []int{4, 9},
			want: 2,
			check: func(t *testing.T, c Combination) {
				assert.Equal(t, c.CyclewordLen, c.PlaintextKeywordLen)
				assert.Equal(t, c.CyclewordLen, c.CiphertextKeywordLen)
			},
		},
		{
			name: "vigenere pinned keyword length keeps matching period",
			typ:  cipher.Vigenere,
			opts: func(o *Options) { o.PlaintextKeywordLen, o.CiphertextKeywordLen = 1, 1 },
			lens: []int{1, 4, 9},
			want: 1,
			check: func(t *testing.T, c Combination) {
				assert.Equal(t, Combination{CyclewordLen: 1, PlaintextKeywordLen: 1, CiphertextKeywordLen: 1}, c)
			},
		},
		{
			name: "vigenere pinned keyword length rules out other periods",
			typ:  cipher.Vigenere,
			opts: func(o *Options) { o.PlaintextKeywordLen, o.CiphertextKeywordLen = 1, 1 },
			lens: []int{4, 9},
			want: 0,
		},
		{
			name: "vigenere pinned plaintext only",
			typ:  cipher.Vigenere,
			opts: func(o *Options) { o.PlaintextKeywordLen = 9 },
			lens: []int{4, 9},
			want: 1,
			check: func(t *testing.T, c Combination) {
				assert.Equal(t, 9, c.CyclewordLen)
			},
		},
		{
			name: "beaufort is nominal",
			typ:  cipher.Beaufort,
			lens: []int{4, 9},
			want: 2,
			check: func(t *testing.T, c Combination) {
				assert.Equal(t, 1, c.PlaintextKeywordLen)
				assert.Equal(t, 1, c.CiphertextKeywordLen)
			},
		},
		{
			name: "quagmire1 sweeps plaintext",
			typ:  cipher.Quagmire1,
			lens: []int{4},
			want: 3,
			check: func(t *testing.T, c Combination) {
				assert.Equal(t, 1, c.CiphertextKeywordLen)
			},
		},
		{
			name: "quagmire2 sweeps ciphertext",
			typ:  cipher.Quagmire2,
			lens: []int{4},
			want: 3,
			check: func(t *testing.T, c Combination) {
				assert.Equal(t, 1, c.PlaintextKeywordLen)
			},
		},
		{
			name: "quagmire3 ties keywords",
			typ:  cipher.Quagmire3,
			lens: []int{4, 5},
			want: 6,
			check: func(t *testing.T, c Combination) {
				assert.Equal(t, c.PlaintextKeywordLen, c.CiphertextKeywordLen)
			},
		},
		{
			name: "quagmire4 sweeps both",
			typ:  cipher.Quagmire4,
			lens: []int{4},
			want: 9,
		},
		{
			name: "quagmire4 pinned plaintext",
			typ:  cipher.Quagmire4,
			opts: func(o *Options) { o.PlaintextKeywordLen = 8 },
			lens: []int{4},
			want: 3,
			check: func(t *testing.T, c Combination) {
				assert.Equal(t, 8, c.PlaintextKeywordLen)
			},
		},
		{
			name: "fixed keyword",
			typ:  cipher.Quagmire3,
			opts: func(o *Options) { o.PlaintextKeyword = "KRYPTOS" },
			lens: []int{4},
			want: 1,
			check: func(t *testing.T, c Combination) {
				assert.Equal(t, 7, c.PlaintextKeywordLen)
				assert.Equal(t, 7, c.CiphertextKeywordLen)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := o
			o.Type = tt.typ
			if tt.opts != nil {
				tt.opts(&o)
			}
			sp, err := o.spec()
			require.NoError(t, err)
			got := Combinations(sp, tt.lens, o)
			require.Len(t, got, tt.want)
			for _, c := range got {
				if tt.check != nil {
					tt.check(t, c)
				}
			}
		})
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{name: "hill climbs", modify: func(o *Options) { o.HillClimbs = 0 }},
		{name: "restarts", modify: func(o *Options) { o.Restarts = 0 }},
		{name: "slip", modify: func(o *Options) { o.SlipProb = 1.5 }},
		{name: "backtrack", modify: func(o *Options) { o.BacktrackProb = -0.1 }},
		{name: "weights", modify: func(o *Options) { o.Weights = Weights{} }},
		{name: "negative weight", modify: func(o *Options) { o.Weights.IoC = -1 }},
		{name: "keyword range", modify: func(o *Options) { o.MinKeywordLen, o.MaxKeywordLen = 9, 4 }},
		{name: "keyword too long", modify: func(o *Options) { o.MaxKeywordLen = 27 }},
		{name: "pinned keyword", modify: func(o *Options) { o.CiphertextKeywordLen = 30 }},
		{name: "workers", modify: func(o *Options) { o.Workers = 0 }},
		{name: "type", modify: func(o *Options) { o.Type = 42 }},
		{name: "tied fixed keyword", modify: func(o *Options) { o.CiphertextKeyword = "KRYPTOS" }},
		{name: "bad fixed keyword", modify: func(o *Options) { o.PlaintextKeyword = "KRY-PTOS" }},
	}
	require.NoError(t, DefaultOptions().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.modify(&o)
			assert.ErrorIs(t, o.Validate(), ErrInvalidOptions)
		})
	}
}

func TestSolve_Errors(t *testing.T) {
	tbl := uniformTable(t, 2)
	tests := []struct {
		name    string
		problem Problem
		modify  func(*Options)
		wantErr error
		notErr  error
	}{
		{
			name:    "empty",
			problem: Problem{Table: tbl},
			wantErr: ErrEmptyCiphertext,
		},
		{
			name: "crib outside",
			problem: Problem{
				Ciphertext: utils.MustOrd("ABCD"),
				Crib:       crib.Crib{{Pos: 9, Letter: 1}},
				Table:      tbl,
			},
			wantErr: ErrCribTooLong,
		},
		{
			name: "crib letter outside alphabet",
			problem: Problem{
				Ciphertext: utils.MustOrd("ABCD"),
				Crib:       crib.Crib{{Pos: 1, Letter: 30}},
				Table:      tbl,
			},
			wantErr: crib.ErrLetter,
		},
		{
			name: "crib letter is not reported as too long",
			problem: Problem{
				Ciphertext: utils.MustOrd("ABCD"),
				Crib:       crib.Crib{{Pos: 1, Letter: 30}},
				Table:      tbl,
			},
			wantErr: ErrInvalidCrib,
			notErr:  ErrCribTooLong,
		},
		{
			name:    "pinned keyword length excludes period",
			problem: Problem{Ciphertext: utils.MustOrd("ABCDABCD"), Table: tbl},
			modify: func(o *Options) {
				o.Type = cipher.Vigenere
				o.CyclewordLen = 4
				o.PlaintextKeywordLen, o.CiphertextKeywordLen = 1, 1
			},
			wantErr: ErrNoCombinations,
		},
		{
			name:    "no table",
			problem: Problem{Ciphertext: utils.MustOrd("ABCD")},
			wantErr: ErrNoTable,
		},
		{
			name:    "flat text",
			problem: Problem{Ciphertext: utils.MustOrd("AAAAAAAAAAAAAAAAAAAA"), Table: tbl},
			wantErr: ErrNoCyclewordLengths,
		},
		{
			name: "crib clash",
			problem: Problem{
				Ciphertext: utils.MustOrd("AA"),
				Crib:       crib.Crib{{Pos: 0, Letter: 1}, {Pos: 1, Letter: 2}},
				Table:      tbl,
			},
			modify:  func(o *Options) { o.CyclewordLen = 1 },
			wantErr: ErrNoCombinations,
		},
		{
			name:    "options",
			problem: Problem{Ciphertext: utils.MustOrd("ABCD"), Table: tbl},
			modify:  func(o *Options) { o.Workers = 0 },
			wantErr: ErrInvalidOptions,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			if tt.modify != nil {
				tt.modify(&o)
			}
			_, err := Solve(context.Background(), tt.problem, o, WithLogger(quietLogger()))
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.notErr != nil {
				assert.NotErrorIs(t, err, tt.notErr)
			}
		})
	}
}

func TestSolve_Caesar(t *testing.T) {
	// HELP shifted by 8
	ct := utils.MustOrd("PMTX")
	c, err := crib.Parse("H___", len(ct))
	require.NoError(t, err)
	p := Problem{Ciphertext: ct, Crib: c, Table: uniformTable(t, 2)}

	// brute force over the 26 shifts
	sc := NewScorer(ct, c, p.Table, DefaultWeights(), false, false)
	bestShift, best := -1, -1.0
	for shift := 0; shift < 26; shift++ {
		s := cipher.NewState(1)
		s.Cycleword[0] = shift
		if score := sc.Evaluate(s).Score; score > best {
			bestShift, best = shift, score
		}
	}
	assert.Equal(t, 8, bestShift)

	o := DefaultOptions()
	o.Type = cipher.Vigenere
	o.CyclewordLen = 1
	o.HillClimbs = 2000
	o.Seed = 1
	res, err := Solve(context.Background(), p, o, WithLogger(quietLogger()), WithRunID("caesar"))
	require.NoError(t, err)
	assert.Equal(t, "HELP", res.Plaintext())
	assert.Equal(t, []int{8}, res.State.Cycleword)
	assert.Equal(t, "caesar", res.RunID)
	assert.InDelta(t, best, res.Score, 1e-12)
	assert.Equal(t, 1, res.Combinations)
	assert.False(t, res.Partial)
	assert.Equal(t, 2000, res.Stats.Iterations)
}

func TestSolve_Quagmire3FixedKeyword(t *testing.T) {
	pt := utils.MustOrd("BETWEENSUBTLESHADINGANDTHEABSENCEOFLIGHTLIESTHENUANCEOFIQLUSION")
	k, _, err := cipher.NewKeyword("KRYPTOS")
	require.NoError(t, err)
	truth := &cipher.State{Plaintext: k, Ciphertext: k, Cycleword: utils.MustOrd("KOMITET")}
	ct := make([]int, len(pt))
	cipher.Encrypt(ct, pt, truth, false)

	var c crib.Crib
	for i := 0; i < 14; i++ {
		c = append(c, crib.Entry{Pos: i, Letter: pt[i]})
	}
	tbl, err := ngram.FromText(2, pt)
	require.NoError(t, err)

	o := DefaultOptions()
	o.Type = cipher.Quagmire3
	o.PlaintextKeyword = "KRYPTOS"
	o.CyclewordLen = 7
	o.HillClimbs = 50
	res, err := Solve(context.Background(), Problem{Ciphertext: ct, Crib: c, Table: tbl}, o, WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, utils.Chr(pt), res.Plaintext())
	assert.Equal(t, "KOMITET", utils.Chr(res.State.Cycleword))
	assert.Equal(t, 14, res.Breakdown.CribMatches)
}

func TestSolve_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	corpus := utils.SampleEnglish(rng, 3000)
	tbl, err := ngram.FromText(2, corpus)
	require.NoError(t, err)

	truth := cipher.Quagmire1.Spec().RandomState(rng, 5, 1, 4)
	pt := utils.SampleEnglish(rng, 60)
	ct := make([]int, len(pt))
	cipher.Encrypt(ct, pt, truth, false)

	o := DefaultOptions()
	o.Type = cipher.Quagmire1
	o.CyclewordLen = 4
	o.MinKeywordLen, o.MaxKeywordLen = 4, 6
	o.HillClimbs = 300
	o.Seed = 99

	run := func(workers int) *Result {
		o := o
		o.Workers = workers
		res, err := Solve(context.Background(), Problem{Ciphertext: ct, Table: tbl}, o, WithLogger(quietLogger()))
		require.NoError(t, err)
		return res
	}
	a, b := run(1), run(3)
	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, a.State, b.State)
	assert.Equal(t, a.Combination, b.Combination)
	assert.Len(t, a.Top, 3)
	for i := 1; i < len(a.Top); i++ {
		assert.GreaterOrEqual(t, a.Top[i-1].Score, a.Top[i].Score)
	}
	assert.Equal(t, a.Score, a.Top[0].Score)
	assert.True(t, a.State.Plaintext.Canonical(a.Combination.PlaintextKeywordLen))
}

func TestSolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := DefaultOptions()
	o.CyclewordLen = 3
	p := Problem{Ciphertext: utils.MustOrd("ABCDEFGHIJ"), Table: uniformTable(t, 2)}
	_, err := Solve(ctx, p, o, WithLogger(quietLogger()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolve_EstimatedLengths(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	pt := utils.SampleEnglish(rng, 400)
	s := cipher.NewState(3)
	copy(s.Cycleword, utils.MustOrd("KEY"))
	ct := make([]int, len(pt))
	cipher.Encrypt(ct, pt, s, false)

	o := DefaultOptions()
	o.Type = cipher.Vigenere
	o.MaxCyclewordLen = 10
	o.HillClimbs = 200
	res, err := Solve(context.Background(), Problem{Ciphertext: ct, Table: uniformTable(t, 1)}, o, WithLogger(quietLogger()))
	require.NoError(t, err)
	require.NotEmpty(t, res.Candidates)

	var lengths []int
	for _, c := range res.Candidates {
		lengths = append(lengths, c.Length)
	}
	assert.Contains(t, lengths, 3)
	assert.Equal(t, len(res.Candidates), res.Combinations)
}

func TestClimber_Stats(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	ct := utils.SampleEnglish(rng, 40)
	c := crib.Crib{{Pos: 0, Letter: 4}, {Pos: 5, Letter: 19}, {Pos: 10, Letter: 7}}
	sp := cipher.Quagmire4.Spec()
	o := DefaultOptions()
	o.HillClimbs = 500
	o.Restarts = 4
	o.BacktrackProb = 0.5
	sc := NewScorer(ct, c, uniformTable(t, 2), o.Weights, false, false)
	combo := Combination{CyclewordLen: 5, PlaintextKeywordLen: 6, CiphertextKeywordLen: 7}

	out := NewClimber(sp, sc, ct, c, combo, o, rng, quietLogger()).Run(context.Background())
	assert.Equal(t, 2000, out.Stats.Iterations)
	assert.Equal(t, 4, out.Stats.Restarts)
	assert.True(t, out.State.Plaintext.Canonical(6))
	assert.True(t, out.State.Ciphertext.Canonical(7))
	assert.Len(t, out.State.Cycleword, 5)

	buf := make([]int, len(ct))
	assert.InDelta(t, out.Score, sc.Score(out.State, buf), 1e-12)
}
