package solver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/stblake/quagmire/cipher"
	"github.com/stblake/quagmire/crib"
	"github.com/stblake/quagmire/ngram"
	"github.com/stblake/quagmire/utils"
)

var (
	ErrEmptyCiphertext    = errors.New("empty cipher text")
	ErrInvalidCrib        = errors.New("invalid crib")
	ErrCribTooLong        = crib.ErrTooLong
	ErrNoTable            = errors.New("no n-gram table")
	ErrTableSize          = ngram.ErrTableSize
	ErrNoCyclewordLengths = errors.New("no cycleword length candidates")
	ErrNoCombinations     = errors.New("no keyword length combination left to search")
)

// Problem is the read-only input of a run.
type Problem struct {
	Ciphertext []int
	Crib       crib.Crib
	Table      *ngram.Table
}

func (p Problem) Validate() error {
	if len(p.Ciphertext) == 0 {
		return ErrEmptyCiphertext
	}
	for i, c := range p.Ciphertext {
		if c < 0 || c >= utils.AlphabetSize {
			return fmt.Errorf("cipher text symbol %d at position %d out of range", c, i)
		}
	}
	if err := p.Crib.Validate(len(p.Ciphertext)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCrib, err)
	}
	if p.Table == nil {
		return ErrNoTable
	}
	return nil
}

type settings struct {
	logger *slog.Logger
	runID  string
}

type Option func(*settings)

func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(s *settings) {
		s.runID = id
	}
}

// lengths lists the keyword lengths tried for a rule. A keyword that takes
// the cycleword length and is pinned to another length yields nothing.
func lengths(rule cipher.LengthRule, pinned, fixed, cycleword int, o Options) []int {
	switch rule {
	case cipher.LengthNominal:
		return []int{1}
	case cipher.LengthCycleword:
		if pinned > 0 && pinned != cycleword {
			return nil
		}
		return []int{cycleword}
	case cipher.LengthFixed:
		return []int{fixed}
	}
	if pinned > 0 {
		return []int{pinned}
	}
	out := make([]int, 0, o.MaxKeywordLen-o.MinKeywordLen+1)
	for n := o.MinKeywordLen; n <= o.MaxKeywordLen; n++ {
		out = append(out, n)
	}
	return out
}

// Combinations expands cycleword lengths into every keyword length pair the
// cipher type allows.
func Combinations(sp cipher.Spec, cyclewordLens []int, o Options) []Combination {
	var out []Combination
	for _, L := range cyclewordLens {
		for _, pt := range lengths(sp.PlaintextLength, o.PlaintextKeywordLen, sp.PlaintextKeyLen, L, o) {
			cts := []int{pt}
			if sp.CiphertextLength != cipher.LengthTied {
				cts = lengths(sp.CiphertextLength, o.CiphertextKeywordLen, sp.CiphertextKeyLen, L, o)
			}
			for _, ct := range cts {
				out = append(out, Combination{CyclewordLen: L, PlaintextKeywordLen: pt, CiphertextKeywordLen: ct})
			}
		}
	}
	return out
}

// Solve searches every feasible combination of cycleword and keyword
// lengths and returns the best solution. Combinations run in parallel on
// o.Workers goroutines, each with its own random source drawn from o.Seed.
// A cancelled run returns the best solution found so far with Partial set.
func Solve(ctx context.Context, p Problem, o Options, opts ...Option) (*Result, error) {
	st := settings{logger: slog.Default()}
	for _, opt := range opts {
		opt(&st)
	}
	if st.runID == "" {
		st.runID = uuid.NewString()
	}
	logger := st.logger.With("run_id", st.runID)

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	sp, _ := o.spec()
	typ := o.Type.String()

	res := &Result{
		RunID:      st.runID,
		Type:       o.Type,
		Variant:    o.Variant,
		Ciphertext: p.Ciphertext,
		Crib:       p.Crib,
	}

	var cyclewordLens []int
	if o.CyclewordLen > 0 {
		cyclewordLens = []int{o.CyclewordLen}
	} else {
		res.Candidates = utils.EstimateCyclewordLengths(p.Ciphertext, o.MaxCyclewordLen, o.NSigma, o.IoCFloor)
		for _, c := range res.Candidates {
			cyclewordLens = append(cyclewordLens, c.Length)
		}
		logger.Info("estimated cycleword lengths", "lengths", cyclewordLens)
	}
	if len(cyclewordLens) == 0 {
		return nil, ErrNoCyclewordLengths
	}

	feasible := make([]int, 0, len(cyclewordLens))
	for _, L := range cyclewordLens {
		ok, conflict := crib.Satisfied(p.Ciphertext, p.Crib, L)
		if ok {
			feasible = append(feasible, L)
			continue
		}
		if !o.SkipInfeasible {
			logger.Warn("cribs clash, searching anyway", "cycleword_len", L, "conflict", conflict.String())
			feasible = append(feasible, L)
			continue
		}
		logger.Info("cribs clash, skipping", "cycleword_len", L, "conflict", conflict.String())
		res.Skipped = append(res.Skipped, Skip{CyclewordLen: L, Reason: conflict.String()})
	}

	combos := Combinations(sp, feasible, o)
	combinationsTotal.WithLabelValues(typ, "infeasible").Add(float64(len(Combinations(sp, cyclewordLens, o)) - len(combos)))
	if len(combos) == 0 {
		return nil, ErrNoCombinations
	}
	res.Combinations = len(combos)

	master := rand.New(rand.NewSource(o.Seed))
	seeds := make([]int64, len(combos))
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	scorer := NewScorer(p.Ciphertext, p.Crib, p.Table, o.Weights, o.Variant, sp.Beaufort)
	outcomes := make([]Outcome, len(combos))
	start := time.Now()

	g := new(errgroup.Group)
	g.SetLimit(o.Workers)
	for i, combo := range combos {
		i, combo := i, combo
		g.Go(func() error {
			if ctx.Err() != nil {
				combinationsTotal.WithLabelValues(typ, "cancelled").Inc()
				return nil
			}
			cl := NewClimber(sp, scorer, p.Ciphertext, p.Crib, combo, o, rand.New(rand.NewSource(seeds[i])), logger)
			out := cl.Run(ctx)
			if out.Stats.Restarts == 0 {
				combinationsTotal.WithLabelValues(typ, "cancelled").Inc()
				return nil
			}
			outcomes[i] = out
			recordOutcome(typ, out)
			combinationsTotal.WithLabelValues(typ, "solved").Inc()
			logger.Debug("combination finished",
				"cycleword_len", combo.CyclewordLen,
				"plaintext_keyword_len", combo.PlaintextKeywordLen,
				"ciphertext_keyword_len", combo.CiphertextKeywordLen,
				"score", out.Score,
				"iterations", out.Stats.Iterations,
				"rate", out.Stats.Rate())
			return nil
		})
	}
	_ = g.Wait()

	best, top := fold(outcomes, scorer, o.TopN)
	if best < 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNoCombinations
	}
	res.Partial = ctx.Err() != nil
	for _, out := range outcomes {
		if out.State == nil {
			res.Partial = true
			continue
		}
		res.Stats.Add(out.Stats)
	}
	res.Stats.Elapsed = time.Since(start)

	b := outcomes[best]
	res.Score = b.Score
	res.Combination = b.Combination
	res.State = b.State
	res.Breakdown = scorer.Evaluate(b.State)
	res.Top = top
	bestScore.WithLabelValues(typ).Set(res.Score)

	logger.Info("solve finished",
		"score", res.Score,
		"cycleword_len", b.CyclewordLen,
		"plaintext_keyword_len", b.PlaintextKeywordLen,
		"ciphertext_keyword_len", b.CiphertextKeywordLen,
		"combinations", res.Combinations,
		"partial", res.Partial,
		"elapsed", res.Stats.Elapsed)
	return res, nil
}
