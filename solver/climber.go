package solver

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/stblake/quagmire/cipher"
	"github.com/stblake/quagmire/crib"
)

// cancelCheck is how many iterations pass between context checks inside a
// restart.
const cancelCheck = 4096

// Combination is one choice of cycleword and keyword lengths.
type Combination struct {
	CyclewordLen         int `json:"cycleword_len" yaml:"cycleword_len"`
	PlaintextKeywordLen  int `json:"plaintext_keyword_len" yaml:"plaintext_keyword_len"`
	CiphertextKeywordLen int `json:"ciphertext_keyword_len" yaml:"ciphertext_keyword_len"`
}

// Stats count what happened during a climb.
type Stats struct {
	Iterations     int           `json:"iterations" yaml:"iterations"`
	Restarts       int           `json:"restarts" yaml:"restarts"`
	Improvements   int           `json:"improvements" yaml:"improvements"`
	Slips          int           `json:"slips" yaml:"slips"`
	Backtracks     int           `json:"backtracks" yaml:"backtracks"`
	Contradictions int           `json:"contradictions" yaml:"contradictions"`
	Elapsed        time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Rate is iterations per second.
func (s Stats) Rate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Iterations) / s.Elapsed.Seconds()
}

func (s *Stats) Add(o Stats) {
	s.Iterations += o.Iterations
	s.Restarts += o.Restarts
	s.Improvements += o.Improvements
	s.Slips += o.Slips
	s.Backtracks += o.Backtracks
	s.Contradictions += o.Contradictions
	s.Elapsed += o.Elapsed
}

// Outcome is the best state a climb found.
type Outcome struct {
	Combination
	Score float64
	State *cipher.State
	Stats Stats
}

// Climber runs the shotgun hill climber for a single combination. A Climber
// owns its random source and buffers and must not be shared.
type Climber struct {
	spec        cipher.Spec
	scorer      *Scorer
	constrainer *crib.Constrainer
	combo       Combination
	opts        Options
	rng         *rand.Rand
	logger      *slog.Logger
}

func NewClimber(sp cipher.Spec, scorer *Scorer, ct []int, c crib.Crib, combo Combination, opts Options, rng *rand.Rand, logger *slog.Logger) *Climber {
	cl := &Climber{
		spec:   sp,
		scorer: scorer,
		combo:  combo,
		opts:   opts,
		rng:    rng,
		logger: logger,
	}
	if sp.Constrained {
		cl.constrainer = crib.NewConstrainer(ct, c, combo.CyclewordLen)
	}
	return cl
}

func (cl *Climber) random() *cipher.State {
	return cl.spec.RandomState(cl.rng, cl.combo.PlaintextKeywordLen, cl.combo.CiphertextKeywordLen, cl.combo.CyclewordLen)
}

// perturb applies one move to local. Keywords move when forced or with
// probability KeywordPermProb, otherwise one cycleword slot changes.
func (cl *Climber) perturb(local *cipher.State, mustPerturbKeyword bool) {
	if cl.spec.HasFreeKeyword() && (mustPerturbKeyword || cl.rng.Float64() < cl.opts.KeywordPermProb) {
		cl.spec.PerturbKeyword(cl.rng, local, cl.combo.PlaintextKeywordLen, cl.combo.CiphertextKeywordLen, cl.opts.FrequencyWeighted)
		return
	}
	local.PerturbCycleword(cl.rng)
}

// Run climbs until the iteration budget is spent or ctx is done, and returns
// the best state seen.
func (cl *Climber) Run(ctx context.Context) Outcome {
	var (
		stats   Stats
		start   = time.Now()
		buf     = make([]int, len(cl.scorer.ct))
		current = cipher.NewState(cl.combo.CyclewordLen)
		local   = cipher.NewState(cl.combo.CyclewordLen)
		best    = cipher.NewState(cl.combo.CyclewordLen)

		currentScore, bestScore float64
		hasBest                 bool
	)

RESTART:
	for n := 0; n < cl.opts.Restarts; n++ {
		if ctx.Err() != nil {
			break
		}
		stats.Restarts++

		if hasBest && cl.rng.Float64() < cl.opts.BacktrackProb {
			stats.Backtracks++
			current.CopyFrom(best)
			currentScore = bestScore
		} else {
			current.CopyFrom(cl.random())
			currentScore = cl.scorer.Score(current, buf)
		}
		if !hasBest || currentScore > bestScore {
			best.CopyFrom(current)
			bestScore = currentScore
			hasBest = true
		}

		mustPerturbKeyword := true
		for i := 0; i < cl.opts.HillClimbs; i++ {
			if i%cancelCheck == cancelCheck-1 && ctx.Err() != nil {
				break RESTART
			}
			stats.Iterations++

			local.CopyFrom(current)
			cl.perturb(local, mustPerturbKeyword)

			if cl.constrainer != nil {
				mustPerturbKeyword = false
				if cl.constrainer.Solve(local, cl.opts.Variant, cl.spec.Beaufort) {
					stats.Contradictions++
					mustPerturbKeyword = true
				}
			}

			localScore := cl.scorer.Score(local, buf)
			if localScore > currentScore {
				stats.Improvements++
				current.CopyFrom(local)
				currentScore = localScore
			} else if cl.rng.Float64() < cl.opts.SlipProb {
				stats.Slips++
				current.CopyFrom(local)
				currentScore = localScore
			}

			if currentScore > bestScore {
				best.CopyFrom(current)
				bestScore = currentScore
			}
		}
		cl.logger.Debug("restart finished",
			"combination", cl.combo,
			"restart", n,
			"best_score", bestScore)
	}

	stats.Elapsed = time.Since(start)
	return Outcome{
		Combination: cl.combo,
		Score:       bestScore,
		State:       best,
		Stats:       stats,
	}
}
