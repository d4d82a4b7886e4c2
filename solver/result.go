package solver

import (
	"cmp"
	"slices"

	"github.com/stblake/quagmire/cipher"
	"github.com/stblake/quagmire/crib"
	"github.com/stblake/quagmire/utils"
)

// Summary is a short record of one combination's best state.
type Summary struct {
	Combination `yaml:",inline"`
	Score       float64 `json:"score" yaml:"score"`
	Plaintext   string  `json:"plaintext" yaml:"plaintext"`
	Cycleword   string  `json:"cycleword" yaml:"cycleword"`
}

// Skip records a cycleword length ruled out by the cribs.
type Skip struct {
	CyclewordLen int    `json:"cycleword_len" yaml:"cycleword_len"`
	Reason       string `json:"reason" yaml:"reason"`
}

// Result is the best solution over every combination tried.
type Result struct {
	RunID   string
	Type    cipher.Type
	Variant bool

	Ciphertext []int
	Crib       crib.Crib

	Score       float64
	Combination Combination
	State       *cipher.State
	Breakdown   Breakdown

	// Candidates are the cycleword lengths proposed by the estimator; empty
	// when the length was given.
	Candidates []utils.KeyCandidate
	Skipped    []Skip
	Top        []Summary

	Combinations int
	// Partial is set when the run was cancelled before every combination
	// finished.
	Partial bool
	Stats   Stats
}

func (r *Result) Plaintext() string {
	return utils.Chr(r.Breakdown.Plaintext)
}

// fold picks the best outcome, ties going to the earliest, and summarises
// the topN best.
func fold(outcomes []Outcome, scorer *Scorer, topN int) (best int, top []Summary) {
	best = -1
	for i, o := range outcomes {
		if o.State == nil {
			continue
		}
		if best < 0 || o.Score > outcomes[best].Score {
			best = i
		}
	}

	order := make([]int, 0, len(outcomes))
	for i, o := range outcomes {
		if o.State != nil {
			order = append(order, i)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(outcomes[b].Score, outcomes[a].Score)
	})
	if len(order) > topN {
		order = order[:topN]
	}
	for _, i := range order {
		o := outcomes[i]
		top = append(top, Summary{
			Combination: o.Combination,
			Score:       o.Score,
			Plaintext:   utils.Chr(scorer.Evaluate(o.State).Plaintext),
			Cycleword:   utils.Chr(o.State.Cycleword),
		})
	}
	return best, top
}
