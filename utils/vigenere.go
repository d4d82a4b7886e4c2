package utils

import (
	"sort"
)

// KeyCandidate describes how well a candidate cycleword length explains the
// periodicity of a cipher text.
type KeyCandidate struct {
	Length  int
	MeanIoC float64
	// Score is the z-score of MeanIoC across all candidate lengths.
	Score float64
	// WordLengthScore weights MeanIoC by how common English words of this
	// length are. Diagnostic only, it does not affect selection.
	WordLengthScore float64
}

// columns splits text into n interleaved columns, position i going to column
// i mod n.
func columns(text []int, n int) [][]int {
	cols := make([][]int, n)
	for i := range cols {
		cols[i] = make([]int, 0, len(text)/n+1)
	}
	for i, c := range text {
		cols[i%n] = append(cols[i%n], c)
	}
	return cols
}

// MeanIoC is the mean index of coincidence of the columns of text for a
// cycleword of length n. When n is the true period every column is a simple
// substitution and the mean approaches the English IoC.
func MeanIoC(text []int, n int) float64 {
	if n <= 0 {
		return 0
	}
	var total float64
	for _, col := range columns(text, n) {
		total += IndexOfCoincidence(col)
	}
	return total / float64(n)
}

// RankKeyLengths scores every cycleword length in [1, maxLen], returned in
// length order.
func RankKeyLengths(text []int, maxLen int) []KeyCandidate {
	if maxLen <= 0 {
		return nil
	}
	mu := make([]float64, maxLen)
	weighted := make([]float64, maxLen)
	for i := range mu {
		mu[i] = MeanIoC(text, i+1)
		if i < len(EnglishWordLengths) {
			weighted[i] = EnglishWordLengths[i] * mu[i]
		}
	}
	z := ZScores(mu)
	wz := ZScores(weighted)

	out := make([]KeyCandidate, maxLen)
	for i := range out {
		out[i] = KeyCandidate{
			Length:          i + 1,
			MeanIoC:         mu[i],
			Score:           z[i],
			WordLengthScore: wz[i],
		}
	}
	return out
}

// EstimateCyclewordLengths returns, best first, every length whose z-score
// exceeds nSigma and whose mean IoC exceeds iocFloor.
func EstimateCyclewordLengths(text []int, maxLen int, nSigma, iocFloor float64) []KeyCandidate {
	ranked := RankKeyLengths(text, maxLen)
	out := make([]KeyCandidate, 0, len(ranked))
	for _, c := range ranked {
		if c.Score > nSigma && c.MeanIoC > iocFloor {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
