package solver

import (
	"math"

	"github.com/stblake/quagmire/cipher"
	"github.com/stblake/quagmire/crib"
	"github.com/stblake/quagmire/ngram"
	"github.com/stblake/quagmire/utils"
)

// Normalisation brings the score of a good solution of a 97 letter cipher
// to about 1 under the default weights. It was calibrated against an n-gram
// mean over len-n windows; ngram.Table.Score divides by len-n+1, which for a
// 97 letter cipher and n=5 lowers scores by about 1%.
const Normalisation = 3.41

// Scorer rates candidate states against one cipher text. It only reads its
// inputs and may be shared between goroutines.
type Scorer struct {
	ct       []int
	crib     crib.Crib
	table    *ngram.Table
	weights  Weights
	wsum     float64
	variant  bool
	beaufort bool
}

func NewScorer(ct []int, c crib.Crib, table *ngram.Table, w Weights, variant, beaufort bool) *Scorer {
	return &Scorer{
		ct:       ct,
		crib:     c,
		table:    table,
		weights:  w,
		wsum:     w.Sum(),
		variant:  variant,
		beaufort: beaufort,
	}
}

// Breakdown is a scored candidate with every term that went into the score.
type Breakdown struct {
	Score       float64 `json:"score" yaml:"score"`
	NGram       float64 `json:"ngram" yaml:"ngram"`
	Crib        float64 `json:"crib" yaml:"crib"`
	IoC         float64 `json:"ioc" yaml:"ioc"`
	Entropy     float64 `json:"entropy" yaml:"entropy"`
	RawIoC      float64 `json:"raw_ioc" yaml:"raw_ioc"`
	RawEntropy  float64 `json:"raw_entropy" yaml:"raw_entropy"`
	ChiSquared  float64 `json:"chi_squared" yaml:"chi_squared"`
	CribMatches int     `json:"crib_matches" yaml:"crib_matches"`
	CribTotal   int     `json:"crib_total" yaml:"crib_total"`
	Plaintext   []int   `json:"-" yaml:"-"`
}

func iocScore(ioc float64) float64 {
	d := utils.AlphabetSize*ioc - utils.EnglishNormalisedIoC
	return math.Exp(-d * d)
}

func entropyScore(h float64) float64 {
	d := h - utils.EnglishEntropy
	return math.Exp(-d * d)
}

func (sc *Scorer) cribScore(pt []int) (float64, int) {
	if len(sc.crib) == 0 {
		return 0, 0
	}
	n := sc.crib.Matches(pt)
	return float64(n) / float64(len(sc.crib)), n
}

func (sc *Scorer) combine(ng, cr, ioc, ent float64) float64 {
	w := sc.weights
	return (w.NGram*ng + w.Crib*cr + w.IoC*ioc + w.Entropy*ent) / sc.wsum / Normalisation
}

// Score deciphers the cipher text under s into buf and scores the result.
// buf must be as long as the cipher text.
func (sc *Scorer) Score(s *cipher.State, buf []int) float64 {
	cipher.Decipher(buf, sc.ct, s, sc.variant, sc.beaufort)
	cr, _ := sc.cribScore(buf)
	return sc.combine(
		sc.table.Score(buf),
		cr,
		iocScore(utils.IndexOfCoincidence(buf)),
		entropyScore(utils.Entropy(buf)),
	)
}

// Evaluate scores s into a fresh buffer and reports every term.
func (sc *Scorer) Evaluate(s *cipher.State) Breakdown {
	pt := make([]int, len(sc.ct))
	cipher.Decipher(pt, sc.ct, s, sc.variant, sc.beaufort)
	b := Breakdown{
		NGram:      sc.table.Score(pt),
		RawIoC:     utils.IndexOfCoincidence(pt),
		RawEntropy: utils.Entropy(pt),
		ChiSquared: utils.ChiSquared(pt),
		CribTotal:  len(sc.crib),
		Plaintext:  pt,
	}
	b.Crib, b.CribMatches = sc.cribScore(pt)
	b.IoC = iocScore(b.RawIoC)
	b.Entropy = entropyScore(b.RawEntropy)
	b.Score = sc.combine(b.NGram, b.Crib, b.IoC, b.Entropy)
	return b
}
