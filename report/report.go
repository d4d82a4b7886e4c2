package report

import (
	"fmt"
	"strings"

	"github.com/stblake/quagmire/crib"
	"github.com/stblake/quagmire/dictionary"
	"github.com/stblake/quagmire/solver"
	"github.com/stblake/quagmire/utils"
)

// Candidate is a cycleword length proposed by the estimator.
type Candidate struct {
	Length          int     `json:"length" yaml:"length"`
	MeanIoC         float64 `json:"mean_ioc" yaml:"mean_ioc"`
	Score           float64 `json:"score" yaml:"score"`
	WordLengthScore float64 `json:"word_length_score" yaml:"word_length_score"`
	Selected        bool    `json:"selected" yaml:"selected"`
	// Conflict describes the crib contradiction ruling this length out.
	Conflict string `json:"conflict,omitempty" yaml:"conflict,omitempty"`
}

func newCandidate(c utils.KeyCandidate, selected bool) Candidate {
	return Candidate{
		Length:          c.Length,
		MeanIoC:         c.MeanIoC,
		Score:           c.Score,
		WordLengthScore: c.WordLengthScore,
		Selected:        selected,
	}
}

// Estimate ranks every cycleword length of a cipher text.
type Estimate struct {
	Ciphertext string      `json:"ciphertext" yaml:"ciphertext"`
	IoC        float64     `json:"ioc" yaml:"ioc"`
	Candidates []Candidate `json:"candidates" yaml:"candidates"`
}

// NewEstimate ranks lengths 1 to maxLen of ct, marking those that pass the
// nSigma and iocFloor thresholds. Lengths that c rules out are marked with
// the conflict but stay selected; the solver decides whether to skip them.
func NewEstimate(ct []int, c crib.Crib, maxLen int, nSigma, iocFloor float64) Estimate {
	chosen := map[int]bool{}
	for _, k := range utils.EstimateCyclewordLengths(ct, maxLen, nSigma, iocFloor) {
		chosen[k.Length] = true
	}
	e := Estimate{
		Ciphertext: utils.Chr(ct),
		IoC:        utils.IndexOfCoincidence(ct),
	}
	for _, k := range utils.RankKeyLengths(ct, maxLen) {
		cand := newCandidate(k, chosen[k.Length])
		if ok, conflict := crib.Satisfied(ct, c, k.Length); !ok {
			cand.Conflict = conflict.String()
		}
		e.Candidates = append(e.Candidates, cand)
	}
	return e
}

type Stats struct {
	solver.Stats `yaml:",inline"`
	PerSecond    float64 `json:"per_second" yaml:"per_second"`
}

// Report is the presentation form of a solver result.
type Report struct {
	RunID      string `json:"run_id" yaml:"run_id"`
	Source     string `json:"source,omitempty" yaml:"source,omitempty"`
	Type       string `json:"type" yaml:"type"`
	TypeNumber int    `json:"type_number" yaml:"type_number"`
	Variant    bool   `json:"variant" yaml:"variant"`
	Partial    bool   `json:"partial,omitempty" yaml:"partial,omitempty"`

	Score       float64            `json:"score" yaml:"score"`
	Combination solver.Combination `json:"combination" yaml:"combination"`

	Ciphertext        string `json:"ciphertext" yaml:"ciphertext"`
	Crib              string `json:"crib,omitempty" yaml:"crib,omitempty"`
	PlaintextKeyword  string `json:"plaintext_keyword" yaml:"plaintext_keyword"`
	CiphertextKeyword string `json:"ciphertext_keyword" yaml:"ciphertext_keyword"`
	Cycleword         string `json:"cycleword" yaml:"cycleword"`
	Plaintext         string `json:"plaintext" yaml:"plaintext"`
	Tableau           string `json:"-" yaml:"-"`

	Breakdown solver.Breakdown `json:"breakdown" yaml:"breakdown"`
	Stats     Stats            `json:"stats" yaml:"stats"`

	Candidates []Candidate        `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Skipped    []solver.Skip      `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Top        []solver.Summary   `json:"top,omitempty" yaml:"top,omitempty"`
	Words      []dictionary.Match `json:"words,omitempty" yaml:"words,omitempty"`
	WatchWords []string           `json:"watch_words,omitempty" yaml:"watch_words,omitempty"`

	// LanguageConfidence is the detector's confidence that the plaintext is
	// English; nil when not computed.
	LanguageConfidence *float64 `json:"language_confidence,omitempty" yaml:"language_confidence,omitempty"`

	cribMask  []bool
	annotated bool
}

// New builds a report for res. source names where the cipher text came
// from and may be empty.
func New(res *solver.Result, source string) Report {
	sp := res.Type.Spec()
	r := Report{
		RunID:             res.RunID,
		Source:            source,
		Type:              res.Type.String(),
		TypeNumber:        int(res.Type),
		Variant:           res.Variant,
		Partial:           res.Partial,
		Score:             res.Score,
		Combination:       res.Combination,
		Ciphertext:        utils.Chr(res.Ciphertext),
		PlaintextKeyword:  res.State.Plaintext.String(),
		CiphertextKeyword: res.State.Ciphertext.String(),
		Cycleword:         utils.Chr(res.State.Cycleword),
		Plaintext:         res.Plaintext(),
		Tableau:           res.State.Tableau(sp.Beaufort),
		Breakdown:         res.Breakdown,
		Stats:             Stats{Stats: res.Stats, PerSecond: res.Stats.Rate()},
		Skipped:           res.Skipped,
		Top:               res.Top,
		cribMask:          make([]bool, len(res.Ciphertext)),
	}
	if len(res.Crib) > 0 {
		r.Crib = res.Crib.Mask(len(res.Ciphertext))
		for _, e := range res.Crib {
			r.cribMask[e.Pos] = true
		}
	}
	for _, c := range res.Candidates {
		r.Candidates = append(r.Candidates, newCandidate(c, true))
	}
	return r
}

// Annotate records dictionary hits and watch words found in the plaintext.
func (r *Report) Annotate(dict *dictionary.Dictionary, watch []string) {
	if dict != nil {
		r.Words = dict.Find(r.Plaintext)
		r.annotated = true
	}
	r.WatchWords = dictionary.WatchWords(r.Plaintext, watch)
}

func (r *Report) SetLanguageConfidence(v float64) {
	r.LanguageConfidence = &v
}

// Summary is a single comma separated line for grepping across many runs.
func (r *Report) Summary() string {
	fields := []string{fmt.Sprintf("%.2f", r.Score)}
	if r.annotated {
		fields = append(fields, fmt.Sprint(len(r.Words)))
	}
	fields = append(fields, fmt.Sprint(r.TypeNumber))
	if r.Source != "" {
		fields = append(fields, r.Source)
	}
	fields = append(fields,
		r.Ciphertext,
		r.PlaintextKeyword,
		r.CiphertextKeyword,
		r.Cycleword,
		r.Plaintext)
	fields = append(fields, r.WatchWords...)
	return ">>> " + strings.Join(fields, ", ")
}
