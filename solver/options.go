package solver

import (
	"errors"
	"fmt"

	"github.com/stblake/quagmire/cipher"
	"github.com/stblake/quagmire/utils"
)

var ErrInvalidOptions = errors.New("invalid solver options")

// Weights scale the four terms of the score.
type Weights struct {
	NGram   float64
	Crib    float64
	IoC     float64
	Entropy float64
}

func DefaultWeights() Weights {
	return Weights{NGram: 12, Crib: 36, IoC: 1, Entropy: 1}
}

func (w Weights) Sum() float64 {
	return w.NGram + w.Crib + w.IoC + w.Entropy
}

// Options control one run of the solver.
type Options struct {
	Type    cipher.Type
	Variant bool

	HillClimbs int
	Restarts   int

	BacktrackProb   float64
	KeywordPermProb float64
	SlipProb        float64

	Weights Weights

	// Free keywords are tried at every length in [MinKeywordLen, MaxKeywordLen]
	// unless pinned by PlaintextKeywordLen or CiphertextKeywordLen.
	MinKeywordLen        int
	MaxKeywordLen        int
	PlaintextKeywordLen  int
	CiphertextKeywordLen int

	// PlaintextKeyword and CiphertextKeyword fix a keyword instead of
	// searching for it.
	PlaintextKeyword  string
	CiphertextKeyword string

	// CyclewordLen skips estimation when non-zero.
	CyclewordLen    int
	MaxCyclewordLen int
	NSigma          float64
	IoCFloor        float64

	// SkipInfeasible drops cycleword lengths whose cribs clash within a
	// column. When false the clash is only logged.
	SkipInfeasible bool
	// FrequencyWeighted picks keyword positions in proportion to English
	// letter frequency.
	FrequencyWeighted bool

	Workers int
	Seed    int64
	TopN    int
}

func DefaultOptions() Options {
	return Options{
		Type:            cipher.Quagmire3,
		HillClimbs:      1000,
		Restarts:        1,
		BacktrackProb:   0.01,
		KeywordPermProb: 0.01,
		SlipProb:        0.0005,
		Weights:         DefaultWeights(),
		MinKeywordLen:   5,
		MaxKeywordLen:   11,
		MaxCyclewordLen: 20,
		NSigma:          1.0,
		IoCFloor:        0.047,
		SkipInfeasible:  true,
		Workers:         1,
		TopN:            5,
	}
}

func probability(name string, p float64) error {
	if p < 0 || p > 1 {
		return fmt.Errorf("%w: %s %v not in [0,1]", ErrInvalidOptions, name, p)
	}
	return nil
}

func keywordLen(name string, n int, zeroOK bool) error {
	if n == 0 && zeroOK {
		return nil
	}
	if n < 1 || n > utils.AlphabetSize {
		return fmt.Errorf("%w: %s %d not in [1,%d]", ErrInvalidOptions, name, n, utils.AlphabetSize)
	}
	return nil
}

// Validate reports the first inconsistent setting.
func (o Options) Validate() error {
	if !o.Type.Valid() {
		return fmt.Errorf("%w: unknown cipher type %d", ErrInvalidOptions, int(o.Type))
	}
	if o.HillClimbs < 1 || o.Restarts < 1 {
		return fmt.Errorf("%w: hill climbs and restarts must be positive", ErrInvalidOptions)
	}
	if err := probability("backtrack probability", o.BacktrackProb); err != nil {
		return err
	}
	if err := probability("keyword perm probability", o.KeywordPermProb); err != nil {
		return err
	}
	if err := probability("slip probability", o.SlipProb); err != nil {
		return err
	}
	w := o.Weights
	if w.NGram < 0 || w.Crib < 0 || w.IoC < 0 || w.Entropy < 0 || w.Sum() <= 0 {
		return fmt.Errorf("%w: weights must be non-negative with a positive sum", ErrInvalidOptions)
	}
	if err := keywordLen("min keyword length", o.MinKeywordLen, false); err != nil {
		return err
	}
	if err := keywordLen("max keyword length", o.MaxKeywordLen, false); err != nil {
		return err
	}
	if o.MinKeywordLen > o.MaxKeywordLen {
		return fmt.Errorf("%w: min keyword length %d > max %d", ErrInvalidOptions, o.MinKeywordLen, o.MaxKeywordLen)
	}
	if err := keywordLen("plaintext keyword length", o.PlaintextKeywordLen, true); err != nil {
		return err
	}
	if err := keywordLen("ciphertext keyword length", o.CiphertextKeywordLen, true); err != nil {
		return err
	}
	if o.CyclewordLen < 0 || o.MaxCyclewordLen < 1 {
		return fmt.Errorf("%w: cycleword lengths must be positive", ErrInvalidOptions)
	}
	if o.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive", ErrInvalidOptions)
	}
	if o.TopN < 0 {
		return fmt.Errorf("%w: top-n must not be negative", ErrInvalidOptions)
	}
	if _, err := o.spec(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

// spec returns the cipher description with any fixed keywords applied.
func (o Options) spec() (cipher.Spec, error) {
	sp := o.Type.Spec()
	var err error
	if o.PlaintextKeyword != "" {
		if sp, err = sp.WithPlaintextKeyword(o.PlaintextKeyword); err != nil {
			return sp, err
		}
	}
	if o.CiphertextKeyword != "" {
		if sp, err = sp.WithCiphertextKeyword(o.CiphertextKeyword); err != nil {
			return sp, err
		}
	}
	return sp, nil
}
