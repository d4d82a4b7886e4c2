package utils

import (
	"context"
	"math"

	"github.com/pemistahl/lingua-go"
)

// Tally counts the occurrences of each letter in text.
func Tally(text []int) [AlphabetSize]int {
	var counts [AlphabetSize]int
	for _, c := range text {
		counts[c]++
	}
	return counts
}

// IndexOfCoincidence is Friedman's statistic, sum f(f-1) / N(N-1). Texts of
// length <= 1 have an IoC of 0.
func IndexOfCoincidence(text []int) float64 {
	n := len(text)
	if n <= 1 {
		return 0
	}
	counts := Tally(text)
	var sum int
	for _, f := range counts {
		sum += f * (f - 1)
	}
	return float64(sum) / float64(n*(n-1))
}

// Entropy is the Shannon entropy of the letter distribution in nats.
func Entropy(text []int) float64 {
	n := len(text)
	if n <= 1 {
		return 0
	}
	counts := Tally(text)
	var h float64
	for _, f := range counts {
		if f == 0 {
			continue
		}
		p := float64(f) / float64(n)
		h -= p * math.Log(p)
	}
	return h
}

// ChiSquared compares the letter distribution of text against English.
func ChiSquared(text []int) float64 {
	if len(text) == 0 {
		return 0
	}
	counts := Tally(text)
	var chi float64
	for i, f := range counts {
		obs := float64(f) / float64(len(text))
		chi += (obs - EnglishMonograms[i]) * (obs - EnglishMonograms[i]) / EnglishMonograms[i]
	}
	return chi
}

func Mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var total float64
	for _, x := range v {
		total += x
	}
	return total / float64(len(v))
}

// StdDev is the population standard deviation.
func StdDev(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	mu := Mean(v)
	var dev float64
	for _, x := range v {
		dev += (x - mu) * (x - mu)
	}
	return math.Sqrt(dev / float64(len(v)))
}

// ZScores normalises v to zero mean and unit deviation. A constant vector
// normalises to all zeros.
func ZScores(v []float64) []float64 {
	out := make([]float64, len(v))
	mu, std := Mean(v), StdDev(v)
	if std == 0 {
		return out
	}
	for i, x := range v {
		out[i] = (x - mu) / std
	}
	return out
}

type LanguageScanner struct {
	detector lingua.LanguageDetector
}

func NewLanguageScanner() *LanguageScanner {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.English, lingua.French, lingua.German, lingua.Spanish, lingua.Italian).
		Build()
	return &LanguageScanner{
		detector: detector,
	}
}

type Texter interface {
	Text() string
}

// Confidence returns how confident the detector is that text is written in lang.
func (s *LanguageScanner) Confidence(text string, lang lingua.Language) float64 {
	return s.detector.ComputeLanguageConfidence(text, lang)
}

// MaxConfidence drains textCh and returns the candidate most likely to be
// written in lang, along with the confidence of every candidate in arrival
// order.
func (s *LanguageScanner) MaxConfidence(ctx context.Context, lang lingua.Language, textCh <-chan Texter) (Texter, []float64) {
	var (
		out     Texter
		currMax = -1.0
		scores  []float64
	)
PROCESS:
	for {
		select {
		case <-ctx.Done():
			break PROCESS
		case t, ok := <-textCh:
			if !ok {
				break PROCESS
			}
			result := s.Confidence(t.Text(), lang)
			scores = append(scores, result)
			if result > currMax {
				currMax = result
				out = t
			}
		}
	}
	return out, scores
}
