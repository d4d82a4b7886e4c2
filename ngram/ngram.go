package ngram

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/stblake/quagmire/utils"
)

const MaxSize = 5

var (
	ErrSize      = errors.New("n-gram size out of range")
	ErrTableSize = errors.New("n-gram table size does not match n-gram order")
)

// Table holds log-scaled, sum-normalised frequencies for every n-gram over
// the alphabet. The index of an n-gram treats its letters as base 26 digits
// with the first letter least significant, so TH is 19 + 7*26.
type Table struct {
	n      int
	values []float32
	// scale is 26^n.
	scale float64
}

func cells(n int) int {
	out := 1
	for i := 0; i < n; i++ {
		out *= utils.AlphabetSize
	}
	return out
}

func checkSize(n int) error {
	if n < 1 || n > MaxSize {
		return fmt.Errorf("%w: %d not in [1,%d]", ErrSize, n, MaxSize)
	}
	return nil
}

// New wraps an already normalised table. The table is not copied.
func New(n int, values []float32) (*Table, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}
	if want := cells(n); len(values) != want {
		return nil, fmt.Errorf("%w: got %d cells, want %d for n=%d", ErrTableSize, len(values), want, n)
	}
	return &Table{n: n, values: values, scale: float64(len(values))}, nil
}

// fromCounts log-scales and normalises raw counts in place.
func fromCounts(n int, counts []float64) (*Table, error) {
	values := make([]float32, len(counts))
	var total float64
	for i, c := range counts {
		counts[i] = math.Log1p(c)
		total += counts[i]
	}
	if total > 0 {
		for i, c := range counts {
			values[i] = float32(c / total)
		}
	}
	return New(n, values)
}

// Load reads lines of the form "NGRAM COUNT". N-grams absent from the input
// have a count of zero. Blank lines are ignored.
func Load(r io.Reader, n int) (*Table, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}
	counts := make([]float64, cells(n))
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: want 2 fields, got %d", line, len(fields))
		}
		if len(fields[0]) != n {
			return nil, fmt.Errorf("line %d: %q is not a %d-gram", line, fields[0], n)
		}
		gram, err := utils.Ord(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		count, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || count < 0 {
			return nil, fmt.Errorf("line %d: bad count %q", line, fields[1])
		}
		counts[Index(gram)] = count
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading n-grams: %w", err)
	}
	return fromCounts(n, counts)
}

func LoadFile(path string, n int) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Load(f, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// FromText counts every overlapping n-gram of corpus and normalises the
// counts the same way Load does.
func FromText(n int, corpus []int) (*Table, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}
	counts := make([]float64, cells(n))
	for i := 0; i+n <= len(corpus); i++ {
		counts[Index(corpus[i:i+n])]++
	}
	return fromCounts(n, counts)
}

// Index returns the table cell for gram.
func Index(gram []int) int {
	idx, base := 0, 1
	for _, c := range gram {
		idx += c * base
		base *= utils.AlphabetSize
	}
	return idx
}

func (t *Table) Size() int {
	return t.n
}

func (t *Table) Value(gram []int) float32 {
	return t.values[Index(gram)]
}

// Score averages the table over the len(text)-n+1 overlapping windows of text
// and scales by 26^n, so a uniform table scores 1 at any length. Text shorter
// than n scores 0.
func (t *Table) Score(text []int) float64 {
	windows := len(text) - t.n + 1
	if windows <= 0 {
		return 0
	}
	var sum float64
	for i := 0; i < windows; i++ {
		idx, base := 0, 1
		for j := 0; j < t.n; j++ {
			idx += text[i+j] * base
			base *= utils.AlphabetSize
		}
		sum += float64(t.values[idx])
	}
	return t.scale * sum / float64(windows)
}
