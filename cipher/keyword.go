package cipher

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"

	"github.com/stblake/quagmire/utils"
)

// Keyword is a mixed alphabet: the distinct letters of a keyword in order of
// first appearance followed by the unused letters in ascending order. It is
// always a permutation of 0..25.
type Keyword [utils.AlphabetSize]int

func Straight() Keyword {
	var k Keyword
	for i := range k {
		k[i] = i
	}
	return k
}

// NewKeyword builds the mixed alphabet for word. It returns the alphabet and
// the number of distinct letters in word.
func NewKeyword(word string) (Keyword, int, error) {
	letters, err := utils.Ord(word)
	if err != nil {
		return Keyword{}, 0, err
	}
	var (
		k    Keyword
		seen [utils.AlphabetSize]bool
		n    int
	)
	for _, c := range letters {
		if seen[c] {
			continue
		}
		seen[c] = true
		k[n] = c
		n++
	}
	prefix := n
	for c := 0; c < utils.AlphabetSize; c++ {
		if !seen[c] {
			k[n] = c
			n++
		}
	}
	return k, prefix, nil
}

// RandomKeyword draws n distinct letters and pads with the remainder.
func RandomKeyword(rng *rand.Rand, n int) Keyword {
	n = min(max(n, 0), utils.AlphabetSize)
	perm := rng.Perm(utils.AlphabetSize)
	var k Keyword
	copy(k[:], perm[:n])
	slices.Sort(perm[n:])
	copy(k[n:], perm[n:])
	return k
}

// Index returns the inverse permutation: Index()[letter] is the position of
// letter in k.
func (k *Keyword) Index() [utils.AlphabetSize]int {
	var inv [utils.AlphabetSize]int
	for i, c := range k {
		inv[c] = i
	}
	return inv
}

func (k *Keyword) Valid() bool {
	var seen [utils.AlphabetSize]bool
	for _, c := range k {
		if c < 0 || c >= utils.AlphabetSize || seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}

// Canonical reports whether the entries after the first n are ascending.
func (k *Keyword) Canonical(n int) bool {
	return k.Valid() && slices.IsSorted(k[min(n, utils.AlphabetSize):])
}

func (k Keyword) String() string {
	return utils.Chr(k[:])
}

// Prefix is the active part of the keyword.
func (k Keyword) Prefix(n int) string {
	return utils.Chr(k[:min(max(n, 0), utils.AlphabetSize)])
}

// Perturb applies one random move to a keyword of length n. One time in five
// two active letters swap places. Otherwise an active letter is exchanged
// with one from the padding and the padding is kept in ascending order. With
// weighted set, positions are picked in proportion to the English frequency
// of the letter they hold.
func (k *Keyword) Perturb(rng *rand.Rand, n int, weighted bool) {
	n = min(max(n, 1), utils.AlphabetSize)
	pick := func(lo, hi int) int {
		if weighted {
			return k.weightedPosition(rng, lo, hi)
		}
		return lo + rng.Intn(hi-lo)
	}

	if n == utils.AlphabetSize || rng.Float64() < 0.2 {
		i, j := rng.Intn(n), rng.Intn(n)
		k[i], k[j] = k[j], k[i]
		return
	}

	i := pick(0, n)
	j := pick(n, utils.AlphabetSize)
	displaced := k[i]
	k[i] = k[j]

	// drop slot j from the padding, then insert the displaced letter in order
	last := utils.AlphabetSize - 1
	copy(k[j:], k[j+1:])
	pos, _ := slices.BinarySearch(k[n:last], displaced)
	pos += n
	copy(k[pos+1:], k[pos:last])
	k[pos] = displaced
}

func (k *Keyword) weightedPosition(rng *rand.Rand, lo, hi int) int {
	var total float64
	for i := lo; i < hi; i++ {
		total += utils.EnglishMonograms[k[i]]
	}
	r := rng.Float64() * total
	var cum float64
	for i := lo; i < hi; i++ {
		cum += utils.EnglishMonograms[k[i]]
		if cum > r {
			return i
		}
	}
	return hi - 1
}

// ParseCycleword reads a cycleword such as "KRYPTOS".
func ParseCycleword(s string) ([]int, error) {
	cw, err := utils.Ord(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("cycleword: %w", err)
	}
	if len(cw) == 0 {
		return nil, fmt.Errorf("cycleword: %w", utils.ErrEmptyText)
	}
	return cw, nil
}
