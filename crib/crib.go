package crib

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stblake/quagmire/utils"
)

// Unknown marks an unconstrained position in a crib line.
const Unknown = '_'

var (
	ErrTooLong        = errors.New("crib longer than cipher text")
	ErrLengthMismatch = errors.New("crib and cipher text lengths differ")
	ErrPosition       = errors.New("crib position outside cipher text")
	ErrLetter         = errors.New("crib letter outside alphabet")
)

// Entry pins the plaintext letter at one cipher text position.
type Entry struct {
	Pos    int
	Letter int
}

// Crib is a set of known plaintext letters ordered by position.
type Crib []Entry

// Parse reads a crib line over A-Z and '_' that lines up with a cipher text of
// length ctLen.
func Parse(line string, ctLen int) (Crib, error) {
	line = strings.TrimSpace(line)
	if len(line) > ctLen {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooLong, len(line), ctLen)
	}
	if len(line) != ctLen {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(line), ctLen)
	}
	var out Crib
	for i, r := range line {
		switch {
		case r == Unknown:
		case 'A' <= r && r <= 'Z':
			out = append(out, Entry{Pos: i, Letter: int(r - 'A')})
		case 'a' <= r && r <= 'z':
			out = append(out, Entry{Pos: i, Letter: int(r - 'a')})
		default:
			return nil, fmt.Errorf("invalid crib character %q at position %d", r, i)
		}
	}
	return out, nil
}

// Validate checks that every entry lies inside a cipher text of length ctLen
// and carries a letter of the alphabet.
func (c Crib) Validate(ctLen int) error {
	for _, e := range c {
		if e.Pos >= ctLen {
			return fmt.Errorf("%w: position %d, length %d", ErrTooLong, e.Pos, ctLen)
		}
		if e.Pos < 0 {
			return fmt.Errorf("%w: %d", ErrPosition, e.Pos)
		}
		if e.Letter < 0 || e.Letter >= utils.AlphabetSize {
			return fmt.Errorf("%w: %d at position %d", ErrLetter, e.Letter, e.Pos)
		}
	}
	return nil
}

// Matches counts the entries whose letter appears at their position in pt.
func (c Crib) Matches(pt []int) int {
	n := 0
	for _, e := range c {
		if pt[e.Pos] == e.Letter {
			n++
		}
	}
	return n
}

// Mask renders the crib over n positions with '_' for unknown letters.
func (c Crib) Mask(n int) string {
	b := []byte(strings.Repeat(string(Unknown), n))
	for _, e := range c {
		if e.Pos < n {
			b[e.Pos] = byte('A' + e.Letter)
		}
	}
	return string(b)
}

// Conflict describes two crib entries in the same column that cannot belong
// to one simple substitution.
type Conflict struct {
	Column int
	Pos    int
	Plain  int
	Cipher int
	// Other is the letter Plain or Cipher was already paired with.
	Other int
}

func (c *Conflict) String() string {
	return fmt.Sprintf("column %d: crib %c at position %d over %c clashes with %c",
		c.Column, 'A'+c.Plain, c.Pos, 'A'+c.Cipher, 'A'+c.Other)
}

// Satisfied checks that for a cycleword of length L the cribs in each column
// pair plaintext and cipher text letters one to one. Each column of a
// periodic cipher is a simple substitution, so anything else rules out L.
func Satisfied(ct []int, c Crib, L int) (bool, *Conflict) {
	if len(c) == 0 || L <= 0 {
		return true, nil
	}
	type column struct {
		ptToCt [utils.AlphabetSize]int
		ctToPt [utils.AlphabetSize]int
	}
	cols := make([]*column, L)
	for _, e := range c {
		j := e.Pos % L
		col := cols[j]
		if col == nil {
			col = &column{}
			for i := range col.ptToCt {
				col.ptToCt[i] = -1
				col.ctToPt[i] = -1
			}
			cols[j] = col
		}
		p, x := e.Letter, ct[e.Pos]
		if prev := col.ptToCt[p]; prev >= 0 && prev != x {
			return false, &Conflict{Column: j, Pos: e.Pos, Plain: p, Cipher: x, Other: prev}
		}
		if prev := col.ctToPt[x]; prev >= 0 && prev != p {
			return false, &Conflict{Column: j, Pos: e.Pos, Plain: p, Cipher: x, Other: prev}
		}
		col.ptToCt[p] = x
		col.ctToPt[x] = p
	}
	return true, nil
}
