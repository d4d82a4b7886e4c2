package utils

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyText   = errors.New("empty text")
	ErrTextTooLong = errors.New("text too long")
)

// Ord maps letters to alphabet indices, A -> 0 ... Z -> 25. Lower case is
// folded to upper case; anything else is an error.
func Ord(s string) ([]int, error) {
	out := make([]int, 0, len(s))
	for i, r := range s {
		switch {
		case 'A' <= r && r <= 'Z':
			out = append(out, int(r-'A'))
		case 'a' <= r && r <= 'z':
			out = append(out, int(r-'a'))
		default:
			return nil, fmt.Errorf("invalid character %q at position %d", r, i)
		}
	}
	return out, nil
}

func MustOrd(s string) []int {
	out, err := Ord(s)
	if err != nil {
		panic(err)
	}
	return out
}

// Chr maps alphabet indices back to upper case letters.
func Chr(indices []int) string {
	var sb strings.Builder
	sb.Grow(len(indices))
	for _, i := range indices {
		sb.WriteByte(byte('A' + i))
	}
	return sb.String()
}

// ParseText validates a single line of cipher text and returns its indices.
func ParseText(line string, maxLen int) ([]int, error) {
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return nil, ErrEmptyText
	}
	if maxLen > 0 && len(line) > maxLen {
		return nil, fmt.Errorf("%w: %d > %d", ErrTextTooLong, len(line), maxLen)
	}
	return Ord(line)
}
