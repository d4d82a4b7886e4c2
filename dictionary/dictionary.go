package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// MinWordLen is the shortest word Find reports.
const MinWordLen = 3

// Dictionary is a set of upper case words.
type Dictionary struct {
	words  map[string]struct{}
	maxLen int
}

// Match is a dictionary word found in a text.
type Match struct {
	Word string `json:"word" yaml:"word"`
	Pos  int    `json:"pos" yaml:"pos"`
}

func New(words ...string) *Dictionary {
	d := &Dictionary{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		d.add(w)
	}
	return d
}

func validWord(w string) bool {
	if w == "" {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return false
		}
	}
	return true
}

func (d *Dictionary) add(w string) bool {
	w = strings.ToUpper(strings.TrimSpace(w))
	if !validWord(w) {
		return false
	}
	d.words[w] = struct{}{}
	d.maxLen = max(d.maxLen, len(w))
	return true
}

// Load reads one word per line. A line may carry a frequency after the word
// which is ignored. Lines holding anything but letters are skipped.
func Load(r io.Reader) (*Dictionary, error) {
	d := New()
	s := bufio.NewScanner(r)
	for s.Scan() {
		fields := strings.Fields(s.Text())
		if len(fields) == 0 {
			continue
		}
		d.add(fields[0])
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	return d, nil
}

func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func (d *Dictionary) Len() int {
	return len(d.words)
}

func (d *Dictionary) Contains(w string) bool {
	_, ok := d.words[strings.ToUpper(w)]
	return ok
}

// Find returns every dictionary word of at least MinWordLen letters that
// occurs in text, ordered by position and then length.
func (d *Dictionary) Find(text string) []Match {
	text = strings.ToUpper(text)
	var out []Match
	for i := 0; i+MinWordLen <= len(text); i++ {
		for n := MinWordLen; n <= d.maxLen && i+n <= len(text); n++ {
			if _, ok := d.words[text[i:i+n]]; ok {
				out = append(out, Match{Word: text[i : i+n], Pos: i})
			}
		}
	}
	return out
}

// WatchWords reports which of words occur in text, in the order given.
func WatchWords(text string, words []string) []string {
	text = strings.ToUpper(text)
	var out []string
	for _, w := range words {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w != "" && strings.Contains(text, w) {
			out = append(out, w)
		}
	}
	return out
}
