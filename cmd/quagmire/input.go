package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/stblake/quagmire/crib"
	"github.com/stblake/quagmire/ngram"
	"github.com/stblake/quagmire/solver"
	"github.com/stblake/quagmire/utils"
)

var ErrNoCiphertext = errors.New("no cipher text file, use --cipher")

// firstLine returns the first non-blank line of the file at path.
func firstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line, nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return "", fmt.Errorf("%s: %w", path, utils.ErrEmptyText)
}

func loadCiphertext(path string, maxLen int) ([]int, error) {
	if path == "" {
		return nil, ErrNoCiphertext
	}
	line, err := firstLine(path)
	if err != nil {
		return nil, err
	}
	ct, err := utils.ParseText(line, maxLen)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ct, nil
}

// loadCrib reads the crib at path. No path means no crib.
func loadCrib(path string, ctLen int) (crib.Crib, error) {
	if path == "" {
		return nil, nil
	}
	line, err := firstLine(path)
	if err != nil {
		return nil, err
	}
	c, err := crib.Parse(line, ctLen)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func loadTable(path string, n int) (*ngram.Table, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: use --ngram-file", solver.ErrNoTable)
	}
	return ngram.LoadFile(path, n)
}

// readText returns args[0], or the first line of stdin when there are no
// arguments.
func readText(args []string, stdin *os.File) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	sc := bufio.NewScanner(stdin)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if sc.Scan() {
		return sc.Text(), nil
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", utils.ErrEmptyText
}
