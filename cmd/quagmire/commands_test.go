package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stblake/quagmire/cipher"
	"github.com/stblake/quagmire/config"
	"github.com/stblake/quagmire/solver"
	"github.com/stblake/quagmire/utils"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newFlagSet() *pflag.FlagSet {
	d := config.Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addCipherFlags(fs, d)
	addInputFlags(fs, d)
	addSearchFlags(fs, d)
	addReportFlags(fs, d)
	fs.Bool("verbose", false, "")
	return fs
}

func TestApplyFlags(t *testing.T) {
	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{
		"--type", "4",
		"--variant",
		"--cipher", "k4.txt",
		"--keyword-len", "7",
		"--hill-climbs", "500",
		"--weight-crib", "10",
		"--watch", "berlin,clock",
		"--verbose",
	}))

	c := config.Default()
	require.NoError(t, applyFlags(fs, &c))
	assert.Equal(t, cipher.Quagmire4, c.Cipher.Type)
	assert.True(t, c.Cipher.Variant)
	assert.Equal(t, "k4.txt", c.Input.CiphertextFile)
	assert.Equal(t, 7, c.Keywords.PlaintextLen)
	assert.Equal(t, 7, c.Keywords.CiphertextLen)
	assert.Equal(t, 500, c.Search.HillClimbs)
	assert.Equal(t, 10., c.Weights.Crib)
	assert.Equal(t, []string{"berlin", "clock"}, c.Output.WatchWords)
	assert.Equal(t, "debug", c.Logging.Level)

	// unset flags leave the config alone
	d := config.Default()
	assert.Equal(t, d.Search.Restarts, c.Search.Restarts)
	assert.Equal(t, d.Weights.NGram, c.Weights.NGram)
}

func TestApplyFlags_BadType(t *testing.T) {
	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--type", "quagmire9"}))
	c := config.Default()
	err := applyFlags(fs, &c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--type")
}

func TestInputs(t *testing.T) {
	ctPath := writeFile(t, "ct.txt", "\n  obkr  \nIGNORED\n")
	ct, err := loadCiphertext(ctPath, 10)
	require.NoError(t, err)
	assert.Equal(t, "OBKR", utils.Chr(ct))

	_, err = loadCiphertext(ctPath, 3)
	assert.ErrorIs(t, err, utils.ErrTextTooLong)

	_, err = loadCiphertext("", 10)
	assert.ErrorIs(t, err, ErrNoCiphertext)

	_, err = loadCiphertext(writeFile(t, "blank.txt", "\n\n"), 10)
	assert.ErrorIs(t, err, utils.ErrEmptyText)

	c, err := loadCrib(writeFile(t, "crib.txt", "__K_\n"), len(ct))
	require.NoError(t, err)
	require.Len(t, c, 1)
	assert.Equal(t, 2, c[0].Pos)

	c, err = loadCrib("", len(ct))
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = loadTable("", 4)
	assert.ErrorIs(t, err, solver.ErrNoTable)

	tbl, err := loadTable(writeFile(t, "bigrams.txt", "TH 10\nHE 5\n"), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Size())
}

func TestKeyState(t *testing.T) {
	tests := []struct {
		name    string
		typ     cipher.Type
		ptKey   string
		ctKey   string
		wantErr bool
	}{
		{name: "vigenere", typ: cipher.Vigenere},
		{name: "beaufort", typ: cipher.Beaufort},
		{name: "quagmire3", typ: cipher.Quagmire3, ptKey: "KRYPTOS"},
		{name: "quagmire4", typ: cipher.Quagmire4, ptKey: "KRYPTOS", ctKey: "PALIMPSEST"},
		{name: "quagmire3 missing keyword", typ: cipher.Quagmire3, wantErr: true},
		{name: "quagmire4 missing ciphertext keyword", typ: cipher.Quagmire4, ptKey: "KRYPTOS", wantErr: true},
		{name: "quagmire3 tied", typ: cipher.Quagmire3, ptKey: "KRYPTOS", ctKey: "ABSCISSA", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := config.Default()
			c.Cipher.Type = tt.typ
			c.Cipher.PlaintextKeyword = tt.ptKey
			c.Cipher.CiphertextKeyword = tt.ctKey
			s, sp, err := keyState(c, "KOMITET")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.typ, sp.Type)
			assert.Equal(t, "KOMITET", utils.Chr(s.Cycleword))
			if tt.ptKey != "" {
				assert.True(t, strings.HasPrefix(s.Plaintext.String(), "KRYPTOS"))
			}
			if tt.typ == cipher.Quagmire3 {
				assert.Equal(t, s.Plaintext, s.Ciphertext)
			}
		})
	}
}

// execute runs the root command; package state persists between calls, so
// each test uses its own subcommand.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestSolveCommand(t *testing.T) {
	ctPath := writeFile(t, "ct.txt", "PMTX\n")
	cribPath := writeFile(t, "crib.txt", "H___\n")
	ngramPath := writeFile(t, "bigrams.txt", "HE 100\nEL 50\nLP 20\n")
	metricsPath := filepath.Join(t.TempDir(), "metrics.prom")

	out := execute(t, "solve", "-q",
		"--output", "json",
		"--type", "vigenere",
		"--cipher", ctPath,
		"--crib", cribPath,
		"--ngram-file", ngramPath,
		"--ngram-size", "2",
		"--cycleword-len", "1",
		"--hill-climbs", "2000",
		"--seed", "1",
		"--watch", "help",
		"--metrics-file", metricsPath)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "HELP", got["plaintext"])
	assert.Equal(t, "I", got["cycleword"])
	assert.Equal(t, []any{"HELP"}, got["watch_words"])

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "quagmire_climb_iterations_total")
}

func TestEncryptDecryptCommands(t *testing.T) {
	key := []string{"--type", "quagmire3", "--plaintext-keyword", "KRYPTOS", "--cycleword", "KOMITET"}

	ct := strings.TrimSpace(execute(t, append([]string{"encrypt", "-q"}, append(key, "attack at dawn")...)...))
	assert.Len(t, ct, len("ATTACKATDAWN"))
	assert.NotEqual(t, "ATTACKATDAWN", ct)

	pt := strings.TrimSpace(execute(t, append([]string{"decrypt", "-q"}, append(key, ct)...)...))
	assert.Equal(t, "ATTACKATDAWN", pt)
}
