package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// ColorEnabled decides whether to colour output for mode auto, always or
// never. Auto colours terminals only.
func ColorEnabled(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if f == nil || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var (
	colorTeal  = lipgloss.Color("#2CD7C7")
	colorGold  = lipgloss.Color("#F4D03F")
	colorRed   = lipgloss.Color("#E74C3C")
	colorSlate = lipgloss.Color("#5C7A84")
)

type styles struct {
	title, label, muted, hit, miss, word lipgloss.Style
	color                                bool
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return styles{
		title: r.NewStyle().Bold(true).Foreground(colorTeal),
		label: r.NewStyle().Foreground(colorSlate),
		muted: r.NewStyle().Foreground(colorSlate),
		hit:   r.NewStyle().Bold(true).Foreground(colorTeal),
		miss:  r.NewStyle().Bold(true).Foreground(colorRed),
		word:  r.NewStyle().Underline(true).Foreground(colorGold),
		color: color,
	}
}

// Write renders r in format f. Colour only affects the text format.
func Write(w io.Writer, r Report, f Format, color bool) error {
	switch f {
	case FormatJSON, FormatYAML:
		return encode(w, r, f)
	case FormatText, "":
		_, err := io.WriteString(w, renderText(r, newStyles(w, color)))
		return err
	}
	return fmt.Errorf("unknown output format %q", f)
}

// WriteEstimate renders the length ranking in format f.
func WriteEstimate(w io.Writer, e Estimate, f Format, color bool) error {
	switch f {
	case FormatJSON, FormatYAML:
		return encode(w, e, f)
	case FormatText, "":
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
	st := newStyles(w, color)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("length", "mean ioc", "z", "word z", "", "crib")
	for _, c := range e.Candidates {
		mark := ""
		if c.Selected {
			mark = "*"
		}
		t.Row(
			fmt.Sprint(c.Length),
			fmt.Sprintf("%.4f", c.MeanIoC),
			fmt.Sprintf("%+.2f", c.Score),
			fmt.Sprintf("%+.2f", c.WordLengthScore),
			mark,
			c.Conflict)
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", st.title.Render(fmt.Sprintf("ioc %.4f, %d letters", e.IoC, len(e.Ciphertext))), t.Render())
	return err
}

func encode(w io.Writer, v any, f Format) error {
	if f == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// highlight marks crib positions in the plaintext, red where the crib does
// not hold, and underlines dictionary hits.
func highlight(r Report, st styles) string {
	if !st.color {
		return r.Plaintext
	}
	inWord := make([]bool, len(r.Plaintext))
	for _, m := range r.Words {
		for i := m.Pos; i < m.Pos+len(m.Word) && i < len(inWord); i++ {
			inWord[i] = true
		}
	}
	var sb strings.Builder
	for i := 0; i < len(r.Plaintext); i++ {
		ch := string(r.Plaintext[i])
		switch {
		case i < len(r.cribMask) && r.cribMask[i] && r.Crib[i] == r.Plaintext[i]:
			sb.WriteString(st.hit.Render(ch))
		case i < len(r.cribMask) && r.cribMask[i]:
			sb.WriteString(st.miss.Render(ch))
		case inWord[i]:
			sb.WriteString(st.word.Render(ch))
		default:
			sb.WriteString(ch)
		}
	}
	return sb.String()
}

func renderText(r Report, st styles) string {
	var sb strings.Builder
	line := func(label, format string, args ...any) {
		fmt.Fprintf(&sb, "%s %s\n", st.label.Render(fmt.Sprintf("%-20s", label)), fmt.Sprintf(format, args...))
	}

	title := fmt.Sprintf("%s score %.4f", r.Type, r.Score)
	if r.Partial {
		title += " (partial)"
	}
	sb.WriteString(st.title.Render(title) + "\n")
	line("run", "%s", r.RunID)
	line("type", "%s (%d) variant=%v", r.Type, r.TypeNumber, r.Variant)
	line("plaintext keyword", "%s (%d)", r.PlaintextKeyword, r.Combination.PlaintextKeywordLen)
	line("ciphertext keyword", "%s (%d)", r.CiphertextKeyword, r.Combination.CiphertextKeywordLen)
	line("cycleword", "%s (%d)", r.Cycleword, r.Combination.CyclewordLen)
	sb.WriteString("\n" + st.muted.Render(r.Tableau) + "\n")

	line("ciphertext", "%s", r.Ciphertext)
	if r.Crib != "" {
		line("crib", "%s", r.Crib)
	}
	line("plaintext", "%s", highlight(r, st))
	sb.WriteString("\n")

	b := r.Breakdown
	line("ngram", "%.4f", b.NGram)
	if b.CribTotal > 0 {
		line("crib", "%.4f (%d/%d)", b.Crib, b.CribMatches, b.CribTotal)
	}
	line("ioc", "%.4f (%.4f)", b.IoC, b.RawIoC)
	line("entropy", "%.4f (%.4f)", b.Entropy, b.RawEntropy)
	line("chi-squared", "%.4f", b.ChiSquared)
	if r.LanguageConfidence != nil {
		line("english confidence", "%.4f", *r.LanguageConfidence)
	}
	sb.WriteString("\n")

	s := r.Stats
	line("iterations", "%d (%.0fK/s)", s.Iterations, s.PerSecond/1000)
	line("restarts", "%d", s.Restarts)
	line("improvements", "%d", s.Improvements)
	line("slips", "%d", s.Slips)
	line("backtracks", "%d", s.Backtracks)
	if s.Iterations > 0 {
		line("contradictions", "%d (%.2f%%)", s.Contradictions, 100*float64(s.Contradictions)/float64(s.Iterations))
	}
	line("elapsed", "%s", s.Elapsed)

	if len(r.Skipped) > 0 {
		sb.WriteString("\n")
		for _, sk := range r.Skipped {
			line("skipped", "cycleword length %d: %s", sk.CyclewordLen, sk.Reason)
		}
	}
	if r.annotated {
		words := make([]string, len(r.Words))
		for i, m := range r.Words {
			words[i] = fmt.Sprintf("%s@%d", m.Word, m.Pos)
		}
		line("dictionary words", "%d %s", len(r.Words), strings.Join(words, " "))
	}
	if len(r.WatchWords) > 0 {
		line("watch words", "%s", st.word.Render(strings.Join(r.WatchWords, ", ")))
	}

	if len(r.Top) > 1 {
		t := table.New().
			Border(lipgloss.HiddenBorder()).
			Headers("cycleword", "pt keyword", "ct keyword", "score", "plaintext")
		for _, sum := range r.Top {
			t.Row(
				fmt.Sprint(sum.CyclewordLen),
				fmt.Sprint(sum.PlaintextKeywordLen),
				fmt.Sprint(sum.CiphertextKeywordLen),
				fmt.Sprintf("%.4f", sum.Score),
				sum.Plaintext)
		}
		sb.WriteString("\n" + st.title.Render("top combinations") + "\n")
		sb.WriteString(t.Render() + "\n")
	}

	sb.WriteString("\n" + r.Summary() + "\n")
	return sb.String()
}
