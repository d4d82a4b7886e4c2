package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pemistahl/lingua-go"
	"github.com/spf13/cobra"

	"github.com/stblake/quagmire/dictionary"
	"github.com/stblake/quagmire/report"
	"github.com/stblake/quagmire/solver"
	"github.com/stblake/quagmire/utils"
)

type plaintext string

func (p plaintext) Text() string {
	return string(p)
}

func runSolve(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ct, err := loadCiphertext(cfg.Input.CiphertextFile, cfg.Input.MaxCipherLen)
	if err != nil {
		return err
	}
	c, err := loadCrib(cfg.Input.CribFile, len(ct))
	if err != nil {
		return err
	}
	table, err := loadTable(cfg.Input.NGramFile, cfg.Input.NGramSize)
	if err != nil {
		return err
	}
	var dict *dictionary.Dictionary
	if cfg.Input.DictionaryFile != "" {
		if dict, err = dictionary.LoadFile(cfg.Input.DictionaryFile); err != nil {
			return err
		}
		logger.Debug("loaded dictionary", "words", dict.Len())
	}

	opts := cfg.Options()
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	logger.Info("solving",
		"type", opts.Type,
		"variant", opts.Variant,
		"length", len(ct),
		"cribs", len(c),
		"seed", opts.Seed)

	res, err := solver.Solve(cmd.Context(), solver.Problem{
		Ciphertext: ct,
		Crib:       c,
		Table:      table,
	}, opts, solver.WithLogger(logger))
	if err != nil {
		return err
	}

	rep := report.New(res, filepath.Base(cfg.Input.CiphertextFile))
	rep.Annotate(dict, cfg.Output.WatchWords)
	if cfg.Output.LanguageConfidence {
		languageConfidence(cmd, &rep)
	}

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := report.Write(out, rep, format, colorFor(out)); err != nil {
		return err
	}

	if cfg.Output.MetricsFile != "" {
		if err := solver.WriteMetrics(cfg.Output.MetricsFile); err != nil {
			return err
		}
		logger.Debug("wrote metrics", "path", cfg.Output.MetricsFile)
	}
	return nil
}

// languageConfidence scores the winning plaintext and notes when another of
// the top candidates reads more like English.
func languageConfidence(cmd *cobra.Command, rep *report.Report) {
	ls := utils.NewLanguageScanner()
	rep.SetLanguageConfidence(ls.Confidence(rep.Plaintext, lingua.English))
	if len(rep.Top) < 2 {
		return
	}
	ch := make(chan utils.Texter, len(rep.Top))
	for _, s := range rep.Top {
		ch <- plaintext(s.Plaintext)
	}
	close(ch)
	best, scores := ls.MaxConfidence(cmd.Context(), lingua.English, ch)
	if best != nil && best.Text() != rep.Plaintext {
		logger.Info("a lower scoring candidate reads more like English",
			"plaintext", best.Text(),
			"confidences", scores)
	}
}

func colorFor(w any) bool {
	f, _ := w.(*os.File)
	return report.ColorEnabled(cfg.Output.Color, f)
}
