package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stblake/quagmire/cipher"
	"github.com/stblake/quagmire/config"
	"github.com/stblake/quagmire/logging"
)

var (
	configPath string

	// cfg is the config file overlaid with any flags set on the command line.
	cfg    config.Config
	logger *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "quagmire",
		Short: "Solve Vigenère, Quagmire and Beaufort ciphers by hill climbing",
		Long: `quagmire recovers the keywords and cycleword of a periodic
polyalphabetic cipher from the cipher text, an optional crib and an n-gram
table of the plaintext language.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	solveCmd = &cobra.Command{
		Use:   "solve",
		Short: "Search for the key of a cipher text",
		Args:  cobra.NoArgs,
		RunE:  runSolve, // cmd_solve.go
	}

	estimateCmd = &cobra.Command{
		Use:   "estimate",
		Short: "Rank likely cycleword lengths by index of coincidence",
		Args:  cobra.NoArgs,
		RunE:  runEstimate, // cmd_estimate.go
	}

	encryptCmd = &cobra.Command{
		Use:   "encrypt [plaintext]",
		Short: "Encrypt text under a known key",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEncrypt, // cmd_encrypt.go
	}

	decryptCmd = &cobra.Command{
		Use:   "decrypt [ciphertext]",
		Short: "Decrypt text under a known key",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDecrypt, // cmd_encrypt.go
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
	}

	configInitCmd = &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration to a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigInit,
	}
)

func init() {
	d := config.Default()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file; flags override it")
	pf.BoolP("verbose", "v", false, "log at debug level")
	pf.BoolP("quiet", "q", false, "discard logs")
	pf.String("log-level", d.Logging.Level, "log level (debug, info, warn, error)")
	pf.Bool("log-json", d.Logging.JSON, "log as JSON")
	pf.StringP("output", "o", d.Output.Format, "output format (text, json, yaml)")
	pf.String("color", d.Output.Color, "colour output (auto, always, never)")

	addCipherFlags(solveCmd.Flags(), d)
	addInputFlags(solveCmd.Flags(), d)
	addSearchFlags(solveCmd.Flags(), d)
	addReportFlags(solveCmd.Flags(), d)

	ef := estimateCmd.Flags()
	ef.String("cipher", d.Input.CiphertextFile, "cipher text file, first line is read")
	ef.String("crib", d.Input.CribFile, "crib file, '_' for unknown positions")
	ef.Int("max-cipher-len", d.Input.MaxCipherLen, "longest cipher text accepted")
	ef.Int("max-cycleword-len", d.Cycleword.MaxLen, "longest cycleword length considered")
	ef.Float64("nsigma-threshold", d.Cycleword.NSigma, "z-score a cycleword length must exceed")
	ef.Float64("ioc-threshold", d.Cycleword.IoCFloor, "mean column IoC a cycleword length must exceed")

	for _, c := range []*cobra.Command{encryptCmd, decryptCmd} {
		addCipherFlags(c.Flags(), d)
		c.Flags().String("cycleword", "", "cycleword, e.g. KOMITET")
		_ = c.MarkFlagRequired("cycleword")
	}
	encryptCmd.Flags().Int("random", 0, "encrypt this many letters sampled from English instead of the argument")
	encryptCmd.Flags().Int64("seed", 0, "seed for --random, 0 seeds from the clock")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(solveCmd, estimateCmd, encryptCmd, decryptCmd, configCmd)
}

func addCipherFlags(fs *pflag.FlagSet, d config.Config) {
	fs.String("type", d.Cipher.Type.String(), "cipher type, by number or name: 0 vigenere, 1-4 quagmire1-4, 5 beaufort")
	fs.Bool("variant", d.Cipher.Variant, "variant cipher, encrypting and decrypting swap roles")
	fs.String("plaintext-keyword", d.Cipher.PlaintextKeyword, "fix the plaintext keyword instead of searching for it")
	fs.String("ciphertext-keyword", d.Cipher.CiphertextKeyword, "fix the ciphertext keyword instead of searching for it")
}

func addInputFlags(fs *pflag.FlagSet, d config.Config) {
	fs.String("cipher", d.Input.CiphertextFile, "cipher text file, first line is read")
	fs.String("crib", d.Input.CribFile, "crib file, '_' for unknown positions")
	fs.String("ngram-file", d.Input.NGramFile, "n-gram frequency file, one 'GRAM count' per line")
	fs.Int("ngram-size", d.Input.NGramSize, "n-gram size of --ngram-file")
	fs.String("dictionary", d.Input.DictionaryFile, "word list used to annotate the plaintext")
	fs.Int("max-cipher-len", d.Input.MaxCipherLen, "longest cipher text accepted")
}

func addSearchFlags(fs *pflag.FlagSet, d config.Config) {
	fs.Int("hill-climbs", d.Search.HillClimbs, "iterations per restart")
	fs.Int("restarts", d.Search.Restarts, "restarts per combination")
	fs.Float64("backtrack-prob", d.Search.BacktrackProb, "probability of restarting an iteration from the best state")
	fs.Float64("keyword-perm-prob", d.Search.KeywordPermProb, "probability of perturbing a keyword instead of the cycleword")
	fs.Float64("slip-prob", d.Search.SlipProb, "probability of accepting a worse state")
	fs.Bool("frequency-weighted", d.Search.FrequencyWeighted, "bias keyword perturbation towards common letters")
	fs.Bool("skip-infeasible", d.Search.SkipInfeasible, "skip cycleword lengths the crib rules out")
	fs.Int("workers", d.Search.Workers, "combinations searched in parallel")
	fs.Int64("seed", d.Search.Seed, "random seed, 0 seeds from the clock")
	fs.Int("top", d.Search.TopN, "best combinations listed in the report")

	fs.Int("keyword-len", 0, "fix both keyword lengths")
	fs.Int("plaintext-keyword-len", d.Keywords.PlaintextLen, "fix the plaintext keyword length")
	fs.Int("ciphertext-keyword-len", d.Keywords.CiphertextLen, "fix the ciphertext keyword length")
	fs.Int("min-keyword-len", d.Keywords.MinLen, "shortest keyword length swept")
	fs.Int("max-keyword-len", d.Keywords.MaxLen, "longest keyword length swept")

	fs.Int("cycleword-len", d.Cycleword.Len, "fix the cycleword length, 0 estimates it")
	fs.Int("max-cycleword-len", d.Cycleword.MaxLen, "longest cycleword length considered")
	fs.Float64("nsigma-threshold", d.Cycleword.NSigma, "z-score a cycleword length must exceed")
	fs.Float64("ioc-threshold", d.Cycleword.IoCFloor, "mean column IoC a cycleword length must exceed")

	fs.Float64("weight-ngram", d.Weights.NGram, "weight of the n-gram score")
	fs.Float64("weight-crib", d.Weights.Crib, "weight of the crib score")
	fs.Float64("weight-ioc", d.Weights.IoC, "weight of the IoC score")
	fs.Float64("weight-entropy", d.Weights.Entropy, "weight of the entropy score")
}

func addReportFlags(fs *pflag.FlagSet, d config.Config) {
	fs.StringSlice("watch", d.Output.WatchWords, "words to look for in the plaintext")
	fs.Bool("language-confidence", d.Output.LanguageConfidence, "report how English the plaintext reads, a weak diagnostic on unspaced text")
	fs.String("metrics-file", d.Output.MetricsFile, "write Prometheus metrics to this file")
}

// setup loads the config, applies flags and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	if configPath != "" {
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	} else {
		cfg = config.Default()
	}
	if err := applyFlags(cmd.Flags(), &cfg); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	logger = logging.New(logging.Config{
		Level:  level,
		JSON:   cfg.Logging.JSON,
		Quiet:  quiet,
		Output: cmd.ErrOrStderr(),
	})
	slog.SetDefault(logger)
	return nil
}

// applyFlags copies every flag set on the command line into c.
func applyFlags(fs *pflag.FlagSet, c *config.Config) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err == nil {
			err = applyFlag(fs, f.Name, c)
		}
	})
	return err
}

func applyFlag(fs *pflag.FlagSet, name string, c *config.Config) error {
	var err error
	switch name {
	case "type":
		var s string
		if s, err = fs.GetString(name); err == nil {
			c.Cipher.Type, err = cipher.ParseType(s)
		}
	case "variant":
		c.Cipher.Variant, err = fs.GetBool(name)
	case "plaintext-keyword":
		c.Cipher.PlaintextKeyword, err = fs.GetString(name)
	case "ciphertext-keyword":
		c.Cipher.CiphertextKeyword, err = fs.GetString(name)

	case "cipher":
		c.Input.CiphertextFile, err = fs.GetString(name)
	case "crib":
		c.Input.CribFile, err = fs.GetString(name)
	case "ngram-file":
		c.Input.NGramFile, err = fs.GetString(name)
	case "ngram-size":
		c.Input.NGramSize, err = fs.GetInt(name)
	case "dictionary":
		c.Input.DictionaryFile, err = fs.GetString(name)
	case "max-cipher-len":
		c.Input.MaxCipherLen, err = fs.GetInt(name)

	case "hill-climbs":
		c.Search.HillClimbs, err = fs.GetInt(name)
	case "restarts":
		c.Search.Restarts, err = fs.GetInt(name)
	case "backtrack-prob":
		c.Search.BacktrackProb, err = fs.GetFloat64(name)
	case "keyword-perm-prob":
		c.Search.KeywordPermProb, err = fs.GetFloat64(name)
	case "slip-prob":
		c.Search.SlipProb, err = fs.GetFloat64(name)
	case "frequency-weighted":
		c.Search.FrequencyWeighted, err = fs.GetBool(name)
	case "skip-infeasible":
		c.Search.SkipInfeasible, err = fs.GetBool(name)
	case "workers":
		c.Search.Workers, err = fs.GetInt(name)
	case "seed":
		c.Search.Seed, err = fs.GetInt64(name)
	case "top":
		c.Search.TopN, err = fs.GetInt(name)

	case "keyword-len":
		var n int
		if n, err = fs.GetInt(name); err == nil {
			c.Keywords.PlaintextLen, c.Keywords.CiphertextLen = n, n
		}
	case "plaintext-keyword-len":
		c.Keywords.PlaintextLen, err = fs.GetInt(name)
	case "ciphertext-keyword-len":
		c.Keywords.CiphertextLen, err = fs.GetInt(name)
	case "min-keyword-len":
		c.Keywords.MinLen, err = fs.GetInt(name)
	case "max-keyword-len":
		c.Keywords.MaxLen, err = fs.GetInt(name)

	case "cycleword-len":
		c.Cycleword.Len, err = fs.GetInt(name)
	case "max-cycleword-len":
		c.Cycleword.MaxLen, err = fs.GetInt(name)
	case "nsigma-threshold":
		c.Cycleword.NSigma, err = fs.GetFloat64(name)
	case "ioc-threshold":
		c.Cycleword.IoCFloor, err = fs.GetFloat64(name)

	case "weight-ngram":
		c.Weights.NGram, err = fs.GetFloat64(name)
	case "weight-crib":
		c.Weights.Crib, err = fs.GetFloat64(name)
	case "weight-ioc":
		c.Weights.IoC, err = fs.GetFloat64(name)
	case "weight-entropy":
		c.Weights.Entropy, err = fs.GetFloat64(name)

	case "output":
		c.Output.Format, err = fs.GetString(name)
	case "color":
		c.Output.Color, err = fs.GetString(name)
	case "watch":
		c.Output.WatchWords, err = fs.GetStringSlice(name)
	case "language-confidence":
		c.Output.LanguageConfidence, err = fs.GetBool(name)
	case "metrics-file":
		c.Output.MetricsFile, err = fs.GetString(name)

	case "log-level":
		c.Logging.Level, err = fs.GetString(name)
	case "log-json":
		c.Logging.JSON, err = fs.GetBool(name)
	case "verbose":
		var v bool
		if v, err = fs.GetBool(name); err == nil && v {
			c.Logging.Level = "debug"
		}
	}
	if err != nil {
		return fmt.Errorf("--%s: %w", name, err)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.Write(args[0], cfg); err != nil {
		return err
	}
	logger.Info("wrote config", "path", args[0])
	return nil
}
