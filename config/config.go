package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/stblake/quagmire/cipher"
	"github.com/stblake/quagmire/solver"
)

var ErrInvalid = errors.New("invalid configuration")

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("letters", validateLetters)
}

// validateLetters accepts strings made only of ASCII letters, and the empty
// string.
func validateLetters(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if !('A' <= r && r <= 'Z' || 'a' <= r && r <= 'z') {
			return false
		}
	}
	return true
}

type CipherConfig struct {
	Type              cipher.Type `yaml:"type"`
	Variant           bool        `yaml:"variant"`
	PlaintextKeyword  string      `yaml:"plaintext_keyword,omitempty" validate:"letters"`
	CiphertextKeyword string      `yaml:"ciphertext_keyword,omitempty" validate:"letters"`
}

type InputConfig struct {
	CiphertextFile string `yaml:"ciphertext_file,omitempty"`
	CribFile       string `yaml:"crib_file,omitempty"`
	NGramFile      string `yaml:"ngram_file,omitempty"`
	NGramSize      int    `yaml:"ngram_size" validate:"gte=1,lte=5"`
	DictionaryFile string `yaml:"dictionary_file,omitempty"`
	MaxCipherLen   int    `yaml:"max_cipher_len" validate:"gte=1"`
}

type SearchConfig struct {
	HillClimbs        int     `yaml:"hill_climbs" validate:"gte=1"`
	Restarts          int     `yaml:"restarts" validate:"gte=1"`
	BacktrackProb     float64 `yaml:"backtrack_prob" validate:"gte=0,lte=1"`
	KeywordPermProb   float64 `yaml:"keyword_perm_prob" validate:"gte=0,lte=1"`
	SlipProb          float64 `yaml:"slip_prob" validate:"gte=0,lte=1"`
	FrequencyWeighted bool    `yaml:"frequency_weighted"`
	SkipInfeasible    bool    `yaml:"skip_infeasible"`
	Workers           int     `yaml:"workers" validate:"gte=1"`
	// Seed 0 seeds from the clock.
	Seed int64 `yaml:"seed"`
	TopN int   `yaml:"top_n" validate:"gte=0"`
}

type KeywordConfig struct {
	MinLen        int `yaml:"min_len" validate:"gte=1,lte=26"`
	MaxLen        int `yaml:"max_len" validate:"gte=1,lte=26"`
	PlaintextLen  int `yaml:"plaintext_len" validate:"gte=0,lte=26"`
	CiphertextLen int `yaml:"ciphertext_len" validate:"gte=0,lte=26"`
}

type CyclewordConfig struct {
	Len      int     `yaml:"len" validate:"gte=0"`
	MaxLen   int     `yaml:"max_len" validate:"gte=1"`
	NSigma   float64 `yaml:"nsigma"`
	IoCFloor float64 `yaml:"ioc_floor" validate:"gte=0,lte=1"`
}

type WeightsConfig struct {
	NGram   float64 `yaml:"ngram" validate:"gte=0"`
	Crib    float64 `yaml:"crib" validate:"gte=0"`
	IoC     float64 `yaml:"ioc" validate:"gte=0"`
	Entropy float64 `yaml:"entropy" validate:"gte=0"`
}

type OutputConfig struct {
	Format string `yaml:"format" validate:"oneof=text json yaml"`
	Color  string `yaml:"color" validate:"oneof=auto always never"`
	// WatchWords are reported when they occur in the best plaintext.
	WatchWords         []string `yaml:"watch_words,omitempty" validate:"dive,letters"`
	LanguageConfidence bool     `yaml:"language_confidence"`
	MetricsFile        string   `yaml:"metrics_file,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `yaml:"json"`
}

// Config is the complete run configuration.
type Config struct {
	Cipher    CipherConfig    `yaml:"cipher"`
	Input     InputConfig     `yaml:"input"`
	Search    SearchConfig    `yaml:"search"`
	Keywords  KeywordConfig   `yaml:"keywords"`
	Cycleword CyclewordConfig `yaml:"cycleword"`
	Weights   WeightsConfig   `yaml:"weights"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
}

func Default() Config {
	o := solver.DefaultOptions()
	return Config{
		Cipher: CipherConfig{
			Type: o.Type,
		},
		Input: InputConfig{
			NGramSize:    4,
			MaxCipherLen: 1000,
		},
		Search: SearchConfig{
			HillClimbs:      o.HillClimbs,
			Restarts:        o.Restarts,
			BacktrackProb:   o.BacktrackProb,
			KeywordPermProb: o.KeywordPermProb,
			SlipProb:        o.SlipProb,
			SkipInfeasible:  o.SkipInfeasible,
			Workers:         o.Workers,
			TopN:            o.TopN,
		},
		Keywords: KeywordConfig{
			MinLen: o.MinKeywordLen,
			MaxLen: o.MaxKeywordLen,
		},
		Cycleword: CyclewordConfig{
			MaxLen:   o.MaxCyclewordLen,
			NSigma:   o.NSigma,
			IoCFloor: o.IoCFloor,
		},
		Weights: WeightsConfig{
			NGram:   o.Weights.NGram,
			Crib:    o.Weights.Crib,
			IoC:     o.Weights.IoC,
			Entropy: o.Weights.Entropy,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  "auto",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load overlays the YAML file at path on the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read the config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Write stores cfg as YAML at path.
func Write(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !c.Cipher.Type.Valid() {
		return fmt.Errorf("%w: unknown cipher type %d", ErrInvalid, int(c.Cipher.Type))
	}
	if c.Keywords.MinLen > c.Keywords.MaxLen {
		return fmt.Errorf("%w: keywords.min_len %d > keywords.max_len %d", ErrInvalid, c.Keywords.MinLen, c.Keywords.MaxLen)
	}
	if c.Weights.NGram+c.Weights.Crib+c.Weights.IoC+c.Weights.Entropy <= 0 {
		return fmt.Errorf("%w: weights sum to zero", ErrInvalid)
	}
	if err := c.Options().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Options maps the search settings onto solver options.
func (c Config) Options() solver.Options {
	return solver.Options{
		Type:                 c.Cipher.Type,
		Variant:              c.Cipher.Variant,
		HillClimbs:           c.Search.HillClimbs,
		Restarts:             c.Search.Restarts,
		BacktrackProb:        c.Search.BacktrackProb,
		KeywordPermProb:      c.Search.KeywordPermProb,
		SlipProb:             c.Search.SlipProb,
		Weights:              solver.Weights(c.Weights),
		MinKeywordLen:        c.Keywords.MinLen,
		MaxKeywordLen:        c.Keywords.MaxLen,
		PlaintextKeywordLen:  c.Keywords.PlaintextLen,
		CiphertextKeywordLen: c.Keywords.CiphertextLen,
		PlaintextKeyword:     c.Cipher.PlaintextKeyword,
		CiphertextKeyword:    c.Cipher.CiphertextKeyword,
		CyclewordLen:         c.Cycleword.Len,
		MaxCyclewordLen:      c.Cycleword.MaxLen,
		NSigma:               c.Cycleword.NSigma,
		IoCFloor:             c.Cycleword.IoCFloor,
		SkipInfeasible:       c.Search.SkipInfeasible,
		FrequencyWeighted:    c.Search.FrequencyWeighted,
		Workers:              c.Search.Workers,
		Seed:                 c.Search.Seed,
		TopN:                 c.Search.TopN,
	}
}
