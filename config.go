package variation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadConfig.
const (
	EnvEnabled         = "VARIATION_ENABLED"
	EnvMaxSeed         = "VARIATION_MAX_SEED"
	EnvEnvironment     = "VARIATION_ENV"
	EnvSettleDelay     = "VARIATION_SETTLE_DELAY"
	EnvDictionaryFile  = "VARIATION_DICTIONARY_FILE"
	EnvLayoutRulesFile = "VARIATION_LAYOUT_RULES_FILE"
	EnvEvaluator       = "VARIATION_EVALUATOR"
)

// DefaultSettleDelay is the pause between clearing a dataset and fetching the
// replacement during a reload.
const DefaultSettleDelay = 50 * time.Millisecond

// Config holds engine settings supplied by DI or the environment.
type Config struct {
	Enabled         bool
	MaxSeed         int
	Production      bool
	SettleDelay     time.Duration
	DictionaryFile  string
	LayoutRulesFile string
	Evaluator       EvaluatorKind
}

// DefaultConfig enables variation over the default seed range.
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		MaxSeed:     DefaultMaxSeed,
		SettleDelay: DefaultSettleDelay,
		Evaluator:   EvaluatorExpr,
	}
}

// Policy derives the variation policy.
func (c Config) Policy() Policy {
	return Policy{Enabled: c.Enabled, MaxSeed: c.MaxSeed}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	var errs []error
	if c.MaxSeed < CanonicalSeed {
		errs = append(errs, fmt.Errorf("variation: max seed must be >= %d, got %d", CanonicalSeed, c.MaxSeed))
	}
	if c.SettleDelay < 0 {
		errs = append(errs, fmt.Errorf("variation: settle delay must not be negative, got %s", c.SettleDelay))
	}
	switch c.Evaluator {
	case "", EvaluatorExpr, EvaluatorCEL, EvaluatorJS:
	default:
		errs = append(errs, fmt.Errorf("variation: unknown evaluator %q", c.Evaluator))
	}
	return errors.Join(errs...)
}

// LoadConfig builds a Config from DefaultConfig, then the given dotenv files,
// then the process environment (strongest). Without files, an optional
// ".env" in the working directory is read.
func LoadConfig(files ...string) (Config, error) {
	values, err := readDotenv(files)
	if err != nil {
		return Config{}, err
	}
	lookup := func(name string) (string, bool) {
		if value, ok := os.LookupEnv(name); ok {
			return value, true
		}
		value, ok := values[name]
		return value, ok
	}

	cfg := DefaultConfig()
	if raw, ok := lookup(EnvEnabled); ok {
		enabled, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return Config{}, fmt.Errorf("variation: parse %s: %w", EnvEnabled, err)
		}
		cfg.Enabled = enabled
	}
	if raw, ok := lookup(EnvMaxSeed); ok {
		max, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Config{}, fmt.Errorf("variation: parse %s: %w", EnvMaxSeed, err)
		}
		cfg.MaxSeed = max
	}
	if raw, ok := lookup(EnvEnvironment); ok {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "prod", "production":
			cfg.Production = true
		}
	}
	if raw, ok := lookup(EnvSettleDelay); ok {
		delay, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return Config{}, fmt.Errorf("variation: parse %s: %w", EnvSettleDelay, err)
		}
		cfg.SettleDelay = delay
	}
	if raw, ok := lookup(EnvDictionaryFile); ok {
		cfg.DictionaryFile = strings.TrimSpace(raw)
	}
	if raw, ok := lookup(EnvLayoutRulesFile); ok {
		cfg.LayoutRulesFile = strings.TrimSpace(raw)
	}
	if raw, ok := lookup(EnvEvaluator); ok {
		cfg.Evaluator = EvaluatorKind(strings.ToLower(strings.TrimSpace(raw)))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readDotenv(files []string) (map[string]string, error) {
	if len(files) == 0 {
		values, err := godotenv.Read(".env")
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("variation: read .env: %w", err)
		}
		return values, nil
	}
	values, err := godotenv.Read(files...)
	if err != nil {
		return nil, fmt.Errorf("variation: read env files: %w", err)
	}
	return values, nil
}
