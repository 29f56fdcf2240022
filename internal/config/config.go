package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dshills/breakcheck/internal/logging"
	"github.com/dshills/breakcheck/internal/providers"
	"github.com/dshills/breakcheck/internal/redact"
	"github.com/dshills/breakcheck/internal/review"
)

const appName = "breakcheck"

// Output formats accepted by the format key.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Config represents the breakcheck configuration.
type Config struct {
	Model         string        `yaml:"model" env:"BREAKCHECK_MODEL"`
	BaseURL       string        `yaml:"baseURL" env:"BREAKCHECK_BASE_URL"`
	Temperature   float64       `yaml:"temperature" env:"BREAKCHECK_TEMPERATURE"`
	Timeout       time.Duration `yaml:"timeout" env:"BREAKCHECK_TIMEOUT"`
	Format        string        `yaml:"format" env:"BREAKCHECK_FORMAT"`
	LogLevel      string        `yaml:"logLevel" env:"BREAKCHECK_LOG_LEVEL"`
	MaxDiffBytes  int           `yaml:"maxDiffBytes" env:"BREAKCHECK_MAX_DIFF_BYTES"`
	Concurrency   int           `yaml:"concurrency" env:"BREAKCHECK_CONCURRENCY"`
	RedactSecrets bool          `yaml:"redactSecrets" env:"BREAKCHECK_REDACT_SECRETS"`
	RedactPaths   []string      `yaml:"redactPaths,omitempty" env:"BREAKCHECK_REDACT_PATHS" envSeparator:","`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Model:        providers.DefaultModel,
		BaseURL:      providers.DefaultBaseURL,
		Temperature:  providers.DefaultTemperature,
		Timeout:      providers.DefaultTimeout,
		Format:       FormatText,
		LogLevel:     logging.LevelInfo.String(),
		MaxDiffBytes: 0,
		Concurrency:  1,
	}
}

// ConfigDir returns the platform-appropriate config directory for breakcheck.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName), nil
		}
		return filepath.Join(home, "AppData", "Roaming", appName), nil
	default:
		return filepath.Join(home, ".config", appName), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadFile reads the config file over base. Keys absent from the file keep
// their base value; a missing file returns base unchanged.
func LoadFile(base Config) (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return base, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return base, nil
		}
		return base, fmt.Errorf("reading config file: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Variables already set are left alone and missing files are
// skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only flags the user set appear).
func Load(overrides map[string]string) (Config, error) {
	cfg, err := LoadFile(Default())
	if err != nil {
		return Config{}, err
	}
	// Only variables that are present overwrite fields.
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	for key, value := range overrides {
		if err := SetField(&cfg, key, value); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Format {
	case FormatText, FormatMarkdown, FormatJSON:
	default:
		return fmt.Errorf("invalid format %q: expected text, markdown or json", c.Format)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", c.Temperature)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.MaxDiffBytes < 0 {
		return fmt.Errorf("maxDiffBytes must not be negative, got %d", c.MaxDiffBytes)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid logLevel %q", c.LogLevel)
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "model":
		cfg.Model = value
	case "baseURL":
		cfg.BaseURL = value
	case "temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("temperature must be a number: %w", err)
		}
		cfg.Temperature = f
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("timeout must be a duration such as 90s: %w", err)
		}
		cfg.Timeout = d
	case "format":
		cfg.Format = value
	case "logLevel":
		cfg.LogLevel = value
	case "maxDiffBytes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxDiffBytes must be an integer: %w", err)
		}
		cfg.MaxDiffBytes = n
	case "concurrency":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("concurrency must be an integer: %w", err)
		}
		cfg.Concurrency = n
	case "redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("redactSecrets must be true or false: %w", err)
		}
		cfg.RedactSecrets = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// ReviewOptions converts the config into pipeline options.
func (c Config) ReviewOptions() review.Options {
	return review.Options{
		Concurrency:  c.Concurrency,
		MaxDiffBytes: c.MaxDiffBytes,
		Temperature:  c.Temperature,
		Model:        c.Model,
		Privacy: redact.Policy{
			Secrets: c.RedactSecrets,
			Paths:   c.RedactPaths,
		},
	}
}

// ProviderOptions converts the config into chat-completions client options.
func (c Config) ProviderOptions() providers.Options {
	return providers.Options{
		BaseURL: c.BaseURL,
		Model:   c.Model,
		Timeout: c.Timeout,
	}
}
