package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/tally/internal/model"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// sections: TALLY_STORAGE__SAVE_ATTEMPTS sets storage.save_attempts.
const EnvPrefix = "TALLY_"

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "tally.yaml"

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Storage     StorageConfig     `yaml:"storage" koanf:"storage"`
	Activity    ActivityConfig    `yaml:"activity" koanf:"activity"`
	Charts      ChartsConfig      `yaml:"charts" koanf:"charts"`
	Log         LogConfig         `yaml:"log" koanf:"log"`
	Git         GitConfig         `yaml:"git" koanf:"git"`
	Suggestions SuggestionsConfig `yaml:"suggestions" koanf:"suggestions"`
}

// StorageConfig locates the data file and controls save retries.
type StorageConfig struct {
	Path           string        `yaml:"path" koanf:"path"`
	SaveAttempts   int           `yaml:"save_attempts" koanf:"save_attempts"`
	SaveRetryDelay time.Duration `yaml:"save_retry_delay" koanf:"save_retry_delay"`
}

// ActivityConfig locates the activity log. An empty path disables it.
type ActivityConfig struct {
	Path string `yaml:"path" koanf:"path"`
}

// ChartsConfig controls chart output.
type ChartsConfig struct {
	Dir           string `yaml:"dir" koanf:"dir"`
	HistogramBins int    `yaml:"histogram_bins" koanf:"histogram_bins"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
	JSON  bool   `yaml:"json" koanf:"json"`
}

// GitConfig controls git history of the data files.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit" koanf:"auto_commit"`
	AuthorName  string `yaml:"author_name" koanf:"author_name"`
	AuthorEmail string `yaml:"author_email" koanf:"author_email"`
}

// SuggestionsConfig lists the category and method hints shown in prompts.
type SuggestionsConfig struct {
	Categories []string `yaml:"categories" koanf:"categories"`
	Methods    []string `yaml:"methods" koanf:"methods"`
}

// Load reads a tally.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Resolve loads path if it exists (defaults otherwise), loads a .env file
// from the working directory if present, and applies environment
// overrides.
func Resolve(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays TALLY_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	k := koanf.New(".")
	provider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("loading environment: %w", err)
	}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("applying environment: %w", err)
	}
	return nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// RelativeTo resolves relative storage, activity and chart paths against
// the directory holding the config file.
func (c *Config) RelativeTo(configPath string) {
	base := filepath.Dir(configPath)
	for _, p := range []*string{&c.Storage.Path, &c.Activity.Path, &c.Charts.Dir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:           "expenses.csv",
			SaveAttempts:   3,
			SaveRetryDelay: 100 * time.Millisecond,
		},
		Activity: ActivityConfig{
			Path: "activity.csv",
		},
		Charts: ChartsConfig{
			Dir:           "charts",
			HistogramBins: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Tally",
			AuthorEmail: "tally@localhost",
		},
		Suggestions: SuggestionsConfig{
			Categories: append([]string(nil), model.SuggestedCategories...),
			Methods:    append([]string(nil), model.SuggestedMethods...),
		},
	}
}
