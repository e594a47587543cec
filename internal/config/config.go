package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// Paths locates learner data and course content.
type Paths struct {
	DB         string `toml:"db" env:"LINGOZ_DB"`
	ContentDir string `toml:"content_dir" env:"LINGOZ_CONTENT_DIR" validate:"required"`
}

// Planning controls how practice tasks are planned.
type Planning struct {
	EveryNLessons int `toml:"every_n_lessons" env:"LINGOZ_EVERY_N_LESSONS" validate:"gte=0"`
	SamplePerTask int `toml:"sample_per_task" env:"LINGOZ_SAMPLE_PER_TASK" validate:"gte=0"`
	MinTriples    int `toml:"min_triples" env:"LINGOZ_MIN_TRIPLES" validate:"gte=0"`
	// FinalAfter is the lesson count that unlocks the final practice.
	// Zero means the course's lesson count.
	FinalAfter int `toml:"final_after" env:"LINGOZ_FINAL_AFTER" validate:"gte=0"`
}

// Game tunes matching rounds.
type Game struct {
	VisiblePairs    int      `toml:"visible_pairs" env:"LINGOZ_VISIBLE_PAIRS" validate:"gte=1,lte=20"`
	MismatchDelay   Duration `toml:"mismatch_delay" env:"LINGOZ_MISMATCH_DELAY" validate:"gte=0"`
	CompletionDelay Duration `toml:"completion_delay" env:"LINGOZ_COMPLETION_DELAY" validate:"gte=0"`
	RevealDelay     Duration `toml:"reveal_delay" env:"LINGOZ_REVEAL_DELAY" validate:"gte=0"`
	// Seed fixes shuffles when non-zero.
	Seed int64 `toml:"seed" env:"LINGOZ_SEED"`
}

// Logging configures the CLI logger.
type Logging struct {
	Level  string `toml:"level" env:"LINGOZ_LOG_LEVEL" validate:"oneof=debug info warn error"`
	Format string `toml:"format" env:"LINGOZ_LOG_FORMAT" validate:"oneof=console json"`
}

// Config is the full lingoz configuration.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Planning Planning `toml:"planning"`
	Game     Game     `toml:"game"`
	Logging  Logging  `toml:"logging"`
}

// Duration is a time.Duration written as a Go duration string ("800ms").
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// DefaultConfigPath returns the config file used when neither --config nor
// LINGOZ_CONFIG is given.
func DefaultConfigPath() (string, error) {
	if base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); base != "" {
		return filepath.Join(base, "lingoz", "config.toml"), nil
	}
	return expandPath("~/.config/lingoz/config.toml")
}

// Load locates, parses, and validates a configuration file. It returns the
// config, the resolved path and whether that file existed. A missing file
// is not an error.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, "", false, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = strings.TrimSpace(os.Getenv("LINGOZ_CONFIG"))
	}
	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return "", false, err
		}
	}

	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// CreateSample writes the default configuration to path.
func CreateSample(path string) error {
	cfg := Default()
	data, err := cfg.Encode()
	if err != nil {
		return fmt.Errorf("encode sample config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
