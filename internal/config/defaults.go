package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Paths: Paths{
			ContentDir: defaultContentDir(),
		},
		Planning: Planning{
			EveryNLessons: 3,
			SamplePerTask: 8,
			MinTriples:    3,
		},
		Game: Game{
			VisiblePairs:    5,
			MismatchDelay:   Duration(800 * time.Millisecond),
			CompletionDelay: Duration(600 * time.Millisecond),
			RevealDelay:     Duration(250 * time.Millisecond),
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

func defaultContentDir() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "lingoz", "courses")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/share/lingoz/courses"
	}
	return filepath.Join(home, ".local", "share", "lingoz", "courses")
}
