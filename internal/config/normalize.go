package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.DB, err = expandPath(strings.TrimSpace(c.Paths.DB)); err != nil {
		return fmt.Errorf("paths.db: %w", err)
	}
	if c.Paths.ContentDir, err = expandPath(strings.TrimSpace(c.Paths.ContentDir)); err != nil {
		return fmt.Errorf("paths.content_dir: %w", err)
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	switch c.Logging.Level {
	case "":
		c.Logging.Level = "info"
	case "warning":
		c.Logging.Level = "warn"
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "text":
		c.Logging.Format = "console"
	}
}

// SetLogLevel overrides the configured level, normalizing and validating it
// like a level read from the file.
func (c *Config) SetLogLevel(level string) error {
	prev := c.Logging.Level
	c.Logging.Level = level
	c.normalizeLogging()
	if err := c.Validate(); err != nil {
		c.Logging.Level = prev
		return err
	}
	return nil
}
