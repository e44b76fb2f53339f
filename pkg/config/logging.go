package config

import "fmt"

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	// Default: info.
	Level string `yaml:"level,omitempty"`

	// Format is the log format (simple or verbose). Default: simple.
	Format string `yaml:"format,omitempty"`

	// File is the log file path. Empty writes to stderr.
	File string `yaml:"file,omitempty"`
}

// SetDefaults applies default values to LoggingConfig.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "simple"
	}
}

// Validate checks the LoggingConfig for errors.
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid level %q (valid: debug, info, warn, error)", c.Level)
	}
	switch c.Format {
	case "simple", "verbose":
	default:
		return fmt.Errorf("invalid format %q (valid: simple, verbose)", c.Format)
	}
	return nil
}
