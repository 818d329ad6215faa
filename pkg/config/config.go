package config

import (
	"fmt"

	"github.com/sdejongh/stemdiff/pkg/models"
	"github.com/sdejongh/stemdiff/pkg/ratelimit"
)

// Config represents the application configuration
type Config struct {
	Compare     CompareConfig     `yaml:"compare"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Exclude     []string          `yaml:"exclude"`
}

// CompareConfig holds comparison settings
type CompareConfig struct {
	Hash   models.HashAlgorithm `yaml:"hash"`
	Delete models.DeleteChoice  `yaml:"delete"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	BufferSize     int    `yaml:"buffer_size"`
	BandwidthLimit string `yaml:"bandwidth_limit"` // e.g. "10M"; "0" or empty = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show the hashing progress bar
	Color    string `yaml:"color"`    // "auto", "always" or "never"
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			Hash:   models.HashMD5,
			Delete: models.DeleteAsk,
		},
		Performance: PerformanceConfig{
			BufferSize:     65536,
			BandwidthLimit: "0",
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: false,
			Color:    "auto",
		},
		Logging: LoggingConfig{
			Enabled: false,
			Format:  "text",
			Level:   "info",
		},
		Exclude: []string{},
	}
}

// BandwidthBytes returns the parsed bandwidth limit in bytes per second
func (c *Config) BandwidthBytes() (int64, error) {
	return ratelimit.ParseRate(c.Performance.BandwidthLimit)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := models.ParseHashAlgorithm(string(c.Compare.Hash)); err != nil {
		return &models.ValidationError{
			Field:   "compare.hash",
			Message: "must be 'md5', 'sha256', or 'xxhash'",
		}
	}

	if _, err := models.ParseDeleteChoice(string(c.Compare.Delete)); err != nil {
		return &models.ValidationError{
			Field:   "compare.delete",
			Message: "must be 'ask', 'a', 'b', or 'none'",
		}
	}

	if c.Performance.BufferSize < 4096 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 4096 bytes",
		}
	}

	if _, err := c.BandwidthBytes(); err != nil {
		return &models.ValidationError{
			Field:   "performance.bandwidth_limit",
			Message: fmt.Sprintf("invalid rate: %v", err),
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[c.Output.Color] {
		return &models.ValidationError{
			Field:   "output.color",
			Message: "must be 'auto', 'always', or 'never'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
