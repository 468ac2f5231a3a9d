// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Connections
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key

	// Extraction
	UseOracleExtraction bool `json:"use_oracle_extraction,omitempty"` // Extract structured facts via the LLM
	UseBrowser          bool `json:"use_browser,omitempty"`           // Use headless browser for SPA resume hosts

	// Oracle behavior
	OracleMaxAttempts    int `json:"oracle_max_attempts,omitempty"`    // Scoring retry budget
	OracleTimeoutSeconds int `json:"oracle_timeout_seconds,omitempty"` // Per-call oracle timeout

	// Batch analysis
	MaxConcurrentAnalyses int `json:"max_concurrent_analyses,omitempty"` // Parallel candidates per batch

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed progress information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.OracleMaxAttempts < 0 {
		return fmt.Errorf("config error: 'oracle_max_attempts' must be non-negative")
	}
	if c.OracleTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'oracle_timeout_seconds' must be non-negative")
	}
	if c.MaxConcurrentAnalyses < 0 {
		return fmt.Errorf("config error: 'max_concurrent_analyses' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}

	// Int fields: use default if zero
	if result.OracleMaxAttempts == 0 {
		result.OracleMaxAttempts = defaults.OracleMaxAttempts
	}
	if result.OracleTimeoutSeconds == 0 {
		result.OracleTimeoutSeconds = defaults.OracleTimeoutSeconds
	}
	if result.MaxConcurrentAnalyses == 0 {
		if defaults.MaxConcurrentAnalyses > 0 {
			result.MaxConcurrentAnalyses = defaults.MaxConcurrentAnalyses
		} else {
			result.MaxConcurrentAnalyses = 4
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
