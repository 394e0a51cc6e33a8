// Copyright 2025 The wattsage Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	// Data source
	SourceURL     string            `yaml:"source_url"`
	SourceHeaders map[string]string `yaml:"source_headers"`
	InputFile     string            `yaml:"input_file"`

	// Analysis settings
	RatePerKwh float64  `yaml:"rate_per_kwh"`
	View       string   `yaml:"view"`
	Appliances []string `yaml:"appliances"`

	// Recommendation rule tuning
	Rules RuleConfig `yaml:"rules"`

	// Storage and caching
	StoragePath        string `yaml:"storage_path"`
	SnapshotTTLMinutes int    `yaml:"snapshot_ttl_minutes"`

	// Debugging
	Debug bool `yaml:"debug"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Set defaults
	config := &Config{
		RatePerKwh:         6.14,
		View:               "month",
		Rules:              DefaultRuleConfig(),
		StoragePath:        getDefaultStoragePath(),
		SnapshotTTLMinutes: 15,
		Debug:              false,
	}

	// If no path provided, return defaults with env var overrides
	if path == "" {
		config.applyEnvironmentVariables()
		return config, nil
	}

	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML over the defaults so partial files merge
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply environment variable overrides
	config.applyEnvironmentVariables()

	return config, nil
}

// getDefaultStoragePath returns the default storage path
func getDefaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wattsage"
	}
	return filepath.Join(home, ".config", "wattsage")
}

// applyEnvironmentVariables overrides config with environment variables
func (c *Config) applyEnvironmentVariables() {
	if val := os.Getenv("WATTSAGE_SOURCE_URL"); val != "" {
		c.SourceURL = val
	}
	if val := os.Getenv("WATTSAGE_INPUT_FILE"); val != "" {
		c.InputFile = val
	}
	if val := os.Getenv("WATTSAGE_RATE_PER_KWH"); val != "" {
		if rate, err := strconv.ParseFloat(val, 64); err == nil {
			c.RatePerKwh = rate
		}
	}
	if val := os.Getenv("WATTSAGE_VIEW"); val != "" {
		c.View = val
	}
	if val := os.Getenv("WATTSAGE_STORAGE_PATH"); val != "" {
		c.StoragePath = val
	}
	if val := os.Getenv("WATTSAGE_DEBUG"); val == "true" || val == "1" {
		c.Debug = true
	}
}

// Validate checks if the configuration is valid. A bad rate, view, or rule
// tuning is a caller error and fails fast here, before any data is touched.
func (c *Config) Validate() error {
	var errors []string

	if c.SourceURL == "" && c.InputFile == "" {
		errors = append(errors, "one of source_url or input_file is required")
	}
	if c.SourceURL != "" && !strings.HasPrefix(c.SourceURL, "http://") && !strings.HasPrefix(c.SourceURL, "https://") {
		errors = append(errors, "source_url must be an http(s) URL")
	}

	if c.RatePerKwh <= 0 {
		errors = append(errors, "rate_per_kwh must be a positive number")
	}

	if _, err := ParseGranularity(c.View); err != nil {
		errors = append(errors, fmt.Sprintf("view %q is not one of day, week, month, year", c.View))
	}

	if c.SnapshotTTLMinutes < 0 {
		errors = append(errors, "snapshot_ttl_minutes must not be negative")
	}

	if c.Rules.MaxRecommendations < 1 {
		errors = append(errors, "rules.max_recommendations must be at least 1")
	}
	if c.Rules.TopContributors < 1 {
		errors = append(errors, "rules.top_contributors must be at least 1")
	}
	for name, hours := range map[string][]int{
		"rules.peak_hours":   c.Rules.PeakHours,
		"rules.night_hours":  c.Rules.NightHours,
		"rules.midday_hours": c.Rules.MiddayHours,
	} {
		for _, h := range hours {
			if h < 0 || h > 23 {
				errors = append(errors, fmt.Sprintf("%s contains %d, outside 0..23", name, h))
				break
			}
		}
	}

	// Set default storage path if empty
	if c.StoragePath == "" {
		c.StoragePath = getDefaultStoragePath()
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
