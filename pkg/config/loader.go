package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load builds the configuration: defaults, then the YAML file at path (if it
// exists), then environment overrides, then validation. A missing file is not
// an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadAndMerge(cfg, path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadAndMerge loads a YAML file and merges it into the config.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	mergeConfigs(cfg, &override)
	return nil
}

// mergeConfigs merges override into base. Zero values in the override leave
// the base value untouched.
func mergeConfigs(base, override *Config) {
	if override == nil {
		return
	}

	if override.Generation.Count != 0 {
		base.Generation.Count = override.Generation.Count
	}
	if override.Generation.OutputDir != "" {
		base.Generation.OutputDir = override.Generation.OutputDir
	}
	if override.Generation.Model != "" {
		base.Generation.Model = override.Generation.Model
	}
	if override.Generation.MaxAttempts != 0 {
		base.Generation.MaxAttempts = override.Generation.MaxAttempts
	}
	if override.Generation.RetryDelay != 0 {
		base.Generation.RetryDelay = override.Generation.RetryDelay
	}
	if override.Generation.GenerationDelay != 0 {
		base.Generation.GenerationDelay = override.Generation.GenerationDelay
	}
	if override.Generation.Temperature != 0 {
		base.Generation.Temperature = override.Generation.Temperature
	}
	if override.Generation.MaxTokens != 0 {
		base.Generation.MaxTokens = override.Generation.MaxTokens
	}
	if len(override.Generation.SeedDescriptions) > 0 {
		base.Generation.SeedDescriptions = append([]string{}, override.Generation.SeedDescriptions...)
	}

	if override.Provider.APIKey != "" {
		base.Provider.APIKey = override.Provider.APIKey
	}
	if override.Provider.BaseURL != "" {
		base.Provider.BaseURL = override.Provider.BaseURL
	}

	if override.Logging.Dir != "" {
		base.Logging.Dir = override.Logging.Dir
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.NetworkLogsEnabled {
		base.Logging.NetworkLogsEnabled = true
	}
}

// applyEnvOverrides applies environment variable overrides on top of file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("SVGFOUNDRY_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("SVGFOUNDRY_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("SVGFOUNDRY_MODEL"); v != "" {
		cfg.Generation.Model = v
	}
	if v := os.Getenv("SVGFOUNDRY_OUTPUT_DIR"); v != "" {
		cfg.Generation.OutputDir = v
	}
	if v := os.Getenv("SVGFOUNDRY_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Generation.Count = n
		}
	}
	if v := os.Getenv("SVGFOUNDRY_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Generation.MaxAttempts = n
		}
	}
	if v := os.Getenv("SVGFOUNDRY_RETRY_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Generation.RetryDelay = d
		}
	}
	if v := os.Getenv("SVGFOUNDRY_GENERATION_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Generation.GenerationDelay = d
		}
	}
	if v := os.Getenv("SVGFOUNDRY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
