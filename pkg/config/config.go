package config

import (
	"fmt"
	"time"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "openai/gpt-4o-mini"

	DefaultCount           = 10
	DefaultOutputDir       = "svg_dataset"
	DefaultMaxAttempts     = 3
	DefaultRetryDelay      = 2 * time.Second
	DefaultGenerationDelay = 1 * time.Second
	DefaultTemperature     = 0.9
	DefaultMaxTokens       = 1200
	DefaultLogDir          = "logs"
)

// defaultSeedDescriptions bootstrap the randomized idea prompts; the model is
// asked to produce descriptions in the same register.
var defaultSeedDescriptions = []string{
	"A yellow star in the night sky.",
	"A small sailboat on calm water.",
	"A snowman wearing a red scarf.",
	"Three balloons drifting over a hill.",
	"A lighthouse at the edge of a cliff.",
}

// Config represents the complete svgfoundry configuration.
// It is constructed once at startup and never mutated afterwards.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Provider   ProviderConfig   `yaml:"provider"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GenerationConfig defines the parameters of one generation run.
type GenerationConfig struct {
	Count            int           `yaml:"count"`             // Top-level iterations to attempt
	OutputDir        string        `yaml:"output_dir"`        // Where accepted artifacts are written
	Model            string        `yaml:"model"`             // Model identifier sent to the provider
	MaxAttempts      int           `yaml:"max_attempts"`      // Attempts per model call, including the first
	RetryDelay       time.Duration `yaml:"retry_delay"`       // Fixed delay between attempts
	GenerationDelay  time.Duration `yaml:"generation_delay"`  // Fixed pause between iterations
	Temperature      float64       `yaml:"temperature"`
	MaxTokens        int           `yaml:"max_tokens"`
	SeedDescriptions []string      `yaml:"seed_descriptions"` // Example descriptions shown to the model
}

// ProviderConfig configures the OpenAI-compatible endpoint.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// LoggingConfig controls the structured run logs.
type LoggingConfig struct {
	Dir                string `yaml:"dir"`
	Level              string `yaml:"level"`
	NetworkLogsEnabled bool   `yaml:"network_logs_enabled"`
}

// DefaultConfig returns a config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		Generation: GenerationConfig{
			Count:            DefaultCount,
			OutputDir:        DefaultOutputDir,
			Model:            DefaultModel,
			MaxAttempts:      DefaultMaxAttempts,
			RetryDelay:       DefaultRetryDelay,
			GenerationDelay:  DefaultGenerationDelay,
			Temperature:      DefaultTemperature,
			MaxTokens:        DefaultMaxTokens,
			SeedDescriptions: append([]string{}, defaultSeedDescriptions...),
		},
		Logging: LoggingConfig{
			Dir:   DefaultLogDir,
			Level: "info",
		},
	}
}

// Validate checks the configuration for values the run cannot proceed with.
func (c *Config) Validate() error {
	if c.Generation.Count < 1 {
		return fmt.Errorf("generation.count must be at least 1, got %d", c.Generation.Count)
	}
	if c.Generation.MaxAttempts < 1 {
		return fmt.Errorf("generation.max_attempts must be at least 1, got %d", c.Generation.MaxAttempts)
	}
	if c.Generation.Model == "" {
		return fmt.Errorf("generation.model cannot be empty")
	}
	if c.Generation.OutputDir == "" {
		return fmt.Errorf("generation.output_dir cannot be empty")
	}
	if c.Generation.RetryDelay < 0 {
		return fmt.Errorf("generation.retry_delay cannot be negative")
	}
	if c.Generation.GenerationDelay < 0 {
		return fmt.Errorf("generation.generation_delay cannot be negative")
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return fmt.Errorf("generation.temperature must be between 0 and 2, got %g", c.Generation.Temperature)
	}
	if c.Provider.APIKey == "" {
		return fmt.Errorf("provider.api_key is required; set it in the config file or via OPENROUTER_API_KEY")
	}
	return nil
}
