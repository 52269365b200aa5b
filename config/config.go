// Package config provides configuration loading for repolens.
//
// Precedence (highest to lowest): environment variables, YAML config file,
// hardcoded defaults. Environment variables map section and field with the
// first underscore: ORCHESTRATOR_WORKERS -> orchestrator.workers.
package config

import (
	"fmt"
	"time"
)

// OrchestratorConfig controls the analysis run.
type OrchestratorConfig struct {
	// Workers is the analyzer worker-pool size.
	Workers int `koanf:"workers"`

	// GlobalTimeout bounds one full run.
	GlobalTimeout time.Duration `koanf:"global_timeout"`

	// ResultTimeout bounds retrieval of a single completed result.
	ResultTimeout time.Duration `koanf:"result_timeout"`

	// MaxLLMCalls caps model invocations per run (0 = unlimited).
	MaxLLMCalls int `koanf:"max_llm_calls"`

	// Analyzers selects unit kinds by name; empty means all.
	Analyzers []string `koanf:"analyzers"`
}

// ModelConfig selects and tunes the LLM provider.
type ModelConfig struct {
	// Provider is one of "anthropic", "openai" or "none".
	Provider string `koanf:"provider"`

	// Name is the provider-specific model identifier; empty uses the
	// adapter default.
	Name string `koanf:"name"`

	// Temperature is the sampling temperature.
	Temperature float64 `koanf:"temperature"`

	// MaxTokens bounds the generated narrative length.
	MaxTokens int `koanf:"max_tokens"`
}

// LoggingConfig controls structured log output.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `koanf:"level"`

	// Format is "json" or "text".
	Format string `koanf:"format"`
}

// Config is the root configuration document.
type Config struct {
	Orchestrator OrchestratorConfig `koanf:"orchestrator"`
	Model        ModelConfig        `koanf:"model"`
	Logging      LoggingConfig      `koanf:"logging"`
}

func applyDefaults(cfg *Config) {
	if cfg.Orchestrator.Workers == 0 {
		cfg.Orchestrator.Workers = 2
	}
	if cfg.Orchestrator.GlobalTimeout == 0 {
		cfg.Orchestrator.GlobalTimeout = 15 * time.Minute
	}
	if cfg.Orchestrator.ResultTimeout == 0 {
		cfg.Orchestrator.ResultTimeout = 5 * time.Second
	}
	if cfg.Model.Provider == "" {
		cfg.Model.Provider = "none"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// Validate rejects configurations the orchestrator cannot honor.
func (c *Config) Validate() error {
	if c.Orchestrator.Workers < 1 {
		return fmt.Errorf("orchestrator.workers must be >= 1, got %d", c.Orchestrator.Workers)
	}
	if c.Orchestrator.GlobalTimeout <= 0 {
		return fmt.Errorf("orchestrator.global_timeout must be positive")
	}
	if c.Orchestrator.ResultTimeout <= 0 {
		return fmt.Errorf("orchestrator.result_timeout must be positive")
	}
	if c.Orchestrator.MaxLLMCalls < 0 {
		return fmt.Errorf("orchestrator.max_llm_calls must be >= 0")
	}

	switch c.Model.Provider {
	case "anthropic", "openai", "none":
	default:
		return fmt.Errorf("model.provider must be anthropic, openai or none, got %q", c.Model.Provider)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}

	return nil
}
