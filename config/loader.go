package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces repolens environment variables.
const envPrefix = "REPOLENS_"

// maxConfigFileSize rejects runaway config files.
const maxConfigFileSize = 1024 * 1024

// Load builds a Config from defaults and environment variables only.
func Load() (*Config, error) {
	return LoadWithFile("")
}

// LoadWithFile loads configuration from a YAML file, then overrides with
// environment variables. A missing file is not an error; env vars and
// defaults still apply.
//
// Environment variables are prefixed and mapped on the first underscore
// after the prefix:
//
//	REPOLENS_ORCHESTRATOR_WORKERS  -> orchestrator.workers
//	REPOLENS_MODEL_PROVIDER        -> model.provider
//	REPOLENS_LOGGING_LEVEL         -> logging.level
func LoadWithFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		info, err := os.Stat(configPath)
		switch {
		case os.IsNotExist(err):
			// fall through to env + defaults
		case err != nil:
			return nil, fmt.Errorf("stat config file: %w", err)
		case info.Size() > maxConfigFileSize:
			return nil, fmt.Errorf("config file %s exceeds %d bytes", configPath, maxConfigFileSize)
		default:
			content, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// REPOLENS_ORCHESTRATOR_GLOBAL_TIMEOUT -> orchestrator.global_timeout:
		// split on the first underscore after the prefix, keep the rest as
		// one field name.
		trimmed := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		section, field, ok := strings.Cut(trimmed, "_")
		if !ok {
			return trimmed
		}
		return section + "." + field
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
