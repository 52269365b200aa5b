package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Orchestrator.Workers)
	assert.Equal(t, 15*time.Minute, cfg.Orchestrator.GlobalTimeout)
	assert.Equal(t, 5*time.Second, cfg.Orchestrator.ResultTimeout)
	assert.Equal(t, "none", cfg.Model.Provider)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadWithFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
orchestrator:
  workers: 4
  global_timeout: 5m
  analyzers: [expertise, timeline]
model:
  provider: anthropic
  temperature: 0.3
logging:
  level: debug
  format: text
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Orchestrator.Workers)
	assert.Equal(t, 5*time.Minute, cfg.Orchestrator.GlobalTimeout)
	assert.Equal(t, []string{"expertise", "timeline"}, cfg.Orchestrator.Analyzers)
	assert.Equal(t, "anthropic", cfg.Model.Provider)
	assert.InDelta(t, 0.3, cfg.Model.Temperature, 1e-9)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadWithFile_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadWithFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Orchestrator.Workers)
}

func TestLoadWithFile_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("orchestrator:\n  workers: 4\n"), 0o600))

	t.Setenv("REPOLENS_ORCHESTRATOR_WORKERS", "8")
	t.Setenv("REPOLENS_MODEL_PROVIDER", "openai")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Orchestrator.Workers)
	assert.Equal(t, "openai", cfg.Model.Provider)
}

func TestValidate(t *testing.T) {
	t.Run("bad provider", func(t *testing.T) {
		t.Setenv("REPOLENS_MODEL_PROVIDER", "mystery")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad log level", func(t *testing.T) {
		t.Setenv("REPOLENS_LOGGING_LEVEL", "loud")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("negative workers", func(t *testing.T) {
		t.Setenv("REPOLENS_ORCHESTRATOR_WORKERS", "-1")
		_, err := Load()
		assert.Error(t, err)
	})
}
