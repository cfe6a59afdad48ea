package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talecard/talecard/goal"
	"github.com/talecard/talecard/logging"
	"github.com/talecard/talecard/provider"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talecard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
providers:
  - id: anthropic
    model: claude-3-5-haiku-20241022
    max_tokens: 512
  - id: openai
turn:
  timeout: 45s
  adapter_timeout: 10s
  max_concurrent: 8
evaluator:
  strategy: model
  timeout: 5s
logging:
  level: debug
  format: text
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Providers, 2)
	assert.Equal(t, "anthropic", cfg.Providers[0].ID)
	assert.Equal(t, "claude-3-5-haiku-20241022", cfg.Providers[0].Model)
	assert.Equal(t, int64(512), cfg.Providers[0].MaxTokens)
	assert.Equal(t, "openai", cfg.Providers[1].ID)

	turnTimeout, err := cfg.TurnTimeout()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, turnTimeout)
	adapterTimeout, err := cfg.AdapterTimeout()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, adapterTimeout)
	assert.Equal(t, int64(8), cfg.Turn.MaxConcurrent)
	assert.Equal(t, "model", cfg.Evaluator.Strategy)
}

func TestLoad_UnknownProvider(t *testing.T) {
	path := writeConfig(t, `
providers:
  - id: skynet
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, `
providers:
  - id: openai
turn:
  timeout: soon
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	timeout, err := cfg.TurnTimeout()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, timeout)
}

func TestBuildRegistry(t *testing.T) {
	cfg := Default() // openai then anthropic; constructors are offline-safe
	reg, err := cfg.BuildRegistry(logging.NoOpLogger{})
	require.NoError(t, err)

	adapters := reg.Adapters()
	require.Len(t, adapters, 2)
	assert.Equal(t, "openai", adapters[0].Info().ID)
	assert.Equal(t, "anthropic", adapters[1].Info().ID)
}

func TestBuildEvaluator(t *testing.T) {
	cfg := Default()
	ev, err := cfg.BuildEvaluator(provider.NewMockAdapter("mock"), logging.NoOpLogger{})
	require.NoError(t, err)
	assert.IsType(t, &goal.Heuristic{}, ev)

	cfg.Evaluator.Strategy = "model"
	ev, err = cfg.BuildEvaluator(provider.NewMockAdapter("mock"), logging.NoOpLogger{})
	require.NoError(t, err)
	assert.IsType(t, &goal.ModelAssisted{}, ev)
}
