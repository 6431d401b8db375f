package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[llm]
provider = "claude"
model = "claude-3-5-haiku-latest"

[analysis]
general_category = "Small Talk"

[concurrency]
lines = 8
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "claude", cfg.LLM.Provider)
	assert.Equal(t, "Small Talk", cfg.Analysis.GeneralCategory)
	assert.Equal(t, 8, cfg.Concurrency.Lines)
	// untouched sections keep their defaults
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.Equal(t, DefaultSeverityPrompt, cfg.Prompts.Severity)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[llm\nprovider="), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse TOML")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("LLM_API_KEY", "shared-key")
	t.Setenv("EMBEDDING_MODEL", "text-embedding-004")
	t.Setenv("EMBEDDING_API_KEY", "")
	t.Setenv("TRANSCRIBE_API_KEY", "")
	t.Setenv("PORT", "9090")
	t.Setenv("ECHOFILTER_DB", "/tmp/ef.db")

	cfg := Default()
	ApplyEnv(cfg)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "text-embedding-004", cfg.Embedding.Model)
	assert.Equal(t, "shared-key", cfg.Embedding.APIKey)
	assert.Equal(t, "shared-key", cfg.Transcription.APIKey)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/tmp/ef.db", cfg.Storage.Path)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"llm provider", func(c *Config) { c.LLM.Provider = "bard" }, "unsupported llm provider"},
		{"claude embeddings", func(c *Config) { c.Embedding.Provider = "claude" }, "unsupported embedding provider"},
		{"transcription", func(c *Config) { c.Transcription.Provider = "vosk" }, "unsupported transcription provider"},
		{"concurrency", func(c *Config) { c.Concurrency.Lines = 0 }, "concurrency.lines"},
		{"upload limit", func(c *Config) { c.Server.MaxUploadMB = 0 }, "max_upload_mb"},
		{"severity prompt", func(c *Config) { c.Prompts.Severity = "classify %s" }, "prompts.severity"},
		{"rationale prompt", func(c *Config) { c.Prompts.Rationale = "why?" }, "prompts.rationale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
