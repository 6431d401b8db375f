package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type EmbeddingConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type TranscriptionConfig struct {
	Provider string `toml:"provider"` // openai | faster-whisper
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Language string `toml:"language"`
	Device   string `toml:"device"`
	Python   string `toml:"python"`
	// Where the raw transcript is written after speech-to-text. Empty disables it.
	OutputPath string `toml:"output_path"`
}

type Prompts struct {
	Severity  string `toml:"severity"`
	Rationale string `toml:"rationale"`
}

type AnalysisConfig struct {
	GeneralCategory string `toml:"general_category"`
	ReportDir       string `toml:"report_dir"`
}

type ServerConfig struct {
	Port        string `toml:"port"`
	UploadDir   string `toml:"upload_dir"`
	MaxUploadMB int64  `toml:"max_upload_mb"`
	KeepUploads bool   `toml:"keep_uploads"`
}

type StorageConfig struct {
	Path string `toml:"path"`
}

type ConcurrencyConfig struct {
	Lines int `toml:"lines"`
}

type Config struct {
	LLM           LLMConfig           `toml:"llm"`
	Embedding     EmbeddingConfig     `toml:"embedding"`
	Transcription TranscriptionConfig `toml:"transcription"`
	Prompts       Prompts             `toml:"prompts"`
	Analysis      AnalysisConfig      `toml:"analysis"`
	Server        ServerConfig        `toml:"server"`
	Storage       StorageConfig       `toml:"storage"`
	Concurrency   ConcurrencyConfig   `toml:"concurrency"`
}

// Load reads a TOML file on top of Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to Default() otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// ApplyEnv overrides config values with environment variables when they are set.
func ApplyEnv(cfg *Config) {
	setIfEnv(&cfg.LLM.Provider, "LLM_PROVIDER")
	setIfEnv(&cfg.LLM.Model, "LLM_MODEL")
	setIfEnv(&cfg.LLM.APIKey, "LLM_API_KEY")
	setIfEnv(&cfg.LLM.BaseURL, "LLM_BASE_URL")

	setIfEnv(&cfg.Embedding.Provider, "EMBEDDING_PROVIDER")
	setIfEnv(&cfg.Embedding.Model, "EMBEDDING_MODEL")
	setIfEnv(&cfg.Embedding.APIKey, "EMBEDDING_API_KEY")
	setIfEnv(&cfg.Embedding.BaseURL, "EMBEDDING_BASE_URL")

	setIfEnv(&cfg.Transcription.Provider, "TRANSCRIBE_PROVIDER")
	setIfEnv(&cfg.Transcription.Model, "TRANSCRIBE_MODEL")
	setIfEnv(&cfg.Transcription.APIKey, "TRANSCRIBE_API_KEY")
	setIfEnv(&cfg.Transcription.BaseURL, "TRANSCRIBE_BASE_URL")

	setIfEnv(&cfg.Server.Port, "PORT")
	setIfEnv(&cfg.Storage.Path, "ECHOFILTER_DB")

	// Provider sections share the main key unless they carry their own.
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = cfg.LLM.APIKey
	}
	if cfg.Transcription.APIKey == "" {
		cfg.Transcription.APIKey = cfg.LLM.APIKey
	}
}

func setIfEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

var (
	llmProviders        = []string{"openai", "gemini", "claude", "ollama"}
	embeddingProviders  = []string{"openai", "gemini", "ollama"}
	transcribeProviders = []string{"openai", "faster-whisper"}
)

func (c *Config) Validate() error {
	if !oneOf(c.LLM.Provider, llmProviders) {
		return fmt.Errorf("unsupported llm provider: %q", c.LLM.Provider)
	}
	if !oneOf(c.Embedding.Provider, embeddingProviders) {
		return fmt.Errorf("unsupported embedding provider: %q", c.Embedding.Provider)
	}
	if !oneOf(c.Transcription.Provider, transcribeProviders) {
		return fmt.Errorf("unsupported transcription provider: %q", c.Transcription.Provider)
	}
	if c.Concurrency.Lines <= 0 {
		return fmt.Errorf("concurrency.lines must be positive, got %d", c.Concurrency.Lines)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if n := strings.Count(c.Prompts.Severity, "%s"); n != 2 {
		return fmt.Errorf("prompts.severity needs 2 %%s placeholders (sentence, category), found %d", n)
	}
	if n := strings.Count(c.Prompts.Rationale, "%s"); n != 3 {
		return fmt.Errorf("prompts.rationale needs 3 %%s placeholders (category, flag, sentence), found %d", n)
	}
	return nil
}

func oneOf(v string, options []string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}
