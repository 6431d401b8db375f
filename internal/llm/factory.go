package llm

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/agenthands/echofilter/internal/config"
)

// NewClient builds the text generation client used for severity and rationale prompts.
func NewClient(ctx context.Context, cfg config.LLMConfig) (LLMClient, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, "", cfg.BaseURL), nil

	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model, "")

	case "claude":
		return NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "ollama":
		baseURL := ollamaBaseURL(cfg.BaseURL)
		log.Printf("Initializing Ollama via OpenAI-compatible API at %s", baseURL)
		return NewOpenAIClient(ollamaKey(cfg.APIKey), cfg.Model, "", baseURL), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}

// NewEmbedder builds the sentence embedding client used by the categorizer.
func NewEmbedder(ctx context.Context, cfg config.EmbeddingConfig) (EmbedderClient, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "openai":
		return NewOpenAIClient(cfg.APIKey, "", cfg.Model, cfg.BaseURL), nil

	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, "", cfg.Model)

	case "ollama":
		return NewOpenAIClient(ollamaKey(cfg.APIKey), "", cfg.Model, ollamaBaseURL(cfg.BaseURL)), nil

	case "claude":
		return nil, fmt.Errorf("embeddings not supported by Claude; pick another embedding provider")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}

func ollamaBaseURL(baseURL string) string {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
	}
	return baseURL
}

// Ollama ignores the key but the OpenAI client requires one.
func ollamaKey(apiKey string) string {
	if apiKey == "" {
		return "ollama"
	}
	return apiKey
}
