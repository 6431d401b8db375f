package core

import (
	"context"
	"fmt"
	"log"

	"github.com/agenthands/echofilter/internal/config"
	"github.com/agenthands/echofilter/internal/llm"
	"github.com/agenthands/echofilter/internal/transcribe"
)

// Build wires the model clients and transcription backend named in cfg into a Pipeline.
// store may be nil.
func Build(ctx context.Context, cfg *config.Config, store AnalysisSaver) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	embedder, err := llm.NewEmbedder(ctx, cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	transcriber, err := transcribe.NewBackend(cfg.Transcription)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize transcriber: %w", err)
	}

	log.Printf("Using LLM %s/%s, embeddings %s/%s, transcription %s",
		cfg.LLM.Provider, cfg.LLM.Model, cfg.Embedding.Provider, cfg.Embedding.Model, cfg.Transcription.Provider)

	return NewPipeline(transcriber, embedder, llmClient, store, cfg), nil
}
