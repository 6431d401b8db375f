package core

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/agenthands/echofilter/internal/core/model"
	"github.com/agenthands/echofilter/internal/transcribe"
)

type MockTranscriber struct {
	Transcript transcribe.Transcript
	Err        error
	Path       string
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audioPath string) (transcribe.Transcript, error) {
	m.Path = audioPath
	if m.Err != nil {
		return transcribe.Transcript{}, m.Err
	}
	return m.Transcript, nil
}

type MockEmbedder struct {
	Vectors map[string][]float32
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	v, ok := m.Vectors[text]
	if !ok {
		return nil, fmt.Errorf("no vector for %q", text)
	}
	return v, nil
}

// MockLLM answers by the first registered substring found in the prompt.
// Lines run concurrently, so it records prompts under a lock.
type MockLLM struct {
	mu      sync.Mutex
	Rules   []MockRule
	Err     error
	Prompts []string
}

type MockRule struct {
	Contains string
	Response string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	for _, r := range m.Rules {
		if strings.Contains(prompt, r.Contains) {
			return r.Response, nil
		}
	}
	return "", fmt.Errorf("no mock rule for prompt")
}

type MockStore struct {
	Saved []*model.Analysis
	Err   error
}

func (m *MockStore) Save(ctx context.Context, a *model.Analysis) error {
	if m.Err != nil {
		return m.Err
	}
	m.Saved = append(m.Saved, a)
	return nil
}
