package explain

import (
	"context"
	"errors"
	"testing"

	"github.com/agenthands/echofilter/internal/config"
	"github.com/agenthands/echofilter/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLLM struct {
	response string
	err      error
	prompt   string
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompt = prompt
	return m.response, m.err
}

func TestExplain(t *testing.T) {
	m := &mockLLM{response: "  Rationale: Describes copying answers during an exam, which is academic dishonesty.\n"}
	e := NewExplainer(m, config.DefaultRationalePrompt)

	got, err := e.Explain(context.Background(), "He copied the test.", model.SeverityCritical, "cheating")

	require.NoError(t, err)
	assert.Equal(t, "Describes copying answers during an exam, which is academic dishonesty.", got)
	assert.Contains(t, m.prompt, "Category: cheating is flagged as CRITICAL.")
	assert.Contains(t, m.prompt, `Sentence: "He copied the test."`)
}

func TestExplainStripsEchoedPrompt(t *testing.T) {
	m := &mockLLM{}
	e := NewExplainer(m, "Why is %s %s? %s\nRationale:")
	m.response = "Why is gossip WARNING? they said\nRationale: Spreads a rumour."

	got, err := e.Explain(context.Background(), "they said", model.SeverityWarning, "gossip")

	require.NoError(t, err)
	assert.Equal(t, "Spreads a rumour.", got)
}

func TestExplainError(t *testing.T) {
	e := NewExplainer(&mockLLM{err: errors.New("boom")}, config.DefaultRationalePrompt)

	_, err := e.Explain(context.Background(), "s", model.SeveritySafe, "c")
	assert.ErrorContains(t, err, "boom")
}
