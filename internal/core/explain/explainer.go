package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/echofilter/internal/core/model"
	"github.com/agenthands/echofilter/internal/llm"
)

// Explainer generates a short rationale for why a sentence received its severity.
type Explainer struct {
	LLM    llm.LLMClient
	Prompt string
}

func NewExplainer(llmClient llm.LLMClient, prompt string) *Explainer {
	return &Explainer{
		LLM:    llmClient,
		Prompt: prompt,
	}
}

func (e *Explainer) Explain(ctx context.Context, sentence string, sev model.Severity, category string) (string, error) {
	prompt := strings.TrimSpace(fmt.Sprintf(e.Prompt, category, sev.Upper(), sentence))

	response, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate rationale: %w", err)
	}

	return cleanRationale(prompt, response), nil
}

// Completion-style models echo the prompt before the answer.
func cleanRationale(prompt, response string) string {
	out := strings.TrimSpace(response)
	out = strings.TrimSpace(strings.TrimPrefix(out, prompt))
	for _, prefix := range []string{"Rationale:", "rationale:", "**Rationale:**"} {
		out = strings.TrimSpace(strings.TrimPrefix(out, prefix))
	}
	return out
}
