package severity

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agenthands/echofilter/internal/core/common"
	"github.com/agenthands/echofilter/internal/core/model"
	"github.com/agenthands/echofilter/internal/llm"
)

// Result is a severity label and, for recognised labels, the model's confidence.
type Result struct {
	Severity   model.Severity
	Confidence *float64
}

type labelReply struct {
	Severity   string `json:"severity"`
	Confidence any    `json:"confidence"`
}

// Classifier asks a language model whether a categorised sentence is Safe, Warning or Critical.
type Classifier struct {
	LLM    llm.LLMClient
	Prompt string
}

func NewClassifier(llmClient llm.LLMClient, prompt string) *Classifier {
	return &Classifier{
		LLM:    llmClient,
		Prompt: prompt,
	}
}

func (c *Classifier) Classify(ctx context.Context, sentence, category string) (Result, error) {
	prompt := fmt.Sprintf(c.Prompt, sentence, category)

	response, err := c.LLM.Generate(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("failed to classify severity: %w", err)
	}

	return ParseReply(response), nil
}

// ParseReply reads a JSON reply, falling back to the first recognised label
// word when the model answered in prose (e.g. "Severity: Critical").
func ParseReply(response string) Result {
	reply, err := common.ParseJSON[labelReply](response)
	if err != nil {
		return Result{Severity: scanLabel(response)}
	}

	label := model.ParseSeverity(reply.Severity)
	conf, ok := parseConfidence(reply.Confidence)
	if label == model.SeverityUnknown || !ok {
		return Result{Severity: label}
	}

	conf = math.Round(clamp(conf)*1000) / 1000
	return Result{Severity: label, Confidence: &conf}
}

func scanLabel(response string) model.Severity {
	for _, word := range strings.Fields(response) {
		if sev := model.ParseSeverity(word); sev != model.SeverityUnknown {
			return sev
		}
	}
	return model.SeverityUnknown
}

// Models sometimes quote the number; anything non-numeric means no confidence.
func parseConfidence(v any) (float64, bool) {
	switch c := v.(type) {
	case float64:
		return c, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
