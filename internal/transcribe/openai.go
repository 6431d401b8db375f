package transcribe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAI speech-to-text via audio.transcriptions
type openAIBackend struct {
	client   *openai.Client
	model    string
	language string
}

func NewOpenAIBackend(apiKey, model, baseURL, language string) Backend {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &openAIBackend{
		client:   openai.NewClientWithConfig(config),
		model:    model,
		language: language,
	}
}

func (o *openAIBackend) Transcribe(ctx context.Context, audioPath string) (Transcript, error) {
	// verbose_json is the only format that carries segment timings.
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: audioPath,
		Language: o.language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return Transcript{}, fmt.Errorf("openai transcription: %w", err)
	}

	t := Transcript{
		Language: resp.Language,
		Duration: time.Duration(resp.Duration * float64(time.Second)),
	}
	for _, s := range resp.Segments {
		t.Segments = append(t.Segments, Segment{StartSec: s.Start, EndSec: s.End, Text: strings.TrimSpace(s.Text)})
	}
	if len(t.Segments) == 0 && strings.TrimSpace(resp.Text) != "" {
		t.Segments = []Segment{{Text: strings.TrimSpace(resp.Text)}}
	}
	return t, nil
}
