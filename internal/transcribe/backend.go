package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agenthands/echofilter/internal/config"
)

// Segment is one span of recognised speech.
type Segment struct {
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	Text     string  `json:"text"`
}

// Transcript bundles the segments of one audio file.
type Transcript struct {
	Language string        `json:"language,omitempty"`
	Duration time.Duration `json:"duration"`
	Segments []Segment     `json:"segments"`
}

// Backend turns an audio file into a transcript.
type Backend interface {
	Transcribe(ctx context.Context, audioPath string) (Transcript, error)
}

// Text renders one stripped segment per line.
func (t Transcript) Text() string {
	var b strings.Builder
	for _, s := range t.Segments {
		b.WriteString(strings.TrimSpace(s.Text))
		b.WriteByte('\n')
	}
	return b.String()
}

// Lines returns the non-blank, trimmed transcript lines.
func (t Transcript) Lines() []string {
	return SplitLines(t.Text())
}

// SplitLines splits text on newlines, trimming each line and dropping blank ones.
func SplitLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(text), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// WriteTranscript saves the plain-text transcript, creating parent directories.
func WriteTranscript(path string, t Transcript) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create transcript dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(t.Text()), 0o644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}

// NewBackend picks the backend named by cfg.Provider.
func NewBackend(cfg config.TranscriptionConfig) (Backend, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIBackend(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Language), nil
	case "faster-whisper":
		model := cfg.Model
		if model == "" || model == "whisper-1" {
			model = "small"
		}
		return NewFasterWhisperBackend(model, cfg.Device, cfg.Python), nil
	default:
		return nil, fmt.Errorf("unsupported transcription provider: %s", cfg.Provider)
	}
}
