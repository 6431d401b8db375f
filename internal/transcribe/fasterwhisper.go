package transcribe

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

//go:embed assets/faster_whisper.py
var fwScript []byte

type fasterWhisperBackend struct {
	model  string
	device string // auto|cpu|cuda
	python string
}

func NewFasterWhisperBackend(model, device, python string) Backend {
	return &fasterWhisperBackend{model: model, device: device, python: python}
}

type fwOut struct {
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// The helper runs from a temp file rather than `python -c` so its argparse
// flags and tracebacks behave like a normal script. Each call gets its own
// file, so concurrent transcriptions never share one.
func (f *fasterWhisperBackend) Transcribe(ctx context.Context, audioPath string) (Transcript, error) {
	script, err := os.CreateTemp("", "echofilter_faster_whisper_*.py")
	if err != nil {
		return Transcript{}, fmt.Errorf("create helper script: %w", err)
	}
	defer os.Remove(script.Name())
	if _, err := script.Write(fwScript); err != nil {
		script.Close()
		return Transcript{}, fmt.Errorf("write helper script: %w", err)
	}
	script.Close()

	device := f.device
	if device == "" {
		device = "auto"
	}
	py := f.python
	if py == "" {
		py = "python3"
	}

	cmd := exec.CommandContext(ctx, py, script.Name(), "--audio", audioPath, "--model", f.model, "--device", device)
	cmd.Env = os.Environ()
	out, err := cmd.Output()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return Transcript{}, fmt.Errorf("faster-whisper failed: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return Transcript{}, fmt.Errorf("run helper: %w", err)
	}
	return parseHelperOutput(out)
}

func parseHelperOutput(out []byte) (Transcript, error) {
	var parsed fwOut
	if err := json.Unmarshal(out, &parsed); err != nil {
		return Transcript{}, fmt.Errorf("parse helper output: %w\n%s", err, string(out))
	}
	tr := Transcript{Language: parsed.Language, Duration: time.Duration(parsed.Duration * float64(time.Second))}
	for _, s := range parsed.Segments {
		tr.Segments = append(tr.Segments, Segment{StartSec: s.Start, EndSec: s.End, Text: strings.TrimSpace(s.Text)})
	}
	return tr, nil
}
