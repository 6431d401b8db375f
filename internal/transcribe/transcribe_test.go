package transcribe

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agenthands/echofilter/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptTextAndLines(t *testing.T) {
	tr := Transcript{Segments: []Segment{
		{Text: "  Hello there. "},
		{Text: ""},
		{Text: "Did you hear about the test?"},
	}}

	assert.Equal(t, "Hello there.\n\nDid you hear about the test?\n", tr.Text())
	assert.Equal(t, []string{"Hello there.", "Did you hear about the test?"}, tr.Lines())
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines("  \n\n "))
	assert.Equal(t, []string{"a", "b"}, SplitLines("\n a \r\n\nb\n"))
}

func TestWriteTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outputs", "translated_transcript.txt")
	tr := Transcript{Segments: []Segment{{Text: "one"}, {Text: "two"}}}

	require.NoError(t, WriteTranscript(path, tr))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}

func TestParseHelperOutput(t *testing.T) {
	out := []byte(`{"language":"en","duration":3.5,"segments":[{"start":0,"end":1.2,"text":" Hi. "},{"start":1.2,"end":3.5,"text":"Bye."}]}`)

	tr, err := parseHelperOutput(out)
	require.NoError(t, err)
	assert.Equal(t, "en", tr.Language)
	assert.Equal(t, 3500*time.Millisecond, tr.Duration)
	require.Len(t, tr.Segments, 2)
	assert.Equal(t, "Hi.", tr.Segments[0].Text)
	assert.Equal(t, 1.2, tr.Segments[1].StartSec)

	_, err = parseHelperOutput([]byte("Traceback"))
	assert.Error(t, err)
}

func TestNewBackend(t *testing.T) {
	b, err := NewBackend(config.TranscriptionConfig{Provider: "openai", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &openAIBackend{}, b)

	b, err = NewBackend(config.TranscriptionConfig{Provider: "faster-whisper", Model: "whisper-1"})
	require.NoError(t, err)
	fw, ok := b.(*fasterWhisperBackend)
	require.True(t, ok)
	assert.Equal(t, "small", fw.model)

	_, err = NewBackend(config.TranscriptionConfig{Provider: "vosk"})
	assert.Error(t, err)
}
