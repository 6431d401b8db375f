package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/echofilter/internal/config"
	"github.com/agenthands/echofilter/internal/core/model"
	"github.com/agenthands/echofilter/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Server, *MockAnalyzer, *gin.Engine) {
	t.Helper()
	cfg := config.Default()
	cfg.Server.UploadDir = t.TempDir()
	st := store.NewMemoryStore()
	analyzer := &MockAnalyzer{Store: st}
	s := New(analyzer, st, cfg)
	return s, analyzer, s.SetupRouter()
}

func multipartBody(t *testing.T, filename string, content []byte, fields map[string][]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile("audio", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func do(r http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIndex(t *testing.T) {
	_, _, r := newTestServer(t)

	w := do(r, http.MethodGet, "/", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Process Audio")
	assert.Contains(t, w.Body.String(), `enctype="multipart/form-data"`)
}

func TestAnalyzeFormValidation(t *testing.T) {
	_, analyzer, r := newTestServer(t)

	tests := []struct {
		name     string
		filename string
		fields   map[string][]string
		want     string
	}{
		{"missing audio", "", map[string][]string{"categories": {"bullying"}}, "Please upload an audio file."},
		{"wrong type", "notes.txt", map[string][]string{"categories": {"bullying"}}, "Only .wav and .mp3 files are supported."},
		{"missing categories", "clip.wav", map[string][]string{"categories": {" , \n"}}, "Please enter at least one category."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, tt.filename, []byte("RIFF"), tt.fields)
			w := do(r, http.MethodPost, "/analyze", body, ct)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
	assert.Empty(t, analyzer.Request.AudioPath)
}

func TestAnalyzeFormRendersResult(t *testing.T) {
	_, analyzer, r := newTestServer(t)

	body, ct := multipartBody(t, "recess.MP3", []byte("ID3"), map[string][]string{
		"categories": {"bullying, gossip\nbullying"},
	})
	w := do(r, http.MethodPost, "/analyze", body, ct)

	require.Equal(t, http.StatusOK, w.Code)
	html := w.Body.String()

	assert.Equal(t, "recess.MP3", analyzer.Request.AudioName)
	assert.Equal(t, []string{"bullying", "gossip"}, analyzer.Request.Categories)
	assert.True(t, analyzer.FileExisted)
	assert.True(t, strings.HasSuffix(analyzer.Request.AudioPath, ".mp3"))
	_, err := os.Stat(analyzer.Request.AudioPath)
	assert.True(t, os.IsNotExist(err), "upload should be removed after processing")

	assert.Contains(t, html, `class="transcript-line critical"`)
	assert.Contains(t, html, `<span class="severity-badge critical-badge">CRITICAL</span>`)
	assert.Contains(t, html, "<strong>Confidence:</strong> 0.900")
	assert.Contains(t, html, "<strong>Confidence:</strong> N/A")
	assert.Contains(t, html, "[REDACTED: bullying]")
	assert.Contains(t, html, "(flagged as gossip)")
	assert.Contains(t, html, "[02] ")
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "/analyses/analysis-1/redacted.txt")
}

func TestAnalyzeFormPipelineError(t *testing.T) {
	_, analyzer, r := newTestServer(t)
	analyzer.Err = errors.New("whisper unavailable")

	body, ct := multipartBody(t, "clip.wav", []byte("RIFF"), map[string][]string{"categories": {"bullying"}})
	w := do(r, http.MethodPost, "/analyze", body, ct)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to process audio.")
	assert.Contains(t, w.Body.String(), "bullying")
}

func TestUploadTooLarge(t *testing.T) {
	s, _, r := newTestServer(t)
	s.Config.Server.MaxUploadMB = 1

	body, ct := multipartBody(t, "clip.wav", bytes.Repeat([]byte{0}, 2<<20), map[string][]string{"categories": {"bullying"}})
	w := do(r, http.MethodPost, "/api/analyses", body, ct)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "1 MB")
}

func TestAPIFlow(t *testing.T) {
	_, _, r := newTestServer(t)

	body, ct := multipartBody(t, "clip.wav", []byte("RIFF"), map[string][]string{"category": {"bullying", "gossip"}})
	w := do(r, http.MethodPost, "/api/analyses", body, ct)
	require.Equal(t, http.StatusCreated, w.Code)

	var created model.Analysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "analysis-1", created.ID)
	assert.Equal(t, []string{"bullying", "gossip"}, created.Categories)
	require.Len(t, created.Lines, 3)
	assert.Equal(t, model.SeverityCritical, created.Lines[1].Severity)

	w = do(r, http.MethodGet, "/api/analyses", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Analyses []model.Summary `json:"analyses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Analyses, 1)
	assert.Equal(t, 1, list.Analyses[0].Critical)

	w = do(r, http.MethodGet, "/api/analyses/analysis-1", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/analyses/analysis-1/redacted.txt", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Good morning <script>alert(1)</script>\n[REDACTED: bullying]\nI heard she got suspended.\n", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "redacted_transcript.txt")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	w = do(r, http.MethodGet, "/analyses/analysis-1/analyzed.txt", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Line 2: We beat him up after class.\n  Category: bullying\n  Severity: CRITICAL\n  Confidence: 0.900\n")

	w = do(r, http.MethodGet, "/analyses/analysis-1", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodDelete, "/api/analyses/analysis-1", nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/api/analyses/analysis-1", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/analyses/analysis-1/redacted.txt", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAnalysesInvalidLimit(t *testing.T) {
	_, _, r := newTestServer(t)

	w := do(r, http.MethodGet, "/api/analyses?limit=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/analyses", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"analyses": []}`, w.Body.String())
}

func TestHealthz(t *testing.T) {
	_, _, r := newTestServer(t)
	w := do(r, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))
	long := strings.Repeat("é", 250)
	got := truncate(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, 203, len([]rune(got)))
}
