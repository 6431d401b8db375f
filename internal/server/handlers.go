package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agenthands/echofilter/internal/core"
	"github.com/agenthands/echofilter/internal/core/model"
	"github.com/agenthands/echofilter/internal/report"
	"github.com/agenthands/echofilter/internal/store"
)

var allowedExtensions = map[string]bool{".wav": true, ".mp3": true}

type indexView struct {
	Error      string
	Categories string
	Recent     []model.Summary
}

type resultView struct {
	Analysis *model.Analysis
	Counts   severityCounts
}

type severityCounts struct {
	Safe, Warning, Critical, Unknown int
}

func newResultView(a *model.Analysis) resultView {
	c := a.Counts()
	return resultView{
		Analysis: a,
		Counts: severityCounts{
			Safe:     c[model.SeveritySafe],
			Warning:  c[model.SeverityWarning],
			Critical: c[model.SeverityCritical],
			Unknown:  c[model.SeverityUnknown],
		},
	}
}

type uploadError struct {
	status int
	msg    string
}

func (e *uploadError) Error() string { return e.msg }

func (s *Server) Index(c *gin.Context) {
	recent, err := s.Store.List(c.Request.Context(), 10)
	if err != nil {
		log.Printf("Failed to list analyses: %v", err)
	}
	c.HTML(http.StatusOK, "index.html", indexView{Recent: recent})
}

// AnalyzeForm handles the browser upload and renders the annotated transcript.
func (s *Server) AnalyzeForm(c *gin.Context) {
	categories := c.PostForm("categories")

	a, err := s.processUpload(c)
	if err != nil {
		status, msg := s.errorStatus(err)
		c.HTML(status, "index.html", indexView{Error: msg, Categories: categories})
		return
	}

	c.HTML(http.StatusOK, "result.html", newResultView(a))
}

func (s *Server) CreateAnalysis(c *gin.Context) {
	a, err := s.processUpload(c)
	if err != nil {
		status, msg := s.errorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (s *Server) processUpload(c *gin.Context) (*model.Analysis, error) {
	file, err := c.FormFile("audio")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &uploadError{http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds the %d MB limit.", s.Config.Server.MaxUploadMB)}
		}
		return nil, core.ErrNoAudio
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return nil, &uploadError{http.StatusBadRequest, "Only .wav and .mp3 files are supported."}
	}

	categories := append(core.SplitCategories(c.PostForm("categories")), c.PostFormArray("category")...)
	categories = core.NormalizeCategories(categories)
	if len(categories) == 0 {
		return nil, core.ErrNoCategories
	}

	if err := os.MkdirAll(s.Config.Server.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	dst := filepath.Join(s.Config.Server.UploadDir, uuid.New().String()+ext)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}
	if !s.Config.Server.KeepUploads {
		defer os.Remove(dst)
	}

	return s.Analyzer.Process(c.Request.Context(), core.Request{
		AudioPath:  dst,
		AudioName:  filepath.Base(file.Filename),
		Categories: categories,
	})
}

func (s *Server) errorStatus(err error) (int, string) {
	var ue *uploadError
	switch {
	case errors.As(err, &ue):
		return ue.status, ue.msg
	case errors.Is(err, core.ErrNoAudio):
		return http.StatusBadRequest, "Please upload an audio file."
	case errors.Is(err, core.ErrNoCategories):
		return http.StatusBadRequest, "Please enter at least one category."
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "Analysis not found."
	default:
		log.Printf("Failed to process request: %v", err)
		return http.StatusInternalServerError, "Failed to process audio."
	}
}

func (s *Server) loadAnalysis(c *gin.Context) (*model.Analysis, bool) {
	a, err := s.Store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, msg := s.errorStatus(err)
		c.String(status, msg)
		return nil, false
	}
	return a, true
}

func (s *Server) ShowAnalysis(c *gin.Context) {
	a, ok := s.loadAnalysis(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "result.html", newResultView(a))
}

func (s *Server) DownloadAnalyzed(c *gin.Context) {
	a, ok := s.loadAnalysis(c)
	if !ok {
		return
	}
	attachment(c, report.AnalyzedFileName, report.Analyzed(a))
}

func (s *Server) DownloadRedacted(c *gin.Context) {
	a, ok := s.loadAnalysis(c)
	if !ok {
		return
	}
	attachment(c, report.RedactedFileName, report.Redacted(a))
}

func attachment(c *gin.Context, name, body string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.String(http.StatusOK, body)
}

func (s *Server) ListAnalyses(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}

	list, err := s.Store.List(c.Request.Context(), limit)
	if err != nil {
		log.Printf("Failed to list analyses: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list analyses"})
		return
	}
	if list == nil {
		list = []model.Summary{}
	}
	c.JSON(http.StatusOK, gin.H{"analyses": list})
}

func (s *Server) GetAnalysis(c *gin.Context) {
	a, err := s.Store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, msg := s.errorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) DeleteAnalysis(c *gin.Context) {
	if err := s.Store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		status, msg := s.errorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.Status(http.StatusNoContent)
}
