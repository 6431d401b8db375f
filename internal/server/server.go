package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/echofilter/internal/config"
	"github.com/agenthands/echofilter/internal/core"
	"github.com/agenthands/echofilter/internal/core/model"
	"github.com/agenthands/echofilter/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

const tooltipLength = 200

// Analyzer runs the moderation pipeline for one uploaded file.
type Analyzer interface {
	Process(ctx context.Context, req core.Request) (*model.Analysis, error)
}

type Server struct {
	Analyzer Analyzer
	Store    store.AnalysisStore
	Config   *config.Config
}

func New(analyzer Analyzer, st store.AnalysisStore, cfg *config.Config) *Server {
	return &Server{
		Analyzer: analyzer,
		Store:    st,
		Config:   cfg,
	}
}

// NewServer wires model clients, the transcription backend and the store from cfg.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	st, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	p, err := core.Build(ctx, cfg, st)
	if err != nil {
		st.Close()
		return nil, err
	}
	return New(p, st, cfg), nil
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20
	r.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")))

	r.GET("/", s.Index)
	r.POST("/analyze", s.limitUpload(), s.AnalyzeForm)
	r.GET("/analyses/:id", s.ShowAnalysis)
	r.GET("/analyses/:id/analyzed.txt", s.DownloadAnalyzed)
	r.GET("/analyses/:id/redacted.txt", s.DownloadRedacted)

	api := r.Group("/api")
	api.POST("/analyses", s.limitUpload(), s.CreateAnalysis)
	api.GET("/analyses", s.ListAnalyses)
	api.GET("/analyses/:id", s.GetAnalysis)
	api.DELETE("/analyses/:id", s.DeleteAnalysis)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

func (s *Server) maxUploadBytes() int64 {
	return s.Config.Server.MaxUploadMB << 20
}

func (s *Server) limitUpload() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := s.maxUploadBytes()
		if c.Request.ContentLength > limit {
			s.abortTooLarge(c)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

func (s *Server) abortTooLarge(c *gin.Context) {
	msg := fmt.Sprintf("Upload exceeds the %d MB limit.", s.Config.Server.MaxUploadMB)
	if strings.HasPrefix(c.FullPath(), "/api/") {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": msg})
		return
	}
	c.HTML(http.StatusRequestEntityTooLarge, "index.html", indexView{Error: msg})
	c.Abort()
}

var templateFuncs = template.FuncMap{
	"lineNo":     func(i int) int { return i + 1 },
	"pad2":       func(i int) string { return fmt.Sprintf("%02d", i+1) },
	"truncate":   truncate,
	"isCritical": func(sev model.Severity) bool { return sev == model.SeverityCritical },
	"isWarning":  func(sev model.Severity) bool { return sev == model.SeverityWarning },
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= tooltipLength {
		return s
	}
	return string([]rune(s)[:tooltipLength]) + "..."
}
