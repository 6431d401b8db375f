package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/echofilter/internal/config"
	"github.com/agenthands/echofilter/internal/core/categorize"
	"github.com/agenthands/echofilter/internal/core/explain"
	"github.com/agenthands/echofilter/internal/core/model"
	"github.com/agenthands/echofilter/internal/core/severity"
	"github.com/agenthands/echofilter/internal/llm"
	"github.com/agenthands/echofilter/internal/transcribe"
)

var (
	ErrNoAudio      = errors.New("please upload an audio file")
	ErrNoCategories = errors.New("please enter at least one category")
)

// AnalysisSaver persists finished analyses.
type AnalysisSaver interface {
	Save(ctx context.Context, a *model.Analysis) error
}

type Request struct {
	AudioPath  string
	AudioName  string
	Categories []string
}

// Pipeline runs transcription, categorisation, severity classification and
// rationale generation for one audio file.
type Pipeline struct {
	Transcriber transcribe.Backend
	Embedder    llm.EmbedderClient
	Severity    *severity.Classifier
	Explainer   *explain.Explainer
	Store       AnalysisSaver
	Config      *config.Config

	UUIDGenerator func() string
	Now           func() time.Time
}

func NewPipeline(transcriber transcribe.Backend, embedder llm.EmbedderClient, llmClient llm.LLMClient, store AnalysisSaver, cfg *config.Config) *Pipeline {
	return &Pipeline{
		Transcriber:   transcriber,
		Embedder:      embedder,
		Severity:      severity.NewClassifier(llmClient, cfg.Prompts.Severity),
		Explainer:     explain.NewExplainer(llmClient, cfg.Prompts.Rationale),
		Store:         store,
		Config:        cfg,
		UUIDGenerator: func() string { return uuid.New().String() },
		Now:           func() time.Time { return time.Now().UTC() },
	}
}

// Process transcribes the audio file and analyses the resulting transcript.
func (p *Pipeline) Process(ctx context.Context, req Request) (*model.Analysis, error) {
	if strings.TrimSpace(req.AudioPath) == "" {
		return nil, ErrNoAudio
	}
	categories := NormalizeCategories(req.Categories)
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}

	log.Printf("Transcribing %s", req.AudioPath)
	tr, err := p.Transcriber.Transcribe(ctx, req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	if out := p.Config.Transcription.OutputPath; out != "" {
		if err := transcribe.WriteTranscript(out, tr); err != nil {
			log.Printf("Warning: %v", err)
		} else {
			log.Printf("Initial transcript saved to %s", out)
		}
	}

	name := req.AudioName
	if name == "" {
		name = req.AudioPath
	}
	return p.Analyze(ctx, name, tr.Text(), categories)
}

// Analyze categorises, classifies and explains every line of an existing transcript.
func (p *Pipeline) Analyze(ctx context.Context, audioName, transcript string, categories []string) (*model.Analysis, error) {
	categories = NormalizeCategories(categories)
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}

	categorizer, err := categorize.NewCategorizer(ctx, p.Embedder, categories)
	if err != nil {
		return nil, fmt.Errorf("categorizer setup failed: %w", err)
	}

	assignments, err := categorizer.AnalyzeTranscript(ctx, transcript)
	if err != nil {
		return nil, fmt.Errorf("categorization failed: %w", err)
	}
	log.Printf("Categorized %d lines into %d categories", len(assignments), len(categories))

	lines := make([]model.Line, len(assignments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, p.Config.Concurrency.Lines))
	for i, a := range assignments {
		g.Go(func() error {
			line, err := p.annotate(gctx, a)
			if err != nil {
				return fmt.Errorf("line %d: %w", a.Index+1, err)
			}
			lines[i] = line
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	analysis := &model.Analysis{
		ID:         p.UUIDGenerator(),
		AudioName:  audioName,
		Categories: categories,
		Transcript: transcript,
		Lines:      lines,
		CreatedAt:  p.Now(),
	}

	if p.Store != nil {
		if err := p.Store.Save(ctx, analysis); err != nil {
			return nil, fmt.Errorf("failed to save analysis: %w", err)
		}
	}

	return analysis, nil
}

func (p *Pipeline) annotate(ctx context.Context, a categorize.Assignment) (model.Line, error) {
	line := model.Line{
		Index:    a.Index,
		Segment:  a.Segment,
		Category: a.Category,
		Score:    a.Score,
	}

	if strings.EqualFold(a.Category, p.Config.Analysis.GeneralCategory) {
		line.Severity = model.SeveritySafe
	} else {
		res, err := p.Severity.Classify(ctx, a.Segment, a.Category)
		if err != nil {
			return model.Line{}, err
		}
		line.Severity = res.Severity
		line.Confidence = res.Confidence
	}

	rationale, err := p.Explainer.Explain(ctx, a.Segment, line.Severity, a.Category)
	if err != nil {
		return model.Line{}, err
	}
	line.Rationale = rationale

	return line, nil
}

// NormalizeCategories trims entries, drops blanks and removes case-insensitive duplicates.
func NormalizeCategories(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, c := range in {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if c == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// SplitCategories parses a comma or newline separated tag list.
func SplitCategories(s string) []string {
	return NormalizeCategories(strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	}))
}
