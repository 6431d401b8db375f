package server

import (
	"context"
	"os"
	"time"

	"github.com/agenthands/echofilter/internal/core"
	"github.com/agenthands/echofilter/internal/core/model"
	"github.com/agenthands/echofilter/internal/store"
)

// MockAnalyzer returns a fixed analysis and saves it like the real pipeline does.
type MockAnalyzer struct {
	Store       store.AnalysisStore
	Err         error
	Request     core.Request
	FileExisted bool
}

func (m *MockAnalyzer) Process(ctx context.Context, req core.Request) (*model.Analysis, error) {
	m.Request = req
	_, statErr := os.Stat(req.AudioPath)
	m.FileExisted = statErr == nil
	if m.Err != nil {
		return nil, m.Err
	}

	conf := 0.9
	a := &model.Analysis{
		ID:         "analysis-1",
		AudioName:  req.AudioName,
		Categories: req.Categories,
		Lines: []model.Line{
			{Index: 0, Segment: "Good morning <script>alert(1)</script>", Category: "gossip", Severity: model.SeveritySafe, Rationale: "Greeting."},
			{Index: 1, Segment: "We beat him up after class.", Category: "bullying", Severity: model.SeverityCritical, Confidence: &conf, Rationale: "Describes physical violence."},
			{Index: 2, Segment: "I heard she got suspended.", Category: "gossip", Severity: model.SeverityWarning, Rationale: "Rumour about a classmate."},
		},
		CreatedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := m.Store.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
