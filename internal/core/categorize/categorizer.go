package categorize

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/agenthands/echofilter/internal/llm"
	"github.com/agenthands/echofilter/internal/transcribe"
)

var ErrNoCategories = errors.New("at least one category is required")

// Assignment is the category chosen for one transcript sentence.
type Assignment struct {
	Index    int
	Segment  string
	Category string
	Score    float64
}

// Categorizer assigns user-defined categories to sentences by embedding similarity.
type Categorizer struct {
	Embedder   llm.EmbedderClient
	Categories []string

	categoryVecs [][]float32
}

func NewCategorizer(ctx context.Context, embedder llm.EmbedderClient, categories []string) (*Categorizer, error) {
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}

	vecs := make([][]float32, len(categories))
	for i, c := range categories {
		v, err := embedder.Embed(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("failed to embed category %q: %w", c, err)
		}
		vecs[i] = v
	}

	return &Categorizer{
		Embedder:     embedder,
		Categories:   categories,
		categoryVecs: vecs,
	}, nil
}

// ClassifySegment returns the index and cosine score of the closest category.
func (c *Categorizer) ClassifySegment(ctx context.Context, segment string) (int, float64, error) {
	vec, err := c.Embedder.Embed(ctx, segment)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to embed segment: %w", err)
	}
	idx, score := c.closest(vec)
	return idx, score, nil
}

func (c *Categorizer) closest(vec []float32) (int, float64) {
	bestIdx, bestScore := 0, math.Inf(-1)
	for i, cv := range c.categoryVecs {
		if s := CosineSimilarity(vec, cv); s > bestScore {
			bestIdx, bestScore = i, s
		}
	}
	return bestIdx, bestScore
}

// ClassifyWithContext scores each sentence alone and inside a window with its
// neighbours, keeping whichever scores higher. The sentence alone wins ties.
func (c *Categorizer) ClassifyWithContext(ctx context.Context, sentences []string) ([]Assignment, error) {
	results := make([]Assignment, 0, len(sentences))
	n := len(sentences)

	for i, current := range sentences {
		var prev, next string
		if i > 0 {
			prev = sentences[i-1]
		}
		if i < n-1 {
			next = sentences[i+1]
		}

		idx, score, err := c.ClassifySegment(ctx, current)
		if err != nil {
			return nil, err
		}

		if prev != "" || next != "" {
			window := strings.TrimSpace(prev + " " + current + " " + next)
			ctxIdx, ctxScore, err := c.ClassifySegment(ctx, window)
			if err != nil {
				return nil, err
			}
			if ctxScore > score {
				idx, score = ctxIdx, ctxScore
			}
		}

		results = append(results, Assignment{
			Index:    i,
			Segment:  current,
			Category: c.Categories[idx],
			Score:    score,
		})
	}

	return results, nil
}

// AnalyzeTranscript splits a newline separated transcript and classifies each line in context.
func (c *Categorizer) AnalyzeTranscript(ctx context.Context, transcript string) ([]Assignment, error) {
	return c.ClassifyWithContext(ctx, transcribe.SplitLines(transcript))
}

// CosineSimilarity returns 0 for zero-length, zero-norm or mismatched vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
