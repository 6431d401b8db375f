package store

import (
	"context"
	"errors"

	"github.com/agenthands/echofilter/internal/core/model"
)

var ErrNotFound = errors.New("analysis not found")

type AnalysisStore interface {
	Save(ctx context.Context, a *model.Analysis) error
	Get(ctx context.Context, id string) (*model.Analysis, error)
	List(ctx context.Context, limit int) ([]model.Summary, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
